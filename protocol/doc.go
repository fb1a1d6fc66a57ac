/*
Package protocol exposes the locker protocol as typed Go calls.

A Protocol owns an app.Engine running the cash, countrylist and locker
extensions behind signature verification. Every call signs a message with
the given keys, delivers it and returns the resulting record or a typed
error from the errors package or the extension packages.

	p := protocol.New(db, lockbox.SystemClock{}, "lockbox-main")
	l, err := p.CreateLocker(ctx, &locker.CreateLockerMsg{...}, alice)
*/
package protocol
