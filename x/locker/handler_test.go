package locker

import (
	"context"
	"testing"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/gconf"
	"github.com/lockbox-labs/lockbox/lockboxtest"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
	"github.com/lockbox-labs/lockbox/store"
	"github.com/lockbox-labs/lockbox/x"
	"github.com/lockbox-labs/lockbox/x/cash"
	"github.com/lockbox-labs/lockbox/x/countrylist"
)

type registry map[string]lockbox.Handler

func (r registry) Handle(path string, h lockbox.Handler) { r[path] = h }

type fixture struct {
	t      testing.TB
	db     lockbox.CacheableKVStore
	auth   *lockboxtest.CtxAuth
	routes registry
	bank   cash.BaseController
	now    lockbox.UnixTime

	admin, feeWallet, asset, banlist lockbox.Address
}

// newFixture returns a store with a banlist banning KP and the locker
// configuration stored. The configuration can be changed by mod before
// it is saved.
func newFixture(t testing.TB, mod func(*Config)) *fixture {
	t.Helper()
	ctxAuth := &lockboxtest.CtxAuth{Key: "auth"}
	auth := x.ChainAuth(ctxAuth, x.DerivedAuth{})
	f := &fixture{
		t:         t,
		db:        store.MemStore(),
		auth:      ctxAuth,
		routes:    registry{},
		bank:      cash.NewController(auth),
		now:       1000,
		admin:     lockboxtest.NewAddress(),
		feeWallet: lockboxtest.NewAddress(),
		asset:     lockboxtest.NewAddress(),
	}
	lists := countrylist.NewController(auth)
	RegisterRoutes(f.routes, auth, f.bank, lists)

	ctx := ctxAuth.SetAddresses(context.Background(), f.admin)
	banlist, _, err := lists.Create(ctx, f.db, f.admin, []string{"KP"})
	assert.Nil(t, err)
	f.banlist = banlist

	conf := &Config{
		Admin:               f.admin,
		FeeWallet:           f.feeWallet,
		FeeFlatAmount:       2,
		FeeTokenNumerator:   35,
		FeeTokenDenominator: 10000,
		HasLinearEmission:   true,
		CountryList:         banlist,
	}
	if mod != nil {
		mod(conf)
	}
	assert.Nil(t, gconf.Save(f.db, ConfigPkg, conf))
	return f
}

// deliver runs the message the way the engine does, on a cache that is
// written only on success.
func (f *fixture) deliver(msg lockbox.Msg, signers ...lockbox.Address) (*lockbox.DeliverResult, error) {
	ctx := lockbox.WithBlockTime(context.Background(), f.now)
	ctx = f.auth.SetAddresses(ctx, signers...)
	h, ok := f.routes[msg.Path()]
	if !ok {
		f.t.Fatalf("no handler for %s", msg.Path())
	}
	tx := &lockboxtest.Tx{Msg: msg}
	if _, err := h.Check(ctx, f.db, tx); err != nil {
		return nil, err
	}
	cache := f.db.CacheWrap()
	res, err := h.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	assert.Nil(f.t, cache.Write())
	return res, nil
}

func (f *fixture) balance(owner, asset lockbox.Address) uint64 {
	f.t.Helper()
	b, err := f.bank.Balance(f.db, owner, asset)
	assert.Nil(f.t, err)
	return b
}

func (f *fixture) create(msg *CreateLockerMsg) *Locker {
	f.t.Helper()
	res, err := f.deliver(msg, msg.Creator)
	assert.Nil(f.t, err)
	return res.Data.(*Locker)
}

func TestCreateLockerValidation(t *testing.T) {
	alice := lockboxtest.NewAddress()

	cases := map[string]struct {
		conf    func(*Config)
		msg     func(f *fixture) *CreateLockerMsg
		signer  func(f *fixture) lockbox.Address
		wantErr *errors.Error
	}{
		"valid cliff": {
			msg: func(f *fixture) *CreateLockerMsg { return cliffMsg(f, alice) },
		},
		"valid linear": {
			msg: func(f *fixture) *CreateLockerMsg {
				m := cliffMsg(f, alice)
				m.StartEmission = f.now
				return m
			},
		},
		"zero amount": {
			msg: func(f *fixture) *CreateLockerMsg {
				m := cliffMsg(f, alice)
				m.Amount = 0
				return m
			},
			wantErr: errors.ErrAmount,
		},
		"unlock in milliseconds": {
			msg: func(f *fixture) *CreateLockerMsg {
				m := cliffMsg(f, alice)
				m.UnlockDate = 1_700_000_000_000
				return m
			},
			wantErr: ErrInvalidUnlockDate,
		},
		"unlock now": {
			msg: func(f *fixture) *CreateLockerMsg {
				m := cliffMsg(f, alice)
				m.UnlockDate = f.now
				return m
			},
			wantErr: ErrInvalidUnlockDate,
		},
		"linear emission disabled": {
			conf: func(c *Config) { c.HasLinearEmission = false },
			msg: func(f *fixture) *CreateLockerMsg {
				m := cliffMsg(f, alice)
				m.StartEmission = f.now
				return m
			},
			wantErr: ErrLinearEmissionDisabled,
		},
		"emission starting at unlock": {
			msg: func(f *fixture) *CreateLockerMsg {
				m := cliffMsg(f, alice)
				m.StartEmission = m.UnlockDate
				return m
			},
			wantErr: ErrInvalidUnlockDate,
		},
		"banned country": {
			msg: func(f *fixture) *CreateLockerMsg {
				m := cliffMsg(f, alice)
				m.CountryCode = "KP"
				return m
			},
			wantErr: ErrJurisdictionBanned,
		},
		"asset not admitted": {
			conf:    func(c *Config) { c.MintInfoPermissioned = true },
			msg:     func(f *fixture) *CreateLockerMsg { return cliffMsg(f, alice) },
			wantErr: ErrAssetNotAdmitted,
		},
		"creator did not sign": {
			msg:     func(f *fixture) *CreateLockerMsg { return cliffMsg(f, alice) },
			signer:  func(f *fixture) lockbox.Address { return f.admin },
			wantErr: errors.ErrUnauthorized,
		},
		"funds missing": {
			msg: func(f *fixture) *CreateLockerMsg {
				m := cliffMsg(f, alice)
				m.Amount = 1_000_000
				return m
			},
			wantErr: errors.ErrInsufficientFunds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.conf)
			assert.Nil(t, f.bank.Issue(f.db, f.asset, alice, 100000))

			signer := alice
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			msg := tc.msg(f)
			_, err := f.deliver(msg, signer)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				// Nothing was moved.
				assert.Equal(t, uint64(100000), f.balance(alice, f.asset))
				assert.Equal(t, uint64(0), f.balance(f.feeWallet, f.asset))
				return
			}
			assert.Nil(t, err)
		})
	}
}

func cliffMsg(f *fixture, creator lockbox.Address) *CreateLockerMsg {
	return &CreateLockerMsg{
		Creator:     creator,
		Owner:       creator,
		Asset:       f.asset,
		Amount:      10000,
		UnlockDate:  f.now + 4,
		CountryCode: "PL",
	}
}

func TestLockerLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	alice := lockboxtest.NewAddress()
	bob := lockboxtest.NewAddress()
	assert.Nil(t, f.bank.Issue(f.db, f.asset, alice, 100000))
	assert.Nil(t, f.bank.Issue(f.db, f.asset, bob, 1000))

	l := f.create(cliffMsg(f, alice))
	wantID, _, err := NewLockerAddress(alice, 1)
	assert.Nil(t, err)
	assert.Equal(t, wantID, l.ID)
	// 0.35% token fee.
	assert.Equal(t, uint64(9965), l.DepositedAmount)
	assert.Equal(t, uint64(35), f.balance(f.feeWallet, f.asset))
	assert.Equal(t, uint64(90000), f.balance(alice, f.asset))
	assert.Equal(t, uint64(9965), f.balance(l.VaultAuthority, f.asset))
	assert.Nil(t, lockbox.VerifyAddress(l.VaultAuthority, DerivationNamespace, uint8(l.VaultBump), l.ID))

	// Too early.
	_, err = f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 100, Target: alice}, alice)
	assert.IsErr(t, ErrTooEarlyToWithdraw, err)

	// Relock only forward.
	_, err = f.deliver(&RelockMsg{LockerID: l.ID, UnlockDate: l.CurrentUnlockDate - 1}, alice)
	assert.IsErr(t, ErrInvalidUnlockDate, err)
	_, err = f.deliver(&RelockMsg{LockerID: l.ID, UnlockDate: l.CurrentUnlockDate + 1}, bob)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	res, err := f.deliver(&RelockMsg{LockerID: l.ID, UnlockDate: l.CurrentUnlockDate + 1}, alice)
	assert.Nil(t, err)
	assert.Equal(t, f.now+5, res.Data.(*Locker).CurrentUnlockDate)

	// Ownership round trip.
	_, err = f.deliver(&TransferOwnershipMsg{LockerID: l.ID, NewOwner: bob}, bob)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(&TransferOwnershipMsg{LockerID: l.ID, NewOwner: bob}, alice)
	assert.Nil(t, err)
	owned, err := LockersByOwner(f.db, bob)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(owned))
	res, err = f.deliver(&TransferOwnershipMsg{LockerID: l.ID, NewOwner: alice}, bob)
	assert.Nil(t, err)
	assert.Equal(t, alice, res.Data.(*Locker).Owner)

	// Anyone can fund, paying the token fee.
	res, err = f.deliver(&IncrementLockMsg{LockerID: l.ID, Funder: bob, Amount: 1000}, bob)
	assert.Nil(t, err)
	assert.Equal(t, uint64(9965+997), res.Data.(*Locker).DepositedAmount)
	assert.Equal(t, uint64(38), f.balance(f.feeWallet, f.asset))
	assert.Equal(t, uint64(0), f.balance(bob, f.asset))

	// Split.
	_, err = f.deliver(&SplitLockerMsg{LockerID: l.ID, Amount: 1000, NewOwner: bob}, bob)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(&SplitLockerMsg{LockerID: l.ID, Amount: 20000, NewOwner: bob}, alice)
	assert.IsErr(t, errors.ErrInsufficientFunds, err)
	res, err = f.deliver(&SplitLockerMsg{LockerID: l.ID, Amount: 1000, NewOwner: bob}, alice)
	assert.Nil(t, err)
	child := res.Data.(*Locker)
	assert.Equal(t, uint64(1000), child.DepositedAmount)
	assert.Equal(t, bob, child.Owner)
	assert.Equal(t, l.ID, child.ParentID)
	assert.Equal(t, f.now+5, child.CurrentUnlockDate)
	assert.Equal(t, uint64(1000), f.balance(child.VaultAuthority, f.asset))
	assert.Equal(t, uint64(9962), f.balance(l.VaultAuthority, f.asset))

	// Repeating the split is a no op.
	res, err = f.deliver(&SplitLockerMsg{LockerID: l.ID, Amount: 1000, NewOwner: bob}, alice)
	assert.Nil(t, err)
	assert.Equal(t, child.ID, res.Data.(*Locker).ID)
	parent, err := LoadLocker(f.db, l.ID)
	assert.Nil(t, err)
	assert.Equal(t, uint64(9962), parent.DepositedAmount)
	assert.Equal(t, uint64(9962), f.balance(l.VaultAuthority, f.asset))

	// Unlocked.
	f.now += 5
	status, err := State(parent, f.now)
	assert.Nil(t, err)
	assert.Equal(t, StatusWithdrawable, status)

	_, err = f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 1000, Target: alice}, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(91000), f.balance(alice, f.asset))
	assert.Equal(t, uint64(8962), f.balance(l.VaultAuthority, f.asset))

	_, err = f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 9000, Target: alice}, alice)
	assert.IsErr(t, ErrTooEarlyToWithdraw, err)
	res, err = f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 8962, Target: alice}, alice)
	assert.Nil(t, err)
	status, err = State(res.Data.(*Locker), f.now)
	assert.Nil(t, err)
	assert.Equal(t, StatusWithdrawn, status)

	// Fully withdrawn lockers stay until closed.
	_, err = LoadLocker(f.db, l.ID)
	assert.Nil(t, err)

	_, err = f.deliver(&CloseLockerMsg{LockerID: child.ID}, alice)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(&CloseLockerMsg{LockerID: child.ID}, bob)
	assert.IsErr(t, errors.ErrState, err)

	_, err = f.deliver(&CloseLockerMsg{LockerID: l.ID, Target: alice}, alice)
	assert.Nil(t, err)
	_, err = LoadLocker(f.db, l.ID)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = f.bank.Account(f.db, l.VaultAuthority, f.asset)
	assert.IsErr(t, errors.ErrNotFound, err)

	owned, err = LockersByOwner(f.db, bob)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(owned))
	assert.Equal(t, child.ID, owned[0].ID)
}

func TestSplitOntoExistingChild(t *testing.T) {
	f := newFixture(t, nil)
	alice := lockboxtest.NewAddress()
	bob := lockboxtest.NewAddress()
	carol := lockboxtest.NewAddress()
	assert.Nil(t, f.bank.Issue(f.db, f.asset, alice, 10000))
	l := f.create(cliffMsg(f, alice))

	res, err := f.deliver(&SplitLockerMsg{LockerID: l.ID, Amount: 1000, NewOwner: bob}, alice)
	assert.Nil(t, err)
	child := res.Data.(*Locker)

	// Same amount at the same unlock date derives the same child, so a
	// different owner cannot be served.
	_, err = f.deliver(&SplitLockerMsg{LockerID: l.ID, Amount: 1000, NewOwner: carol}, alice)
	assert.IsErr(t, errors.ErrDuplicate, err)

	owned, err := LockersByOwner(f.db, carol)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(owned))
	parent, err := LoadLocker(f.db, l.ID)
	assert.Nil(t, err)
	assert.Equal(t, uint64(8965), parent.DepositedAmount)
	assert.Equal(t, uint64(8965), f.balance(l.VaultAuthority, f.asset))
	assert.Equal(t, uint64(1000), f.balance(child.VaultAuthority, f.asset))

	// A changed child is not mistaken for a retry either.
	_, err = f.deliver(&TransferOwnershipMsg{LockerID: child.ID, NewOwner: carol}, bob)
	assert.Nil(t, err)
	_, err = f.deliver(&SplitLockerMsg{LockerID: l.ID, Amount: 1000, NewOwner: bob}, alice)
	assert.IsErr(t, errors.ErrDuplicate, err)

	// Moving the unlock date gives a fresh child.
	_, err = f.deliver(&RelockMsg{LockerID: l.ID, UnlockDate: l.CurrentUnlockDate + 10}, alice)
	assert.Nil(t, err)
	res, err = f.deliver(&SplitLockerMsg{LockerID: l.ID, Amount: 1000, NewOwner: carol}, alice)
	assert.Nil(t, err)
	assert.Equal(t, carol, res.Data.(*Locker).Owner)
	assert.True(t, !child.ID.Equals(res.Data.(*Locker).ID))
}

func TestCloseSweepsVault(t *testing.T) {
	f := newFixture(t, nil)
	alice := lockboxtest.NewAddress()
	target := lockboxtest.NewAddress()
	assert.Nil(t, f.bank.Issue(f.db, f.asset, alice, 10000))
	l := f.create(cliffMsg(f, alice))

	// Value sent to the vault directly is not part of the deposit.
	assert.Nil(t, f.bank.Issue(f.db, f.asset, l.VaultAuthority, 5))
	assert.Equal(t, uint64(9970), f.balance(l.VaultAuthority, f.asset))

	f.now = l.CurrentUnlockDate
	_, err := f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 9970, Target: alice}, alice)
	assert.IsErr(t, ErrTooEarlyToWithdraw, err)
	_, err = f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 9000, Target: alice}, alice)
	assert.Nil(t, err)

	_, err = f.deliver(&CloseLockerMsg{LockerID: l.ID, Target: target}, alice)
	assert.IsErr(t, errors.ErrState, err)

	_, err = f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 965, Target: alice}, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), f.balance(l.VaultAuthority, f.asset))

	_, err = f.deliver(&CloseLockerMsg{LockerID: l.ID, Target: target}, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), f.balance(target, f.asset))
	assert.Equal(t, uint64(9965), f.balance(alice, f.asset))
	_, err = LoadLocker(f.db, l.ID)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = f.bank.Account(f.db, l.VaultAuthority, f.asset)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCloseSweepsToOwner(t *testing.T) {
	f := newFixture(t, nil)
	alice := lockboxtest.NewAddress()
	assert.Nil(t, f.bank.Issue(f.db, f.asset, alice, 10000))
	l := f.create(cliffMsg(f, alice))
	assert.Nil(t, f.bank.Issue(f.db, f.asset, l.VaultAuthority, 7))

	f.now = l.CurrentUnlockDate
	_, err := f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 9965, Target: alice}, alice)
	assert.Nil(t, err)
	_, err = f.deliver(&CloseLockerMsg{LockerID: l.ID}, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(9972), f.balance(alice, f.asset))
}

func TestLinearEmission(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.FeeTokenNumerator = 0 })
	alice := lockboxtest.NewAddress()
	assert.Nil(t, f.bank.Issue(f.db, f.asset, alice, 1000))

	msg := cliffMsg(f, alice)
	msg.Amount = 1000
	msg.StartEmission = f.now
	msg.UnlockDate = f.now + 20
	l := f.create(msg)
	assert.True(t, l.Linear)
	assert.Equal(t, uint64(1000), l.DepositedAmount)

	f.now += 5
	got, err := Withdrawable(f.db, l.ID, f.now)
	assert.Nil(t, err)
	assert.Equal(t, uint64(250), got)
	status, err := State(l, f.now)
	assert.Nil(t, err)
	assert.Equal(t, StatusWithdrawable, status)

	_, err = f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 250, Target: alice}, alice)
	assert.Nil(t, err)
	_, err = f.deliver(&WithdrawFundsMsg{LockerID: l.ID, Amount: 1, Target: alice}, alice)
	assert.IsErr(t, ErrTooEarlyToWithdraw, err)

	f.now += 15
	got, err = Withdrawable(f.db, l.ID, f.now)
	assert.Nil(t, err)
	assert.Equal(t, uint64(750), got)
}

func TestFeeInNativeAdmitsAsset(t *testing.T) {
	f := newFixture(t, nil)
	alice := lockboxtest.NewAddress()
	assert.Nil(t, f.bank.Issue(f.db, f.asset, alice, 20000))
	assert.Nil(t, f.bank.Issue(f.db, lockbox.NativeAsset, alice, 5))

	msg := cliffMsg(f, alice)
	msg.PayInNative = true
	l := f.create(msg)
	assert.Equal(t, uint64(10000), l.DepositedAmount)
	assert.Equal(t, uint64(2), f.balance(f.feeWallet, lockbox.NativeAsset))
	assert.Equal(t, uint64(3), f.balance(alice, lockbox.NativeAsset))

	mi, err := LoadMintInfo(f.db, f.asset)
	assert.Nil(t, err)
	assert.True(t, mi.FeePaid)

	// The asset is admitted, nothing is charged anymore.
	l = f.create(cliffMsg(f, alice))
	assert.Equal(t, uint64(10000), l.DepositedAmount)
	assert.Equal(t, uint64(0), f.balance(f.feeWallet, f.asset))
	assert.Equal(t, uint64(3), f.balance(alice, lockbox.NativeAsset))
}

func TestCreateMintInfo(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.MintInfoPermissioned = true })
	alice := lockboxtest.NewAddress()

	_, err := f.deliver(&CreateMintInfoMsg{Payer: alice, Asset: f.asset}, alice)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	res, err := f.deliver(&CreateMintInfoMsg{Payer: f.admin, Asset: f.asset}, f.admin)
	assert.Nil(t, err)
	first := res.Data.(*MintInfo)
	assert.Equal(t, f.asset, first.Asset)

	// Idempotent, for anyone.
	res, err = f.deliver(&CreateMintInfoMsg{Payer: alice, Asset: f.asset}, alice)
	assert.Nil(t, err)
	assert.Equal(t, first, res.Data.(*MintInfo))

	conf, err := LoadConfig(f.db)
	assert.Nil(t, err)
	admitted, err := IsAssetAdmitted(f.db, conf, f.asset)
	assert.Nil(t, err)
	assert.True(t, admitted)
	admitted, err = IsAssetAdmitted(f.db, conf, lockboxtest.NewAddress())
	assert.Nil(t, err)
	assert.True(t, !admitted)
}

func TestConfigHandlers(t *testing.T) {
	f := newFixture(t, nil)

	// Already stored by the fixture.
	_, err := f.deliver(&InitConfigMsg{Config: &Config{
		Admin:               f.admin,
		FeeWallet:           f.feeWallet,
		FeeTokenDenominator: 1,
		CountryList:         f.banlist,
	}}, f.admin)
	assert.IsErr(t, errors.ErrAlreadyInitialized, err)

	stranger := lockboxtest.NewAddress()
	update := &UpdateConfigMsg{
		Patch:                &Config{FeeFlatAmount: 7},
		MintInfoPermissioned: ToggleEnable,
		HasLinearEmission:    ToggleDisable,
	}
	_, err = f.deliver(update, stranger)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = f.deliver(update, f.admin)
	assert.Nil(t, err)

	conf, err := LoadConfig(f.db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), conf.FeeFlatAmount)
	assert.Equal(t, uint64(35), conf.FeeTokenNumerator)
	assert.True(t, conf.MintInfoPermissioned)
	assert.True(t, !conf.HasLinearEmission)
	assert.Equal(t, f.feeWallet, conf.FeeWallet)

	// The new banlist must exist.
	_, err = f.deliver(&UpdateConfigMsg{Patch: &Config{CountryList: lockboxtest.NewAddress()}}, f.admin)
	assert.IsErr(t, errors.ErrNotFound, err)

	// Fee of 100% is rejected.
	_, err = f.deliver(&UpdateConfigMsg{Patch: &Config{FeeTokenNumerator: 10000}}, f.admin)
	assert.IsErr(t, errors.ErrAmount, err)

	_, err = f.deliver(&UpdateConfigMsg{Patch: &Config{HasLinearEmission: true}}, f.admin)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestInitConfig(t *testing.T) {
	f := newFixture(t, nil)
	db := store.MemStore()
	ctx := f.auth.SetAddresses(context.Background(), f.admin)
	banlist, _, err := countrylist.NewController(nil).Create(ctx, db, f.admin, nil)
	assert.Nil(t, err)

	h := f.routes[pathInitConfigMsg]
	msg := &InitConfigMsg{Config: &Config{
		Admin:               f.admin,
		FeeWallet:           f.feeWallet,
		FeeTokenDenominator: 1000,
		FeeTokenNumerator:   10,
		CountryList:         banlist,
	}}
	_, err = h.Deliver(ctx, db, &lockboxtest.Tx{Msg: msg})
	assert.Nil(t, err)
	_, err = h.Deliver(ctx, db, &lockboxtest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrAlreadyInitialized, err)
	assert.True(t, errors.IsFatal(err))

	conf, err := LoadConfig(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), conf.FeeTokenNumerator)
}
