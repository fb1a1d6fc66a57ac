package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lockbox-labs/lockbox"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *lockbox.Address {
	var a lockbox.Address
	if defaultVal != "" {
		var err error
		a, err = lockbox.ParseAddress(defaultVal)
		if err != nil {
			flagDie("Cannot parse %q address flag value. %s", name, err)
		}
	}
	fl.Var((*flagAddress)(&a), name, usage)
	return &a
}

type flagAddress lockbox.Address

func (a flagAddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return lockbox.Address(a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := lockbox.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}

// flagDie terminates the program when a flag is invalid.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}

// requireAddress terminates the program when a mandatory address flag
// was not given.
func requireAddress(name string, a lockbox.Address) {
	if len(a) == 0 {
		flagDie("%q flag is required", name)
	}
}
