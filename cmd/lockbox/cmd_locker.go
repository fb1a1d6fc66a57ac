package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdShowLocker(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Show a locker together with its current status.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		idFl   = flAddress(fl, "id", "", "Locker identity.")
	)
	fl.Parse(args)
	requireAddress("id", *idFl)

	s, err := openState(*homeFl)
	if err != nil {
		return err
	}
	defer s.close()

	l, err := s.p.Locker(*idFl)
	if err != nil {
		return err
	}
	status, err := s.p.State(*idFl)
	if err != nil {
		return err
	}
	return writeJSON(output, struct {
		Status string      `json:"status"`
		Locker interface{} `json:"locker"`
	}{
		Status: status.String(),
		Locker: l,
	})
}

func cmdLockers(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List all lockers of an owner.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl  = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		ownerFl = flAddress(fl, "owner", "", "Owner address.")
	)
	fl.Parse(args)
	requireAddress("owner", *ownerFl)

	s, err := openState(*homeFl)
	if err != nil {
		return err
	}
	defer s.close()

	lockers, err := s.p.LockersByOwner(*ownerFl)
	if err != nil {
		return err
	}
	return writeJSON(output, lockers)
}

func cmdWithdrawable(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print how much can be withdrawn from a locker now.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		idFl   = flAddress(fl, "id", "", "Locker identity.")
	)
	fl.Parse(args)
	requireAddress("id", *idFl)

	s, err := openState(*homeFl)
	if err != nil {
		return err
	}
	defer s.close()

	amount, err := s.p.Withdrawable(*idFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, amount)
	return err
}
