package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// unknownCountry is used for rows without a country code.
const unknownCountry = "UN"

func cmdInitCountryList(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a country banlist administrated by the key owner. Banned countries are
read from a CSV file with a header line. The two letter code is taken from the
given column, rows with an empty code ban the unknown country "UN".

The address of the new banlist is printed.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl      = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		keyPathFl   = fl.String("key", defaultKey(), "Path to the private key file of the banlist admin.")
		countriesFl = fl.String("countries", "", "Path to the CSV file with banned countries. Standard input is used if not given.")
		colFl       = fl.Int("col", 3, "Column of the country code. Index starts at 1.")
	)
	fl.Parse(args)
	if *colFl < 1 {
		flagDie(`"col" index value starts with 1`)
	}

	if *countriesFl != "" {
		fd, err := os.Open(*countriesFl)
		if err != nil {
			return fmt.Errorf("cannot open countries file: %s", err)
		}
		defer fd.Close()
		input = fd
	}
	codes, err := readCountries(input, *colFl-1)
	if err != nil {
		return err
	}

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	s, err := openState(*homeFl)
	if err != nil {
		return err
	}
	defer s.close()

	addr, err := s.p.InitCountryList(context.Background(), key, codes)
	if err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, addr)
	return err
}

// readCountries returns the sorted unique country codes found in the
// given column of a CSV file. The first line is a header.
func readCountries(r io.Reader, col int) ([]string, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	if _, err := rd.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read CSV header: %s", err)
	}

	seen := make(map[string]bool)
	var codes []string
	for line := 2; ; line++ {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV file: %s", err)
		}
		if col >= len(row) {
			return nil, fmt.Errorf("line %d: no column %d", line, col+1)
		}
		code := strings.TrimSpace(row[col])
		if code == "" {
			code = unknownCountry
		}
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func cmdBanCountry(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Add a country to a banlist. Only the banlist admin can ban countries. A ban
cannot be lifted.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		keyPathFl = fl.String("key", defaultKey(), "Path to the private key file of the banlist admin.")
		banlistFl = flAddress(fl, "banlist", "", "Address of the banlist.")
		countryFl = fl.String("country", "", "Two letter country code.")
	)
	fl.Parse(args)
	requireAddress("banlist", *banlistFl)
	if *countryFl == "" {
		flagDie(`"country" flag is required`)
	}

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	s, err := openState(*homeFl)
	if err != nil {
		return err
	}
	defer s.close()

	b, err := s.p.BanCountry(context.Background(), key, *banlistFl, []string{*countryFl})
	if err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}
	return writeJSON(output, b)
}

func cmdShowBanlist(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Show a banlist. When a country is given only its ban status is printed.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		banlistFl = flAddress(fl, "banlist", "", "Address of the banlist.")
		countryFl = fl.String("country", "", "Two letter country code.")
	)
	fl.Parse(args)
	requireAddress("banlist", *banlistFl)

	s, err := openState(*homeFl)
	if err != nil {
		return err
	}
	defer s.close()

	b, err := s.p.Banlist(*banlistFl)
	if err != nil {
		return err
	}
	if *countryFl == "" {
		return writeJSON(output, b)
	}
	_, err = fmt.Fprintf(output, "%s banned: %v\n", *countryFl, b.IsBanned(*countryFl))
	return err
}
