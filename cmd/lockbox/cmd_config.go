package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lockbox-labs/lockbox/x/locker"
	"gopkg.in/yaml.v3"
)

// feeSettings are the configuration values that do not name an account.
// They can be loaded from a YAML file or taken from a preset.
type feeSettings struct {
	FeeFlatAmount        uint64 `yaml:"fee_flat_amount"`
	FeeTokenNumerator    uint64 `yaml:"fee_token_numerator"`
	FeeTokenDenominator  uint64 `yaml:"fee_token_denominator"`
	MintInfoPermissioned bool   `yaml:"mint_info_permissioned"`
	HasLinearEmission    bool   `yaml:"has_linear_emission"`
}

var presets = map[string]feeSettings{
	// Any token can be locked, paying 0.35% or a flat fee once.
	"token-locker": {
		FeeFlatAmount:       1,
		FeeTokenNumerator:   35,
		FeeTokenDenominator: 10000,
		HasLinearEmission:   true,
	},
	// Only admitted liquidity tokens can be locked, always paying a fee.
	"lp-locker": {
		FeeFlatAmount:        1,
		FeeTokenNumerator:    10,
		FeeTokenDenominator:  1000,
		MintInfoPermissioned: true,
	},
}

func loadFeeSettings(path string) (*feeSettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %s", err)
	}
	var fs feeSettings
	if err := yaml.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("cannot parse config file: %s", err)
	}
	return &fs, nil
}

func cmdInitConfig(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Store the protocol configuration. The key owner becomes the configuration
admin. Fees and modes are taken either from a preset or from a YAML file, for
example:

	fee_flat_amount: 1
	fee_token_numerator: 35
	fee_token_denominator: 10000
	mint_info_permissioned: false
	has_linear_emission: true

Available presets are token-locker and lp-locker. The configuration can be
stored only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl        = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		keyPathFl     = fl.String("key", defaultKey(), "Path to the private key file of the configuration admin.")
		countryListFl = flAddress(fl, "country-list", "", "Address of the country banlist.")
		feeWalletFl   = flAddress(fl, "fee-wallet", "", "Address receiving all fees.")
		presetFl      = fl.String("preset", "", "Name of the configuration preset.")
		configFl      = fl.String("config", "", "Path to a YAML file with fee settings. Cannot be used together with a preset.")
	)
	fl.Parse(args)
	requireAddress("country-list", *countryListFl)
	requireAddress("fee-wallet", *feeWalletFl)

	var fs *feeSettings
	switch {
	case *presetFl != "" && *configFl != "":
		flagDie(`"preset" and "config" flags cannot be used together`)
	case *presetFl != "":
		p, ok := presets[*presetFl]
		if !ok {
			flagDie("unknown config preset %q", *presetFl)
		}
		fs = &p
	case *configFl != "":
		var err error
		if fs, err = loadFeeSettings(*configFl); err != nil {
			return err
		}
	default:
		flagDie(`"preset" or "config" flag is required`)
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

	conf, err := s.p.InitConfig(context.Background(), key, &locker.Config{
		Admin:                key.PublicKey().Address(),
		FeeWallet:            *feeWalletFl,
		FeeFlatAmount:        fs.FeeFlatAmount,
		FeeTokenNumerator:    fs.FeeTokenNumerator,
		FeeTokenDenominator:  fs.FeeTokenDenominator,
		MintInfoPermissioned: fs.MintInfoPermissioned,
		HasLinearEmission:    fs.HasLinearEmission,
		CountryList:          *countryListFl,
	})
	if err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}
	return writeJSON(output, conf)
}

func cmdShowConfig(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Show the protocol configuration.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
	)
	fl.Parse(args)

	s, err := openState(*homeFl)
	if err != nil {
		return err
	}
	defer s.close()

	conf, err := s.p.Config()
	if err != nil {
		return err
	}
	return writeJSON(output, conf)
}

func cmdAddToken(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Admit an asset. In permissioned mode only the configuration admin can admit
assets and only admitted assets can be locked. Admitting an asset twice is not
an error.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		keyPathFl = fl.String("key", defaultKey(), "Path to the private key file of the payer.")
		mintFl    = flAddress(fl, "mint", "", "Address of the asset.")
	)
	fl.Parse(args)
	requireAddress("mint", *mintFl)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	s, err := openState(*homeFl)
	if err != nil {
		return err
	}
	defer s.close()

	mi, err := s.p.CreateMintInfo(context.Background(), key, *mintFl)
	if err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}
	return writeJSON(output, mi)
}
