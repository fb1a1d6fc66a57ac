package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// commands is a register of all available commands. The name is matched
// with the first argument given.
//
// A command function is given stdin, stdout and the command line
// arguments without the program and the command name. It parses its own
// flags. Every command opens the state database found in the home
// directory, executes a single operation and commits the result.
//
// A typical setup of a new database is
//
//	$ lockbox keygen
//	$ lockbox init-chain -genesis genesis.json
//	$ lockbox init-country-list -countries countries.csv
//	$ lockbox init-config -preset token-locker -country-list <addr> -fee-wallet <addr>
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"add-token":         cmdAddToken,
	"ban-country":       cmdBanCountry,
	"init-chain":        cmdInitChain,
	"init-config":       cmdInitConfig,
	"init-country-list": cmdInitCountryList,
	"keyaddr":           cmdKeyaddr,
	"keygen":            cmdKeygen,
	"lockers":           cmdLockers,
	"show-banlist":      cmdShowBanlist,
	"show-config":       cmdShowConfig,
	"show-locker":       cmdShowLocker,
	"version":           cmdVersion,
	"withdrawable":      cmdWithdrawable,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is an administration tool for the lockbox protocol.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash = "dev"
