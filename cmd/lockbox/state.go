package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/app"
	"github.com/lockbox-labs/lockbox/protocol"
	"github.com/lockbox-labs/lockbox/store/iavl"
	"github.com/tendermint/tendermint/libs/log"
)

const stateName = "state"

// state is the protocol running on the database of a home directory.
type state struct {
	db     iavl.CommitStore
	p      *protocol.Protocol
	logger log.Logger
}

func newLogger() log.Logger {
	return log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "lockbox")
}

// openState loads the last committed state of home. The database must
// be initialized with init-chain.
func openState(home string) (*state, error) {
	db, err := iavl.NewCommitStore(home, stateName)
	if err != nil {
		return nil, err
	}
	kv := db.Adapter()
	chainID, err := app.LoadChainID(kv)
	if err != nil {
		db.Close()
		return nil, err
	}
	if chainID == "" {
		db.Close()
		return nil, fmt.Errorf("%s is not initialized, run init-chain first", home)
	}
	logger := newLogger()
	return &state{
		db:     db,
		p:      protocol.New(kv, lockbox.SystemClock{}, chainID, protocol.WithLogger(logger)),
		logger: logger,
	}, nil
}

// commit persists all changes as a new version.
func (s *state) commit() error {
	id, err := s.p.Engine().Commit(s.db)
	if err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	s.logger.Info("committed", "version", id.Version)
	return nil
}

func (s *state) close() {
	s.db.Close()
}

func cmdInitChain(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create the state database from a genesis file. The genesis file declares the
chain ID and the initial state of all extensions, for example the cash
accounts. This command fails if the database is already initialized.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), "Directory of the state database. You can use LOCKBOX_HOME environment variable to set it.")
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*homeFl, 0700); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}
	db, err := iavl.NewCommitStore(*homeFl, stateName)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := app.InitChain(db.Adapter(), gen, protocol.Initializers()); err != nil {
		return err
	}
	id, err := db.Commit()
	if err != nil {
		return err
	}
	newLogger().Info("chain initialized", "chain_id", gen.ChainID, "version", id.Version)
	return nil
}

// writeJSON prints v in a human readable form.
func writeJSON(w io.Writer, v interface{}) error {
	pretty, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(w, string(pretty))
	return err
}
