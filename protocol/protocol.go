package protocol

import (
	"sort"
	"sync"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/app"
	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/lockbox-labs/lockbox/x"
	"github.com/lockbox-labs/lockbox/x/cash"
	"github.com/lockbox-labs/lockbox/x/countrylist"
	"github.com/lockbox-labs/lockbox/x/locker"
	"github.com/lockbox-labs/lockbox/x/sigs"
	"github.com/lockbox-labs/lockbox/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tendermint/tendermint/libs/log"
)

// Protocol runs all operations of the locker protocol.
type Protocol struct {
	engine *app.Engine
	clock  lockbox.Clock
	bank   cash.BaseController
	lists  countrylist.BaseController

	// nonces serializes signing and delivery per signer, so concurrent
	// calls by one signer do not reuse a nonce.
	nonces *xsync.MapOf[string, *sync.Mutex]
}

type config struct {
	logger  log.Logger
	metrics prometheus.Registerer
}

// Option configures a Protocol.
type Option func(*config)

// WithLogger sets the logger of the engine and all handlers.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMetrics registers the delivery metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) { c.metrics = reg }
}

// Authenticator returns the authentication used by all extensions:
// signatures verified by x/sigs and addresses derived by extensions.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, x.DerivedAuth{})
}

// Routes registers the handlers of all extensions with r.
func Routes(r lockbox.Registry, auth x.Authenticator) {
	bank := cash.NewController(auth)
	cash.RegisterRoutes(r, auth, bank)
	countrylist.RegisterRoutes(r, auth)
	locker.RegisterRoutes(r, auth, bank, countrylist.NewController(auth))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() lockbox.Initializer {
	return lockbox.ChainInitializers(
		cash.Initializer{},
		countrylist.Initializer{},
		locker.Initializer{},
	)
}

// Stack returns the full handler: logging, panic recovery, metrics and
// signature verification in front of the router.
func Stack(reg prometheus.Registerer) lockbox.Handler {
	r := app.NewRouter()
	Routes(r, Authenticator())
	var metrics lockbox.Decorator
	if reg != nil {
		metrics = utils.NewMetrics(reg)
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		sigs.NewDecorator(),
	).WithHandler(r)
}

// New returns a Protocol working on db. db must not be written
// directly afterwards.
func New(db lockbox.KVStore, clock lockbox.Clock, chainID string, opts ...Option) *Protocol {
	conf := config{logger: log.NewNopLogger()}
	for _, o := range opts {
		o(&conf)
	}
	engine := app.NewEngine(db, Stack(conf.metrics), clock, chainID).WithLogger(conf.logger)
	auth := Authenticator()
	return &Protocol{
		engine: engine,
		clock:  clock,
		bank:   cash.NewController(auth),
		lists:  countrylist.NewController(auth),
		nonces: xsync.NewMapOf[string, *sync.Mutex](),
	}
}

// Engine returns the engine running the transactions.
func (p *Protocol) Engine() *app.Engine {
	return p.engine
}

// deliver signs msg with all signers and executes it.
func (p *Protocol) deliver(ctx lockbox.Context, msg lockbox.Msg, signers ...crypto.Signer) (interface{}, error) {
	unlock := p.lockSigners(signers)
	defer unlock()

	tx := &app.Tx{Msg: msg}
	db := p.engine.Store()
	for _, s := range signers {
		seq, err := sigs.NextNonce(db, s.PublicKey().Address())
		if err != nil {
			return nil, err
		}
		sig, err := sigs.SignTx(s, tx, p.engine.ChainID(), seq)
		if err != nil {
			return nil, errors.Wrap(err, "sign")
		}
		tx.Signatures = append(tx.Signatures, sig)
	}
	res, err := p.engine.Deliver(ctx, tx)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (p *Protocol) lockSigners(signers []crypto.Signer) func() {
	addrs := make([]string, 0, len(signers))
	seen := make(map[string]bool)
	for _, s := range signers {
		a := s.PublicKey().Address().String()
		if !seen[a] {
			seen[a] = true
			addrs = append(addrs, a)
		}
	}
	sort.Strings(addrs)
	held := make([]*sync.Mutex, 0, len(addrs))
	for _, a := range addrs {
		mu, _ := p.nonces.LoadOrCompute(a, func() *sync.Mutex { return &sync.Mutex{} })
		mu.Lock()
		held = append(held, mu)
	}
	return func() {
		for _, mu := range held {
			mu.Unlock()
		}
	}
}

func addressOf(s crypto.Signer) lockbox.Address {
	return s.PublicKey().Address()
}
