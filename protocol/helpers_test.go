package protocol

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/app"
	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/lockboxtest"
	"github.com/lockbox-labs/lockbox/lockboxtest/assert"
	"github.com/lockbox-labs/lockbox/store"
	"github.com/lockbox-labs/lockbox/x/cash"
	"github.com/lockbox-labs/lockbox/x/locker"
)

const (
	testChainID = "test-chain"
	startTime   = lockbox.UnixTime(1_700_000_000)
	// every account receives this much of the asset and of the native
	// asset at genesis
	initialFunds = 100_000
)

type env struct {
	t     testing.TB
	ctx   context.Context
	p     *Protocol
	clock *lockboxtest.Clock

	admin, alice, bob *crypto.PrivateKey
	feeWallet, asset  lockbox.Address
	banlist           lockbox.Address
	funded            []lockbox.Address
}

// newEnv returns a protocol with alice, bob and the extra keys funded,
// a banlist banning KP and the configuration stored. mod can change
// the configuration before it is stored.
func newEnv(t testing.TB, mod func(*locker.Config), extra ...*crypto.PrivateKey) *env {
	t.Helper()
	e := &env{
		t:         t,
		ctx:       context.Background(),
		clock:     lockboxtest.NewClock(startTime),
		admin:     lockboxtest.NewKey(),
		alice:     lockboxtest.NewKey(),
		bob:       lockboxtest.NewKey(),
		feeWallet: lockboxtest.NewAddress(),
		asset:     lockboxtest.NewAddress(),
	}

	var accounts []cash.GenesisAccount
	for _, k := range append([]*crypto.PrivateKey{e.alice, e.bob}, extra...) {
		addr := k.PublicKey().Address()
		e.funded = append(e.funded, addr)
		accounts = append(accounts,
			cash.GenesisAccount{Owner: addr, Asset: e.asset, Balance: initialFunds},
			cash.GenesisAccount{Owner: addr, Asset: lockbox.NativeAsset, Balance: initialFunds},
		)
	}
	raw, err := json.Marshal(accounts)
	assert.Nil(t, err)

	db := store.MemStore()
	gen := &app.Genesis{ChainID: testChainID, AppState: lockbox.Options{"cash": raw}}
	assert.Nil(t, app.InitChain(db, gen, Initializers()))

	e.p = New(db, e.clock, testChainID)
	e.banlist, err = e.p.InitCountryList(e.ctx, e.admin, []string{"KP"})
	assert.Nil(t, err)

	conf := &locker.Config{
		Admin:               e.admin.PublicKey().Address(),
		FeeWallet:           e.feeWallet,
		FeeFlatAmount:       2,
		FeeTokenNumerator:   35,
		FeeTokenDenominator: 10000,
		HasLinearEmission:   true,
		CountryList:         e.banlist,
	}
	if mod != nil {
		mod(conf)
	}
	_, err = e.p.InitConfig(e.ctx, e.admin, conf)
	assert.Nil(t, err)
	return e
}

func (e *env) now() lockbox.UnixTime {
	return e.clock.Now()
}

func (e *env) balance(owner lockbox.Address) uint64 {
	e.t.Helper()
	b, err := e.p.Balance(owner, e.asset)
	assert.Nil(e.t, err)
	return b
}

// createMsg returns a cliff locker request of creator unlocking after
// the given number of seconds.
func (e *env) createMsg(creator *crypto.PrivateKey, amount uint64, after lockbox.UnixTime) *locker.CreateLockerMsg {
	addr := creator.PublicKey().Address()
	return &locker.CreateLockerMsg{
		Creator:     addr,
		Owner:       addr,
		Asset:       e.asset,
		Amount:      amount,
		UnlockDate:  e.now() + after,
		CountryCode: "PL",
	}
}

func (e *env) create(creator *crypto.PrivateKey, amount uint64, after lockbox.UnixTime) *locker.Locker {
	e.t.Helper()
	l, err := e.p.CreateLocker(e.ctx, e.createMsg(creator, amount, after), creator)
	assert.Nil(e.t, err)
	return l
}

// supply sums the asset held by all funded accounts, the fee wallet and
// the vaults of the given lockers.
func (e *env) supply(lockers ...*locker.Locker) uint64 {
	e.t.Helper()
	total := e.balance(e.feeWallet)
	for _, a := range e.funded {
		total += e.balance(a)
	}
	for _, l := range lockers {
		total += e.balance(l.VaultAuthority)
	}
	return total
}
