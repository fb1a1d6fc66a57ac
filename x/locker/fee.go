package locker

import (
	"github.com/lockbox-labs/lockbox/errors"
)

// FeeQuote is the fee charged for a single deposit.
type FeeQuote struct {
	// Native is the flat fee paid in the native asset.
	Native uint64
	// Token is the share of the deposit paid to the fee wallet.
	Token uint64
	// MarkFeePaid is set when the payment admits the asset, so that
	// later deposits are free.
	MarkFeePaid bool
}

// Net returns the part of amount that reaches the vault.
func (q FeeQuote) Net(amount uint64) uint64 {
	return amount - q.Token
}

// ComputeFee returns the fee for depositing amount of an asset.
//
// In permissioned mode every deposit pays. In open mode the first
// deposit of an asset pays either the flat fee, which admits the asset
// for good, or a token fee. Once admitted, deposits of an asset are
// free.
func ComputeFee(conf *Config, mi *MintInfo, amount uint64, payInNative bool) (FeeQuote, error) {
	if !conf.MintInfoPermissioned && mi.FeePaid {
		return FeeQuote{}, nil
	}
	if payInNative {
		return FeeQuote{
			Native:      conf.FeeFlatAmount,
			MarkFeePaid: !conf.MintInfoPermissioned,
		}, nil
	}
	fee, err := mulDiv(amount, conf.FeeTokenNumerator, conf.FeeTokenDenominator)
	if err != nil {
		return FeeQuote{}, errors.Wrap(err, "token fee")
	}
	return FeeQuote{Token: fee}, nil
}
