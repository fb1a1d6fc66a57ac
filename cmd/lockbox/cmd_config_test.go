package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFeeSettings(t *testing.T) {
	fs, err := loadFeeSettings("testdata/fees.yaml")
	require.NoError(t, err)
	require.Equal(t, feeSettings{
		FeeFlatAmount:        3,
		FeeTokenNumerator:    1,
		FeeTokenDenominator:  100,
		MintInfoPermissioned: true,
	}, *fs)

	_, err = loadFeeSettings("testdata/missing.yaml")
	require.Error(t, err)
}

func TestPresets(t *testing.T) {
	for name, p := range presets {
		require.NotZero(t, p.FeeTokenDenominator, name)
		require.True(t, p.FeeTokenNumerator < p.FeeTokenDenominator, name)
	}
	require.True(t, presets["token-locker"].HasLinearEmission)
	require.False(t, presets["token-locker"].MintInfoPermissioned)
	require.True(t, presets["lp-locker"].MintInfoPermissioned)
	require.False(t, presets["lp-locker"].HasLinearEmission)
}
