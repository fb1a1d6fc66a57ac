package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/crypto"
	"github.com/lockbox-labs/lockbox/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks all the signatures on the tx,
// which must have at least one.
//
// returns list of addresses that signed the tx
func VerifyTxSignatures(store lockbox.KVStore, tx SignedTx, chainID string) ([]lockbox.Address, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}

	sigs := tx.GetSignatures()
	signers := make([]lockbox.Address, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(store, sig, bz, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}

	return signers, nil
}

// VerifySignature checks one signature against signbytes,
// check chain and updates state in the store
func VerifySignature(db lockbox.KVStore, sig *StdSignature, signBytes []byte, chainID string) (lockbox.Address, error) {
	if err := sig.Validate(); err != nil {
		return nil, errors.Wrap(err, "signature")
	}
	signer := sig.Pubkey.Address()

	bucket := NewBucket()
	var user UserData
	switch err := bucket.One(db, signer, &user); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		user = UserData{Pubkey: sig.Pubkey}
	default:
		return nil, errors.Wrap(err, "cannot load user data")
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, errors.Wrap(err, "check and increment sequence")
	}
	if err := bucket.Put(db, signer, &user); err != nil {
		return nil, errors.Wrap(err, "cannot save user data")
	}
	return signer, nil
}

// BuildSignBytes combines all info on the actual tx before signing
// using the following format:
//
// version | len(chainID) | chainID      | nonce             | signBytes
// 4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction
//
// This is then prehashed with sha512 before fed to ed25519 signing algorithm
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if !lockbox.IsValidChainID(chainID) {
		return nil, errors.Wrap(errors.ErrInput, "chain id")
	}
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	// concatenate everything
	res := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+len(nonce)+len(signBytes))
	res = append(res, SignCodeV1...)
	res = append(res, uint8(len(chainID)))
	res = append(res, []byte(chainID)...)
	res = append(res, nonce...)
	res = append(res, signBytes...)

	// now we hash this to get the bytes to feed ed25519
	digest := sha512.Sum512(res)
	return digest[:], nil
}

// BuildSignBytesTx calculates the sign bytes given a tx
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	message, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(message)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	res := &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}
	return res, nil
}

