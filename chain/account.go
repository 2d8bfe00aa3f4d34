package chain

import (
	"crypto/ecdsa"

	"github.com/crytic/solsim/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Account is a key pair able to sign transactions on a TestChain.
type Account struct {
	// PrivateKey signs transactions sent from the account.
	PrivateKey *ecdsa.PrivateKey

	// Address is derived from PrivateKey.
	Address common.Address
}

// newAccount derives the Account for a private key.
func newAccount(privateKey *ecdsa.PrivateKey) *Account {
	return &Account{
		PrivateKey: privateKey,
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}
}

// NewRandomAccount generates an Account with a fresh private key.
func NewRandomAccount() (*Account, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return newAccount(privateKey), nil
}

// NewAccountFromHex creates an Account from a hex encoded private key.
func NewAccountFromHex(hexKey string) (*Account, error) {
	privateKey, err := utils.HexStringToPrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	return newAccount(privateKey), nil
}
