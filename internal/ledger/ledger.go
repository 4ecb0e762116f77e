// Package ledger exposes the read capability of the chain: freshness tokens,
// typed account scans, and single-account fetches. Writers never go through
// this package; submission is the wallet orchestrator's job.
package ledger

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrAccountNotFound is returned by FetchAccount when the address holds no
// account at the queried commitment.
var ErrAccountNotFound = errors.New("ledger: account not found")

// Blockhash is the freshness token a transaction must carry. It expires
// quickly, so it is fetched as close to signing as possible.
type Blockhash struct {
	Hash                 solana.Hash
	Slot                 uint64
	LastValidBlockHeight uint64
}

// KeyedAccount is one raw account returned by a scan.
type KeyedAccount struct {
	Address solana.PublicKey
	Data    []byte
}

// Ledger is the read-side collaborator. Scans are full: the chain offers no
// server-side relationship filters beyond the discriminator prefix, so every
// view re-filters client-side.
type Ledger interface {
	// LatestBlockhash fetches a fresh blockhash. Failures are transient and
	// retryable by the caller.
	LatestBlockhash(ctx context.Context) (Blockhash, error)

	// ScanAccounts returns every program account whose data begins with the
	// given 8-byte discriminator.
	ScanAccounts(ctx context.Context, discriminator [8]byte) ([]KeyedAccount, error)

	// FetchAccount returns the raw data of a single account, or
	// ErrAccountNotFound.
	FetchAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
}
