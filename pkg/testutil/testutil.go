// Package testutil provides shared fakes for the ledger, wallet session, and
// cache collaborators. Each fake records the calls it receives so tests can
// assert ordering, not just outcomes.
package testutil

import (
	"context"
	"crypto/sha256"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/dexhire/dexhire-go/internal/cache"
	"github.com/dexhire/dexhire-go/internal/ledger"
)

// Pubkey derives a deterministic public key from a label, so tests can name
// accounts without hardcoding base58 strings.
func Pubkey(label string) solana.PublicKey {
	return solana.PublicKeyFromBytes(hash32(label))
}

// Signature derives a deterministic signature from a label.
func Signature(label string) solana.Signature {
	h := hash32(label)
	var sig solana.Signature
	copy(sig[:32], h)
	copy(sig[32:], h)
	return sig
}

func hash32(label string) []byte {
	sum := sha256.Sum256([]byte(label))
	return sum[:]
}

// ============================================================================
// ledger fake
// ============================================================================

// FakeLedger is an in-memory ledger.Ledger. Accounts are keyed by their
// 8-byte data prefix for scans and by address for fetches.
type FakeLedger struct {
	mu sync.Mutex

	Blockhash    ledger.Blockhash
	BlockhashErr error
	ScanErr      error
	FetchErr     error

	accounts map[solana.PublicKey][]byte
	calls    []string
}

// NewFakeLedger returns an empty fake with a usable blockhash.
func NewFakeLedger() *FakeLedger {
	var hash solana.Hash
	copy(hash[:], hash32("blockhash"))
	return &FakeLedger{
		Blockhash: ledger.Blockhash{Hash: hash, Slot: 42, LastValidBlockHeight: 100},
		accounts:  make(map[solana.PublicKey][]byte),
	}
}

// SetAccount installs raw account data at an address.
func (f *FakeLedger) SetAccount(address solana.PublicKey, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[address] = data
}

// DeleteAccount removes an account, so later fetches miss.
func (f *FakeLedger) DeleteAccount(address solana.PublicKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, address)
}

// Calls returns the method names invoked so far, in order.
func (f *FakeLedger) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeLedger) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *FakeLedger) LatestBlockhash(ctx context.Context) (ledger.Blockhash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LatestBlockhash")
	if f.BlockhashErr != nil {
		return ledger.Blockhash{}, f.BlockhashErr
	}
	return f.Blockhash, nil
}

func (f *FakeLedger) ScanAccounts(ctx context.Context, discriminator [8]byte) ([]ledger.KeyedAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ScanAccounts")
	if f.ScanErr != nil {
		return nil, f.ScanErr
	}
	var out []ledger.KeyedAccount
	for address, data := range f.accounts {
		if len(data) >= 8 && [8]byte(data[:8]) == discriminator {
			out = append(out, ledger.KeyedAccount{Address: address, Data: data})
		}
	}
	return out, nil
}

func (f *FakeLedger) FetchAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FetchAccount")
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	data, ok := f.accounts[address]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	return data, nil
}

// ============================================================================
// session fake
// ============================================================================

// FakeSession is a scripted wallet.Session. Zero value: not connected,
// Connect fails with ConnectErr (or returns ConnectKey), SignAndSubmit
// returns SubmitSig or SubmitErr.
type FakeSession struct {
	mu sync.Mutex

	Connected  bool
	Key        solana.PublicKey
	ConnectKey solana.PublicKey
	ConnectErr error

	SubmitSig solana.Signature
	SubmitErr error

	LastTx   *solana.Transaction
	LastHint ledger.Blockhash
	calls    []string
}

// Calls returns the method names invoked so far, in order.
func (f *FakeSession) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeSession) ResolvePublicKey() (solana.PublicKey, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "ResolvePublicKey")
	if !f.Connected {
		return solana.PublicKey{}, false
	}
	return f.Key, true
}

func (f *FakeSession) Connect(ctx context.Context) (solana.PublicKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "Connect")
	if f.ConnectErr != nil {
		return solana.PublicKey{}, f.ConnectErr
	}
	return f.ConnectKey, nil
}

func (f *FakeSession) SignAndSubmit(ctx context.Context, tx *solana.Transaction, hint ledger.Blockhash) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "SignAndSubmit")
	f.LastTx = tx
	f.LastHint = hint
	if f.SubmitErr != nil {
		return solana.Signature{}, f.SubmitErr
	}
	return f.SubmitSig, nil
}

// ============================================================================
// cache spy
// ============================================================================

// SpyInvalidator records every Invalidate call.
type SpyInvalidator struct {
	mu    sync.Mutex
	Keys  []cache.Key
	Batch [][]cache.Key
}

func (s *SpyInvalidator) Invalidate(keys ...cache.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Keys = append(s.Keys, keys...)
	batch := make([]cache.Key, len(keys))
	copy(batch, keys)
	s.Batch = append(s.Batch, batch)
}

// Invalidated reports whether key was invalidated at least once.
func (s *SpyInvalidator) Invalidated(key cache.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.Keys {
		if k == key {
			return true
		}
	}
	return false
}
