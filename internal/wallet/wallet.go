// Package wallet resolves the acting identity and hands transactions to its
// external sign-and-submit capability. Retry policy belongs to callers; the
// orchestrator only classifies failures.
package wallet

import (
	"context"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/dexhire/dexhire-go/internal/ledger"
)

// Session is one source of signing identity. ResolvePublicKey answers from an
// already-established connection without prompting; Connect may prompt the
// user and be declined.
type Session interface {
	// ResolvePublicKey returns the session's public key if it is already
	// connected and usable.
	ResolvePublicKey() (solana.PublicKey, bool)

	// Connect establishes a connection on demand. It returns ErrUserCancelled
	// (possibly wrapped) if the user declines.
	Connect(ctx context.Context) (solana.PublicKey, error)

	// SignAndSubmit has the identity holder sign the transaction and
	// broadcast it. The hint carries the freshness context the capability
	// expects (slot and last valid block height).
	SignAndSubmit(ctx context.Context, tx *solana.Transaction, hint ledger.Blockhash) (solana.Signature, error)
}

// Identity is a resolved public key bound to the session that produced it.
// It is passed explicitly through every wrapper call rather than held as
// ambient state.
type Identity struct {
	PublicKey solana.PublicKey
	Session   Session
}

// Orchestrator resolves who is acting and submits on their behalf.
type Orchestrator struct {
	primary  Session
	fallback Session
	logger   *slog.Logger
}

// NewOrchestrator wires the two session sources. The primary is consulted
// first as an already-connected identity; the fallback is the on-demand
// connect flow. A stale primary must not block progress when the fallback
// works, so the order is fixed.
func NewOrchestrator(primary, fallback Session, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{primary: primary, fallback: fallback, logger: logger}
}

// ResolveIdentity returns the first usable identity: the primary session's
// connected key, else the fallback's connect flow. ErrNoIdentity when neither
// yields a key; a declined connect surfaces as ErrUserCancelled.
func (o *Orchestrator) ResolveIdentity(ctx context.Context) (Identity, error) {
	if o.primary != nil {
		if key, ok := o.primary.ResolvePublicKey(); ok && !key.IsZero() {
			return Identity{PublicKey: key, Session: o.primary}, nil
		}
	}

	if o.fallback != nil {
		key, err := o.fallback.Connect(ctx)
		if err != nil {
			return Identity{}, err
		}
		if !key.IsZero() {
			return Identity{PublicKey: key, Session: o.fallback}, nil
		}
	}

	return Identity{}, ErrNoIdentity
}

// Submit hands the built transaction to the identity's signing capability and
// returns the transaction signature. Errors come back classified by the
// session implementation; the orchestrator adds no retries.
func (o *Orchestrator) Submit(ctx context.Context, id Identity, tx *solana.Transaction, hint ledger.Blockhash) (solana.Signature, error) {
	attempt := uuid.NewString()
	o.logger.Debug("submitting transaction",
		"attempt", attempt,
		"signer", id.PublicKey,
		"blockhash_slot", hint.Slot,
	)

	sig, err := id.Session.SignAndSubmit(ctx, tx, hint)
	if err != nil {
		o.logger.Warn("submission failed", "attempt", attempt, "signer", id.PublicKey, "err", err)
		return solana.Signature{}, err
	}

	o.logger.Info("transaction submitted", "attempt", attempt, "signature", sig)
	return sig, nil
}
