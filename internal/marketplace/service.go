// Package marketplace implements the mutation surface of the client: one
// wrapper per on-chain operation. Every wrapper follows the same fixed shape:
// resolve identity, derive addresses, encode the instruction, build the
// transaction (which fetches the freshness token), submit, then invalidate
// every cached view the instruction could have reached. Nothing is caught
// silently; failures propagate with their taxonomy class intact.
package marketplace

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/dexhire/dexhire-go/internal/cache"
	"github.com/dexhire/dexhire-go/internal/ledger"
	"github.com/dexhire/dexhire-go/internal/metrics"
	"github.com/dexhire/dexhire-go/internal/txbuilder"
	"github.com/dexhire/dexhire-go/internal/wallet"
)

// ErrNotOpenForProposals is returned by SubmitProposal before any network
// call when the target project's derived status is not approved.
var ErrNotOpenForProposals = errors.New("marketplace: project is not open for proposals")

// Service exposes the marketplace mutations.
type Service struct {
	programID solana.PublicKey
	builder   *txbuilder.Builder
	wallet    *wallet.Orchestrator
	cache     cache.Invalidator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	versioned bool
}

// Option configures the service.
type Option func(*Service)

// WithVersionedEnvelope makes all wrappers build v0 transactions, for signing
// capabilities that expect compiled messages instead of legacy envelopes.
func WithVersionedEnvelope() Option {
	return func(s *Service) { s.versioned = true }
}

// WithMetrics attaches submission metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates the marketplace service.
func New(programID solana.PublicKey, builder *txbuilder.Builder, w *wallet.Orchestrator, c cache.Invalidator, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		programID: programID,
		builder:   builder,
		wallet:    w,
		cache:     c,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveIdentity runs the orchestrator's identity-resolution step.
func (s *Service) resolveIdentity(ctx context.Context) (wallet.Identity, error) {
	return s.wallet.ResolveIdentity(ctx)
}

// submit builds, signs, and broadcasts the instructions for op, then
// invalidates the given views on success. The blockhash fetch happens inside
// the builder, strictly after instruction encoding.
func (s *Service) submit(ctx context.Context, op string, id wallet.Identity, instructions []solana.Instruction, invalidate ...cache.Key) (solana.Signature, error) {
	var (
		tx   *solana.Transaction
		hint ledger.Blockhash
		err  error
	)
	if s.versioned {
		tx, hint, err = s.builder.BuildVersioned(ctx, instructions, id.PublicKey)
	} else {
		tx, hint, err = s.builder.BuildLegacy(ctx, instructions, id.PublicKey)
	}
	if err != nil {
		s.metrics.ObserveSubmission(op, "build_error")
		return solana.Signature{}, err
	}

	sig, err := s.wallet.Submit(ctx, id, tx, hint)
	if err != nil {
		s.metrics.ObserveSubmission(op, outcomeFor(err))
		return solana.Signature{}, err
	}

	s.metrics.ObserveSubmission(op, "ok")
	s.cache.Invalidate(invalidate...)
	s.logger.Info("instruction confirmed by wallet", "operation", op, "signature", sig)
	return sig, nil
}

func outcomeFor(err error) string {
	var programErr *wallet.ProgramError
	switch {
	case errors.Is(err, wallet.ErrUserCancelled):
		return "cancelled"
	case errors.As(err, &programErr):
		return "program_rejected"
	case wallet.IsTransient(err):
		return "transient_error"
	default:
		return "error"
	}
}
