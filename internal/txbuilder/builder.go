// Package txbuilder assembles instructions into signable transaction
// envelopes. The blockhash is fetched here, after instruction encoding, so
// the staleness window before signing stays as small as possible.
package txbuilder

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/dexhire/dexhire-go/internal/ledger"
)

// Builder builds legacy and versioned transactions. Auxiliary signers are
// local key material for payer or fee-relay identities only; the acting
// user's signature always flows through the wallet orchestrator.
type Builder struct {
	ledger     ledger.Ledger
	auxSigners []solana.PrivateKey
}

// New creates a Builder reading freshness tokens from the given ledger.
func New(l ledger.Ledger, auxSigners ...solana.PrivateKey) *Builder {
	return &Builder{ledger: l, auxSigners: auxSigners}
}

// BuildLegacy assembles a legacy transaction: ordered instructions, fee payer,
// fresh blockhash. The returned Blockhash doubles as the freshness hint the
// signing capability expects.
func (b *Builder) BuildLegacy(ctx context.Context, instructions []solana.Instruction, feePayer solana.PublicKey) (*solana.Transaction, ledger.Blockhash, error) {
	return b.build(ctx, instructions, feePayer, false)
}

// BuildVersioned assembles a v0 transaction with a compiled message.
func (b *Builder) BuildVersioned(ctx context.Context, instructions []solana.Instruction, feePayer solana.PublicKey) (*solana.Transaction, ledger.Blockhash, error) {
	return b.build(ctx, instructions, feePayer, true)
}

func (b *Builder) build(ctx context.Context, instructions []solana.Instruction, feePayer solana.PublicKey, versioned bool) (*solana.Transaction, ledger.Blockhash, error) {
	if len(instructions) == 0 {
		return nil, ledger.Blockhash{}, fmt.Errorf("no instructions")
	}
	if feePayer.IsZero() {
		return nil, ledger.Blockhash{}, fmt.Errorf("fee payer required")
	}

	recent, err := b.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, ledger.Blockhash{}, fmt.Errorf("fetch blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Hash,
		solana.TransactionPayer(feePayer),
	)
	if err != nil {
		return nil, ledger.Blockhash{}, fmt.Errorf("build transaction: %w", err)
	}
	if versioned {
		tx.Message.SetVersion(solana.MessageVersionV0)
	}

	if len(b.auxSigners) > 0 {
		_, err = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
			for i := range b.auxSigners {
				if b.auxSigners[i].PublicKey().Equals(key) {
					return &b.auxSigners[i]
				}
			}
			return nil
		})
		if err != nil {
			return nil, ledger.Blockhash{}, fmt.Errorf("partial sign: %w", err)
		}
	}

	return tx, recent, nil
}
