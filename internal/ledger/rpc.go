package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPC implements Ledger over a Solana JSON-RPC node.
type RPC struct {
	client     *rpc.Client
	programID  solana.PublicKey
	commitment rpc.CommitmentType
	logger     *slog.Logger
}

// RPCConfig configures the RPC ledger.
type RPCConfig struct {
	Endpoint   string
	ProgramID  solana.PublicKey
	Commitment rpc.CommitmentType
}

// NewRPC creates a Ledger backed by a JSON-RPC node.
func NewRPC(cfg RPCConfig, logger *slog.Logger) (*RPC, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("RPC endpoint required")
	}
	commitment := cfg.Commitment
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &RPC{
		client:     rpc.New(cfg.Endpoint),
		programID:  cfg.ProgramID,
		commitment: commitment,
		logger:     logger,
	}, nil
}

// LatestBlockhash fetches the current blockhash at the configured commitment.
func (l *RPC) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	out, err := l.client.GetLatestBlockhash(ctx, l.commitment)
	if err != nil {
		return Blockhash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return Blockhash{
		Hash:                 out.Value.Blockhash,
		Slot:                 out.Context.Slot,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
	}, nil
}

// ScanAccounts lists program accounts filtered by discriminator prefix.
func (l *RPC) ScanAccounts(ctx context.Context, discriminator [8]byte) ([]KeyedAccount, error) {
	resp, err := l.client.GetProgramAccountsWithOpts(ctx, l.programID, &rpc.GetProgramAccountsOpts{
		Commitment: l.commitment,
		Filters: []rpc.RPCFilter{
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(discriminator[:])}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getProgramAccounts: %w", err)
	}

	accounts := make([]KeyedAccount, 0, len(resp))
	for _, item := range resp {
		if item == nil || item.Account == nil {
			continue
		}
		accounts = append(accounts, KeyedAccount{
			Address: item.Pubkey,
			Data:    item.Account.Data.GetBinary(),
		})
	}
	return accounts, nil
}

// FetchAccount returns a single account's raw data.
func (l *RPC) FetchAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	resp, err := l.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{Commitment: l.commitment})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("getAccountInfo %s: %w", address, err)
	}
	if resp == nil || resp.Value == nil {
		return nil, ErrAccountNotFound
	}
	return resp.Value.Data.GetBinary(), nil
}

// WaitForSignature polls until a submitted transaction reaches the confirmed
// or finalized commitment, or ctx expires. The submission itself cannot be
// cancelled; abandoning the wait does not mean the transaction did not land.
func (l *RPC) WaitForSignature(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(700 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			result, err := l.client.GetSignatureStatuses(ctx, true, sig)
			if err != nil {
				l.logger.Debug("signature status poll failed", "signature", sig, "err", err)
				continue
			}
			if len(result.Value) == 0 || result.Value[0] == nil {
				continue
			}
			status := result.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", sig, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		}
	}
}
