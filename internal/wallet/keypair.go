package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/dexhire/dexhire-go/internal/ledger"
)

// KeypairSession is a Session backed by a local keypair file. It is always
// "connected" and never prompts, which makes it the headless counterpart to
// an interactive wallet session.
type KeypairSession struct {
	key    solana.PrivateKey
	client *rpc.Client
}

// NewKeypairSession loads a Solana keygen file and binds it to an RPC
// endpoint for broadcasting.
func NewKeypairSession(keypairPath, endpoint string) (*KeypairSession, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		return nil, fmt.Errorf("load keypair %q: %w", keypairPath, err)
	}
	return &KeypairSession{key: key, client: rpc.New(endpoint)}, nil
}

// ResolvePublicKey always succeeds for a loaded keypair.
func (s *KeypairSession) ResolvePublicKey() (solana.PublicKey, bool) {
	return s.key.PublicKey(), true
}

// Connect is a no-op for a local keypair.
func (s *KeypairSession) Connect(ctx context.Context) (solana.PublicKey, error) {
	return s.key.PublicKey(), nil
}

// SignAndSubmit signs with the local key and broadcasts. Node rejections that
// carry a program error payload come back as *ProgramError with the payload
// untouched; everything else is transient.
func (s *KeypairSession) SignAndSubmit(ctx context.Context, tx *solana.Transaction, hint ledger.Blockhash) (solana.Signature, error) {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if s.key.PublicKey().Equals(key) {
			return &s.key
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
		MinContextSlot:      &hint.Slot,
	})
	if err != nil {
		return solana.Signature{}, classifySubmitError(err)
	}
	return sig, nil
}

func classifySubmitError(err error) error {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		payload, marshalErr := json.Marshal(rpcErr.Data)
		if marshalErr != nil {
			payload = nil
		}
		return &ProgramError{Message: rpcErr.Message, Payload: payload}
	}
	return &TransientError{Op: "sendTransaction", Err: err}
}
