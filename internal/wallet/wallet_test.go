package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhire/dexhire-go/internal/ledger"
)

// scriptedSession lives here rather than in the shared fakes to avoid an
// import cycle with pkg/testutil.
type scriptedSession struct {
	mu sync.Mutex

	connected  bool
	key        solana.PublicKey
	connectKey solana.PublicKey
	connectErr error

	submitSig solana.Signature
	submitErr error

	calls []string
}

func (s *scriptedSession) ResolvePublicKey() (solana.PublicKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "ResolvePublicKey")
	if !s.connected {
		return solana.PublicKey{}, false
	}
	return s.key, true
}

func (s *scriptedSession) Connect(ctx context.Context) (solana.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "Connect")
	if s.connectErr != nil {
		return solana.PublicKey{}, s.connectErr
	}
	return s.connectKey, nil
}

func (s *scriptedSession) SignAndSubmit(ctx context.Context, tx *solana.Transaction, hint ledger.Blockhash) (solana.Signature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "SignAndSubmit")
	if s.submitErr != nil {
		return solana.Signature{}, s.submitErr
	}
	return s.submitSig, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionKey(seed byte) solana.PublicKey {
	var b [32]byte
	for i := range b {
		b[i] = seed
	}
	return solana.PublicKeyFromBytes(b[:])
}

func TestResolveIdentityPrefersConnectedPrimary(t *testing.T) {
	primary := &scriptedSession{connected: true, key: sessionKey(1)}
	fallback := &scriptedSession{connectKey: sessionKey(2)}
	o := NewOrchestrator(primary, fallback, testLogger())

	id, err := o.ResolveIdentity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sessionKey(1), id.PublicKey)
	assert.Same(t, Session(primary), id.Session)
	// The fallback's connect flow never fires when the primary answers.
	assert.Empty(t, fallback.calls)
}

func TestResolveIdentityFallsBackToConnect(t *testing.T) {
	primary := &scriptedSession{connected: false}
	fallback := &scriptedSession{connectKey: sessionKey(3)}
	o := NewOrchestrator(primary, fallback, testLogger())

	id, err := o.ResolveIdentity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sessionKey(3), id.PublicKey)
	assert.Equal(t, []string{"ResolvePublicKey"}, primary.calls)
	assert.Equal(t, []string{"Connect"}, fallback.calls)
}

func TestResolveIdentitySurfacesCancellation(t *testing.T) {
	primary := &scriptedSession{connected: false}
	fallback := &scriptedSession{connectErr: fmt.Errorf("prompt dismissed: %w", ErrUserCancelled)}
	o := NewOrchestrator(primary, fallback, testLogger())

	_, err := o.ResolveIdentity(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserCancelled)
}

func TestResolveIdentityNoSources(t *testing.T) {
	o := NewOrchestrator(nil, nil, testLogger())

	_, err := o.ResolveIdentity(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestResolveIdentityZeroKeysAreUnusable(t *testing.T) {
	primary := &scriptedSession{connected: true} // connected but zero key
	fallback := &scriptedSession{}               // connect returns zero key
	o := NewOrchestrator(primary, fallback, testLogger())

	_, err := o.ResolveIdentity(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestSubmitDelegatesToSession(t *testing.T) {
	session := &scriptedSession{connected: true, key: sessionKey(4)}
	copy(session.submitSig[:], []byte("signature"))
	o := NewOrchestrator(session, nil, testLogger())

	id := Identity{PublicKey: sessionKey(4), Session: session}
	sig, err := o.Submit(context.Background(), id, &solana.Transaction{}, ledger.Blockhash{Slot: 7})
	require.NoError(t, err)
	assert.Equal(t, session.submitSig, sig)
}

func TestSubmitPassesErrorsThroughUnchanged(t *testing.T) {
	rejection := &ProgramError{Message: "custom program error: 0x1771"}
	session := &scriptedSession{connected: true, key: sessionKey(5), submitErr: rejection}
	o := NewOrchestrator(session, nil, testLogger())

	id := Identity{PublicKey: sessionKey(5), Session: session}
	_, err := o.Submit(context.Background(), id, &solana.Transaction{}, ledger.Blockhash{})
	require.Error(t, err)

	var got *ProgramError
	require.True(t, errors.As(err, &got))
	assert.Same(t, rejection, got)
	// Exactly one attempt. The orchestrator adds no retries.
	assert.Equal(t, []string{"SignAndSubmit"}, session.calls)
}

func TestProgramErrorPayloadExtraction(t *testing.T) {
	payload := []byte(`{"err":{"InstructionError":[0,{"Custom":6001}]},"logs":["Program log: escrow empty","Program failed"]}`)
	e := &ProgramError{Message: "simulation failed", Payload: payload}

	code, ok := e.InstructionErrorCode()
	require.True(t, ok)
	assert.Equal(t, int64(6001), code)

	logs := e.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "Program log: escrow empty", logs[0])
}

func TestProgramErrorWithoutCustomCode(t *testing.T) {
	e := &ProgramError{Message: "blockhash not found", Payload: []byte(`{"err":"BlockhashNotFound"}`)}

	_, ok := e.InstructionErrorCode()
	assert.False(t, ok)
	assert.Nil(t, e.Logs())
}

func TestIsTransient(t *testing.T) {
	inner := errors.New("connection reset")
	err := fmt.Errorf("broadcast: %w", &TransientError{Op: "sendTransaction", Err: inner})

	assert.True(t, IsTransient(err))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.ErrorIs(t, err, inner)
}
