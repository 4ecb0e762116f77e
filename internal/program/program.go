// Package program encodes the client side of the Dexhire on-chain program:
// deterministic address derivation, account layouts, and per-operation
// instruction construction. Everything here is pure; no network access.
package program

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

// DefaultProgramID is the deployed Dexhire program.
var DefaultProgramID = solana.MustPublicKeyFromBase58("341BQ4r4HykJSTSr9XKWeR2fDt9d5WCSUCn4VS4q7iyg")

// PDA seed tags. These are part of the on-chain program's derivation scheme
// and must stay byte-identical to what the program expects.
const (
	SeedClient     = "client"
	SeedFreelancer = "freelancer"
	SeedProject    = "project"
	SeedVault      = "vault"
	SeedProposal   = "proposal"
)

// UnassignedFreelancer is the sentinel stored in Project.Freelancer while no
// freelancer has been accepted (the all-zero system default key).
var UnassignedFreelancer = solana.PublicKey{}

// instructionDiscriminator returns the 8-byte anchor discriminator for a
// global instruction name (snake_case).
func instructionDiscriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}

// accountDiscriminator returns the 8-byte anchor discriminator for an account
// struct name (CamelCase).
func accountDiscriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}
