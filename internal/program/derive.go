package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Address derivation. Every entity address is a program-derived address over a
// fixed seed tuple; seed order and byte encoding must stay bit-exact or the
// program will not recognize the account. A failed bump search means the seed
// tuple itself is wrong; callers treat it as a configuration defect, never a
// retryable condition.

// DeriveClientProfile returns the client-profile PDA for an owner wallet.
// Seeds: ["client", owner].
func DeriveClientProfile(programID, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, [][]byte{[]byte(SeedClient), owner.Bytes()})
}

// DeriveFreelancerProfile returns the freelancer-profile PDA for an owner
// wallet. Seeds: ["freelancer", owner].
func DeriveFreelancerProfile(programID, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, [][]byte{[]byte(SeedFreelancer), owner.Bytes()})
}

// DeriveProject returns the project PDA.
// Seeds: ["project", name, clientProfile, owner].
func DeriveProject(programID solana.PublicKey, name string, clientProfile, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, [][]byte{[]byte(SeedProject), []byte(name), clientProfile.Bytes(), owner.Bytes()})
}

// DeriveVault returns the escrow vault PDA for a project.
// Seeds: ["vault", project].
func DeriveVault(programID, project solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, [][]byte{[]byte(SeedVault), project.Bytes()})
}

// DeriveProposal returns the proposal PDA for a freelancer's pitch on a
// project. Seeds: ["proposal", project, freelancerOwner].
//
// Seeding on the freelancer identity keeps one proposal slot per freelancer
// per project; two freelancers submitting identical cover letters must not
// collide on the same address.
func DeriveProposal(programID, project, freelancerOwner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return derive(programID, [][]byte{[]byte(SeedProposal), project.Bytes(), freelancerOwner.Bytes()})
}

func derive(programID solana.PublicKey, seeds [][]byte) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive program address: %w", err)
	}
	return addr, bump, nil
}
