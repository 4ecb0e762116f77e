package marketplace

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/dexhire/dexhire-go/internal/cache"
	"github.com/dexhire/dexhire-go/internal/program"
)

var projectInvalidation = []cache.Key{
	cache.KeyProjects,
	cache.KeyMyProjects,
	cache.KeyOpenProjects,
}

// CreateProject creates a project and its escrow vault in one instruction.
// Price is in lamports; deadline is epoch seconds.
func (s *Service) CreateProject(ctx context.Context, name, about string, price uint64, deadline int64) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	clientPDA, _, err := program.DeriveClientProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive client profile: %w", err)
	}
	projectPDA, _, err := program.DeriveProject(s.programID, name, clientPDA, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive project: %w", err)
	}
	vaultPDA, _, err := program.DeriveVault(s.programID, projectPDA)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive vault: %w", err)
	}

	ix := program.NewCreateProjectInstruction(s.programID, name, about, price, deadline, projectPDA, id.PublicKey, clientPDA, vaultPDA)
	return s.submit(ctx, "create_project", id, []solana.Instruction{ix}, projectInvalidation...)
}

// FundProject deposits lamports into a project's escrow vault.
func (s *Service) FundProject(ctx context.Context, lamports uint64, project, vault solana.PublicKey) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	ix := program.NewFundProjectInstruction(s.programID, lamports, id.PublicKey, project, vault)
	return s.submit(ctx, "fund_project", id, []solana.Instruction{ix}, projectInvalidation...)
}

// ApproveProject makes the caller's project public and open for proposals.
// The project is re-derived from its name, so only the creator can address
// their own project here.
func (s *Service) ApproveProject(ctx context.Context, name string) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	clientPDA, _, err := program.DeriveClientProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive client profile: %w", err)
	}
	projectPDA, _, err := program.DeriveProject(s.programID, name, clientPDA, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive project: %w", err)
	}

	ix := program.NewApproveProjectInstruction(s.programID, name, projectPDA, id.PublicKey, clientPDA)
	return s.submit(ctx, "approve_project", id, []solana.Instruction{ix}, projectInvalidation...)
}

// SubmitWork records the freelancer's work link on the project. The program
// enforces that the caller is the assigned freelancer; a rejection here reads
// as "not authorized" to the caller, distinct from "not found".
func (s *Service) SubmitWork(ctx context.Context, project solana.PublicKey, workLink string) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	freelancerPDA, _, err := program.DeriveFreelancerProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive freelancer profile: %w", err)
	}

	ix := program.NewSubmitWorkInstruction(s.programID, workLink, project, freelancerPDA, id.PublicKey)
	return s.submit(ctx, "submit_work", id, []solana.Instruction{ix},
		cache.KeyProjects, cache.KeyMyProjects, cache.KeyConversations)
}

// CompleteProject marks the project completed. Creator-only at the program
// level.
func (s *Service) CompleteProject(ctx context.Context, project solana.PublicKey, name string, creator solana.PublicKey) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	ix := program.NewCompleteProjectInstruction(s.programID, name, project, creator, id.PublicKey)
	return s.submit(ctx, "complete_project", id, []solana.Instruction{ix}, projectInvalidation...)
}
