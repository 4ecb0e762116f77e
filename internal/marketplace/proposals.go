package marketplace

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/dexhire/dexhire-go/internal/cache"
	"github.com/dexhire/dexhire-go/internal/domain"
	"github.com/dexhire/dexhire-go/internal/program"
)

// SubmitProposal submits the caller's pitch on a project. The project view
// carries the derived status; anything other than approved is rejected here,
// locally, before any identity resolution or network traffic. A proposal on
// a non-open project is a caller error, not a program round-trip.
func (s *Service) SubmitProposal(ctx context.Context, project domain.ProjectView, message string) (solana.Signature, error) {
	if project.Status != domain.ProjectApproved {
		return solana.Signature{}, fmt.Errorf("%w: project %s status is %s", ErrNotOpenForProposals, project.Address, project.Status)
	}

	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	freelancerPDA, _, err := program.DeriveFreelancerProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive freelancer profile: %w", err)
	}
	proposalPDA, _, err := program.DeriveProposal(s.programID, project.Address, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive proposal: %w", err)
	}

	ix := program.NewSubmitProposalInstruction(s.programID, project.Name, message, proposalPDA, freelancerPDA, project.Address, id.PublicKey)
	return s.submit(ctx, "submit_proposal", id, []solana.Instruction{ix},
		cache.KeyProposals, cache.KeyProjects, cache.KeyOpenProjects, cache.KeyConversations)
}

// RespondToProposal accepts or rejects a proposal. Accepting assigns the
// freelancer to the project, which flips the project's derived status, so
// project views and conversation views go stale together with the proposal
// list.
func (s *Service) RespondToProposal(ctx context.Context, proposal, project, freelancerProfile solana.PublicKey, accept bool, message string) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	ix := program.NewRespondToProposalInstruction(s.programID, accept, message, proposal, project, freelancerProfile, id.PublicKey)
	return s.submit(ctx, "respond_to_proposal", id, []solana.Instruction{ix},
		cache.KeyProposals, cache.KeyProjects, cache.KeyMyProjects, cache.KeyConversations)
}

// ApproveWorkAndPay disburses the vault to the freelancer and closes out the
// work. Creator-only at the program level; a rejection reads as "not
// authorized", distinct from "not found" or a network failure.
func (s *Service) ApproveWorkAndPay(ctx context.Context, project, proposal, freelancerProfile, vault solana.PublicKey) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	ix := program.NewApproveWorkAndPayInstruction(s.programID, project, proposal, freelancerProfile, vault, id.PublicKey)
	return s.submit(ctx, "approve_work_and_pay", id, []solana.Instruction{ix},
		cache.KeyProjects, cache.KeyMyProjects, cache.KeyProposals, cache.KeyConversations)
}
