package marketplace

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/dexhire/dexhire-go/internal/cache"
	"github.com/dexhire/dexhire-go/internal/program"
)

// Profile mutations touch the owner's single profile slot per role; the views
// that join profile data onto projects and proposals are invalidated along
// with the profile itself.
var profileInvalidation = []cache.Key{
	cache.KeyProfile,
	cache.KeyProjects,
	cache.KeyMyProjects,
	cache.KeyOpenProjects,
	cache.KeyProposals,
}

// CreateClientProfile creates the caller's client profile.
func (s *Service) CreateClientProfile(ctx context.Context, name, email string) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	profilePDA, _, err := program.DeriveClientProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive client profile: %w", err)
	}

	ix := program.NewCreateClientProfileInstruction(s.programID, name, email, profilePDA, id.PublicKey)
	return s.submit(ctx, "create_client_profile", id, []solana.Instruction{ix}, profileInvalidation...)
}

// UpdateClientProfile updates the caller's client profile fields.
func (s *Service) UpdateClientProfile(ctx context.Context, args program.ProfileArgs) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	profilePDA, _, err := program.DeriveClientProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive client profile: %w", err)
	}

	ix := program.NewUpdateClientProfileInstruction(s.programID, args, profilePDA, id.PublicKey)
	return s.submit(ctx, "update_client_profile", id, []solana.Instruction{ix}, profileInvalidation...)
}

// DeleteClientProfile destroys the caller's client profile.
func (s *Service) DeleteClientProfile(ctx context.Context) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	profilePDA, _, err := program.DeriveClientProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive client profile: %w", err)
	}

	ix := program.NewDeleteClientProfileInstruction(s.programID, profilePDA, id.PublicKey)
	return s.submit(ctx, "delete_client_profile", id, []solana.Instruction{ix}, profileInvalidation...)
}

// CreateFreelancerProfile creates the caller's freelancer profile.
func (s *Service) CreateFreelancerProfile(ctx context.Context, name, email string) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	profilePDA, _, err := program.DeriveFreelancerProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive freelancer profile: %w", err)
	}

	ix := program.NewCreateFreelancerProfileInstruction(s.programID, name, email, profilePDA, id.PublicKey)
	return s.submit(ctx, "create_freelancer_profile", id, []solana.Instruction{ix}, profileInvalidation...)
}

// UpdateFreelancerProfile updates the caller's freelancer profile fields.
func (s *Service) UpdateFreelancerProfile(ctx context.Context, args program.ProfileArgs) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	profilePDA, _, err := program.DeriveFreelancerProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive freelancer profile: %w", err)
	}

	ix := program.NewUpdateFreelancerProfileInstruction(s.programID, args, profilePDA, id.PublicKey)
	return s.submit(ctx, "update_freelancer_profile", id, []solana.Instruction{ix}, profileInvalidation...)
}

// DeleteFreelancerProfile destroys the caller's freelancer profile.
func (s *Service) DeleteFreelancerProfile(ctx context.Context) (solana.Signature, error) {
	id, err := s.resolveIdentity(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	profilePDA, _, err := program.DeriveFreelancerProfile(s.programID, id.PublicKey)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("derive freelancer profile: %w", err)
	}

	ix := program.NewDeleteFreelancerProfileInstruction(s.programID, profilePDA, id.PublicKey)
	return s.submit(ctx, "delete_freelancer_profile", id, []solana.Instruction{ix}, profileInvalidation...)
}
