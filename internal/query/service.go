// Package query turns raw on-chain accounts into consistent view models:
// full scan, relationship filter, profile join, derived status. It is the
// only layer allowed to absorb a failure: a missing related profile becomes
// a placeholder rather than failing the whole view.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/dexhire/dexhire-go/internal/domain"
	"github.com/dexhire/dexhire-go/internal/ledger"
	"github.com/dexhire/dexhire-go/internal/metrics"
	"github.com/dexhire/dexhire-go/internal/program"
)

// Service builds the read views.
type Service struct {
	ledger    ledger.Ledger
	programID solana.PublicKey
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates a query service. metrics may be nil.
func New(l ledger.Ledger, programID solana.PublicKey, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{ledger: l, programID: programID, logger: logger, metrics: m}
}

type keyedProject struct {
	address solana.PublicKey
	project *program.Project
}

// MyProjects returns the projects created by owner, joined and status-derived.
func (s *Service) MyProjects(ctx context.Context, owner solana.PublicKey) ([]domain.ProjectView, error) {
	raw, err := s.scanProjects(ctx)
	if err != nil {
		return nil, err
	}

	mine := raw[:0]
	for _, p := range raw {
		if p.project.Creator.Equals(owner) {
			mine = append(mine, p)
		}
	}
	return s.buildProjectViews(ctx, mine)
}

// OpenProjects returns projects open for proposals: public, unassigned, not
// completed.
func (s *Service) OpenProjects(ctx context.Context) ([]domain.ProjectView, error) {
	raw, err := s.scanProjects(ctx)
	if err != nil {
		return nil, err
	}

	open := raw[:0]
	for _, p := range raw {
		if p.project.IsPublic && !p.project.HasFreelancer() && !p.project.IsCompleted {
			open = append(open, p)
		}
	}
	return s.buildProjectViews(ctx, open)
}

// AllPublicProjects returns every public project, including assigned and
// in-progress ones; the project browser shows these with their status badge.
func (s *Service) AllPublicProjects(ctx context.Context) ([]domain.ProjectView, error) {
	raw, err := s.scanProjects(ctx)
	if err != nil {
		return nil, err
	}

	public := raw[:0]
	for _, p := range raw {
		if p.project.IsPublic {
			public = append(public, p)
		}
	}
	return s.buildProjectViews(ctx, public)
}

// MyProposals returns all proposals on projects the owner created, joined
// with the submitting freelancers' profiles.
func (s *Service) MyProposals(ctx context.Context, owner solana.PublicKey) ([]domain.ProposalView, error) {
	accounts, err := s.ledger.ScanAccounts(ctx, program.AccountProposal)
	if err != nil {
		return nil, fmt.Errorf("scan proposals: %w", err)
	}
	s.metrics.ObserveScan("proposal", len(accounts))

	type keyedProposal struct {
		address  solana.PublicKey
		proposal *program.Proposal
	}
	var mine []keyedProposal
	profileAddrs := make(map[solana.PublicKey]struct{})
	for _, acc := range accounts {
		p, err := program.DecodeProposal(acc.Data)
		if err != nil {
			s.logger.Warn("skipping undecodable proposal account", "address", acc.Address, "err", err)
			continue
		}
		if !p.Client.Equals(owner) {
			continue
		}
		mine = append(mine, keyedProposal{address: acc.Address, proposal: p})
		profileAddrs[p.FreelancerProfile] = struct{}{}
	}

	profiles := s.fetchFreelancerProfiles(ctx, profileAddrs)

	views := make([]domain.ProposalView, 0, len(mine))
	for _, kp := range mine {
		view := domain.ProposalView{
			Address:          kp.address,
			Project:          kp.proposal.Project,
			Client:           kp.proposal.Client,
			FreelancerSigner: kp.proposal.FreelancerSigner,
			Message:          kp.proposal.Message,
		}

		profile, ok := profiles[kp.proposal.FreelancerProfile]
		if !ok {
			profile = domain.PlaceholderProfile(domain.RoleFreelancer, kp.proposal.FreelancerSigner)
		}
		view.FreelancerProfile = profile

		status, err := domain.DeriveProposalStatus(kp.address, kp.proposal)
		if err != nil {
			var integrity *domain.IntegrityError
			if errors.As(err, &integrity) {
				s.logger.Error("proposal state anomaly", "address", kp.address, "reason", integrity.Reason)
				view.Anomaly = integrity.Reason
			} else {
				return nil, err
			}
		} else {
			view.Status = status
		}
		views = append(views, view)
	}
	return views, nil
}

// ProfileByOwner resolves a wallet to its tagged profile, trying the client
// slot first and the freelancer slot second. Returns (nil, nil) when the
// owner holds neither. Fetch failures on one slot fall through to the next;
// profile discovery must not fail a whole screen.
func (s *Service) ProfileByOwner(ctx context.Context, owner solana.PublicKey) (*domain.Profile, error) {
	clientPDA, _, err := program.DeriveClientProfile(s.programID, owner)
	if err != nil {
		return nil, err
	}
	if data, err := s.ledger.FetchAccount(ctx, clientPDA); err == nil {
		raw, decodeErr := program.DecodeClientProfile(data)
		if decodeErr == nil {
			p := profileView(domain.RoleClient, clientPDA, raw)
			return &p, nil
		}
		s.logger.Warn("undecodable client profile", "address", clientPDA, "err", decodeErr)
	} else if !errors.Is(err, ledger.ErrAccountNotFound) {
		s.logger.Warn("client profile fetch failed", "address", clientPDA, "err", err)
	}

	freelancerPDA, _, err := program.DeriveFreelancerProfile(s.programID, owner)
	if err != nil {
		return nil, err
	}
	if data, err := s.ledger.FetchAccount(ctx, freelancerPDA); err == nil {
		raw, decodeErr := program.DecodeFreelancerProfile(data)
		if decodeErr == nil {
			p := profileView(domain.RoleFreelancer, freelancerPDA, raw)
			return &p, nil
		}
		s.logger.Warn("undecodable freelancer profile", "address", freelancerPDA, "err", decodeErr)
	} else if !errors.Is(err, ledger.ErrAccountNotFound) {
		s.logger.Warn("freelancer profile fetch failed", "address", freelancerPDA, "err", err)
	}

	return nil, nil
}

func (s *Service) scanProjects(ctx context.Context) ([]keyedProject, error) {
	accounts, err := s.ledger.ScanAccounts(ctx, program.AccountProject)
	if err != nil {
		return nil, fmt.Errorf("scan projects: %w", err)
	}
	s.metrics.ObserveScan("project", len(accounts))

	projects := make([]keyedProject, 0, len(accounts))
	for _, acc := range accounts {
		p, err := program.DecodeProject(acc.Data)
		if err != nil {
			s.logger.Warn("skipping undecodable project account", "address", acc.Address, "err", err)
			continue
		}
		projects = append(projects, keyedProject{address: acc.Address, project: p})
	}
	return projects, nil
}

// buildProjectViews joins creator profiles onto projects and derives status.
func (s *Service) buildProjectViews(ctx context.Context, projects []keyedProject) ([]domain.ProjectView, error) {
	creators := make(map[solana.PublicKey]struct{})
	for _, kp := range projects {
		creators[kp.project.Creator] = struct{}{}
	}
	profiles := s.fetchClientProfiles(ctx, creators)

	views := make([]domain.ProjectView, 0, len(projects))
	for _, kp := range projects {
		p := kp.project

		vault, _, err := program.DeriveVault(s.programID, kp.address)
		if err != nil {
			return nil, fmt.Errorf("derive vault for %s: %w", kp.address, err)
		}

		profile, ok := profiles[p.Creator]
		if !ok {
			profile = domain.PlaceholderProfile(domain.RoleClient, p.Creator)
		}

		view := domain.ProjectView{
			Address:       kp.address,
			Name:          p.Name,
			About:         p.About,
			Price:         p.Price,
			CreatedAt:     time.Unix(p.Start, 0).UTC(),
			ProposalCount: p.ProposalCount,
			Status:        domain.DeriveProjectStatus(p),
			IsPublic:      p.IsPublic,
			IsCompleted:   p.IsCompleted,
			Creator:       p.Creator,
			Client:        profile,
			GithubLink:    p.GithubLink,
			Vault:         vault,
		}
		if p.Deadline != 0 {
			view.Deadline = time.Unix(p.Deadline, 0).UTC()
		}
		if p.HasFreelancer() {
			view.Freelancer = p.Freelancer
		}
		if p.WorkSubmittedAt != 0 {
			view.WorkSubmitted = time.Unix(p.WorkSubmittedAt, 0).UTC()
		}
		views = append(views, view)
	}
	return views, nil
}

// fetchClientProfiles fetches the client profile for each creator wallet,
// keyed by creator. Failures become placeholders.
func (s *Service) fetchClientProfiles(ctx context.Context, creators map[solana.PublicKey]struct{}) map[solana.PublicKey]domain.Profile {
	profiles := make(map[solana.PublicKey]domain.Profile, len(creators))
	for creator := range creators {
		pda, _, err := program.DeriveClientProfile(s.programID, creator)
		if err != nil {
			s.logger.Warn("client profile derivation failed", "creator", creator, "err", err)
			continue
		}
		data, err := s.ledger.FetchAccount(ctx, pda)
		if err != nil {
			if !errors.Is(err, ledger.ErrAccountNotFound) {
				s.logger.Warn("client profile fetch failed", "address", pda, "err", err)
			}
			continue
		}
		raw, err := program.DecodeClientProfile(data)
		if err != nil {
			s.logger.Warn("undecodable client profile", "address", pda, "err", err)
			continue
		}
		profiles[creator] = profileView(domain.RoleClient, pda, raw)
	}
	return profiles
}

// fetchFreelancerProfiles fetches freelancer profiles by profile address.
func (s *Service) fetchFreelancerProfiles(ctx context.Context, addrs map[solana.PublicKey]struct{}) map[solana.PublicKey]domain.Profile {
	profiles := make(map[solana.PublicKey]domain.Profile, len(addrs))
	for addr := range addrs {
		data, err := s.ledger.FetchAccount(ctx, addr)
		if err != nil {
			if !errors.Is(err, ledger.ErrAccountNotFound) {
				s.logger.Warn("freelancer profile fetch failed", "address", addr, "err", err)
			}
			continue
		}
		raw, err := program.DecodeFreelancerProfile(data)
		if err != nil {
			s.logger.Warn("undecodable freelancer profile", "address", addr, "err", err)
			continue
		}
		profiles[addr] = profileView(domain.RoleFreelancer, addr, raw)
	}
	return profiles
}

func profileView(role domain.Role, addr solana.PublicKey, p *program.Profile) domain.Profile {
	return domain.Profile{
		Role:      role,
		Address:   addr,
		Name:      p.Name,
		Email:     p.Email,
		Bio:       p.Bio,
		Country:   p.Country,
		Linkedin:  p.Linkedin,
		Avatar:    p.Avatar,
		Authority: p.Authority,
	}
}
