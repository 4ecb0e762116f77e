// Package domain holds the application-visible view of on-chain marketplace
// state: tagged profiles, project and proposal view models, and the derived
// status rules.
package domain

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/dexhire/dexhire-go/internal/program"
)

// Role discriminates the two profile account types.
type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

// ProjectStatus is derived from raw project fields; it is never stored
// on-chain as a single value.
type ProjectStatus string

const (
	ProjectCreated       ProjectStatus = "created"
	ProjectApproved      ProjectStatus = "approved"
	ProjectInProgress    ProjectStatus = "in_progress"
	ProjectWorkSubmitted ProjectStatus = "work_submitted"
	ProjectCompleted     ProjectStatus = "completed"
)

// ProposalStatus is derived from the accepted/rejected flag pair.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// DeriveProjectStatus computes the project status. Precedence is fixed:
// completed beats a stale work link, a work link beats an assigned
// freelancer, an assigned freelancer beats public visibility.
func DeriveProjectStatus(p *program.Project) ProjectStatus {
	switch {
	case p.IsCompleted:
		return ProjectCompleted
	case p.GithubLink != "":
		return ProjectWorkSubmitted
	case p.HasFreelancer():
		return ProjectInProgress
	case p.IsPublic:
		return ProjectApproved
	default:
		return ProjectCreated
	}
}

// IntegrityError flags on-chain state that violates a modeled invariant. It
// must be surfaced, never silently resolved.
type IntegrityError struct {
	Entity  string
	Address solana.PublicKey
	Reason  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %s: %s", e.Entity, e.Address, e.Reason)
}

// DeriveProposalStatus computes the proposal status. A proposal carrying both
// flags is not a defined state and is reported as an IntegrityError.
func DeriveProposalStatus(addr solana.PublicKey, p *program.Proposal) (ProposalStatus, error) {
	switch {
	case p.Accepted && p.Rejected:
		return "", &IntegrityError{Entity: "proposal", Address: addr, Reason: "accepted and rejected flags both set"}
	case p.Accepted:
		return ProposalAccepted, nil
	case p.Rejected:
		return ProposalRejected, nil
	default:
		return ProposalPending, nil
	}
}

// Profile is the tagged union over the two profile account types. Holding a
// client profile and a freelancer profile under one wallet is possible at the
// address level; the application treats the roles as exclusive by convention,
// looking the client slot up first.
type Profile struct {
	Role      Role
	Address   solana.PublicKey
	Name      string
	Email     string
	Bio       string
	Country   string
	Linkedin  string
	Avatar    string
	Authority solana.PublicKey
}

// AnonymousName is the placeholder used when a related profile cannot be
// fetched while building a view.
const AnonymousName = "Anonymous"

// PlaceholderProfile stands in for a profile that could not be fetched; a
// missing profile must not fail a whole list view.
func PlaceholderProfile(role Role, authority solana.PublicKey) Profile {
	return Profile{Role: role, Name: AnonymousName, Authority: authority}
}

// ProjectView is a project joined with its creator's profile and derived
// status, ready for rendering.
type ProjectView struct {
	Address       solana.PublicKey
	Name          string
	About         string
	Price         uint64
	Deadline      time.Time
	CreatedAt     time.Time
	ProposalCount uint64
	Status        ProjectStatus
	IsPublic      bool
	IsCompleted   bool
	Creator       solana.PublicKey
	Client        Profile
	Freelancer    solana.PublicKey // zero when unassigned
	GithubLink    string
	WorkSubmitted time.Time // zero when no work submitted
	Vault         solana.PublicKey
}

// ProposalView is a proposal joined with the submitting freelancer's profile
// and derived status.
type ProposalView struct {
	Address           solana.PublicKey
	Project           solana.PublicKey
	Client            solana.PublicKey
	FreelancerSigner  solana.PublicKey
	FreelancerProfile Profile
	Message           string
	Status            ProposalStatus
	// Anomaly is set instead of Status when the raw flags violate the
	// accepted/rejected exclusivity invariant.
	Anomaly string
}
