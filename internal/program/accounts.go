package program

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Account layouts as stored by the program: an 8-byte anchor discriminator
// followed by borsh-encoded fields in declaration order.

var (
	// AccountClientProfile is the discriminator prefix of ClientProfile accounts.
	AccountClientProfile = accountDiscriminator("ClientProfile")
	// AccountFreelancerProfile is the discriminator prefix of FreelancerProfile accounts.
	AccountFreelancerProfile = accountDiscriminator("FreelancerProfile")
	// AccountProject is the discriminator prefix of Project accounts.
	AccountProject = accountDiscriminator("Project")
	// AccountProposal is the discriminator prefix of Proposal accounts.
	AccountProposal = accountDiscriminator("Proposal")
)

// Profile is the on-chain state shared by client and freelancer profiles.
// The two account types carry the same fields and differ only by
// discriminator and seed tag.
type Profile struct {
	Name      string
	Email     string
	Bio       string
	Country   string
	Linkedin  string
	Avatar    string
	Authority solana.PublicKey
	Bump      uint8
}

// Project is the on-chain project state.
type Project struct {
	Name            string
	About           string
	Price           uint64
	Deadline        int64
	Start           int64
	ProposalCount   uint64
	IsPublic        bool
	Creator         solana.PublicKey
	Freelancer      solana.PublicKey // UnassignedFreelancer until one is accepted
	GithubLink      string           // empty until work is submitted
	WorkSubmittedAt int64            // 0 until work is submitted
	IsCompleted     bool
	Bump            uint8
}

// HasFreelancer reports whether a freelancer has been assigned.
func (p *Project) HasFreelancer() bool {
	return !p.Freelancer.Equals(UnassignedFreelancer)
}

// Proposal is the on-chain proposal state.
type Proposal struct {
	FreelancerSigner  solana.PublicKey
	FreelancerProfile solana.PublicKey
	Project           solana.PublicKey
	Client            solana.PublicKey
	Message           string
	Accepted          bool
	Rejected          bool
	Bump              uint8
}

// DecodeClientProfile decodes a ClientProfile account.
func DecodeClientProfile(data []byte) (*Profile, error) {
	return decodeProfile(data, AccountClientProfile, "ClientProfile")
}

// DecodeFreelancerProfile decodes a FreelancerProfile account.
func DecodeFreelancerProfile(data []byte) (*Profile, error) {
	return decodeProfile(data, AccountFreelancerProfile, "FreelancerProfile")
}

func decodeProfile(data []byte, disc [8]byte, name string) (*Profile, error) {
	offset, err := checkDiscriminator(data, disc, name)
	if err != nil {
		return nil, err
	}

	var p Profile
	if p.Name, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode %s name: %w", name, err)
	}
	if p.Email, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode %s email: %w", name, err)
	}
	if p.Bio, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode %s bio: %w", name, err)
	}
	if p.Country, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode %s country: %w", name, err)
	}
	if p.Linkedin, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode %s linkedin: %w", name, err)
	}
	if p.Avatar, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode %s avatar: %w", name, err)
	}
	if p.Authority, offset, err = readPubkey(data, offset); err != nil {
		return nil, fmt.Errorf("decode %s authority: %w", name, err)
	}
	if p.Bump, _, err = readU8(data, offset); err != nil {
		return nil, fmt.Errorf("decode %s bump: %w", name, err)
	}
	return &p, nil
}

// DecodeProject decodes a Project account.
func DecodeProject(data []byte) (*Project, error) {
	offset, err := checkDiscriminator(data, AccountProject, "Project")
	if err != nil {
		return nil, err
	}

	var p Project
	if p.Name, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project name: %w", err)
	}
	if p.About, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project about: %w", err)
	}
	if p.Price, offset, err = readU64(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project price: %w", err)
	}
	if p.Deadline, offset, err = readI64(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project deadline: %w", err)
	}
	if p.Start, offset, err = readI64(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project start: %w", err)
	}
	if p.ProposalCount, offset, err = readU64(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project proposal count: %w", err)
	}
	if p.IsPublic, offset, err = readBool(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project isPublic: %w", err)
	}
	if p.Creator, offset, err = readPubkey(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project creator: %w", err)
	}
	if p.Freelancer, offset, err = readPubkey(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project freelancer: %w", err)
	}
	if p.GithubLink, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project github link: %w", err)
	}
	if p.WorkSubmittedAt, offset, err = readI64(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project work submitted at: %w", err)
	}
	if p.IsCompleted, offset, err = readBool(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project isCompleted: %w", err)
	}
	if p.Bump, _, err = readU8(data, offset); err != nil {
		return nil, fmt.Errorf("decode Project bump: %w", err)
	}
	return &p, nil
}

// DecodeProposal decodes a Proposal account.
func DecodeProposal(data []byte) (*Proposal, error) {
	offset, err := checkDiscriminator(data, AccountProposal, "Proposal")
	if err != nil {
		return nil, err
	}

	var p Proposal
	if p.FreelancerSigner, offset, err = readPubkey(data, offset); err != nil {
		return nil, fmt.Errorf("decode Proposal freelancer signer: %w", err)
	}
	if p.FreelancerProfile, offset, err = readPubkey(data, offset); err != nil {
		return nil, fmt.Errorf("decode Proposal freelancer profile: %w", err)
	}
	if p.Project, offset, err = readPubkey(data, offset); err != nil {
		return nil, fmt.Errorf("decode Proposal project: %w", err)
	}
	if p.Client, offset, err = readPubkey(data, offset); err != nil {
		return nil, fmt.Errorf("decode Proposal client: %w", err)
	}
	if p.Message, offset, err = readString(data, offset); err != nil {
		return nil, fmt.Errorf("decode Proposal message: %w", err)
	}
	if p.Accepted, offset, err = readBool(data, offset); err != nil {
		return nil, fmt.Errorf("decode Proposal accepted: %w", err)
	}
	if p.Rejected, offset, err = readBool(data, offset); err != nil {
		return nil, fmt.Errorf("decode Proposal rejected: %w", err)
	}
	if p.Bump, _, err = readU8(data, offset); err != nil {
		return nil, fmt.Errorf("decode Proposal bump: %w", err)
	}
	return &p, nil
}

// EncodeClientProfile serializes a client profile account image. Used by
// tests and local fixtures; the program itself owns the authoritative layout.
func EncodeClientProfile(p *Profile) []byte {
	return encodeProfile(p, AccountClientProfile)
}

// EncodeFreelancerProfile serializes a freelancer profile account image.
func EncodeFreelancerProfile(p *Profile) []byte {
	return encodeProfile(p, AccountFreelancerProfile)
}

func encodeProfile(p *Profile, disc [8]byte) []byte {
	data := append([]byte{}, disc[:]...)
	data = appendString(data, p.Name)
	data = appendString(data, p.Email)
	data = appendString(data, p.Bio)
	data = appendString(data, p.Country)
	data = appendString(data, p.Linkedin)
	data = appendString(data, p.Avatar)
	data = appendPubkey(data, p.Authority)
	return append(data, p.Bump)
}

// EncodeProject serializes a project account image.
func EncodeProject(p *Project) []byte {
	data := append([]byte{}, AccountProject[:]...)
	data = appendString(data, p.Name)
	data = appendString(data, p.About)
	data = appendU64(data, p.Price)
	data = appendI64(data, p.Deadline)
	data = appendI64(data, p.Start)
	data = appendU64(data, p.ProposalCount)
	data = appendBool(data, p.IsPublic)
	data = appendPubkey(data, p.Creator)
	data = appendPubkey(data, p.Freelancer)
	data = appendString(data, p.GithubLink)
	data = appendI64(data, p.WorkSubmittedAt)
	data = appendBool(data, p.IsCompleted)
	return append(data, p.Bump)
}

// EncodeProposal serializes a proposal account image.
func EncodeProposal(p *Proposal) []byte {
	data := append([]byte{}, AccountProposal[:]...)
	data = appendPubkey(data, p.FreelancerSigner)
	data = appendPubkey(data, p.FreelancerProfile)
	data = appendPubkey(data, p.Project)
	data = appendPubkey(data, p.Client)
	data = appendString(data, p.Message)
	data = appendBool(data, p.Accepted)
	data = appendBool(data, p.Rejected)
	return append(data, p.Bump)
}

func checkDiscriminator(data []byte, disc [8]byte, name string) (int, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("%s account payload too short (%d bytes)", name, len(data))
	}
	if !bytes.Equal(data[:8], disc[:]) {
		return 0, fmt.Errorf("%s discriminator mismatch", name)
	}
	return 8, nil
}
