package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClientProfile(t *testing.T) {
	in := &Profile{
		Name:      "Ada",
		Email:     "ada@example.com",
		Bio:       "backend work",
		Country:   "PT",
		Linkedin:  "https://linkedin.com/in/ada",
		Avatar:    "https://cdn.example.com/ada.png",
		Authority: testKey(t, 10),
		Bump:      254,
	}

	out, err := DecodeClientProfile(EncodeClientProfile(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeClientProfileRejectsWrongDiscriminator(t *testing.T) {
	data := EncodeFreelancerProfile(&Profile{Name: "Ada"})
	_, err := DecodeClientProfile(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discriminator mismatch")
}

func TestDecodeProfileRejectsShortPayload(t *testing.T) {
	_, err := DecodeFreelancerProfile([]byte{1, 2, 3})
	require.Error(t, err)

	// Discriminator present but fields truncated.
	truncated := EncodeFreelancerProfile(&Profile{Name: "Ada", Email: "a@b.c"})[:12]
	_, err = DecodeFreelancerProfile(truncated)
	require.Error(t, err)
}

func TestDecodeProject(t *testing.T) {
	in := &Project{
		Name:            "site redesign",
		About:           "rebuild the storefront",
		Price:           5_000_000_000,
		Deadline:        1750000000,
		Start:           1740000000,
		ProposalCount:   3,
		IsPublic:        true,
		Creator:         testKey(t, 11),
		Freelancer:      testKey(t, 12),
		GithubLink:      "https://github.com/acme/storefront",
		WorkSubmittedAt: 1745000000,
		IsCompleted:     false,
		Bump:            253,
	}

	out, err := DecodeProject(EncodeProject(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.HasFreelancer())
}

func TestProjectHasFreelancerSentinel(t *testing.T) {
	p := &Project{Freelancer: UnassignedFreelancer}
	assert.False(t, p.HasFreelancer())
}

func TestDecodeProposal(t *testing.T) {
	in := &Proposal{
		FreelancerSigner:  testKey(t, 13),
		FreelancerProfile: testKey(t, 14),
		Project:           testKey(t, 15),
		Client:            testKey(t, 16),
		Message:           "I can ship this in two weeks",
		Accepted:          true,
		Rejected:          false,
		Bump:              252,
	}

	out, err := DecodeProposal(EncodeProposal(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeProposalRejectsProjectPayload(t *testing.T) {
	data := EncodeProject(&Project{Name: "x"})
	_, err := DecodeProposal(data)
	require.Error(t, err)
}
