package program

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T, seed byte) solana.PublicKey {
	t.Helper()
	var b [32]byte
	for i := range b {
		b[i] = seed
	}
	return solana.PublicKeyFromBytes(b[:])
}

func TestDeriveIsDeterministic(t *testing.T) {
	programID := DefaultProgramID
	owner := testKey(t, 1)

	first, firstBump, err := DeriveClientProfile(programID, owner)
	require.NoError(t, err)
	second, secondBump, err := DeriveClientProfile(programID, owner)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstBump, secondBump)
	assert.False(t, first.IsZero())
}

func TestDeriveEntitiesDoNotCollide(t *testing.T) {
	programID := DefaultProgramID
	owner := testKey(t, 2)

	client, _, err := DeriveClientProfile(programID, owner)
	require.NoError(t, err)
	freelancer, _, err := DeriveFreelancerProfile(programID, owner)
	require.NoError(t, err)

	// Same owner, different seed tags.
	assert.NotEqual(t, client, freelancer)

	project, _, err := DeriveProject(programID, "site redesign", client, owner)
	require.NoError(t, err)
	vault, _, err := DeriveVault(programID, project)
	require.NoError(t, err)

	assert.NotEqual(t, project, vault)
	assert.NotEqual(t, project, client)
}

func TestDeriveProjectVariesWithName(t *testing.T) {
	programID := DefaultProgramID
	owner := testKey(t, 3)
	client, _, err := DeriveClientProfile(programID, owner)
	require.NoError(t, err)

	a, _, err := DeriveProject(programID, "alpha", client, owner)
	require.NoError(t, err)
	b, _, err := DeriveProject(programID, "beta", client, owner)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDeriveProposalPerFreelancer(t *testing.T) {
	programID := DefaultProgramID
	project := testKey(t, 4)

	first, _, err := DeriveProposal(programID, project, testKey(t, 5))
	require.NoError(t, err)
	second, _, err := DeriveProposal(programID, project, testKey(t, 6))
	require.NoError(t, err)

	// One slot per freelancer per project: identical pitches from two
	// freelancers still land on distinct addresses.
	assert.NotEqual(t, first, second)

	again, _, err := DeriveProposal(programID, project, testKey(t, 5))
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestDeriveProposalVariesWithProject(t *testing.T) {
	programID := DefaultProgramID
	freelancer := testKey(t, 7)

	a, _, err := DeriveProposal(programID, testKey(t, 8), freelancer)
	require.NoError(t, err)
	b, _, err := DeriveProposal(programID, testKey(t, 9), freelancer)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
