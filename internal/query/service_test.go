package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhire/dexhire-go/internal/domain"
	"github.com/dexhire/dexhire-go/internal/program"
	"github.com/dexhire/dexhire-go/pkg/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(fake *testutil.FakeLedger) *Service {
	return New(fake, program.DefaultProgramID, testLogger(), nil)
}

// installClientProfile stores a client profile at the PDA derived from the
// owner wallet, the address the join looks up.
func installClientProfile(t *testing.T, fake *testutil.FakeLedger, owner solana.PublicKey, name string) {
	t.Helper()
	pda, _, err := program.DeriveClientProfile(program.DefaultProgramID, owner)
	require.NoError(t, err)
	fake.SetAccount(pda, program.EncodeClientProfile(&program.Profile{
		Name:      name,
		Email:     name + "@example.com",
		Authority: owner,
	}))
}

func TestMyProjectsFiltersByCreator(t *testing.T) {
	fake := testutil.NewFakeLedger()
	owner := testutil.Pubkey("owner")
	other := testutil.Pubkey("other")

	fake.SetAccount(testutil.Pubkey("project-mine"), program.EncodeProject(&program.Project{
		Name: "mine", Creator: owner, Start: 1740000000,
	}))
	fake.SetAccount(testutil.Pubkey("project-theirs"), program.EncodeProject(&program.Project{
		Name: "theirs", Creator: other,
	}))
	installClientProfile(t, fake, owner, "Ada")

	views, err := newTestService(fake).MyProjects(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, "mine", v.Name)
	assert.Equal(t, owner, v.Creator)
	assert.Equal(t, domain.ProjectCreated, v.Status)
	assert.Equal(t, "Ada", v.Client.Name)
	assert.Equal(t, time.Unix(1740000000, 0).UTC(), v.CreatedAt)
	assert.False(t, v.Vault.IsZero())
}

func TestOpenProjectsExcludesAssignedAndCompleted(t *testing.T) {
	fake := testutil.NewFakeLedger()
	creator := testutil.Pubkey("creator")

	fake.SetAccount(testutil.Pubkey("open"), program.EncodeProject(&program.Project{
		Name: "open", Creator: creator, IsPublic: true,
	}))
	fake.SetAccount(testutil.Pubkey("assigned"), program.EncodeProject(&program.Project{
		Name: "assigned", Creator: creator, IsPublic: true, Freelancer: testutil.Pubkey("freelancer"),
	}))
	fake.SetAccount(testutil.Pubkey("done"), program.EncodeProject(&program.Project{
		Name: "done", Creator: creator, IsPublic: true, IsCompleted: true,
	}))
	fake.SetAccount(testutil.Pubkey("private"), program.EncodeProject(&program.Project{
		Name: "private", Creator: creator,
	}))

	views, err := newTestService(fake).OpenProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "open", views[0].Name)
	assert.Equal(t, domain.ProjectApproved, views[0].Status)
}

func TestAllPublicProjectsKeepsStatusBadges(t *testing.T) {
	fake := testutil.NewFakeLedger()
	creator := testutil.Pubkey("creator")

	fake.SetAccount(testutil.Pubkey("in-progress"), program.EncodeProject(&program.Project{
		Name: "in-progress", Creator: creator, IsPublic: true, Freelancer: testutil.Pubkey("freelancer"),
	}))
	fake.SetAccount(testutil.Pubkey("submitted"), program.EncodeProject(&program.Project{
		Name: "submitted", Creator: creator, IsPublic: true,
		Freelancer: testutil.Pubkey("freelancer"), GithubLink: "https://github.com/x", WorkSubmittedAt: 1745000000,
	}))
	fake.SetAccount(testutil.Pubkey("hidden"), program.EncodeProject(&program.Project{
		Name: "hidden", Creator: creator,
	}))

	views, err := newTestService(fake).AllPublicProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	byName := make(map[string]domain.ProjectView, len(views))
	for _, v := range views {
		byName[v.Name] = v
	}
	assert.Equal(t, domain.ProjectInProgress, byName["in-progress"].Status)
	assert.Equal(t, domain.ProjectWorkSubmitted, byName["submitted"].Status)
	assert.Equal(t, time.Unix(1745000000, 0).UTC(), byName["submitted"].WorkSubmitted)
}

func TestProjectViewFallsBackToAnonymous(t *testing.T) {
	fake := testutil.NewFakeLedger()
	creator := testutil.Pubkey("no-profile-creator")

	fake.SetAccount(testutil.Pubkey("orphan"), program.EncodeProject(&program.Project{
		Name: "orphan", Creator: creator, IsPublic: true,
	}))

	views, err := newTestService(fake).AllPublicProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.AnonymousName, views[0].Client.Name)
	assert.Empty(t, views[0].Client.Avatar)
}

func TestScanSkipsUndecodableAccounts(t *testing.T) {
	fake := testutil.NewFakeLedger()
	creator := testutil.Pubkey("creator")

	fake.SetAccount(testutil.Pubkey("good"), program.EncodeProject(&program.Project{
		Name: "good", Creator: creator, IsPublic: true,
	}))
	// Correct discriminator, garbage body.
	corrupt := append([]byte{}, program.AccountProject[:]...)
	corrupt = append(corrupt, 0xFF, 0xFF, 0xFF)
	fake.SetAccount(testutil.Pubkey("corrupt"), corrupt)

	views, err := newTestService(fake).AllPublicProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "good", views[0].Name)
}

func TestProjectsScanFailurePropagates(t *testing.T) {
	fake := testutil.NewFakeLedger()
	fake.ScanErr = errors.New("rpc unavailable")

	_, err := newTestService(fake).MyProjects(context.Background(), testutil.Pubkey("owner"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan projects")
}

func TestMyProposalsJoinsFreelancerProfiles(t *testing.T) {
	fake := testutil.NewFakeLedger()
	owner := testutil.Pubkey("client-owner")
	freelancerSigner := testutil.Pubkey("freelancer-owner")
	profileAddr := testutil.Pubkey("freelancer-profile")

	fake.SetAccount(profileAddr, program.EncodeFreelancerProfile(&program.Profile{
		Name: "Grace", Authority: freelancerSigner,
	}))
	fake.SetAccount(testutil.Pubkey("proposal-1"), program.EncodeProposal(&program.Proposal{
		FreelancerSigner:  freelancerSigner,
		FreelancerProfile: profileAddr,
		Project:           testutil.Pubkey("project"),
		Client:            owner,
		Message:           "two weeks",
		Accepted:          true,
	}))
	// A proposal on somebody else's project is filtered out.
	fake.SetAccount(testutil.Pubkey("proposal-2"), program.EncodeProposal(&program.Proposal{
		FreelancerSigner:  freelancerSigner,
		FreelancerProfile: profileAddr,
		Project:           testutil.Pubkey("project"),
		Client:            testutil.Pubkey("someone-else"),
	}))

	views, err := newTestService(fake).MyProposals(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, "two weeks", v.Message)
	assert.Equal(t, domain.ProposalAccepted, v.Status)
	assert.Equal(t, "Grace", v.FreelancerProfile.Name)
	assert.Empty(t, v.Anomaly)
}

func TestMyProposalsMissingProfileBecomesPlaceholder(t *testing.T) {
	fake := testutil.NewFakeLedger()
	owner := testutil.Pubkey("client-owner")
	freelancerSigner := testutil.Pubkey("freelancer-owner")

	fake.SetAccount(testutil.Pubkey("proposal"), program.EncodeProposal(&program.Proposal{
		FreelancerSigner:  freelancerSigner,
		FreelancerProfile: testutil.Pubkey("never-created"),
		Client:            owner,
	}))

	views, err := newTestService(fake).MyProposals(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.AnonymousName, views[0].FreelancerProfile.Name)
	assert.Equal(t, freelancerSigner, views[0].FreelancerProfile.Authority)
}

func TestMyProposalsFlagsExclusivityViolation(t *testing.T) {
	fake := testutil.NewFakeLedger()
	owner := testutil.Pubkey("client-owner")

	fake.SetAccount(testutil.Pubkey("bad-proposal"), program.EncodeProposal(&program.Proposal{
		Client:   owner,
		Accepted: true,
		Rejected: true,
	}))

	views, err := newTestService(fake).MyProposals(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, views, 1)

	// Flagged, not silently resolved: no status, anomaly carries the reason.
	assert.Empty(t, views[0].Status)
	assert.Contains(t, views[0].Anomaly, "both set")
}

func TestProfileByOwnerPrefersClientSlot(t *testing.T) {
	fake := testutil.NewFakeLedger()
	owner := testutil.Pubkey("dual-role")

	clientPDA, _, err := program.DeriveClientProfile(program.DefaultProgramID, owner)
	require.NoError(t, err)
	freelancerPDA, _, err := program.DeriveFreelancerProfile(program.DefaultProgramID, owner)
	require.NoError(t, err)

	fake.SetAccount(clientPDA, program.EncodeClientProfile(&program.Profile{Name: "ClientSide", Authority: owner}))
	fake.SetAccount(freelancerPDA, program.EncodeFreelancerProfile(&program.Profile{Name: "FreelanceSide", Authority: owner}))

	p, err := newTestService(fake).ProfileByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, domain.RoleClient, p.Role)
	assert.Equal(t, "ClientSide", p.Name)
	assert.Equal(t, clientPDA, p.Address)
}

func TestProfileByOwnerFallsBackToFreelancerSlot(t *testing.T) {
	fake := testutil.NewFakeLedger()
	owner := testutil.Pubkey("freelancer-only")

	freelancerPDA, _, err := program.DeriveFreelancerProfile(program.DefaultProgramID, owner)
	require.NoError(t, err)
	fake.SetAccount(freelancerPDA, program.EncodeFreelancerProfile(&program.Profile{Name: "Grace", Authority: owner}))

	p, err := newTestService(fake).ProfileByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, domain.RoleFreelancer, p.Role)
	assert.Equal(t, "Grace", p.Name)
}

func TestProfileByOwnerNoneHeld(t *testing.T) {
	fake := testutil.NewFakeLedger()

	p, err := newTestService(fake).ProfileByOwner(context.Background(), testutil.Pubkey("stranger"))
	require.NoError(t, err)
	assert.Nil(t, p)
}
