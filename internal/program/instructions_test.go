package program

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instructionData(t *testing.T, ix solana.Instruction) []byte {
	t.Helper()
	data, err := ix.Data()
	require.NoError(t, err)
	return data
}

func TestInstructionDiscriminators(t *testing.T) {
	names := map[string][8]byte{
		"create_client_profile": ixCreateClientProfile,
		"create_project":        ixCreateProject,
		"submit_proposal":       ixSubmitProposal,
		"respond_to_proposal":   ixRespondToProposal,
		"approve_work_and_pay":  ixApproveWorkAndPay,
	}
	for name, disc := range names {
		hash := sha256.Sum256([]byte("global:" + name))
		assert.Equal(t, hash[:8], disc[:], name)
	}
}

func TestCreateClientProfileInstruction(t *testing.T) {
	programID := DefaultProgramID
	profile := testKey(t, 20)
	owner := testKey(t, 21)

	ix := NewCreateClientProfileInstruction(programID, "Ada", "ada@example.com", profile, owner)
	assert.Equal(t, programID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, profile, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsWritable)
	assert.False(t, accounts[0].IsSigner)
	assert.Equal(t, owner, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsWritable)
	assert.True(t, accounts[1].IsSigner)
	assert.Equal(t, solana.SystemProgramID, accounts[2].PublicKey)
	assert.False(t, accounts[2].IsWritable)
	assert.False(t, accounts[2].IsSigner)

	data := instructionData(t, ix)
	assert.Equal(t, ixCreateClientProfile[:], data[:8])
	// Strings are u32 length-prefixed, little endian.
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, "Ada", string(data[12:15]))
}

func TestCreateProjectInstructionArgsAndAccounts(t *testing.T) {
	programID := DefaultProgramID
	project := testKey(t, 22)
	owner := testKey(t, 23)
	client := testKey(t, 24)
	vault := testKey(t, 25)

	ix := NewCreateProjectInstruction(programID, "site", "about", 9_000, 1750000000, project, owner, client, vault)

	accounts := ix.Accounts()
	require.Len(t, accounts, 5)
	assert.Equal(t, project, accounts[0].PublicKey)
	assert.Equal(t, owner, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsSigner)
	assert.Equal(t, client, accounts[2].PublicKey)
	assert.False(t, accounts[2].IsWritable)
	assert.Equal(t, vault, accounts[3].PublicKey)
	assert.True(t, accounts[3].IsWritable)
	assert.Equal(t, solana.SystemProgramID, accounts[4].PublicKey)

	data := instructionData(t, ix)
	assert.Equal(t, ixCreateProject[:], data[:8])
	offset := 8
	offset += 4 + len("site")
	offset += 4 + len("about")
	assert.Equal(t, uint64(9_000), binary.LittleEndian.Uint64(data[offset:offset+8]))
	offset += 8
	assert.Equal(t, uint64(1750000000), binary.LittleEndian.Uint64(data[offset:offset+8]))
}

func TestFundProjectInstruction(t *testing.T) {
	programID := DefaultProgramID
	client := testKey(t, 26)
	project := testKey(t, 27)
	vault := testKey(t, 28)

	ix := NewFundProjectInstruction(programID, 123_456, client, project, vault)

	accounts := ix.Accounts()
	require.Len(t, accounts, 4)
	assert.True(t, accounts[0].IsSigner)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, project, accounts[1].PublicKey)
	assert.False(t, accounts[1].IsWritable)
	assert.Equal(t, vault, accounts[2].PublicKey)
	assert.True(t, accounts[2].IsWritable)

	data := instructionData(t, ix)
	assert.Equal(t, uint64(123_456), binary.LittleEndian.Uint64(data[8:16]))
}

func TestRespondToProposalInstruction(t *testing.T) {
	programID := DefaultProgramID
	proposal := testKey(t, 29)
	project := testKey(t, 30)
	profile := testKey(t, 31)
	owner := testKey(t, 32)

	ix := NewRespondToProposalInstruction(programID, true, "welcome aboard", proposal, project, profile, owner)

	accounts := ix.Accounts()
	require.Len(t, accounts, 4)
	assert.Equal(t, proposal, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, project, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsWritable)
	assert.Equal(t, profile, accounts[2].PublicKey)
	assert.False(t, accounts[2].IsWritable)
	assert.Equal(t, owner, accounts[3].PublicKey)
	assert.True(t, accounts[3].IsSigner)

	data := instructionData(t, ix)
	assert.Equal(t, ixRespondToProposal[:], data[:8])
	assert.Equal(t, byte(1), data[8])
	assert.Equal(t, uint32(len("welcome aboard")), binary.LittleEndian.Uint32(data[9:13]))
}

func TestApproveWorkAndPayInstruction(t *testing.T) {
	programID := DefaultProgramID
	project := testKey(t, 33)
	proposal := testKey(t, 34)
	profile := testKey(t, 35)
	vault := testKey(t, 36)
	owner := testKey(t, 37)

	ix := NewApproveWorkAndPayInstruction(programID, project, proposal, profile, vault, owner)

	accounts := ix.Accounts()
	require.Len(t, accounts, 6)
	assert.Equal(t, project, accounts[0].PublicKey)
	assert.Equal(t, proposal, accounts[1].PublicKey)
	assert.Equal(t, profile, accounts[2].PublicKey)
	assert.Equal(t, vault, accounts[3].PublicKey)
	assert.True(t, accounts[3].IsWritable)
	assert.Equal(t, owner, accounts[4].PublicKey)
	assert.True(t, accounts[4].IsSigner)
	assert.Equal(t, solana.SystemProgramID, accounts[5].PublicKey)

	// No args beyond the discriminator.
	assert.Len(t, instructionData(t, ix), 8)
}

func TestSubmitWorkInstruction(t *testing.T) {
	programID := DefaultProgramID
	project := testKey(t, 38)
	profile := testKey(t, 39)
	owner := testKey(t, 40)

	ix := NewSubmitWorkInstruction(programID, "https://github.com/acme/pr/1", project, profile, owner)

	accounts := ix.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, project, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, owner, accounts[2].PublicKey)
	assert.True(t, accounts[2].IsSigner)

	data := instructionData(t, ix)
	assert.Equal(t, ixSubmitWork[:], data[:8])
}
