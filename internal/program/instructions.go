package program

import (
	"github.com/gagliardetto/solana-go"
)

// Instruction builders, one per on-chain operation. Account order is mandated
// by the program and must not be reordered or extended.

var (
	ixCreateClientProfile     = instructionDiscriminator("create_client_profile")
	ixUpdateClientProfile     = instructionDiscriminator("update_client_profile")
	ixDeleteClientProfile     = instructionDiscriminator("delete_client_profile")
	ixCreateFreelancerProfile = instructionDiscriminator("create_freelancer_profile")
	ixUpdateFreelancerProfile = instructionDiscriminator("update_freelancer_profile")
	ixDeleteFreelancerProfile = instructionDiscriminator("delete_freelancer_profile")
	ixCreateProject           = instructionDiscriminator("create_project")
	ixFundProject             = instructionDiscriminator("fund_project")
	ixApproveProject          = instructionDiscriminator("approve_project")
	ixSubmitProposal          = instructionDiscriminator("submit_proposal")
	ixRespondToProposal       = instructionDiscriminator("respond_to_proposal")
	ixSubmitWork              = instructionDiscriminator("submit_work")
	ixApproveWorkAndPay       = instructionDiscriminator("approve_work_and_pay")
	ixCompleteProject         = instructionDiscriminator("complete_project")
)

// ProfileArgs carries the mutable profile fields for update instructions.
type ProfileArgs struct {
	Name      string
	Email     string
	Bio       string
	Country   string
	Linkedin  string
	Authority solana.PublicKey
}

// NewCreateClientProfileInstruction builds create_client_profile.
func NewCreateClientProfileInstruction(programID solana.PublicKey, name, email string, clientProfile, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixCreateClientProfile[:]...)
	data = appendString(data, name)
	data = appendString(data, email)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(clientProfile, true, false),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewUpdateClientProfileInstruction builds update_client_profile.
func NewUpdateClientProfileInstruction(programID solana.PublicKey, args ProfileArgs, clientProfile, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixUpdateClientProfile[:]...)
	data = appendProfileArgs(data, args)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(clientProfile, true, false),
		solana.NewAccountMeta(owner, true, true),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewDeleteClientProfileInstruction builds delete_client_profile.
func NewDeleteClientProfileInstruction(programID, clientProfile, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixDeleteClientProfile[:]...)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(clientProfile, true, false),
		solana.NewAccountMeta(owner, true, true),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewCreateFreelancerProfileInstruction builds create_freelancer_profile.
func NewCreateFreelancerProfileInstruction(programID solana.PublicKey, name, email string, freelancerProfile, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixCreateFreelancerProfile[:]...)
	data = appendString(data, name)
	data = appendString(data, email)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(freelancerProfile, true, false),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewUpdateFreelancerProfileInstruction builds update_freelancer_profile.
func NewUpdateFreelancerProfileInstruction(programID solana.PublicKey, args ProfileArgs, freelancerProfile, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixUpdateFreelancerProfile[:]...)
	data = appendProfileArgs(data, args)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(freelancerProfile, true, false),
		solana.NewAccountMeta(owner, true, true),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewDeleteFreelancerProfileInstruction builds delete_freelancer_profile.
func NewDeleteFreelancerProfileInstruction(programID, freelancerProfile, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixDeleteFreelancerProfile[:]...)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(freelancerProfile, true, false),
		solana.NewAccountMeta(owner, true, true),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewCreateProjectInstruction builds create_project. The vault is created in
// the same instruction as the project it escrows for.
func NewCreateProjectInstruction(programID solana.PublicKey, name, about string, price uint64, deadline int64, project, owner, clientProfile, vault solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixCreateProject[:]...)
	data = appendString(data, name)
	data = appendString(data, about)
	data = appendU64(data, price)
	data = appendI64(data, deadline)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(project, true, false),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(clientProfile, false, false),
		solana.NewAccountMeta(vault, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewFundProjectInstruction builds fund_project.
func NewFundProjectInstruction(programID solana.PublicKey, lamports uint64, client, project, vault solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixFundProject[:]...)
	data = appendU64(data, lamports)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(client, true, true),
		solana.NewAccountMeta(project, false, false),
		solana.NewAccountMeta(vault, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewApproveProjectInstruction builds approve_project (makes it public).
func NewApproveProjectInstruction(programID solana.PublicKey, name string, project, owner, clientProfile solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixApproveProject[:]...)
	data = appendString(data, name)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(project, true, false),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(clientProfile, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewSubmitProposalInstruction builds submit_proposal.
func NewSubmitProposalInstruction(programID solana.PublicKey, projectName, message string, proposal, freelancerProfile, project, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixSubmitProposal[:]...)
	data = appendString(data, projectName)
	data = appendString(data, message)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(proposal, true, false),
		solana.NewAccountMeta(freelancerProfile, false, false),
		solana.NewAccountMeta(project, true, false),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewRespondToProposalInstruction builds respond_to_proposal.
func NewRespondToProposalInstruction(programID solana.PublicKey, accept bool, message string, proposal, project, freelancerProfile, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixRespondToProposal[:]...)
	data = appendBool(data, accept)
	data = appendString(data, message)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(proposal, true, false),
		solana.NewAccountMeta(project, true, false),
		solana.NewAccountMeta(freelancerProfile, false, false),
		solana.NewAccountMeta(owner, true, true),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewSubmitWorkInstruction builds submit_work.
func NewSubmitWorkInstruction(programID solana.PublicKey, workLink string, project, freelancerProfile, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixSubmitWork[:]...)
	data = appendString(data, workLink)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(project, true, false),
		solana.NewAccountMeta(freelancerProfile, false, false),
		solana.NewAccountMeta(owner, true, true),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewApproveWorkAndPayInstruction builds approve_work_and_pay, which disburses
// the vault to the freelancer and marks the project paid.
func NewApproveWorkAndPayInstruction(programID, project, proposal, freelancerProfile, vault, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixApproveWorkAndPay[:]...)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(project, true, false),
		solana.NewAccountMeta(proposal, true, false),
		solana.NewAccountMeta(freelancerProfile, false, false),
		solana.NewAccountMeta(vault, true, false),
		solana.NewAccountMeta(owner, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, data)
}

// NewCompleteProjectInstruction builds complete_project.
func NewCompleteProjectInstruction(programID solana.PublicKey, name string, project, creator, owner solana.PublicKey) solana.Instruction {
	data := append([]byte{}, ixCompleteProject[:]...)
	data = appendString(data, name)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(project, true, false),
		solana.NewAccountMeta(creator, false, false),
		solana.NewAccountMeta(owner, true, true),
	}
	return solana.NewInstruction(programID, accounts, data)
}

func appendProfileArgs(data []byte, args ProfileArgs) []byte {
	data = appendString(data, args.Name)
	data = appendString(data, args.Email)
	data = appendString(data, args.Bio)
	data = appendString(data, args.Country)
	data = appendString(data, args.Linkedin)
	return appendPubkey(data, args.Authority)
}
