package events

import "tokennet/core/types"

// Event type identifiers for the token ledger.
const (
	TypeTokenCreated     = "token.created"
	TypeTokenUpdated     = "token.updated"
	TypeTokenDeleted     = "token.deleted"
	TypeTokenAssociated  = "token.associated"
	TypeTokenDissociated = "token.dissociated"
	TypeTokenFrozen      = "token.frozen"
	TypeTokenUnfrozen    = "token.unfrozen"
	TypeTokenKycGranted  = "token.kycGranted"
	TypeTokenKycRevoked  = "token.kycRevoked"
	TypeTokenPaused      = "token.paused"
	TypeTokenUnpaused    = "token.unpaused"
	TypeTokenMinted      = "token.minted"
	TypeTokenBurned      = "token.burned"
	TypeTokenWiped       = "token.wiped"
	TypeTokenTransferred = "token.transferred"
	TypeApprovalGranted  = "token.approvalGranted"
	TypeApprovedForAll   = "token.approvedForAll"
	TypeAirdropPending   = "token.airdropPending"
	TypeAirdropClaimed   = "token.airdropClaimed"
	TypeAirdropCancelled = "token.airdropCancelled"
)

// TokenLifecycle covers create/update/delete of a token type.
type TokenLifecycle struct {
	Type    string
	TokenID types.EntityID
}

func (e TokenLifecycle) EventType() string { return e.Type }

// TokenRelationChange covers associate/dissociate/freeze/unfreeze/KYC flips.
type TokenRelationChange struct {
	Type    string
	Account types.EntityID
	TokenID types.EntityID
}

func (e TokenRelationChange) EventType() string { return e.Type }

// TokenSupplyChange covers mint, burn and wipe.
type TokenSupplyChange struct {
	Type      string
	TokenID   types.EntityID
	Account   types.EntityID
	Amount    uint64
	Serials   []uint64
	NewSupply uint64
}

func (e TokenSupplyChange) EventType() string { return e.Type }

// TokenTransfer covers fungible and NFT movements, including airdrop
// settlement.
type TokenTransfer struct {
	Type    string
	TokenID types.EntityID
	From    types.EntityID
	To      types.EntityID
	Amount  uint64
	Serial  uint64
}

func (e TokenTransfer) EventType() string { return e.Type }

// AllowanceChange covers grantApproval and approveForAll.
type AllowanceChange struct {
	Type    string
	Owner   types.EntityID
	Spender types.EntityID
	TokenID types.EntityID
	Amount  uint64
	Serial  uint64
	All     bool
}

func (e AllowanceChange) EventType() string { return e.Type }
