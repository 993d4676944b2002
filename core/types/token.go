package types

// TokenType distinguishes divisible balances from serialised uniques.
type TokenType uint8

const (
	FungibleCommon TokenType = iota
	NonFungibleUnique
)

func (t TokenType) String() string {
	switch t {
	case FungibleCommon:
		return "FUNGIBLE_COMMON"
	case NonFungibleUnique:
		return "NON_FUNGIBLE_UNIQUE"
	}
	return "UNKNOWN"
}

// SupplyType bounds a token's total supply.
type SupplyType uint8

const (
	SupplyInfinite SupplyType = iota
	SupplyFinite
)

// Token is the ledger record for a token type. Optional capability keys gate
// the corresponding operations; an empty key disables the capability for the
// lifetime of the token.
type Token struct {
	ID               EntityID    `json:"id"`
	Type             TokenType   `json:"type"`
	Name             string      `json:"name"`
	Symbol           string      `json:"symbol"`
	Decimals         uint32      `json:"decimals"`
	Memo             string      `json:"memo,omitempty"`
	Treasury         EntityID    `json:"treasury"`
	TotalSupply      uint64      `json:"totalSupply"`
	MaxSupply        uint64      `json:"maxSupply"`
	SupplyType       SupplyType  `json:"supplyType"`
	AdminKey         Key         `json:"adminKey,omitempty"`
	KycKey           Key         `json:"kycKey,omitempty"`
	FreezeKey        Key         `json:"freezeKey,omitempty"`
	WipeKey          Key         `json:"wipeKey,omitempty"`
	SupplyKey        Key         `json:"supplyKey,omitempty"`
	FeeScheduleKey   Key         `json:"feeScheduleKey,omitempty"`
	PauseKey         Key         `json:"pauseKey,omitempty"`
	MetadataKey      Key         `json:"metadataKey,omitempty"`
	DefaultFrozen    bool        `json:"defaultFrozen"`
	Paused           bool        `json:"paused"`
	Deleted          bool        `json:"deleted"`
	CustomFees       []CustomFee `json:"customFees,omitempty"`
	ExpirationTime   uint64      `json:"expirationTime,omitempty"`
	AutoRenewAccount EntityID    `json:"autoRenewAccount,omitempty"`
	AutoRenewPeriod  uint64      `json:"autoRenewPeriod,omitempty"`
	Metadata         []byte      `json:"metadata,omitempty"`
	LastUsedSerial   uint64      `json:"lastUsedSerial,omitempty"`
}

// DefaultKycGranted reports the KYC status newly associated relations start
// with. Tokens without a KYC key treat every holder as granted.
func (t *Token) DefaultKycGranted() bool { return t.KycKey.Empty() }

// HasRoyaltyWithFallback reports whether any custom fee is a royalty carrying
// a fallback charge, which changes the signing requirements of NFT receivers.
func (t *Token) HasRoyaltyWithFallback() bool {
	for _, fee := range t.CustomFees {
		if fee.Kind == FeeRoyalty && fee.FallbackFee != nil {
			return true
		}
	}
	return false
}

// TokenRelation associates an account with a token it may hold and transact.
type TokenRelation struct {
	Account              EntityID `json:"account"`
	TokenID              EntityID `json:"tokenId"`
	Balance              uint64   `json:"balance"`
	Frozen               bool     `json:"frozen"`
	KycGranted           bool     `json:"kycGranted"`
	AutomaticAssociation bool     `json:"automaticAssociation"`
}

// Nft is one serial of a non-fungible token. A zero Owner means the serial
// sits with the token's treasury.
type Nft struct {
	ID       NftID    `json:"id"`
	Owner    EntityID `json:"owner,omitempty"`
	Spender  EntityID `json:"spender,omitempty"`
	Metadata []byte   `json:"metadata,omitempty"`
	MintTime uint64   `json:"mintTime"`
}

// OwnerOrTreasury resolves the effective owner given the issuing token.
func (n *Nft) OwnerOrTreasury(token *Token) EntityID {
	if n.Owner.IsZero() {
		return token.Treasury
	}
	return n.Owner
}

// FeeKind tags the three custom fee shapes.
type FeeKind uint8

const (
	FeeFixed FeeKind = iota
	FeeFractional
	FeeRoyalty
)

// FixedFee charges a flat amount, either in the fee currency token or in
// tinybars when DenominatingToken is zero.
type FixedFee struct {
	Amount            uint64   `json:"amount"`
	DenominatingToken EntityID `json:"denominatingToken,omitempty"`
}

// CustomFee is one entry of a token's fee schedule. Exactly the fields for
// its Kind are populated.
type CustomFee struct {
	Kind                FeeKind   `json:"kind"`
	Collector           EntityID  `json:"collector"`
	Fixed               *FixedFee `json:"fixed,omitempty" rlp:"nil"`
	Numerator           uint64    `json:"numerator,omitempty"`
	Denominator         uint64    `json:"denominator,omitempty"`
	MinimumAmount       uint64    `json:"minimumAmount,omitempty"`
	MaximumAmount       uint64    `json:"maximumAmount,omitempty"`
	NetOfTransfers      bool      `json:"netOfTransfers,omitempty"`
	FallbackFee         *FixedFee `json:"fallbackFee,omitempty" rlp:"nil"`
	AllCollectorsExempt bool      `json:"allCollectorsExempt,omitempty"`
}

// PendingAirdropID keys a parked transfer awaiting the receiver's claim.
// Serial is zero for fungible value.
type PendingAirdropID struct {
	Sender   EntityID `json:"sender"`
	Receiver EntityID `json:"receiver"`
	TokenID  EntityID `json:"tokenId"`
	Serial   uint64   `json:"serial,omitempty"`
}

// PendingAirdrop holds value sent to an account that had no free association
// slot. It completes on claim and unwinds on cancel.
type PendingAirdrop struct {
	ID     PendingAirdropID `json:"id"`
	Amount uint64           `json:"amount,omitempty"`
}
