package types

// TokenAllowance grants a spender the right to move up to Amount units of a
// fungible token out of the owner's balance.
type TokenAllowance struct {
	TokenID EntityID `json:"tokenId"`
	Spender EntityID `json:"spender"`
	Amount  uint64   `json:"amount"`
}

// NftAllowanceForAll grants a spender every serial of a token type, present
// and future.
type NftAllowanceForAll struct {
	TokenID EntityID `json:"tokenId"`
	Spender EntityID `json:"spender"`
}

// Account is the ledger record for a network account. Single-serial NFT
// allowances live on the Nft record itself; only the fungible and
// approve-for-all grants are kept here.
type Account struct {
	ID                   EntityID             `json:"id"`
	Alias                []byte               `json:"alias,omitempty"`
	Key                  Key                  `json:"key,omitempty"`
	Balance              uint64               `json:"balance"`
	Deleted              bool                 `json:"deleted"`
	SmartContract        bool                 `json:"smartContract"`
	ReceiverSigRequired  bool                 `json:"receiverSigRequired"`
	DeclineReward        bool                 `json:"declineReward"`
	OwnedNfts            uint64               `json:"ownedNfts"`
	NumberAssociations   uint64               `json:"numberAssociations"`
	PositiveBalances     uint64               `json:"numberPositiveBalances"`
	UsedAutoAssociations uint64               `json:"usedAutoAssociations"`
	MaxAutoAssociations  uint64               `json:"maxAutoAssociations"`
	TokenAllowances      []TokenAllowance     `json:"tokenAllowances,omitempty"`
	ApproveForAllNfts    []NftAllowanceForAll `json:"approveForAllNfts,omitempty"`
	Memo                 string               `json:"memo,omitempty"`
	ExpirationTime       uint64               `json:"expirationTime,omitempty"`
	AutoRenewPeriod      uint64               `json:"autoRenewPeriod,omitempty"`
	AutoRenewAccount     EntityID             `json:"autoRenewAccount,omitempty"`
	StakedNodeID         uint64               `json:"stakedNodeId,omitempty"`
}

// Immutable reports whether the account can never authorise anything: an
// account without a key rejects every operation that would require its
// signature.
func (a *Account) Immutable() bool { return a.Key.Empty() }

// TokenAllowanceFor returns the fungible allowance granted to spender for
// token, if any.
func (a *Account) TokenAllowanceFor(token, spender EntityID) (TokenAllowance, bool) {
	for _, allowance := range a.TokenAllowances {
		if allowance.TokenID == token && allowance.Spender == spender {
			return allowance, true
		}
	}
	return TokenAllowance{}, false
}

// SetTokenAllowance records or replaces the fungible allowance for the
// (token, spender) pair. A zero amount removes the grant so the list never
// carries dead entries.
func (a *Account) SetTokenAllowance(token, spender EntityID, amount uint64) {
	for i, allowance := range a.TokenAllowances {
		if allowance.TokenID == token && allowance.Spender == spender {
			if amount == 0 {
				a.TokenAllowances = append(a.TokenAllowances[:i], a.TokenAllowances[i+1:]...)
				return
			}
			a.TokenAllowances[i].Amount = amount
			return
		}
	}
	if amount == 0 {
		return
	}
	a.TokenAllowances = append(a.TokenAllowances, TokenAllowance{TokenID: token, Spender: spender, Amount: amount})
}

// HasApproveForAll reports whether spender holds an approve-for-all grant
// over the token type.
func (a *Account) HasApproveForAll(token, spender EntityID) bool {
	for _, grant := range a.ApproveForAllNfts {
		if grant.TokenID == token && grant.Spender == spender {
			return true
		}
	}
	return false
}

// SetApproveForAll adds or removes the approve-for-all grant for the
// (token, spender) pair. Granting twice is a no-op; the list never holds
// duplicates.
func (a *Account) SetApproveForAll(token, spender EntityID, enabled bool) {
	for i, grant := range a.ApproveForAllNfts {
		if grant.TokenID == token && grant.Spender == spender {
			if !enabled {
				a.ApproveForAllNfts = append(a.ApproveForAllNfts[:i], a.ApproveForAllNfts[i+1:]...)
			}
			return
		}
	}
	if enabled {
		a.ApproveForAllNfts = append(a.ApproveForAllNfts, NftAllowanceForAll{TokenID: token, Spender: spender})
	}
}
