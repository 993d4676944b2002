package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

// ApproveToken grants spender the right to move up to amount units of a
// fungible token from the owner's balance. A repeat grant for the same
// (spender, token) pair replaces the previous amount; zero clears it.
func (e *Engine) ApproveToken(owner, spender, tokenID types.EntityID, amount uint64) (Status, error) {
	ownerAccount, token, status, err := e.allowanceParties(owner, spender, tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if token.Type != types.FungibleCommon {
		return StatusNftInFungibleTokenAllowance, nil
	}

	ownerAccount.SetTokenAllowance(tokenID, spender, amount)
	if err := e.state.PutAccount(ownerAccount); err != nil {
		return StatusOK, err
	}
	e.emit(events.AllowanceChange{Type: events.TypeApprovalGranted, Owner: owner, Spender: spender, TokenID: tokenID, Amount: amount})
	return StatusOK, nil
}

// ApproveNft grants spender a single-serial approval. The owner must
// currently own the serial. A zero spender clears the approval.
func (e *Engine) ApproveNft(owner, spender, tokenID types.EntityID, serial uint64) (Status, error) {
	_, token, status, err := e.allowanceParties(owner, spender, tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if token.Type != types.NonFungibleUnique {
		return StatusFungibleTokenInNftAllowance, nil
	}
	nft, err := e.state.GetNft(types.NftID{Token: tokenID, Serial: serial})
	if err != nil {
		return StatusOK, err
	}
	if nft == nil {
		return StatusInvalidNftID, nil
	}
	if nft.OwnerOrTreasury(token) != owner {
		return StatusSenderDoesNotOwnNftSerial, nil
	}

	nft.Spender = spender
	if err := e.state.PutNft(nft); err != nil {
		return StatusOK, err
	}
	e.emit(events.AllowanceChange{Type: events.TypeApprovalGranted, Owner: owner, Spender: spender, TokenID: tokenID, Serial: serial})
	return StatusOK, nil
}

// SetApprovalForAll grants or revokes spender's blanket approval over every
// serial of the token type, present and future.
func (e *Engine) SetApprovalForAll(owner, spender, tokenID types.EntityID, enabled bool) (Status, error) {
	ownerAccount, token, status, err := e.allowanceParties(owner, spender, tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if token.Type != types.NonFungibleUnique {
		return StatusFungibleTokenInNftAllowance, nil
	}

	ownerAccount.SetApproveForAll(tokenID, spender, enabled)
	if err := e.state.PutAccount(ownerAccount); err != nil {
		return StatusOK, err
	}
	e.emit(events.AllowanceChange{Type: events.TypeApprovedForAll, Owner: owner, Spender: spender, TokenID: tokenID, All: enabled})
	return StatusOK, nil
}

// allowanceParties resolves and validates the owner, spender and token of
// an allowance mutation.
func (e *Engine) allowanceParties(owner, spender, tokenID types.EntityID) (*types.Account, *types.Token, Status, error) {
	if e.state == nil {
		return nil, nil, StatusOK, errNilState
	}
	ownerAccount, err := e.state.GetAccount(owner)
	if err != nil {
		return nil, nil, StatusOK, err
	}
	if ownerAccount == nil || ownerAccount.Deleted {
		return nil, nil, StatusInvalidAllowanceOwnerID, nil
	}
	if _, status, err := e.usableAccount(spender); err != nil || !status.OK() {
		return nil, nil, status, err
	}
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return nil, nil, status, err
	}
	relation, err := e.state.GetRelation(owner, tokenID)
	if err != nil {
		return nil, nil, StatusOK, err
	}
	if relation == nil {
		return nil, nil, StatusNotAssociated, nil
	}
	return ownerAccount, token, StatusOK, nil
}

// Allowance reports the remaining fungible allowance for the
// (owner, spender, token) triple. A missing grant is zero, not a failure.
func (e *Engine) Allowance(owner, spender, tokenID types.EntityID) (uint64, Status, error) {
	if e.state == nil {
		return 0, StatusOK, errNilState
	}
	ownerAccount, err := e.state.GetAccount(owner)
	if err != nil {
		return 0, StatusOK, err
	}
	if ownerAccount == nil {
		return 0, StatusInvalidAllowanceOwnerID, nil
	}
	if token, status, err := e.usableToken(tokenID); err != nil || !status.OK() {
		return 0, status, err
	} else if token.Type != types.FungibleCommon {
		return 0, StatusNftInFungibleTokenAllowance, nil
	}
	allowance, ok := ownerAccount.TokenAllowanceFor(tokenID, spender)
	if !ok {
		return 0, StatusOK, nil
	}
	return allowance.Amount, StatusOK, nil
}

// GetApproved reports the spender approved on a single serial, or the zero
// id when none is set.
func (e *Engine) GetApproved(tokenID types.EntityID, serial uint64) (types.EntityID, Status, error) {
	if e.state == nil {
		return types.EntityID{}, StatusOK, errNilState
	}
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return types.EntityID{}, status, err
	}
	if token.Type != types.NonFungibleUnique {
		return types.EntityID{}, StatusFungibleTokenInNftAllowance, nil
	}
	nft, err := e.state.GetNft(types.NftID{Token: tokenID, Serial: serial})
	if err != nil {
		return types.EntityID{}, StatusOK, err
	}
	if nft == nil {
		return types.EntityID{}, StatusInvalidNftID, nil
	}
	return nft.Spender, StatusOK, nil
}

// IsApprovedForAll reports whether spender holds a blanket approval from
// owner over the token type.
func (e *Engine) IsApprovedForAll(owner, spender, tokenID types.EntityID) (bool, Status, error) {
	if e.state == nil {
		return false, StatusOK, errNilState
	}
	ownerAccount, err := e.state.GetAccount(owner)
	if err != nil {
		return false, StatusOK, err
	}
	if ownerAccount == nil {
		return false, StatusInvalidAllowanceOwnerID, nil
	}
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return false, status, err
	}
	if token.Type != types.NonFungibleUnique {
		return false, StatusFungibleTokenInNftAllowance, nil
	}
	return ownerAccount.HasApproveForAll(tokenID, spender), StatusOK, nil
}
