package tokens

import (
	"tokennet/core/types"
)

// TokenInfo is the read-model a dispatcher query returns for one token.
type TokenInfo struct {
	Token       types.Token
	TotalSupply uint64
	Deleted     bool
	Paused      bool
	DefaultKyc  bool
}

// GetToken returns the raw token record, including deleted tokens so info
// queries can report the deleted flag instead of failing.
func (e *Engine) GetToken(id types.EntityID) (*types.Token, Status, error) {
	if e.state == nil {
		return nil, StatusOK, errNilState
	}
	token, err := e.state.GetToken(id)
	if err != nil {
		return nil, StatusOK, err
	}
	if token == nil {
		return nil, StatusInvalidTokenID, nil
	}
	return token, StatusOK, nil
}

// TokenInfo assembles the info-query view of a token.
func (e *Engine) TokenInfo(id types.EntityID) (*TokenInfo, Status, error) {
	token, status, err := e.GetToken(id)
	if err != nil || !status.OK() {
		return nil, status, err
	}
	return &TokenInfo{
		Token:       *token,
		TotalSupply: token.TotalSupply,
		Deleted:     token.Deleted,
		Paused:      token.Paused,
		DefaultKyc:  token.DefaultKycGranted(),
	}, StatusOK, nil
}

// BalanceOf reports the account's fungible balance, or its serial count for
// uniques. Unassociated accounts read as zero rather than failing, matching
// the ERC view convention.
func (e *Engine) BalanceOf(tokenID, account types.EntityID) (uint64, Status, error) {
	if e.state == nil {
		return 0, StatusOK, errNilState
	}
	if _, status, err := e.GetToken(tokenID); err != nil || !status.OK() {
		return 0, status, err
	}
	relation, err := e.state.GetRelation(account, tokenID)
	if err != nil {
		return 0, StatusOK, err
	}
	if relation == nil {
		return 0, StatusOK, nil
	}
	return relation.Balance, StatusOK, nil
}

// OwnerOf resolves the current owner of a serial, with treasury ownership
// made explicit.
func (e *Engine) OwnerOf(tokenID types.EntityID, serial uint64) (types.EntityID, Status, error) {
	nft, token, status, err := e.lookupNft(tokenID, serial)
	if err != nil || !status.OK() {
		return types.EntityID{}, status, err
	}
	return nft.OwnerOrTreasury(token), StatusOK, nil
}

// NftInfo returns the serial's record with the owner resolved.
func (e *Engine) NftInfo(tokenID types.EntityID, serial uint64) (*types.Nft, Status, error) {
	nft, token, status, err := e.lookupNft(tokenID, serial)
	if err != nil || !status.OK() {
		return nil, status, err
	}
	resolved := *nft
	resolved.Owner = nft.OwnerOrTreasury(token)
	return &resolved, StatusOK, nil
}

func (e *Engine) lookupNft(tokenID types.EntityID, serial uint64) (*types.Nft, *types.Token, Status, error) {
	if e.state == nil {
		return nil, nil, StatusOK, errNilState
	}
	token, status, err := e.GetToken(tokenID)
	if err != nil || !status.OK() {
		return nil, nil, status, err
	}
	if token.Type != types.NonFungibleUnique {
		return nil, nil, StatusInvalidNftID, nil
	}
	nft, err := e.state.GetNft(types.NftID{Token: tokenID, Serial: serial})
	if err != nil {
		return nil, nil, StatusOK, err
	}
	if nft == nil {
		return nil, nil, StatusInvalidNftID, nil
	}
	return nft, token, StatusOK, nil
}

// IsFrozen reports the frozen flag of the account's relation. Unassociated
// accounts report the token's default.
func (e *Engine) IsFrozen(tokenID, account types.EntityID) (bool, Status, error) {
	token, relation, status, err := e.relationView(tokenID, account)
	if err != nil || !status.OK() {
		return false, status, err
	}
	if relation == nil {
		return token.DefaultFrozen, StatusOK, nil
	}
	return relation.Frozen, StatusOK, nil
}

// IsKyc reports the KYC flag of the account's relation. Unassociated
// accounts report the token's default grant.
func (e *Engine) IsKyc(tokenID, account types.EntityID) (bool, Status, error) {
	token, relation, status, err := e.relationView(tokenID, account)
	if err != nil || !status.OK() {
		return false, status, err
	}
	if relation == nil {
		return token.DefaultKycGranted(), StatusOK, nil
	}
	return relation.KycGranted, StatusOK, nil
}

// IsAssociated reports whether the relation exists at all.
func (e *Engine) IsAssociated(tokenID, account types.EntityID) (bool, Status, error) {
	_, relation, status, err := e.relationView(tokenID, account)
	if err != nil || !status.OK() {
		return false, status, err
	}
	return relation != nil, StatusOK, nil
}

func (e *Engine) relationView(tokenID, account types.EntityID) (*types.Token, *types.TokenRelation, Status, error) {
	if e.state == nil {
		return nil, nil, StatusOK, errNilState
	}
	token, status, err := e.GetToken(tokenID)
	if err != nil || !status.OK() {
		return nil, nil, status, err
	}
	if _, status, err := e.usableAccount(account); err != nil || !status.OK() {
		return nil, nil, status, err
	}
	relation, err := e.state.GetRelation(account, tokenID)
	if err != nil {
		return nil, nil, StatusOK, err
	}
	return token, relation, StatusOK, nil
}
