package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

// MintResult reports the post-mint supply and, for NFTs, the serials that
// were created.
type MintResult struct {
	NewTotalSupply uint64
	Serials        []uint64
}

// BurnResult reports the post-burn supply.
type BurnResult struct {
	NewTotalSupply uint64
}

// Mint creates new supply credited to the token's treasury: a fungible
// amount, or one NFT per metadata entry. Requires the token's supply key.
func (e *Engine) Mint(tokenID types.EntityID, amount uint64, metadata [][]byte, signers KeySet) (*MintResult, Status, error) {
	token, status, err := e.transferableToken(tokenID)
	if err != nil || !status.OK() {
		return nil, status, err
	}
	if status := authorize(token.SupplyKey, signers, StatusTokenHasNoSupplyKey); !status.OK() {
		return nil, status, nil
	}
	treasury, status, err := e.usableAccount(token.Treasury)
	if err != nil || !status.OK() {
		return nil, status, err
	}
	relation, err := e.state.GetRelation(token.Treasury, tokenID)
	if err != nil {
		return nil, StatusOK, err
	}
	if relation == nil {
		return nil, StatusNotAssociated, nil
	}
	if relation.Frozen {
		return nil, StatusAccountFrozenForToken, nil
	}

	switch token.Type {
	case types.FungibleCommon:
		if len(metadata) > 0 {
			return nil, StatusInvalidTokenMintAmount, nil
		}
		if token.SupplyType == types.SupplyFinite && token.TotalSupply+amount > token.MaxSupply {
			return nil, StatusMaxSupplyReached, nil
		}
		wasZero := relation.Balance == 0
		token.TotalSupply += amount
		relation.Balance += amount
		if err := e.state.PutToken(token); err != nil {
			return nil, StatusOK, err
		}
		if err := e.state.PutRelation(relation); err != nil {
			return nil, StatusOK, err
		}
		if wasZero && amount > 0 {
			treasury.PositiveBalances++
			if err := e.state.PutAccount(treasury); err != nil {
				return nil, StatusOK, err
			}
		}
		e.emit(events.TokenSupplyChange{Type: events.TypeTokenMinted, TokenID: tokenID, Account: token.Treasury, Amount: amount, NewSupply: token.TotalSupply})
		return &MintResult{NewTotalSupply: token.TotalSupply}, StatusOK, nil

	case types.NonFungibleUnique:
		if amount > 0 || len(metadata) == 0 {
			return nil, StatusInvalidTokenMintAmount, nil
		}
		if e.cfg.MaxBatchSize > 0 && len(metadata) > e.cfg.MaxBatchSize {
			return nil, StatusBatchSizeExceeded, nil
		}
		for _, entry := range metadata {
			if e.cfg.MaxNftMetadataBytes > 0 && len(entry) > e.cfg.MaxNftMetadataBytes {
				return nil, StatusMetadataTooLong, nil
			}
		}
		minted := uint64(len(metadata))
		if token.SupplyType == types.SupplyFinite && token.TotalSupply+minted > token.MaxSupply {
			return nil, StatusMaxSupplyReached, nil
		}

		now := uint64(e.now())
		serials := make([]uint64, 0, len(metadata))
		for _, entry := range metadata {
			token.LastUsedSerial++
			serial := token.LastUsedSerial
			nft := &types.Nft{
				ID:       types.NftID{Token: tokenID, Serial: serial},
				Metadata: entry,
				MintTime: now,
			}
			if err := e.state.PutNft(nft); err != nil {
				return nil, StatusOK, err
			}
			serials = append(serials, serial)
		}
		wasZero := relation.Balance == 0
		token.TotalSupply += minted
		relation.Balance += minted
		treasury.OwnedNfts += minted
		if wasZero {
			treasury.PositiveBalances++
		}
		if err := e.state.PutToken(token); err != nil {
			return nil, StatusOK, err
		}
		if err := e.state.PutRelation(relation); err != nil {
			return nil, StatusOK, err
		}
		if err := e.state.PutAccount(treasury); err != nil {
			return nil, StatusOK, err
		}
		e.emit(events.TokenSupplyChange{Type: events.TypeTokenMinted, TokenID: tokenID, Account: token.Treasury, Serials: serials, NewSupply: token.TotalSupply})
		return &MintResult{NewTotalSupply: token.TotalSupply, Serials: serials}, StatusOK, nil
	}
	return nil, StatusInvalidTokenID, nil
}

// Burn destroys supply held by the treasury: a fungible amount, or the
// listed serials, which must currently sit with the treasury. Requires the
// token's supply key.
func (e *Engine) Burn(tokenID types.EntityID, amount uint64, serials []uint64, signers KeySet) (*BurnResult, Status, error) {
	token, status, err := e.transferableToken(tokenID)
	if err != nil || !status.OK() {
		return nil, status, err
	}
	if status := authorize(token.SupplyKey, signers, StatusTokenHasNoSupplyKey); !status.OK() {
		return nil, status, nil
	}
	treasury, status, err := e.usableAccount(token.Treasury)
	if err != nil || !status.OK() {
		return nil, status, err
	}
	relation, err := e.state.GetRelation(token.Treasury, tokenID)
	if err != nil {
		return nil, StatusOK, err
	}
	if relation == nil {
		return nil, StatusNotAssociated, nil
	}
	if relation.Frozen {
		return nil, StatusAccountFrozenForToken, nil
	}

	switch token.Type {
	case types.FungibleCommon:
		if len(serials) > 0 {
			return nil, StatusInvalidTokenBurnAmount, nil
		}
		if amount > token.TotalSupply {
			return nil, StatusInvalidTokenBurnAmount, nil
		}
		if amount > relation.Balance {
			return nil, StatusInsufficientTokenBalance, nil
		}
		token.TotalSupply -= amount
		relation.Balance -= amount
		if err := e.state.PutToken(token); err != nil {
			return nil, StatusOK, err
		}
		if err := e.state.PutRelation(relation); err != nil {
			return nil, StatusOK, err
		}
		if relation.Balance == 0 && amount > 0 && treasury.PositiveBalances > 0 {
			treasury.PositiveBalances--
			if err := e.state.PutAccount(treasury); err != nil {
				return nil, StatusOK, err
			}
		}
		e.emit(events.TokenSupplyChange{Type: events.TypeTokenBurned, TokenID: tokenID, Account: token.Treasury, Amount: amount, NewSupply: token.TotalSupply})
		return &BurnResult{NewTotalSupply: token.TotalSupply}, StatusOK, nil

	case types.NonFungibleUnique:
		if amount > 0 || len(serials) == 0 {
			return nil, StatusInvalidTokenBurnAmount, nil
		}
		if e.cfg.MaxBatchSize > 0 && len(serials) > e.cfg.MaxBatchSize {
			return nil, StatusBatchSizeExceeded, nil
		}
		burned := make([]*types.Nft, 0, len(serials))
		seen := make(map[uint64]struct{}, len(serials))
		for _, serial := range serials {
			if serial == 0 || serial > token.LastUsedSerial {
				return nil, StatusInvalidNftSerialNumber, nil
			}
			if _, dup := seen[serial]; dup {
				return nil, StatusInvalidNftSerialNumber, nil
			}
			seen[serial] = struct{}{}
			nft, err := e.state.GetNft(types.NftID{Token: tokenID, Serial: serial})
			if err != nil {
				return nil, StatusOK, err
			}
			if nft == nil {
				return nil, StatusInvalidNftSerialNumber, nil
			}
			if !nft.Owner.IsZero() {
				return nil, StatusTreasuryMustOwnBurnedNft, nil
			}
			burned = append(burned, nft)
		}

		count := uint64(len(burned))
		for _, nft := range burned {
			e.state.RemoveNft(nft.ID)
		}
		token.TotalSupply -= count
		relation.Balance -= count
		if treasury.OwnedNfts >= count {
			treasury.OwnedNfts -= count
		}
		if relation.Balance == 0 && treasury.PositiveBalances > 0 {
			treasury.PositiveBalances--
		}
		if err := e.state.PutToken(token); err != nil {
			return nil, StatusOK, err
		}
		if err := e.state.PutRelation(relation); err != nil {
			return nil, StatusOK, err
		}
		if err := e.state.PutAccount(treasury); err != nil {
			return nil, StatusOK, err
		}
		e.emit(events.TokenSupplyChange{Type: events.TypeTokenBurned, TokenID: tokenID, Account: token.Treasury, Serials: serials, NewSupply: token.TotalSupply})
		return &BurnResult{NewTotalSupply: token.TotalSupply}, StatusOK, nil
	}
	return nil, StatusInvalidTokenID, nil
}
