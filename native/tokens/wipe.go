package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

// Wipe forcibly removes token value from a non-treasury account, burning it
// from supply without crediting anyone. Requires the token's wipe key.
// Fungible calls pass an amount; NFT calls pass the serials to remove.
func (e *Engine) Wipe(tokenID, account types.EntityID, amount uint64, serials []uint64, signers KeySet) (Status, error) {
	token, status, err := e.transferableToken(tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if status := authorize(token.WipeKey, signers, StatusTokenHasNoWipeKey); !status.OK() {
		return status, nil
	}
	holder, status, err := e.usableAccount(account)
	if err != nil || !status.OK() {
		return status, err
	}
	if token.Treasury == account {
		return StatusCannotWipeTreasury, nil
	}
	relation, err := e.state.GetRelation(account, tokenID)
	if err != nil {
		return StatusOK, err
	}
	if relation == nil {
		return StatusNotAssociated, nil
	}

	switch token.Type {
	case types.FungibleCommon:
		if len(serials) > 0 || amount == 0 {
			return StatusInvalidWipingAmount, nil
		}
		if amount > relation.Balance {
			return StatusInvalidWipingAmount, nil
		}
		token.TotalSupply -= amount
		relation.Balance -= amount
		if err := e.state.PutToken(token); err != nil {
			return StatusOK, err
		}
		if err := e.state.PutRelation(relation); err != nil {
			return StatusOK, err
		}
		if relation.Balance == 0 && holder.PositiveBalances > 0 {
			holder.PositiveBalances--
			if err := e.state.PutAccount(holder); err != nil {
				return StatusOK, err
			}
		}
		e.emit(events.TokenSupplyChange{Type: events.TypeTokenWiped, TokenID: tokenID, Account: account, Amount: amount, NewSupply: token.TotalSupply})
		return StatusOK, nil

	case types.NonFungibleUnique:
		if amount > 0 || len(serials) == 0 {
			return StatusInvalidWipingAmount, nil
		}
		if e.cfg.MaxBatchSize > 0 && len(serials) > e.cfg.MaxBatchSize {
			return StatusBatchSizeExceeded, nil
		}
		wiped := make([]*types.Nft, 0, len(serials))
		seen := make(map[uint64]struct{}, len(serials))
		for _, serial := range serials {
			if _, dup := seen[serial]; dup {
				return StatusInvalidNftSerialNumber, nil
			}
			seen[serial] = struct{}{}
			nft, err := e.state.GetNft(types.NftID{Token: tokenID, Serial: serial})
			if err != nil {
				return StatusOK, err
			}
			if nft == nil || nft.OwnerOrTreasury(token) != account {
				return StatusInvalidNftSerialNumber, nil
			}
			wiped = append(wiped, nft)
		}

		count := uint64(len(wiped))
		for _, nft := range wiped {
			e.state.RemoveNft(nft.ID)
		}
		token.TotalSupply -= count
		relation.Balance -= count
		if holder.OwnedNfts >= count {
			holder.OwnedNfts -= count
		}
		if relation.Balance == 0 && holder.PositiveBalances > 0 {
			holder.PositiveBalances--
		}
		if err := e.state.PutToken(token); err != nil {
			return StatusOK, err
		}
		if err := e.state.PutRelation(relation); err != nil {
			return StatusOK, err
		}
		if err := e.state.PutAccount(holder); err != nil {
			return StatusOK, err
		}
		e.emit(events.TokenSupplyChange{Type: events.TypeTokenWiped, TokenID: tokenID, Account: account, Serials: serials, NewSupply: token.TotalSupply})
		return StatusOK, nil
	}
	return StatusInvalidTokenID, nil
}
