package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

// Associate creates a relation between the account and each listed token.
// The whole batch is validated before anything is written: one bad token id
// or an existing association fails the entire call.
func (e *Engine) Associate(account types.EntityID, tokenIDs []types.EntityID) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	if e.cfg.MaxBatchSize > 0 && len(tokenIDs) > e.cfg.MaxBatchSize {
		return StatusBatchSizeExceeded, nil
	}
	holder, status, err := e.usableAccount(account)
	if err != nil || !status.OK() {
		return status, err
	}

	tokens := make([]*types.Token, 0, len(tokenIDs))
	seen := make(map[types.EntityID]struct{}, len(tokenIDs))
	for _, tokenID := range tokenIDs {
		if _, dup := seen[tokenID]; dup {
			return StatusAlreadyAssociated, nil
		}
		seen[tokenID] = struct{}{}
		token, status, err := e.usableToken(tokenID)
		if err != nil || !status.OK() {
			return status, err
		}
		relation, err := e.state.GetRelation(account, tokenID)
		if err != nil {
			return StatusOK, err
		}
		if relation != nil {
			return StatusAlreadyAssociated, nil
		}
		tokens = append(tokens, token)
	}

	for _, token := range tokens {
		relation := &types.TokenRelation{
			Account:    account,
			TokenID:    token.ID,
			Frozen:     token.DefaultFrozen,
			KycGranted: token.DefaultKycGranted(),
		}
		if err := e.state.PutRelation(relation); err != nil {
			return StatusOK, err
		}
		holder.NumberAssociations++
		e.emit(events.TokenRelationChange{Type: events.TypeTokenAssociated, Account: account, TokenID: token.ID})
	}
	if err := e.state.PutAccount(holder); err != nil {
		return StatusOK, err
	}
	return StatusOK, nil
}

// autoSlotLimit is the account's automatic-association allowance after the
// network-wide ceiling is applied.
func (e *Engine) autoSlotLimit(account *types.Account) uint64 {
	limit := account.MaxAutoAssociations
	if e.cfg.MaxAutoAssociations > 0 && limit > e.cfg.MaxAutoAssociations {
		limit = e.cfg.MaxAutoAssociations
	}
	return limit
}

// autoAssociate creates a relation using one of the account's automatic
// association slots. Callers have already checked the pair is unassociated.
func (e *Engine) autoAssociate(holder *types.Account, token *types.Token) (Status, error) {
	if holder.UsedAutoAssociations >= e.autoSlotLimit(holder) {
		return StatusNoRemainingAutoSlots, nil
	}
	relation := &types.TokenRelation{
		Account:              holder.ID,
		TokenID:              token.ID,
		Frozen:               token.DefaultFrozen,
		KycGranted:           token.DefaultKycGranted(),
		AutomaticAssociation: true,
	}
	if err := e.state.PutRelation(relation); err != nil {
		return StatusOK, err
	}
	holder.UsedAutoAssociations++
	holder.NumberAssociations++
	if err := e.state.PutAccount(holder); err != nil {
		return StatusOK, err
	}
	e.emit(events.TokenRelationChange{Type: events.TypeTokenAssociated, Account: holder.ID, TokenID: token.ID})
	return StatusOK, nil
}

// Dissociate removes the relation between the account and each listed token.
// Relations holding a fungible balance block removal unless the token was
// deleted; NFT balances always block because the serials would be orphaned.
func (e *Engine) Dissociate(account types.EntityID, tokenIDs []types.EntityID) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	if e.cfg.MaxBatchSize > 0 && len(tokenIDs) > e.cfg.MaxBatchSize {
		return StatusBatchSizeExceeded, nil
	}
	holder, status, err := e.usableAccount(account)
	if err != nil || !status.OK() {
		return status, err
	}

	type pending struct {
		relation *types.TokenRelation
		auto     bool
	}
	removals := make([]pending, 0, len(tokenIDs))
	for _, tokenID := range tokenIDs {
		relation, err := e.state.GetRelation(account, tokenID)
		if err != nil {
			return StatusOK, err
		}
		if relation == nil {
			return StatusNotAssociated, nil
		}
		token, err := e.state.GetToken(tokenID)
		if err != nil {
			return StatusOK, err
		}
		if relation.Balance > 0 {
			deleted := token != nil && token.Deleted
			if !deleted || token.Type == types.NonFungibleUnique {
				return StatusAccountBalancesNotZero, nil
			}
		}
		if token != nil && !token.Deleted && token.Treasury == account {
			return StatusAccountIsTreasury, nil
		}
		removals = append(removals, pending{relation: relation, auto: relation.AutomaticAssociation})
	}

	for _, removal := range removals {
		e.state.RemoveRelation(account, removal.relation.TokenID)
		if holder.NumberAssociations > 0 {
			holder.NumberAssociations--
		}
		if removal.auto && holder.UsedAutoAssociations > 0 {
			holder.UsedAutoAssociations--
		}
		if removal.relation.Balance > 0 && holder.PositiveBalances > 0 {
			holder.PositiveBalances--
		}
		e.emit(events.TokenRelationChange{Type: events.TypeTokenDissociated, Account: account, TokenID: removal.relation.TokenID})
	}
	if err := e.state.PutAccount(holder); err != nil {
		return StatusOK, err
	}
	return StatusOK, nil
}
