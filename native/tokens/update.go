package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

// TokenUpdate lists the fields an update may change. Nil pointers leave the
// current value untouched; a pointer to an empty key removes that key.
type TokenUpdate struct {
	Name           *string
	Symbol         *string
	Memo           *string
	Treasury       *types.EntityID
	AdminKey       *types.Key
	KycKey         *types.Key
	FreezeKey      *types.Key
	WipeKey        *types.Key
	SupplyKey      *types.Key
	FeeScheduleKey *types.Key
	PauseKey       *types.Key
	MetadataKey    *types.Key
	Metadata       *[]byte
}

// TokenExpiryUpdate carries the expiry-only update fields. Zero values
// leave the current setting untouched.
type TokenExpiryUpdate struct {
	ExpirationTime   uint64
	AutoRenewAccount types.EntityID
	AutoRenewPeriod  uint64
}

// UpdateToken rewrites mutable token fields. Tokens without an admin key
// are immutable; an admin key that did not sign fails the signature check.
func (e *Engine) UpdateToken(tokenID types.EntityID, update *TokenUpdate, signers KeySet) (Status, error) {
	if update == nil {
		return StatusOK, errNilToken
	}
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if status := authorize(token.AdminKey, signers, StatusTokenIsImmutable); !status.OK() {
		return status, nil
	}

	if update.Name != nil {
		if *update.Name == "" {
			return StatusMissingTokenName, nil
		}
		if e.cfg.MaxTokenNameLength > 0 && len(*update.Name) > e.cfg.MaxTokenNameLength {
			return StatusTokenNameTooLong, nil
		}
	}
	if update.Symbol != nil {
		if *update.Symbol == "" {
			return StatusMissingTokenSymbol, nil
		}
		if e.cfg.MaxTokenSymbolLength > 0 && len(*update.Symbol) > e.cfg.MaxTokenSymbolLength {
			return StatusTokenSymbolTooLong, nil
		}
	}
	if update.Memo != nil && e.cfg.MaxMemoLength > 0 && len(*update.Memo) > e.cfg.MaxMemoLength {
		return StatusMemoTooLong, nil
	}
	for _, key := range []*types.Key{
		update.AdminKey, update.KycKey, update.FreezeKey, update.WipeKey,
		update.SupplyKey, update.FeeScheduleKey, update.PauseKey, update.MetadataKey,
	} {
		if key != nil && !wellFormedKey(*key) {
			return StatusInvalidAdminKey, nil
		}
	}

	var newTreasury *types.Account
	var oldTreasury *types.Account
	var newTreasuryRelation *types.TokenRelation
	var oldTreasuryRelation *types.TokenRelation
	if update.Treasury != nil && *update.Treasury != token.Treasury {
		account, status, err := e.usableAccount(*update.Treasury)
		if err != nil {
			return StatusOK, err
		}
		if !status.OK() {
			return StatusInvalidTreasuryAccount, nil
		}
		relation, err := e.state.GetRelation(*update.Treasury, tokenID)
		if err != nil {
			return StatusOK, err
		}
		if relation == nil {
			return StatusNotAssociated, nil
		}
		// Uniques cannot be rehomed wholesale: the old treasury must not
		// still hold serials.
		old, err := e.state.GetRelation(token.Treasury, tokenID)
		if err != nil {
			return StatusOK, err
		}
		if token.Type == types.NonFungibleUnique && old != nil && old.Balance > 0 {
			return StatusTreasuryStillOwnsNfts, nil
		}
		holder, err := e.state.GetAccount(token.Treasury)
		if err != nil {
			return StatusOK, err
		}
		newTreasury = account
		oldTreasury = holder
		newTreasuryRelation = relation
		oldTreasuryRelation = old
	}

	if update.Name != nil {
		token.Name = *update.Name
	}
	if update.Symbol != nil {
		token.Symbol = *update.Symbol
	}
	if update.Memo != nil {
		token.Memo = *update.Memo
	}
	applyKey(&token.AdminKey, update.AdminKey)
	applyKey(&token.KycKey, update.KycKey)
	applyKey(&token.FreezeKey, update.FreezeKey)
	applyKey(&token.WipeKey, update.WipeKey)
	applyKey(&token.SupplyKey, update.SupplyKey)
	applyKey(&token.FeeScheduleKey, update.FeeScheduleKey)
	applyKey(&token.PauseKey, update.PauseKey)
	applyKey(&token.MetadataKey, update.MetadataKey)
	if update.Metadata != nil {
		token.Metadata = *update.Metadata
	}

	if newTreasury != nil {
		// Move the fungible float from the old treasury to the new one,
		// keeping each side's positive-balance counter in step.
		if oldTreasuryRelation != nil && oldTreasuryRelation.Balance > 0 {
			if newTreasuryRelation.Balance == 0 {
				newTreasury.PositiveBalances++
			}
			newTreasuryRelation.Balance += oldTreasuryRelation.Balance
			oldTreasuryRelation.Balance = 0
			if oldTreasury != nil && oldTreasury.PositiveBalances > 0 {
				oldTreasury.PositiveBalances--
			}
			if err := e.state.PutRelation(oldTreasuryRelation); err != nil {
				return StatusOK, err
			}
			if err := e.state.PutRelation(newTreasuryRelation); err != nil {
				return StatusOK, err
			}
			if oldTreasury != nil {
				if err := e.state.PutAccount(oldTreasury); err != nil {
					return StatusOK, err
				}
			}
			if err := e.state.PutAccount(newTreasury); err != nil {
				return StatusOK, err
			}
		}
		token.Treasury = newTreasury.ID
	}

	if err := e.state.PutToken(token); err != nil {
		return StatusOK, err
	}
	e.emit(events.TokenLifecycle{Type: events.TypeTokenUpdated, TokenID: tokenID})
	return StatusOK, nil
}

func applyKey(target *types.Key, update *types.Key) {
	if update == nil {
		return
	}
	*target = *update
}

// UpdateTokenExpiry adjusts expiration and auto-renew settings. Unlike
// UpdateToken this needs no admin key: anyone may fund an extension, but
// the bounds still apply.
func (e *Engine) UpdateTokenExpiry(tokenID types.EntityID, update *TokenExpiryUpdate) (Status, error) {
	if update == nil {
		return StatusOK, errNilToken
	}
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return status, err
	}

	if update.ExpirationTime != 0 {
		if update.ExpirationTime <= uint64(e.now()) || update.ExpirationTime < token.ExpirationTime {
			return StatusInvalidExpirationTime, nil
		}
	}
	if update.AutoRenewPeriod != 0 {
		if update.AutoRenewPeriod < e.cfg.MinAutoRenewPeriod || update.AutoRenewPeriod > e.cfg.MaxAutoRenewPeriod {
			return StatusInvalidRenewalPeriod, nil
		}
	}
	if !update.AutoRenewAccount.IsZero() {
		if _, status, err := e.usableAccount(update.AutoRenewAccount); err != nil {
			return StatusOK, err
		} else if !status.OK() {
			return StatusInvalidAutoRenewAccount, nil
		}
	}

	if update.ExpirationTime != 0 {
		token.ExpirationTime = update.ExpirationTime
	}
	if update.AutoRenewPeriod != 0 {
		token.AutoRenewPeriod = update.AutoRenewPeriod
	}
	if !update.AutoRenewAccount.IsZero() {
		token.AutoRenewAccount = update.AutoRenewAccount
	}
	if err := e.state.PutToken(token); err != nil {
		return StatusOK, err
	}
	e.emit(events.TokenLifecycle{Type: events.TypeTokenUpdated, TokenID: tokenID})
	return StatusOK, nil
}

// DeleteToken marks the token deleted. The record stays in place so stale
// references keep resolving to TOKEN_WAS_DELETED rather than vanishing.
func (e *Engine) DeleteToken(tokenID types.EntityID, signers KeySet) (Status, error) {
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if status := authorize(token.AdminKey, signers, StatusTokenIsImmutable); !status.OK() {
		return status, nil
	}

	token.Deleted = true
	if err := e.state.PutToken(token); err != nil {
		return StatusOK, err
	}
	e.emit(events.TokenLifecycle{Type: events.TypeTokenDeleted, TokenID: tokenID})
	return StatusOK, nil
}
