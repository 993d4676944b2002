package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

// Freeze blocks the account's transfers of the token until unfrozen.
// Requires the token's freeze key among the verified signers; a token
// without a freeze key can never freeze anyone.
func (e *Engine) Freeze(tokenID, account types.EntityID, signers KeySet) (Status, error) {
	return e.setFrozen(tokenID, account, signers, true)
}

// Unfreeze lifts a freeze previously placed on the (account, token) pair.
func (e *Engine) Unfreeze(tokenID, account types.EntityID, signers KeySet) (Status, error) {
	return e.setFrozen(tokenID, account, signers, false)
}

func (e *Engine) setFrozen(tokenID, account types.EntityID, signers KeySet, frozen bool) (Status, error) {
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if status := authorize(token.FreezeKey, signers, StatusTokenHasNoFreezeKey); !status.OK() {
		return status, nil
	}
	if _, status, err := e.usableAccount(account); err != nil || !status.OK() {
		return status, err
	}
	relation, err := e.state.GetRelation(account, tokenID)
	if err != nil {
		return StatusOK, err
	}
	if relation == nil {
		return StatusNotAssociated, nil
	}

	relation.Frozen = frozen
	if err := e.state.PutRelation(relation); err != nil {
		return StatusOK, err
	}
	eventType := events.TypeTokenFrozen
	if !frozen {
		eventType = events.TypeTokenUnfrozen
	}
	e.emit(events.TokenRelationChange{Type: eventType, Account: account, TokenID: tokenID})
	return StatusOK, nil
}

// GrantKyc marks the account as KYC-passed for the token. Requires the
// token's KYC key.
func (e *Engine) GrantKyc(tokenID, account types.EntityID, signers KeySet) (Status, error) {
	return e.setKyc(tokenID, account, signers, true)
}

// RevokeKyc withdraws the account's KYC grant for the token.
func (e *Engine) RevokeKyc(tokenID, account types.EntityID, signers KeySet) (Status, error) {
	return e.setKyc(tokenID, account, signers, false)
}

func (e *Engine) setKyc(tokenID, account types.EntityID, signers KeySet, granted bool) (Status, error) {
	token, status, err := e.usableToken(tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if status := authorize(token.KycKey, signers, StatusTokenHasNoKycKey); !status.OK() {
		return status, nil
	}
	if _, status, err := e.usableAccount(account); err != nil || !status.OK() {
		return status, err
	}
	relation, err := e.state.GetRelation(account, tokenID)
	if err != nil {
		return StatusOK, err
	}
	if relation == nil {
		return StatusNotAssociated, nil
	}

	relation.KycGranted = granted
	if err := e.state.PutRelation(relation); err != nil {
		return StatusOK, err
	}
	eventType := events.TypeTokenKycGranted
	if !granted {
		eventType = events.TypeTokenKycRevoked
	}
	e.emit(events.TokenRelationChange{Type: eventType, Account: account, TokenID: tokenID})
	return StatusOK, nil
}
