package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

// AirdropTransfer is one leg of an airdrop batch. A non-zero Serial sends
// that unique; otherwise Amount of fungible value is sent.
type AirdropTransfer struct {
	Receiver types.EntityID
	Amount   uint64
	Serial   uint64
}

// Airdrop sends value to receivers that may not be associated yet. Receivers
// with an existing relation (or a free automatic slot) are settled in place;
// the rest get a pending airdrop parked against the sender, who keeps the
// value until the receiver claims it. The batch is atomic.
func (e *Engine) Airdrop(sender, tokenID types.EntityID, drops []AirdropTransfer) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	if e.cfg.MaxBatchSize > 0 && len(drops) > e.cfg.MaxBatchSize {
		return StatusBatchSizeExceeded, nil
	}
	snapshot := e.state.Snapshot()
	status, err := e.applyAirdrop(sender, tokenID, drops)
	if err != nil || !status.OK() {
		e.state.RevertToSnapshot(snapshot)
	}
	return status, err
}

func (e *Engine) applyAirdrop(sender, tokenID types.EntityID, drops []AirdropTransfer) (Status, error) {
	token, status, err := e.transferableToken(tokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	if _, status, err := e.usableAccount(sender); err != nil || !status.OK() {
		return status, err
	}
	if _, status, err := e.gatedRelation(token, sender); err != nil || !status.OK() {
		return status, err
	}

	for _, drop := range drops {
		receiver, status, err := e.usableAccount(drop.Receiver)
		if err != nil || !status.OK() {
			if status == StatusInvalidAccountID {
				status = StatusInvalidTransferAccount
			}
			return status, err
		}
		if status, err := e.validateDropSource(token, sender, drop); err != nil || !status.OK() {
			return status, err
		}

		relation, err := e.state.GetRelation(drop.Receiver, tokenID)
		if err != nil {
			return StatusOK, err
		}
		if relation == nil && receiver.UsedAutoAssociations < e.autoSlotLimit(receiver) {
			if status, err := e.autoAssociate(receiver, token); err != nil || !status.OK() {
				return status, err
			}
			relation, err = e.state.GetRelation(drop.Receiver, tokenID)
			if err != nil {
				return StatusOK, err
			}
		}

		if relation != nil {
			status, err := e.settleDrop(token, sender, drop)
			if err != nil || !status.OK() {
				return status, err
			}
			continue
		}

		if status, err := e.parkDrop(sender, tokenID, drop); err != nil || !status.OK() {
			return status, err
		}
	}
	return StatusOK, nil
}

// validateDropSource checks the sender can cover the drop at send time. A
// parked drop is a promise, not an escrow, so the same check runs again on
// claim.
func (e *Engine) validateDropSource(token *types.Token, sender types.EntityID, drop AirdropTransfer) (Status, error) {
	if drop.Serial != 0 {
		if token.Type != types.NonFungibleUnique {
			return StatusInvalidNftID, nil
		}
		nft, err := e.state.GetNft(types.NftID{Token: token.ID, Serial: drop.Serial})
		if err != nil {
			return StatusOK, err
		}
		if nft == nil {
			return StatusInvalidNftID, nil
		}
		if nft.OwnerOrTreasury(token) != sender {
			return StatusSenderDoesNotOwnNftSerial, nil
		}
		return StatusOK, nil
	}
	if token.Type != types.FungibleCommon {
		return StatusInvalidTokenID, nil
	}
	if drop.Amount == 0 {
		return StatusInvalidTransferAccount, nil
	}
	relation, err := e.state.GetRelation(sender, token.ID)
	if err != nil {
		return StatusOK, err
	}
	if relation == nil || drop.Amount > relation.Balance {
		return StatusInsufficientTokenBalance, nil
	}
	return StatusOK, nil
}

func (e *Engine) settleDrop(token *types.Token, sender types.EntityID, drop AirdropTransfer) (Status, error) {
	if drop.Serial != 0 {
		exchange := NftExchange{Serial: drop.Serial, From: sender, To: drop.Receiver}
		return e.applyNftExchange(token, exchange, sender)
	}
	list := []TokenTransferList{{
		TokenID: token.ID,
		Adjustments: []Adjustment{
			{Account: sender, Amount: -int64(drop.Amount)},
			{Account: drop.Receiver, Amount: int64(drop.Amount)},
		},
	}}
	return e.applyTransfer(list, sender)
}

func (e *Engine) parkDrop(sender, tokenID types.EntityID, drop AirdropTransfer) (Status, error) {
	id := types.PendingAirdropID{
		Sender:   sender,
		Receiver: drop.Receiver,
		TokenID:  tokenID,
		Serial:   drop.Serial,
	}
	pending, err := e.state.GetAirdrop(id)
	if err != nil {
		return StatusOK, err
	}
	if pending == nil {
		pending = &types.PendingAirdrop{ID: id}
	} else if drop.Serial != 0 {
		// The same serial cannot be pending twice.
		return StatusInvalidPendingAirdropID, nil
	}
	pending.Amount += drop.Amount
	if err := e.state.PutAirdrop(pending); err != nil {
		return StatusOK, err
	}
	e.emit(events.TokenTransfer{Type: events.TypeAirdropPending, TokenID: tokenID, From: sender, To: drop.Receiver, Amount: drop.Amount, Serial: drop.Serial})
	return StatusOK, nil
}

// AirdropList pairs one token with its drops inside a multi-token airdrop.
type AirdropList struct {
	TokenID types.EntityID
	Drops   []AirdropTransfer
}

// AirdropLists applies several airdrop lists as one atomic batch: a failure
// in any list unwinds the settled and parked drops of the earlier ones.
func (e *Engine) AirdropLists(sender types.EntityID, lists []AirdropList) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	snapshot := e.state.Snapshot()
	for _, list := range lists {
		status, err := e.Airdrop(sender, list.TokenID, list.Drops)
		if err != nil || !status.OK() {
			e.state.RevertToSnapshot(snapshot)
			return status, err
		}
	}
	return StatusOK, nil
}

// ClaimAirdrop completes a parked airdrop. Only the receiver may claim;
// claiming associates the receiver if nothing did so in the meantime, without
// consuming an automatic slot.
func (e *Engine) ClaimAirdrop(id types.PendingAirdropID, caller types.EntityID) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	if caller != id.Receiver {
		return StatusInvalidSignature, nil
	}
	pending, err := e.state.GetAirdrop(id)
	if err != nil {
		return StatusOK, err
	}
	if pending == nil {
		return StatusInvalidPendingAirdropID, nil
	}
	token, status, err := e.transferableToken(id.TokenID)
	if err != nil || !status.OK() {
		return status, err
	}
	receiver, status, err := e.usableAccount(id.Receiver)
	if err != nil || !status.OK() {
		return status, err
	}

	snapshot := e.state.Snapshot()
	status, err = e.applyClaim(token, receiver, pending)
	if err != nil || !status.OK() {
		e.state.RevertToSnapshot(snapshot)
		return status, err
	}
	e.state.RemoveAirdrop(id)
	e.emit(events.TokenTransfer{Type: events.TypeAirdropClaimed, TokenID: id.TokenID, From: id.Sender, To: id.Receiver, Amount: pending.Amount, Serial: id.Serial})
	return StatusOK, nil
}

func (e *Engine) applyClaim(token *types.Token, receiver *types.Account, pending *types.PendingAirdrop) (Status, error) {
	relation, err := e.state.GetRelation(receiver.ID, token.ID)
	if err != nil {
		return StatusOK, err
	}
	if relation == nil {
		// An explicit claim is consent, so the association does not need a
		// free automatic slot.
		relation = &types.TokenRelation{
			Account:    receiver.ID,
			TokenID:    token.ID,
			Frozen:     token.DefaultFrozen,
			KycGranted: token.DefaultKycGranted(),
		}
		if err := e.state.PutRelation(relation); err != nil {
			return StatusOK, err
		}
		receiver.NumberAssociations++
		if err := e.state.PutAccount(receiver); err != nil {
			return StatusOK, err
		}
		e.emit(events.TokenRelationChange{Type: events.TypeTokenAssociated, Account: receiver.ID, TokenID: token.ID})
	}
	drop := AirdropTransfer{Receiver: receiver.ID, Amount: pending.Amount, Serial: pending.ID.Serial}
	if status, err := e.validateDropSource(token, pending.ID.Sender, drop); err != nil || !status.OK() {
		return status, err
	}
	return e.settleDrop(token, pending.ID.Sender, drop)
}

// ClaimAirdrops claims a batch of pending airdrops atomically.
func (e *Engine) ClaimAirdrops(ids []types.PendingAirdropID, caller types.EntityID) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	snapshot := e.state.Snapshot()
	for _, id := range ids {
		status, err := e.ClaimAirdrop(id, caller)
		if err != nil || !status.OK() {
			e.state.RevertToSnapshot(snapshot)
			return status, err
		}
	}
	return StatusOK, nil
}

// CancelAirdrop withdraws a parked airdrop. Only the sender may cancel;
// nothing moved when the drop was parked, so cancelling just drops the
// record.
func (e *Engine) CancelAirdrop(id types.PendingAirdropID, caller types.EntityID) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	if caller != id.Sender {
		return StatusInvalidSignature, nil
	}
	pending, err := e.state.GetAirdrop(id)
	if err != nil {
		return StatusOK, err
	}
	if pending == nil {
		return StatusInvalidPendingAirdropID, nil
	}
	e.state.RemoveAirdrop(id)
	e.emit(events.TokenTransfer{Type: events.TypeAirdropCancelled, TokenID: id.TokenID, From: id.Sender, To: id.Receiver, Amount: pending.Amount, Serial: id.Serial})
	return StatusOK, nil
}

// CancelAirdrops cancels a batch of pending airdrops atomically.
func (e *Engine) CancelAirdrops(ids []types.PendingAirdropID, caller types.EntityID) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	snapshot := e.state.Snapshot()
	for _, id := range ids {
		status, err := e.CancelAirdrop(id, caller)
		if err != nil || !status.OK() {
			e.state.RevertToSnapshot(snapshot)
			return status, err
		}
	}
	return StatusOK, nil
}
