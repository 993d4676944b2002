package tokens

import (
	"math"

	"tokennet/core/events"
	"tokennet/core/types"
)

// Adjustment is one signed balance change in a fungible transfer list.
// IsApproval marks the line as pre-authorised via an allowance granted to
// the caller.
type Adjustment struct {
	Account    types.EntityID
	Amount     int64
	IsApproval bool
}

// NftExchange moves one serial between two accounts inside a transfer list.
type NftExchange struct {
	Serial     uint64
	From       types.EntityID
	To         types.EntityID
	IsApproval bool
}

// TokenTransferList groups the movements of a single token inside a
// multi-token transfer.
type TokenTransferList struct {
	TokenID      types.EntityID
	Adjustments  []Adjustment
	NftExchanges []NftExchange
}

// TransferToken moves a fungible amount between two associated accounts.
// When the caller is not the sender the movement spends the sender's
// allowance granted to the caller.
func (e *Engine) TransferToken(tokenID, from, to types.EntityID, amount uint64, caller types.EntityID) (Status, error) {
	// Adjustments are signed; an amount past int64 range would flip sign.
	if amount > math.MaxInt64 {
		return StatusInvalidTransferAmount, nil
	}
	lists := []TokenTransferList{{
		TokenID: tokenID,
		Adjustments: []Adjustment{
			{Account: from, Amount: -int64(amount), IsApproval: from != caller},
			{Account: to, Amount: int64(amount)},
		},
	}}
	return e.Transfer(lists, caller)
}

// TransferNft moves one serial between two accounts. When the caller is not
// the owner it must hold a single-serial approval or an approve-for-all
// grant.
func (e *Engine) TransferNft(tokenID types.EntityID, serial uint64, from, to types.EntityID, caller types.EntityID) (Status, error) {
	lists := []TokenTransferList{{
		TokenID:      tokenID,
		NftExchanges: []NftExchange{{Serial: serial, From: from, To: to, IsApproval: from != caller}},
	}}
	return e.Transfer(lists, caller)
}

// Transfer applies an ordered multi-token transfer list atomically: either
// every movement lands or none does. Fungible adjustments must net to zero
// per token.
func (e *Engine) Transfer(lists []TokenTransferList, caller types.EntityID) (Status, error) {
	if e.state == nil {
		return StatusOK, errNilState
	}
	snapshot := e.state.Snapshot()
	status, err := e.applyTransfer(lists, caller)
	if err != nil || !status.OK() {
		e.state.RevertToSnapshot(snapshot)
	}
	return status, err
}

func (e *Engine) applyTransfer(lists []TokenTransferList, caller types.EntityID) (Status, error) {
	for _, list := range lists {
		token, status, err := e.transferableToken(list.TokenID)
		if err != nil || !status.OK() {
			return status, err
		}

		var net int64
		for _, adjustment := range list.Adjustments {
			net += adjustment.Amount
		}
		if net != 0 {
			return StatusTransfersNotZeroSum, nil
		}

		for _, adjustment := range list.Adjustments {
			if token.Type != types.FungibleCommon {
				return StatusInvalidTokenID, nil
			}
			status, err := e.applyAdjustment(token, adjustment, caller)
			if err != nil || !status.OK() {
				return status, err
			}
		}
		for _, exchange := range list.NftExchanges {
			if token.Type != types.NonFungibleUnique {
				return StatusInvalidNftID, nil
			}
			status, err := e.applyNftExchange(token, exchange, caller)
			if err != nil || !status.OK() {
				return status, err
			}
		}
	}
	return StatusOK, nil
}

// gatedRelation loads the relation and applies the frozen/KYC transfer
// gates shared by debits and credits.
func (e *Engine) gatedRelation(token *types.Token, account types.EntityID) (*types.TokenRelation, Status, error) {
	relation, err := e.state.GetRelation(account, token.ID)
	if err != nil {
		return nil, StatusOK, err
	}
	if relation == nil {
		return nil, StatusNotAssociated, nil
	}
	if relation.Frozen {
		return nil, StatusAccountFrozenForToken, nil
	}
	if !token.KycKey.Empty() && !relation.KycGranted {
		return nil, StatusAccountKycNotGranted, nil
	}
	return relation, StatusOK, nil
}

func (e *Engine) applyAdjustment(token *types.Token, adjustment Adjustment, caller types.EntityID) (Status, error) {
	holder, status, err := e.usableAccount(adjustment.Account)
	if err != nil || !status.OK() {
		if status == StatusInvalidAccountID {
			status = StatusInvalidTransferAccount
		}
		return status, err
	}
	relation, status, err := e.gatedRelation(token, adjustment.Account)
	if err != nil || !status.OK() {
		return status, err
	}

	if adjustment.Amount < 0 {
		debit := uint64(-adjustment.Amount)
		if debit > relation.Balance {
			return StatusInsufficientTokenBalance, nil
		}
		if adjustment.Account != caller {
			// A third-party debit must be marked as an allowance spend;
			// the owner did not sign this movement.
			if !adjustment.IsApproval {
				return StatusInvalidSignature, nil
			}
			status, err := e.spendAllowance(holder, token.ID, caller, debit)
			if err != nil || !status.OK() {
				return status, err
			}
		}
		relation.Balance -= debit
		if relation.Balance == 0 && holder.PositiveBalances > 0 {
			holder.PositiveBalances--
		}
	} else {
		credit := uint64(adjustment.Amount)
		if relation.Balance == 0 && credit > 0 {
			holder.PositiveBalances++
		}
		relation.Balance += credit
	}

	if err := e.state.PutRelation(relation); err != nil {
		return StatusOK, err
	}
	if err := e.state.PutAccount(holder); err != nil {
		return StatusOK, err
	}
	if adjustment.Amount < 0 {
		e.emit(events.TokenTransfer{Type: events.TypeTokenTransferred, TokenID: token.ID, From: adjustment.Account, Amount: uint64(-adjustment.Amount)})
	}
	return StatusOK, nil
}

// spendAllowance debits the caller's fungible allowance on the owner's
// account. Absence and exhaustion are distinct failures.
func (e *Engine) spendAllowance(owner *types.Account, tokenID, spender types.EntityID, amount uint64) (Status, error) {
	allowance, ok := owner.TokenAllowanceFor(tokenID, spender)
	if !ok {
		return StatusSpenderHasNoAllowance, nil
	}
	if amount > allowance.Amount {
		return StatusAmountExceedsAllowance, nil
	}
	owner.SetTokenAllowance(tokenID, spender, allowance.Amount-amount)
	return StatusOK, nil
}

func (e *Engine) applyNftExchange(token *types.Token, exchange NftExchange, caller types.EntityID) (Status, error) {
	if exchange.From.IsZero() || exchange.To.IsZero() {
		return StatusInvalidTransferAccount, nil
	}
	sender, status, err := e.usableAccount(exchange.From)
	if err != nil || !status.OK() {
		if status == StatusInvalidAccountID {
			status = StatusInvalidTransferAccount
		}
		return status, err
	}
	receiver, status, err := e.usableAccount(exchange.To)
	if err != nil || !status.OK() {
		if status == StatusInvalidAccountID {
			status = StatusInvalidTransferAccount
		}
		return status, err
	}

	senderRelation, status, err := e.gatedRelation(token, exchange.From)
	if err != nil || !status.OK() {
		return status, err
	}
	receiverRelation, status, err := e.gatedRelation(token, exchange.To)
	if err != nil || !status.OK() {
		return status, err
	}

	nft, err := e.state.GetNft(types.NftID{Token: token.ID, Serial: exchange.Serial})
	if err != nil {
		return StatusOK, err
	}
	if nft == nil {
		return StatusInvalidNftID, nil
	}
	if nft.OwnerOrTreasury(token) != exchange.From {
		return StatusSenderDoesNotOwnNftSerial, nil
	}

	// Approve-for-all holders skip the per-serial spender check but remain
	// subject to the freeze/pause/KYC gates above.
	if exchange.From != caller {
		if !exchange.IsApproval {
			return StatusInvalidSignature, nil
		}
		if nft.Spender != caller && !sender.HasApproveForAll(token.ID, caller) {
			return StatusSpenderHasNoAllowance, nil
		}
	}

	nft.Owner = exchange.To
	nft.Spender = types.EntityID{}
	if err := e.state.PutNft(nft); err != nil {
		return StatusOK, err
	}

	senderRelation.Balance--
	if senderRelation.Balance == 0 && sender.PositiveBalances > 0 {
		sender.PositiveBalances--
	}
	if sender.OwnedNfts > 0 {
		sender.OwnedNfts--
	}
	if receiverRelation.Balance == 0 {
		receiver.PositiveBalances++
	}
	receiverRelation.Balance++
	receiver.OwnedNfts++

	if err := e.state.PutRelation(senderRelation); err != nil {
		return StatusOK, err
	}
	if err := e.state.PutRelation(receiverRelation); err != nil {
		return StatusOK, err
	}
	if err := e.state.PutAccount(sender); err != nil {
		return StatusOK, err
	}
	if err := e.state.PutAccount(receiver); err != nil {
		return StatusOK, err
	}
	e.emit(events.TokenTransfer{Type: events.TypeTokenTransferred, TokenID: token.ID, From: exchange.From, To: exchange.To, Serial: exchange.Serial})
	return StatusOK, nil
}
