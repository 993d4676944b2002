// Package sigreq computes, ahead of execution, the set of keys whose
// signatures a transaction requires. It reads the pre-mutation ledger only;
// signature verification itself happens in a collaborator.
package sigreq

import (
	"errors"

	"tokennet/core/types"
	"tokennet/native/tokens"
)

var errNilLookup = errors.New("sigreq: lookups not configured")

// TokenMeta is the read-only token snapshot the resolver consults. It
// deliberately omits balances so a lookup can be served from cached state.
type TokenMeta struct {
	AdminKey               types.Key
	KycKey                 types.Key
	FreezeKey              types.Key
	WipeKey                types.Key
	SupplyKey              types.Key
	FeeScheduleKey         types.Key
	PauseKey               types.Key
	Treasury               types.EntityID
	HasRoyaltyWithFallback bool
}

// MetaFromToken builds the resolver snapshot from a full token record.
func MetaFromToken(token *types.Token) *TokenMeta {
	if token == nil {
		return nil
	}
	return &TokenMeta{
		AdminKey:               token.AdminKey,
		KycKey:                 token.KycKey,
		FreezeKey:              token.FreezeKey,
		WipeKey:                token.WipeKey,
		SupplyKey:              token.SupplyKey,
		FeeScheduleKey:         token.FeeScheduleKey,
		PauseKey:               token.PauseKey,
		Treasury:               token.Treasury,
		HasRoyaltyWithFallback: token.HasRoyaltyWithFallback(),
	}
}

// AccountLookup resolves accounts by id or alias from pre-mutation state.
type AccountLookup interface {
	GetAccount(id types.EntityID) (*types.Account, error)
	AccountByAlias(alias []byte) (types.EntityID, bool, error)
}

// TokenLookup returns the token snapshot, or nil when the token is absent.
type TokenLookup interface {
	TokenMeta(id types.EntityID) (*TokenMeta, error)
}

// Waiver lets privileged payers skip signature requirements that would
// otherwise apply to a referenced account.
type Waiver interface {
	SignatureWaived(payer, target types.EntityID) bool
}

// NoWaiver waives nothing.
type NoWaiver struct{}

func (NoWaiver) SignatureWaived(types.EntityID, types.EntityID) bool { return false }

// TransferLine is one fungible adjustment the transaction proposes. Negative
// amounts are debits.
type TransferLine struct {
	Token       types.EntityID
	Account     types.EntityID
	Amount      int64
	PreApproved bool
}

// NftLine is one unique transfer the transaction proposes.
type NftLine struct {
	Token       types.EntityID
	Serial      uint64
	Sender      types.EntityID
	Receiver    types.EntityID
	PreApproved bool
}

// Transaction describes every entity reference the resolver inspects. Zero
// ids and nil slices mean the transaction does not carry that shape.
type Transaction struct {
	Payer      types.EntityID
	PayerAlias []byte

	// Token whose admin key must sign (update/delete shapes).
	AdminTokenID *types.EntityID

	TargetAccounts      []types.EntityID
	AllowanceOwners     []types.EntityID
	DelegatingSpenders  []types.EntityID
	AutoRenewAccount    *types.EntityID
	CustomFeeCollectors []types.EntityID

	Transfers    []TransferLine
	NftTransfers []NftLine
}

// Requirements is the resolver output: the payer key plus the ordered,
// de-duplicated non-payer keys. On failure it carries whatever accumulated
// before the first error, for diagnostics.
type Requirements struct {
	PayerKey     types.Key
	NonPayerKeys []types.Key
}

// Resolver walks a transaction's entity references against pre-mutation
// state.
type Resolver struct {
	accounts AccountLookup
	tokens   TokenLookup
	waiver   Waiver
}

func NewResolver(accounts AccountLookup, tokens TokenLookup, waiver Waiver) *Resolver {
	if waiver == nil {
		waiver = NoWaiver{}
	}
	return &Resolver{accounts: accounts, tokens: tokens, waiver: waiver}
}

// resolution accumulates keys and records the first failure. Recoverable
// failures keep the walk going so the partial key list stays useful.
type resolution struct {
	reqs   Requirements
	seen   map[string]struct{}
	status tokens.Status
}

func (r *resolution) fail(status tokens.Status) {
	if r.status.OK() {
		r.status = status
	}
}

func (r *resolution) addKey(key types.Key) {
	if key.Empty() {
		return
	}
	if _, dup := r.seen[string(key)]; dup {
		return
	}
	r.seen[string(key)] = struct{}{}
	r.reqs.NonPayerKeys = append(r.reqs.NonPayerKeys, key.Clone())
}

// Resolve computes the signing requirements. A missing payer is terminal and
// returns immediately; every other missing entity records its status and
// keeps accumulating keys so the caller can report what did resolve.
func (r *Resolver) Resolve(tx *Transaction) (*Requirements, tokens.Status, error) {
	if r.accounts == nil || r.tokens == nil {
		return nil, tokens.StatusOK, errNilLookup
	}

	payerID := tx.Payer
	if payerID.IsZero() && len(tx.PayerAlias) > 0 {
		id, ok, err := r.accounts.AccountByAlias(tx.PayerAlias)
		if err != nil {
			return nil, tokens.StatusOK, err
		}
		if !ok {
			return &Requirements{}, tokens.StatusInvalidPayerAccountID, nil
		}
		payerID = id
	}
	payer, err := r.accounts.GetAccount(payerID)
	if err != nil {
		return nil, tokens.StatusOK, err
	}
	if payer == nil || payer.Deleted {
		return &Requirements{}, tokens.StatusInvalidPayerAccountID, nil
	}

	res := &resolution{seen: make(map[string]struct{})}
	res.reqs.PayerKey = payer.Key.Clone()

	if tx.AdminTokenID != nil {
		meta, err := r.tokens.TokenMeta(*tx.AdminTokenID)
		if err != nil {
			return nil, tokens.StatusOK, err
		}
		switch {
		case meta == nil:
			res.fail(tokens.StatusInvalidTokenID)
		case meta.AdminKey.Empty():
			res.fail(tokens.StatusTokenIsImmutable)
		default:
			res.addKey(meta.AdminKey)
		}
	}

	for _, id := range tx.TargetAccounts {
		if err := r.require(res, payerID, id, tokens.StatusInvalidAccountID); err != nil {
			return nil, tokens.StatusOK, err
		}
	}
	for _, id := range tx.AllowanceOwners {
		if err := r.require(res, payerID, id, tokens.StatusInvalidAllowanceOwnerID); err != nil {
			return nil, tokens.StatusOK, err
		}
	}
	for _, id := range tx.DelegatingSpenders {
		if err := r.require(res, payerID, id, tokens.StatusInvalidDelegatingSpender); err != nil {
			return nil, tokens.StatusOK, err
		}
	}
	if tx.AutoRenewAccount != nil {
		if err := r.require(res, payerID, *tx.AutoRenewAccount, tokens.StatusInvalidAutoRenewAccount); err != nil {
			return nil, tokens.StatusOK, err
		}
	}
	for _, id := range tx.CustomFeeCollectors {
		if err := r.require(res, payerID, id, tokens.StatusInvalidAccountID); err != nil {
			return nil, tokens.StatusOK, err
		}
	}

	for _, line := range tx.Transfers {
		if err := r.resolveTransfer(res, payerID, line); err != nil {
			return nil, tokens.StatusOK, err
		}
	}
	for _, line := range tx.NftTransfers {
		status, err := r.resolveNftLine(res, payerID, line)
		if err != nil {
			return nil, tokens.StatusOK, err
		}
		if !status.OK() {
			// Malformed NFT lines are terminal: a line without both parties
			// cannot be partially resolved.
			res.fail(status)
			return &res.reqs, res.status, nil
		}
	}

	return &res.reqs, res.status, nil
}

// require pulls in the account's key unless the account is the payer or the
// waiver policy says otherwise. Absence records the given status.
func (r *Resolver) require(res *resolution, payer, id types.EntityID, missing tokens.Status) error {
	if id == payer || r.waiver.SignatureWaived(payer, id) {
		return nil
	}
	account, err := r.accounts.GetAccount(id)
	if err != nil {
		return err
	}
	if account == nil || account.Deleted {
		res.fail(missing)
		return nil
	}
	res.addKey(account.Key)
	return nil
}

func (r *Resolver) resolveTransfer(res *resolution, payer types.EntityID, line TransferLine) error {
	if line.Account == payer || r.waiver.SignatureWaived(payer, line.Account) {
		return nil
	}
	account, err := r.accounts.GetAccount(line.Account)
	if err != nil {
		return err
	}
	if account == nil || account.Deleted {
		res.fail(tokens.StatusInvalidTransferAccount)
		return nil
	}
	if line.Amount < 0 {
		// Debits need the owner unless an allowance already authorised the
		// line.
		if !line.PreApproved {
			res.addKey(account.Key)
		}
		return nil
	}
	if account.ReceiverSigRequired {
		res.addKey(account.Key)
	}
	return nil
}

func (r *Resolver) resolveNftLine(res *resolution, payer types.EntityID, line NftLine) (tokens.Status, error) {
	if line.Sender.IsZero() || line.Receiver.IsZero() {
		return tokens.StatusInvalidTransferAccount, nil
	}
	sender, err := r.accounts.GetAccount(line.Sender)
	if err != nil {
		return tokens.StatusOK, err
	}
	if sender == nil || sender.Deleted {
		return tokens.StatusInvalidTransferAccount, nil
	}
	receiver, err := r.accounts.GetAccount(line.Receiver)
	if err != nil {
		return tokens.StatusOK, err
	}
	if receiver == nil || receiver.Deleted {
		return tokens.StatusInvalidTransferAccount, nil
	}

	if line.Sender != payer && !line.PreApproved && !r.waiver.SignatureWaived(payer, line.Sender) {
		res.addKey(sender.Key)
	}

	meta, err := r.tokens.TokenMeta(line.Token)
	if err != nil {
		return tokens.StatusOK, err
	}
	if meta == nil {
		res.fail(tokens.StatusInvalidTokenID)
		return tokens.StatusOK, nil
	}
	if line.Receiver == payer || r.waiver.SignatureWaived(payer, line.Receiver) {
		return tokens.StatusOK, nil
	}
	// Receivers sign when they insist on it, when the serial lands back in
	// the token's treasury, or when a royalty fallback could charge them.
	if receiver.ReceiverSigRequired || line.Receiver == meta.Treasury || meta.HasRoyaltyWithFallback {
		res.addKey(receiver.Key)
	}
	return tokens.StatusOK, nil
}
