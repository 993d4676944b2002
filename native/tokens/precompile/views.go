package precompile

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"tokennet/core/types"
	"tokennet/native/tokens"
)

// HAPI view handlers.

func (d *Dispatcher) relationFlagView(in []interface{}, view func(token, account types.EntityID) (bool, tokens.Status, error)) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidTokenID, nil
	}
	account, ok := d.accountArg(in[1])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidAccountID, nil
	}
	flag, status, err := view(token, account)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{flag}, status, nil
}

func handleIsFrozen(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.relationFlagView(in, d.engine.IsFrozen)
}

func handleIsKyc(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.relationFlagView(in, d.engine.IsKyc)
}

func (d *Dispatcher) tokenView(in []interface{}) (*types.Token, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	return d.engine.GetToken(token)
}

func handleDefaultFreezeStatus(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{token.DefaultFrozen}, status, nil
}

func handleDefaultKycStatus(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{token.DefaultKycGranted()}, status, nil
}

func handleGetTokenType(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{int32(0)}, status, err
	}
	return []interface{}{int32(token.Type)}, status, nil
}

// handleIsToken answers existence without failing: an unknown address is a
// successful false.
func handleIsToken(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	_, status, err := d.tokenView(in)
	if err != nil {
		return []interface{}{false}, tokens.StatusOK, err
	}
	if status == tokens.StatusInvalidTokenID {
		return []interface{}{false}, tokens.StatusOK, nil
	}
	return []interface{}{status.OK()}, tokens.StatusOK, nil
}

func handleGetTokenKey(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{keyValueArg{}}, status, err
	}
	bits := convert[*big.Int](in[1])
	if bits == nil || !bits.IsUint64() {
		return []interface{}{keyValueArg{}}, tokens.StatusInvalidAdminKey, nil
	}
	var key types.Key
	switch bits.Uint64() {
	case keyBitAdmin:
		key = token.AdminKey
	case keyBitKyc:
		key = token.KycKey
	case keyBitFreeze:
		key = token.FreezeKey
	case keyBitWipe:
		key = token.WipeKey
	case keyBitSupply:
		key = token.SupplyKey
	case keyBitFeeSchedule:
		key = token.FeeScheduleKey
	case keyBitPause:
		key = token.PauseKey
	case keyBitMetadata:
		key = token.MetadataKey
	default:
		return []interface{}{keyValueArg{}}, tokens.StatusInvalidAdminKey, nil
	}
	return []interface{}{encodeKeyValue(key)}, tokens.StatusOK, nil
}

func handleGetCustomFees(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{[]fixedFeeArg{}, []fractionalFeeArg{}, []royaltyFeeArg{}}, status, err
	}
	fixed, fractional, royalty := customFeesToArgs(token.CustomFees)
	return []interface{}{fixed, fractional, royalty}, status, nil
}

func handleGetTokenInfo(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{tokenInfoArg{}}, status, err
	}
	return []interface{}{d.tokenToInfoArg(token)}, status, nil
}

func handleGetFungibleTokenInfo(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{fungibleTokenInfoArg{}}, status, err
	}
	if token.Type != types.FungibleCommon {
		return []interface{}{fungibleTokenInfoArg{}}, tokens.StatusInvalidTokenID, nil
	}
	return []interface{}{fungibleTokenInfoArg{
		TokenInfo: d.tokenToInfoArg(token),
		Decimals:  int32(token.Decimals),
	}}, status, nil
}

func handleGetNonFungibleTokenInfo(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{nonFungibleTokenInfoArg{}}, status, err
	}
	serial := convert[int64](in[1])
	if serial <= 0 {
		return []interface{}{nonFungibleTokenInfoArg{}}, tokens.StatusInvalidNftSerialNumber, nil
	}
	nft, status, err := d.engine.NftInfo(token.ID, uint64(serial))
	if err != nil || !status.OK() {
		return []interface{}{nonFungibleTokenInfoArg{}}, status, err
	}
	return []interface{}{nonFungibleTokenInfoArg{
		TokenInfo:    d.tokenToInfoArg(token),
		SerialNumber: serial,
		OwnerId:      nft.Owner.Address(),
		CreationTime: int64(nft.MintTime),
		Metadata:     append([]byte(nil), nft.Metadata...),
		SpenderId:    spenderAddress(nft.Spender),
	}}, status, nil
}

func handleGetExpiryInfo(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.tokenView(in)
	if err != nil || !status.OK() {
		return []interface{}{expiryV2Arg{}}, status, err
	}
	return []interface{}{expiryV2Arg{
		Second:           int64(token.ExpirationTime),
		AutoRenewAccount: token.AutoRenewAccount.Address(),
		AutoRenewPeriod:  int64(token.AutoRenewPeriod),
	}}, status, nil
}

// Redirect surface. The token comes from the call routing; the caller acts
// on its own account.

func handleRedirectAssociate(d *Dispatcher, ctx *callContext, _ []interface{}) ([]interface{}, tokens.Status, error) {
	status, err := d.engine.Associate(ctx.caller, []types.EntityID{ctx.token})
	return nil, status, err
}

func handleRedirectDissociate(d *Dispatcher, ctx *callContext, _ []interface{}) ([]interface{}, tokens.Status, error) {
	status, err := d.engine.Dissociate(ctx.caller, []types.EntityID{ctx.token})
	return nil, status, err
}

func handleRedirectIsAssociated(d *Dispatcher, ctx *callContext, _ []interface{}) ([]interface{}, tokens.Status, error) {
	associated, status, err := d.engine.IsAssociated(ctx.token, ctx.caller)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{associated}, status, nil
}

func (d *Dispatcher) redirectToken(ctx *callContext) (*types.Token, tokens.Status, error) {
	return d.engine.GetToken(ctx.token)
}

func handleName(d *Dispatcher, ctx *callContext, _ []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.redirectToken(ctx)
	if err != nil || !status.OK() {
		return []interface{}{""}, status, err
	}
	return []interface{}{token.Name}, status, nil
}

func handleSymbol(d *Dispatcher, ctx *callContext, _ []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.redirectToken(ctx)
	if err != nil || !status.OK() {
		return []interface{}{""}, status, err
	}
	return []interface{}{token.Symbol}, status, nil
}

func handleDecimals(d *Dispatcher, ctx *callContext, _ []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.redirectToken(ctx)
	if err != nil || !status.OK() {
		return []interface{}{uint8(0)}, status, err
	}
	return []interface{}{uint8(token.Decimals)}, status, nil
}

func handleTotalSupply(d *Dispatcher, ctx *callContext, _ []interface{}) ([]interface{}, tokens.Status, error) {
	token, status, err := d.redirectToken(ctx)
	if err != nil || !status.OK() {
		return []interface{}{big.NewInt(0)}, status, err
	}
	return []interface{}{new(big.Int).SetUint64(token.TotalSupply)}, status, nil
}

func handleBalanceOf(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	account, ok := d.accountArg(in[0])
	if !ok {
		return []interface{}{big.NewInt(0)}, tokens.StatusInvalidAccountID, nil
	}
	balance, status, err := d.engine.BalanceOf(ctx.token, account)
	if err != nil || !status.OK() {
		return []interface{}{big.NewInt(0)}, status, err
	}
	return []interface{}{new(big.Int).SetUint64(balance)}, status, nil
}

func handleOwnerOf(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	serial, ok := serialArg(in[0])
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidNftSerialNumber, nil
	}
	owner, status, err := d.engine.OwnerOf(ctx.token, serial)
	if err != nil || !status.OK() {
		return []interface{}{common.Address{}}, status, err
	}
	return []interface{}{owner.Address()}, status, nil
}

func handleTokenURI(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	serial, ok := serialArg(in[0])
	if !ok {
		return []interface{}{""}, tokens.StatusInvalidNftSerialNumber, nil
	}
	nft, status, err := d.engine.NftInfo(ctx.token, serial)
	if err != nil || !status.OK() {
		return []interface{}{""}, status, err
	}
	return []interface{}{string(nft.Metadata)}, status, nil
}

func handleErcTransfer(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	to, ok := d.accountArg(in[0])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidTransferAccount, nil
	}
	amount, ok := serialArg(in[1])
	if !ok {
		return []interface{}{false}, tokens.StatusInsufficientTokenBalance, nil
	}
	status, err := d.engine.TransferToken(ctx.token, ctx.caller, to, amount, ctx.caller)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{true}, status, nil
}

// handleErcTransferFrom routes the third argument by token type: amount for
// fungibles, serial for uniques, matching the two ERC conventions.
func handleErcTransferFrom(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	from, ok := d.accountArg(in[0])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidTransferAccount, nil
	}
	to, ok := d.accountArg(in[1])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidTransferAccount, nil
	}
	value, ok := serialArg(in[2])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidNftSerialNumber, nil
	}
	token, status, err := d.redirectToken(ctx)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	if token.Type == types.NonFungibleUnique {
		status, err = d.engine.TransferNft(ctx.token, value, from, to, ctx.caller)
	} else {
		status, err = d.engine.TransferToken(ctx.token, from, to, value, ctx.caller)
	}
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{true}, status, nil
}

func handleErcApprove(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	spender, ok := d.accountArg(in[0])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidAccountID, nil
	}
	value, ok := serialArg(in[1])
	if !ok {
		return []interface{}{false}, tokens.StatusNegativeAllowanceAmount, nil
	}
	token, status, err := d.redirectToken(ctx)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	if token.Type == types.NonFungibleUnique {
		status, err = d.engine.ApproveNft(ctx.caller, spender, ctx.token, value)
	} else {
		status, err = d.engine.ApproveToken(ctx.caller, spender, ctx.token, value)
	}
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{true}, status, nil
}

func handleErcSetApprovalForAll(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	spender, ok := d.accountArg(in[0])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidAccountID, nil
	}
	enabled := convert[bool](in[1])
	status, err := d.engine.SetApprovalForAll(ctx.caller, spender, ctx.token, enabled)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{true}, status, nil
}

func handleErcAllowance(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	owner, ok := d.accountArg(in[0])
	if !ok {
		return []interface{}{big.NewInt(0)}, tokens.StatusInvalidAllowanceOwnerID, nil
	}
	spender, ok := d.accountArg(in[1])
	if !ok {
		return []interface{}{big.NewInt(0)}, tokens.StatusInvalidAccountID, nil
	}
	amount, status, err := d.engine.Allowance(owner, spender, ctx.token)
	if err != nil || !status.OK() {
		return []interface{}{big.NewInt(0)}, status, err
	}
	return []interface{}{new(big.Int).SetUint64(amount)}, status, nil
}

func handleErcGetApproved(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	serial, ok := serialArg(in[0])
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidNftSerialNumber, nil
	}
	spender, status, err := d.engine.GetApproved(ctx.token, serial)
	if err != nil || !status.OK() {
		return []interface{}{common.Address{}}, status, err
	}
	return []interface{}{spenderAddress(spender)}, status, nil
}

func handleErcIsApprovedForAll(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	owner, ok := d.accountArg(in[0])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidAllowanceOwnerID, nil
	}
	spender, ok := d.accountArg(in[1])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidAccountID, nil
	}
	approved, status, err := d.engine.IsApprovedForAll(owner, spender, ctx.token)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{approved}, status, nil
}
