package precompile

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"tokennet/core/types"
	"tokennet/native/tokens"
)

// accountArg resolves an address argument to an account id, alias included.
func (d *Dispatcher) accountArg(v interface{}) (types.EntityID, bool) {
	return d.entityID(convert[common.Address](v))
}

// tokenArg resolves an address argument to a token id. Tokens never carry
// aliases, so anything outside the long-zero form is rejected.
func tokenArg(v interface{}) (types.EntityID, bool) {
	return types.EntityIDFromAddress(convert[common.Address](v))
}

func serialArg(v interface{}) (uint64, bool) {
	return amountFromBig(convert[*big.Int](v))
}

// Associations.

func handleAssociateToken(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	account, ok := d.accountArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	token, ok := tokenArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	status, err := d.engine.Associate(account, []types.EntityID{token})
	return nil, status, err
}

func handleAssociateTokens(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	account, tokenIDs, status := d.accountAndTokens(in)
	if !status.OK() {
		return nil, status, nil
	}
	status, err := d.engine.Associate(account, tokenIDs)
	return nil, status, err
}

func handleDissociateToken(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	account, ok := d.accountArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	token, ok := tokenArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	status, err := d.engine.Dissociate(account, []types.EntityID{token})
	return nil, status, err
}

func handleDissociateTokens(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	account, tokenIDs, status := d.accountAndTokens(in)
	if !status.OK() {
		return nil, status, nil
	}
	status, err := d.engine.Dissociate(account, tokenIDs)
	return nil, status, err
}

func (d *Dispatcher) accountAndTokens(in []interface{}) (types.EntityID, []types.EntityID, tokens.Status) {
	account, ok := d.accountArg(in[0])
	if !ok {
		return types.EntityID{}, nil, tokens.StatusInvalidAccountID
	}
	addrs := convert[[]common.Address](in[1])
	tokenIDs := make([]types.EntityID, len(addrs))
	for i, addr := range addrs {
		id, ok := types.EntityIDFromAddress(addr)
		if !ok {
			return types.EntityID{}, nil, tokens.StatusInvalidTokenID
		}
		tokenIDs[i] = id
	}
	return account, tokenIDs, tokens.StatusOK
}

// Relation and token flags.

func (d *Dispatcher) tokenAccountOp(ctx *callContext, in []interface{}, op func(token, account types.EntityID, signers tokens.KeySet) (tokens.Status, error)) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	account, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	status, err := op(token, account, ctx.signers())
	return nil, status, err
}

func handleFreezeToken(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.tokenAccountOp(ctx, in, d.engine.Freeze)
}

func handleUnfreezeToken(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.tokenAccountOp(ctx, in, d.engine.Unfreeze)
}

func handleGrantKyc(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.tokenAccountOp(ctx, in, d.engine.GrantKyc)
}

func handleRevokeKyc(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.tokenAccountOp(ctx, in, d.engine.RevokeKyc)
}

func handlePauseToken(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	status, err := d.engine.Pause(token, ctx.signers())
	return nil, status, err
}

func handleUnpauseToken(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	status, err := d.engine.Unpause(token, ctx.signers())
	return nil, status, err
}

// Supply.

func (d *Dispatcher) mint(ctx *callContext, token types.EntityID, amount uint64, metadata [][]byte) (*tokens.MintResult, tokens.Status, error) {
	return d.engine.Mint(token, amount, metadata, ctx.signers())
}

func handleMintV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return []interface{}{uint64(0), []int64{}}, tokens.StatusInvalidTokenID, nil
	}
	amount := convert[uint64](in[1])
	metadata := convert[[][]byte](in[2])
	result, status, err := d.mint(ctx, token, amount, metadata)
	if err != nil || !status.OK() {
		return []interface{}{uint64(0), []int64{}}, status, err
	}
	return []interface{}{result.NewTotalSupply, int64Serials(result.Serials)}, status, nil
}

func handleMintV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return []interface{}{int64(0), []int64{}}, tokens.StatusInvalidTokenID, nil
	}
	amount, ok := amountFromInt64(convert[int64](in[1]))
	if !ok {
		return []interface{}{int64(0), []int64{}}, tokens.StatusInvalidTokenMintAmount, nil
	}
	metadata := convert[[][]byte](in[2])
	result, status, err := d.mint(ctx, token, amount, metadata)
	if err != nil || !status.OK() {
		return []interface{}{int64(0), []int64{}}, status, err
	}
	return []interface{}{int64(result.NewTotalSupply), int64Serials(result.Serials)}, status, nil
}

func handleBurnV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return []interface{}{uint64(0)}, tokens.StatusInvalidTokenID, nil
	}
	amount := convert[uint64](in[1])
	serials, ok := serialsFromInt64(convert[[]int64](in[2]))
	if !ok {
		return []interface{}{uint64(0)}, tokens.StatusInvalidNftSerialNumber, nil
	}
	result, status, err := d.engine.Burn(token, amount, serials, ctx.signers())
	if err != nil || !status.OK() {
		return []interface{}{uint64(0)}, status, err
	}
	return []interface{}{result.NewTotalSupply}, status, nil
}

func handleBurnV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return []interface{}{int64(0)}, tokens.StatusInvalidTokenID, nil
	}
	amount, ok := amountFromInt64(convert[int64](in[1]))
	if !ok {
		return []interface{}{int64(0)}, tokens.StatusInvalidTokenBurnAmount, nil
	}
	serials, ok := serialsFromInt64(convert[[]int64](in[2]))
	if !ok {
		return []interface{}{int64(0)}, tokens.StatusInvalidNftSerialNumber, nil
	}
	result, status, err := d.engine.Burn(token, amount, serials, ctx.signers())
	if err != nil || !status.OK() {
		return []interface{}{int64(0)}, status, err
	}
	return []interface{}{int64(result.NewTotalSupply)}, status, nil
}

func int64Serials(serials []uint64) []int64 {
	out := make([]int64, len(serials))
	for i, s := range serials {
		out[i] = int64(s)
	}
	return out
}

func handleWipeV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	account, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	amount := uint64(convert[uint32](in[2]))
	status, err := d.engine.Wipe(token, account, amount, nil, ctx.signers())
	return nil, status, err
}

func handleWipeV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	account, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	amount, ok := amountFromInt64(convert[int64](in[2]))
	if !ok {
		return nil, tokens.StatusInvalidWipingAmount, nil
	}
	status, err := d.engine.Wipe(token, account, amount, nil, ctx.signers())
	return nil, status, err
}

func handleWipeNft(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	account, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	serials, ok := serialsFromInt64(convert[[]int64](in[2]))
	if !ok {
		return nil, tokens.StatusInvalidNftSerialNumber, nil
	}
	status, err := d.engine.Wipe(token, account, 0, serials, ctx.signers())
	return nil, status, err
}

// Transfers.

func handleTransferToken(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	from, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidTransferAccount, nil
	}
	to, ok := d.accountArg(in[2])
	if !ok {
		return nil, tokens.StatusInvalidTransferAccount, nil
	}
	amount, ok := amountFromInt64(convert[int64](in[3]))
	if !ok {
		return nil, tokens.StatusInvalidTransferAccount, nil
	}
	status, err := d.engine.TransferToken(token, from, to, amount, ctx.caller)
	return nil, status, err
}

// handleTransferTokens applies a signed adjustment list for one token, the
// classic zero-sum batch shape.
func handleTransferTokens(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	addrs := convert[[]common.Address](in[1])
	amounts := convert[[]int64](in[2])
	if len(addrs) != len(amounts) {
		return nil, tokens.StatusTransfersNotZeroSum, nil
	}
	list := tokens.TokenTransferList{TokenID: token}
	for i, addr := range addrs {
		account, ok := d.entityID(addr)
		if !ok {
			return nil, tokens.StatusInvalidTransferAccount, nil
		}
		list.Adjustments = append(list.Adjustments, tokens.Adjustment{
			Account:    account,
			Amount:     amounts[i],
			IsApproval: amounts[i] < 0 && account != ctx.caller,
		})
	}
	status, err := d.engine.Transfer([]tokens.TokenTransferList{list}, ctx.caller)
	return nil, status, err
}

func handleTransferNft(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	from, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidTransferAccount, nil
	}
	to, ok := d.accountArg(in[2])
	if !ok {
		return nil, tokens.StatusInvalidTransferAccount, nil
	}
	serial := convert[int64](in[3])
	if serial <= 0 {
		return nil, tokens.StatusInvalidNftSerialNumber, nil
	}
	status, err := d.engine.TransferNft(token, uint64(serial), from, to, ctx.caller)
	return nil, status, err
}

func handleTransferNfts(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	senders := convert[[]common.Address](in[1])
	receivers := convert[[]common.Address](in[2])
	serials := convert[[]int64](in[3])
	if len(senders) != len(receivers) || len(senders) != len(serials) {
		return nil, tokens.StatusInvalidNftID, nil
	}
	list := tokens.TokenTransferList{TokenID: token}
	for i := range senders {
		from, ok := d.entityID(senders[i])
		if !ok {
			return nil, tokens.StatusInvalidTransferAccount, nil
		}
		to, ok := d.entityID(receivers[i])
		if !ok {
			return nil, tokens.StatusInvalidTransferAccount, nil
		}
		if serials[i] <= 0 {
			return nil, tokens.StatusInvalidNftSerialNumber, nil
		}
		list.NftExchanges = append(list.NftExchanges, tokens.NftExchange{
			Serial:     uint64(serials[i]),
			From:       from,
			To:         to,
			IsApproval: from != ctx.caller,
		})
	}
	status, err := d.engine.Transfer([]tokens.TokenTransferList{list}, ctx.caller)
	return nil, status, err
}

func handleCryptoTransferV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	lists := convert[[]tokenTransferListV1Arg](in[0])
	engineLists := make([]tokens.TokenTransferList, 0, len(lists))
	for _, list := range lists {
		token, ok := types.EntityIDFromAddress(list.Token)
		if !ok {
			return nil, tokens.StatusInvalidTokenID, nil
		}
		out := tokens.TokenTransferList{TokenID: token}
		for _, transfer := range list.Transfers {
			account, ok := d.entityID(transfer.AccountID)
			if !ok {
				return nil, tokens.StatusInvalidTransferAccount, nil
			}
			out.Adjustments = append(out.Adjustments, tokens.Adjustment{
				Account:    account,
				Amount:     transfer.Amount,
				IsApproval: transfer.Amount < 0 && account != ctx.caller,
			})
		}
		for _, nft := range list.NftTransfers {
			exchange, status := d.nftExchange(ctx, nft.SenderAccountID, nft.ReceiverAccountID, nft.SerialNumber, false)
			if !status.OK() {
				return nil, status, nil
			}
			out.NftExchanges = append(out.NftExchanges, exchange)
		}
		engineLists = append(engineLists, out)
	}
	status, err := d.engine.Transfer(engineLists, ctx.caller)
	return nil, status, err
}

func handleCryptoTransferV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	hbar := convert[transferListArg](in[0])
	if len(hbar.Transfers) > 0 {
		// Plain-currency movement is outside the token ledger.
		return nil, tokens.StatusNotSupported, nil
	}
	lists := convert[[]tokenTransferListArg](in[1])
	engineLists := make([]tokens.TokenTransferList, 0, len(lists))
	for _, list := range lists {
		token, ok := types.EntityIDFromAddress(list.Token)
		if !ok {
			return nil, tokens.StatusInvalidTokenID, nil
		}
		out := tokens.TokenTransferList{TokenID: token}
		for _, transfer := range list.Transfers {
			account, ok := d.entityID(transfer.AccountID)
			if !ok {
				return nil, tokens.StatusInvalidTransferAccount, nil
			}
			out.Adjustments = append(out.Adjustments, tokens.Adjustment{
				Account:    account,
				Amount:     transfer.Amount,
				IsApproval: transfer.IsApproval,
			})
		}
		for _, nft := range list.NftTransfers {
			exchange, status := d.nftExchange(ctx, nft.SenderAccountID, nft.ReceiverAccountID, nft.SerialNumber, nft.IsApproval)
			if !status.OK() {
				return nil, status, nil
			}
			out.NftExchanges = append(out.NftExchanges, exchange)
		}
		engineLists = append(engineLists, out)
	}
	status, err := d.engine.Transfer(engineLists, ctx.caller)
	return nil, status, err
}

func (d *Dispatcher) nftExchange(ctx *callContext, sender, receiver common.Address, serial int64, approval bool) (tokens.NftExchange, tokens.Status) {
	from, ok := d.entityID(sender)
	if !ok {
		return tokens.NftExchange{}, tokens.StatusInvalidTransferAccount
	}
	to, ok := d.entityID(receiver)
	if !ok {
		return tokens.NftExchange{}, tokens.StatusInvalidTransferAccount
	}
	if serial <= 0 {
		return tokens.NftExchange{}, tokens.StatusInvalidNftSerialNumber
	}
	if !approval {
		approval = from != ctx.caller
	}
	return tokens.NftExchange{Serial: uint64(serial), From: from, To: to, IsApproval: approval}, tokens.StatusOK
}

// Allowances, HAPI shapes. The owner is always the caller: contracts grant
// from their own account.

func handleApprove(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	spender, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	amount, ok := serialArg(in[2])
	if !ok {
		return nil, tokens.StatusNegativeAllowanceAmount, nil
	}
	status, err := d.engine.ApproveToken(ctx.caller, spender, token, amount)
	return nil, status, err
}

func handleApproveNft(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	spender, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	serial, ok := serialArg(in[2])
	if !ok {
		return nil, tokens.StatusInvalidNftSerialNumber, nil
	}
	status, err := d.engine.ApproveNft(ctx.caller, spender, token, serial)
	return nil, status, err
}

func handleSetApprovalForAll(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	spender, ok := d.accountArg(in[1])
	if !ok {
		return nil, tokens.StatusInvalidAccountID, nil
	}
	enabled := convert[bool](in[2])
	status, err := d.engine.SetApprovalForAll(ctx.caller, spender, token, enabled)
	return nil, status, err
}

func handleAllowance(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return []interface{}{big.NewInt(0)}, tokens.StatusInvalidTokenID, nil
	}
	owner, ok := d.accountArg(in[1])
	if !ok {
		return []interface{}{big.NewInt(0)}, tokens.StatusInvalidAllowanceOwnerID, nil
	}
	spender, ok := d.accountArg(in[2])
	if !ok {
		return []interface{}{big.NewInt(0)}, tokens.StatusInvalidAccountID, nil
	}
	amount, status, err := d.engine.Allowance(owner, spender, token)
	if err != nil || !status.OK() {
		return []interface{}{big.NewInt(0)}, status, err
	}
	return []interface{}{new(big.Int).SetUint64(amount)}, status, nil
}

func handleGetApproved(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidTokenID, nil
	}
	serial, ok := serialArg(in[1])
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidNftSerialNumber, nil
	}
	spender, status, err := d.engine.GetApproved(token, serial)
	if err != nil || !status.OK() {
		return []interface{}{common.Address{}}, status, err
	}
	return []interface{}{spenderAddress(spender)}, status, nil
}

func handleIsApprovedForAll(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidTokenID, nil
	}
	owner, ok := d.accountArg(in[1])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidAllowanceOwnerID, nil
	}
	spender, ok := d.accountArg(in[2])
	if !ok {
		return []interface{}{false}, tokens.StatusInvalidAccountID, nil
	}
	approved, status, err := d.engine.IsApprovedForAll(owner, spender, token)
	if err != nil || !status.OK() {
		return []interface{}{false}, status, err
	}
	return []interface{}{approved}, status, nil
}

func spenderAddress(id types.EntityID) common.Address {
	if id.IsZero() {
		return common.Address{}
	}
	return id.Address()
}

// Creation. Each version adapter normalises into tokenDef and the shared
// create path; business rules live in the engine only.

func (d *Dispatcher) create(ctx *callContext, def tokenDef, tokenType types.TokenType, decimals uint32, initialSupply uint64, fees []types.CustomFee) ([]interface{}, tokens.Status, error) {
	definition, status := d.definitionFromDef(def, tokenType, ctx.callerKey)
	if !status.OK() {
		return []interface{}{common.Address{}}, status, nil
	}
	definition.Decimals = decimals
	definition.InitialSupply = initialSupply
	definition.CustomFees = fees
	id, status, err := d.engine.CreateToken(definition)
	if err != nil || !status.OK() {
		return []interface{}{common.Address{}}, status, err
	}
	return []interface{}{id.Address()}, status, nil
}

func (d *Dispatcher) createFungibleV1(ctx *callContext, in []interface{}, fees []types.CustomFee) ([]interface{}, tokens.Status, error) {
	def := normalizeTokenV1(convert[hederaTokenV1Arg](in[0]))
	supply, ok := amountFromBig(convert[*big.Int](in[1]))
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidInitialSupply, nil
	}
	decimals, ok := amountFromBig(convert[*big.Int](in[2]))
	if !ok || decimals > uint64(^uint32(0)) {
		return []interface{}{common.Address{}}, tokens.StatusInvalidTokenDecimals, nil
	}
	return d.create(ctx, def, types.FungibleCommon, uint32(decimals), supply, fees)
}

func (d *Dispatcher) createFungibleV2(ctx *callContext, in []interface{}, fees []types.CustomFee) ([]interface{}, tokens.Status, error) {
	def, ok := normalizeTokenV2(convert[hederaTokenV2Arg](in[0]))
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidSupplyType, nil
	}
	return d.create(ctx, def, types.FungibleCommon, convert[uint32](in[2]), convert[uint64](in[1]), fees)
}

func (d *Dispatcher) createFungibleV3(ctx *callContext, in []interface{}, fees []types.CustomFee) ([]interface{}, tokens.Status, error) {
	def, ok := normalizeTokenV3(convert[hederaTokenV3Arg](in[0]))
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidSupplyType, nil
	}
	supply, ok := amountFromInt64(convert[int64](in[1]))
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidInitialSupply, nil
	}
	decimals := convert[int32](in[2])
	if decimals < 0 {
		return []interface{}{common.Address{}}, tokens.StatusInvalidTokenDecimals, nil
	}
	return d.create(ctx, def, types.FungibleCommon, uint32(decimals), supply, fees)
}

func handleCreateFungibleV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.createFungibleV1(ctx, in, nil)
}

func handleCreateFungibleV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.createFungibleV2(ctx, in, nil)
}

func handleCreateFungibleV3(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.createFungibleV3(ctx, in, nil)
}

func (d *Dispatcher) fungibleFees(fixedIn, fractionalIn interface{}) ([]types.CustomFee, tokens.Status) {
	return d.customFeesFromArgs(convert[[]fixedFeeArg](fixedIn), convert[[]fractionalFeeArg](fractionalIn), nil)
}

func handleCreateFungibleFeesV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	fees, status := d.fungibleFees(in[3], in[4])
	if !status.OK() {
		return []interface{}{common.Address{}}, status, nil
	}
	return d.createFungibleV1(ctx, in, fees)
}

func handleCreateFungibleFeesV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	fees, status := d.fungibleFees(in[3], in[4])
	if !status.OK() {
		return []interface{}{common.Address{}}, status, nil
	}
	return d.createFungibleV2(ctx, in, fees)
}

func handleCreateFungibleFeesV3(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	fees, status := d.fungibleFees(in[3], in[4])
	if !status.OK() {
		return []interface{}{common.Address{}}, status, nil
	}
	return d.createFungibleV3(ctx, in, fees)
}

func handleCreateNonFungibleV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	def := normalizeTokenV1(convert[hederaTokenV1Arg](in[0]))
	return d.create(ctx, def, types.NonFungibleUnique, 0, 0, nil)
}

func handleCreateNonFungibleV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	def, ok := normalizeTokenV2(convert[hederaTokenV2Arg](in[0]))
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidSupplyType, nil
	}
	return d.create(ctx, def, types.NonFungibleUnique, 0, 0, nil)
}

func handleCreateNonFungibleV3(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	def, ok := normalizeTokenV3(convert[hederaTokenV3Arg](in[0]))
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidSupplyType, nil
	}
	return d.create(ctx, def, types.NonFungibleUnique, 0, 0, nil)
}

func (d *Dispatcher) nonFungibleFees(fixedIn, royaltyIn interface{}) ([]types.CustomFee, tokens.Status) {
	return d.customFeesFromArgs(convert[[]fixedFeeArg](fixedIn), nil, convert[[]royaltyFeeArg](royaltyIn))
}

func handleCreateNonFungibleFeesV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	fees, status := d.nonFungibleFees(in[1], in[2])
	if !status.OK() {
		return []interface{}{common.Address{}}, status, nil
	}
	def := normalizeTokenV1(convert[hederaTokenV1Arg](in[0]))
	return d.create(ctx, def, types.NonFungibleUnique, 0, 0, fees)
}

func handleCreateNonFungibleFeesV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	fees, status := d.nonFungibleFees(in[1], in[2])
	if !status.OK() {
		return []interface{}{common.Address{}}, status, nil
	}
	def, ok := normalizeTokenV2(convert[hederaTokenV2Arg](in[0]))
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidSupplyType, nil
	}
	return d.create(ctx, def, types.NonFungibleUnique, 0, 0, fees)
}

func handleCreateNonFungibleFeesV3(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	fees, status := d.nonFungibleFees(in[1], in[2])
	if !status.OK() {
		return []interface{}{common.Address{}}, status, nil
	}
	def, ok := normalizeTokenV3(convert[hederaTokenV3Arg](in[0]))
	if !ok {
		return []interface{}{common.Address{}}, tokens.StatusInvalidSupplyType, nil
	}
	return d.create(ctx, def, types.NonFungibleUnique, 0, 0, fees)
}

// Update and delete.

func (d *Dispatcher) updateFromDef(ctx *callContext, in []interface{}, def tokenDef) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	update := &tokens.TokenUpdate{}
	if def.Name != "" {
		update.Name = &def.Name
	}
	if def.Symbol != "" {
		update.Symbol = &def.Symbol
	}
	update.Memo = &def.Memo
	if def.Treasury != (common.Address{}) {
		treasury, ok := d.entityID(def.Treasury)
		if !ok {
			return nil, tokens.StatusInvalidTreasuryAccount, nil
		}
		update.Treasury = &treasury
	}
	for _, entry := range def.Keys {
		if entry.KeyType == nil || !entry.KeyType.IsUint64() {
			return nil, tokens.StatusInvalidAdminKey, nil
		}
		key := decodeKeyValue(entry.Key, ctx.callerKey)
		bits := entry.KeyType.Uint64()
		assign := func(target **types.Key) {
			cloned := key.Clone()
			*target = &cloned
		}
		if bits&keyBitAdmin != 0 {
			assign(&update.AdminKey)
		}
		if bits&keyBitKyc != 0 {
			assign(&update.KycKey)
		}
		if bits&keyBitFreeze != 0 {
			assign(&update.FreezeKey)
		}
		if bits&keyBitWipe != 0 {
			assign(&update.WipeKey)
		}
		if bits&keyBitSupply != 0 {
			assign(&update.SupplyKey)
		}
		if bits&keyBitFeeSchedule != 0 {
			assign(&update.FeeScheduleKey)
		}
		if bits&keyBitPause != 0 {
			assign(&update.PauseKey)
		}
		if bits&keyBitMetadata != 0 {
			assign(&update.MetadataKey)
		}
	}
	if len(def.Metadata) > 0 {
		update.Metadata = &def.Metadata
	}
	status, err := d.engine.UpdateToken(token, update, ctx.signers())
	return nil, status, err
}

func handleUpdateTokenV1(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	return d.updateFromDef(ctx, in, normalizeTokenV1(convert[hederaTokenV1Arg](in[1])))
}

func handleUpdateTokenV2(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	def, ok := normalizeTokenV2(convert[hederaTokenV2Arg](in[1]))
	if !ok {
		return nil, tokens.StatusInvalidSupplyType, nil
	}
	return d.updateFromDef(ctx, in, def)
}

func handleUpdateTokenV3(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	def, ok := normalizeTokenV3(convert[hederaTokenV3Arg](in[1]))
	if !ok {
		return nil, tokens.StatusInvalidSupplyType, nil
	}
	return d.updateFromDef(ctx, in, def)
}

func (d *Dispatcher) updateExpiry(in []interface{}, second, period uint64, renewAccount common.Address) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	update := &tokens.TokenExpiryUpdate{ExpirationTime: second, AutoRenewPeriod: period}
	if renewAccount != (common.Address{}) {
		renew, ok := d.entityID(renewAccount)
		if !ok {
			return nil, tokens.StatusInvalidAutoRenewAccount, nil
		}
		update.AutoRenewAccount = renew
	}
	status, err := d.engine.UpdateTokenExpiry(token, update)
	return nil, status, err
}

func handleUpdateExpiryV1(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	expiry := convert[expiryV1Arg](in[1])
	return d.updateExpiry(in, uint64(expiry.Second), uint64(expiry.AutoRenewPeriod), expiry.AutoRenewAccount)
}

func handleUpdateExpiryV2(d *Dispatcher, _ *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	expiry := convert[expiryV2Arg](in[1])
	if expiry.Second < 0 || expiry.AutoRenewPeriod < 0 {
		return nil, tokens.StatusInvalidExpirationTime, nil
	}
	return d.updateExpiry(in, uint64(expiry.Second), uint64(expiry.AutoRenewPeriod), expiry.AutoRenewAccount)
}

func handleDeleteToken(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	token, ok := tokenArg(in[0])
	if !ok {
		return nil, tokens.StatusInvalidTokenID, nil
	}
	status, err := d.engine.DeleteToken(token, ctx.signers())
	return nil, status, err
}

// Airdrops.

func handleAirdropTokens(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	args := convert[[]tokenTransferListArg](in[0])
	lists := make([]tokens.AirdropList, 0, len(args))
	for _, list := range args {
		token, ok := types.EntityIDFromAddress(list.Token)
		if !ok {
			return nil, tokens.StatusInvalidTokenID, nil
		}
		drops := make([]tokens.AirdropTransfer, 0, len(list.Transfers)+len(list.NftTransfers))
		for _, transfer := range list.Transfers {
			// Airdrop lists carry credits only; the matching debit is
			// implicit against the caller.
			if transfer.Amount <= 0 {
				continue
			}
			receiver, ok := d.entityID(transfer.AccountID)
			if !ok {
				return nil, tokens.StatusInvalidTransferAccount, nil
			}
			drops = append(drops, tokens.AirdropTransfer{Receiver: receiver, Amount: uint64(transfer.Amount)})
		}
		for _, nft := range list.NftTransfers {
			receiver, ok := d.entityID(nft.ReceiverAccountID)
			if !ok {
				return nil, tokens.StatusInvalidTransferAccount, nil
			}
			if nft.SerialNumber <= 0 {
				return nil, tokens.StatusInvalidNftSerialNumber, nil
			}
			drops = append(drops, tokens.AirdropTransfer{Receiver: receiver, Serial: uint64(nft.SerialNumber)})
		}
		lists = append(lists, tokens.AirdropList{TokenID: token, Drops: drops})
	}
	// One engine call keeps a multi-list airdrop all-or-nothing.
	status, err := d.engine.AirdropLists(ctx.caller, lists)
	return nil, status, err
}

func (d *Dispatcher) airdropIDs(in []interface{}) ([]types.PendingAirdropID, tokens.Status) {
	args := convert[[]pendingAirdropArg](in[0])
	ids := make([]types.PendingAirdropID, 0, len(args))
	for _, arg := range args {
		sender, ok := d.entityID(arg.Sender)
		if !ok {
			return nil, tokens.StatusInvalidPendingAirdropID
		}
		receiver, ok := d.entityID(arg.Receiver)
		if !ok {
			return nil, tokens.StatusInvalidPendingAirdropID
		}
		token, ok := types.EntityIDFromAddress(arg.Token)
		if !ok {
			return nil, tokens.StatusInvalidPendingAirdropID
		}
		if arg.Serial < 0 {
			return nil, tokens.StatusInvalidPendingAirdropID
		}
		ids = append(ids, types.PendingAirdropID{
			Sender:   sender,
			Receiver: receiver,
			TokenID:  token,
			Serial:   uint64(arg.Serial),
		})
	}
	return ids, tokens.StatusOK
}

func handleClaimAirdrops(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	ids, status := d.airdropIDs(in)
	if !status.OK() {
		return nil, status, nil
	}
	status, err := d.engine.ClaimAirdrops(ids, ctx.caller)
	return nil, status, err
}

func handleCancelAirdrops(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error) {
	ids, status := d.airdropIDs(in)
	if !status.OK() {
		return nil, status, nil
	}
	status, err := d.engine.CancelAirdrops(ids, ctx.caller)
	return nil, status, err
}
