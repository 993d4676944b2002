package precompile

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"

	"tokennet/native/tokens"
)

type encoding int

const (
	// encodeHAPI leads every return tuple with an int64 response code and
	// never reverts on an engine status.
	encodeHAPI encoding = iota
	// encodeERC returns the bare value and reverts on any non-OK status.
	encodeERC
)

const (
	baseGas     uint64 = 10_000
	viewGas     uint64 = 4_000
	createGas   uint64 = 100_000
	redirectGas uint64 = 12_000
)

type handlerFunc func(d *Dispatcher, ctx *callContext, in []interface{}) ([]interface{}, tokens.Status, error)

type selector struct {
	name     string
	id       [4]byte
	args     abi.Arguments
	returns  abi.Arguments
	encoding encoding
	gas      uint64
	handler  handlerFunc
}

var (
	directSelectors   = map[[4]byte]*selector{}
	redirectSelectors = map[[4]byte]*selector{}

	redirectArgs       = arguments(typeAddress, typeBytes)
	redirectSelectorID = selectorID("redirectForToken(address,bytes)")
)

func signatureOf(name string, args abi.Arguments) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Type.String()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

func selectorID(sig string) [4]byte {
	var id [4]byte
	copy(id[:], crypto.Keccak256([]byte(sig))[:4])
	return id
}

func register(table map[[4]byte]*selector, name string, enc encoding, gas uint64, args, rets abi.Arguments, handler handlerFunc) {
	sel := &selector{
		name:     signatureOf(name, args),
		args:     args,
		encoding: enc,
		gas:      gas,
		handler:  handler,
	}
	if enc == encodeHAPI {
		sel.returns = append(arguments(typeInt64), rets...)
	} else {
		sel.returns = rets
	}
	sel.id = selectorID(sel.name)
	if _, dup := table[sel.id]; dup {
		panic(fmt.Sprintf("precompile: selector collision for %s", sel.name))
	}
	table[sel.id] = sel
}

func direct(name string, enc encoding, gas uint64, args, rets abi.Arguments, handler handlerFunc) {
	register(directSelectors, name, enc, gas, args, rets, handler)
}

func redirected(name string, enc encoding, gas uint64, args, rets abi.Arguments, handler handlerFunc) {
	register(redirectSelectors, name, enc, gas, args, rets, handler)
}

func init() {
	// Associations.
	direct("associateToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress), nil, handleAssociateToken)
	direct("associateTokens", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddressSlice), nil, handleAssociateTokens)
	direct("dissociateToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress), nil, handleDissociateToken)
	direct("dissociateTokens", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddressSlice), nil, handleDissociateTokens)

	// Relation and token flags.
	direct("freezeToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress), nil, handleFreezeToken)
	direct("unfreezeToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress), nil, handleUnfreezeToken)
	direct("grantTokenKyc", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress), nil, handleGrantKyc)
	direct("revokeTokenKyc", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress), nil, handleRevokeKyc)
	direct("pauseToken", encodeHAPI, baseGas,
		arguments(typeAddress), nil, handlePauseToken)
	direct("unpauseToken", encodeHAPI, baseGas,
		arguments(typeAddress), nil, handleUnpauseToken)

	// Supply. The uint64/uint256 shapes are the BigInteger-width originals;
	// the int64 shapes are their native-width successors. All normalise into
	// the same engine call.
	direct("mintToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeUint64, typeBytesSlice),
		arguments(typeUint64, typeInt64Slice), handleMintV1)
	direct("mintToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeInt64, typeBytesSlice),
		arguments(typeInt64, typeInt64Slice), handleMintV2)
	direct("burnToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeUint64, typeInt64Slice),
		arguments(typeUint64), handleBurnV1)
	direct("burnToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeInt64, typeInt64Slice),
		arguments(typeInt64), handleBurnV2)
	direct("wipeTokenAccount", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress, typeUint32), nil, handleWipeV1)
	direct("wipeTokenAccount", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress, typeInt64), nil, handleWipeV2)
	direct("wipeTokenAccountNFT", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress, typeInt64Slice), nil, handleWipeNft)

	// Transfers.
	direct("transferToken", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress, typeAddress, typeInt64), nil, handleTransferToken)
	direct("transferTokens", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddressSlice, typeInt64Slice), nil, handleTransferTokens)
	direct("transferNFT", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress, typeAddress, typeInt64), nil, handleTransferNft)
	direct("transferNFTs", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddressSlice, typeAddressSlice, typeInt64Slice), nil, handleTransferNfts)
	direct("cryptoTransfer", encodeHAPI, baseGas,
		arguments(typeTokenTransferListV1s), nil, handleCryptoTransferV1)
	direct("cryptoTransfer", encodeHAPI, baseGas,
		arguments(typeTransferList, typeTokenTransferLists), nil, handleCryptoTransferV2)

	// Allowances, HAPI shapes.
	direct("approve", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress, typeUint256), nil, handleApprove)
	direct("approveNFT", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress, typeUint256), nil, handleApproveNft)
	direct("setApprovalForAll", encodeHAPI, baseGas,
		arguments(typeAddress, typeAddress, typeBool), nil, handleSetApprovalForAll)
	direct("allowance", encodeHAPI, viewGas,
		arguments(typeAddress, typeAddress, typeAddress),
		arguments(typeUint256), handleAllowance)
	direct("getApproved", encodeHAPI, viewGas,
		arguments(typeAddress, typeUint256),
		arguments(typeAddress), handleGetApproved)
	direct("isApprovedForAll", encodeHAPI, viewGas,
		arguments(typeAddress, typeAddress, typeAddress),
		arguments(typeBool), handleIsApprovedForAll)

	// Creation.
	direct("createFungibleToken", encodeHAPI, createGas,
		arguments(typeHederaTokenV1, typeUint256, typeUint256),
		arguments(typeAddress), handleCreateFungibleV1)
	direct("createFungibleToken", encodeHAPI, createGas,
		arguments(typeHederaTokenV2, typeUint64, typeUint32),
		arguments(typeAddress), handleCreateFungibleV2)
	direct("createFungibleToken", encodeHAPI, createGas,
		arguments(typeHederaTokenV3, typeInt64, typeInt32),
		arguments(typeAddress), handleCreateFungibleV3)
	direct("createFungibleTokenWithCustomFees", encodeHAPI, createGas,
		arguments(typeHederaTokenV1, typeUint256, typeUint256, typeFixedFeeSlice, typeFractionalFeeSlice),
		arguments(typeAddress), handleCreateFungibleFeesV1)
	direct("createFungibleTokenWithCustomFees", encodeHAPI, createGas,
		arguments(typeHederaTokenV2, typeUint64, typeUint32, typeFixedFeeSlice, typeFractionalFeeSlice),
		arguments(typeAddress), handleCreateFungibleFeesV2)
	direct("createFungibleTokenWithCustomFees", encodeHAPI, createGas,
		arguments(typeHederaTokenV3, typeInt64, typeInt32, typeFixedFeeSlice, typeFractionalFeeSlice),
		arguments(typeAddress), handleCreateFungibleFeesV3)
	direct("createNonFungibleToken", encodeHAPI, createGas,
		arguments(typeHederaTokenV1),
		arguments(typeAddress), handleCreateNonFungibleV1)
	direct("createNonFungibleToken", encodeHAPI, createGas,
		arguments(typeHederaTokenV2),
		arguments(typeAddress), handleCreateNonFungibleV2)
	direct("createNonFungibleToken", encodeHAPI, createGas,
		arguments(typeHederaTokenV3),
		arguments(typeAddress), handleCreateNonFungibleV3)
	direct("createNonFungibleTokenWithCustomFees", encodeHAPI, createGas,
		arguments(typeHederaTokenV1, typeFixedFeeSlice, typeRoyaltyFeeSlice),
		arguments(typeAddress), handleCreateNonFungibleFeesV1)
	direct("createNonFungibleTokenWithCustomFees", encodeHAPI, createGas,
		arguments(typeHederaTokenV2, typeFixedFeeSlice, typeRoyaltyFeeSlice),
		arguments(typeAddress), handleCreateNonFungibleFeesV2)
	direct("createNonFungibleTokenWithCustomFees", encodeHAPI, createGas,
		arguments(typeHederaTokenV3, typeFixedFeeSlice, typeRoyaltyFeeSlice),
		arguments(typeAddress), handleCreateNonFungibleFeesV3)

	// Update and delete.
	direct("updateTokenInfo", encodeHAPI, baseGas,
		arguments(typeAddress, typeHederaTokenV1), nil, handleUpdateTokenV1)
	direct("updateTokenInfo", encodeHAPI, baseGas,
		arguments(typeAddress, typeHederaTokenV2), nil, handleUpdateTokenV2)
	direct("updateTokenInfo", encodeHAPI, baseGas,
		arguments(typeAddress, typeHederaTokenV3), nil, handleUpdateTokenV3)
	direct("updateTokenExpiryInfo", encodeHAPI, baseGas,
		arguments(typeAddress, typeExpiryV1), nil, handleUpdateExpiryV1)
	direct("updateTokenExpiryInfo", encodeHAPI, baseGas,
		arguments(typeAddress, typeExpiryV2), nil, handleUpdateExpiryV2)
	direct("deleteToken", encodeHAPI, baseGas,
		arguments(typeAddress), nil, handleDeleteToken)

	// Airdrops.
	direct("airdropTokens", encodeHAPI, baseGas,
		arguments(typeTokenTransferLists), nil, handleAirdropTokens)
	direct("claimAirdrops", encodeHAPI, baseGas,
		arguments(typePendingAirdropSlice), nil, handleClaimAirdrops)
	direct("cancelAirdrops", encodeHAPI, baseGas,
		arguments(typePendingAirdropSlice), nil, handleCancelAirdrops)

	// View queries, HAPI shapes.
	direct("isFrozen", encodeHAPI, viewGas,
		arguments(typeAddress, typeAddress), arguments(typeBool), handleIsFrozen)
	direct("isKyc", encodeHAPI, viewGas,
		arguments(typeAddress, typeAddress), arguments(typeBool), handleIsKyc)
	direct("getTokenDefaultFreezeStatus", encodeHAPI, viewGas,
		arguments(typeAddress), arguments(typeBool), handleDefaultFreezeStatus)
	direct("getTokenDefaultKycStatus", encodeHAPI, viewGas,
		arguments(typeAddress), arguments(typeBool), handleDefaultKycStatus)
	direct("getTokenType", encodeHAPI, viewGas,
		arguments(typeAddress), arguments(typeInt32), handleGetTokenType)
	direct("isToken", encodeHAPI, viewGas,
		arguments(typeAddress), arguments(typeBool), handleIsToken)
	direct("getTokenKey", encodeHAPI, viewGas,
		arguments(typeAddress, typeUint256), arguments(typeKeyValue), handleGetTokenKey)
	direct("getTokenCustomFees", encodeHAPI, viewGas,
		arguments(typeAddress),
		arguments(typeFixedFeeSlice, typeFractionalFeeSlice, typeRoyaltyFeeSlice), handleGetCustomFees)
	direct("getTokenInfo", encodeHAPI, viewGas,
		arguments(typeAddress), arguments(typeTokenInfo), handleGetTokenInfo)
	direct("getFungibleTokenInfo", encodeHAPI, viewGas,
		arguments(typeAddress), arguments(typeFungibleTokenInfo), handleGetFungibleTokenInfo)
	direct("getNonFungibleTokenInfo", encodeHAPI, viewGas,
		arguments(typeAddress, typeInt64), arguments(typeNonFungibleTokenInfo), handleGetNonFungibleTokenInfo)
	direct("getTokenExpiryInfo", encodeHAPI, viewGas,
		arguments(typeAddress), arguments(typeExpiryV2), handleGetExpiryInfo)

	// Token-scoped redirect surface.
	redirected("associate", encodeHAPI, baseGas, nil, nil, handleRedirectAssociate)
	redirected("dissociate", encodeHAPI, baseGas, nil, nil, handleRedirectDissociate)
	redirected("isAssociated", encodeERC, viewGas, nil, arguments(typeBool), handleRedirectIsAssociated)
	redirected("name", encodeERC, viewGas, nil, arguments(typeString), handleName)
	redirected("symbol", encodeERC, viewGas, nil, arguments(typeString), handleSymbol)
	redirected("decimals", encodeERC, viewGas, nil, arguments(typeUint8), handleDecimals)
	redirected("totalSupply", encodeERC, viewGas, nil, arguments(typeUint256), handleTotalSupply)
	redirected("balanceOf", encodeERC, viewGas,
		arguments(typeAddress), arguments(typeUint256), handleBalanceOf)
	redirected("ownerOf", encodeERC, viewGas,
		arguments(typeUint256), arguments(typeAddress), handleOwnerOf)
	redirected("tokenURI", encodeERC, viewGas,
		arguments(typeUint256), arguments(typeString), handleTokenURI)
	redirected("transfer", encodeERC, baseGas,
		arguments(typeAddress, typeUint256), arguments(typeBool), handleErcTransfer)
	redirected("transferFrom", encodeERC, baseGas,
		arguments(typeAddress, typeAddress, typeUint256), arguments(typeBool), handleErcTransferFrom)
	redirected("approve", encodeERC, baseGas,
		arguments(typeAddress, typeUint256), arguments(typeBool), handleErcApprove)
	redirected("setApprovalForAll", encodeERC, baseGas,
		arguments(typeAddress, typeBool), arguments(typeBool), handleErcSetApprovalForAll)
	redirected("allowance", encodeERC, viewGas,
		arguments(typeAddress, typeAddress), arguments(typeUint256), handleErcAllowance)
	redirected("getApproved", encodeERC, viewGas,
		arguments(typeUint256), arguments(typeAddress), handleErcGetApproved)
	redirected("isApprovedForAll", encodeERC, viewGas,
		arguments(typeAddress, typeAddress), arguments(typeBool), handleErcIsApprovedForAll)
}
