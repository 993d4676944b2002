package precompile

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(fmt.Sprintf("precompile: bad abi type %q: %v", t, err))
	}
	return typ
}

// Scalar types shared across the selector table.
var (
	typeAddress      = mustType("address", nil)
	typeAddressSlice = mustType("address[]", nil)
	typeBool         = mustType("bool", nil)
	typeBytes        = mustType("bytes", nil)
	typeBytesSlice   = mustType("bytes[]", nil)
	typeString       = mustType("string", nil)
	typeUint8        = mustType("uint8", nil)
	typeUint32       = mustType("uint32", nil)
	typeUint64       = mustType("uint64", nil)
	typeUint256      = mustType("uint256", nil)
	typeInt32        = mustType("int32", nil)
	typeInt64        = mustType("int64", nil)
	typeInt64Slice   = mustType("int64[]", nil)
)

// keyValueArg mirrors the ABI key union: exactly one member is meaningful.
type keyValueArg struct {
	InheritAccountKey     bool
	ContractId            common.Address
	Ed25519               []byte
	EcdsaSecp256k1        []byte
	DelegatableContractId common.Address
}

type tokenKeyArg struct {
	KeyType *big.Int
	Key     keyValueArg
}

type expiryV1Arg struct {
	Second           uint32
	AutoRenewAccount common.Address
	AutoRenewPeriod  uint32
}

type expiryV2Arg struct {
	Second           int64
	AutoRenewAccount common.Address
	AutoRenewPeriod  int64
}

type hederaTokenV1Arg struct {
	Name            string
	Symbol          string
	Treasury        common.Address
	Memo            string
	TokenSupplyType bool
	MaxSupply       uint32
	FreezeDefault   bool
	TokenKeys       []tokenKeyArg
	Expiry          expiryV1Arg
}

type hederaTokenV2Arg struct {
	Name            string
	Symbol          string
	Treasury        common.Address
	Memo            string
	TokenSupplyType bool
	MaxSupply       int64
	FreezeDefault   bool
	TokenKeys       []tokenKeyArg
	Expiry          expiryV2Arg
}

// hederaTokenV3Arg extends v2 with the token-level metadata bytes.
type hederaTokenV3Arg struct {
	Name            string
	Symbol          string
	Treasury        common.Address
	Memo            string
	TokenSupplyType bool
	MaxSupply       int64
	FreezeDefault   bool
	TokenKeys       []tokenKeyArg
	Expiry          expiryV2Arg
	Metadata        []byte
}

type fixedFeeArg struct {
	Amount                    int64
	TokenId                   common.Address
	UseHbarsForPayment        bool
	UseCurrentTokenForPayment bool
	FeeCollector              common.Address
}

type fractionalFeeArg struct {
	Numerator      int64
	Denominator    int64
	MinimumAmount  int64
	MaximumAmount  int64
	NetOfTransfers bool
	FeeCollector   common.Address
}

type royaltyFeeArg struct {
	Numerator          int64
	Denominator        int64
	Amount             int64
	TokenId            common.Address
	UseHbarsForPayment bool
	FeeCollector       common.Address
}

type accountAmountV1Arg struct {
	AccountID common.Address
	Amount    int64
}

type accountAmountArg struct {
	AccountID  common.Address
	Amount     int64
	IsApproval bool
}

type nftTransferV1Arg struct {
	SenderAccountID   common.Address
	ReceiverAccountID common.Address
	SerialNumber      int64
}

type nftTransferArg struct {
	SenderAccountID   common.Address
	ReceiverAccountID common.Address
	SerialNumber      int64
	IsApproval        bool
}

type tokenTransferListV1Arg struct {
	Token        common.Address
	Transfers    []accountAmountV1Arg
	NftTransfers []nftTransferV1Arg
}

type tokenTransferListArg struct {
	Token        common.Address
	Transfers    []accountAmountArg
	NftTransfers []nftTransferArg
}

type transferListArg struct {
	Transfers []accountAmountArg
}

type pendingAirdropArg struct {
	Sender   common.Address
	Receiver common.Address
	Token    common.Address
	Serial   int64
}

type tokenInfoArg struct {
	Token            hederaTokenV3Arg
	TotalSupply      int64
	Deleted          bool
	DefaultKycStatus bool
	PauseStatus      bool
	FixedFees        []fixedFeeArg
	FractionalFees   []fractionalFeeArg
	RoyaltyFees      []royaltyFeeArg
	LedgerId         string
}

type fungibleTokenInfoArg struct {
	TokenInfo tokenInfoArg
	Decimals  int32
}

type nonFungibleTokenInfoArg struct {
	TokenInfo    tokenInfoArg
	SerialNumber int64
	OwnerId      common.Address
	CreationTime int64
	Metadata     []byte
	SpenderId    common.Address
}

// Component lists for the tuple types above. Order is the wire order.
var (
	keyValueComponents = []abi.ArgumentMarshaling{
		{Name: "inheritAccountKey", Type: "bool"},
		{Name: "contractId", Type: "address"},
		{Name: "ed25519", Type: "bytes"},
		{Name: "ecdsaSecp256k1", Type: "bytes"},
		{Name: "delegatableContractId", Type: "address"},
	}
	tokenKeyComponents = []abi.ArgumentMarshaling{
		{Name: "keyType", Type: "uint256"},
		{Name: "key", Type: "tuple", Components: keyValueComponents},
	}
	expiryV1Components = []abi.ArgumentMarshaling{
		{Name: "second", Type: "uint32"},
		{Name: "autoRenewAccount", Type: "address"},
		{Name: "autoRenewPeriod", Type: "uint32"},
	}
	expiryV2Components = []abi.ArgumentMarshaling{
		{Name: "second", Type: "int64"},
		{Name: "autoRenewAccount", Type: "address"},
		{Name: "autoRenewPeriod", Type: "int64"},
	}
	hederaTokenV1Components = []abi.ArgumentMarshaling{
		{Name: "name", Type: "string"},
		{Name: "symbol", Type: "string"},
		{Name: "treasury", Type: "address"},
		{Name: "memo", Type: "string"},
		{Name: "tokenSupplyType", Type: "bool"},
		{Name: "maxSupply", Type: "uint32"},
		{Name: "freezeDefault", Type: "bool"},
		{Name: "tokenKeys", Type: "tuple[]", Components: tokenKeyComponents},
		{Name: "expiry", Type: "tuple", Components: expiryV1Components},
	}
	hederaTokenV2Components = []abi.ArgumentMarshaling{
		{Name: "name", Type: "string"},
		{Name: "symbol", Type: "string"},
		{Name: "treasury", Type: "address"},
		{Name: "memo", Type: "string"},
		{Name: "tokenSupplyType", Type: "bool"},
		{Name: "maxSupply", Type: "int64"},
		{Name: "freezeDefault", Type: "bool"},
		{Name: "tokenKeys", Type: "tuple[]", Components: tokenKeyComponents},
		{Name: "expiry", Type: "tuple", Components: expiryV2Components},
	}
	hederaTokenV3Components = append(append([]abi.ArgumentMarshaling{}, hederaTokenV2Components...),
		abi.ArgumentMarshaling{Name: "metadata", Type: "bytes"},
	)
	fixedFeeComponents = []abi.ArgumentMarshaling{
		{Name: "amount", Type: "int64"},
		{Name: "tokenId", Type: "address"},
		{Name: "useHbarsForPayment", Type: "bool"},
		{Name: "useCurrentTokenForPayment", Type: "bool"},
		{Name: "feeCollector", Type: "address"},
	}
	fractionalFeeComponents = []abi.ArgumentMarshaling{
		{Name: "numerator", Type: "int64"},
		{Name: "denominator", Type: "int64"},
		{Name: "minimumAmount", Type: "int64"},
		{Name: "maximumAmount", Type: "int64"},
		{Name: "netOfTransfers", Type: "bool"},
		{Name: "feeCollector", Type: "address"},
	}
	royaltyFeeComponents = []abi.ArgumentMarshaling{
		{Name: "numerator", Type: "int64"},
		{Name: "denominator", Type: "int64"},
		{Name: "amount", Type: "int64"},
		{Name: "tokenId", Type: "address"},
		{Name: "useHbarsForPayment", Type: "bool"},
		{Name: "feeCollector", Type: "address"},
	}
	accountAmountV1Components = []abi.ArgumentMarshaling{
		{Name: "accountID", Type: "address"},
		{Name: "amount", Type: "int64"},
	}
	accountAmountComponents = []abi.ArgumentMarshaling{
		{Name: "accountID", Type: "address"},
		{Name: "amount", Type: "int64"},
		{Name: "isApproval", Type: "bool"},
	}
	nftTransferV1Components = []abi.ArgumentMarshaling{
		{Name: "senderAccountID", Type: "address"},
		{Name: "receiverAccountID", Type: "address"},
		{Name: "serialNumber", Type: "int64"},
	}
	nftTransferComponents = []abi.ArgumentMarshaling{
		{Name: "senderAccountID", Type: "address"},
		{Name: "receiverAccountID", Type: "address"},
		{Name: "serialNumber", Type: "int64"},
		{Name: "isApproval", Type: "bool"},
	}
	tokenTransferListV1Components = []abi.ArgumentMarshaling{
		{Name: "token", Type: "address"},
		{Name: "transfers", Type: "tuple[]", Components: accountAmountV1Components},
		{Name: "nftTransfers", Type: "tuple[]", Components: nftTransferV1Components},
	}
	tokenTransferListComponents = []abi.ArgumentMarshaling{
		{Name: "token", Type: "address"},
		{Name: "transfers", Type: "tuple[]", Components: accountAmountComponents},
		{Name: "nftTransfers", Type: "tuple[]", Components: nftTransferComponents},
	}
	transferListComponents = []abi.ArgumentMarshaling{
		{Name: "transfers", Type: "tuple[]", Components: accountAmountComponents},
	}
	pendingAirdropComponents = []abi.ArgumentMarshaling{
		{Name: "sender", Type: "address"},
		{Name: "receiver", Type: "address"},
		{Name: "token", Type: "address"},
		{Name: "serial", Type: "int64"},
	}
	tokenInfoComponents = []abi.ArgumentMarshaling{
		{Name: "token", Type: "tuple", Components: hederaTokenV3Components},
		{Name: "totalSupply", Type: "int64"},
		{Name: "deleted", Type: "bool"},
		{Name: "defaultKycStatus", Type: "bool"},
		{Name: "pauseStatus", Type: "bool"},
		{Name: "fixedFees", Type: "tuple[]", Components: fixedFeeComponents},
		{Name: "fractionalFees", Type: "tuple[]", Components: fractionalFeeComponents},
		{Name: "royaltyFees", Type: "tuple[]", Components: royaltyFeeComponents},
		{Name: "ledgerId", Type: "string"},
	}
	fungibleTokenInfoComponents = []abi.ArgumentMarshaling{
		{Name: "tokenInfo", Type: "tuple", Components: tokenInfoComponents},
		{Name: "decimals", Type: "int32"},
	}
	nonFungibleTokenInfoComponents = []abi.ArgumentMarshaling{
		{Name: "tokenInfo", Type: "tuple", Components: tokenInfoComponents},
		{Name: "serialNumber", Type: "int64"},
		{Name: "ownerId", Type: "address"},
		{Name: "creationTime", Type: "int64"},
		{Name: "metadata", Type: "bytes"},
		{Name: "spenderId", Type: "address"},
	}
)

var (
	typeKeyValue             = mustType("tuple", keyValueComponents)
	typeExpiryV1             = mustType("tuple", expiryV1Components)
	typeExpiryV2             = mustType("tuple", expiryV2Components)
	typeHederaTokenV1        = mustType("tuple", hederaTokenV1Components)
	typeHederaTokenV2        = mustType("tuple", hederaTokenV2Components)
	typeHederaTokenV3        = mustType("tuple", hederaTokenV3Components)
	typeFixedFeeSlice        = mustType("tuple[]", fixedFeeComponents)
	typeFractionalFeeSlice   = mustType("tuple[]", fractionalFeeComponents)
	typeRoyaltyFeeSlice      = mustType("tuple[]", royaltyFeeComponents)
	typeTokenTransferListV1s = mustType("tuple[]", tokenTransferListV1Components)
	typeTokenTransferLists   = mustType("tuple[]", tokenTransferListComponents)
	typeTransferList         = mustType("tuple", transferListComponents)
	typePendingAirdropSlice  = mustType("tuple[]", pendingAirdropComponents)
	typeTokenInfo            = mustType("tuple", tokenInfoComponents)
	typeFungibleTokenInfo    = mustType("tuple", fungibleTokenInfoComponents)
	typeNonFungibleTokenInfo = mustType("tuple", nonFungibleTokenInfoComponents)
)

func arguments(types ...abi.Type) abi.Arguments {
	args := make(abi.Arguments, len(types))
	for i, typ := range types {
		args[i] = abi.Argument{Type: typ}
	}
	return args
}

// convert re-types an unpacked ABI value into its binding struct.
func convert[T any](value interface{}) T {
	return *abi.ConvertType(value, new(T)).(*T)
}
