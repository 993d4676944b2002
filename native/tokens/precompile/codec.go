package precompile

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"tokennet/core/types"
	"tokennet/native/tokens"
)

// Token key type bits carried in tokenKeyArg.KeyType.
const (
	keyBitAdmin       = 1 << 0
	keyBitKyc         = 1 << 1
	keyBitFreeze      = 1 << 2
	keyBitWipe        = 1 << 3
	keyBitSupply      = 1 << 4
	keyBitFeeSchedule = 1 << 5
	keyBitPause       = 1 << 6
	keyBitMetadata    = 1 << 7
)

// amountFromBig validates a v1 BigInteger-width amount. The engine works in
// native widths, so anything outside uint64 is rejected before dispatch.
func amountFromBig(value *big.Int) (uint64, bool) {
	if value == nil || value.Sign() < 0 {
		return 0, false
	}
	v, overflow := uint256.FromBig(value)
	if overflow || !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

func amountFromInt64(value int64) (uint64, bool) {
	if value < 0 {
		return 0, false
	}
	return uint64(value), true
}

func serialsFromInt64(values []int64) ([]uint64, bool) {
	serials := make([]uint64, len(values))
	for i, v := range values {
		if v <= 0 {
			return nil, false
		}
		serials[i] = uint64(v)
	}
	return serials, true
}

// decodeKeyValue collapses the ABI key union into raw key bytes. Inherited
// keys resolve to the caller's own key.
func decodeKeyValue(kv keyValueArg, callerKey types.Key) types.Key {
	switch {
	case len(kv.Ed25519) > 0:
		return types.Key(kv.Ed25519)
	case len(kv.EcdsaSecp256k1) > 0:
		return types.Key(kv.EcdsaSecp256k1)
	case kv.ContractId != (common.Address{}):
		return types.Key(kv.ContractId.Bytes())
	case kv.DelegatableContractId != (common.Address{}):
		return types.Key(kv.DelegatableContractId.Bytes())
	case kv.InheritAccountKey:
		return callerKey.Clone()
	}
	return nil
}

func encodeKeyValue(key types.Key) keyValueArg {
	var kv keyValueArg
	switch {
	case key.Empty():
	case len(key) == 32:
		kv.Ed25519 = append([]byte(nil), key...)
	default:
		kv.EcdsaSecp256k1 = append([]byte(nil), key...)
	}
	return kv
}

// tokenDef is the normalised creation shape the v1/v2/v3 decode adapters all
// produce before the single conversion into the engine definition.
type tokenDef struct {
	Name             string
	Symbol           string
	Treasury         common.Address
	Memo             string
	FiniteSupply     bool
	MaxSupply        uint64
	FreezeDefault    bool
	Keys             []tokenKeyArg
	ExpirationTime   uint64
	AutoRenewAccount common.Address
	AutoRenewPeriod  uint64
	Metadata         []byte
}

func normalizeTokenV1(arg hederaTokenV1Arg) tokenDef {
	return tokenDef{
		Name:             arg.Name,
		Symbol:           arg.Symbol,
		Treasury:         arg.Treasury,
		Memo:             arg.Memo,
		FiniteSupply:     arg.TokenSupplyType,
		MaxSupply:        uint64(arg.MaxSupply),
		FreezeDefault:    arg.FreezeDefault,
		Keys:             arg.TokenKeys,
		ExpirationTime:   uint64(arg.Expiry.Second),
		AutoRenewAccount: arg.Expiry.AutoRenewAccount,
		AutoRenewPeriod:  uint64(arg.Expiry.AutoRenewPeriod),
	}
}

func normalizeTokenV2(arg hederaTokenV2Arg) (tokenDef, bool) {
	if arg.MaxSupply < 0 || arg.Expiry.Second < 0 || arg.Expiry.AutoRenewPeriod < 0 {
		return tokenDef{}, false
	}
	return tokenDef{
		Name:             arg.Name,
		Symbol:           arg.Symbol,
		Treasury:         arg.Treasury,
		Memo:             arg.Memo,
		FiniteSupply:     arg.TokenSupplyType,
		MaxSupply:        uint64(arg.MaxSupply),
		FreezeDefault:    arg.FreezeDefault,
		Keys:             arg.TokenKeys,
		ExpirationTime:   uint64(arg.Expiry.Second),
		AutoRenewAccount: arg.Expiry.AutoRenewAccount,
		AutoRenewPeriod:  uint64(arg.Expiry.AutoRenewPeriod),
	}, true
}

func normalizeTokenV3(arg hederaTokenV3Arg) (tokenDef, bool) {
	def, ok := normalizeTokenV2(hederaTokenV2Arg{
		Name:            arg.Name,
		Symbol:          arg.Symbol,
		Treasury:        arg.Treasury,
		Memo:            arg.Memo,
		TokenSupplyType: arg.TokenSupplyType,
		MaxSupply:       arg.MaxSupply,
		FreezeDefault:   arg.FreezeDefault,
		TokenKeys:       arg.TokenKeys,
		Expiry:          arg.Expiry,
	})
	if !ok {
		return tokenDef{}, false
	}
	def.Metadata = append([]byte(nil), arg.Metadata...)
	return def, true
}

// definitionFromDef builds the engine creation argument. The caller key is
// consulted for inherit-account-key entries.
func (d *Dispatcher) definitionFromDef(def tokenDef, tokenType types.TokenType, callerKey types.Key) (*tokens.TokenDefinition, tokens.Status) {
	treasury, ok := d.entityID(def.Treasury)
	if !ok {
		return nil, tokens.StatusInvalidTreasuryAccount
	}
	out := &tokens.TokenDefinition{
		Name:           def.Name,
		Symbol:         def.Symbol,
		Memo:           def.Memo,
		Type:           tokenType,
		Treasury:       treasury,
		DefaultFrozen:  def.FreezeDefault,
		ExpirationTime: def.ExpirationTime,
		Metadata:       def.Metadata,
	}
	if def.FiniteSupply {
		out.SupplyType = types.SupplyFinite
		out.MaxSupply = def.MaxSupply
	}
	if def.AutoRenewAccount != (common.Address{}) {
		renew, ok := d.entityID(def.AutoRenewAccount)
		if !ok {
			return nil, tokens.StatusInvalidAutoRenewAccount
		}
		out.AutoRenewAccount = renew
	}
	out.AutoRenewPeriod = def.AutoRenewPeriod

	for _, entry := range def.Keys {
		if entry.KeyType == nil || !entry.KeyType.IsUint64() {
			return nil, tokens.StatusInvalidAdminKey
		}
		key := decodeKeyValue(entry.Key, callerKey)
		bits := entry.KeyType.Uint64()
		if bits&keyBitAdmin != 0 {
			out.AdminKey = key
		}
		if bits&keyBitKyc != 0 {
			out.KycKey = key
		}
		if bits&keyBitFreeze != 0 {
			out.FreezeKey = key
		}
		if bits&keyBitWipe != 0 {
			out.WipeKey = key
		}
		if bits&keyBitSupply != 0 {
			out.SupplyKey = key
		}
		if bits&keyBitFeeSchedule != 0 {
			out.FeeScheduleKey = key
		}
		if bits&keyBitPause != 0 {
			out.PauseKey = key
		}
		if bits&keyBitMetadata != 0 {
			out.MetadataKey = key
		}
	}
	return out, tokens.StatusOK
}

// customFeesFromArgs converts the three ABI fee arrays into the ledger fee
// schedule.
func (d *Dispatcher) customFeesFromArgs(fixed []fixedFeeArg, fractional []fractionalFeeArg, royalty []royaltyFeeArg) ([]types.CustomFee, tokens.Status) {
	fees := make([]types.CustomFee, 0, len(fixed)+len(fractional)+len(royalty))
	for _, fee := range fixed {
		collector, ok := d.entityID(fee.FeeCollector)
		if !ok {
			return nil, tokens.StatusInvalidCustomFee
		}
		amount, ok := amountFromInt64(fee.Amount)
		if !ok {
			return nil, tokens.StatusInvalidCustomFee
		}
		entry := types.CustomFee{
			Kind:      types.FeeFixed,
			Collector: collector,
			Fixed:     &types.FixedFee{Amount: amount},
		}
		if !fee.UseHbarsForPayment && !fee.UseCurrentTokenForPayment {
			denominating, ok := d.entityID(fee.TokenId)
			if !ok {
				return nil, tokens.StatusInvalidCustomFee
			}
			entry.Fixed.DenominatingToken = denominating
		}
		fees = append(fees, entry)
	}
	for _, fee := range fractional {
		collector, ok := d.entityID(fee.FeeCollector)
		if !ok {
			return nil, tokens.StatusInvalidCustomFee
		}
		if fee.Numerator < 0 || fee.Denominator < 0 || fee.MinimumAmount < 0 || fee.MaximumAmount < 0 {
			return nil, tokens.StatusInvalidCustomFee
		}
		fees = append(fees, types.CustomFee{
			Kind:           types.FeeFractional,
			Collector:      collector,
			Numerator:      uint64(fee.Numerator),
			Denominator:    uint64(fee.Denominator),
			MinimumAmount:  uint64(fee.MinimumAmount),
			MaximumAmount:  uint64(fee.MaximumAmount),
			NetOfTransfers: fee.NetOfTransfers,
		})
	}
	for _, fee := range royalty {
		collector, ok := d.entityID(fee.FeeCollector)
		if !ok {
			return nil, tokens.StatusInvalidCustomFee
		}
		if fee.Numerator < 0 || fee.Denominator < 0 || fee.Amount < 0 {
			return nil, tokens.StatusInvalidCustomFee
		}
		entry := types.CustomFee{
			Kind:        types.FeeRoyalty,
			Collector:   collector,
			Numerator:   uint64(fee.Numerator),
			Denominator: uint64(fee.Denominator),
		}
		if fee.Amount > 0 {
			entry.FallbackFee = &types.FixedFee{Amount: uint64(fee.Amount)}
			if !fee.UseHbarsForPayment {
				denominating, ok := d.entityID(fee.TokenId)
				if ok {
					entry.FallbackFee.DenominatingToken = denominating
				}
			}
		}
		fees = append(fees, entry)
	}
	return fees, tokens.StatusOK
}

// customFeesToArgs splits a ledger fee schedule back into the ABI arrays.
func customFeesToArgs(fees []types.CustomFee) ([]fixedFeeArg, []fractionalFeeArg, []royaltyFeeArg) {
	fixed := []fixedFeeArg{}
	fractional := []fractionalFeeArg{}
	royalty := []royaltyFeeArg{}
	for _, fee := range fees {
		switch fee.Kind {
		case types.FeeFixed:
			arg := fixedFeeArg{FeeCollector: fee.Collector.Address()}
			if fee.Fixed != nil {
				arg.Amount = int64(fee.Fixed.Amount)
				if fee.Fixed.DenominatingToken.IsZero() {
					arg.UseHbarsForPayment = true
				} else {
					arg.TokenId = fee.Fixed.DenominatingToken.Address()
				}
			}
			fixed = append(fixed, arg)
		case types.FeeFractional:
			fractional = append(fractional, fractionalFeeArg{
				Numerator:      int64(fee.Numerator),
				Denominator:    int64(fee.Denominator),
				MinimumAmount:  int64(fee.MinimumAmount),
				MaximumAmount:  int64(fee.MaximumAmount),
				NetOfTransfers: fee.NetOfTransfers,
				FeeCollector:   fee.Collector.Address(),
			})
		case types.FeeRoyalty:
			arg := royaltyFeeArg{
				Numerator:    int64(fee.Numerator),
				Denominator:  int64(fee.Denominator),
				FeeCollector: fee.Collector.Address(),
			}
			if fee.FallbackFee != nil {
				arg.Amount = int64(fee.FallbackFee.Amount)
				if fee.FallbackFee.DenominatingToken.IsZero() {
					arg.UseHbarsForPayment = true
				} else {
					arg.TokenId = fee.FallbackFee.DenominatingToken.Address()
				}
			}
			royalty = append(royalty, arg)
		}
	}
	return fixed, fractional, royalty
}

// tokenToInfoArg renders the full info-query view of a token.
func (d *Dispatcher) tokenToInfoArg(token *types.Token) tokenInfoArg {
	keys := []tokenKeyArg{}
	addKey := func(bit uint64, key types.Key) {
		if key.Empty() {
			return
		}
		keys = append(keys, tokenKeyArg{KeyType: new(big.Int).SetUint64(bit), Key: encodeKeyValue(key)})
	}
	addKey(keyBitAdmin, token.AdminKey)
	addKey(keyBitKyc, token.KycKey)
	addKey(keyBitFreeze, token.FreezeKey)
	addKey(keyBitWipe, token.WipeKey)
	addKey(keyBitSupply, token.SupplyKey)
	addKey(keyBitFeeSchedule, token.FeeScheduleKey)
	addKey(keyBitPause, token.PauseKey)
	addKey(keyBitMetadata, token.MetadataKey)

	fixed, fractional, royalty := customFeesToArgs(token.CustomFees)
	return tokenInfoArg{
		Token: hederaTokenV3Arg{
			Name:            token.Name,
			Symbol:          token.Symbol,
			Treasury:        token.Treasury.Address(),
			Memo:            token.Memo,
			TokenSupplyType: token.SupplyType == types.SupplyFinite,
			MaxSupply:       int64(token.MaxSupply),
			FreezeDefault:   token.DefaultFrozen,
			TokenKeys:       keys,
			Expiry: expiryV2Arg{
				Second:           int64(token.ExpirationTime),
				AutoRenewAccount: token.AutoRenewAccount.Address(),
				AutoRenewPeriod:  int64(token.AutoRenewPeriod),
			},
			Metadata: append([]byte(nil), token.Metadata...),
		},
		TotalSupply:      int64(token.TotalSupply),
		Deleted:          token.Deleted,
		DefaultKycStatus: token.DefaultKycGranted(),
		PauseStatus:      token.Paused,
		FixedFees:        fixed,
		FractionalFees:   fractional,
		RoyaltyFees:      royalty,
		LedgerId:         d.ledgerID,
	}
}
