package tokens

import (
	"tokennet/core/events"
	"tokennet/core/types"
)

const maxKeyBytes = 128

// TokenDefinition carries the full set of creation arguments after decode.
type TokenDefinition struct {
	Name             string
	Symbol           string
	Memo             string
	Type             types.TokenType
	Decimals         uint32
	InitialSupply    uint64
	Treasury         types.EntityID
	AdminKey         types.Key
	KycKey           types.Key
	FreezeKey        types.Key
	WipeKey          types.Key
	SupplyKey        types.Key
	FeeScheduleKey   types.Key
	PauseKey         types.Key
	MetadataKey      types.Key
	DefaultFrozen    bool
	SupplyType       types.SupplyType
	MaxSupply        uint64
	CustomFees       []types.CustomFee
	ExpirationTime   uint64
	AutoRenewAccount types.EntityID
	AutoRenewPeriod  uint64
	Metadata         []byte
}

func wellFormedKey(key types.Key) bool {
	return key.Empty() || len(key) <= maxKeyBytes
}

// CreateToken validates the definition, allocates a token id, associates
// the treasury and credits it with the initial supply.
func (e *Engine) CreateToken(def *TokenDefinition) (types.EntityID, Status, error) {
	if e.state == nil {
		return types.EntityID{}, StatusOK, errNilState
	}
	if def == nil {
		return types.EntityID{}, StatusOK, errNilToken
	}
	if status := e.validateDefinition(def); !status.OK() {
		return types.EntityID{}, status, nil
	}

	treasury, status, err := e.usableAccount(def.Treasury)
	if err != nil {
		return types.EntityID{}, StatusOK, err
	}
	if !status.OK() {
		return types.EntityID{}, StatusInvalidTreasuryAccount, nil
	}
	if !def.AutoRenewAccount.IsZero() {
		if _, status, err := e.usableAccount(def.AutoRenewAccount); err != nil {
			return types.EntityID{}, StatusOK, err
		} else if !status.OK() {
			return types.EntityID{}, StatusInvalidAutoRenewAccount, nil
		}
	}
	if status, err := e.validateCustomFees(def); err != nil || !status.OK() {
		return types.EntityID{}, status, err
	}

	id, err := e.state.NextEntityID()
	if err != nil {
		return types.EntityID{}, StatusOK, err
	}

	expiration := def.ExpirationTime
	if expiration == 0 {
		period := def.AutoRenewPeriod
		if period == 0 {
			period = e.cfg.MinAutoRenewPeriod
		}
		expiration = uint64(e.now()) + period
	}

	token := &types.Token{
		ID:               id,
		Type:             def.Type,
		Name:             def.Name,
		Symbol:           def.Symbol,
		Memo:             def.Memo,
		Decimals:         def.Decimals,
		Treasury:         def.Treasury,
		TotalSupply:      def.InitialSupply,
		MaxSupply:        def.MaxSupply,
		SupplyType:       def.SupplyType,
		AdminKey:         def.AdminKey,
		KycKey:           def.KycKey,
		FreezeKey:        def.FreezeKey,
		WipeKey:          def.WipeKey,
		SupplyKey:        def.SupplyKey,
		FeeScheduleKey:   def.FeeScheduleKey,
		PauseKey:         def.PauseKey,
		MetadataKey:      def.MetadataKey,
		DefaultFrozen:    def.DefaultFrozen,
		CustomFees:       def.CustomFees,
		ExpirationTime:   expiration,
		AutoRenewAccount: def.AutoRenewAccount,
		AutoRenewPeriod:  def.AutoRenewPeriod,
		Metadata:         def.Metadata,
	}
	if err := e.state.PutToken(token); err != nil {
		return types.EntityID{}, StatusOK, err
	}

	// The treasury is associated implicitly and never starts frozen, even
	// for default-frozen tokens.
	relation := &types.TokenRelation{
		Account:    def.Treasury,
		TokenID:    id,
		Balance:    def.InitialSupply,
		KycGranted: true,
	}
	if err := e.state.PutRelation(relation); err != nil {
		return types.EntityID{}, StatusOK, err
	}
	treasury.NumberAssociations++
	if def.InitialSupply > 0 {
		treasury.PositiveBalances++
	}
	if err := e.state.PutAccount(treasury); err != nil {
		return types.EntityID{}, StatusOK, err
	}

	e.emit(events.TokenLifecycle{Type: events.TypeTokenCreated, TokenID: id})
	return id, StatusOK, nil
}

func (e *Engine) validateDefinition(def *TokenDefinition) Status {
	if def.Symbol == "" {
		return StatusMissingTokenSymbol
	}
	if def.Name == "" {
		return StatusMissingTokenName
	}
	if e.cfg.MaxTokenSymbolLength > 0 && len(def.Symbol) > e.cfg.MaxTokenSymbolLength {
		return StatusTokenSymbolTooLong
	}
	if e.cfg.MaxTokenNameLength > 0 && len(def.Name) > e.cfg.MaxTokenNameLength {
		return StatusTokenNameTooLong
	}
	if e.cfg.MaxMemoLength > 0 && len(def.Memo) > e.cfg.MaxMemoLength {
		return StatusMemoTooLong
	}
	for _, key := range []types.Key{
		def.AdminKey, def.KycKey, def.FreezeKey, def.WipeKey,
		def.SupplyKey, def.FeeScheduleKey, def.PauseKey, def.MetadataKey,
	} {
		if !wellFormedKey(key) {
			return StatusInvalidAdminKey
		}
	}
	if def.Type == types.NonFungibleUnique {
		if def.Decimals != 0 {
			return StatusInvalidTokenDecimals
		}
		if def.InitialSupply != 0 {
			return StatusInvalidInitialSupply
		}
		// Minting uniques is impossible without a supply key; a supply
		// of zero forever is a degenerate token.
		if def.SupplyKey.Empty() {
			return StatusTokenHasNoSupplyKey
		}
	}
	switch def.SupplyType {
	case types.SupplyFinite:
		if def.MaxSupply == 0 || def.InitialSupply > def.MaxSupply {
			return StatusInvalidSupplyType
		}
	case types.SupplyInfinite:
		if def.MaxSupply != 0 {
			return StatusInvalidSupplyType
		}
	default:
		return StatusInvalidSupplyType
	}
	if def.ExpirationTime != 0 && def.ExpirationTime <= uint64(e.now()) {
		return StatusInvalidExpirationTime
	}
	if def.AutoRenewPeriod != 0 {
		if def.AutoRenewPeriod < e.cfg.MinAutoRenewPeriod || def.AutoRenewPeriod > e.cfg.MaxAutoRenewPeriod {
			return StatusInvalidRenewalPeriod
		}
	}
	if !def.AutoRenewAccount.IsZero() && def.AutoRenewPeriod == 0 {
		return StatusInvalidRenewalPeriod
	}
	return StatusOK
}

func (e *Engine) validateCustomFees(def *TokenDefinition) (Status, error) {
	if e.cfg.MaxCustomFees > 0 && len(def.CustomFees) > e.cfg.MaxCustomFees {
		return StatusCustomFeesListTooLong, nil
	}
	for _, fee := range def.CustomFees {
		collector, err := e.state.GetAccount(fee.Collector)
		if err != nil {
			return StatusOK, err
		}
		if collector == nil || collector.Deleted {
			return StatusInvalidCustomFee, nil
		}
		switch fee.Kind {
		case types.FeeFixed:
			if fee.Fixed == nil || fee.Fixed.Amount == 0 {
				return StatusInvalidCustomFee, nil
			}
		case types.FeeFractional:
			if def.Type != types.FungibleCommon {
				return StatusInvalidCustomFee, nil
			}
			if fee.Denominator == 0 || fee.Numerator == 0 {
				return StatusInvalidCustomFee, nil
			}
			if fee.MaximumAmount != 0 && fee.MaximumAmount < fee.MinimumAmount {
				return StatusInvalidCustomFee, nil
			}
		case types.FeeRoyalty:
			if def.Type != types.NonFungibleUnique {
				return StatusInvalidCustomFee, nil
			}
			if fee.Denominator == 0 || fee.Numerator == 0 || fee.Numerator > fee.Denominator {
				return StatusInvalidCustomFee, nil
			}
			if fee.FallbackFee != nil && fee.FallbackFee.Amount == 0 {
				return StatusInvalidCustomFee, nil
			}
		default:
			return StatusInvalidCustomFee, nil
		}
	}
	return StatusOK, nil
}
