package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tokennet/core/types"
)

func TestCreateTokenCreditsTreasury(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)

	id := f.createFungible(treasury, 1000, nil)

	token := f.token(id)
	require.Equal(t, "Demo Coin", token.Name)
	require.Equal(t, uint64(1000), token.TotalSupply)
	require.Equal(t, treasury, token.Treasury)

	relation := f.relation(treasury, id)
	require.NotNil(t, relation)
	require.Equal(t, uint64(1000), relation.Balance)
	require.True(t, relation.KycGranted, "treasury never needs a KYC grant")
	require.False(t, relation.Frozen)

	account := f.account(treasury)
	require.Equal(t, uint64(1), account.NumberAssociations)
	require.Equal(t, uint64(1), account.PositiveBalances)
}

func TestCreateTokenTreasuryNeverStartsFrozen(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)

	id := f.createFungible(treasury, 100, func(def *TokenDefinition) {
		def.FreezeKey = types.Key{0x0F}
		def.DefaultFrozen = true
	})

	require.False(t, f.relation(treasury, id).Frozen)
}

func TestCreateTokenDefaultsExpiration(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)

	id := f.createFungible(treasury, 0, nil)

	token := f.token(id)
	require.Equal(t, uint64(fixtureNow)+f.engine.cfg.MinAutoRenewPeriod, token.ExpirationTime)
}

func TestCreateTokenValidation(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)

	cases := []struct {
		name   string
		mutate func(*TokenDefinition)
		want   Status
	}{
		{"missing symbol", func(d *TokenDefinition) { d.Symbol = "" }, StatusMissingTokenSymbol},
		{"missing name", func(d *TokenDefinition) { d.Name = "" }, StatusMissingTokenName},
		{"symbol too long", func(d *TokenDefinition) { d.Symbol = strings.Repeat("X", 101) }, StatusTokenSymbolTooLong},
		{"name too long", func(d *TokenDefinition) { d.Name = strings.Repeat("x", 101) }, StatusTokenNameTooLong},
		{"memo too long", func(d *TokenDefinition) { d.Memo = strings.Repeat("m", 101) }, StatusMemoTooLong},
		{"oversized key", func(d *TokenDefinition) { d.AdminKey = make(types.Key, maxKeyBytes+1) }, StatusInvalidAdminKey},
		{"finite without max", func(d *TokenDefinition) { d.SupplyType = types.SupplyFinite }, StatusInvalidSupplyType},
		{"finite below initial", func(d *TokenDefinition) {
			d.SupplyType = types.SupplyFinite
			d.MaxSupply = 50
			d.InitialSupply = 100
		}, StatusInvalidSupplyType},
		{"infinite with max", func(d *TokenDefinition) { d.MaxSupply = 10 }, StatusInvalidSupplyType},
		{"expiration in the past", func(d *TokenDefinition) { d.ExpirationTime = uint64(fixtureNow) }, StatusInvalidExpirationTime},
		{"renew period too short", func(d *TokenDefinition) { d.AutoRenewPeriod = 1 }, StatusInvalidRenewalPeriod},
		{"renew account without period", func(d *TokenDefinition) { d.AutoRenewAccount = types.NewEntityID(1) }, StatusInvalidRenewalPeriod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := fungibleDef(treasury, 100)
			tc.mutate(def)
			_, status, err := f.engine.CreateToken(def)
			require.NoError(t, err)
			require.Equal(t, tc.want, status)
		})
	}
}

func TestCreateNftValidation(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)

	cases := []struct {
		name   string
		mutate func(*TokenDefinition)
		want   Status
	}{
		{"decimals on unique", func(d *TokenDefinition) { d.Decimals = 2 }, StatusInvalidTokenDecimals},
		{"initial supply on unique", func(d *TokenDefinition) { d.InitialSupply = 1 }, StatusInvalidInitialSupply},
		{"no supply key", func(d *TokenDefinition) { d.SupplyKey = nil }, StatusTokenHasNoSupplyKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := nftDef(treasury)
			tc.mutate(def)
			_, status, err := f.engine.CreateToken(def)
			require.NoError(t, err)
			require.Equal(t, tc.want, status)
		})
	}
}

func TestCreateTokenMissingTreasury(t *testing.T) {
	f := newFixture(t)

	_, status, err := f.engine.CreateToken(fungibleDef(types.NewEntityID(42), 100))
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTreasuryAccount, status)
}

func TestCreateTokenCustomFeeValidation(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	collector := f.addAccount(2)

	def := fungibleDef(treasury, 100)
	def.CustomFees = []types.CustomFee{{
		Kind:      types.FeeFixed,
		Collector: collector,
		Fixed:     &types.FixedFee{Amount: 5},
	}, {
		Kind:        types.FeeFractional,
		Collector:   collector,
		Numerator:   1,
		Denominator: 10,
	}}
	id := f.createToken(def)
	require.Len(t, f.token(id).CustomFees, 2)

	cases := []struct {
		name string
		fee  types.CustomFee
		want Status
	}{
		{"unknown collector", types.CustomFee{Kind: types.FeeFixed, Collector: types.NewEntityID(99), Fixed: &types.FixedFee{Amount: 1}}, StatusInvalidCustomFee},
		{"zero fixed amount", types.CustomFee{Kind: types.FeeFixed, Collector: collector, Fixed: &types.FixedFee{}}, StatusInvalidCustomFee},
		{"royalty on fungible", types.CustomFee{Kind: types.FeeRoyalty, Collector: collector, Numerator: 1, Denominator: 10}, StatusInvalidCustomFee},
		{"fraction max below min", types.CustomFee{Kind: types.FeeFractional, Collector: collector, Numerator: 1, Denominator: 10, MinimumAmount: 5, MaximumAmount: 2}, StatusInvalidCustomFee},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := fungibleDef(treasury, 100)
			def.CustomFees = []types.CustomFee{tc.fee}
			_, status, err := f.engine.CreateToken(def)
			require.NoError(t, err)
			require.Equal(t, tc.want, status)
		})
	}
}

func TestCreateTokenRoyaltyRequiresNumeratorWithinDenominator(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	collector := f.addAccount(2)

	def := nftDef(treasury)
	def.CustomFees = []types.CustomFee{{
		Kind:        types.FeeRoyalty,
		Collector:   collector,
		Numerator:   11,
		Denominator: 10,
	}}
	_, status, err := f.engine.CreateToken(def)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidCustomFee, status)
}

func TestCreateTokenFeeListTooLong(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	collector := f.addAccount(2)

	def := fungibleDef(treasury, 100)
	for i := 0; i < f.engine.cfg.MaxCustomFees+1; i++ {
		def.CustomFees = append(def.CustomFees, types.CustomFee{
			Kind:      types.FeeFixed,
			Collector: collector,
			Fixed:     &types.FixedFee{Amount: 1},
		})
	}
	_, status, err := f.engine.CreateToken(def)
	require.NoError(t, err)
	require.Equal(t, StatusCustomFeesListTooLong, status)
}
