package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tokennet/core/types"
)

func TestBalanceOfUnassociatedReadsZero(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	stranger := f.addAccount(2)
	id := f.createFungible(treasury, 1000, nil)

	balance, status, err := f.engine.BalanceOf(id, stranger)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(0), balance)

	balance, status, err = f.engine.BalanceOf(id, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(1000), balance)

	_, status, err = f.engine.BalanceOf(types.NewEntityID(99), treasury)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTokenID, status)
}

func TestBalanceOfCountsSerials(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	supplyKey := types.Key{0x51}
	id := f.createNft(treasury, nil)
	f.mintSerials(id, supplyKey, 3)

	balance, status, err := f.engine.BalanceOf(id, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(3), balance)
}

func TestOwnerOfResolvesTreasury(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	supplyKey := types.Key{0x51}
	id := f.createNft(treasury, nil)
	serials := f.mintSerials(id, supplyKey, 1)

	owner, status, err := f.engine.OwnerOf(id, serials[0])
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, treasury, owner)

	_, status, err = f.engine.OwnerOf(id, 99)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidNftID, status)
}

func TestOwnerOfRejectsFungibleToken(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	id := f.createFungible(treasury, 100, nil)

	_, status, err := f.engine.OwnerOf(id, 1)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidNftID, status)
}

func TestIsFrozenUnassociatedReportsDefault(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	stranger := f.addAccount(2)
	id := f.createFungible(treasury, 100, func(def *TokenDefinition) {
		def.FreezeKey = types.Key{0x0F}
		def.DefaultFrozen = true
	})

	frozen, status, err := f.engine.IsFrozen(id, stranger)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.True(t, frozen)

	frozen, status, err = f.engine.IsFrozen(id, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.False(t, frozen, "the treasury relation overrides the default")
}

func TestIsKycUnassociatedReportsDefault(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	stranger := f.addAccount(2)
	gated := f.createFungible(treasury, 100, func(def *TokenDefinition) { def.KycKey = types.Key{0x0E} })
	open := f.createFungible(treasury, 100, nil)

	granted, status, err := f.engine.IsKyc(gated, stranger)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.False(t, granted)

	granted, status, err = f.engine.IsKyc(open, stranger)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.True(t, granted)
}

func TestIsAssociated(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	stranger := f.addAccount(2)
	id := f.createFungible(treasury, 100, nil)

	associated, status, err := f.engine.IsAssociated(id, stranger)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.False(t, associated)

	f.associate(stranger, id)
	associated, status, err = f.engine.IsAssociated(id, stranger)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.True(t, associated)
}

func TestTokenInfoView(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	id := f.createFungible(treasury, 1000, func(def *TokenDefinition) {
		def.Memo = "info view"
		def.KycKey = types.Key{0x0E}
	})

	info, status, err := f.engine.TokenInfo(id)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, "Demo Coin", info.Token.Name)
	require.Equal(t, "info view", info.Token.Memo)
	require.Equal(t, uint64(1000), info.TotalSupply)
	require.False(t, info.Deleted)
	require.False(t, info.Paused)
	require.False(t, info.DefaultKyc)

	_, status, err = f.engine.TokenInfo(types.NewEntityID(99))
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTokenID, status)
}
