package tokens

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"tokennet/core/types"
)

func TestTransferMovesBalance(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	id := f.createFungible(treasury, 1000, nil)
	f.associate(holder, id)

	status, err := f.engine.TransferToken(id, treasury, holder, 100, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	require.Equal(t, uint64(900), f.balance(treasury, id))
	require.Equal(t, uint64(100), f.balance(holder, id))
	require.Equal(t, uint64(1), f.account(holder).PositiveBalances)
}

func TestTransferFrozenAccountRevertsUntouched(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	freezeKey := types.Key{0x0F}
	id := f.createFungible(treasury, 1000, func(def *TokenDefinition) { def.FreezeKey = freezeKey })
	f.associate(holder, id)

	status, err := f.engine.Freeze(id, holder, KeySet{freezeKey})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.TransferToken(id, treasury, holder, 100, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusAccountFrozenForToken, status)
	require.Equal(t, uint64(1000), f.balance(treasury, id))
	require.Equal(t, uint64(0), f.balance(holder, id))

	status, err = f.engine.Unfreeze(id, holder, KeySet{freezeKey})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.TransferToken(id, treasury, holder, 100, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(900), f.balance(treasury, id))
	require.Equal(t, uint64(100), f.balance(holder, id))
}

func TestTransferFailures(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	id := f.createFungible(treasury, 1000, nil)
	f.associate(holder, id)

	t.Run("insufficient balance", func(t *testing.T) {
		status, err := f.engine.TransferToken(id, holder, treasury, 1, holder)
		require.NoError(t, err)
		require.Equal(t, StatusInsufficientTokenBalance, status)
	})

	t.Run("unassociated receiver", func(t *testing.T) {
		stranger := f.addAccount(3)
		status, err := f.engine.TransferToken(id, treasury, stranger, 1, treasury)
		require.NoError(t, err)
		require.Equal(t, StatusNotAssociated, status)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		status, err := f.engine.TransferToken(id, treasury, types.NewEntityID(99), 1, treasury)
		require.NoError(t, err)
		require.Equal(t, StatusInvalidTransferAccount, status)
	})

	t.Run("not zero sum", func(t *testing.T) {
		lists := []TokenTransferList{{
			TokenID: id,
			Adjustments: []Adjustment{
				{Account: treasury, Amount: -100},
				{Account: holder, Amount: 50},
			},
		}}
		status, err := f.engine.Transfer(lists, treasury)
		require.NoError(t, err)
		require.Equal(t, StatusTransfersNotZeroSum, status)
		require.Equal(t, uint64(1000), f.balance(treasury, id))
	})
}

func TestTransferKycGate(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	kycKey := types.Key{0x0E}
	id := f.createFungible(treasury, 1000, func(def *TokenDefinition) { def.KycKey = kycKey })
	f.associate(holder, id)

	status, err := f.engine.TransferToken(id, treasury, holder, 100, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusAccountKycNotGranted, status)

	status, err = f.engine.GrantKyc(id, holder, KeySet{kycKey})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.TransferToken(id, treasury, holder, 100, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
}

func TestTransferSpendsAllowance(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	spender := f.addAccount(2)
	receiver := f.addAccount(3)
	id := f.createFungible(treasury, 1000, nil)
	f.associate(spender, id)
	f.associate(receiver, id)

	status, err := f.engine.ApproveToken(treasury, spender, id, 100)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.TransferToken(id, treasury, receiver, 60, spender)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(940), f.balance(treasury, id))
	require.Equal(t, uint64(60), f.balance(receiver, id))

	remaining, status, err := f.engine.Allowance(treasury, spender, id)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(40), remaining)

	status, err = f.engine.TransferToken(id, treasury, receiver, 60, spender)
	require.NoError(t, err)
	require.Equal(t, StatusAmountExceedsAllowance, status)

	status, err = f.engine.TransferToken(id, treasury, receiver, 1, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusSpenderHasNoAllowance, status)
}

func TestTransferTokenRejectsAmountPastInt64(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	id := f.createFungible(treasury, 1000, nil)
	f.associate(holder, id)

	status, err := f.engine.TransferToken(id, treasury, holder, uint64(math.MaxInt64)+1, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTransferAmount, status)
	require.Equal(t, uint64(1000), f.balance(treasury, id))
	require.Equal(t, uint64(0), f.balance(holder, id))
}

func TestTransferUnmarkedThirdPartyDebitRejected(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	spender := f.addAccount(2)
	receiver := f.addAccount(3)
	id := f.createFungible(treasury, 1000, nil)
	f.associate(spender, id)
	f.associate(receiver, id)

	status, err := f.engine.ApproveToken(treasury, spender, id, 100)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	// A debit on someone else's account must carry the approval mark even
	// when an allowance exists; otherwise the movement is unsigned.
	status, err = f.engine.Transfer([]TokenTransferList{{
		TokenID: id,
		Adjustments: []Adjustment{
			{Account: treasury, Amount: -60},
			{Account: receiver, Amount: 60},
		},
	}}, spender)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidSignature, status)
	require.Equal(t, uint64(1000), f.balance(treasury, id))

	remaining, status, err := f.engine.Allowance(treasury, spender, id)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(100), remaining, "allowance is not spent by a rejected debit")

	status, err = f.engine.Transfer([]TokenTransferList{{
		TokenID: id,
		Adjustments: []Adjustment{
			{Account: treasury, Amount: -60, IsApproval: true},
			{Account: receiver, Amount: 60},
		},
	}}, spender)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(60), f.balance(receiver, id))
}

func TestTransferUnmarkedNftExchangeRejected(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	spender := f.addAccount(2)
	receiver := f.addAccount(3)
	supplyKey := types.Key{0x51}
	id := f.createNft(treasury, nil)
	serials := f.mintSerials(id, supplyKey, 1)
	f.associate(spender, id)
	f.associate(receiver, id)

	status, err := f.engine.ApproveNft(treasury, spender, id, serials[0])
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.Transfer([]TokenTransferList{{
		TokenID:      id,
		NftExchanges: []NftExchange{{Serial: serials[0], From: treasury, To: receiver}},
	}}, spender)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidSignature, status)

	owner, status, err := f.engine.OwnerOf(id, serials[0])
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, treasury, owner)

	status, err = f.engine.Transfer([]TokenTransferList{{
		TokenID:      id,
		NftExchanges: []NftExchange{{Serial: serials[0], From: treasury, To: receiver, IsApproval: true}},
	}}, spender)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
}

func TestTransferNftBySingleSerialSpender(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	spender := f.addAccount(2)
	receiver := f.addAccount(3)
	supplyKey := types.Key{0x51}
	id := f.createNft(treasury, nil)
	serials := f.mintSerials(id, supplyKey, 1)
	f.associate(spender, id)
	f.associate(receiver, id)

	status, err := f.engine.ApproveNft(treasury, spender, id, serials[0])
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.TransferNft(id, serials[0], treasury, receiver, spender)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	owner, status, err := f.engine.OwnerOf(id, serials[0])
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, receiver, owner)

	// The per-serial approval does not survive the transfer.
	approved, status, err := f.engine.GetApproved(id, serials[0])
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.True(t, approved.IsZero())
}

func TestTransferNftByApproveForAllHolder(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	operator := f.addAccount(2)
	receiver := f.addAccount(3)
	supplyKey := types.Key{0x51}
	id := f.createNft(treasury, nil)
	serials := f.mintSerials(id, supplyKey, 2)
	f.associate(operator, id)
	f.associate(receiver, id)

	status, err := f.engine.SetApprovalForAll(treasury, operator, id, true)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	for _, serial := range serials {
		status, err = f.engine.TransferNft(id, serial, treasury, receiver, operator)
		require.NoError(t, err)
		require.Equal(t, StatusOK, status)
	}
	require.Equal(t, uint64(2), f.account(receiver).OwnedNfts)
	require.Equal(t, uint64(0), f.account(treasury).OwnedNfts)
}

func TestTransferNftWithoutApproval(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	stranger := f.addAccount(2)
	receiver := f.addAccount(3)
	supplyKey := types.Key{0x51}
	id := f.createNft(treasury, nil)
	serials := f.mintSerials(id, supplyKey, 1)
	f.associate(stranger, id)
	f.associate(receiver, id)

	status, err := f.engine.TransferNft(id, serials[0], treasury, receiver, stranger)
	require.NoError(t, err)
	require.Equal(t, StatusSpenderHasNoAllowance, status)
}

func TestTransferNftSenderMustOwnSerial(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	receiver := f.addAccount(3)
	supplyKey := types.Key{0x51}
	id := f.createNft(treasury, nil)
	serials := f.mintSerials(id, supplyKey, 1)
	f.associate(holder, id)
	f.associate(receiver, id)

	status, err := f.engine.TransferNft(id, serials[0], holder, receiver, holder)
	require.NoError(t, err)
	require.Equal(t, StatusSenderDoesNotOwnNftSerial, status)
}

func TestTransferMultiTokenAtomicity(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	first := f.createFungible(treasury, 1000, nil)
	second := f.createFungible(treasury, 1000, nil)
	f.associate(holder, first)

	lists := []TokenTransferList{
		{TokenID: first, Adjustments: []Adjustment{
			{Account: treasury, Amount: -10},
			{Account: holder, Amount: 10},
		}},
		{TokenID: second, Adjustments: []Adjustment{
			{Account: treasury, Amount: -10},
			{Account: holder, Amount: 10},
		}},
	}
	status, err := f.engine.Transfer(lists, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusNotAssociated, status)

	// The first list's movements were rolled back with the second's failure.
	require.Equal(t, uint64(1000), f.balance(treasury, first))
	require.Equal(t, uint64(0), f.balance(holder, first))
}

func TestTransferRejectsMismatchedTokenType(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	fungible := f.createFungible(treasury, 1000, nil)
	unique := f.createNft(treasury, nil)
	f.associate(holder, fungible, unique)

	status, err := f.engine.Transfer([]TokenTransferList{{
		TokenID:      fungible,
		NftExchanges: []NftExchange{{Serial: 1, From: treasury, To: holder}},
	}}, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidNftID, status)

	status, err = f.engine.Transfer([]TokenTransferList{{
		TokenID: unique,
		Adjustments: []Adjustment{
			{Account: treasury, Amount: -1},
			{Account: holder, Amount: 1},
		},
	}}, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTokenID, status)
}
