package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tokennet/config"
	"tokennet/core/types"
)

func TestAirdropSettlesAssociatedReceiver(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)
	f.associate(receiver, id)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(900), f.balance(sender, id))
	require.Equal(t, uint64(100), f.balance(receiver, id))
}

func TestAirdropConsumesAutoSlot(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccountWithAutoSlots(2, 1)
	id := f.createFungible(sender, 1000, nil)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(100), f.balance(receiver, id))

	relation := f.relation(receiver, id)
	require.NotNil(t, relation)
	require.True(t, relation.AutomaticAssociation)
	require.Equal(t, uint64(1), f.account(receiver).UsedAutoAssociations)
}

func TestAirdropParksWithoutSlot(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	// Parked, not escrowed: the sender keeps the value until the claim.
	require.Equal(t, uint64(1000), f.balance(sender, id))
	require.Nil(t, f.relation(receiver, id))

	pending, err := f.state.GetAirdrop(types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id})
	require.NoError(t, err)
	require.NotNil(t, pending)
	require.Equal(t, uint64(100), pending.Amount)
}

func TestAirdropFungiblePendingsAccumulate(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)

	for i := 0; i < 2; i++ {
		status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
		require.NoError(t, err)
		require.Equal(t, StatusOK, status)
	}

	pending, err := f.state.GetAirdrop(types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id})
	require.NoError(t, err)
	require.NotNil(t, pending)
	require.Equal(t, uint64(200), pending.Amount)
}

func TestAirdropDuplicateNftSerialPending(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	supplyKey := types.Key{0x51}
	id := f.createNft(sender, nil)
	serials := f.mintSerials(id, supplyKey, 1)

	drop := []AirdropTransfer{{Receiver: receiver, Serial: serials[0]}}
	status, err := f.engine.Airdrop(sender, id, drop)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.Airdrop(sender, id, drop)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidPendingAirdropID, status)
}

func TestAirdropValidatesSource(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 50, nil)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusInsufficientTokenBalance, status)

	status, err = f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: types.NewEntityID(99), Amount: 10}})
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTransferAccount, status)
}

func TestAirdropBatchIsAtomic(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)
	f.associate(receiver, id)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{
		{Receiver: receiver, Amount: 100},
		{Receiver: types.NewEntityID(99), Amount: 10},
	})
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTransferAccount, status)
	require.Equal(t, uint64(1000), f.balance(sender, id), "the settled first drop rolled back")
	require.Equal(t, uint64(0), f.balance(receiver, id))
}

func TestAirdropListsRollBackAcrossTokens(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	associated := f.addAccount(2)
	parked := f.addAccount(3)
	id := f.createFungible(sender, 1000, nil)
	f.associate(associated, id)

	lists := []AirdropList{
		{TokenID: id, Drops: []AirdropTransfer{
			{Receiver: associated, Amount: 100},
			{Receiver: parked, Amount: 50},
		}},
		{TokenID: types.NewEntityID(99), Drops: []AirdropTransfer{{Receiver: associated, Amount: 1}}},
	}
	status, err := f.engine.AirdropLists(sender, lists)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTokenID, status)

	// The first list settled and parked before the second failed; both
	// effects must be unwound.
	require.Equal(t, uint64(1000), f.balance(sender, id))
	require.Equal(t, uint64(0), f.balance(associated, id))
	pending, err := f.state.GetAirdrop(types.PendingAirdropID{Sender: sender, Receiver: parked, TokenID: id})
	require.NoError(t, err)
	require.Nil(t, pending)
}

func TestClaimAirdropsBatchRollsBack(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	good := types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id}
	bogus := types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: types.NewEntityID(99)}

	status, err = f.engine.ClaimAirdrops([]types.PendingAirdropID{good, bogus}, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidPendingAirdropID, status)

	// The first claim settled before the second failed; nothing may stick.
	require.Equal(t, uint64(1000), f.balance(sender, id))
	pending, err := f.state.GetAirdrop(good)
	require.NoError(t, err)
	require.NotNil(t, pending)
}

func TestCancelAirdropsBatchRollsBack(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	good := types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id}
	bogus := types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id, Serial: 7}

	status, err = f.engine.CancelAirdrops([]types.PendingAirdropID{good, bogus}, sender)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidPendingAirdropID, status)

	pending, err := f.state.GetAirdrop(good)
	require.NoError(t, err)
	require.NotNil(t, pending, "the removed record came back with the rollback")
}

func TestAirdropHonoursNetworkAutoSlotCap(t *testing.T) {
	f := newFixture(t)
	cfg := config.DefaultLedger()
	cfg.MaxAutoAssociations = 1
	f.engine.SetConfig(cfg)

	sender := f.addAccount(1)
	receiver := f.addAccountWithAutoSlots(2, 5)
	first := f.createFungible(sender, 1000, nil)
	second := f.createFungible(sender, 1000, nil)

	status, err := f.engine.Airdrop(sender, first, []AirdropTransfer{{Receiver: receiver, Amount: 10}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(10), f.balance(receiver, first))

	// The account advertises free slots, but the network ceiling is spent;
	// the drop parks instead of auto-associating.
	status, err = f.engine.Airdrop(sender, second, []AirdropTransfer{{Receiver: receiver, Amount: 10}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Nil(t, f.relation(receiver, second))

	pending, err := f.state.GetAirdrop(types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: second})
	require.NoError(t, err)
	require.NotNil(t, pending)
	require.Equal(t, uint64(1), f.account(receiver).UsedAutoAssociations)
}

func TestClaimAirdropCompletesTransfer(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	airdropID := types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id}

	status, err = f.engine.ClaimAirdrop(airdropID, sender)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidSignature, status, "only the receiver may claim")

	status, err = f.engine.ClaimAirdrop(airdropID, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	require.Equal(t, uint64(900), f.balance(sender, id))
	require.Equal(t, uint64(100), f.balance(receiver, id))

	// Claiming is explicit consent: no automatic slot was spent.
	account := f.account(receiver)
	require.Equal(t, uint64(0), account.UsedAutoAssociations)
	require.Equal(t, uint64(1), account.NumberAssociations)

	pending, err := f.state.GetAirdrop(airdropID)
	require.NoError(t, err)
	require.Nil(t, pending)

	status, err = f.engine.ClaimAirdrop(airdropID, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidPendingAirdropID, status)
}

func TestClaimAirdropRevalidatesSenderBalance(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	drain := f.addAccount(3)
	id := f.createFungible(sender, 100, nil)
	f.associate(drain, id)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	// The sender spends the promised value before the claim lands.
	status, err = f.engine.TransferToken(id, sender, drain, 60, sender)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	airdropID := types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id}
	status, err = f.engine.ClaimAirdrop(airdropID, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusInsufficientTokenBalance, status)

	// The pending record survives a failed claim.
	pending, err := f.state.GetAirdrop(airdropID)
	require.NoError(t, err)
	require.NotNil(t, pending)
}

func TestClaimAirdropNftSerial(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	supplyKey := types.Key{0x51}
	id := f.createNft(sender, nil)
	serials := f.mintSerials(id, supplyKey, 1)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Serial: serials[0]}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	airdropID := types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id, Serial: serials[0]}
	status, err = f.engine.ClaimAirdrop(airdropID, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	owner, status, err := f.engine.OwnerOf(id, serials[0])
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, receiver, owner)
}

func TestCancelAirdrop(t *testing.T) {
	f := newFixture(t)
	sender := f.addAccount(1)
	receiver := f.addAccount(2)
	id := f.createFungible(sender, 1000, nil)

	status, err := f.engine.Airdrop(sender, id, []AirdropTransfer{{Receiver: receiver, Amount: 100}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	airdropID := types.PendingAirdropID{Sender: sender, Receiver: receiver, TokenID: id}

	status, err = f.engine.CancelAirdrop(airdropID, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidSignature, status, "only the sender may cancel")

	status, err = f.engine.CancelAirdrop(airdropID, sender)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	pending, err := f.state.GetAirdrop(airdropID)
	require.NoError(t, err)
	require.Nil(t, pending)

	status, err = f.engine.ClaimAirdrop(airdropID, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusInvalidPendingAirdropID, status)
}
