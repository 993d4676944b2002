package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tokennet/core/types"
)

func TestAssociateCreatesRelationWithTokenDefaults(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	gated := f.createFungible(treasury, 100, func(def *TokenDefinition) {
		def.FreezeKey = types.Key{0x0F}
		def.DefaultFrozen = true
		def.KycKey = types.Key{0x0E}
	})
	open := f.createFungible(treasury, 100, nil)

	f.associate(holder, gated, open)

	relation := f.relation(holder, gated)
	require.NotNil(t, relation)
	require.True(t, relation.Frozen)
	require.False(t, relation.KycGranted)
	require.False(t, relation.AutomaticAssociation)

	relation = f.relation(holder, open)
	require.NotNil(t, relation)
	require.False(t, relation.Frozen)
	require.True(t, relation.KycGranted, "no KYC key means every holder is granted")

	require.Equal(t, uint64(2), f.account(holder).NumberAssociations)
}

func TestAssociateRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	id := f.createFungible(treasury, 100, nil)
	f.associate(holder, id)

	status, err := f.engine.Associate(holder, []types.EntityID{id})
	require.NoError(t, err)
	require.Equal(t, StatusAlreadyAssociated, status)

	other := f.createFungible(treasury, 100, nil)
	status, err = f.engine.Associate(holder, []types.EntityID{other, other})
	require.NoError(t, err)
	require.Equal(t, StatusAlreadyAssociated, status)

	// The batch failed whole: the non-duplicate entry did not land either.
	require.Nil(t, f.relation(holder, other))
}

func TestAssociateUnknownToken(t *testing.T) {
	f := newFixture(t)
	holder := f.addAccount(2)

	status, err := f.engine.Associate(holder, []types.EntityID{types.NewEntityID(77)})
	require.NoError(t, err)
	require.Equal(t, StatusInvalidTokenID, status)
}

func TestAssociateBatchLimit(t *testing.T) {
	f := newFixture(t)
	holder := f.addAccount(2)

	batch := make([]types.EntityID, f.engine.cfg.MaxBatchSize+1)
	for i := range batch {
		batch[i] = types.NewEntityID(uint64(100 + i))
	}
	status, err := f.engine.Associate(holder, batch)
	require.NoError(t, err)
	require.Equal(t, StatusBatchSizeExceeded, status)
}

func TestDissociateRemovesRelation(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	id := f.createFungible(treasury, 100, nil)
	f.associate(holder, id)

	status, err := f.engine.Dissociate(holder, []types.EntityID{id})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Nil(t, f.relation(holder, id))
	require.Equal(t, uint64(0), f.account(holder).NumberAssociations)

	status, err = f.engine.Dissociate(holder, []types.EntityID{id})
	require.NoError(t, err)
	require.Equal(t, StatusNotAssociated, status)
}

func TestDissociateBlocksNonZeroBalance(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	id := f.createFungible(treasury, 100, nil)
	f.associate(holder, id)

	status, err := f.engine.TransferToken(id, treasury, holder, 10, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.Dissociate(holder, []types.EntityID{id})
	require.NoError(t, err)
	require.Equal(t, StatusAccountBalancesNotZero, status)
}

func TestDissociateDeletedFungibleWithBalance(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	adminKey := types.Key{0xAD}
	id := f.createFungible(treasury, 100, func(def *TokenDefinition) { def.AdminKey = adminKey })
	f.associate(holder, id)

	status, err := f.engine.TransferToken(id, treasury, holder, 10, treasury)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.DeleteToken(id, KeySet{adminKey})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	// A deleted token no longer traps its holders' balances.
	status, err = f.engine.Dissociate(holder, []types.EntityID{id})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(0), f.account(holder).PositiveBalances)
}

func TestDissociateTreasuryBlocked(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	id := f.createFungible(treasury, 0, nil)

	status, err := f.engine.Dissociate(treasury, []types.EntityID{id})
	require.NoError(t, err)
	require.Equal(t, StatusAccountIsTreasury, status)
}

func TestDissociateReturnsAutoSlot(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	receiver := f.addAccountWithAutoSlots(2, 1)
	id := f.createFungible(treasury, 100, nil)

	status, err := f.engine.Airdrop(treasury, id, []AirdropTransfer{{Receiver: receiver, Amount: 10}})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(1), f.account(receiver).UsedAutoAssociations)

	status, err = f.engine.TransferToken(id, receiver, treasury, 10, receiver)
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)

	status, err = f.engine.Dissociate(receiver, []types.EntityID{id})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	require.Equal(t, uint64(0), f.account(receiver).UsedAutoAssociations)
}

func TestAssociationLifecycleSequence(t *testing.T) {
	f := newFixture(t)
	treasury := f.addAccount(1)
	holder := f.addAccount(2)
	x := f.createFungible(treasury, 100, nil)
	y := f.createFungible(treasury, 100, nil)
	z := f.createFungible(treasury, 100, nil)

	assertSet := func(want map[types.EntityID]bool) {
		t.Helper()
		for _, id := range []types.EntityID{x, y, z} {
			relation := f.relation(holder, id)
			if want[id] {
				require.NotNil(t, relation, "token %v should be associated", id)
			} else {
				require.Nil(t, relation, "token %v should not be associated", id)
			}
		}
	}

	f.associate(holder, x, y)
	assertSet(map[types.EntityID]bool{x: true, y: true})
	require.Equal(t, uint64(2), f.account(holder).NumberAssociations)

	status, err := f.engine.Dissociate(holder, []types.EntityID{y})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	assertSet(map[types.EntityID]bool{x: true})

	f.associate(holder, z)
	assertSet(map[types.EntityID]bool{x: true, z: true})

	status, err = f.engine.Dissociate(holder, []types.EntityID{x, z})
	require.NoError(t, err)
	require.Equal(t, StatusOK, status)
	assertSet(map[types.EntityID]bool{})
	require.Equal(t, uint64(0), f.account(holder).NumberAssociations)
}
