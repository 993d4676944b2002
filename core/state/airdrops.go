package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"tokennet/core/types"
)

func airdropRef(id types.PendingAirdropID) string {
	return fmt.Sprintf("%s>%s:%s/%d", id.Sender, id.Receiver, id.TokenID, id.Serial)
}

// GetAirdrop loads a pending airdrop record. A nil record with no error
// means nothing is pending under the id.
func (m *Manager) GetAirdrop(id types.PendingAirdropID) (*types.PendingAirdrop, error) {
	data, err := m.rawGet(airdropKey(id))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	airdrop := new(types.PendingAirdrop)
	if err := rlp.DecodeBytes(data, airdrop); err != nil {
		return nil, fmt.Errorf("state: decode airdrop %s: %w", airdropRef(id), err)
	}
	return airdrop, nil
}

// PutAirdrop stages the full pending airdrop record.
func (m *Manager) PutAirdrop(airdrop *types.PendingAirdrop) error {
	if airdrop == nil || airdrop.ID.TokenID.IsZero() {
		return fmt.Errorf("state: airdrop with unset id")
	}
	encoded, err := rlp.EncodeToBytes(airdrop)
	if err != nil {
		return fmt.Errorf("state: encode airdrop %s: %w", airdropRef(airdrop.ID), err)
	}
	m.rawPut(FamilyAirdrops, airdropRef(airdrop.ID), airdropKey(airdrop.ID), encoded)
	return nil
}

// RemoveAirdrop stages removal of the pending airdrop record.
func (m *Manager) RemoveAirdrop(id types.PendingAirdropID) {
	m.rawRemove(FamilyAirdrops, airdropRef(id), airdropKey(id))
}
