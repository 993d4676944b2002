package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"tokennet/core/types"
)

// GetNft loads one serial of a non-fungible token. A nil record with no
// error means the serial does not exist.
func (m *Manager) GetNft(id types.NftID) (*types.Nft, error) {
	data, err := m.rawGet(nftKey(id))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	nft := new(types.Nft)
	if err := rlp.DecodeBytes(data, nft); err != nil {
		return nil, fmt.Errorf("state: decode nft %s: %w", id, err)
	}
	return nft, nil
}

// PutNft stages the full serial record.
func (m *Manager) PutNft(nft *types.Nft) error {
	if nft == nil || nft.ID.Token.IsZero() || nft.ID.Serial == 0 {
		return fmt.Errorf("state: nft with unset id")
	}
	encoded, err := rlp.EncodeToBytes(nft)
	if err != nil {
		return fmt.Errorf("state: encode nft %s: %w", nft.ID, err)
	}
	m.rawPut(FamilyNfts, nft.ID.String(), nftKey(nft.ID), encoded)
	return nil
}

// RemoveNft stages removal of the serial record.
func (m *Manager) RemoveNft(id types.NftID) {
	m.rawRemove(FamilyNfts, id.String(), nftKey(id))
}
