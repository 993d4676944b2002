package state

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"tokennet/core/types"
)

var nextEntityNumKey = ethcrypto.Keccak256Hash([]byte("sys:next-entity-num"))

// firstUserEntityNum leaves room below for system accounts.
const firstUserEntityNum = 1001

// NextEntityID allocates the next entity number. The counter is staged like
// any other write, so a rolled-back transaction releases the number again.
func (m *Manager) NextEntityID() (types.EntityID, error) {
	data, err := m.rawGet(nextEntityNumKey)
	if err != nil {
		return types.EntityID{}, err
	}
	next := uint64(firstUserEntityNum)
	if len(data) == 8 {
		next = binary.BigEndian.Uint64(data)
	}
	buf := binary.BigEndian.AppendUint64(nil, next+1)
	m.rawPut(FamilySystem, "next-entity-num", nextEntityNumKey, buf)
	return types.NewEntityID(next), nil
}
