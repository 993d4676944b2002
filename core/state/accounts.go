package state

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"tokennet/core/types"
)

// GetAccount loads the account record for id. A nil account with no error
// means the account does not exist.
func (m *Manager) GetAccount(id types.EntityID) (*types.Account, error) {
	data, err := m.rawGet(accountKey(id))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	account := new(types.Account)
	if err := rlp.DecodeBytes(data, account); err != nil {
		return nil, fmt.Errorf("state: decode account %s: %w", id, err)
	}
	return account, nil
}

// PutAccount stages the full account record. The write replaces any prior
// value; partial updates do not exist.
func (m *Manager) PutAccount(account *types.Account) error {
	if account == nil || account.ID.IsZero() {
		return fmt.Errorf("state: account with unset id")
	}
	encoded, err := rlp.EncodeToBytes(account)
	if err != nil {
		return fmt.Errorf("state: encode account %s: %w", account.ID, err)
	}
	m.rawPut(FamilyAccounts, account.ID.String(), accountKey(account.ID), encoded)
	if len(account.Alias) > 0 {
		m.rawPut(FamilyAliases, account.ID.String(), aliasKey(account.Alias), appendEntityID(nil, account.ID))
	}
	return nil
}

// RemoveAccount stages removal of the account record.
func (m *Manager) RemoveAccount(id types.EntityID) {
	m.rawRemove(FamilyAccounts, id.String(), accountKey(id))
}

// AccountByAlias resolves an alias byte string to a numeric account id.
func (m *Manager) AccountByAlias(alias []byte) (types.EntityID, bool, error) {
	data, err := m.rawGet(aliasKey(alias))
	if err != nil {
		return types.EntityID{}, false, err
	}
	if len(data) != 24 {
		return types.EntityID{}, false, nil
	}
	id := types.EntityID{
		Shard: binary.BigEndian.Uint64(data[0:8]),
		Realm: binary.BigEndian.Uint64(data[8:16]),
		Num:   binary.BigEndian.Uint64(data[16:24]),
	}
	return id, true, nil
}
