package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"tokennet/core/types"
)

func relationRef(account, token types.EntityID) string {
	return account.String() + "|" + token.String()
}

// GetRelation loads the association record for the (account, token) pair. A
// nil relation with no error means the pair is not associated.
func (m *Manager) GetRelation(account, token types.EntityID) (*types.TokenRelation, error) {
	data, err := m.rawGet(relationKey(account, token))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	relation := new(types.TokenRelation)
	if err := rlp.DecodeBytes(data, relation); err != nil {
		return nil, fmt.Errorf("state: decode relation %s/%s: %w", account, token, err)
	}
	return relation, nil
}

// PutRelation stages the full association record.
func (m *Manager) PutRelation(relation *types.TokenRelation) error {
	if relation == nil || relation.Account.IsZero() || relation.TokenID.IsZero() {
		return fmt.Errorf("state: relation with unset key")
	}
	encoded, err := rlp.EncodeToBytes(relation)
	if err != nil {
		return fmt.Errorf("state: encode relation %s/%s: %w", relation.Account, relation.TokenID, err)
	}
	m.rawPut(FamilyRelations, relationRef(relation.Account, relation.TokenID), relationKey(relation.Account, relation.TokenID), encoded)
	return nil
}

// RemoveRelation stages removal of the association record.
func (m *Manager) RemoveRelation(account, token types.EntityID) {
	m.rawRemove(FamilyRelations, relationRef(account, token), relationKey(account, token))
}
