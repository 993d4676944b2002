package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"tokennet/core/types"
)

// GetToken loads the token record for id. A nil token with no error means
// the token does not exist.
func (m *Manager) GetToken(id types.EntityID) (*types.Token, error) {
	data, err := m.rawGet(tokenKey(id))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	token := new(types.Token)
	if err := rlp.DecodeBytes(data, token); err != nil {
		return nil, fmt.Errorf("state: decode token %s: %w", id, err)
	}
	return token, nil
}

// PutToken stages the full token record.
func (m *Manager) PutToken(token *types.Token) error {
	if token == nil || token.ID.IsZero() {
		return fmt.Errorf("state: token with unset id")
	}
	encoded, err := rlp.EncodeToBytes(token)
	if err != nil {
		return fmt.Errorf("state: encode token %s: %w", token.ID, err)
	}
	m.rawPut(FamilyTokens, token.ID.String(), tokenKey(token.ID), encoded)
	return nil
}

// RemoveToken stages removal of the token record.
func (m *Manager) RemoveToken(id types.EntityID) {
	m.rawRemove(FamilyTokens, id.String(), tokenKey(id))
}
