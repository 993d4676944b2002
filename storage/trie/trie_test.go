package trie

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestTrieCommitFlushPersistsData(t *testing.T) {
	db := rawdb.NewMemoryDatabase()

	tr, err := NewTrie(db, nil)
	require.NoError(t, err)

	key := crypto.Keccak256Hash([]byte("key"))
	value := []byte("value")

	require.NoError(t, tr.Update(key.Bytes(), value))
	root, err := tr.Commit(common.Hash{}, 0)
	require.NoError(t, err)

	restored, err := NewTrie(db, root.Bytes())
	require.NoError(t, err)

	got, err := restored.Get(key.Bytes())
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestTrieResetDiscardsStagedWrites(t *testing.T) {
	db := rawdb.NewMemoryDatabase()

	tr, err := NewTrie(db, nil)
	require.NoError(t, err)

	key := crypto.Keccak256Hash([]byte("committed"))
	require.NoError(t, tr.Update(key.Bytes(), []byte("one")))
	root, err := tr.Commit(common.Hash{}, 0)
	require.NoError(t, err)

	stray := crypto.Keccak256Hash([]byte("stray"))
	require.NoError(t, tr.Update(stray.Bytes(), []byte("two")))
	require.NoError(t, tr.Reset(root))

	got, err := tr.Get(stray.Bytes())
	require.NoError(t, err)
	require.Nil(t, got)

	kept, err := tr.Get(key.Bytes())
	require.NoError(t, err)
	require.Equal(t, []byte("one"), kept)
}
