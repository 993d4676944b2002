package trie

import (
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb"
	gethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/trie/trienode"
	"github.com/ethereum/go-ethereum/triedb"

	"tokennet/core/state"
)

// Trie wraps go-ethereum's trie implementation to expose a simplified API for
// the rest of the codebase while keeping access to the underlying trie
// database.
//
// The wrapper keeps track of the last committed root and recreates the
// underlying trie after each commit/reset so the instance can be reused
// across transactions.
//
// The keys passed into Get/Update/Delete are expected to be fully hashed
// (keccak256) before insertion.
//
// Trie is not safe for concurrent use.
type Trie struct {
	db     ethdb.Database
	trieDB *triedb.Database
	trie   *gethtrie.Trie
	root   common.Hash
}

var _ state.KV = (*Trie)(nil)

// NewTrie creates a trie backed by the provided database and optional root. A
// nil or empty root denotes the empty trie.
func NewTrie(db ethdb.Database, root []byte) (*Trie, error) {
	trieDB := triedb.NewDatabase(db, nil)
	rootHash := gethtypes.EmptyRootHash
	if len(root) > 0 {
		rootHash = common.BytesToHash(root)
	}
	underlying, err := gethtrie.New(gethtrie.TrieID(rootHash), trieDB)
	if err != nil {
		return nil, err
	}
	return &Trie{
		db:     db,
		trieDB: trieDB,
		trie:   underlying,
		root:   rootHash,
	}, nil
}

// Get retrieves a value from the trie for the provided key. Absent keys
// yield a nil value and no error.
func (t *Trie) Get(key []byte) ([]byte, error) {
	return t.trie.Get(key)
}

// Update inserts or updates a value in the trie for the provided key.
func (t *Trie) Update(key, value []byte) error {
	return t.trie.Update(key, value)
}

// Delete removes the value stored under key.
func (t *Trie) Delete(key []byte) error {
	return t.trie.Delete(key)
}

// Hash returns the root hash of the trie reflecting all in-memory mutations.
func (t *Trie) Hash() common.Hash {
	return t.trie.Hash()
}

// Root returns the last committed root hash.
func (t *Trie) Root() common.Hash {
	return t.root
}

// Reset discards any in-memory changes and reloads the trie at the provided
// root. It is primarily used to roll back speculative state transitions.
func (t *Trie) Reset(root common.Hash) error {
	underlying, err := gethtrie.New(gethtrie.TrieID(root), t.trieDB)
	if err != nil {
		return err
	}
	t.trie = underlying
	t.root = root
	return nil
}

// Copy creates a shallow copy of the trie wrapper using go-ethereum's trie
// cloning facilities. The returned trie shares the same underlying database
// but can be mutated independently.
func (t *Trie) Copy() *Trie {
	return &Trie{
		db:     t.db,
		trieDB: t.trieDB,
		trie:   t.trie.Copy(),
		root:   t.root,
	}
}

// Commit persists the trie changes to the backing database and returns the
// new root hash. After committing the wrapper recreates the underlying trie
// so it can be reused for subsequent transitions.
func (t *Trie) Commit(parent common.Hash, blockNumber uint64) (common.Hash, error) {
	newRoot, nodes := t.trie.Commit(false)
	if nodes != nil {
		merged := trienode.NewMergedNodeSet()
		if err := merged.Merge(nodes); err != nil {
			return common.Hash{}, err
		}
		if err := t.trieDB.Update(newRoot, parent, blockNumber, merged, nil); err != nil {
			return common.Hash{}, err
		}
		if err := t.trieDB.Commit(newRoot, false); err != nil {
			return common.Hash{}, err
		}
	}
	underlying, err := gethtrie.New(gethtrie.TrieID(newRoot), t.trieDB)
	if err != nil {
		return common.Hash{}, err
	}
	t.trie = underlying
	t.root = newRoot
	return newRoot, nil
}

// TrieDB exposes the underlying triedb.Database used by the trie. The
// returned handle can be shared with other state management layers to ensure
// all state mutations operate on the same backing storage.
func (t *Trie) TrieDB() *triedb.Database {
	return t.trieDB
}
