package state

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

var errNilBacking = errors.New("state: backing kv not configured")

// KV is the abstract key-value state the entity stores operate on. It is
// satisfied by the merkle trie wrapper in production and by a plain map in
// tests. Get returns a nil value and no error for absent keys.
type KV interface {
	Get(key []byte) ([]byte, error)
	Update(key, value []byte) error
	Delete(key []byte) error
}

// Family names one entity keyspace for modified-set reporting.
type Family string

const (
	FamilyAccounts  Family = "accounts"
	FamilyTokens    Family = "tokens"
	FamilyRelations Family = "relations"
	FamilyNfts      Family = "nfts"
	FamilyAirdrops  Family = "airdrops"
	FamilyAliases   Family = "aliases"
	FamilySystem    Family = "system"
)

// Modified summarises which logical entities changed since the last commit,
// keyed by family. Entries are sorted for deterministic consumption by the
// surrounding commit protocol.
type Modified map[Family][]string

type overlayEntry struct {
	value   []byte
	deleted bool
}

type journalEntry struct {
	key     common.Hash
	prev    *overlayEntry
	family  Family
	ref     string
	hadMark bool
}

// Manager stages entity writes over a backing KV. Reads consult the staged
// overlay first, so a unit of work observes its own writes before they are
// committed. Snapshot/RevertToSnapshot give nested callers (precompile
// dispatches inside a contract call) the same discard boundary as the
// top-level transaction.
//
// Manager is not safe for concurrent use; the transaction pipeline is
// single-threaded by design.
type Manager struct {
	kv       KV
	overlay  map[common.Hash]overlayEntry
	journal  []journalEntry
	modified map[Family]map[string]struct{}
}

// NewManager creates a staged state manager over the provided backing KV.
func NewManager(kv KV) *Manager {
	return &Manager{
		kv:       kv,
		overlay:  make(map[common.Hash]overlayEntry),
		modified: make(map[Family]map[string]struct{}),
	}
}

func (m *Manager) rawGet(key common.Hash) ([]byte, error) {
	if entry, ok := m.overlay[key]; ok {
		if entry.deleted {
			return nil, nil
		}
		return entry.value, nil
	}
	if m.kv == nil {
		return nil, errNilBacking
	}
	return m.kv.Get(key.Bytes())
}

func (m *Manager) stage(family Family, ref string, key common.Hash, entry overlayEntry) {
	record := journalEntry{key: key, family: family, ref: ref}
	if prev, ok := m.overlay[key]; ok {
		record.prev = &prev
	}
	if marks, ok := m.modified[family]; ok {
		_, record.hadMark = marks[ref]
	}
	m.journal = append(m.journal, record)
	m.overlay[key] = entry
	marks, ok := m.modified[family]
	if !ok {
		marks = make(map[string]struct{})
		m.modified[family] = marks
	}
	marks[ref] = struct{}{}
}

func (m *Manager) rawPut(family Family, ref string, key common.Hash, value []byte) {
	m.stage(family, ref, key, overlayEntry{value: value})
}

func (m *Manager) rawRemove(family Family, ref string, key common.Hash) {
	m.stage(family, ref, key, overlayEntry{deleted: true})
}

// Snapshot returns an identifier for the current staging position. Passing it
// to RevertToSnapshot undoes every write staged after this point.
func (m *Manager) Snapshot() int {
	return len(m.journal)
}

// RevertToSnapshot rolls the staged overlay back to a position previously
// returned by Snapshot. Reverting to an unknown position is a programming
// error and panics.
func (m *Manager) RevertToSnapshot(id int) {
	if id < 0 || id > len(m.journal) {
		panic(fmt.Sprintf("state: invalid snapshot id %d (journal length %d)", id, len(m.journal)))
	}
	for i := len(m.journal) - 1; i >= id; i-- {
		record := m.journal[i]
		if record.prev != nil {
			m.overlay[record.key] = *record.prev
		} else {
			delete(m.overlay, record.key)
		}
		if !record.hadMark {
			if marks, ok := m.modified[record.family]; ok {
				delete(marks, record.ref)
			}
		}
	}
	m.journal = m.journal[:id]
}

// Pending reports the modified set accumulated since the last commit without
// flushing anything.
func (m *Manager) Pending() Modified {
	return m.snapshotModified()
}

func (m *Manager) snapshotModified() Modified {
	out := make(Modified, len(m.modified))
	for family, marks := range m.modified {
		if len(marks) == 0 {
			continue
		}
		refs := make([]string, 0, len(marks))
		for ref := range marks {
			refs = append(refs, ref)
		}
		sort.Strings(refs)
		out[family] = refs
	}
	return out
}

// Commit flushes the staged overlay to the backing KV in deterministic key
// order and returns the modified-set summary. The staging area is empty
// afterwards; making the writes durable (trie commit) is the caller's
// responsibility.
func (m *Manager) Commit() (Modified, error) {
	if m.kv == nil {
		return nil, errNilBacking
	}
	keys := make([]common.Hash, 0, len(m.overlay))
	for key := range m.overlay {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Cmp(keys[j]) < 0
	})
	for _, key := range keys {
		entry := m.overlay[key]
		if entry.deleted {
			if err := m.kv.Delete(key.Bytes()); err != nil {
				return nil, err
			}
			continue
		}
		if err := m.kv.Update(key.Bytes(), entry.value); err != nil {
			return nil, err
		}
	}
	summary := m.snapshotModified()
	m.Discard()
	return summary, nil
}

// Discard drops every staged write and modified mark without touching the
// backing KV.
func (m *Manager) Discard() {
	m.overlay = make(map[common.Hash]overlayEntry)
	m.journal = nil
	m.modified = make(map[Family]map[string]struct{})
}
