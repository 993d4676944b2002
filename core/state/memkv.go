package state

// MemKV is a map-backed KV used in tests and tooling where no merkle
// backing is needed.
type MemKV struct {
	data map[string][]byte
}

// NewMemKV returns an empty in-memory KV.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

func (kv *MemKV) Get(key []byte) ([]byte, error) {
	value, ok := kv.data[string(key)]
	if !ok {
		return nil, nil
	}
	return value, nil
}

func (kv *MemKV) Update(key, value []byte) error {
	dup := make([]byte, len(value))
	copy(dup, value)
	kv.data[string(key)] = dup
	return nil
}

func (kv *MemKV) Delete(key []byte) error {
	delete(kv.data, string(key))
	return nil
}

// Len reports the number of stored keys.
func (kv *MemKV) Len() int { return len(kv.data) }
