package types

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EntityID identifies an account, token or other ledger entity by its
// shard.realm.num triplet. The zero value is not a valid id.
type EntityID struct {
	Shard uint64 `json:"shard"`
	Realm uint64 `json:"realm"`
	Num   uint64 `json:"num"`
}

// NewEntityID returns an id in the default shard and realm.
func NewEntityID(num uint64) EntityID {
	return EntityID{Num: num}
}

// IsZero reports whether the id is the unset zero value.
func (id EntityID) IsZero() bool {
	return id.Shard == 0 && id.Realm == 0 && id.Num == 0
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

// Address renders the id in its 20-byte long-zero form: 4 bytes of shard,
// 8 bytes of realm and 8 bytes of entity number, big endian.
func (id EntityID) Address() common.Address {
	var addr common.Address
	binary.BigEndian.PutUint32(addr[0:4], uint32(id.Shard))
	binary.BigEndian.PutUint64(addr[4:12], id.Realm)
	binary.BigEndian.PutUint64(addr[12:20], id.Num)
	return addr
}

// EntityIDFromAddress recovers an id from a long-zero address. The second
// return value is false when the address carries high bytes that cannot have
// come from Address, i.e. it is an alias rather than a numeric id.
func EntityIDFromAddress(addr common.Address) (EntityID, bool) {
	id := EntityID{
		Shard: uint64(binary.BigEndian.Uint32(addr[0:4])),
		Realm: binary.BigEndian.Uint64(addr[4:12]),
		Num:   binary.BigEndian.Uint64(addr[12:20]),
	}
	if id.Shard != 0 || id.Realm != 0 {
		return EntityID{}, false
	}
	return id, true
}

// NftID identifies one serial of a non-fungible token.
type NftID struct {
	Token  EntityID `json:"token"`
	Serial uint64   `json:"serial"`
}

func (id NftID) String() string {
	return fmt.Sprintf("%s/%d", id.Token, id.Serial)
}

// RelationID keys a token association.
type RelationID struct {
	Account EntityID `json:"account"`
	Token   EntityID `json:"token"`
}
