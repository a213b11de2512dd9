package registry

import "fmt"

// IdentityKind distinguishes responder sockets from plain resident sockets.
type IdentityKind string

const (
	KindResponder IdentityKind = "responder"
	KindUser      IdentityKind = "user"
)

// Identity names the owner of a live connection.
type Identity struct {
	Kind IdentityKind
	ID   int64
}

// Key returns the identity-room key, e.g. "responder:7" or "user:12".
func (i Identity) Key() string {
	return fmt.Sprintf("%s:%d", i.Kind, i.ID)
}

// Broadcast room names. Every responder socket joins RoomAllResponders;
// every resident socket joins RoomGeneral.
const (
	RoomAllResponders = "all-responders"
	RoomGeneral       = "general"
)

// ResponderRoom returns the identity room for one responder.
func ResponderRoom(id int64) string {
	return Identity{Kind: KindResponder, ID: id}.Key()
}

// UserRoom returns the identity room for one resident.
func UserRoom(id int64) string {
	return Identity{Kind: KindUser, ID: id}.Key()
}

// GroupRoom returns the room for a named sub-group (one block/RT).
func GroupRoom(key string) string {
	return "rt:" + key
}
