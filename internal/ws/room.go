package ws

import "fmt"

type RoomKind string

const (
	KindTeam        RoomKind = "team"
	KindCompetition RoomKind = "competition"
	KindCode        RoomKind = "code"
)

// RoomKey identifies one logical broadcast group: a team chat, a competition
// chat or a team's code workspace.
type RoomKey struct {
	Kind     RoomKind `json:"kind"`
	EntityID uint     `json:"entity_id"`
}

func TeamRoom(teamID uint) RoomKey        { return RoomKey{Kind: KindTeam, EntityID: teamID} }
func CompetitionRoom(compID uint) RoomKey { return RoomKey{Kind: KindCompetition, EntityID: compID} }
func CodeRoom(teamID uint) RoomKey        { return RoomKey{Kind: KindCode, EntityID: teamID} }

func (k RoomKey) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.EntityID)
}

// Identity is the user attached to a connection once known. Connections
// without an identity are never part of a presence snapshot.
type Identity struct {
	UserID      uint   `json:"id"`
	DisplayName string `json:"name"`
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
