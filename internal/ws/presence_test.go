package ws

import "testing"

func TestPresenceSkipsConnectionsWithoutIdentity(t *testing.T) {
	hub := NewHub(nil)
	anonSock := &fakeSock{}
	namedSock := &fakeSock{}

	anon := hub.Register(anonSock)
	named := hub.Register(namedSock)
	hub.SetIdentity(named.ID, Identity{UserID: 2, DisplayName: "u2"})

	room := TeamRoom(5)
	hub.JoinRoom(anon.ID, room)
	hub.JoinRoom(named.ID, room)

	snapshot := anonSock.last(t, "team_users_update")
	users := snapshot.Data.([]Identity)
	if len(users) != 1 {
		t.Fatalf("presence has %d entries, want 1: %v", len(users), users)
	}
	if users[0].UserID != 2 {
		t.Errorf("presence entry = %v, want user 2", users[0])
	}
}

func TestPresenceDeduplicatesByUser(t *testing.T) {
	hub := NewHub(nil)
	first := &fakeSock{}
	second := &fakeSock{}

	a := hub.Register(first)
	b := hub.Register(second)
	hub.SetIdentity(a.ID, Identity{UserID: 9, DisplayName: "Eve"})
	hub.SetIdentity(b.ID, Identity{UserID: 9, DisplayName: "Eve"})

	room := TeamRoom(1)
	hub.JoinRoom(a.ID, room)
	hub.JoinRoom(b.ID, room)

	snapshot := first.last(t, "team_users_update")
	users := snapshot.Data.([]Identity)
	if len(users) != 1 {
		t.Fatalf("presence has %d entries, want 1 after dedup", len(users))
	}
}

func TestPresenceTracksLeaves(t *testing.T) {
	hub := NewHub(nil)
	staying := &fakeSock{}
	leaving := &fakeSock{}

	stay := hub.Register(staying)
	leave := hub.Register(leaving)
	hub.SetIdentity(stay.ID, Identity{UserID: 1, DisplayName: "A"})
	hub.SetIdentity(leave.ID, Identity{UserID: 2, DisplayName: "B"})

	room := TeamRoom(4)
	hub.JoinRoom(stay.ID, room)
	hub.JoinRoom(leave.ID, room)
	hub.LeaveRoom(leave.ID, room)

	snapshot := staying.last(t, "team_users_update")
	users := snapshot.Data.([]Identity)
	if len(users) != 1 || users[0].UserID != 1 {
		t.Fatalf("presence after leave = %v, want only user 1", users)
	}
}

func TestCodeRoomPresenceCarriesFocusedFile(t *testing.T) {
	hub := NewHub(nil)
	sock := &fakeSock{}

	conn := hub.Register(sock)
	hub.SetIdentity(conn.ID, Identity{UserID: 3, DisplayName: "Dev"})
	hub.SetFocusedFile(conn.ID, "file-123")

	room := CodeRoom(8)
	hub.JoinRoom(conn.ID, room)

	snapshot := sock.last(t, "session_users")
	users := snapshot.Data.([]SessionUser)
	if len(users) != 1 {
		t.Fatalf("session presence has %d entries, want 1", len(users))
	}
	if users[0].FocusedFileID != "file-123" {
		t.Errorf("focused file = %q, want file-123", users[0].FocusedFileID)
	}
}
