package services

import (
	"context"
	"errors"
	"testing"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/ws"
)

func newChatFixture(allow bool) (*ChatService, *fakeMessageStore, *fakeReactionStore, *ws.Hub) {
	messages := newFakeMessageStore()
	reactions := newFakeReactionStore()
	hub := ws.NewHub(nil)
	chat := NewChatService(messages, reactions, &fakeAuthz{allow: allow}, hub)
	return chat, messages, reactions, hub
}

func joinRoomSock(hub *ws.Hub, room ws.RoomKey, identity ws.Identity) *fakeSock {
	sock := &fakeSock{}
	conn := hub.Register(sock)
	hub.SetIdentity(conn.ID, identity)
	hub.JoinRoom(conn.ID, room)
	return sock
}

func TestSendMessageBroadcastsAfterPersist(t *testing.T) {
	chat, messages, _, hub := newChatFixture(true)
	room := ws.TeamRoom(5)
	listener := joinRoomSock(hub, room, ws.Identity{UserID: 2, DisplayName: "Grace"})

	msg, err := chat.SendMessage(context.Background(), room, ws.Identity{UserID: 1, DisplayName: "Ada"}, "hello", nil)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.ID == 0 {
		t.Error("persisted message should have an id")
	}
	if msg.Reactions == nil || len(msg.Reactions) != 0 {
		t.Error("broadcast message should carry an empty reaction list")
	}
	if messages.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", messages.createCalls)
	}

	events := listener.byType("team_message")
	if len(events) != 1 {
		t.Fatalf("listener got %d team_message events, want 1", len(events))
	}
	got := events[0].Data.(*models.Message)
	if got.Content != "hello" || got.AuthorName != "Ada" {
		t.Errorf("broadcast payload = %+v", got)
	}
}

func TestSendMessageEmptyIsRejectedBeforeStore(t *testing.T) {
	chat, messages, _, _ := newChatFixture(true)

	_, err := chat.SendMessage(context.Background(), ws.TeamRoom(5), ws.Identity{UserID: 1}, "   ", nil)
	if !IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if messages.createCalls != 0 {
		t.Errorf("store received %d calls, want 0", messages.createCalls)
	}
}

func TestSendMessageAttachmentOnlyIsValid(t *testing.T) {
	chat, _, _, _ := newChatFixture(true)

	attachments := []models.Attachment{{URL: "https://cdn/x.png", Kind: "image"}}
	if _, err := chat.SendMessage(context.Background(), ws.TeamRoom(5), ws.Identity{UserID: 1}, "", attachments); err != nil {
		t.Fatalf("attachment-only message rejected: %v", err)
	}
}

func TestSendMessageUnauthorizedMutatesNothing(t *testing.T) {
	chat, messages, _, hub := newChatFixture(false)
	room := ws.TeamRoom(5)
	listener := joinRoomSock(hub, room, ws.Identity{UserID: 2})

	_, err := chat.SendMessage(context.Background(), room, ws.Identity{UserID: 1}, "hello", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if messages.createCalls != 0 {
		t.Errorf("store received %d calls, want 0", messages.createCalls)
	}
	if len(listener.byType("team_message")) != 0 {
		t.Error("nothing may be broadcast on an authorization failure")
	}
}

func TestSendMessagePersistFailureIsNotBroadcast(t *testing.T) {
	chat, messages, _, hub := newChatFixture(true)
	messages.createErr = errors.New("connection reset")
	room := ws.TeamRoom(5)
	listener := joinRoomSock(hub, room, ws.Identity{UserID: 2})

	if _, err := chat.SendMessage(context.Background(), room, ws.Identity{UserID: 1}, "hello", nil); err == nil {
		t.Fatal("expected persistence error to surface")
	}
	if len(listener.byType("team_message")) != 0 {
		t.Error("an unpersisted message must never be broadcast")
	}
}

func TestToggleReactionPairIsIdempotent(t *testing.T) {
	chat, _, _, hub := newChatFixture(true)
	room := ws.CompetitionRoom(7)
	listener := joinRoomSock(hub, room, ws.Identity{UserID: 2})

	ctx := context.Background()
	msg, err := chat.SendMessage(ctx, room, ws.Identity{UserID: 1}, "gg", nil)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	added, err := chat.ToggleReaction(ctx, msg.ID, 2, "🔥")
	if err != nil || !added {
		t.Fatalf("first toggle = (%v, %v), want added", added, err)
	}
	added, err = chat.ToggleReaction(ctx, msg.ID, 2, "🔥")
	if err != nil || added {
		t.Fatalf("second toggle = (%v, %v), want removed", added, err)
	}

	if n := len(listener.byType("competition_reaction_added")); n != 1 {
		t.Errorf("got %d added events, want 1", n)
	}
	if n := len(listener.byType("competition_reaction_removed")); n != 1 {
		t.Errorf("got %d removed events, want 1", n)
	}
}

func TestToggleReactionUnknownMessage(t *testing.T) {
	chat, _, _, _ := newChatFixture(true)

	_, err := chat.ToggleReaction(context.Background(), 999, 1, "👍")
	if !IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestGetMessagesReturnsChronologicalOrder(t *testing.T) {
	chat, _, _, _ := newChatFixture(true)
	room := ws.TeamRoom(5)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := chat.SendMessage(ctx, room, ws.Identity{UserID: 1}, text, nil); err != nil {
			t.Fatalf("SendMessage(%q): %v", text, err)
		}
	}

	msgs, err := chat.GetMessages(ctx, room, 10, 0)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Content != "first" || msgs[2].Content != "third" {
		t.Errorf("order = [%s %s %s], want oldest first", msgs[0].Content, msgs[1].Content, msgs[2].Content)
	}
}
