package services

import (
	"context"
	"fmt"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/store"
	"robeurope-backend/internal/ws"

	"github.com/google/uuid"
)

// CollabService owns the per-team ephemeral code workspace: an ordered file
// list stored whole in the shared ephemeral store.
//
// UpdateFile is a read-modify-write round trip with no version check. Two
// concurrent updates to the same file can interleave around that round trip
// and the write that lands last wins; the earlier one is silently lost. This
// is the documented behavior, not an oversight.
type CollabService struct {
	sessions store.SessionStore
	hub      *ws.Hub
}

func NewCollabService(sessions store.SessionStore, hub *ws.Hub) *CollabService {
	return &CollabService{sessions: sessions, hub: hub}
}

func defaultFiles() []models.SessionFile {
	empty := ""
	readme := "# Team workspace\n"
	return []models.SessionFile{
		{ID: uuid.NewString(), Name: "main.py", Content: &empty, Language: "python", Type: models.FileTypeFile},
		{ID: uuid.NewString(), Name: "README.md", Content: &readme, Language: "markdown", Type: models.FileTypeFile},
	}
}

// JoinSession lazily creates the team session, unicasts the snapshot to the
// joining connection only, records the transient session fields, then joins
// the code room, which recomputes the session presence.
func (s *CollabService) JoinSession(ctx context.Context, teamID uint, connID string, identity ws.Identity) error {
	files, err := s.sessions.InitSession(ctx, teamID, defaultFiles())
	if err != nil {
		return fmt.Errorf("init session %d: %w", teamID, err)
	}

	room := ws.CodeRoom(teamID)

	s.hub.SetIdentity(connID, identity)
	if err := s.hub.SendTo(connID, ws.WSMessage{Type: "init_code_session", Data: files}); err != nil {
		return err
	}
	s.hub.SetFocusedFile(connID, "")
	s.hub.SetCodeSessionRoom(connID, room)
	s.hub.JoinRoom(connID, room)
	return nil
}

// FileContentEvent is the broadcast payload for a content overwrite.
type FileContentEvent struct {
	FileID  string `json:"file_id"`
	Content string `json:"content"`
}

// UpdateFile overwrites one file's content and broadcasts it to every other
// connection in the room. Unknown file ids are silently ignored.
func (s *CollabService) UpdateFile(ctx context.Context, teamID uint, connID, fileID, content string) error {
	files, err := s.sessions.GetSession(ctx, teamID)
	if err != nil {
		return err
	}
	if files == nil {
		return nil
	}

	idx := -1
	for i := range files {
		if files[i].ID == fileID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	files[idx].Content = &content
	if err := s.sessions.PutSession(ctx, teamID, files); err != nil {
		return err
	}

	s.hub.Broadcast(ws.CodeRoom(teamID), ws.WSMessage{
		Type: "file_content_update",
		Data: FileContentEvent{FileID: fileID, Content: content},
	}, connID)
	return nil
}

// CreateFile appends a new entry unless the name is already taken, in which
// case nothing is stored and nothing is broadcast.
func (s *CollabService) CreateFile(ctx context.Context, teamID uint, name, language, ftype string) error {
	files, err := s.sessions.GetSession(ctx, teamID)
	if err != nil {
		return err
	}
	if files == nil {
		return nil
	}

	for i := range files {
		if files[i].Name == name {
			return nil
		}
	}

	if ftype != models.FileTypeFolder {
		ftype = models.FileTypeFile
	}
	var content *string
	if ftype == models.FileTypeFile {
		empty := ""
		content = &empty
	}

	file := models.SessionFile{
		ID:       uuid.NewString(),
		Name:     name,
		Content:  content,
		Language: language,
		Type:     ftype,
	}
	files = append(files, file)
	if err := s.sessions.PutSession(ctx, teamID, files); err != nil {
		return err
	}

	s.hub.Broadcast(ws.CodeRoom(teamID), ws.WSMessage{Type: "file_created", Data: file})
	return nil
}

func (s *CollabService) DeleteFile(ctx context.Context, teamID uint, fileID string) error {
	files, err := s.sessions.GetSession(ctx, teamID)
	if err != nil {
		return err
	}
	if files == nil {
		return nil
	}

	idx := -1
	for i := range files {
		if files[i].ID == fileID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	files = append(files[:idx], files[idx+1:]...)
	if err := s.sessions.PutSession(ctx, teamID, files); err != nil {
		return err
	}

	s.hub.Broadcast(ws.CodeRoom(teamID), ws.WSMessage{
		Type: "file_deleted",
		Data: map[string]string{"file_id": fileID},
	})
	return nil
}

// FocusFile updates the connection's transient focus marker and recomputes
// the session presence so others see where everyone is working.
func (s *CollabService) FocusFile(connID, fileID string) {
	s.hub.SetFocusedFile(connID, fileID)
	if room, ok := s.hub.CodeSessionRoom(connID); ok {
		s.hub.Presence().Recompute(room)
	}
}
