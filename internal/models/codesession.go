package models

// SessionFile is one entry of a team's collaborative code workspace. The whole
// file list lives as a single JSON document in the shared ephemeral store and
// is rewritten wholesale on every mutation.
type SessionFile struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Content  *string `json:"content"`
	Language string  `json:"language"`
	Type     string  `json:"type"`
}

const (
	FileTypeFile   = "file"
	FileTypeFolder = "folder"
)

// PushSubscription mirrors the browser PushManager subscription shape. Stored
// per user in the ephemeral store, pruned when the push service reports the
// endpoint gone.
type PushSubscription struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}
