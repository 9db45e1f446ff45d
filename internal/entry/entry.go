package entry

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an entry. Transitions are owned by the
// worker except Complete, which the API layer sets after user review.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// SourceType records how the media entered the system.
type SourceType string

const (
	SourceUpload SourceType = "upload"
	SourceURL    SourceType = "url"
)

// Entry is one unit of submitted media and its processing lifecycle record.
// FileRef is a blob storage key, never a local path.
type Entry struct {
	ID           uuid.UUID
	Title        string
	SourceType   SourceType
	SourceURL    *string
	FileRef      *string
	Filename     *string
	Status       Status
	Transcript   *string
	ErrorMessage *string
	Attempts     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
