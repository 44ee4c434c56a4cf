package model

import "time"

// DraftEventType labels a draft-change broadcast.
type DraftEventType string

const (
	DraftEventQuestionCreated   DraftEventType = "question_created"
	DraftEventQuestionUpdated   DraftEventType = "question_updated"
	DraftEventQuestionArchived  DraftEventType = "question_archived"
	DraftEventQuestionRestored  DraftEventType = "question_restored"
	DraftEventQuestionDiscarded DraftEventType = "question_discarded"
	DraftEventProgramUpdated    DraftEventType = "program_updated"
	DraftEventVersionPublished  DraftEventType = "version_published"
)

// DraftEvent tells concurrently-editing admins the draft version moved
// underneath them. Read snapshots are request-scoped with no
// invalidation, so clients re-fetch on receipt.
type DraftEvent struct {
	Type      DraftEventType `json:"type"`
	VersionID int64          `json:"versionId"`
	Name      string         `json:"name,omitempty"`
	At        time.Time      `json:"at"`
}
