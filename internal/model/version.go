package model

import "time"

// LifecycleStage is where a version sits in its linear history.
// Exactly one version is ACTIVE at any time; at most one DRAFT exists,
// created lazily on the first edit.
type LifecycleStage string

const (
	LifecycleStageDraft    LifecycleStage = "DRAFT"
	LifecycleStageActive   LifecycleStage = "ACTIVE"
	LifecycleStageObsolete LifecycleStage = "OBSOLETE"
)

// Version is a named container referencing the question and program
// definitions valid as of that version, plus the set of question names
// tombstoned (soft-deleted) in it. Versions form a linear history via
// the previous-version link.
type Version struct {
	ID             int64          `bson:"_id"`
	LifecycleStage LifecycleStage `bson:"lifecycleStage"`

	QuestionIDs             []int64  `bson:"questionIds"`
	ProgramIDs              []int64  `bson:"programIds"`
	TombstonedQuestionNames []string `bson:"tombstonedQuestionNames"`

	PreviousVersionID *int64     `bson:"previousVersionId,omitempty"`
	CreatedAt         time.Time  `bson:"createdAt"`
	SubmittedAt       *time.Time `bson:"submittedAt,omitempty"`
}

// HasQuestion reports whether the version references the question row.
func (v *Version) HasQuestion(id int64) bool {
	for _, qid := range v.QuestionIDs {
		if qid == id {
			return true
		}
	}
	return false
}

// HasProgram reports whether the version references the program row.
func (v *Version) HasProgram(id int64) bool {
	for _, pid := range v.ProgramIDs {
		if pid == id {
			return true
		}
	}
	return false
}

// QuestionIsTombstoned reports whether the named question is soft
// deleted in this version.
func (v *Version) QuestionIsTombstoned(name string) bool {
	for _, n := range v.TombstonedQuestionNames {
		if n == name {
			return true
		}
	}
	return false
}

// DeletionStatus is a question's computed eligibility for deletion,
// derived per request from the active and draft versions.
type DeletionStatus string

const (
	// DeletionStatusDeletable means no program in either version
	// references the question and it has an active revision.
	DeletionStatusDeletable DeletionStatus = "DELETABLE"
	// DeletionStatusNotDeletable means some program in the active or
	// draft version still references the question.
	DeletionStatusNotDeletable DeletionStatus = "NOT_DELETABLE"
	// DeletionStatusPendingDeletion means the question is tombstoned in
	// the draft and will disappear when the draft is published.
	DeletionStatusPendingDeletion DeletionStatus = "PENDING_DELETION"
	// DeletionStatusNotActive means the question only exists in the
	// draft and was never published.
	DeletionStatusNotActive DeletionStatus = "NOT_ACTIVE"
)
