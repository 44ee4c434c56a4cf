package model

import "time"

// ProgramQuestionDefinition is a question's membership in a block: the
// question row it references and whether answering it is optional.
type ProgramQuestionDefinition struct {
	QuestionID int64 `json:"questionId" bson:"questionId"`
	Optional   bool  `json:"optional,omitempty" bson:"optional,omitempty"`
}

// BlockDefinition is one screen of a program: an ordered set of
// question references, optional visibility/eligibility predicates, and
// an optional enumerator reference making the whole block repeat once
// per repeated entity.
type BlockDefinition struct {
	ID          int64  `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`

	// EnumeratorQuestionID makes this a repeated block, asked once per
	// entity of the referenced enumerator question.
	EnumeratorQuestionID *int64 `json:"enumeratorQuestionId,omitempty" bson:"enumeratorQuestionId,omitempty"`

	VisibilityPredicate  *PredicateDefinition `json:"visibilityPredicate,omitempty" bson:"visibilityPredicate,omitempty"`
	EligibilityPredicate *PredicateDefinition `json:"eligibilityPredicate,omitempty" bson:"eligibilityPredicate,omitempty"`

	Questions []ProgramQuestionDefinition `json:"questions" bson:"questions"`
}

// IsRepeated reports whether the block repeats per enumerated entity.
func (b *BlockDefinition) IsRepeated() bool { return b.EnumeratorQuestionID != nil }

// HasQuestion reports whether the block references the question row.
func (b *BlockDefinition) HasQuestion(id int64) bool {
	if b.EnumeratorQuestionID != nil && *b.EnumeratorQuestionID == id {
		return true
	}
	for _, q := range b.Questions {
		if q.QuestionID == id {
			return true
		}
	}
	return false
}

// ProgramDefinition is a multi-block benefits application assembled
// from question references. Like questions, program rows are scoped to
// versions: editing an active program creates a draft row.
type ProgramDefinition struct {
	ID               int64  `bson:"_id"`
	AdminName        string `bson:"adminName"`
	AdminDescription string `bson:"adminDescription"`

	LocalizedName        LocalizedStrings `bson:"localizedName"`
	LocalizedDescription LocalizedStrings `bson:"localizedDescription"`

	ExternalLink string `bson:"externalLink,omitempty"`

	Blocks []BlockDefinition `bson:"blocks"`

	CreatedAt time.Time `bson:"createdAt"`
}

// HasQuestion reports whether any block references the question row.
func (p *ProgramDefinition) HasQuestion(id int64) bool {
	for i := range p.Blocks {
		if p.Blocks[i].HasQuestion(id) {
			return true
		}
	}
	return false
}

// QuestionIDs returns every question row the program references, in
// block order.
func (p *ProgramDefinition) QuestionIDs() []int64 {
	var ids []int64
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if b.EnumeratorQuestionID != nil {
			ids = append(ids, *b.EnumeratorQuestionID)
		}
		for _, q := range b.Questions {
			ids = append(ids, q.QuestionID)
		}
	}
	return ids
}

// ReplaceQuestion repoints every reference from one question row to
// another, returning how many references changed. Used when a draft
// revision is discarded and programs must point at the active row again.
func (p *ProgramDefinition) ReplaceQuestion(fromID, toID int64) int {
	replaced := 0
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if b.EnumeratorQuestionID != nil && *b.EnumeratorQuestionID == fromID {
			id := toID
			b.EnumeratorQuestionID = &id
			replaced++
		}
		for j := range b.Questions {
			if b.Questions[j].QuestionID == fromID {
				b.Questions[j].QuestionID = toID
				replaced++
			}
		}
		if b.VisibilityPredicate != nil && b.VisibilityPredicate.QuestionID == fromID {
			b.VisibilityPredicate.QuestionID = toID
			replaced++
		}
		if b.EligibilityPredicate != nil && b.EligibilityPredicate.QuestionID == fromID {
			b.EligibilityPredicate.QuestionID = toID
			replaced++
		}
	}
	return replaced
}

// BlockByID finds a block by id.
func (p *ProgramDefinition) BlockByID(id int64) (*BlockDefinition, bool) {
	for i := range p.Blocks {
		if p.Blocks[i].ID == id {
			return &p.Blocks[i], true
		}
	}
	return nil, false
}
