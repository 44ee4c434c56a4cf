package service

import (
	"context"
	"time"

	"github.com/civiform/civiform-go/internal/model"
)

// In-memory repository fakes. They mirror the mongo-backed behavior
// closely enough for service-level tests: assigned int64 ids, nil on
// missing lookups, set-like version membership.

type fakeQuestionRepo struct {
	byID   map[int64]*model.QuestionDefinition
	lastID int64
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{byID: map[int64]*model.QuestionDefinition{}}
}

func (r *fakeQuestionRepo) Create(_ context.Context, q *model.QuestionDefinition) (*model.QuestionDefinition, error) {
	if q.ID == 0 {
		r.lastID++
		q.ID = r.lastID
	}
	r.byID[q.ID] = q
	return q, nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id int64) (*model.QuestionDefinition, error) {
	return r.byID[id], nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, q *model.QuestionDefinition) error {
	r.byID[q.ID] = q
	return nil
}

func (r *fakeQuestionRepo) Delete(_ context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeQuestionRepo) GetByIDs(_ context.Context, ids []int64) ([]*model.QuestionDefinition, error) {
	var out []*model.QuestionDefinition
	for _, id := range ids {
		if q, ok := r.byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) GetByName(_ context.Context, name string) ([]*model.QuestionDefinition, error) {
	var out []*model.QuestionDefinition
	for _, q := range r.byID {
		if q.Name == name {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) GetAll(_ context.Context) ([]*model.QuestionDefinition, error) {
	var out []*model.QuestionDefinition
	for _, q := range r.byID {
		out = append(out, q)
	}
	return out, nil
}

type fakeVersionRepo struct {
	byID   map[int64]*model.Version
	lastID int64
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{byID: map[int64]*model.Version{}}
}

func (r *fakeVersionRepo) byStage(stage model.LifecycleStage) *model.Version {
	for _, v := range r.byID {
		if v.LifecycleStage == stage {
			return v
		}
	}
	return nil
}

func (r *fakeVersionRepo) GetActive(_ context.Context) (*model.Version, error) {
	return r.byStage(model.LifecycleStageActive), nil
}

func (r *fakeVersionRepo) GetDraft(_ context.Context) (*model.Version, error) {
	return r.byStage(model.LifecycleStageDraft), nil
}

func (r *fakeVersionRepo) GetDraftOrCreate(ctx context.Context) (*model.Version, error) {
	if draft := r.byStage(model.LifecycleStageDraft); draft != nil {
		return draft, nil
	}
	r.lastID++
	draft := &model.Version{
		ID:             r.lastID,
		LifecycleStage: model.LifecycleStageDraft,
		CreatedAt:      time.Now().UTC(),
	}
	if active := r.byStage(model.LifecycleStageActive); active != nil {
		id := active.ID
		draft.PreviousVersionID = &id
	}
	r.byID[draft.ID] = draft
	return draft, nil
}

func (r *fakeVersionRepo) GetByID(_ context.Context, id int64) (*model.Version, error) {
	return r.byID[id], nil
}

func (r *fakeVersionRepo) GetPrevious(ctx context.Context, v *model.Version) (*model.Version, error) {
	if v.PreviousVersionID == nil {
		return nil, nil
	}
	return r.byID[*v.PreviousVersionID], nil
}

func (r *fakeVersionRepo) AddQuestion(_ context.Context, versionID, questionID int64) error {
	v := r.byID[versionID]
	if !v.HasQuestion(questionID) {
		v.QuestionIDs = append(v.QuestionIDs, questionID)
	}
	return nil
}

func (r *fakeVersionRepo) RemoveQuestion(_ context.Context, versionID, questionID int64) error {
	v := r.byID[versionID]
	kept := v.QuestionIDs[:0]
	for _, id := range v.QuestionIDs {
		if id != questionID {
			kept = append(kept, id)
		}
	}
	v.QuestionIDs = kept
	return nil
}

func (r *fakeVersionRepo) AddProgram(_ context.Context, versionID, programID int64) error {
	v := r.byID[versionID]
	if !v.HasProgram(programID) {
		v.ProgramIDs = append(v.ProgramIDs, programID)
	}
	return nil
}

func (r *fakeVersionRepo) RemoveProgram(_ context.Context, versionID, programID int64) error {
	v := r.byID[versionID]
	kept := v.ProgramIDs[:0]
	for _, id := range v.ProgramIDs {
		if id != programID {
			kept = append(kept, id)
		}
	}
	v.ProgramIDs = kept
	return nil
}

func (r *fakeVersionRepo) AddTombstone(_ context.Context, versionID int64, name string) error {
	v := r.byID[versionID]
	if !v.QuestionIsTombstoned(name) {
		v.TombstonedQuestionNames = append(v.TombstonedQuestionNames, name)
	}
	return nil
}

func (r *fakeVersionRepo) RemoveTombstone(_ context.Context, versionID int64, name string) error {
	v := r.byID[versionID]
	kept := v.TombstonedQuestionNames[:0]
	for _, n := range v.TombstonedQuestionNames {
		if n != name {
			kept = append(kept, n)
		}
	}
	v.TombstonedQuestionNames = kept
	return nil
}

func (r *fakeVersionRepo) Publish(_ context.Context, draft, active *model.Version) error {
	if active != nil {
		r.byID[active.ID].LifecycleStage = model.LifecycleStageObsolete
	}
	now := time.Now().UTC()
	d := r.byID[draft.ID]
	d.LifecycleStage = model.LifecycleStageActive
	d.SubmittedAt = &now
	return nil
}

type fakeProgramRepo struct {
	byID   map[int64]*model.ProgramDefinition
	lastID int64
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{byID: map[int64]*model.ProgramDefinition{}}
}

func (r *fakeProgramRepo) Create(_ context.Context, p *model.ProgramDefinition) (*model.ProgramDefinition, error) {
	if p.ID == 0 {
		r.lastID++
		p.ID = r.lastID
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *fakeProgramRepo) GetByID(_ context.Context, id int64) (*model.ProgramDefinition, error) {
	return r.byID[id], nil
}

func (r *fakeProgramRepo) Update(_ context.Context, p *model.ProgramDefinition) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProgramRepo) Delete(_ context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeProgramRepo) GetByIDs(_ context.Context, ids []int64) ([]*model.ProgramDefinition, error) {
	var out []*model.ProgramDefinition
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) GetByAdminName(_ context.Context, adminName string) ([]*model.ProgramDefinition, error) {
	var out []*model.ProgramDefinition
	for _, p := range r.byID {
		if p.AdminName == adminName {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeApplicantRepo struct {
	byID   map[int64]*model.Applicant
	lastID int64
}

func newFakeApplicantRepo() *fakeApplicantRepo {
	return &fakeApplicantRepo{byID: map[int64]*model.Applicant{}}
}

func (r *fakeApplicantRepo) Create(_ context.Context, a *model.Applicant) (*model.Applicant, error) {
	if a.ID == 0 {
		r.lastID++
		a.ID = r.lastID
	}
	r.byID[a.ID] = a
	return a, nil
}

func (r *fakeApplicantRepo) GetByID(_ context.Context, id int64) (*model.Applicant, error) {
	return r.byID[id], nil
}

func (r *fakeApplicantRepo) GetByAccountID(_ context.Context, accountID string) (*model.Applicant, error) {
	for _, a := range r.byID {
		if a.AccountID == accountID {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeApplicantRepo) Update(_ context.Context, a *model.Applicant) error {
	r.byID[a.ID] = a
	return nil
}

// recordingBroadcaster captures events for assertions.
type recordingBroadcaster struct {
	events []model.DraftEvent
}

func (b *recordingBroadcaster) BroadcastDraftEvent(e model.DraftEvent) {
	b.events = append(b.events, e)
}
