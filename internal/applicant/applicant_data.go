// Package applicant binds question definitions to one applicant's
// stored answers, exposing typed, localized, validated access.
package applicant

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/civiform/civiform-go/internal/model"
)

// EntityNameKey is the leaf key under which each repeated entity
// stores its display name.
const EntityNameKey = "entity_name"

// DateFormat is the stored form of date scalars.
const DateFormat = "2006-01-02"

// ApplicantData is one applicant's semi-structured answer document,
// addressed by model.Path. The document is a JSON object tree; repeated
// entities are arrays of objects, each carrying an entity name plus the
// answers of the repeated questions.
type ApplicantData struct {
	PreferredLocale string
	root            map[string]any
}

// NewApplicantData returns an empty answer document.
func NewApplicantData() *ApplicantData {
	return &ApplicantData{PreferredLocale: model.DefaultLocale, root: map[string]any{}}
}

// ParseApplicantData loads a stored answer document.
func ParseApplicantData(raw []byte) (*ApplicantData, error) {
	d := NewApplicantData()
	if len(raw) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d.root); err != nil {
		return nil, err
	}
	return d, nil
}

// Serialize renders the document back to JSON.
func (d *ApplicantData) Serialize() ([]byte, error) {
	return json.Marshal(d.root)
}

// HasPath reports whether a value exists at the path.
func (d *ApplicantData) HasPath(p model.Path) bool {
	_, ok := d.read(p)
	return ok
}

// ReadString reads a string leaf.
func (d *ApplicantData) ReadString(p model.Path) (string, bool) {
	v, ok := d.read(p)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ReadLong reads an integer leaf. JSON numbers decode as float64, so
// both forms are accepted.
func (d *ApplicantData) ReadLong(p model.Path) (int64, bool) {
	v, ok := d.read(p)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

// ReadDouble reads a floating-point leaf.
func (d *ApplicantData) ReadDouble(p model.Path) (float64, bool) {
	v, ok := d.read(p)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// ReadDate reads a date leaf stored in DateFormat.
func (d *ApplicantData) ReadDate(p model.Path) (time.Time, bool) {
	s, ok := d.ReadString(p)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(DateFormat, s)
	return t, err == nil
}

// ReadStringList reads a list-of-strings leaf.
func (d *ApplicantData) ReadStringList(p model.Path) ([]string, bool) {
	v, ok := d.read(p)
	if !ok {
		return nil, false
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// ReadLongList reads a list-of-longs leaf.
func (d *ApplicantData) ReadLongList(p model.Path) ([]int64, bool) {
	v, ok := d.read(p)
	if !ok {
		return nil, false
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]int64, 0, len(raw))
	for _, item := range raw {
		switch n := item.(type) {
		case float64:
			out = append(out, int64(n))
		case int64:
			out = append(out, n)
		default:
			return nil, false
		}
	}
	return out, true
}

// PutString writes a string leaf, creating intermediate containers.
func (d *ApplicantData) PutString(p model.Path, v string) { d.write(p, v) }

// PutLong writes an integer leaf.
func (d *ApplicantData) PutLong(p model.Path, v int64) { d.write(p, v) }

// PutDouble writes a floating-point leaf.
func (d *ApplicantData) PutDouble(p model.Path, v float64) { d.write(p, v) }

// PutDate writes a date leaf in DateFormat.
func (d *ApplicantData) PutDate(p model.Path, t time.Time) {
	d.write(p, t.Format(DateFormat))
}

// PutStringList writes a list-of-strings leaf.
func (d *ApplicantData) PutStringList(p model.Path, vs []string) {
	items := make([]any, len(vs))
	for i, v := range vs {
		items[i] = v
	}
	d.write(p, items)
}

// PutLongList writes a list-of-longs leaf.
func (d *ApplicantData) PutLongList(p model.Path, vs []int64) {
	items := make([]any, len(vs))
	for i, v := range vs {
		items[i] = v
	}
	d.write(p, items)
}

// PutRepeatedEntities writes the entity list for an enumerator answer,
// preserving any nested answers of entities whose position survives.
func (d *ApplicantData) PutRepeatedEntities(enumeratorPath model.Path, names []string) {
	existing, _ := d.readList(enumeratorPath)
	entities := make([]any, len(names))
	for i, name := range names {
		entity := map[string]any{}
		if i < len(existing) {
			if m, ok := existing[i].(map[string]any); ok {
				entity = m
			}
		}
		entity[EntityNameKey] = name
		entities[i] = entity
	}
	d.write(enumeratorPath.WithoutArrayMarker(), entities)
}

// ReadRepeatedEntities returns the entity names stored under an
// enumerator path, in stored order.
func (d *ApplicantData) ReadRepeatedEntities(enumeratorPath model.Path) []string {
	entities, ok := d.readList(enumeratorPath)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m[EntityNameKey].(string)
		names = append(names, name)
	}
	return names
}

// RepeatedEntityCount returns how many entities are stored under an
// enumerator path.
func (d *ApplicantData) RepeatedEntityCount(enumeratorPath model.Path) int {
	entities, _ := d.readList(enumeratorPath)
	return len(entities)
}

// WriteMetadata stamps the answer at path with when and where it was
// last updated.
func (d *ApplicantData) WriteMetadata(questionPath model.Path, programID int64, at time.Time) {
	d.PutLong(questionPath.Join(model.ScalarUpdatedAt.Key()), at.Unix())
	d.PutLong(questionPath.Join(model.ScalarProgramUpdatedIn.Key()), programID)
}

func (d *ApplicantData) readList(p model.Path) ([]any, bool) {
	v, ok := d.read(p.WithoutArrayMarker())
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}

// read walks the document along the path's segments, honoring concrete
// array indices like "children[2]".
func (d *ApplicantData) read(p model.Path) (any, bool) {
	var current any = d.root
	for _, segment := range p.Segments() {
		name, index, indexed := splitSegment(segment)
		container, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = container[name]
		if !ok {
			return nil, false
		}
		if indexed {
			list, ok := current.([]any)
			if !ok || index < 0 || index >= len(list) {
				return nil, false
			}
			current = list[index]
		}
	}
	return current, true
}

// write creates intermediate objects (and extends entity lists) so the
// leaf at the path can be set.
func (d *ApplicantData) write(p model.Path, value any) {
	segments := p.Segments()
	if len(segments) == 0 {
		return
	}
	container := d.root
	for _, segment := range segments[:len(segments)-1] {
		name, index, indexed := splitSegment(segment)
		if indexed {
			list, _ := container[name].([]any)
			for len(list) <= index {
				list = append(list, map[string]any{})
			}
			container[name] = list
			next, ok := list[index].(map[string]any)
			if !ok {
				next = map[string]any{}
				list[index] = next
			}
			container = next
			continue
		}
		next, ok := container[name].(map[string]any)
		if !ok {
			next = map[string]any{}
			container[name] = next
		}
		container = next
	}
	last, index, indexed := splitSegment(segments[len(segments)-1])
	if indexed {
		list, _ := container[last].([]any)
		for len(list) <= index {
			list = append(list, nil)
		}
		list[index] = value
		container[last] = list
		return
	}
	container[last] = value
}

func splitSegment(segment string) (name string, index int, indexed bool) {
	open := -1
	for i, r := range segment {
		if r == '[' {
			open = i
			break
		}
	}
	if open < 0 || segment[len(segment)-1] != ']' {
		return segment, 0, false
	}
	n, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil {
		return segment[:open], 0, false
	}
	return segment[:open], n, true
}
