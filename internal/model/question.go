package model

import (
	"regexp"
	"sort"
	"strings"
)

// RepeatedEntityPlaceholder is the literal token a repeated question's
// text must contain so one definition can render once per repeated
// entity with the entity's name substituted in.
const RepeatedEntityPlaceholder = "$this"

// QuestionDefinition is an admin-authored form field: its stable
// administrative identity, localized display text, type discriminator
// and type-specific validation predicates. A definition with ID 0 has
// not been persisted yet. Name, enumerator reference, path segment and
// type are immutable once persisted; edits to them are rejected by the
// question service.
type QuestionDefinition struct {
	ID           int64
	Name         string
	EnumeratorID *int64
	Description  string

	QuestionText     LocalizedStrings
	QuestionHelpText LocalizedStrings

	Type       QuestionType
	Predicates ValidationPredicates

	// Options is populated for multi-option types only.
	Options []QuestionOption

	// EntityType is the localized label for one repeated entity
	// ("household member"), populated for enumerators only.
	EntityType LocalizedStrings
}

// QuestionDefinitionConfig carries every field accepted when building a
// definition from admin input.
type QuestionDefinitionConfig struct {
	ID               int64
	Name             string
	EnumeratorID     *int64
	Description      string
	QuestionText     LocalizedStrings
	QuestionHelpText LocalizedStrings
	Type             QuestionType
	Predicates       ValidationPredicates
	Options          []QuestionOption
	EntityType       LocalizedStrings
}

// NewQuestionDefinition builds a definition from config, failing with
// UnsupportedQuestionTypeError for an unrecognized discriminator.
// Missing predicates default to the type's zero predicates. The result
// is not validated; call Validate before persisting.
func NewQuestionDefinition(cfg QuestionDefinitionConfig) (*QuestionDefinition, error) {
	predicates := cfg.Predicates
	if predicates == nil {
		var err error
		predicates, err = DefaultValidationPredicates(cfg.Type)
		if err != nil {
			return nil, err
		}
	} else if _, err := DefaultValidationPredicates(cfg.Type); err != nil {
		return nil, err
	}
	return &QuestionDefinition{
		ID:               cfg.ID,
		Name:             cfg.Name,
		EnumeratorID:     cfg.EnumeratorID,
		Description:      cfg.Description,
		QuestionText:     cfg.QuestionText.Clone(),
		QuestionHelpText: cfg.QuestionHelpText.Clone(),
		Type:             cfg.Type,
		Predicates:       predicates,
		Options:          append([]QuestionOption(nil), cfg.Options...),
		EntityType:       cfg.EntityType.Clone(),
	}, nil
}

// IsPersisted reports whether the definition has a database id.
func (q *QuestionDefinition) IsPersisted() bool { return q.ID != 0 }

// IsEnumerator reports whether this question collects repeated entities.
func (q *QuestionDefinition) IsEnumerator() bool { return q.Type == QuestionTypeEnumerator }

// IsRepeated reports whether this question lives under an enumerator
// and is asked once per repeated entity.
func (q *QuestionDefinition) IsRepeated() bool { return q.EnumeratorID != nil }

var pathSegmentCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// PathSegment derives the answer-document segment for this question
// from its admin name. The mapping is deterministic: the same (name,
// type) always yields the same segment, and enumerator segments always
// carry the repeated-entity array marker.
func (q *QuestionDefinition) PathSegment() string {
	segment := strings.Trim(pathSegmentCleaner.ReplaceAllString(strings.ToLower(q.Name), "_"), "_")
	if q.IsEnumerator() {
		return ArraySegment(segment)
	}
	return segment
}

// ContextualizedPath returns where this question's answers live for one
// applicant: defaultRoot joined with the path segment for top-level
// questions, or the enclosing repeated entity's instantiated path
// joined with the segment for repeated ones. One generic "child's
// birthdate" definition yields N distinct paths for N household members.
func (q *QuestionDefinition) ContextualizedPath(entity *RepeatedEntity, defaultRoot Path) Path {
	if entity == nil {
		return defaultRoot.Join(q.PathSegment())
	}
	return entity.ContextualizedPath(defaultRoot).Join(q.PathSegment())
}

// SupportedLocales returns the locales this definition fully covers: a
// locale counts only if the question text has it, the help text has it
// (when any help translations exist at all), and, for multi-option
// types, every option has it. Language-only fallbacks satisfy each leg.
func (q *QuestionDefinition) SupportedLocales() []string {
	supported := make([]string, 0, len(q.QuestionText))
	for _, locale := range q.QuestionText.Locales() {
		if !q.QuestionHelpText.IsEmpty() && !q.QuestionHelpText.HasTranslationFor(locale) {
			continue
		}
		if q.Type.IsMultiOption() && !q.allOptionsTranslated(locale) {
			continue
		}
		supported = append(supported, locale)
	}
	sort.Strings(supported)
	return supported
}

func (q *QuestionDefinition) allOptionsTranslated(locale string) bool {
	for _, o := range q.Options {
		if !o.LocalizedText.HasTranslationFor(locale) {
			return false
		}
	}
	return true
}

// Validate returns every structural problem with the definition. It
// never fails partway; callers combine the result with conflict errors
// before rejecting a write.
func (q *QuestionDefinition) Validate() []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(q.Name) == "" {
		errs = append(errs, ValidationError{Message: "administrative identifier cannot be blank"})
	}
	if strings.TrimSpace(q.Description) == "" {
		errs = append(errs, ValidationError{Message: "administrative description cannot be blank"})
	}
	if q.QuestionText.IsEmpty() {
		errs = append(errs, ValidationError{Message: "question text cannot be blank"})
	}
	for _, locale := range q.QuestionText.Locales() {
		if strings.TrimSpace(q.QuestionText[locale]) == "" {
			errs = append(errs, ValidationErrorf("question text for locale %s cannot be blank", locale))
		}
	}
	if q.IsRepeated() {
		errs = append(errs, q.validateRepeatedPlaceholders()...)
	}
	if q.IsEnumerator() && q.EntityType.IsEmpty() {
		errs = append(errs, ValidationError{Message: "enumerator question must have specified entity type"})
	}
	if q.Type.IsMultiOption() {
		errs = append(errs, q.validateOptions()...)
	}
	return errs
}

func (q *QuestionDefinition) validateRepeatedPlaceholders() []ValidationError {
	var errs []ValidationError
	for _, locale := range q.QuestionText.Locales() {
		if !strings.Contains(q.QuestionText[locale], RepeatedEntityPlaceholder) {
			errs = append(errs, ValidationErrorf(
				"repeated question text for locale %s must contain the placeholder %q", locale, RepeatedEntityPlaceholder))
		}
	}
	for _, locale := range q.QuestionHelpText.Locales() {
		if !strings.Contains(q.QuestionHelpText[locale], RepeatedEntityPlaceholder) {
			errs = append(errs, ValidationErrorf(
				"repeated question help text for locale %s must contain the placeholder %q", locale, RepeatedEntityPlaceholder))
		}
	}
	return errs
}

func (q *QuestionDefinition) validateOptions() []ValidationError {
	var errs []ValidationError
	if len(q.Options) == 0 {
		errs = append(errs, ValidationError{Message: "multi-option questions must have at least one option"})
	}
	seenIDs := make(map[int64]bool, len(q.Options))
	seenText := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if seenIDs[o.ID] {
			errs = append(errs, ValidationErrorf("multi-option question option ids must be unique, %d repeats", o.ID))
		}
		seenIDs[o.ID] = true
		text := o.LocalizedText.GetOrDefault(DefaultLocale)
		if strings.TrimSpace(text) == "" {
			errs = append(errs, ValidationError{Message: "multi-option questions cannot have blank options"})
			continue
		}
		if seenText[text] {
			errs = append(errs, ValidationErrorf("multi-option question options must be unique, %q repeats", text))
		}
		seenText[text] = true
	}
	return errs
}

// EqualsIgnoreID compares definitions by content only, so two in-memory
// builds of "the same" question compare equal regardless of which has
// been persisted. This is what version-to-version comparison uses.
func (q *QuestionDefinition) EqualsIgnoreID(other *QuestionDefinition) bool {
	if other == nil {
		return false
	}
	if q.Type != other.Type || q.Name != other.Name || q.Description != other.Description {
		return false
	}
	if !int64PtrEqual(q.EnumeratorID, other.EnumeratorID) {
		return false
	}
	if !q.QuestionText.Equal(other.QuestionText) || !q.QuestionHelpText.Equal(other.QuestionHelpText) {
		return false
	}
	if !PredicatesEqual(q.Predicates, other.Predicates) {
		return false
	}
	if len(q.Options) != len(other.Options) {
		return false
	}
	for i := range q.Options {
		if !q.Options[i].Equal(other.Options[i]) {
			return false
		}
	}
	return q.EntityType.Equal(other.EntityType)
}

// Equals is EqualsIgnoreID plus persisted identity: both unpersisted,
// or both persisted with the same id.
func (q *QuestionDefinition) Equals(other *QuestionDefinition) bool {
	if other == nil {
		return false
	}
	return q.ID == other.ID && q.EqualsIgnoreID(other)
}

// OptionsForLocale resolves all options for one locale in display
// order, falling back per option to the default locale.
func (q *QuestionDefinition) OptionsForLocale(locale string) []LocalizedQuestionOption {
	out := make([]LocalizedQuestionOption, 0, len(q.Options))
	for _, o := range q.Options {
		if localized, ok := o.Localize(locale); ok {
			out = append(out, localized)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// OptionByID looks up one option by stable id.
func (q *QuestionDefinition) OptionByID(id int64) (QuestionOption, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return QuestionOption{}, false
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
