package model

// QuestionOption is a single selectable choice in a multi-option
// question. The id is stable across locales and revisions so stored
// selections and predicates keep resolving; display order controls
// rendering independently of the id.
type QuestionOption struct {
	ID            int64            `json:"id" bson:"id"`
	AdminName     string           `json:"adminName" bson:"adminName"`
	DisplayOrder  int64            `json:"displayOrder" bson:"displayOrder"`
	LocalizedText LocalizedStrings `json:"localizedText" bson:"localizedText"`
}

// LocalizedQuestionOption is a QuestionOption resolved to one locale.
type LocalizedQuestionOption struct {
	ID           int64
	AdminName    string
	DisplayOrder int64
	Text         string
	Locale       string
}

// Localize resolves the option for the given locale, falling back to
// the default locale. The second return is false only when no usable
// translation exists at all.
func (o QuestionOption) Localize(locale string) (LocalizedQuestionOption, bool) {
	text, ok := o.LocalizedText.Get(locale)
	used := locale
	if !ok {
		text, ok = o.LocalizedText.Get(DefaultLocale)
		used = DefaultLocale
	}
	if !ok {
		return LocalizedQuestionOption{}, false
	}
	return LocalizedQuestionOption{
		ID:           o.ID,
		AdminName:    o.AdminName,
		DisplayOrder: o.DisplayOrder,
		Text:         text,
		Locale:       used,
	}, true
}

// Equal compares options field by field.
func (o QuestionOption) Equal(other QuestionOption) bool {
	return o.ID == other.ID &&
		o.AdminName == other.AdminName &&
		o.DisplayOrder == other.DisplayOrder &&
		o.LocalizedText.Equal(other.LocalizedText)
}
