package model

import (
	"sort"
	"strings"
)

// DefaultLocale is the locale every definition must cover.
const DefaultLocale = "en-US"

// LocalizedStrings maps a locale tag ("en-US", "es", ...) to translated
// text. It is never required to cover every locale the platform knows
// about; lookups fall back by language so an "en" entry satisfies a
// request for "en-US" and vice versa.
type LocalizedStrings map[string]string

// Get returns the translation for locale, trying an exact match first
// and then a language-only match in either direction.
func (l LocalizedStrings) Get(locale string) (string, bool) {
	if v, ok := l[locale]; ok {
		return v, true
	}
	want := baseLanguage(locale)
	for tag, v := range l {
		if baseLanguage(tag) == want {
			return v, true
		}
	}
	return "", false
}

// GetOrDefault returns the translation for locale, falling back to the
// default locale and finally to any translation at all.
func (l LocalizedStrings) GetOrDefault(locale string) string {
	if v, ok := l.Get(locale); ok {
		return v
	}
	if v, ok := l.Get(DefaultLocale); ok {
		return v
	}
	for _, tag := range l.Locales() {
		return l[tag]
	}
	return ""
}

// HasTranslationFor reports whether a translation exists for locale,
// counting language-only fallbacks.
func (l LocalizedStrings) HasTranslationFor(locale string) bool {
	_, ok := l.Get(locale)
	return ok
}

// Locales returns the locale tags with translations, sorted.
func (l LocalizedStrings) Locales() []string {
	tags := make([]string, 0, len(l))
	for tag := range l {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// IsEmpty reports whether there are no translations at all.
func (l LocalizedStrings) IsEmpty() bool { return len(l) == 0 }

// Equal compares two translation maps entry by entry.
func (l LocalizedStrings) Equal(other LocalizedStrings) bool {
	if len(l) != len(other) {
		return false
	}
	for tag, v := range l {
		if ov, ok := other[tag]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (l LocalizedStrings) Clone() LocalizedStrings {
	if l == nil {
		return nil
	}
	out := make(LocalizedStrings, len(l))
	for tag, v := range l {
		out[tag] = v
	}
	return out
}

func baseLanguage(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		return strings.ToLower(locale[:i])
	}
	return strings.ToLower(locale)
}
