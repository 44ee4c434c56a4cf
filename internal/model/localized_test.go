package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizedStringsGet(t *testing.T) {
	ls := LocalizedStrings{"en-US": "hello", "es-US": "hola"}

	v, ok := ls.Get("en-US")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	// Language-only fallback in both directions.
	v, ok = ls.Get("en")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	ls2 := LocalizedStrings{"en": "hello"}
	v, ok = ls2.Get("en-GB")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	_, ok = ls.Get("fr")
	assert.False(t, ok)
}

func TestLocalizedStringsGetOrDefault(t *testing.T) {
	ls := LocalizedStrings{"en-US": "hello", "es-US": "hola"}
	assert.Equal(t, "hola", ls.GetOrDefault("es-US"))
	assert.Equal(t, "hello", ls.GetOrDefault("fr"))

	noDefault := LocalizedStrings{"ko": "안녕"}
	assert.Equal(t, "안녕", noDefault.GetOrDefault("fr"))

	assert.Equal(t, "", LocalizedStrings{}.GetOrDefault("en"))
}

func TestLocalizedStringsEqual(t *testing.T) {
	a := LocalizedStrings{"en-US": "hi", "es-US": "hola"}
	b := LocalizedStrings{"es-US": "hola", "en-US": "hi"}
	assert.True(t, a.Equal(b))

	b["es-US"] = "buenas"
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(LocalizedStrings{"en-US": "hi"}))
}

func TestLocalizedStringsCloneIsIndependent(t *testing.T) {
	a := LocalizedStrings{"en-US": "hi"}
	b := a.Clone()
	b["en-US"] = "changed"
	assert.Equal(t, "hi", a["en-US"])
}
