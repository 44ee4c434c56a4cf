package applicant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiform/civiform-go/internal/model"
)

func TestApplicantDataReadWrite(t *testing.T) {
	d := NewApplicantData()

	d.PutString(model.NewPath("applicant/favorite_color/text"), "blue")
	v, ok := d.ReadString(model.NewPath("applicant/favorite_color/text"))
	require.True(t, ok)
	assert.Equal(t, "blue", v)

	d.PutLong(model.NewPath("applicant/household_size/number"), 4)
	n, ok := d.ReadLong(model.NewPath("applicant/household_size/number"))
	require.True(t, ok)
	assert.Equal(t, int64(4), n)

	_, ok = d.ReadString(model.NewPath("applicant/missing"))
	assert.False(t, ok)
}

func TestApplicantDataSerializeRoundTrip(t *testing.T) {
	d := NewApplicantData()
	d.PutString(model.NewPath("applicant/name/first_name"), "Jean")
	d.PutLongList(model.NewPath("applicant/flavors/selections"), []int64{1, 3})
	d.PutDate(model.NewPath("applicant/birthday/date"), time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC))

	raw, err := d.Serialize()
	require.NoError(t, err)

	loaded, err := ParseApplicantData(raw)
	require.NoError(t, err)

	first, ok := loaded.ReadString(model.NewPath("applicant/name/first_name"))
	require.True(t, ok)
	assert.Equal(t, "Jean", first)

	selections, ok := loaded.ReadLongList(model.NewPath("applicant/flavors/selections"))
	require.True(t, ok)
	assert.Equal(t, []int64{1, 3}, selections)

	birthday, ok := loaded.ReadDate(model.NewPath("applicant/birthday/date"))
	require.True(t, ok)
	assert.Equal(t, 1990, birthday.Year())
}

func TestRepeatedEntities(t *testing.T) {
	d := NewApplicantData()
	enumeratorPath := model.NewPath("applicant/household_members[]")

	d.PutRepeatedEntities(enumeratorPath, []string{"Alice", "Bob"})
	assert.Equal(t, []string{"Alice", "Bob"}, d.ReadRepeatedEntities(enumeratorPath))
	assert.Equal(t, 2, d.RepeatedEntityCount(enumeratorPath))

	// Nested answers survive a rename of the entity at the same index.
	d.PutString(model.NewPath("applicant/household_members[0]/birthdate/date"), "2010-01-01")
	d.PutRepeatedEntities(enumeratorPath, []string{"Alicia", "Bob"})
	birthdate, ok := d.ReadString(model.NewPath("applicant/household_members[0]/birthdate/date"))
	require.True(t, ok)
	assert.Equal(t, "2010-01-01", birthdate)
	assert.Equal(t, []string{"Alicia", "Bob"}, d.ReadRepeatedEntities(enumeratorPath))
}

func TestWriteMetadata(t *testing.T) {
	d := NewApplicantData()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	questionPath := model.NewPath("applicant/favorite_color")
	d.WriteMetadata(questionPath, 17, at)

	updated, ok := d.ReadLong(questionPath.Join(model.ScalarUpdatedAt.Key()))
	require.True(t, ok)
	assert.Equal(t, at.Unix(), updated)

	program, ok := d.ReadLong(questionPath.Join(model.ScalarProgramUpdatedIn.Key()))
	require.True(t, ok)
	assert.Equal(t, int64(17), program)
}
