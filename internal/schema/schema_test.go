package schema

import (
	"testing"

	"github.com/ppiankov/profilemap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversEveryCanonicalField(t *testing.T) {
	table := Default()
	entries := table.Entries()
	require.Len(t, entries, len(model.Fields()))

	for i, f := range model.Fields() {
		assert.Equal(t, f, entries[i].Field, "entry %d out of order", i)
	}
}

func TestDefault_Patterns(t *testing.T) {
	table := Default()

	tests := []struct {
		field model.Field
		key   string
		want  bool
	}{
		{model.FieldFullName, "name", true},
		{model.FieldFullName, "Full_Name", true},
		{model.FieldFullName, "full-name", true},
		{model.FieldFullName, "username", false},
		{model.FieldFullName, "first_name", false},
		{model.FieldFirstName, "firstName", true},
		{model.FieldFirstName, "first name", true},
		{model.FieldEmail, "email", true},
		{model.FieldEmail, "E-Mail", true},
		{model.FieldEmail, "mail", false},
		{model.FieldUsername, "screen_name", true},
		{model.FieldProfilePictureURL, "avatar", true},
		{model.FieldScrapedAt, "scrapedAt", true},
		{model.FieldSourceDomain, "source", true},
		{model.FieldDOB, "date_of_birth", true},
		{model.FieldZipCode, "zipcode", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.field)+"/"+tt.key, func(t *testing.T) {
			e, ok := table.Lookup(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Matches(tt.key))
		})
	}
}

func TestDefault_KindsAndBonuses(t *testing.T) {
	table := Default()

	assert.Equal(t, model.KindPhone, table.Kind(model.FieldSecondaryPhone))
	assert.Equal(t, model.KindNumeric, table.Kind(model.FieldLikesCount))
	assert.Equal(t, model.KindStringArray, table.Kind(model.FieldEducation))

	bonuses := table.Bonuses()
	assert.Equal(t, 50, bonuses[model.FieldFirstName])
	assert.Equal(t, 40, bonuses[model.FieldSecondaryEmail])
	assert.Equal(t, 30, bonuses[model.FieldProfilePictureURL])
	assert.Equal(t, 20, bonuses[model.FieldZipCode])
	assert.Zero(t, bonuses[model.FieldFullName])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "fields:\n  - name: shoe_size\n    kind: string\n    synonyms: [shoe]\n"},
		{"unknown kind", "fields:\n  - name: email\n    kind: blob\n    synonyms: [email]\n"},
		{"no synonyms", "fields:\n  - name: email\n    kind: email\n"},
		{"duplicate", "fields:\n  - name: city\n    kind: string\n    synonyms: [city]\n  - name: city\n    kind: string\n    synonyms: [town]\n"},
		{"bad yaml", "fields: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_OverrideSubset(t *testing.T) {
	table, err := Parse([]byte("fields:\n  - name: city\n    kind: string\n    synonyms: [city, town, village]\n  - name: email\n    kind: email\n    synonyms: [email]\n"))
	require.NoError(t, err)

	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, model.FieldEmail, entries[0].Field, "canonical order wins over file order")
	assert.True(t, entries[1].Matches("Village"))
}
