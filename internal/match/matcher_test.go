package match

import (
	"testing"

	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(t *testing.T, table *schema.Table, f model.Field) *schema.Entry {
	t.Helper()
	e, ok := table.Lookup(f)
	require.True(t, ok)
	return e
}

func TestMatcher_BestPrefersExactName(t *testing.T) {
	table := schema.Default()
	m := NewMatcher(table)

	bag := model.BagOf("firstName", "A", "first_name", "B", "fname", "C")
	got, ok := m.Best(entry(t, table, model.FieldFirstName), bag, nil)

	require.True(t, ok)
	assert.Equal(t, "first_name", got.RawKey)
}

func TestMatcher_TieKeepsInsertionOrder(t *testing.T) {
	table := schema.Default()
	m := NewMatcher(table)

	// "city" and "town" score identically
	bag := model.BagOf("town", "Springfield", "city", "Shelbyville")
	got, ok := m.Best(entry(t, table, model.FieldCity), bag, nil)
	require.True(t, ok)
	assert.Equal(t, "city", got.RawKey, "exact name still wins")

	bag = model.BagOf("Town", "Springfield", "TOWN_", "x")
	got, ok = m.Best(entry(t, table, model.FieldCity), bag, nil)
	require.True(t, ok)
	assert.Equal(t, "Town", got.RawKey)

	bag = model.BagOf("hometown", "x", "town", "A", "Town", "B")
	got, ok = m.Best(entry(t, table, model.FieldCity), bag, nil)
	require.True(t, ok)
	assert.Equal(t, "town", got.RawKey, "equal scores resolve to the earlier key")
}

func TestMatcher_SkipsClaimedKeys(t *testing.T) {
	table := schema.Default()
	m := NewMatcher(table)

	bag := model.BagOf("website", "https://x.dev")
	e := entry(t, table, model.FieldSourceDomain)

	_, ok := m.Best(e, bag, map[string]bool{"website": true})
	assert.False(t, ok)

	got, ok := m.Best(e, bag, nil)
	require.True(t, ok)
	assert.Equal(t, "website", got.RawKey)
}

func TestMatcher_Candidates(t *testing.T) {
	table := schema.Default()
	m := NewMatcher(table)

	bag := model.BagOf("name", "X", "account_name", "Y", "username", "Z")
	cands := m.Candidates(entry(t, table, model.FieldFullName), bag, nil)

	require.Len(t, cands, 2)
	assert.Equal(t, "name", cands[0].RawKey)
	assert.Equal(t, "account_name", cands[1].RawKey)
	assert.Greater(t, cands[0].Score, cands[1].Score)
}
