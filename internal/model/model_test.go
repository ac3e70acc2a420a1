package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBag_OrderAndOverwrite(t *testing.T) {
	b := NewBag()
	b.Set("b", "1")
	b.Set("a", "2")
	b.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, b.Keys())
	v, _ := b.Get("b")
	assert.Equal(t, "3", v)

	assert.False(t, b.SetIfAbsent("a", "x"))
	assert.True(t, b.SetIfAbsent("c", "x"))

	b.Delete("b")
	b.Delete("missing")
	assert.Equal(t, []string{"a", "c"}, b.Keys())
}

func TestBag_Merge(t *testing.T) {
	base := BagOf("name", "Ada", "email", "a@example.com")
	other := BagOf("name", "Other", "phone", "9876543210")

	kept := base.Clone()
	kept.Merge(other, false)
	assert.Equal(t, []string{"name", "email", "phone"}, kept.Keys())
	v, _ := kept.Get("name")
	assert.Equal(t, "Ada", v)

	base.Merge(other, true)
	v, _ = base.Get("name")
	assert.Equal(t, "Other", v)
}

func TestBag_Lookup(t *testing.T) {
	b := BagOf("store", BagOf("user", BagOf("id", json.Number("7"))), "flat", "x")

	v, ok := b.Lookup("store.user.id")
	require.True(t, ok)
	assert.Equal(t, json.Number("7"), v)

	_, ok = b.Lookup("flat.deeper")
	assert.False(t, ok)
	_, ok = b.Lookup("store.missing")
	assert.False(t, ok)

	var nilBag *Bag
	_, ok = nilBag.Lookup("a")
	assert.False(t, ok)
}

func TestBag_JSONPreservesOrderAndNumbers(t *testing.T) {
	in := `{"z":1,"a":{"y":"x","b":[1,"two",null,true]},"m":2.50}`

	var b Bag
	require.NoError(t, json.Unmarshal([]byte(in), &b))
	assert.Equal(t, []string{"z", "a", "m"}, b.Keys())

	m, _ := b.Get("m")
	assert.Equal(t, json.Number("2.50"), m)

	out, err := json.Marshal(&b)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &b))
}

func TestParseJSON(t *testing.T) {
	v, err := ParseJSON([]byte(`[{"k":"v"}]`))
	require.NoError(t, err)
	arr, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, arr, 1)
	assert.IsType(t, &Bag{}, arr[0])

	_, err = ParseJSON([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)

	v, err = ParseJSONPrefix([]byte(`{"a":1};window.x = 2;`))
	require.NoError(t, err)
	assert.Equal(t, 1, v.(*Bag).Len())
}

func TestBagOf_Panics(t *testing.T) {
	assert.Panics(t, func() { BagOf("odd") })
	assert.Panics(t, func() { BagOf(1, "v") })
}

func TestRecord_CanonicalOnlyAndOrdered(t *testing.T) {
	r := NewRecord()
	assert.True(t, r.Set(FieldEmail, "a@example.com"))
	assert.True(t, r.Set(FieldFullName, "Ada Byron"))
	assert.False(t, r.Set(Field("nickname"), "ada"))

	assert.Equal(t, []Field{FieldFullName, FieldEmail}, r.Fields())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"full_name":"Ada Byron","email":"a@example.com"}`, string(out))

	var back Record
	require.NoError(t, json.Unmarshal([]byte(`{"email":"b@example.com","nickname":"x"}`), &back))
	assert.Equal(t, 1, back.Len())
	assert.True(t, back.Has(FieldEmail))
}

func TestFields(t *testing.T) {
	fields := Fields()
	assert.Len(t, fields, 32)
	assert.Equal(t, FieldFullName, fields[0])
	assert.Equal(t, FieldScraperVersion, fields[len(fields)-1])

	fields[0] = "mutated"
	assert.Equal(t, FieldFullName, Fields()[0])

	_, ok := ParseKind("numeric-compact")
	assert.True(t, ok)
	_, ok = ParseKind("float")
	assert.False(t, ok)
}

func TestSnapshot(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"url":"https://www.flipkart.com:8443/account","cookies":"sid=1"}`))
	require.NoError(t, err)
	assert.Equal(t, "www.flipkart.com", snap.Host())
	assert.Equal(t, "https://www.flipkart.com:8443", snap.Origin())
	assert.Equal(t, "flipkart.com", snap.Domain())

	_, err = DecodeSnapshot([]byte(`{"html":"<p></p>"}`))
	assert.ErrorContains(t, err, "url is required")

	assert.Equal(t, "localhost", ExtractDomain("LOCALHOST."))
	assert.Equal(t, "co.uk", ExtractDomain("shop.example.co.uk"))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Sink.Kind = "s3"
	assert.ErrorContains(t, cfg.Validate(), "invalid config")

	cfg = DefaultConfig()
	cfg.Mapping.MaxDepth = 11
	assert.Error(t, cfg.Validate())
}
