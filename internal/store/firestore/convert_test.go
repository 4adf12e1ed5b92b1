package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToValueConvertsEveryNativeType(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	native := map[string]interface{}{
		"name":       "Azure Dream",
		"price":      int64(42),
		"rating":     4.5,
		"active":     true,
		"updatedAt":  now,
		"missing":    nil,
		"tags":       []interface{}{"a", "b"},
		"coverImage": map[string]interface{}{"url": "https://cdn.example.com/a.jpg"},
	}

	v := toValue(native)
	m, ok := v.AsMapping()
	require.True(t, ok)

	name, _ := m["name"].AsString()
	assert.Equal(t, "Azure Dream", name)

	price, _ := m["price"].AsNumber()
	assert.Equal(t, 42.0, price)

	active, _ := m["active"].AsBool()
	assert.True(t, active)

	ts, _ := m["updatedAt"].AsTimestamp()
	assert.True(t, now.Equal(ts))

	assert.True(t, m["missing"].IsNull())

	tags, _ := m["tags"].AsSequence()
	require.Len(t, tags, 2)
	tag0, _ := tags[0].AsString()
	assert.Equal(t, "a", tag0)

	cover, _ := m["coverImage"].AsMapping()
	url, _ := cover["url"].AsString()
	assert.Equal(t, "https://cdn.example.com/a.jpg", url)
}

func TestFromValueRoundTripsThroughNative(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	native := map[string]interface{}{
		"name":      "Azure Dream",
		"price":     99.0,
		"updatedAt": now,
		"tags":      []interface{}{"a", "b"},
	}

	v := toValue(native)
	roundTripped := fromValue(v)

	assert.Equal(t, "Azure Dream", roundTripped["name"])
	assert.Equal(t, 99.0, roundTripped["price"])
	assert.Equal(t, now, roundTripped["updatedAt"])

	tags, ok := roundTripped["tags"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"a", "b"}, tags)
}

func TestNativeToValueFallsBackToNullForUnknownTypes(t *testing.T) {
	type unsupported struct{}
	v := nativeToValue(unsupported{})
	assert.True(t, v.IsNull())
}
