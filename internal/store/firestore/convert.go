package firestore

import (
	"time"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/value"
)

// toValue converts a Firestore-native document (the map[string]any
// DocumentSnapshot.Data() returns) into value.Value. This is the only
// place a Firestore-native time.Time read from the store becomes a
// value.Timestamp, so the rest of the core never re-derives a timestamp
// from a native type.
func toValue(native map[string]interface{}) value.Value {
	m := make(map[string]value.Value, len(native))
	for k, v := range native {
		m[k] = nativeToValue(v)
	}
	return value.Mapping(m)
}

func nativeToValue(native interface{}) value.Value {
	switch v := native.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.Bool(v)
	case string:
		return value.String(v)
	case int:
		return value.Number(float64(v))
	case int32:
		return value.Number(float64(v))
	case int64:
		return value.Number(float64(v))
	case float32:
		return value.Number(float64(v))
	case float64:
		return value.Number(v)
	case time.Time:
		return value.Timestamp(v)
	case []interface{}:
		items := make([]value.Value, len(v))
		for i, item := range v {
			items[i] = nativeToValue(item)
		}
		return value.Sequence(items)
	case map[string]interface{}:
		return toValue(v)
	default:
		// Firestore also returns *latlng.LatLng, *firestore.DocumentRef,
		// and similar specialized types this engine never addresses by
		// field path; they fall back to null rather than panicking.
		return value.Null()
	}
}

// fromValue converts a value.Value mapping back into the native
// map[string]any shape Firestore's Set/Update accept.
func fromValue(v value.Value) map[string]interface{} {
	m, _ := v.AsMapping()
	out := make(map[string]interface{}, len(m))
	for k, child := range m {
		out[k] = valueToNative(child)
	}
	return out
}

func valueToNative(v value.Value) interface{} {
	switch v.Kind {
	case value.KindNull:
		return nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindNumber:
		n, _ := v.AsNumber()
		return n
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindTimestamp:
		t, _ := v.AsTimestamp()
		return t
	case value.KindSequence:
		items, _ := v.AsSequence()
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = valueToNative(item)
		}
		return out
	case value.KindMapping:
		return fromValue(v)
	default:
		return nil
	}
}
