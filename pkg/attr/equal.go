package attr

import "reflect"

// Equal reports whether two property values are the same. Empty and nil
// slices and maps compare equal so that an unset list matches an empty
// default.
func Equal(a, b any) bool {
	if isEmptyCollection(a) && isEmptyCollection(b) {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func isEmptyCollection(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
