package assert

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// Equal errors if actual is not equal to expected.  Integers of different
// types are equal when their values coincide, such that (for example) 1 and
// uint(1) are equal.
func Equal(t *testing.T, expected, actual any, msg ...any) {
	t.Helper()
	//
	if !reflect.DeepEqual(expected, actual) && !intEqual(expected, actual) {
		fail(t, fmt.Sprintf("expected: %v, actual: %v", expected, actual), msg)
	}
}

// True errors if condition is false.
func True(t *testing.T, condition bool, msg ...any) {
	t.Helper()
	//
	if !condition {
		fail(t, "condition is false", msg)
	}
}

// False errors if condition is true.
func False(t *testing.T, condition bool, msg ...any) {
	t.Helper()
	//
	if condition {
		fail(t, "condition is true", msg)
	}
}

// NoError errors if err is non-nil.
func NoError(t *testing.T, err error) {
	t.Helper()
	//
	if err != nil {
		fail(t, fmt.Sprintf("unexpected error: %v", err), nil)
	}
}

// ErrorIs errors unless err matches (in the sense of errors.Is) the expected
// sentinel.
func ErrorIs(t *testing.T, err error, expected error) {
	t.Helper()
	//
	if !errors.Is(err, expected) {
		fail(t, fmt.Sprintf("expected error %v, actual: %v", expected, err), nil)
	}
}

// Report a failure, along with an optional formatted message, and stop the
// test.
func fail(t *testing.T, failure string, msg []any) {
	t.Helper()
	t.Error(failure)
	//
	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}
	//
	t.FailNow()
}

// Check whether two values are integers (of any width or signedness) with the
// same value.
func intEqual(expected, actual any) bool {
	var (
		x, xok = asInteger(expected)
		y, yok = asInteger(actual)
	)
	//
	return xok && yok && x == y
}

type integer struct {
	negative  bool
	magnitude uint64
}

func asInteger(x any) (integer, bool) {
	if x == nil {
		return integer{}, false
	}
	//
	v := reflect.ValueOf(x)
	//
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i := v.Int(); i < 0 {
			return integer{true, uint64(-(i + 1)) + 1}, true
		}
		//
		return integer{false, uint64(v.Int())}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return integer{false, v.Uint()}, true
	}
	//
	return integer{}, false
}
