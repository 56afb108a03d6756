package component

import (
	"reflect"

	"github.com/kbukum/appkit/errors"
)

// Reader is the read side shared by Store and BuildContext.
type Reader interface {
	Handle(key Key) (*Handle, bool)
}

// Lookup returns the component of type T under label. It reports false
// both when nothing is stored and when the stored value is not a T.
func Lookup[T Component](r Reader, label string) (T, bool) {
	h, ok := r.Handle(KeyOf[T](label))
	if !ok {
		var zero T
		return zero, false
	}
	return Recover[T](h)
}

// MustLookup is Lookup with a named error: COMPONENT_NOT_FOUND when the
// key is absent, COMPONENT_TYPE_MISMATCH when the stored value is not a T.
func MustLookup[T Component](r Reader, label string) (T, error) {
	var zero T
	key := KeyOf[T](label)
	h, ok := r.Handle(key)
	if !ok {
		return zero, errors.ComponentNotFound(key.TypeName(), key.Label)
	}
	t, ok := Recover[T](h)
	if !ok {
		return zero, errors.TypeMismatch(key.TypeName(), actualTypeName(h), key.Label)
	}
	return t, nil
}

// With applies fn to the component of type T under label.
func With[T Component, R any](r Reader, label string, fn func(T) R) (R, bool) {
	t, ok := Lookup[T](r, label)
	if !ok {
		var zero R
		return zero, false
	}
	return fn(t), true
}

func actualTypeName(h *Handle) string {
	if h.component == nil {
		return "<nil>"
	}
	return reflect.TypeOf(h.component).String()
}
