package component

import (
	"fmt"
	"reflect"

	"github.com/kbukum/appkit/errors"
)

// Handle owns a component together with the key it was created for. The
// key's type is the recorded concrete type used to recover the component.
type Handle struct {
	key       Key
	component Component
}

// NewHandle wraps c under the key for T and label.
func NewHandle[T Component](label string, c T) *Handle {
	return &Handle{key: KeyOf[T](label), component: c}
}

// HandleFor wraps c under key after checking that c is assignable to the
// key's type.
func HandleFor(key Key, c Component) (*Handle, error) {
	key = key.normalized()
	if isNil(c) {
		return nil, errors.ConstructFailed(key.String(), fmt.Errorf("constructor returned nil"))
	}
	actual := reflect.TypeOf(c)
	if key.Type == nil || !actual.AssignableTo(key.Type) {
		return nil, errors.TypeMismatch(key.TypeName(), actual.String(), key.Label)
	}
	return &Handle{key: key, component: c}, nil
}

// Key returns the handle's key.
func (h *Handle) Key() Key { return h.key }

// Component returns the wrapped component as the capability interface.
func (h *Handle) Component() Component { return h.component }

// Recover returns the component as T. It reports false when the recorded
// type is not T. It never panics.
func Recover[T Component](h *Handle) (T, bool) {
	var zero T
	if h == nil || h.key.Type != reflect.TypeFor[T]() {
		return zero, false
	}
	t, ok := h.component.(T)
	return t, ok
}

func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
