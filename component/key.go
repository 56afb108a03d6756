package component

import "reflect"

// DefaultLabel is the label used when none is given.
const DefaultLabel = "default"

// Key identifies a component by its concrete type and label. Keys are
// comparable and used directly as map keys.
type Key struct {
	Type  reflect.Type
	Label string
}

// KeyOf returns the key for type T under label.
func KeyOf[T Component](label string) Key {
	return Key{Type: reflect.TypeFor[T](), Label: normalizeLabel(label)}
}

// TypeName returns the Go type name, e.g. "*database.Component".
func (k Key) TypeName() string {
	if k.Type == nil {
		return "<nil>"
	}
	return k.Type.String()
}

// String renders the key as type[label].
func (k Key) String() string {
	return k.TypeName() + "[" + k.Label + "]"
}

func (k Key) normalized() Key {
	k.Label = normalizeLabel(k.Label)
	return k
}

func normalizeLabel(label string) string {
	if label == "" {
		return DefaultLabel
	}
	return label
}
