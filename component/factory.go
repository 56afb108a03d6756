package component

import "github.com/kbukum/appkit/errors"

// Constructor builds a component for a label.
type Constructor interface {
	Build(bc *BuildContext, label string) (Component, error)
}

// ConstructorFunc adapts a typed build function to Constructor.
type ConstructorFunc[T Component] func(bc *BuildContext, label string) (T, error)

// Build implements Constructor.
func (f ConstructorFunc[T]) Build(bc *BuildContext, label string) (Component, error) {
	c, err := f(bc, label)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Factory pairs a Key with the Constructor that builds it.
type Factory struct {
	Key         Key
	Constructor Constructor
}

// NewFactory returns a factory for T under label.
func NewFactory[T Component](label string, fn func(bc *BuildContext, label string) (T, error)) Factory {
	return Factory{Key: KeyOf[T](label), Constructor: ConstructorFunc[T](fn)}
}

// Instance returns a factory that hands out an already built c.
func Instance[T Component](label string, c T) Factory {
	return NewFactory[T](label, func(*BuildContext, string) (T, error) { return c, nil })
}

// Build runs the constructor and wraps the result in a Handle. A
// constructor error comes back as CONSTRUCT_FAILED.
func (f Factory) Build(bc *BuildContext) (*Handle, error) {
	key := f.Key.normalized()
	c, err := f.Constructor.Build(bc, key.Label)
	if err != nil {
		return nil, errors.ConstructFailed(key.String(), err)
	}
	return HandleFor(key, c)
}
