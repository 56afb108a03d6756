// Package component defines the building blocks the bootstrap orchestrator
// drives: the Component capability, the Key that identifies an instance,
// the type-erased Handle, the Store of live components, the Factory
// Registry, and the BuildContext a factory sees while constructing.
//
// # Keys
//
// A component is identified by its concrete Go type plus a label, so the
// same type may be registered several times ("primary" and "replica"
// databases). An empty label means DefaultLabel.
//
// # Lookup
//
// Lookup, MustLookup and With recover a concrete type from any Reader:
// the live Store after startup, or the BuildContext during construction.
//
//	db, err := component.MustLookup[*database.Component](app.Store(), "")
package component
