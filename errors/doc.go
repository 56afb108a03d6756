// Package errors provides the named failure conditions surfaced by the
// application lifecycle: configuration, registration, construction,
// initialization, lookup and shutdown errors.
//
// Every failure is an *AppError carrying a machine-readable ErrorCode, so
// callers of bootstrap.App.Run can branch with IsCode instead of matching
// message text.
package errors
