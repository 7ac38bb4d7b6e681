package domain

import "errors"

// ErrRouteNotFound is returned when Goto targets a route with no registered factory.
var ErrRouteNotFound = errors.New("route not found")

// ErrNoActiveSession is returned when an operation needs a session but Goto was never called.
var ErrNoActiveSession = errors.New("no active session")

// ErrSessionExhausted is returned once the active producer has terminated.
var ErrSessionExhausted = errors.New("session exhausted")

// ErrInvalidRoute is returned when registering an empty route or a nil factory.
var ErrInvalidRoute = errors.New("invalid route")

// ErrRouteExists is returned by strict registries on duplicate registration.
var ErrRouteExists = errors.New("route already registered")

// ErrNoHandler is returned when an event has no matching handler in the current view.
var ErrNoHandler = errors.New("no handler for event")

// ErrNotResumable is returned when a producer cannot be snapshotted or restored.
var ErrNotResumable = errors.New("producer is not resumable")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSnapshot is returned when restoring from a nil snapshot.
var ErrInvalidSnapshot = errors.New("invalid snapshot")
