// Package http exposes bloom sessions over a JSON API built on chi.
//
// Every session is addressed by an opaque ID chosen by the client. Mutating
// endpoints answer with the session's route, status and current view, and
// publish the same payload to any Server-Sent Events subscribers of that
// session.
package http
