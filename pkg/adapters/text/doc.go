// Package text renders views as indented plain text for terminals.
//
// Text nodes print as lines, inputs and buttons are marked with their id so
// a console user can address them, and markdown nodes can be piped through
// glamour.
package text
