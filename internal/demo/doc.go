// Package demo holds the pages shipped with the bloom command: a looping
// profile wizard, the page it lands on once a profile is saved, and a todo list.
package demo
