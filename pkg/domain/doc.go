/*
Package domain contains the core models of the bloom view sequencer.

It defines the entities the sequencer moves around: Views, the explicit
per-session State, Producers that yield views in order, and the Snapshot
used to persist a session. The package holds no I/O and no persistence,
following Hexagonal Architecture principles.

# Key Entities

  - View: a declarative UI tree (tag, attributes, children, event handlers).
  - Producer: an explicit state machine yielding Views on demand.
  - State: the value bag owned by one Active Session.
  - Snapshot: the serializable projection of an Active Session.
*/
package domain
