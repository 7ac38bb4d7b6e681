/*
Package ports defines the driven ports (interfaces) of the bloom sequencer.

These interfaces decouple the sequencer from the things it drives and the
places it keeps sessions, so the same pages can be shown in a terminal,
served over HTTP, or asserted on in tests.

# Key Interfaces

  - Surface: reconciles a target container with a View (the render surface).
  - SnapshotStore: persists session Snapshots for resumable sessions.
  - DistributedLocker: coordinates access to one session across replicas.
*/
package ports
