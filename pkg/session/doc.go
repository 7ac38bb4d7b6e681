/*
Package session hosts many independent bloom sequencers, one per session ID.

Each operation on a session runs under a per-session lock (optionally backed
by a ports.DistributedLocker for multi-replica deployments). Live sequencers
are cached in process. Sessions whose producer is resumable are snapshotted
to a ports.SnapshotStore after every operation and restored from it on a
cache miss.
*/
package session
