// Package redis provides Redis-backed implementations of ports.SnapshotStore
// and ports.DistributedLocker, so bloom sessions survive restarts and can be
// shared between replicas of the HTTP host.
package redis
