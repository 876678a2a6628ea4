// Package redis provides Redis-backed adapters: a session UI-state store with
// TTL and a sorted-set index, a recipe repository stored as a Redis list, and a
// distributed locker for backend replicas.
package redis
