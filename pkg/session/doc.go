/*
Package session implements persistence of the UI state per session ID.

The Manager serializes access to each session with a reference-counted local
lock and, optionally, a distributed lock shared by several processes. Track
keeps a running Recipe Store's UI state saved as it changes; the recipe list
itself is never persisted and is always re-derived from the backend.
*/
package session
