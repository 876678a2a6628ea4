/*
Package store implements the Recipe Store: the single owner of the cached recipe
list and the UI state.

Every mutation commits synchronously and is visible to the next read. After a
commit, the store notifies its subscribers with an immutable domain.Snapshot.

# Versioning

The store keeps a monotonic counter. Authoritative reads take a ticket with
NextVersion before they are issued and hand it back to ApplySnapshot with the
result; a result whose ticket is older than the last list change is discarded.
This turns "whichever response arrives last wins" into a deterministic rule:
the most recently issued read wins, and an optimistic mutation is never
overwritten by a read that was issued before it.
*/
package store
