/*
Package ports defines the driven ports (interfaces) of the Recipe Decider.

These interfaces decouple the synchronization core and the reference backend
from external implementations, allowing them to work with various transports
and storage backends.

# Key Interfaces

  - RecipeAPI: The remote recipe resource as seen by the client (HTTP in production).
  - UIStateStore: Responsible for persisting and loading session-scoped UI state.
  - RecipeRepository: The backend's storage for the authoritative recipe list.
  - EventPublisher: Fans push events out to connected clients.
  - DistributedLocker: Provides distributed locking for backend replicas.
*/
package ports
