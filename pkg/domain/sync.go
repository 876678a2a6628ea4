package domain

// SyncStatus is the state of the recipe-list view with respect to the backend.
type SyncStatus string

const (
	SyncIdle        SyncStatus = "idle"         // Nothing in flight
	SyncFetching    SyncStatus = "fetching"     // Authoritative read outstanding
	SyncApplied     SyncStatus = "applied"      // Last read replaced the list
	SyncFetchFailed SyncStatus = "fetch_failed" // Last read failed; list is last-known-good
)

// Snapshot is an immutable view of the store at a given version.
type Snapshot struct {
	Version uint64     `json:"version"`
	Recipes RecipeList `json:"recipes"`
	UI      UIState    `json:"ui"`
}
