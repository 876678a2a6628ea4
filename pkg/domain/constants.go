package domain

// UIStateKey is the fixed storage key the UI state is persisted under.
// Stores scope it per session, so two sessions never share view state.
const UIStateKey = "recipe_decider"

// DefaultSessionID is used when the host does not provide a session identifier.
const DefaultSessionID = "default"
