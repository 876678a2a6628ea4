/*
Package recipedecider is a client for a shared recipe list: users add named
recipes with free-text instructions, edit or delete them, and "roll" a
random one to decide what to cook.

# Concept

The backend owns the list. Each client keeps a local, versioned cache of it
(pkg/store) and a per-session UI state. Mutations are optimistic: the cache
changes immediately, the intent is sent to the backend, and a reconciling read
replaces the cache with the authoritative list. A push channel (Server-Sent
Events) lets the backend announce changes made by other clients.

# Layout

  - pkg/domain: recipes, UI state, events and sentinel errors.
  - pkg/store: the versioned cache with change notifications.
  - pkg/controller: user intents, reconciliation and push handling.
  - pkg/protocol: the JSON wire format.
  - pkg/adapters: HTTP client/server, push channel, MCP tools, and memory, file and redis storage.
  - pkg/backend: the reference recipe service.
  - pkg/session: session-scoped UI-state persistence with locking.

# Usage

	api := http.NewClient("http://localhost:3000")
	st := store.New()
	ctrl := controller.New(api, st)

	if err := ctrl.Init(ctx); err != nil {
		log.Println(err) // the list stays empty, the client keeps working
	}
	_ = ctrl.Add(ctx, "Toast", "Bread in toaster")
	ctrl.Wait()
	fmt.Println(st.Recipes())

The cmd/recipe-decider binary wraps these packages in a CLI and also serves
the reference backend.
*/
package recipedecider
