package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/recipe-decider/pkg/controller"
	"github.com/aretw0/recipe-decider/pkg/domain"
	"github.com/aretw0/recipe-decider/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushClient_ReadsFrames(t *testing.T) {
	var (
		mu    sync.Mutex
		got   []string
		pings int
	)
	p := NewPushClient("http://unused", "n", "p",
		func(_ context.Context, payload []byte) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, string(payload))
		},
		WithOnConnect(func(context.Context) { pings++ }),
	)

	stream := "event: ping\ndata: connected\n\n" +
		": keep-alive\n\n" +
		"data: {\"NewRecipe\":{\"name\":\"Soup\",\"instructions\":\"Boil\"}}\n\n" +
		"event: other\ndata: ignored\n\n" +
		"data:{\"RecipeRolled\":{\"recipe\":null}}\n\n"

	err := p.read(context.Background(), strings.NewReader(stream))
	assert.ErrorIs(t, err, errStreamClosed)
	assert.Equal(t, 1, pings)
	assert.Equal(t, []string{
		`{"NewRecipe":{"name":"Soup","instructions":"Boil"}}`,
		`{"RecipeRolled":{"recipe":null}}`,
	}, got)
}

func TestPushClient_Reconnects(t *testing.T) {
	var (
		mu   sync.Mutex
		hits int
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		n := hits
		mu.Unlock()

		assert.Equal(t, "node-1", r.URL.Query().Get("node"))
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: {\"n\":%d}\n\n", n)
	}))
	defer ts.Close()

	received := make(chan string, 10)
	p := NewPushClient(ts.URL, "node-1", "proc", func(_ context.Context, payload []byte) {
		select {
		case received <- string(payload):
		default:
		}
	}, WithReconnectDelay(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case msg := <-received:
		assert.Equal(t, `{"n":2}`, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("push client never reconnected")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

// Two clients share one backend: a mutation by one reaches the other through
// the push channel and its reconciling read.
func TestEndToEnd_PushKeepsClientsConverged(t *testing.T) {
	b := newTestBackend(t, soup)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New()
	ctrl := controller.New(NewClient(b.server.URL), st)
	require.NoError(t, ctrl.Init(ctx))
	assert.Equal(t, domain.TabRoll, st.UI().CurrentTab)

	connected := make(chan struct{}, 1)
	push := NewPushClient(b.server.URL, "node", "proc-a", ctrl.HandlePush,
		WithOnConnect(func(context.Context) { connected <- struct{}{} }))
	go push.Run(ctx)

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("push channel never connected")
	}

	other := NewClient(b.server.URL)
	_, err := other.Add(ctx, toast)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(st.Recipes()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	ctrl.Wait()
	assert.Equal(t, domain.RecipeList{soup, toast}, st.Recipes())

	require.NoError(t, other.Delete(ctx, 0))
	require.Eventually(t, func() bool {
		list := st.Recipes()
		return len(list) == 1 && list[0] == toast
	}, 2*time.Second, 10*time.Millisecond)

	// Rolls announced through the service reach the UI state.
	_, err = b.service.Announce(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		r := st.UI().RolledRecipe
		return r != nil && *r == toast
	}, 2*time.Second, 10*time.Millisecond)
}
