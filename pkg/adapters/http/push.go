package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/recipe-decider/internal/logging"
	"github.com/aretw0/recipe-decider/pkg/domain"
)

// DefaultReconnectDelay is the pause between push-channel connection attempts.
const DefaultReconnectDelay = 2 * time.Second

const maxEventSize = 1 << 20

var errStreamClosed = errors.New("stream closed by server")

// PushHandler receives the payload of each data frame.
type PushHandler func(ctx context.Context, payload []byte)

// PushClient keeps one SSE connection to <base>/events open and reconnects
// after a fixed delay until its context is cancelled.
type PushClient struct {
	url       string
	handler   PushHandler
	http      *http.Client
	delay     time.Duration
	onConnect func(ctx context.Context)
	logger    *slog.Logger
}

// PushOption configures the PushClient.
type PushOption func(*PushClient)

// WithReconnectDelay sets the pause between attempts.
func WithReconnectDelay(d time.Duration) PushOption {
	return func(p *PushClient) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithPushHTTPClient sets the transport. It must not have a Timeout.
func WithPushHTTPClient(hc *http.Client) PushOption {
	return func(p *PushClient) {
		p.http = hc
	}
}

// WithOnConnect runs fn each time the server acknowledges a connection.
// Events sent while disconnected are lost, so callers typically reconcile here.
func WithOnConnect(fn func(ctx context.Context)) PushOption {
	return func(p *PushClient) {
		p.onConnect = fn
	}
}

// WithPushLogger configures the structured logger.
func WithPushLogger(logger *slog.Logger) PushOption {
	return func(p *PushClient) {
		p.logger = logger
	}
}

// NewPushClient creates a client identified by the node/process pair.
func NewPushClient(baseURL, node, process string, handler PushHandler, opts ...PushOption) *PushClient {
	q := url.Values{}
	q.Set("node", node)
	q.Set("process", process)

	p := &PushClient{
		url:     strings.TrimRight(baseURL, "/") + "/events?" + q.Encode(),
		handler: handler,
		http:    &http.Client{},
		delay:   DefaultReconnectDelay,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run blocks until ctx is cancelled.
func (p *PushClient) Run(ctx context.Context) error {
	for {
		err := p.stream(ctx)
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Warn("push channel disconnected", "error", err, "retry_in", p.delay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(p.delay):
		}
	}
}

func (p *PushClient) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrRemote, resp.StatusCode)
	}
	return p.read(ctx, resp.Body)
}

// read dispatches SSE frames: "event:" names the frame, "data:" lines accumulate,
// and a blank line ends it.
func (p *PushClient) read(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxEventSize)

	var (
		event string
		data  []string
	)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			p.dispatch(ctx, event, strings.Join(data, "\n"))
			event, data = "", data[:0]
		case strings.HasPrefix(line, ":"):
			// comment
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errStreamClosed
}

func (p *PushClient) dispatch(ctx context.Context, event, data string) {
	switch event {
	case "ping":
		p.logger.Debug("push channel connected")
		if p.onConnect != nil {
			p.onConnect(ctx)
		}
	case "", "message":
		if data == "" {
			return
		}
		p.handler(ctx, []byte(data))
	default:
		p.logger.Debug("ignoring push frame", "event", event)
	}
}
