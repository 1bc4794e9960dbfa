package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/enginebuild/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// DefaultEvent is the socket.io event name used when none is configured.
	DefaultEvent = "build"
	// DefaultTimeout bounds connecting and waiting for an acknowledgement.
	DefaultTimeout = 2 * time.Second
)

// Options configures a SocketIO publisher.
type Options struct {
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
}

// SocketIO publishes events over a single socket.io connection.
type SocketIO struct {
	logger  *slog.Logger
	io      *socket.Socket
	event   string
	timeout time.Duration
}

// DialSocketIO connects to the endpoint described by opts and waits until
// the connection is established, the timeout expires or ctx is done.
func DialSocketIO(ctx context.Context, opts Options) (*SocketIO, error) {
	if opts.URL == "" {
		return nil, errors.New("notify URL must not be empty")
	}
	if opts.Event == "" {
		opts.Event = DefaultEvent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must include a scheme and host", opts.URL)
	}

	logger := ctxlog.FromContext(ctx).With("notify_url", opts.URL, "namespace", opts.Namespace)

	ioOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		ioOpts.SetPath(parsedURL.Path)
	}
	ioOpts.SetReconnection(false)
	ioOpts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, ioOpts)
	io := manager.Socket(opts.Namespace, ioOpts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to notify endpoint.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- connectError(errs)
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.Timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.Timeout)
	}

	return &SocketIO{logger: logger, io: io, event: opts.Event, timeout: opts.Timeout}, nil
}

// connectError turns the arguments of a connect_error event into an error.
func connectError(errs []any) error {
	if len(errs) == 0 {
		return errors.New("connect_error without details")
	}
	if err, ok := errs[0].(error); ok && err != nil {
		return err
	}
	return fmt.Errorf("connect_error: %v", errs[0])
}

// Publish implements Publisher. It waits for the server's acknowledgement
// up to the configured timeout; servers that never acknowledge are tolerated.
func (s *SocketIO) Publish(ctx context.Context, ev Event) error {
	data, err := ev.payload()
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", ev.Kind, err)
	}

	acked := make(chan error, 1)
	err = s.io.Emit(s.event, data, func(_ []any, ackErr error) {
		acked <- ackErr
	})
	if err != nil {
		return fmt.Errorf("failed to emit %s event: %w", ev.Kind, err)
	}

	select {
	case err := <-acked:
		if err != nil {
			return fmt.Errorf("%s event not acknowledged: %w", ev.Kind, err)
		}
		s.logger.Debug("Build event acknowledged.", "kind", ev.Kind)
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.timeout):
		s.logger.Debug("No acknowledgement for build event.", "kind", ev.Kind, "timeout", s.timeout)
	}
	return nil
}

// Close implements Publisher.
func (s *SocketIO) Close() error {
	s.logger.Debug("Disconnecting from notify endpoint.")
	s.io.Disconnect()
	return nil
}
