package email

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-imap/v2"

	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/query"
	"github.com/nhle/order-tracker/internal/source"
)

// Channel owns one live IMAP session and keeps it usable across
// transient failures. Select, search and fetch are retried with a
// reconnect between attempts; connect is not.
//
// A Channel is safe for use by multiple goroutines, but IMAP is
// sequential per connection so calls are serialized.
type Channel struct {
	mu sync.Mutex

	dial   dialFunc
	policy RetryPolicy
	sleep  func(context.Context, time.Duration) error
	logger *log.Logger

	state        State
	sess         session
	creds        *Credentials
	folder       string
	lastAttempts int
}

// Option customizes a Channel.
type Option func(*Channel)

// WithRetryPolicy overrides the default three-attempt policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Channel) {
		c.policy = p
	}
}

// WithLogger overrides the logger used for channel diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDialTimeout overrides the socket dial timeout.
func WithDialTimeout(timeout time.Duration) Option {
	return func(c *Channel) {
		if timeout > 0 {
			c.dial = defaultDialer(timeout)
		}
	}
}

func withDialer(d dialFunc) Option {
	return func(c *Channel) {
		c.dial = d
	}
}

func withSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Channel) {
		c.sleep = sleep
	}
}

// NewChannel returns a disconnected channel.
func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		dial:   defaultDialer(30 * time.Second),
		policy: DefaultRetryPolicy(),
		sleep:  sleepContext,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns how many attempts the most recent retried operation
// made.
func (c *Channel) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAttempts
}

// Connect dials and authenticates. Failures are returned as-is and never
// retried; a rejected login is a *source.AuthError.
func (c *Channel) Connect(ctx context.Context, creds Credentials) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	if err := c.connectLocked(ctx, creds); err != nil {
		return err
	}
	c.creds = &creds
	c.folder = ""

	c.logger.Info("connected", "server", creds.Server.Addr(), "user", creds.Username)
	return nil
}

func (c *Channel) connectLocked(ctx context.Context, creds Credentials) error {
	sess, err := c.dial(ctx, creds.Server)
	if err != nil {
		c.state = StateDisconnected
		return err
	}

	if err := sess.Login(creds.Username, creds.Password); err != nil {
		_ = sess.Logout()
		_ = sess.Close()
		c.state = StateDisconnected
		return &source.AuthError{
			Service:  creds.Service,
			Username: creds.Username,
			Message: fmt.Sprintf(
				"authentication failed for %s: %v",
				creds.Username, err,
			),
		}
	}

	c.sess = sess
	c.state = StateConnected
	return nil
}

// reconnectLocked drops the session and opens a fresh one with the
// original credentials, restoring the selected folder.
func (c *Channel) reconnectLocked(ctx context.Context) error {
	if c.creds == nil {
		c.state = StateDisconnected
		return ErrNotConnected
	}

	c.state = StateReconnecting
	c.logger.Warn("reconnecting", "server", c.creds.Server.Addr(), "folder", c.folder)

	if c.sess != nil {
		_ = c.sess.Logout()
		_ = c.sess.Close()
		c.sess = nil
	}

	if err := c.connectLocked(ctx, *c.creds); err != nil {
		if source.IsAuthError(err) {
			// Credentials no longer work; the channel stays closed.
			c.creds = nil
		}
		return fmt.Errorf("reconnecting: %w", err)
	}

	if c.folder != "" {
		if err := c.sess.Select(c.folder); err != nil {
			// No folder is open on this session; the next call reconnects.
			c.state = StateDisconnected
			return fmt.Errorf("reselecting %s: %w", c.folder, err)
		}
	}

	return nil
}

// SelectFolder opens name read-only as the current mailbox.
func (c *Channel) SelectFolder(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := retryLocked(ctx, c, "select", func() (struct{}, error) {
		return struct{}{}, c.sess.Select(name)
	})
	if err != nil {
		return fmt.Errorf("selecting %s: %w", name, err)
	}

	c.folder = name
	return nil
}

// Search runs q against the current mailbox and returns matching UIDs.
func (c *Channel) Search(ctx context.Context, q query.Query) ([]uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	criteria := q.Criteria
	if criteria == nil {
		criteria = &imap.SearchCriteria{}
	}

	uids, err := retryLocked(ctx, c, "search", func() ([]imap.UID, error) {
		return c.sess.SearchUIDs(criteria)
	})
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", q.Literal, err)
	}

	ids := make([]uint32, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, uint32(uid))
	}
	return ids, nil
}

// Fetch retrieves the full message for one UID without setting \Seen.
func (c *Channel) Fetch(ctx context.Context, id uint32) (*model.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	body, err := retryLocked(ctx, c, "fetch", func() ([]byte, error) {
		return c.sess.FetchBody(imap.UID(id))
	})
	if err != nil {
		return nil, fmt.Errorf("fetching UID %d: %w", id, err)
	}

	return &model.RawMessage{ID: id, Body: body}, nil
}

// ListFolders returns every mailbox name. It is best effort: any
// failure yields an empty list.
func (c *Channel) ListFolders(_ context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConnected || c.sess == nil {
		return []string{}
	}

	folders, err := c.sess.ListMailboxes()
	if err != nil || folders == nil {
		if err != nil {
			c.logger.Warn("listing folders failed", "err", err)
		}
		return []string{}
	}
	return folders
}

// Disconnect logs out and closes the session. It is idempotent.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != nil {
		c.logger.Debug("disconnecting")
	}
	c.closeLocked()
	c.creds = nil
}

func (c *Channel) closeLocked() {
	if c.sess != nil {
		_ = c.sess.Logout()
		_ = c.sess.Close()
		c.sess = nil
	}
	c.state = StateDisconnected
	c.folder = ""
}

// retryLocked runs op under the channel's retry policy with reconnect
// as the recovery step. The caller must hold c.mu.
func retryLocked[T any](
	ctx context.Context, c *Channel, name string, op func() (T, error),
) (T, error) {
	var zero T
	if c.state != StateConnected || c.sess == nil {
		// A previous reconnect failed on the network; try once more
		// before giving up on this call.
		if c.creds == nil {
			return zero, ErrNotConnected
		}
		if err := c.reconnectLocked(ctx); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
	}

	v, attempts, err := withRecovery(
		ctx, c.policy, IsTransient, c.reconnectLocked, c.sleep,
		func() (T, error) {
			v, err := op()
			if err != nil {
				c.logger.Debug("imap operation failed", "op", name, "err", err)
			}
			return v, err
		},
	)
	c.lastAttempts = attempts
	if attempts > 1 {
		c.logger.Info("imap operation retried", "op", name, "attempts", attempts, "ok", err == nil)
	}
	return v, err
}
