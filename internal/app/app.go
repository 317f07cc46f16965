// Package app wires configuration, credentials, the mail channel, the
// reconciliation engine and the store into the operations the CLI
// exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nhle/order-tracker/internal/credential"
	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/source"
	"github.com/nhle/order-tracker/internal/source/email"
	"github.com/nhle/order-tracker/internal/store"
)

var (
	// ErrNoProfiles is returned when an operation needs a mailbox and
	// none is configured.
	ErrNoProfiles = errors.New("no profiles configured")

	// ErrProfileRequired is returned when several profiles exist and
	// none was named.
	ErrProfileRequired = errors.New("several profiles configured; choose one with --profile")
)

// Mailbox is the live mail connection the app drives. *email.Channel
// implements it.
type Mailbox interface {
	source.Mailbox
	Connect(ctx context.Context, creds email.Credentials) error
	ListFolders(ctx context.Context) []string
	Disconnect()
}

// App holds the loaded configuration and the collaborators built from
// it.
type App struct {
	cfg     *model.AppConfig
	cfgPath string
	logger  *log.Logger
	out     io.Writer

	keyring    *credential.Keyring
	openStore  func(path string) (store.Store, error)
	newMailbox func() Mailbox
}

// Option customizes an App.
type Option func(*App)

// WithKeyring sets the credential store. Without it the system keyring
// is opened on first use.
func WithKeyring(k *credential.Keyring) Option {
	return func(a *App) {
		a.keyring = k
	}
}

// WithLogger overrides the application logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithOutput sets where summaries are printed.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// WithStoreOpener overrides how the database is opened.
func WithStoreOpener(open func(path string) (store.Store, error)) Option {
	return func(a *App) {
		a.openStore = open
	}
}

// WithMailboxFactory overrides how mail connections are created.
func WithMailboxFactory(f func() Mailbox) Option {
	return func(a *App) {
		a.newMailbox = f
	}
}

// New creates an App for cfg, which was loaded from cfgPath.
func New(cfg *model.AppConfig, cfgPath string, opts ...Option) *App {
	a := &App{
		cfg:     cfg,
		cfgPath: cfgPath,
		logger:  log.Default(),
		out:     os.Stdout,
	}
	a.openStore = func(path string) (store.Store, error) {
		return store.NewSQLiteStore(path)
	}
	a.newMailbox = func() Mailbox {
		return email.NewChannel(
			email.WithRetryPolicy(email.RetryPolicy{
				MaxAttempts: a.cfg.Retry.MaxAttempts,
				Delays:      a.cfg.Retry.Delays(),
			}),
			email.WithLogger(a.logger),
		)
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the loaded configuration.
func (a *App) Config() *model.AppConfig {
	return a.cfg
}

func (a *App) credentials() (*credential.Keyring, error) {
	if a.keyring != nil {
		return a.keyring, nil
	}
	k, err := credential.Open()
	if err != nil {
		return nil, err
	}
	a.keyring = k
	return k, nil
}

func (a *App) store() (store.Store, error) {
	s, err := a.openStore(a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", a.cfg.Database.Path, err)
	}
	return s, nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}
