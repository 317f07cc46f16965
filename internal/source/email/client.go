package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/order-tracker/internal/model"
)

// session is the slice of an IMAP connection the channel uses. The
// production implementation wraps imapclient.Client; tests script it.
type session interface {
	Login(username, password string) error
	Logout() error
	Close() error
	Select(mailbox string) error
	SearchUIDs(criteria *imap.SearchCriteria) ([]imap.UID, error)
	FetchBody(uid imap.UID) ([]byte, error)
	ListMailboxes() ([]string, error)
}

// dialFunc opens an unauthenticated session to a server.
type dialFunc func(ctx context.Context, srv model.ServerConfig) (session, error)

// defaultDialer returns a dialFunc that connects with go-imap according
// to the server's security mode.
func defaultDialer(timeout time.Duration) dialFunc {
	return func(_ context.Context, srv model.ServerConfig) (session, error) {
		addr := srv.Addr()
		opts := &imapclient.Options{
			Dialer:    &net.Dialer{Timeout: timeout},
			TLSConfig: &tls.Config{ServerName: srv.Host},
		}

		var client *imapclient.Client
		var err error

		switch srv.Security {
		case model.SecurityTLS, "":
			client, err = imapclient.DialTLS(addr, opts)
		case model.SecurityStartTLS:
			client, err = imapclient.DialStartTLS(addr, opts)
		case model.SecurityStartTLSInsecure:
			// Local bridges (Proton) present a self-signed certificate.
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
			client, err = imapclient.DialStartTLS(addr, opts)
		default:
			return nil, fmt.Errorf("unknown security mode %q for %s", srv.Security, addr)
		}
		if err != nil {
			return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
		}

		return &clientWrapper{Client: client}, nil
	}
}

type clientWrapper struct{ *imapclient.Client }

func (w *clientWrapper) Login(username, password string) error {
	return w.Client.Login(username, password).Wait()
}

func (w *clientWrapper) Logout() error { return w.Client.Logout().Wait() }

// Select opens the mailbox read-only (EXAMINE); nothing here modifies
// the mailbox.
func (w *clientWrapper) Select(mailbox string) error {
	_, err := w.Client.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait()
	return err
}

func (w *clientWrapper) SearchUIDs(criteria *imap.SearchCriteria) ([]imap.UID, error) {
	data, err := w.Client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, err
	}
	return data.AllUIDs(), nil
}

// FetchBody retrieves BODY.PEEK[] so fetching never sets \Seen. This
// form is also the one iCloud accepts.
func (w *clientWrapper) FetchBody(uid imap.UID) ([]byte, error) {
	section := &imap.FetchItemBodySection{Peek: true}
	opts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	}

	bufs, err := w.Client.Fetch(imap.UIDSetNum(uid), opts).Collect()
	if err != nil {
		return nil, err
	}
	if len(bufs) == 0 {
		return nil, ErrMessageNotFound
	}

	raw := bufs[0].FindBodySection(section)
	if raw == nil {
		return nil, ErrMessageNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (w *clientWrapper) ListMailboxes() ([]string, error) {
	data, err := w.Client.List("", "*", nil).Collect()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(data))
	for _, d := range data {
		names = append(names, d.Mailbox)
	}
	return names, nil
}
