package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/query"
)

// AuthError indicates that the mail server rejected the credentials.
// It is fatal: callers must not retry it.
type AuthError struct {
	Service  string
	Username string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s, %s): %s", e.Service, e.Username, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Mailbox is the retrieval contract the reconciliation engine drives.
// Implementations absorb transient failures internally; an error means
// retries are exhausted or the failure is not recoverable.
type Mailbox interface {
	// SelectFolder makes name the current mailbox.
	SelectFolder(ctx context.Context, name string) error

	// Search returns the identifiers of matching messages in the
	// current mailbox, in server order.
	Search(ctx context.Context, q query.Query) ([]uint32, error)

	// Fetch returns the full raw message for one identifier.
	Fetch(ctx context.Context, id uint32) (*model.RawMessage, error)
}
