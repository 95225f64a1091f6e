// Package services contains the application services of the credebt CLI:
// authentication, booklet ledger management and peer-to-peer debts. They
// sit between the REPL and the REST client and own presence checks on user
// input.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
	"github.com/dmitrijs2005/credebt/internal/client/client"
	"github.com/dmitrijs2005/credebt/internal/client/models"
	"github.com/dmitrijs2005/credebt/internal/common"
)

// Session is the part of *auth.Session the services depend on.
type Session interface {
	SetTokens(ctx context.Context, t auth.Tokens) error
	Clear(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	Subject() string
	State() auth.State
}

// currentUser returns the user id of the logged-in user.
func currentUser(s Session) (models.ID, error) {
	if s.State() == auth.StateUnauthenticated {
		return "", client.ErrUnauthorized
	}
	sub := s.Subject()
	if sub == "" {
		return "", fmt.Errorf("access token carries no user id: %w", client.ErrUnauthorized)
	}
	return models.ID(sub), nil
}

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", common.ErrValidation, field)
	}
	return nil
}

func positive(field string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%w: %s must be positive", common.ErrValidation, field)
	}
	return nil
}
