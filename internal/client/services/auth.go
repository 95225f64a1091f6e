package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
	"github.com/dmitrijs2005/credebt/internal/client/client"
	"github.com/dmitrijs2005/credebt/internal/client/models"
	"github.com/dmitrijs2005/credebt/internal/common"
)

// AuthService defines authentication and profile operations for the CLI.
//
// Contract:
//   - Login/Register: obtain tokens from the API and start the session.
//   - Logout: end the session and forget stored tokens.
//   - Restore: resume the session stored by a previous run.
//   - ForgotPassword/ResetPassword: password recovery, no session needed.
//   - CurrentUserID/Profile/UpdateProfile: the logged-in user.
//
// Passwords are taken as byte slices and wiped after use.
type AuthService interface {
	Login(ctx context.Context, identifier string, password []byte) error
	Register(ctx context.Context, in models.RegisterRequest, password []byte) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, password []byte) error
	CurrentUserID() (models.ID, error)
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, firstName, lastName string) (models.User, error)
}

type authService struct {
	client  client.Client
	session Session
}

func NewAuthService(c client.Client, s Session) AuthService {
	return &authService{client: c, session: s}
}

// Login replaces any previous session, including its refresh token.
func (a *authService) Login(ctx context.Context, identifier string, password []byte) error {
	defer common.WipeByteArray(password)

	identifier = strings.TrimSpace(identifier)
	if err := required("login", identifier); err != nil {
		return err
	}
	if err := required("password", string(password)); err != nil {
		return err
	}

	tokens, err := a.client.Login(ctx, identifier, string(password))
	if err != nil {
		return err
	}
	return a.start(ctx, tokens)
}

func (a *authService) Register(ctx context.Context, in models.RegisterRequest, password []byte) error {
	defer common.WipeByteArray(password)

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	for _, f := range []struct{ name, v string }{
		{"first name", in.FirstName},
		{"last name", in.LastName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"password", string(password)},
	} {
		if err := required(f.name, f.v); err != nil {
			return err
		}
	}
	in.Password = string(password)

	tokens, err := a.client.Register(ctx, in)
	if err != nil {
		return err
	}
	return a.start(ctx, tokens)
}

func (a *authService) start(ctx context.Context, tokens auth.Tokens) error {
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	return a.session.SetTokens(ctx, tokens)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}

func (a *authService) Restore(ctx context.Context) (bool, error) {
	return a.session.Restore(ctx)
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := required("email", email); err != nil {
		return err
	}
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, token string, password []byte) error {
	defer common.WipeByteArray(password)

	token = strings.TrimSpace(token)
	if err := required("reset token", token); err != nil {
		return err
	}
	if err := required("password", string(password)); err != nil {
		return err
	}
	return a.client.ResetPassword(ctx, token, string(password))
}

func (a *authService) CurrentUserID() (models.ID, error) {
	return currentUser(a.session)
}

func (a *authService) Profile(ctx context.Context) (models.User, error) {
	id, err := currentUser(a.session)
	if err != nil {
		return models.User{}, err
	}
	return a.client.GetUser(ctx, id)
}

func (a *authService) UpdateProfile(ctx context.Context, firstName, lastName string) (models.User, error) {
	id, err := currentUser(a.session)
	if err != nil {
		return models.User{}, err
	}

	in := models.ProfileUpdate{FirstName: strings.TrimSpace(firstName), LastName: strings.TrimSpace(lastName)}
	if err := required("first name", in.FirstName); err != nil {
		return models.User{}, err
	}
	if err := required("last name", in.LastName); err != nil {
		return models.User{}, err
	}
	return a.client.UpdateUser(ctx, id, in)
}
