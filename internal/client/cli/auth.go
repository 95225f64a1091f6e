package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/credebt/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) register(ctx context.Context, _ []string) error {
	var in models.RegisterRequest
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter first name", &in.FirstName},
		{"Enter last name", &in.LastName},
		{"Enter email", &in.Email},
		{"Enter phone", &in.Phone},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, in, password); err != nil {
		return err
	}
	a.loadUserName(ctx)
	fmt.Fprintf(a.out, "Registered, welcome %s!\n", a.displayName())
	return nil
}

// login replaces whatever session was active.
func (a *App) login(ctx context.Context, _ []string) error {
	identifier, err := getSimpleText(a.reader, "Enter email or phone", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, identifier, password); err != nil {
		a.userName = ""
		return err
	}
	a.loadUserName(ctx)
	a.log.Info(ctx, "logged in", "user", a.session.Subject())
	fmt.Fprintf(a.out, "Logged in as %s\n", a.displayName())
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) forgot(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "If the account exists, a reset link has been sent")
	return nil
}

func (a *App) reset(ctx context.Context, _ []string) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if err := a.authService.ResetPassword(ctx, token, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed, you can log in now")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}
	a.userName = u.Name()
	fmt.Fprintf(a.out, "%s  %s\n", u.ID, u.Name())
	if u.Email != "" {
		fmt.Fprintf(a.out, "  email: %s\n", u.Email)
	}
	if u.Phone != "" {
		fmt.Fprintf(a.out, "  phone: %s\n", u.Phone)
	}
	fmt.Fprintf(a.out, "  session: %s\n", a.session.State())
	return nil
}

func (a *App) profile(ctx context.Context, _ []string) error {
	u, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}
	first, err := GetTextOr(a.reader, "First name", u.FirstName, a.out)
	if err != nil {
		return err
	}
	last, err := GetTextOr(a.reader, "Last name", u.LastName, a.out)
	if err != nil {
		return err
	}

	u, err = a.authService.UpdateProfile(ctx, first, last)
	if err != nil {
		return err
	}
	a.userName = u.Name()
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}
