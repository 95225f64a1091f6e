package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
	"github.com/dmitrijs2005/credebt/internal/client/services"
	"github.com/dmitrijs2005/credebt/internal/logging"
)

// SessionStatus is what the prompt needs to know about the session.
type SessionStatus interface {
	State() auth.State
	Subject() string
}

// ExpiryNotice carries a background session expiry to the next prompt.
// Notify is safe to call from any goroutine.
type ExpiryNotice struct {
	fired atomic.Bool
}

func (n *ExpiryNotice) Notify() { n.fired.Store(true) }

func (n *ExpiryNotice) take() bool {
	if n == nil {
		return false
	}
	return n.fired.Swap(false)
}

// Deps are the services the App drives.
type Deps struct {
	Auth    services.AuthService
	Ledger  services.LedgerService
	Credebt services.CredebtService
	Session SessionStatus
	Expiry  *ExpiryNotice
	Log     logging.Logger
}

type App struct {
	authService    services.AuthService
	ledgerService  services.LedgerService
	credebtService services.CredebtService
	session        SessionStatus
	expiry         *ExpiryNotice
	log            logging.Logger

	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(d Deps, in io.Reader, out io.Writer) *App {
	l := d.Log
	if l == nil {
		l = logging.Discard()
	}
	return &App{
		authService:    d.Auth,
		ledgerService:  d.Ledger,
		credebtService: d.Credebt,
		session:        d.Session,
		expiry:         d.Expiry,
		log:            l,
		reader:         bufio.NewReader(in),
		out:            out,
	}
}

// Run resumes a stored session if there is one and then serves commands
// until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to credebt CLI (type 'help' for commands)")

	ok, err := a.authService.Restore(ctx)
	switch {
	case err != nil:
		a.log.Warn(ctx, "restore session", "error", err)
	case ok:
		a.loadUserName(ctx)
		fmt.Fprintf(a.out, "Welcome back, %s\n", a.displayName())
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.State() != auth.StateUnauthenticated
}

// loadUserName fetches the profile for the prompt. Failures leave the
// user id in its place.
func (a *App) loadUserName(ctx context.Context) {
	a.userName = ""
	u, err := a.authService.Profile(ctx)
	if err != nil {
		a.log.Debug(ctx, "load profile", "error", err)
		return
	}
	a.userName = u.Name()
}

func (a *App) displayName() string {
	if a.userName != "" {
		return a.userName
	}
	return a.session.Subject()
}

func (a *App) getStatus() string {
	if a.expiry.take() {
		a.userName = ""
		fmt.Fprintln(a.out, "Your session has expired, please log in again.")
	}
	if !a.isLoggedIn() {
		return ""
	}
	s := a.displayName()
	if st := a.session.State(); st == auth.StateRefreshing {
		s += " " + st.String()
	}
	return fmt.Sprintf("(%s)", s)
}
