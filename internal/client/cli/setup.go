package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
	"github.com/dmitrijs2005/credebt/internal/client/client"
	"github.com/dmitrijs2005/credebt/internal/client/config"
	"github.com/dmitrijs2005/credebt/internal/client/services"
	"github.com/dmitrijs2005/credebt/internal/client/tokenstore"
	"github.com/dmitrijs2005/credebt/internal/logging"
)

// OpenStore opens the token store selected by cfg, encrypted when a
// passphrase is configured. The returned func releases it.
func OpenStore(ctx context.Context, cfg *config.Config) (tokenstore.Store, func() error, error) {
	var (
		store   tokenstore.Store
		release = func() error { return nil }
	)

	switch cfg.TokenStore {
	case config.StoreMemory:
		store = tokenstore.NewMemory()
	case config.StoreSQLite:
		s, err := tokenstore.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		store, release = s, s.Close
	case config.StoreRedis:
		s, err := tokenstore.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		store, release = s, s.Close
	default:
		return nil, nil, fmt.Errorf("unknown token store %q", cfg.TokenStore)
	}

	if cfg.TokenPassphrase != "" {
		enc, err := tokenstore.NewEncrypted(ctx, store, cfg.TokenPassphrase)
		if err != nil {
			_ = release()
			return nil, nil, err
		}
		store = enc
	}
	return store, release, nil
}

// Setup assembles the HTTP stack, the session and the services behind an
// App reading in and writing out. The returned func closes the session and
// the token store.
func Setup(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, func(), error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open token store: %w", err)
	}

	base := client.NewTransport(http.DefaultTransport, client.NewLimiter(cfg.RateLimit, cfg.RateBurst))
	plain := &http.Client{Transport: base, Timeout: cfg.RequestTimeout}

	expiry := &ExpiryNotice{}
	session := auth.NewSession(store, auth.NewHTTPRefresher(cfg.APIBaseURL, plain),
		auth.WithLogger(log),
		auth.WithRefreshMargin(cfg.RefreshMargin),
		auth.WithMinRefreshDelay(cfg.MinRefreshDelay),
		auth.WithRefreshTimeout(cfg.RequestTimeout),
		auth.WithOnExpired(expiry.Notify),
	)
	authed := &http.Client{Transport: auth.NewTransport(session, base), Timeout: cfg.RequestTimeout}
	api := client.NewHTTPClient(cfg.APIBaseURL, authed, plain)

	app := NewApp(Deps{
		Auth:    services.NewAuthService(api, session),
		Ledger:  services.NewLedgerService(api),
		Credebt: services.NewCredebtService(api, session),
		Session: session,
		Expiry:  expiry,
		Log:     log,
	}, in, out)

	cleanup := func() {
		session.Close()
		if err := closeStore(); err != nil {
			log.Warn(ctx, "close token store", "error", err)
		}
	}
	return app, cleanup, nil
}
