package tokenstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/credebt/internal/common"
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, keys ...string) error
}

func notFound(key string) error {
	return fmt.Errorf("token %q: %w", key, common.ErrorNotFound)
}
