package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/anstrom/scanvault/internal/config"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/store"
)

const storeCloseTimeout = 10 * time.Second

// openStore connects to the configured backend and checks it answers.
func openStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (store.Store, error) {
	logger.InfoStore("Connecting to document store", cfg.Store.Backend)

	st, err := store.Open(ctx, &cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("store connection failed: %w", err)
	}

	if err := st.Ping(ctx); err != nil {
		closeStore(st, logger)
		return nil, fmt.Errorf("store ping failed: %w", err)
	}

	logger.InfoStore("Document store connection established", st.Backend())
	return st, nil
}

// closeStore releases the store, logging rather than returning failures.
func closeStore(st store.Store, logger *logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
	defer cancel()

	if err := st.Close(ctx); err != nil {
		logger.ErrorStore("Failed to close document store", st.Backend(), err)
	}
}
