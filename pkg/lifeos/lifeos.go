// Package lifeos is the public surface of the module: the version string
// and a factory that opens the configured record store. Implementation
// details stay internal.
package lifeos

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/lifeos/internal/sheets"
	"github.com/mesh-intelligence/lifeos/internal/sqlite"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// Version is the module version, printed by the CLI.
const Version = "0.1.0"

// OpenStore opens the record store named by cfg.Backend. The returned
// close function releases the store's resources; it is safe to call
// even when the store holds none.
//
// Example:
//
//	store, close, err := lifeos.OpenStore(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".lifeos-db",
//	})
//	defer close()
func OpenStore(ctx context.Context, cfg types.Config) (types.RecordStore, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case types.BackendSQLite:
		b := sqlite.NewBackend()
		if err := b.Attach(cfg); err != nil {
			return nil, nil, fmt.Errorf("attach sqlite store: %w", err)
		}
		return b, b.Detach, nil
	case types.BackendSheets:
		s, err := sheets.New(ctx, cfg.CredentialsFile, cfg.SpreadsheetID)
		if err != nil {
			return nil, nil, fmt.Errorf("open sheets store: %w", err)
		}
		return s, func() error { return nil }, nil
	default:
		return nil, nil, types.ErrBackendUnknown
	}
}
