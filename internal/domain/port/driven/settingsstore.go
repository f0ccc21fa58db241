package driven

import (
	"context"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// SettingsStore persists the singleton settings row.
// Get returns (nil, nil) when the row has not been created yet.
type SettingsStore interface {
	Get(ctx context.Context) (*model.Settings, error)
	// EnsureExists inserts defaults when no row exists and returns the stored row.
	EnsureExists(ctx context.Context, defaults model.Settings) (model.Settings, error)
	Save(ctx context.Context, settings model.Settings) (model.Settings, error)
}
