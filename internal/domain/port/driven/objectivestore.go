package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// Sentinel errors returned by ObjectiveStore implementations.
var (
	// ErrObjectiveNotFound indicates the objective does not exist or was deleted.
	ErrObjectiveNotFound = errors.New("objective not found")

	// ErrKeyResultNotFound indicates the key result does not exist or was deleted.
	ErrKeyResultNotFound = errors.New("key result not found")
)

// ObjectiveStore defines the driven port for OKR persistence. Deletes are
// soft: rows stay in storage but are excluded from every read.
// Lists are ordered newest first, and each objective carries its live key
// results, newest first.
type ObjectiveStore interface {
	ListObjectives(ctx context.Context) ([]model.Objective, error)
	GetObjective(ctx context.Context, id string) (*model.Objective, error)
	CreateObjective(ctx context.Context, o model.Objective) (model.Objective, error)
	SaveObjective(ctx context.Context, o model.Objective) (model.Objective, error)
	DeleteObjective(ctx context.Context, id string) error

	GetKeyResult(ctx context.Context, id string) (*model.KeyResult, error)
	// CreateKeyResult returns ErrObjectiveNotFound when the parent is missing or deleted.
	CreateKeyResult(ctx context.Context, kr model.KeyResult) (model.KeyResult, error)
	SaveKeyResult(ctx context.Context, kr model.KeyResult) (model.KeyResult, error)
	DeleteKeyResult(ctx context.Context, id string) error
}
