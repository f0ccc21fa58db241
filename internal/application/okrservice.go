package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// NewObjective is the input for creating an objective.
type NewObjective struct {
	Title    string
	Why      string
	How      string
	What     string
	Deadline *time.Time
}

// NewKeyResult is the input for creating a key result. An empty Priority
// defaults to medium.
type NewKeyResult struct {
	Title    string
	Priority model.Priority
	Deadline *time.Time
}

// OKRService manages objectives and key results and derives the deadline board.
type OKRService struct {
	store     driven.ObjectiveStore
	weekStart time.Weekday
	logger    *slog.Logger
}

// NewOKRService creates an OKRService. weekStart defines calendar weeks for
// the board's this-week bucket.
func NewOKRService(store driven.ObjectiveStore, weekStart time.Weekday, logger *slog.Logger) *OKRService {
	return &OKRService{store: store, weekStart: weekStart, logger: logger}
}

// ListObjectives returns live objectives newest first. Store failures are
// logged and yield an empty list.
func (s *OKRService) ListObjectives(ctx context.Context) []model.Objective {
	objectives, err := s.store.ListObjectives(ctx)
	if err != nil {
		s.logger.Error("failed to list objectives", "error", err)
		return []model.Objective{}
	}
	return objectives
}

// GetObjective returns a live objective or ErrObjectiveNotFound.
func (s *OKRService) GetObjective(ctx context.Context, id string) (model.Objective, error) {
	o, err := s.store.GetObjective(ctx, id)
	if err != nil {
		return model.Objective{}, err
	}
	if o == nil {
		return model.Objective{}, driven.ErrObjectiveNotFound
	}
	return *o, nil
}

// CreateObjective validates and stores a new objective.
func (s *OKRService) CreateObjective(ctx context.Context, in NewObjective) (model.Objective, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Objective{}, invalidf("title is required")
	}

	o, err := s.store.CreateObjective(ctx, model.Objective{
		ID:       uuid.NewString(),
		Title:    title,
		Why:      in.Why,
		How:      in.How,
		What:     in.What,
		Deadline: in.Deadline,
	})
	if err != nil {
		return model.Objective{}, fmt.Errorf("create objective: %w", err)
	}
	s.logger.Info("objective created", "id", o.ID)
	return o, nil
}

// UpdateObjective applies patch to a live objective.
func (s *OKRService) UpdateObjective(ctx context.Context, id string, patch model.ObjectivePatch) (model.Objective, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Objective{}, invalidf("title must not be empty")
	}

	o, err := s.GetObjective(ctx, id)
	if err != nil {
		return model.Objective{}, err
	}
	patch.Apply(&o)
	o.Title = strings.TrimSpace(o.Title)

	return s.store.SaveObjective(ctx, o)
}

// ToggleObjective flips the objective's completed flag.
func (s *OKRService) ToggleObjective(ctx context.Context, id string) (model.Objective, error) {
	o, err := s.GetObjective(ctx, id)
	if err != nil {
		return model.Objective{}, err
	}
	o.Completed = !o.Completed
	return s.store.SaveObjective(ctx, o)
}

// DeleteObjective soft-deletes the objective; its key results disappear with it.
func (s *OKRService) DeleteObjective(ctx context.Context, id string) error {
	if err := s.store.DeleteObjective(ctx, id); err != nil {
		return err
	}
	s.logger.Info("objective deleted", "id", id)
	return nil
}

// CreateKeyResult adds a key result to a live objective.
func (s *OKRService) CreateKeyResult(ctx context.Context, objectiveID string, in NewKeyResult) (model.KeyResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.KeyResult{}, invalidf("title is required")
	}
	priority, err := model.ParsePriority(string(in.Priority))
	if err != nil {
		return model.KeyResult{}, invalidf("%v", err)
	}

	return s.store.CreateKeyResult(ctx, model.KeyResult{
		ID:          uuid.NewString(),
		ObjectiveID: objectiveID,
		Title:       title,
		Priority:    priority,
		Deadline:    in.Deadline,
	})
}

func (s *OKRService) getKeyResult(ctx context.Context, id string) (model.KeyResult, error) {
	kr, err := s.store.GetKeyResult(ctx, id)
	if err != nil {
		return model.KeyResult{}, err
	}
	if kr == nil {
		return model.KeyResult{}, driven.ErrKeyResultNotFound
	}
	return *kr, nil
}

// UpdateKeyResult applies patch to a live key result.
func (s *OKRService) UpdateKeyResult(ctx context.Context, id string, patch model.KeyResultPatch) (model.KeyResult, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.KeyResult{}, invalidf("title must not be empty")
	}
	if patch.Priority != nil {
		if _, err := model.ParsePriority(string(*patch.Priority)); err != nil || *patch.Priority == "" {
			return model.KeyResult{}, invalidf("unknown priority %q", *patch.Priority)
		}
	}

	kr, err := s.getKeyResult(ctx, id)
	if err != nil {
		return model.KeyResult{}, err
	}
	patch.Apply(&kr)
	kr.Title = strings.TrimSpace(kr.Title)

	return s.store.SaveKeyResult(ctx, kr)
}

// ToggleKeyResult flips the key result's completed flag.
func (s *OKRService) ToggleKeyResult(ctx context.Context, id string) (model.KeyResult, error) {
	kr, err := s.getKeyResult(ctx, id)
	if err != nil {
		return model.KeyResult{}, err
	}
	kr.Completed = !kr.Completed
	return s.store.SaveKeyResult(ctx, kr)
}

// DeleteKeyResult soft-deletes the key result.
func (s *OKRService) DeleteKeyResult(ctx context.Context, id string) error {
	return s.store.DeleteKeyResult(ctx, id)
}

// Board buckets the open work by deadline relative to now and reports
// overall progress.
func (s *OKRService) Board(ctx context.Context, now time.Time) model.Board {
	objectives := s.ListObjectives(ctx)
	return model.Board{
		Buckets:  BucketItems(objectives, now, s.weekStart),
		Progress: model.GlobalProgress(objectives),
	}
}
