package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
	"github.com/ericfisherdev/mydashboard/internal/domain/port/driven"
)

// SeedResult counts what a seed run wrote.
type SeedResult struct {
	SettingsCreated bool
	Objectives      int
	KeyResults      int
	Todos           int
	Posts           int
}

// SeedService writes initial content into an empty dashboard. Existing data
// is never modified, so seeding is safe to repeat.
type SeedService struct {
	settings   driven.SettingsStore
	objectives driven.ObjectiveStore
	todos      driven.TodoStore
	posts      driven.PostStore
	logger     *slog.Logger
}

// NewSeedService creates a SeedService.
func NewSeedService(
	settings driven.SettingsStore,
	objectives driven.ObjectiveStore,
	todos driven.TodoStore,
	posts driven.PostStore,
	logger *slog.Logger,
) *SeedService {
	return &SeedService{
		settings:   settings,
		objectives: objectives,
		todos:      todos,
		posts:      posts,
		logger:     logger,
	}
}

// Seed applies data. Relative deadlines are resolved against now.
func (s *SeedService) Seed(ctx context.Context, data model.SeedData, now time.Time) (SeedResult, error) {
	var res SeedResult

	existing, err := s.settings.Get(ctx)
	if err != nil {
		return res, fmt.Errorf("seed settings: %w", err)
	}
	if existing == nil {
		if _, err := s.settings.EnsureExists(ctx, data.Settings); err != nil {
			return res, fmt.Errorf("seed settings: %w", err)
		}
		res.SettingsCreated = true
	}

	if err := s.seedObjectives(ctx, data.Objectives, now, &res); err != nil {
		return res, err
	}
	if err := s.seedTodos(ctx, data.Todos, &res); err != nil {
		return res, err
	}
	if err := s.seedPosts(ctx, data.Posts, now, &res); err != nil {
		return res, err
	}

	s.logger.Info("seed complete",
		"settings_created", res.SettingsCreated,
		"objectives", res.Objectives,
		"key_results", res.KeyResults,
		"todos", res.Todos,
		"posts", res.Posts,
	)
	return res, nil
}

func (s *SeedService) seedObjectives(ctx context.Context, seeds []model.SeedObjective, now time.Time, res *SeedResult) error {
	current, err := s.objectives.ListObjectives(ctx)
	if err != nil {
		return fmt.Errorf("seed objectives: %w", err)
	}
	if len(current) > 0 {
		return nil
	}

	for _, so := range seeds {
		o, err := s.objectives.CreateObjective(ctx, model.Objective{
			ID:       uuid.NewString(),
			Title:    so.Title,
			Why:      so.Why,
			How:      so.How,
			What:     so.What,
			Deadline: deadlineIn(now, so.DeadlineInDays),
		})
		if err != nil {
			return fmt.Errorf("seed objective %q: %w", so.Title, err)
		}
		res.Objectives++

		for _, sk := range so.KeyResults {
			priority, err := model.ParsePriority(string(sk.Priority))
			if err != nil {
				return fmt.Errorf("seed key result %q: %w", sk.Title, err)
			}
			_, err = s.objectives.CreateKeyResult(ctx, model.KeyResult{
				ID:          uuid.NewString(),
				ObjectiveID: o.ID,
				Title:       sk.Title,
				Priority:    priority,
				Completed:   sk.Completed,
				Deadline:    deadlineIn(now, sk.DeadlineInDays),
			})
			if err != nil {
				return fmt.Errorf("seed key result %q: %w", sk.Title, err)
			}
			res.KeyResults++
		}
	}
	return nil
}

func (s *SeedService) seedTodos(ctx context.Context, seeds []model.Todo, res *SeedResult) error {
	n, err := s.todos.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed todos: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, t := range seeds {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		if t.Category == "" {
			t.Category = model.TodoCategoryShortTerm
		}
		if t.Status == "" {
			t.SetCompleted(t.Completed)
		} else {
			t.SetStatus(t.Status)
		}
		if _, err := s.todos.Create(ctx, t); err != nil {
			return fmt.Errorf("seed todo %q: %w", t.Content, err)
		}
		res.Todos++
	}
	return nil
}

func (s *SeedService) seedPosts(ctx context.Context, seeds []model.Post, now time.Time, res *SeedResult) error {
	for _, p := range seeds {
		existing, err := s.posts.GetBySlug(ctx, p.Slug)
		if err != nil {
			return fmt.Errorf("seed post %s: %w", p.Slug, err)
		}
		if existing != nil {
			continue
		}
		if p.Date.IsZero() {
			p.Date = now.UTC()
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		if _, err := s.posts.Create(ctx, p); err != nil {
			return fmt.Errorf("seed post %s: %w", p.Slug, err)
		}
		res.Posts++
	}
	return nil
}

// deadlineIn returns now plus days, or nil when days is zero.
func deadlineIn(now time.Time, days int) *time.Time {
	if days == 0 {
		return nil
	}
	d := now.AddDate(0, 0, days).UTC()
	return &d
}
