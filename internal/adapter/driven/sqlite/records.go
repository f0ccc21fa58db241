package sqlite

import (
	"time"

	"gorm.io/gorm"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// Row types mirror the migration schema. Column names are explicit so the
// default naming strategy never diverges from the SQL files.

type settingsRecord struct {
	ID             uint      `gorm:"column:id;primaryKey"`
	GitHubUsername string    `gorm:"column:github_username"`
	TrackedRepos   []string  `gorm:"column:tracked_repos;serializer:json"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (settingsRecord) TableName() string { return "settings" }

type objectiveRecord struct {
	ID         string            `gorm:"column:id;primaryKey"`
	Title      string            `gorm:"column:title"`
	Why        string            `gorm:"column:why"`
	How        string            `gorm:"column:how"`
	What       string            `gorm:"column:what"`
	Completed  bool              `gorm:"column:completed"`
	Deadline   *time.Time        `gorm:"column:deadline"`
	CreatedAt  time.Time         `gorm:"column:created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"column:deleted_at;index"`
	KeyResults []keyResultRecord `gorm:"foreignKey:ObjectiveID"`
}

func (objectiveRecord) TableName() string { return "objectives" }

type keyResultRecord struct {
	ID          string         `gorm:"column:id;primaryKey"`
	ObjectiveID string         `gorm:"column:objective_id"`
	Title       string         `gorm:"column:title"`
	Priority    string         `gorm:"column:priority"`
	Completed   bool           `gorm:"column:completed"`
	Deadline    *time.Time     `gorm:"column:deadline"`
	Why         string         `gorm:"column:why"`
	How         string         `gorm:"column:how"`
	What        string         `gorm:"column:what"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (keyResultRecord) TableName() string { return "key_results" }

type todoRecord struct {
	ID          string         `gorm:"column:id;primaryKey"`
	Content     string         `gorm:"column:content"`
	Description string         `gorm:"column:description"`
	Priority    string         `gorm:"column:priority"`
	Category    string         `gorm:"column:category"`
	Status      string         `gorm:"column:status"`
	Completed   bool           `gorm:"column:completed"`
	DueDate     *time.Time     `gorm:"column:due_date"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (todoRecord) TableName() string { return "todos" }

type postRecord struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Slug      string    `gorm:"column:slug;uniqueIndex"`
	Title     string    `gorm:"column:title"`
	Excerpt   string    `gorm:"column:excerpt"`
	Content   string    `gorm:"column:content"`
	Tags      []string  `gorm:"column:tags;serializer:json"`
	Date      time.Time `gorm:"column:date"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (postRecord) TableName() string { return "posts" }

// credentialRecord.Value holds the sealed secret, never plaintext.
type credentialRecord struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Service   string    `gorm:"column:service;uniqueIndex"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (credentialRecord) TableName() string { return "credentials" }

// newestFirst orders by creation time; rowid breaks ties between rows
// created within the same clock tick.
const newestFirst = "created_at DESC, rowid DESC"

func toSettings(r settingsRecord) model.Settings {
	repos := r.TrackedRepos
	if repos == nil {
		repos = []string{}
	}
	return model.Settings{
		GitHubUsername: r.GitHubUsername,
		TrackedRepos:   repos,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toObjective(r objectiveRecord) model.Objective {
	o := model.Objective{
		ID:         r.ID,
		Title:      r.Title,
		Why:        r.Why,
		How:        r.How,
		What:       r.What,
		Completed:  r.Completed,
		Deadline:   utcPtr(r.Deadline),
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
		KeyResults: make([]model.KeyResult, 0, len(r.KeyResults)),
	}
	for _, kr := range r.KeyResults {
		o.KeyResults = append(o.KeyResults, toKeyResult(kr))
	}
	return o
}

func fromObjective(o model.Objective) objectiveRecord {
	return objectiveRecord{
		ID:        o.ID,
		Title:     o.Title,
		Why:       o.Why,
		How:       o.How,
		What:      o.What,
		Completed: o.Completed,
		Deadline:  utcPtr(o.Deadline),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toKeyResult(r keyResultRecord) model.KeyResult {
	return model.KeyResult{
		ID:          r.ID,
		ObjectiveID: r.ObjectiveID,
		Title:       r.Title,
		Priority:    model.Priority(r.Priority),
		Completed:   r.Completed,
		Deadline:    utcPtr(r.Deadline),
		Why:         r.Why,
		How:         r.How,
		What:        r.What,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func fromKeyResult(kr model.KeyResult) keyResultRecord {
	return keyResultRecord{
		ID:          kr.ID,
		ObjectiveID: kr.ObjectiveID,
		Title:       kr.Title,
		Priority:    string(kr.Priority),
		Completed:   kr.Completed,
		Deadline:    utcPtr(kr.Deadline),
		Why:         kr.Why,
		How:         kr.How,
		What:        kr.What,
		CreatedAt:   kr.CreatedAt,
		UpdatedAt:   kr.UpdatedAt,
	}
}

func toTodo(r todoRecord) model.Todo {
	return model.Todo{
		ID:          r.ID,
		Content:     r.Content,
		Description: r.Description,
		Priority:    model.Priority(r.Priority),
		Category:    model.TodoCategory(r.Category),
		Status:      model.TodoStatus(r.Status),
		Completed:   r.Completed,
		DueDate:     utcPtr(r.DueDate),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func fromTodo(t model.Todo) todoRecord {
	return todoRecord{
		ID:          t.ID,
		Content:     t.Content,
		Description: t.Description,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		Status:      string(t.Status),
		Completed:   t.Completed,
		DueDate:     utcPtr(t.DueDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toPost(r postRecord) model.Post {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Post{
		Slug:    r.Slug,
		Title:   r.Title,
		Excerpt: r.Excerpt,
		Content: r.Content,
		Tags:    tags,
		Date:    r.Date.UTC(),
	}
}

// utcPtr normalizes optional timestamps to UTC, copying the value.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
