package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

//go:embed default_seed.yaml
var defaultSeed []byte

type seedFile struct {
	Settings struct {
		GitHubUsername string   `yaml:"github_username"`
		TrackedRepos   []string `yaml:"tracked_repos"`
	} `yaml:"settings"`
	Objectives []seedObjective `yaml:"objectives"`
	Todos      []seedTodo      `yaml:"todos"`
	Posts      []seedPost      `yaml:"posts"`
}

type seedObjective struct {
	Title          string          `yaml:"title"`
	Why            string          `yaml:"why"`
	How            string          `yaml:"how"`
	What           string          `yaml:"what"`
	DeadlineInDays int             `yaml:"deadline_in_days"`
	KeyResults     []seedKeyResult `yaml:"key_results"`
}

type seedKeyResult struct {
	Title          string `yaml:"title"`
	Priority       string `yaml:"priority"`
	Completed      bool   `yaml:"completed"`
	DeadlineInDays int    `yaml:"deadline_in_days"`
}

type seedTodo struct {
	Content     string `yaml:"content"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority"`
	Category    string `yaml:"category"`
	Status      string `yaml:"status"`
}

type seedPost struct {
	Slug    string   `yaml:"slug"`
	Title   string   `yaml:"title"`
	Excerpt string   `yaml:"excerpt"`
	Content string   `yaml:"content"`
	Tags    []string `yaml:"tags"`
	DaysAgo int      `yaml:"days_ago"`
}

// DefaultSeed returns the seed embedded in the binary, with relative post
// dates resolved against now.
func DefaultSeed(now time.Time) (model.SeedData, error) {
	return ParseSeed(defaultSeed, now)
}

// LoadSeedFile reads and parses a seed file.
func LoadSeedFile(path string, now time.Time) (model.SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SeedData{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data, now)
}

// ParseSeed decodes YAML seed data and validates its enums.
func ParseSeed(data []byte, now time.Time) (model.SeedData, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return model.SeedData{}, fmt.Errorf("parse seed: %w", err)
	}

	repos := f.Settings.TrackedRepos
	if repos == nil {
		repos = []string{}
	}
	for _, r := range repos {
		if !model.ValidRepoName(r) {
			return model.SeedData{}, fmt.Errorf("seed settings: invalid repository %q", r)
		}
	}

	out := model.SeedData{
		Settings: model.Settings{GitHubUsername: f.Settings.GitHubUsername, TrackedRepos: repos},
	}

	for _, o := range f.Objectives {
		so := model.SeedObjective{
			Title:          o.Title,
			Why:            o.Why,
			How:            o.How,
			What:           o.What,
			DeadlineInDays: o.DeadlineInDays,
		}
		for _, kr := range o.KeyResults {
			p, err := model.ParsePriority(kr.Priority)
			if err != nil {
				return model.SeedData{}, fmt.Errorf("seed key result %q: %w", kr.Title, err)
			}
			so.KeyResults = append(so.KeyResults, model.SeedKeyResult{
				Title:          kr.Title,
				Priority:       p,
				Completed:      kr.Completed,
				DeadlineInDays: kr.DeadlineInDays,
			})
		}
		out.Objectives = append(out.Objectives, so)
	}

	for _, t := range f.Todos {
		todo, err := t.toModel()
		if err != nil {
			return model.SeedData{}, fmt.Errorf("seed todo %q: %w", t.Content, err)
		}
		out.Todos = append(out.Todos, todo)
	}

	for _, p := range f.Posts {
		if !model.ValidSlug(p.Slug) {
			return model.SeedData{}, fmt.Errorf("seed post: invalid slug %q", p.Slug)
		}
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		out.Posts = append(out.Posts, model.Post{
			Slug:    p.Slug,
			Title:   p.Title,
			Excerpt: p.Excerpt,
			Content: p.Content,
			Tags:    tags,
			Date:    now.AddDate(0, 0, -p.DaysAgo).UTC(),
		})
	}

	return out, nil
}

func (t seedTodo) toModel() (model.Todo, error) {
	priority, err := model.ParsePriority(t.Priority)
	if err != nil {
		return model.Todo{}, err
	}
	category, err := model.ParseTodoCategory(t.Category)
	if err != nil {
		return model.Todo{}, err
	}
	status, err := model.ParseTodoStatus(t.Status)
	if err != nil {
		return model.Todo{}, err
	}

	todo := model.Todo{
		Content:     t.Content,
		Description: t.Description,
		Priority:    priority,
		Category:    category,
	}
	todo.SetStatus(status)
	return todo, nil
}
