package httphandler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// optionalString distinguishes an absent JSON field from an explicit null.
type optionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records that the field was present and keeps its value.
func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// UpdateSettingsRequest is the JSON body for PUT /settings.
type UpdateSettingsRequest struct {
	GitHubUsername *string   `json:"githubUsername"`
	TrackedRepos   *[]string `json:"trackedRepos"`
}

// TokenRequest is the JSON body for PUT /settings/github-token.
type TokenRequest struct {
	Token string `json:"token"`
}

// CreateObjectiveRequest is the JSON body for POST /objectives.
type CreateObjectiveRequest struct {
	Title    string  `json:"title"`
	Why      string  `json:"why"`
	How      string  `json:"how"`
	What     string  `json:"what"`
	Deadline *string `json:"deadline"`
}

// PatchObjectiveRequest is the JSON body for PATCH /objectives/{id}.
type PatchObjectiveRequest struct {
	Title    *string        `json:"title"`
	Why      *string        `json:"why"`
	How      *string        `json:"how"`
	What     *string        `json:"what"`
	Deadline optionalString `json:"deadline"`
}

// CreateKeyResultRequest is the JSON body for POST /objectives/{id}/key-results.
type CreateKeyResultRequest struct {
	Title    string  `json:"title"`
	Priority string  `json:"priority"`
	Deadline *string `json:"deadline"`
}

// PatchKeyResultRequest is the JSON body for PATCH /key-results/{id}.
type PatchKeyResultRequest struct {
	Title    *string        `json:"title"`
	Priority *string        `json:"priority"`
	Why      *string        `json:"why"`
	How      *string        `json:"how"`
	What     *string        `json:"what"`
	Deadline optionalString `json:"deadline"`
}

// CreateTodoRequest is the JSON body for POST /todos.
type CreateTodoRequest struct {
	Content     string  `json:"content"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	DueDate     *string `json:"dueDate"`
}

// PatchTodoRequest is the JSON body for PATCH /todos/{id}.
type PatchTodoRequest struct {
	Content     *string        `json:"content"`
	Description *string        `json:"description"`
	Priority    *string        `json:"priority"`
	Category    *string        `json:"category"`
	Status      *string        `json:"status"`
	Completed   *bool          `json:"completed"`
	DueDate     optionalString `json:"dueDate"`
}

// ToggleTodoRequest is the JSON body for POST /todos/{id}/toggle.
type ToggleTodoRequest struct {
	Completed *bool `json:"completed"`
}

// PostRequest is the JSON body for POST /posts and PUT /posts/{slug}.
type PostRequest struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Excerpt string   `json:"excerpt"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Date    *string  `json:"date"`
}

// decodeBody decodes a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// parseDate accepts RFC 3339 timestamps or YYYY-MM-DD dates, the latter at
// midnight in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", s)
}

func parseDatePtr(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// applyDate resolves an optional PATCH date into a value or a clear flag.
func applyDate(o optionalString, loc *time.Location) (*time.Time, bool, error) {
	if !o.Set {
		return nil, false, nil
	}
	if o.Value == nil || *o.Value == "" {
		return nil, true, nil
	}
	t, err := parseDate(*o.Value, loc)
	if err != nil {
		return nil, false, err
	}
	return &t, false, nil
}

func (req PatchObjectiveRequest) toPatch(loc *time.Location) (model.ObjectivePatch, error) {
	deadline, clear, err := applyDate(req.Deadline, loc)
	if err != nil {
		return model.ObjectivePatch{}, err
	}
	return model.ObjectivePatch{
		Title:         req.Title,
		Why:           req.Why,
		How:           req.How,
		What:          req.What,
		Deadline:      deadline,
		ClearDeadline: clear,
	}, nil
}

func (req PatchKeyResultRequest) toPatch(loc *time.Location) (model.KeyResultPatch, error) {
	deadline, clear, err := applyDate(req.Deadline, loc)
	if err != nil {
		return model.KeyResultPatch{}, err
	}
	patch := model.KeyResultPatch{
		Title:         req.Title,
		Why:           req.Why,
		How:           req.How,
		What:          req.What,
		Deadline:      deadline,
		ClearDeadline: clear,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}
	return patch, nil
}

func (req PatchTodoRequest) toPatch(loc *time.Location) (model.TodoPatch, error) {
	due, clear, err := applyDate(req.DueDate, loc)
	if err != nil {
		return model.TodoPatch{}, err
	}
	patch := model.TodoPatch{
		Content:      req.Content,
		Description:  req.Description,
		Completed:    req.Completed,
		DueDate:      due,
		ClearDueDate: clear,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Category != nil {
		c := model.TodoCategory(*req.Category)
		patch.Category = &c
	}
	if req.Status != nil {
		s := model.TodoStatus(*req.Status)
		patch.Status = &s
	}
	return patch, nil
}
