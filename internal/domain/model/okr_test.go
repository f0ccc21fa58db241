package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func krs(completed ...bool) []KeyResult {
	out := make([]KeyResult, len(completed))
	for i, c := range completed {
		out[i] = KeyResult{ID: string(rune('a' + i)), Completed: c}
	}
	return out
}

func TestObjectiveProgress(t *testing.T) {
	tests := []struct {
		name string
		obj  Objective
		want int
	}{
		{"no key results, open", Objective{}, 0},
		{"no key results, completed", Objective{Completed: true}, 100},
		{"completed flag ignored when key results exist", Objective{Completed: true, KeyResults: krs(false, false)}, 0},
		{"one of three", Objective{KeyResults: krs(true, false, false)}, 33},
		{"two of three", Objective{KeyResults: krs(true, true, false)}, 67},
		{"half rounds exactly", Objective{KeyResults: krs(true, false)}, 50},
		{"one of eight rounds half up", Objective{KeyResults: krs(true, false, false, false, false, false, false, false)}, 13},
		{"all done", Objective{KeyResults: krs(true, true, true)}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.obj.Progress()
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestGlobalProgress(t *testing.T) {
	objectives := []Objective{
		{KeyResults: krs(true, false, true)},
		{Completed: true},
		{},
	}

	p := GlobalProgress(objectives)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 3, p.Completed)
	assert.Equal(t, 60, p.Percent)
}

func TestGlobalProgress_Empty(t *testing.T) {
	assert.Equal(t, Progress{}, GlobalProgress(nil))
}

func TestObjectivePatch_Apply(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	title := "New title"
	o := Objective{Title: "Old", Why: "because", Deadline: &deadline}

	ObjectivePatch{Title: &title}.Apply(&o)
	assert.Equal(t, "New title", o.Title)
	assert.Equal(t, "because", o.Why)
	assert.NotNil(t, o.Deadline)

	ObjectivePatch{ClearDeadline: true, Deadline: &deadline}.Apply(&o)
	assert.Nil(t, o.Deadline)
}

func TestKeyResultPatch_Apply(t *testing.T) {
	high := PriorityHigh
	deadline := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	kr := KeyResult{Title: "Ship", Priority: PriorityMedium}

	KeyResultPatch{Priority: &high, Deadline: &deadline}.Apply(&kr)
	assert.Equal(t, PriorityHigh, kr.Priority)
	assert.Equal(t, "Ship", kr.Title)
	assert.True(t, kr.Deadline.Equal(deadline))
}
