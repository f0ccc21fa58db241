package model

import "time"

// Objective is a top-level goal in the OKR tracker. KeyResults holds only
// the live (not deleted) key results, newest first.
type Objective struct {
	ID         string
	Title      string
	Why        string
	How        string
	What       string
	Completed  bool
	Deadline   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	KeyResults []KeyResult
}

// KeyResult is a measurable sub-goal of an Objective.
type KeyResult struct {
	ID          string
	ObjectiveID string
	Title       string
	Priority    Priority
	Completed   bool
	Deadline    *time.Time
	Why         string
	How         string
	What        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ObjectivePatch is a partial update. ClearDeadline removes the deadline and
// wins over Deadline.
type ObjectivePatch struct {
	Title         *string
	Why           *string
	How           *string
	What          *string
	Deadline      *time.Time
	ClearDeadline bool
}

// KeyResultPatch is a partial update of a key result.
type KeyResultPatch struct {
	Title         *string
	Priority      *Priority
	Why           *string
	How           *string
	What          *string
	Deadline      *time.Time
	ClearDeadline bool
}

// Apply copies the set fields of p onto o.
func (p ObjectivePatch) Apply(o *Objective) {
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Why != nil {
		o.Why = *p.Why
	}
	if p.How != nil {
		o.How = *p.How
	}
	if p.What != nil {
		o.What = *p.What
	}
	switch {
	case p.ClearDeadline:
		o.Deadline = nil
	case p.Deadline != nil:
		d := *p.Deadline
		o.Deadline = &d
	}
}

// Apply copies the set fields of p onto kr.
func (p KeyResultPatch) Apply(kr *KeyResult) {
	if p.Title != nil {
		kr.Title = *p.Title
	}
	if p.Priority != nil {
		kr.Priority = *p.Priority
	}
	if p.Why != nil {
		kr.Why = *p.Why
	}
	if p.How != nil {
		kr.How = *p.How
	}
	if p.What != nil {
		kr.What = *p.What
	}
	switch {
	case p.ClearDeadline:
		kr.Deadline = nil
	case p.Deadline != nil:
		d := *p.Deadline
		kr.Deadline = &d
	}
}

// Progress returns the objective's completion percentage in [0, 100].
// Without key results it is all-or-nothing on Completed; otherwise it is the
// share of completed key results, rounded half up.
func (o Objective) Progress() int {
	if len(o.KeyResults) == 0 {
		if o.Completed {
			return 100
		}
		return 0
	}

	done := 0
	for _, kr := range o.KeyResults {
		if kr.Completed {
			done++
		}
	}
	return percent(done, len(o.KeyResults))
}

// Progress is an aggregate completion figure.
type Progress struct {
	Percent   int
	Completed int
	Total     int
}

// GlobalProgress scores every key result as one point. An objective without
// key results is a single point, earned when the objective is completed.
func GlobalProgress(objectives []Objective) Progress {
	var p Progress
	for _, o := range objectives {
		if len(o.KeyResults) == 0 {
			p.Total++
			if o.Completed {
				p.Completed++
			}
			continue
		}
		p.Total += len(o.KeyResults)
		for _, kr := range o.KeyResults {
			if kr.Completed {
				p.Completed++
			}
		}
	}
	if p.Total > 0 {
		p.Percent = percent(p.Completed, p.Total)
	}
	return p
}

// percent computes round(100*done/total) with halves rounded up, in integer
// arithmetic so 50% boundaries are exact.
func percent(done, total int) int {
	return (200*done + total) / (2 * total)
}
