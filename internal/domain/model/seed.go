package model

// SeedData is the initial content written into an empty dashboard.
type SeedData struct {
	Settings   Settings
	Objectives []SeedObjective
	Todos      []Todo
	Posts      []Post
}

// SeedObjective describes an objective whose deadline is relative to the
// moment of seeding.
type SeedObjective struct {
	Title          string
	Why            string
	How            string
	What           string
	DeadlineInDays int
	KeyResults     []SeedKeyResult
}

// SeedKeyResult is a key result belonging to a SeedObjective.
type SeedKeyResult struct {
	Title          string
	Priority       Priority
	Completed      bool
	DeadlineInDays int
}
