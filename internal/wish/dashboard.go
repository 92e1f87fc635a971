package wish

import "sort"

// RecentLimit is how many wishes the dashboard previews.
const RecentLimit = 5

type Summary struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Recent    []Task `json:"recent"`
}

// Percent is the share of completed wishes, 0..100.
func (s Summary) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Completed * 100 / s.Total
}

// Summarize counts wishes and picks the n most recently touched ones.
// The input slice is not reordered.
func Summarize(tasks []Task, n int) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			s.Completed++
		}
	}
	recent := make([]Task, len(tasks))
	copy(recent, tasks)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastTouched().After(recent[j].LastTouched())
	})
	if n >= 0 && len(recent) > n {
		recent = recent[:n]
	}
	s.Recent = recent
	return s
}
