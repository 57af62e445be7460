// Package exercises holds the practice exercises: the bank they are loaded
// from, their difficulty tiers, and which ones a learner has completed.
package exercises

import "strings"

// Exercise is a single practice question with its reference solution.
// Exercises are never mutated after they enter a Bank.
type Exercise struct {
	ID        string   `json:"id"`
	Tier      Tier     `json:"-"`
	Question  string   `json:"question"`
	Solution  string   `json:"solution"`
	Concepts  []string `json:"concepts"`
	Hint      string   `json:"hint,omitempty"`
	Generated bool     `json:"-"`
}

// ConceptList returns the concepts joined for display.
func (e Exercise) ConceptList() string {
	return strings.Join(e.Concepts, ", ")
}
