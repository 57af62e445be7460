package hints

import (
	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/similarity"
)

// Static returns the built-in hint for a hint tier. It needs no network
// and is what learners see whenever the AI collaborator is unavailable.
func Static(ex exercises.Exercise, tier similarity.HintTier) string {
	var text string
	switch tier {
	case similarity.NearMiss:
		text = "You're very close! Check your column names or table joins."
	case similarity.Structural:
		text = "You're on the right track. Review the required columns and conditions."
	case similarity.Conceptual:
		text = "You have some correct elements. Check the SQL clauses you're using."
	default:
		text = "Try a different approach. Remember the concepts: " + ex.ConceptList()
	}
	if ex.Hint != "" {
		text += "\nHint: " + ex.Hint
	}
	return text
}

// FeedbackUnavailable is shown instead of AI feedback when no provider
// can be reached.
const FeedbackUnavailable = "AI feedback is not available. Set ANTHROPIC_API_KEY (or another provider key) to enable it."
