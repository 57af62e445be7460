package hints

import (
	"fmt"
	"strings"

	"github.com/abhisek/sqltutor/internal/similarity"
)

const hintSystemPrompt = `You are an SQL tutor helping a student who is struggling with a problem. You never reveal the full solution in a hint.`

func buildHintUserMessage(in HintInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", in.Exercise.Question)
	fmt.Fprintf(&b, "Required concepts: %s\n", in.Exercise.ConceptList())
	fmt.Fprintf(&b, "Expected solution: %s\n", in.Exercise.Solution)
	fmt.Fprintf(&b, "Student's query: %s\n", in.SQL)
	if in.ExecError != "" {
		fmt.Fprintf(&b, "The query failed with: %s\n", in.ExecError)
	}
	if in.Similarity >= 0 {
		fmt.Fprintf(&b, "Similarity score: %.2f (0=completely different, 1=identical)\n", in.Similarity)
	}
	fmt.Fprintf(&b, "Attempt number: %d\n", in.Attempt)

	fmt.Fprintf(&b, "\nThe student is in the %q band: %s\n", in.Tier, tierGuidance(in.Tier))

	b.WriteString(`
Provide a concise, encouraging hint (2-3 sentences max) that helps them get closer without revealing the full solution.`)

	return b.String()
}

func tierGuidance(t similarity.HintTier) string {
	switch t {
	case similarity.NearMiss:
		return "they are VERY CLOSE. Point out the specific small difference (a column name, a condition, a join key)."
	case similarity.Structural:
		return "they have the right structure. Guide them on what is missing or incorrect."
	case similarity.Conceptual:
		return "they have some correct elements. Say which SQL clause needs work."
	default:
		return "they need more guidance. Suggest which SQL concepts to focus on without giving the answer."
	}
}

const feedbackSystemPrompt = `You are an SQL tutor. Focus on teaching, not just correcting.`

func buildFeedbackUserMessage(in FeedbackInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n", in.Exercise.Question)
	fmt.Fprintf(&b, "Expected solution: %s\n", in.Exercise.Solution)
	fmt.Fprintf(&b, "Student's query: %s\n", in.SQL)
	if in.Correct {
		b.WriteString("Result: Correct\n")
	} else {
		b.WriteString("Result: Incorrect\n")
	}
	if in.ExecError != "" {
		fmt.Fprintf(&b, "Database error: %s\n", in.ExecError)
	}

	b.WriteString(`
Provide encouraging, educational feedback:
1. If correct: praise the solution and explain which concepts they used well.
2. If incorrect: gently explain what went wrong and give hints without giving away the full answer.
3. Suggest optimizations or alternative approaches if relevant.
4. Keep it concise (2-3 short paragraphs). Markdown is allowed.`)

	return b.String()
}
