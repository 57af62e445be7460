package exercisegen

import "github.com/abhisek/sqltutor/internal/llm"

// ExerciseSchema is the structured output requested from the model. Every
// property is required so that OpenAI strict mode accepts it.
var ExerciseSchema = &llm.Schema{
	Name:        "sql-exercise",
	Description: "A single SQL practice exercise with its reference solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The task shown to the learner, phrased as a question about the data",
			},
			"solution": map[string]any{
				"type":        "string",
				"description": "A single read-only SQLite SELECT (or WITH ... SELECT) statement that answers the question",
			},
			"concepts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    2,
				"maxItems":    4,
				"description": "The SQL concepts the exercise practices, e.g. JOIN, GROUP BY",
			},
			"hint": map[string]any{
				"type":        "string",
				"description": "A one-sentence nudge that does not give away the solution",
			},
		},
		"required":             []any{"question", "solution", "concepts", "hint"},
		"additionalProperties": false,
	},
}
