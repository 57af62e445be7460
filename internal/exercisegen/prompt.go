package exercisegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/sqltutor/internal/exercises"
	"github.com/abhisek/sqltutor/internal/sqldb"
)

const systemPrompt = `You are an SQL instructor writing practice exercises for a sample e-commerce database in SQLite.

Rules:
- Write one exercise at the requested difficulty tier.
- The question must be answerable from the listed tables and views only.
- The solution is a single read-only SQLite statement starting with SELECT or WITH. No semicolon-separated statements.
- The solution must return at least one row on the sample data.
- If the question implies an order ("top 5", "sorted by"), the solution must use ORDER BY.
- List 2 to 4 SQL concepts the exercise practices.
- The hint nudges the learner without giving away the solution.
- Do not repeat any question from the "already asked" list.`

var tierGuidance = map[exercises.Tier]string{
	exercises.Beginner:     "single-table SELECT with WHERE, ORDER BY, LIMIT, simple aggregates",
	exercises.Intermediate: "JOINs across 2-3 tables, GROUP BY with HAVING, subqueries",
	exercises.Advanced:     "CTEs, window functions, correlated subqueries, CASE expressions",
}

// buildUserMessage constructs the user message from GenerateInput and
// Config limits. rejected lists reasons earlier candidates were refused.
func buildUserMessage(input GenerateInput, cfg Config, rejected []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tier: %s (%s)\n", input.Tier, tierGuidance[input.Tier])

	b.WriteString("\nDatabase schema:\n")
	b.WriteString(buildSchema(input.Tables))

	b.WriteString("\n\nExample exercises at this tier:\n")
	b.WriteString(buildExamples(input.Examples, cfg.MaxExamples))

	b.WriteString("\n\nAlready asked:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))

	if len(rejected) > 0 {
		b.WriteString("\n\nYour previous attempts were rejected:\n")
		for i, r := range rejected {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func buildSchema(tables []sqldb.Table) string {
	if len(tables) == 0 {
		return "Unknown"
	}

	var b strings.Builder
	for _, t := range tables {
		kind := "table"
		if t.View {
			kind = "view"
		}
		cols := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			col := c.Name + " " + c.Type
			if c.PrimaryKey {
				col += " PK"
			}
			cols = append(cols, strings.TrimSpace(col))
		}
		fmt.Fprintf(&b, "- %s %s(%s)\n", kind, t.Name, strings.Join(cols, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildExamples(examples []exercises.Exercise, max int) string {
	if len(examples) == 0 {
		return "None"
	}
	if max > 0 && len(examples) > max {
		examples = examples[:max]
	}

	var b strings.Builder
	for i, ex := range examples {
		fmt.Fprintf(&b, "%d. Q: %s\n   SQL: %s\n   Concepts: %s\n", i+1, ex.Question, ex.Solution, ex.ConceptList())
	}
	return strings.TrimRight(b.String(), "\n")
}
