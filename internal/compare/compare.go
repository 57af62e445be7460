// Package compare decides whether a learner's result set matches the
// expected one.
//
// Columns are matched by name when both sides carry the same names
// (ignoring case and order), otherwise by position. Values are compared
// after normalisation so that 3, 3.0 and "3" are the same answer. Rows are
// compared as multisets unless the caller asks for an ordered comparison.
package compare

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/sqltutor/internal/sqldb"
)

// Result is the outcome of a comparison. Reason is empty when Equal.
type Result struct {
	Equal  bool
	Reason string
}

// Equal reports whether learner and expected hold the same answer.
// It is symmetric in its two result-set arguments.
func Equal(learner, expected *sqldb.ResultSet, ordered bool) bool {
	return Compare(learner, expected, ordered).Equal
}

// Compare is Equal with a short human-readable reason for a mismatch.
func Compare(learner, expected *sqldb.ResultSet, ordered bool) Result {
	if learner == nil || expected == nil {
		if learner == expected {
			return Result{Equal: true}
		}
		return Result{Reason: "missing result"}
	}

	if len(learner.Columns) != len(expected.Columns) {
		return Result{Reason: fmt.Sprintf("expected %d columns, got %d", len(expected.Columns), len(learner.Columns))}
	}
	if len(learner.Rows) != len(expected.Rows) {
		return Result{Reason: fmt.Sprintf("expected %d rows, got %d", len(expected.Rows), len(learner.Rows))}
	}

	var lperm, eperm []int
	if sameColumnNames(learner.Columns, expected.Columns) {
		lperm, eperm = canonicalOrder(learner.Columns), canonicalOrder(expected.Columns)
	} else {
		lperm, eperm = identity(len(learner.Columns)), identity(len(expected.Columns))
	}

	lkeys := rowKeys(learner.Rows, lperm)
	ekeys := rowKeys(expected.Rows, eperm)

	if !ordered {
		slices.Sort(lkeys)
		slices.Sort(ekeys)
	}
	if !slices.Equal(lkeys, ekeys) {
		if ordered && sameMultiset(lkeys, ekeys) {
			return Result{Reason: "rows are correct but in the wrong order"}
		}
		return Result{Reason: "row values differ"}
	}
	return Result{Equal: true}
}

// sameColumnNames reports whether a and b carry the same multiset of
// column names, ignoring case.
func sameColumnNames(a, b []string) bool {
	la, lb := lowerAll(a), lowerAll(b)
	slices.Sort(la)
	slices.Sort(lb)
	return slices.Equal(la, lb)
}

// canonicalOrder returns the column indexes sorted by lowercase name, with
// duplicates kept in their original relative order. Projecting both sides
// through their canonical order aligns same-named columns.
func canonicalOrder(cols []string) []int {
	lower := lowerAll(cols)
	perm := identity(len(cols))
	slices.SortStableFunc(perm, func(i, j int) int {
		return strings.Compare(lower[i], lower[j])
	})
	return perm
}

func rowKeys(rows [][]any, perm []int) []string {
	keys := make([]string, len(rows))
	var b strings.Builder
	for i, row := range rows {
		b.Reset()
		for _, c := range perm {
			tok := Normalize(row[c])
			fmt.Fprintf(&b, "%d:%s|", len(tok), tok)
		}
		keys[i] = b.String()
	}
	return keys
}

func sameMultiset(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}
