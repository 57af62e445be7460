package compare

import (
	"strings"
	"unicode"
)

// OrderSensitive reports whether a reference query fixes the order of its
// result, meaning it has an ORDER BY at the outermost level. ORDER BY
// inside a subquery, CTE body or window definition does not count, and
// neither does text inside literals, quoted identifiers or comments.
func OrderSensitive(query string) bool {
	var prev string
	for _, w := range topLevelWords(query) {
		if prev == "ORDER" && w == "BY" {
			return true
		}
		prev = w
	}
	return false
}

// topLevelWords returns the upper-cased bare words of query that sit at
// parenthesis depth zero. Any other token resets word adjacency by being
// emitted as "".
func topLevelWords(query string) []string {
	var (
		words []string
		depth int
		rs    = []rune(query)
	)

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '-' && i+1 < len(rs) && rs[i+1] == '-':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
		case r == '/' && i+1 < len(rs) && rs[i+1] == '*':
			i += 2
			for i < len(rs) && !(rs[i] == '*' && i+1 < len(rs) && rs[i+1] == '/') {
				i++
			}
			i++
		case r == '\'' || r == '"' || r == '`':
			i = skipQuoted(rs, i, r)
			if depth == 0 {
				words = append(words, "")
			}
		case r == '[':
			for i < len(rs) && rs[i] != ']' {
				i++
			}
			if depth == 0 {
				words = append(words, "")
			}
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				words = append(words, "")
			}
		case isWordRune(r):
			start := i
			for i+1 < len(rs) && isWordRune(rs[i+1]) {
				i++
			}
			if depth == 0 {
				words = append(words, strings.ToUpper(string(rs[start:i+1])))
			}
		case unicode.IsSpace(r):
		default:
			if depth == 0 {
				words = append(words, "")
			}
		}
	}
	return words
}

// skipQuoted returns the index of the closing quote of the literal that
// opens at rs[i]. A doubled quote is an escaped quote.
func skipQuoted(rs []rune, i int, q rune) int {
	for i++; i < len(rs); i++ {
		if rs[i] == q {
			if i+1 < len(rs) && rs[i+1] == q {
				i++
				continue
			}
			return i
		}
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
