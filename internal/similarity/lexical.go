package similarity

import (
	"context"
	"math"
	"unicode"
)

// LexicalScorer is an offline scorer: the cosine similarity of SQL token
// and token-bigram frequency vectors. Bigrams make clause order matter a
// little, so "a JOIN b" and "b JOIN a" are close but not identical.
type LexicalScorer struct{}

func (LexicalScorer) Similarity(_ context.Context, a, b string) (float64, error) {
	a, b = normalize(a), normalize(b)
	if a == b {
		return 1, nil
	}
	va, vb := termFrequencies(Tokenize(a)), termFrequencies(Tokenize(b))

	var dot, na, nb float64
	for term, x := range va {
		na += x * x
		dot += x * vb[term]
	}
	for _, y := range vb {
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return clamp01(dot / (math.Sqrt(na) * math.Sqrt(nb))), nil
}

func termFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64, 2*len(tokens))
	for i, t := range tokens {
		tf[t]++
		if i > 0 {
			tf[tokens[i-1]+" "+t] += 0.5
		}
	}
	return tf
}

// Tokenize splits SQL into words, numbers, quoted literals and single
// punctuation characters. Whitespace and a trailing semicolon are dropped.
func Tokenize(sql string) []string {
	var tokens []string
	rs := []rune(sql)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case unicode.IsSpace(r) || r == ';':
		case r == '\'' || r == '"' || r == '`':
			start := i
			for i++; i < len(rs); i++ {
				if rs[i] == r {
					if i+1 < len(rs) && rs[i+1] == r {
						i++
						continue
					}
					break
				}
			}
			end := min(i+1, len(rs))
			tokens = append(tokens, string(rs[start:end]))
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			start := i
			for i+1 < len(rs) && (rs[i+1] == '_' || rs[i+1] == '.' || unicode.IsLetter(rs[i+1]) || unicode.IsDigit(rs[i+1])) {
				i++
			}
			tokens = append(tokens, string(rs[start:i+1]))
		case (r == '<' || r == '>' || r == '!' || r == '|') && i+1 < len(rs) && (rs[i+1] == '=' || rs[i+1] == '>' || rs[i+1] == '|'):
			tokens = append(tokens, string(rs[i:i+2]))
			i++
		default:
			tokens = append(tokens, string(r))
		}
	}
	return tokens
}
