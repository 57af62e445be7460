package similarity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/store"
)

// EmbeddingScorer compares queries by the cosine similarity of their
// embeddings. Vectors are cached per model and text, so scoring the same
// pair twice gives the same answer without a second remote call.
type EmbeddingScorer struct {
	embedder llm.Embedder
	cache    store.EmbeddingCache
	log      *zap.Logger
}

// NewEmbeddingScorer creates a scorer. cache and log may be nil.
func NewEmbeddingScorer(e llm.Embedder, cache store.EmbeddingCache, log *zap.Logger) *EmbeddingScorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmbeddingScorer{embedder: e, cache: cache, log: log}
}

func (s *EmbeddingScorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	a, b = normalize(a), normalize(b)
	if a == b {
		return 1, nil
	}

	vecs, err := s.vectors(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}
	cos, err := Cosine(vecs[0], vecs[1])
	if err != nil {
		return 0, err
	}
	return clamp01(cos), nil
}

func (s *EmbeddingScorer) vectors(ctx context.Context, texts []string) ([][]float32, error) {
	model := s.embedder.ModelID()
	out := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int
	for i, t := range texts {
		if s.cache != nil {
			vec, ok, err := s.cache.Get(ctx, model, t)
			if err != nil {
				s.log.Warn("embedding cache read failed", zap.Error(err))
			} else if ok {
				out[i] = vec
				continue
			}
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	ctx = llm.WithPurpose(ctx, "embedding")
	vecs, err := s.embedder.Embed(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("embed queries: %w", err)
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("embed queries: got %d vectors for %d texts", len(vecs), len(missing))
	}

	for j, vec := range vecs {
		out[missingIdx[j]] = vec
		if s.cache != nil {
			if err := s.cache.Put(ctx, model, missing[j], vec); err != nil {
				s.log.Warn("embedding cache write failed", zap.Error(err))
			}
		}
	}
	return out, nil
}
