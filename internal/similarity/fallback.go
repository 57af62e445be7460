package similarity

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/store"
)

// FallbackScorer asks Primary first and Secondary when Primary fails or is
// nil. Secondary is normally a LexicalScorer, which never fails.
type FallbackScorer struct {
	Primary   Provider
	Secondary Provider
	Log       *zap.Logger
}

func (f *FallbackScorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	if f.Primary != nil {
		score, err := f.Primary.Similarity(ctx, a, b)
		if err == nil {
			return score, nil
		}
		if f.Log != nil {
			f.Log.Warn("similarity scorer failed, using fallback", zap.Error(err))
		}
	}
	return f.Secondary.Similarity(ctx, a, b)
}

// New builds the scorer the tutor uses: embeddings when an embedder is
// configured, lexical otherwise and whenever the embedder fails.
func New(e llm.Embedder, cache store.EmbeddingCache, log *zap.Logger) Provider {
	if e == nil {
		return LexicalScorer{}
	}
	return &FallbackScorer{
		Primary:   NewEmbeddingScorer(e, cache, log),
		Secondary: LexicalScorer{},
		Log:       log,
	}
}
