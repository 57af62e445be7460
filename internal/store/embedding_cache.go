package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type embeddingCache struct {
	db *sql.DB
}

func (c *embeddingCache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("vector").
		From(entsql.Table(EmbeddingCacheTable.Name)).
		Where(entsql.EQ("key", cacheKey(model, text))).
		Query()

	var blob []byte
	err := c.db.QueryRowContext(ctx, query, args...).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read embedding: %w", err)
	}
	return unpackVector(blob), true, nil
}

func (c *embeddingCache) Put(ctx context.Context, model, text string, vec []float32) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(EmbeddingCacheTable.Name).
		Columns("key", "model", "dimensions", "vector", "created_at").
		Values(cacheKey(model, text), model, len(vec), packVector(vec), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write embedding: %w", err)
	}
	return nil
}

// cacheKey hashes model and text so arbitrarily long queries index cheaply.
func cacheKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func packVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func unpackVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
