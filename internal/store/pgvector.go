package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/prepbuddy-ai/prepbuddy/internal/domain"
)

// PgvectorStore persists chunks in a Postgres table with a pgvector
// embedding column. Queries use cosine distance; scores are reported as
// 1 - distance so larger means more relevant, matching the chromem
// backend.
type PgvectorStore struct {
	pool *pgxpool.Pool
}

// NewPgvectorStore connects to Postgres and verifies the connection.
// Schema is managed by the migrations in migrations/.
func NewPgvectorStore(ctx context.Context, databaseURL string) (*PgvectorStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to connect to database", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to ping database", err)
	}

	return &PgvectorStore{pool: pool}, nil
}

// NewPgvectorStoreWithPool wraps an existing pool, used by tests.
func NewPgvectorStoreWithPool(pool *pgxpool.Pool) *PgvectorStore {
	return &PgvectorStore{pool: pool}
}

func (s *PgvectorStore) Upsert(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		page, _ := strconv.Atoi(e.Metadata[MetaPage])
		_, err := s.pool.Exec(ctx,
			`INSERT INTO textbook_chunks (chunk_id, content, filename, page, section, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (chunk_id) DO UPDATE SET
				content = EXCLUDED.content,
				filename = EXCLUDED.filename,
				page = EXCLUDED.page,
				section = EXCLUDED.section,
				embedding = EXCLUDED.embedding`,
			e.ID,
			e.Text,
			e.Metadata[MetaFilename],
			page,
			e.Metadata[MetaSection],
			pgvector.NewVector(e.Embedding),
		)
		if err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to upsert chunk", err)
		}
	}
	return nil
}

func (s *PgvectorStore) Query(ctx context.Context, embedding []float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT chunk_id, content, filename, page, section,
			1 - (embedding <=> $1) AS score
		 FROM textbook_chunks
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding),
		k,
	)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "similarity query failed", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var filename, section string
		var page int
		var score float64
		if err := rows.Scan(&r.ID, &r.Text, &filename, &page, &section, &score); err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to scan result", err)
		}
		r.Metadata = map[string]string{
			MetaFilename: filename,
			MetaPage:     strconv.Itoa(page),
			MetaSection:  section,
		}
		r.Score = float32(score)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to read results", err)
	}
	return results, nil
}

func (s *PgvectorStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM textbook_chunks`).Scan(&count)
	if err != nil {
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to count chunks", err)
	}
	return count, nil
}

func (s *PgvectorStore) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM textbook_chunks`)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeStoreDown, "failed to clear chunks", err)
	}
	return nil
}

func (s *PgvectorStore) Close() {
	s.pool.Close()
}
