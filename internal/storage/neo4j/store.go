package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/plugplayers/internal/repository"
	pkgneo4j "github.com/honeycarbs/plugplayers/pkg/neo4j"
)

// Ensure Store implements repository.Store
var _ repository.Store = (*Store)(nil)

// Store keeps each record as a :Record node keyed by kind and id
type Store struct {
	client *pkgneo4j.Client
}

// NewStore ensures the uniqueness constraint and returns a Store
func NewStore(ctx context.Context, client *pkgneo4j.Client) (*Store, error) {
	err := client.Exec(ctx,
		`CREATE CONSTRAINT record_key IF NOT EXISTS FOR (r:Record) REQUIRE r.key IS UNIQUE`, nil)
	if err != nil {
		return nil, fmt.Errorf("neo4j: ensure record constraint: %w", err)
	}
	return &Store{client: client}, nil
}

func recordKey(kind repository.Kind, id string) string {
	return string(kind) + ":" + id
}

// Get loads one record
func (s *Store) Get(ctx context.Context, kind repository.Kind, id string) (repository.Record, error) {
	out, err := s.client.Read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (r:Record {key: $key})
			RETURN r.id AS id, r.version AS version, r.data AS data, r.updatedAt AS updatedAt
		`, map[string]any{"key": recordKey(kind, id)})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return repository.Record{}, fmt.Errorf("neo4j: get %s %q: %w", kind, id, err)
	}

	rows := out.([]*neo4j.Record)
	if len(rows) == 0 {
		return repository.Record{}, repository.ErrNotFound
	}
	return decode(kind, rows[0])
}

// Create inserts rec at version 1
func (s *Store) Create(ctx context.Context, rec repository.Record) (repository.Record, error) {
	_, err := s.client.Write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			CREATE (r:Record {key: $key, kind: $kind, id: $id, version: 1, data: $data, updatedAt: $updatedAt})
		`, map[string]any{
			"key":       recordKey(rec.Kind, rec.ID),
			"kind":      string(rec.Kind),
			"id":        rec.ID,
			"data":      string(rec.Data),
			"updatedAt": rec.UpdatedAt.UTC().UnixMilli(),
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		if pkgneo4j.IsConstraintViolation(err) {
			return repository.Record{}, repository.ErrConflict
		}
		return repository.Record{}, fmt.Errorf("neo4j: create %s %q: %w", rec.Kind, rec.ID, err)
	}
	rec.Version = 1
	return rec, nil
}

// Update takes the node write lock first, then compares versions, so two
// writers holding the same expected version cannot both succeed
func (s *Store) Update(ctx context.Context, rec repository.Record, expected int64) (repository.Record, error) {
	out, err := s.client.Write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (r:Record {key: $key})
			SET r.touchedAt = $updatedAt
			WITH r, r.version AS current
			FOREACH (_ IN CASE WHEN current = $expected THEN [1] ELSE [] END |
				SET r.version = current + 1, r.data = $data, r.updatedAt = $updatedAt
			)
			RETURN current
		`, map[string]any{
			"key":       recordKey(rec.Kind, rec.ID),
			"expected":  expected,
			"data":      string(rec.Data),
			"updatedAt": rec.UpdatedAt.UTC().UnixMilli(),
		})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return repository.Record{}, fmt.Errorf("neo4j: update %s %q: %w", rec.Kind, rec.ID, err)
	}

	rows := out.([]*neo4j.Record)
	if len(rows) == 0 {
		return repository.Record{}, repository.ErrNotFound
	}
	current, _ := rows[0].Get("current")
	if v, ok := current.(int64); !ok || v != expected {
		return repository.Record{}, repository.ErrVersionConflict
	}
	rec.Version = expected + 1
	return rec, nil
}

// List returns every record of kind ordered by id
func (s *Store) List(ctx context.Context, kind repository.Kind) ([]repository.Record, error) {
	out, err := s.client.Read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (r:Record {kind: $kind})
			RETURN r.id AS id, r.version AS version, r.data AS data, r.updatedAt AS updatedAt
			ORDER BY r.id
		`, map[string]any{"kind": string(kind)})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: list %s: %w", kind, err)
	}

	rows := out.([]*neo4j.Record)
	recs := make([]repository.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := decode(kind, row)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Close closes the driver
func (s *Store) Close() error {
	return s.client.Close(context.Background())
}

func decode(kind repository.Kind, row *neo4j.Record) (repository.Record, error) {
	id, _, err := neo4j.GetRecordValue[string](row, "id")
	if err != nil {
		return repository.Record{}, fmt.Errorf("neo4j: decode %s id: %w", kind, err)
	}
	version, _, err := neo4j.GetRecordValue[int64](row, "version")
	if err != nil {
		return repository.Record{}, fmt.Errorf("neo4j: decode %s %q version: %w", kind, id, err)
	}
	data, _, err := neo4j.GetRecordValue[string](row, "data")
	if err != nil {
		return repository.Record{}, fmt.Errorf("neo4j: decode %s %q data: %w", kind, id, err)
	}
	updatedAt, _, err := neo4j.GetRecordValue[int64](row, "updatedAt")
	if err != nil {
		return repository.Record{}, fmt.Errorf("neo4j: decode %s %q updatedAt: %w", kind, id, err)
	}
	return repository.Record{
		Kind:      kind,
		ID:        id,
		Version:   version,
		Data:      []byte(data),
		UpdatedAt: time.UnixMilli(updatedAt).UTC(),
	}, nil
}
