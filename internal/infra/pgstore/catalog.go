package pgstore

import (
	"context"
	"errors"

	"roombook/internal/domain/resource"
	"roombook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResourceStore struct {
	pool *pgxpool.Pool
}

func NewResourceStore(pool *pgxpool.Pool) *ResourceStore {
	return &ResourceStore{pool: pool}
}

func (s *ResourceStore) FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	var (
		name     string
		capacity int
		tags     []string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT name, capacity, tags FROM resources WHERE id = $1`, id,
	).Scan(&name, &capacity, &tags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource", err)
	}

	r, err := resource.NewResource(id, name, capacity, tags)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid resource row", err)
	}
	return r, nil
}

func (s *ResourceStore) List(ctx context.Context) ([]*resource.Resource, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, capacity, tags FROM resources ORDER BY name ASC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list resources", err)
	}
	defer rows.Close()

	var out []*resource.Resource
	for rows.Next() {
		var (
			id       uuid.UUID
			name     string
			capacity int
			tags     []string
		)
		if err := rows.Scan(&id, &name, &capacity, &tags); err != nil {
			return nil, infra.WrapRepoErr("failed to scan resource", err)
		}
		r, err := resource.NewResource(id, name, capacity, tags)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid resource row", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate resources", err)
	}
	return out, nil
}
