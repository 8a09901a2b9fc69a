package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spartanmed/medchat/internal/domain"
)

type MaterialRepository struct {
	db dbtx
}

func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{db: pool}
}

func NewMaterialRepositoryWithTx(tx pgx.Tx) *MaterialRepository {
	return &MaterialRepository{db: tx}
}

func (r *MaterialRepository) Create(ctx context.Context, m *domain.Material) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO materials (id, phase, week, filename, content_type, size_bytes, sha256, storage_key, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Phase, m.Week, m.Filename, m.ContentType, m.SizeBytes, nullableString(m.SHA256), m.StorageKey, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (r *MaterialRepository) GetByID(ctx context.Context, id string) (*domain.Material, error) {
	var m domain.Material
	var sha256 *string
	err := r.db.QueryRow(ctx,
		`SELECT id, phase, week, filename, content_type, size_bytes, sha256, storage_key, status, created_at, updated_at
		 FROM materials WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Phase, &m.Week, &m.Filename, &m.ContentType, &m.SizeBytes, &sha256, &m.StorageKey, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMaterialNotFound
		}
		return nil, err
	}
	if sha256 != nil {
		m.SHA256 = *sha256
	}
	return &m, nil
}

func (r *MaterialRepository) ListByPhase(ctx context.Context, phase domain.Phase) ([]*domain.Material, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, phase, week, filename, content_type, size_bytes, sha256, storage_key, status, created_at, updated_at
		 FROM materials WHERE phase = $1 ORDER BY week ASC, filename ASC`,
		phase,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*domain.Material
	for rows.Next() {
		var m domain.Material
		var sha256 *string
		if err := rows.Scan(&m.ID, &m.Phase, &m.Week, &m.Filename, &m.ContentType, &m.SizeBytes, &sha256, &m.StorageKey, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if sha256 != nil {
			m.SHA256 = *sha256
		}
		materials = append(materials, &m)
	}
	return materials, rows.Err()
}

func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM materials WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
