package repository

import (
	"context"
	"fmt"

	"clinic-offers/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// serviceRepository implements the ServiceRepository interface using PostgreSQL.
type serviceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewServiceRepository creates a new PostgreSQL-backed service repository.
func NewServiceRepository(pool *pgxpool.Pool, logger zerolog.Logger) ServiceRepository {
	return &serviceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "service").Logger(),
	}
}

const serviceColumns = `id, category_id, name, price, duration, is_active, created_at`

// GetAll retrieves all active services.
func (r *serviceRepository) GetAll(ctx context.Context) ([]model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE is_active ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query services")
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Price, &s.Duration, &s.IsActive, &s.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan service row")
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating service rows")
		return nil, fmt.Errorf("error iterating services: %w", err)
	}

	return services, nil
}

// GetByIDs retrieves multiple services by their IDs.
func (r *serviceRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("id_count", len(ids)).Msg("failed to query services by IDs")
		return nil, fmt.Errorf("failed to query services by IDs: %w", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Price, &s.Duration, &s.IsActive, &s.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan service row")
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating service rows")
		return nil, fmt.Errorf("error iterating services: %w", err)
	}

	return services, nil
}
