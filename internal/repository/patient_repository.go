package repository

import (
	"context"
	"fmt"

	"clinic-offers/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// patientRepository implements the PatientRepository interface using PostgreSQL.
type patientRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPatientRepository creates a new PostgreSQL-backed patient repository.
func NewPatientRepository(pool *pgxpool.Pool, logger zerolog.Logger) PatientRepository {
	return &patientRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "patient").Logger(),
	}
}

// GetByID retrieves a patient by ID.
func (r *patientRepository) GetByID(ctx context.Context, id string) (*model.Patient, error) {
	query := `
		SELECT id, first_name, last_name, phone, email, date_of_birth,
		       gender, skin_type, allergies, chronic_conditions, notes,
		       created_at, updated_at
		FROM patients
		WHERE id = $1
	`

	var p model.Patient
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.Email, &p.DateOfBirth,
		&p.Gender, &p.SkinType, &p.Allergies, &p.ChronicConditions, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("patient_id", id).Msg("patient not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("patient_id", id).Msg("failed to get patient")
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return &p, nil
}
