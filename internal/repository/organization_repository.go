package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocksync/stocksync/internal/domain"
)

// organizationRepository implements OrganizationRepository backed by pgxpool.
type organizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepository{pool: pool}
}

const organizationColumns = `id, name, aliases, identifiers, created_at, updated_at`

func scanOrganization(row pgx.Row) (domain.Organization, error) {
	var org domain.Organization
	if err := row.Scan(
		&org.ID,
		&org.Name,
		&org.Aliases,
		&org.Identifiers,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		return domain.Organization{}, err
	}
	return org, nil
}

// Create creates a new organization
func (r *organizationRepository) Create(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO organizations (id, name, aliases, identifiers)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+organizationColumns,
		org.ID,
		org.Name,
		org.Aliases,
		org.Identifiers,
	)

	created, err := scanOrganization(row)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("failed to create organization: %w", err)
	}
	return created, nil
}

// GetByID retrieves an organization by ID
func (r *organizationRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Organization, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = $1`,
		id,
	)

	org, err := scanOrganization(row)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

// List retrieves all organizations
func (r *organizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+organizationColumns+` FROM organizations ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	organizations := []domain.Organization{}
	for rows.Next() {
		org, scanErr := scanOrganization(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", scanErr)
		}
		organizations = append(organizations, org)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate organizations: %w", rowsErr)
	}
	return organizations, nil
}

// Update updates an organization's name, aliases, and identifiers
func (r *organizationRepository) Update(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	row := r.pool.QueryRow(
		ctx,
		`UPDATE organizations
		 SET name = $2, aliases = $3, identifiers = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+organizationColumns,
		org.ID,
		org.Name,
		org.Aliases,
		org.Identifiers,
	)

	updated, err := scanOrganization(row)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("failed to update organization: %w", err)
	}
	return updated, nil
}
