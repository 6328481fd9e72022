package repository

import (
	"context"
	"database/sql"

	"github.com/avialine/travel-booking/internal/model"
)

// CatalogRepo serves the small descriptive entities of the flight
// catalog: airlines and airports.
type CatalogRepo struct{ db *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// ListAirlines returns airlines ordered by name, paginated.
func (r *CatalogRepo) ListAirlines(ctx context.Context, page, limit int) ([]model.Airline, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, code, country, logo FROM airlines ORDER BY name LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Airline, 0)
	for rows.Next() {
		var a model.Airline
		var logo sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Code, &a.Country, &logo); err != nil {
			return nil, err
		}
		if logo.Valid {
			l := logo.String
			a.Logo = &l
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAirports returns airports ordered by IATA code, paginated.
func (r *CatalogRepo) ListAirports(ctx context.Context, page, limit int) ([]model.Airport, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, code, name, city, country, timezone FROM airports ORDER BY code LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Airport, 0)
	for rows.Next() {
		var a model.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country, &a.Timezone); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
