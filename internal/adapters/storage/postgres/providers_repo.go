package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"

	"pet-care-marketplace/internal/domain/providers"
)

type ProvidersRepo struct {
	db *sql.DB
	q  *goqu.Database
}

func NewProvidersRepo(db *sql.DB) *ProvidersRepo {
	return &ProvidersRepo{
		db: db,
		q:  goqu.New("postgres", db),
	}
}

var providerCols = []any{
	"id", "owner_user_id",
	"clinic_name", "bio", "city",
	"services", "plan_tier",
	"created_at", "updated_at",
}

func (r *ProvidersRepo) Create(ctx context.Context, p providers.Provider) error {
	services, err := json.Marshal(p.Services)
	if err != nil {
		return err
	}

	query, args, err := r.q.Insert("providers").Rows(goqu.Record{
		"id":            p.ID,
		"owner_user_id": p.OwnerUserID,
		"clinic_name":   p.ClinicName,
		"bio":           p.Bio,
		"city":          p.City,
		"services":      services, // jsonb
		"plan_tier":     string(p.PlanTier),
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *ProvidersRepo) GetByID(ctx context.Context, id string) (providers.Provider, error) {
	query, args, err := r.q.Select(providerCols...).
		From("providers").
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return providers.Provider{}, err
	}

	p, err := scanProvider(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return providers.Provider{}, ErrNotFound
	}
	return p, err
}

func (r *ProvidersRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]providers.Provider, error) {
	query, args, err := r.q.Select(providerCols...).
		From("providers").
		Where(goqu.Ex{"owner_user_id": ownerUserID}).
		Order(goqu.I("created_at").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]providers.Provider, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProvidersRepo) Update(ctx context.Context, p providers.Provider) error {
	services, err := json.Marshal(p.Services)
	if err != nil {
		return err
	}

	query, args, err := r.q.Update("providers").
		Set(goqu.Record{
			"clinic_name": p.ClinicName,
			"bio":         p.Bio,
			"city":        p.City,
			"services":    services,
			"plan_tier":   string(p.PlanTier),
			"updated_at":  p.UpdatedAt,
		}).
		Where(goqu.Ex{"id": p.ID}).
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProvider(row rowScanner) (providers.Provider, error) {
	var p providers.Provider
	var services []byte
	var tier string
	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.ClinicName,
		&p.Bio,
		&p.City,
		&services,
		&tier,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return providers.Provider{}, err
	}
	if len(services) > 0 {
		if err := json.Unmarshal(services, &p.Services); err != nil {
			return providers.Provider{}, err
		}
	}
	p.PlanTier = providers.PlanTier(tier)
	return p, nil
}
