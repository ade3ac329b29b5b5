package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"

	"pet-care-marketplace/internal/domain/catalog"
)

type CatalogRepo struct {
	db *sql.DB
	q  *goqu.Database
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{
		db: db,
		q:  goqu.New("postgres", db),
	}
}

var packageCols = []any{
	"id", "provider_id",
	"name", "description", "service_type",
	"tiers", "active",
	"created_at", "updated_at",
}

func (r *CatalogRepo) Create(ctx context.Context, p catalog.Package) error {
	tiers, err := json.Marshal(p.Tiers)
	if err != nil {
		return err
	}

	query, args, err := r.q.Insert("packages").Rows(goqu.Record{
		"id":           p.ID,
		"provider_id":  p.ProviderID,
		"name":         p.Name,
		"description":  p.Description,
		"service_type": p.ServiceType,
		"tiers":        tiers, // jsonb
		"active":       p.Active,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *CatalogRepo) GetByID(ctx context.Context, id string) (catalog.Package, error) {
	query, args, err := r.q.Select(packageCols...).
		From("packages").
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return catalog.Package{}, err
	}

	p, err := scanPackage(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return catalog.Package{}, ErrNotFound
	}
	return p, err
}

func (r *CatalogRepo) ListByProvider(ctx context.Context, providerID string) ([]catalog.Package, error) {
	query, args, err := r.q.Select(packageCols...).
		From("packages").
		Where(goqu.Ex{"provider_id": providerID}).
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

	out := make([]catalog.Package, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) Deactivate(ctx context.Context, id string) error {
	query, args, err := r.q.Update("packages").
		Set(goqu.Record{
			"active":     false,
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id}).
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

func scanPackage(row rowScanner) (catalog.Package, error) {
	var p catalog.Package
	var tiers []byte
	if err := row.Scan(
		&p.ID,
		&p.ProviderID,
		&p.Name,
		&p.Description,
		&p.ServiceType,
		&tiers,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return catalog.Package{}, err
	}
	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &p.Tiers); err != nil {
			return catalog.Package{}, err
		}
	}
	return p, nil
}
