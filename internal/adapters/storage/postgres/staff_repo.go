package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"

	"pet-care-marketplace/internal/domain/staff"
)

type StaffRepo struct {
	db *sql.DB
	q  *goqu.Database
}

func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{
		db: db,
		q:  goqu.New("postgres", db),
	}
}

var membershipCols = []any{
	"id", "provider_id",
	"owner_user_id", "nurse_user_id",
	"scopes", "status",
	"created_at", "updated_at", "revoked_at",
}

func (r *StaffRepo) Create(ctx context.Context, m staff.Membership) error {
	scopes, err := json.Marshal(m.Scopes)
	if err != nil {
		return err
	}

	query, args, err := r.q.Insert("staff_memberships").Rows(goqu.Record{
		"id":            m.ID,
		"provider_id":   m.ProviderID,
		"owner_user_id": m.OwnerUserID,
		"nurse_user_id": m.NurseUserID,
		"scopes":        scopes, // jsonb
		"status":        string(m.Status),
		"created_at":    m.CreatedAt,
		"updated_at":    m.UpdatedAt,
		"revoked_at":    toNullTime(m.RevokedAt),
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *StaffRepo) Update(ctx context.Context, m staff.Membership) error {
	scopes, err := json.Marshal(m.Scopes)
	if err != nil {
		return err
	}

	query, args, err := r.q.Update("staff_memberships").
		Set(goqu.Record{
			"scopes":     scopes,
			"status":     string(m.Status),
			"updated_at": m.UpdatedAt,
			"revoked_at": toNullTime(m.RevokedAt),
		}).
		Where(goqu.Ex{"id": m.ID}).
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

func (r *StaffRepo) GetByID(ctx context.Context, id string) (staff.Membership, error) {
	query, args, err := r.q.Select(membershipCols...).
		From("staff_memberships").
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return staff.Membership{}, err
	}

	m, err := scanMembership(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return staff.Membership{}, ErrNotFound
	}
	return m, err
}

func (r *StaffRepo) ListByProvider(ctx context.Context, providerID string) ([]staff.Membership, error) {
	return r.list(ctx, goqu.Ex{"provider_id": providerID})
}

func (r *StaffRepo) ListByNurse(ctx context.Context, nurseUserID string) ([]staff.Membership, error) {
	return r.list(ctx, goqu.Ex{"nurse_user_id": nurseUserID})
}

func (r *StaffRepo) GetActiveMembership(ctx context.Context, providerID, nurseUserID string) (staff.Membership, error) {
	query, args, err := r.q.Select(membershipCols...).
		From("staff_memberships").
		Where(goqu.Ex{
			"provider_id":   providerID,
			"nurse_user_id": nurseUserID,
			"status":        string(staff.StatusActive),
		}).
		Order(goqu.I("updated_at").Desc()).
		Limit(1).
		Prepared(true).ToSQL()
	if err != nil {
		return staff.Membership{}, err
	}

	m, err := scanMembership(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return staff.Membership{}, ErrNotFound
	}
	return m, err
}

func (r *StaffRepo) list(ctx context.Context, where goqu.Ex) ([]staff.Membership, error) {
	query, args, err := r.q.Select(membershipCols...).
		From("staff_memberships").
		Where(where).
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

	out := make([]staff.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMembership(row rowScanner) (staff.Membership, error) {
	var m staff.Membership
	var scopes []byte
	var status string
	var revokedAt sql.NullTime
	if err := row.Scan(
		&m.ID,
		&m.ProviderID,
		&m.OwnerUserID,
		&m.NurseUserID,
		&scopes,
		&status,
		&m.CreatedAt,
		&m.UpdatedAt,
		&revokedAt,
	); err != nil {
		return staff.Membership{}, err
	}
	if len(scopes) > 0 {
		if err := json.Unmarshal(scopes, &m.Scopes); err != nil {
			return staff.Membership{}, err
		}
	}
	m.Status = staff.Status(status)
	if revokedAt.Valid {
		t := revokedAt.Time
		m.RevokedAt = &t
	}
	return m, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
