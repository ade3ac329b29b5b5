package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgconn"

	"pet-care-marketplace/internal/domain/casefiles"
)

// undefined_table: la tabla de casos no existe todavía en este entorno.
const pgUndefinedTable = "42P01"

type CaseFilesRepo struct {
	db *sql.DB
	q  *goqu.Database
}

func NewCaseFilesRepo(db *sql.DB) *CaseFilesRepo {
	return &CaseFilesRepo{
		db: db,
		q:  goqu.New("postgres", db),
	}
}

var caseFileCols = []any{
	"id", "case_number",
	"title", "description",
	"priority", "status", "case_type",
	"pet_name", "customer_name", "customer_email",
	"assigned_nurse_id",
	"created_at", "updated_at",
}

func (r *CaseFilesRepo) Create(ctx context.Context, cf casefiles.CaseFile) error {
	query, args, err := r.q.Insert("case_files").Rows(goqu.Record{
		"id":                cf.ID,
		"case_number":       cf.CaseNumber,
		"title":             cf.Title,
		"description":       cf.Description,
		"priority":          cf.Priority,
		"status":            string(cf.Status),
		"case_type":         string(cf.CaseType),
		"pet_name":          cf.PetName,
		"customer_name":     cf.CustomerName,
		"customer_email":    cf.CustomerEmail,
		"assigned_nurse_id": cf.AssignedNurseID,
		"created_at":        cf.CreatedAt,
		"updated_at":        cf.UpdatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return mapTableMissing(err)
}

func (r *CaseFilesRepo) GetByID(ctx context.Context, id string) (casefiles.CaseFile, error) {
	query, args, err := r.q.Select(caseFileCols...).
		From("case_files").
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return casefiles.CaseFile{}, err
	}

	cf, err := scanCaseFile(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return casefiles.CaseFile{}, ErrNotFound
	}
	return cf, mapTableMissing(err)
}

func (r *CaseFilesRepo) ListForNurse(ctx context.Context, nurseID string) ([]casefiles.CaseFile, error) {
	query, args, err := r.q.Select(caseFileCols...).
		From("case_files").
		Where(
			goqu.C("status").Neq(string(casefiles.StatusClosed)),
			goqu.Or(
				goqu.Ex{"assigned_nurse_id": nurseID},
				goqu.Ex{"assigned_nurse_id": ""},
			),
		).
		Order(goqu.I("created_at").Asc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapTableMissing(err)
	}
	defer rows.Close()

	out := make([]casefiles.CaseFile, 0)
	for rows.Next() {
		cf, err := scanCaseFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cf)
	}
	return out, rows.Err()
}

func (r *CaseFilesRepo) UpdatePriority(ctx context.Context, id string, priority string) error {
	query, args, err := r.q.Update("case_files").
		Set(goqu.Record{
			"priority":   priority,
			"status":     string(casefiles.StatusAssessed),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapTableMissing(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CaseFilesRepo) Assign(ctx context.Context, id string, nurseID string) error {
	query, args, err := r.q.Update("case_files").
		Set(goqu.Record{
			"assigned_nurse_id": nurseID,
			"updated_at":        goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapTableMissing(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// mapTableMissing traduce 42P01 al sentinel del dominio para que el motor
// pueda distinguir "falta la migración" de una falla transitoria.
func mapTableMissing(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w: %v", casefiles.ErrTableMissing, err)
	}
	return err
}

func scanCaseFile(row rowScanner) (casefiles.CaseFile, error) {
	var cf casefiles.CaseFile
	var status, caseType string
	if err := row.Scan(
		&cf.ID,
		&cf.CaseNumber,
		&cf.Title,
		&cf.Description,
		&cf.Priority,
		&status,
		&caseType,
		&cf.PetName,
		&cf.CustomerName,
		&cf.CustomerEmail,
		&cf.AssignedNurseID,
		&cf.CreatedAt,
		&cf.UpdatedAt,
	); err != nil {
		return casefiles.CaseFile{}, err
	}
	cf.Status = casefiles.Status(status)
	cf.CaseType = casefiles.CaseType(caseType)
	return cf, nil
}
