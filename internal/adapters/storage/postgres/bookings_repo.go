package postgres

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"pet-care-marketplace/internal/domain/bookings"
)

type BookingsRepo struct {
	db *sql.DB
	q  *goqu.Database
}

func NewBookingsRepo(db *sql.DB) *BookingsRepo {
	return &BookingsRepo{
		db: db,
		q:  goqu.New("postgres", db),
	}
}

var bookingCols = []any{
	"id", "provider_id",
	"pet_name", "customer_name", "customer_email",
	"consultation_type", "reason", "status", "triage_priority",
	"appointment_date", "appointment_time",
	"created_at", "updated_at",
}

func (r *BookingsRepo) Create(ctx context.Context, b bookings.Booking) error {
	query, args, err := r.q.Insert("bookings").Rows(goqu.Record{
		"id":                b.ID,
		"provider_id":       b.ProviderID,
		"pet_name":          b.PetName,
		"customer_name":     b.CustomerName,
		"customer_email":    b.CustomerEmail,
		"consultation_type": string(b.ConsultationType),
		"reason":            b.Reason,
		"status":            string(b.Status),
		"triage_priority":   b.TriagePriority,
		"appointment_date":  b.AppointmentDate,
		"appointment_time":  b.AppointmentTime,
		"created_at":        b.CreatedAt,
		"updated_at":        b.UpdatedAt,
	}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *BookingsRepo) GetByID(ctx context.Context, id string) (bookings.Booking, error) {
	query, args, err := r.q.Select(bookingCols...).
		From("bookings").
		Where(goqu.Ex{"id": id}).
		Prepared(true).ToSQL()
	if err != nil {
		return bookings.Booking{}, err
	}

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return bookings.Booking{}, ErrNotFound
	}
	return b, err
}

func (r *BookingsRepo) List(ctx context.Context, filter bookings.ListFilter) ([]bookings.Booking, error) {
	ds := r.q.Select(bookingCols...).From("bookings")

	if filter.ProviderID != "" {
		ds = ds.Where(goqu.Ex{"provider_id": filter.ProviderID})
	}
	if len(filter.Statuses) > 0 {
		sts := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			sts = append(sts, string(st))
		}
		ds = ds.Where(goqu.Ex{"status": sts})
	}

	// Las dos familias de bookings que consume el motor de casos se parten
	// por consultation_type.
	triageTypes := make([]string, 0, len(bookings.TriageConsultationTypes))
	for _, t := range bookings.TriageConsultationTypes {
		triageTypes = append(triageTypes, string(t))
	}
	if filter.TriageOnly {
		ds = ds.Where(goqu.Ex{"consultation_type": triageTypes})
	}
	if filter.ExcludeTriage {
		ds = ds.Where(goqu.C("consultation_type").NotIn(triageTypes))
	}

	ds = ds.Order(goqu.I("created_at").Asc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookings.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingsRepo) UpdateStatus(ctx context.Context, id string, st bookings.Status) error {
	query, args, err := r.q.Update("bookings").
		Set(goqu.Record{
			"status":     string(st),
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

func (r *BookingsRepo) UpdateTriage(ctx context.Context, id string, priority string, st bookings.Status) error {
	query, args, err := r.q.Update("bookings").
		Set(goqu.Record{
			"triage_priority": priority,
			"status":          string(st),
			"updated_at":      goqu.L("now()"),
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (bookings.Booking, error) {
	var b bookings.Booking
	var ctype, status string
	if err := row.Scan(
		&b.ID,
		&b.ProviderID,
		&b.PetName,
		&b.CustomerName,
		&b.CustomerEmail,
		&ctype,
		&b.Reason,
		&status,
		&b.TriagePriority,
		&b.AppointmentDate,
		&b.AppointmentTime,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return bookings.Booking{}, err
	}
	b.ConsultationType = bookings.ConsultationType(ctype)
	b.Status = bookings.Status(status)
	return b, nil
}
