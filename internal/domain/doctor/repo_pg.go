package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caretrack/caretrack/internal/platform/db"
)

// queryable abstracts pgxpool.Pool and pgxpool.Conn for tenant-scoped queries.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const doctorColumns = `id, user_id, full_name, specialty, phone, bio, availability, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Availability == nil {
		d.Availability = []AvailabilitySlot{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor (id, user_id, full_name, specialty, phone, bio, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.UserID, d.FullName, d.Specialty, d.Phone, d.Bio, d.Availability,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM doctor WHERE id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM doctor WHERE user_id = $1`, userID))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	if d.Availability == nil {
		d.Availability = []AvailabilitySlot{}
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor SET
			full_name = $2, specialty = $3, phone = $4, bio = $5,
			availability = $6, updated_at = NOW()
		WHERE id = $1`,
		d.ID, d.FullName, d.Specialty, d.Phone, d.Bio, d.Availability,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctor`
	countQuery := `SELECT COUNT(*) FROM doctor`
	var args []interface{}

	if specialty != "" {
		query += ` WHERE specialty ILIKE $1`
		countQuery += ` WHERE specialty ILIKE $1`
		args = append(args, "%"+specialty+"%")
	}

	var total int
	err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	idx := len(args) + 1
	query += fmt.Sprintf(` ORDER BY full_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.UserID, &d.FullName, &d.Specialty, &d.Phone, &d.Bio, &d.Availability, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		doctors = append(doctors, &d)
	}
	return doctors, total, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.UserID, &d.FullName, &d.Specialty, &d.Phone, &d.Bio, &d.Availability, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
