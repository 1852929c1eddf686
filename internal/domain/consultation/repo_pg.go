package consultation

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

const consultationColumns = `id, patient_id, doctor_id, scheduled_at, status, notes, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, con *Consultation) error {
	if con.ID == uuid.Nil {
		con.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultation (id, patient_id, doctor_id, scheduled_at, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		con.ID, con.PatientID, con.DoctorID, con.ScheduledAt, string(con.Status), con.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultationColumns+` FROM consultation WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, con *Consultation) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultation SET
			scheduled_at = $2, status = $3, notes = $4, updated_at = NOW()
		WHERE id = $1`,
		con.ID, con.ScheduledAt, string(con.Status), con.Notes,
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
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultation WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*Consultation, int, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultation WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM consultation WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.PatientID != nil {
		clause := fmt.Sprintf(` AND patient_id = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, *filter.PatientID)
		idx++
	}
	if filter.DoctorID != nil {
		clause := fmt.Sprintf(` AND doctor_id = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, *filter.DoctorID)
		idx++
	}
	if filter.Status != "" {
		clause := fmt.Sprintf(` AND status = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, string(filter.Status))
		idx++
	}

	var total int
	err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY scheduled_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cons []*Consultation
	for rows.Next() {
		var c Consultation
		var status string
		if err := rows.Scan(&c.ID, &c.PatientID, &c.DoctorID, &c.ScheduledAt, &status, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		c.Status = Status(status)
		cons = append(cons, &c)
	}
	return cons, total, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*Consultation, error) {
	var c Consultation
	var status string
	err := row.Scan(&c.ID, &c.PatientID, &c.DoctorID, &c.ScheduledAt, &status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Status = Status(status)
	return &c, nil
}
