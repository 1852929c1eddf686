package medicalrecord

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

const recordColumns = `id, patient_id, doctor_id, record_type, title, description, metadata, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Metadata == nil {
		rec.Metadata = map[string]interface{}{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_record (id, patient_id, doctor_id, record_type, title, description, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.RecordType, rec.Title, rec.Description, rec.Metadata,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	var rec MedicalRecord
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordColumns+` FROM medical_record WHERE id = $1`, id).Scan(
		&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.RecordType, &rec.Title,
		&rec.Description, &rec.Metadata, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*MedicalRecord, int, error) {
	query := `SELECT ` + recordColumns + ` FROM medical_record WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM medical_record WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.PatientID != nil {
		clause := fmt.Sprintf(` AND patient_id = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, *filter.PatientID)
		idx++
	}
	if filter.RecordType != "" {
		clause := fmt.Sprintf(` AND record_type = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, filter.RecordType)
		idx++
	}

	var total int
	err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []*MedicalRecord
	for rows.Next() {
		var rec MedicalRecord
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.RecordType, &rec.Title,
			&rec.Description, &rec.Metadata, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, 0, err
		}
		recs = append(recs, &rec)
	}
	return recs, total, rows.Err()
}
