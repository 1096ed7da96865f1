package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pura-pata/internal/domain/publishers"

	"github.com/jackc/pgx/v5/pgconn"
)

// código SQLSTATE de unique_violation
const uniqueViolation = "23505"

const publishersEmailIndex = "publishers_email_uniq"

type PublishersRepo struct {
	db *sql.DB
}

func NewPublishersRepo(db *sql.DB) *PublishersRepo {
	return &PublishersRepo{db: db}
}

func (r *PublishersRepo) Create(ctx context.Context, p publishers.Publisher) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO publishers (
			id, email, name, phone, province, canton, address,
			latitude, longitude, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID, p.Email, p.Name, p.Phone, p.Province, p.Canton, p.Address,
		toNullFloat(p.Latitude), toNullFloat(p.Longitude), p.CreatedAt, p.UpdatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if pgErr.ConstraintName == publishersEmailIndex {
			return publishers.ErrEmailTaken
		}
		return publishers.ErrAlreadyExists
	}
	return err
}

func (r *PublishersRepo) GetByID(ctx context.Context, id string) (publishers.Publisher, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return publishers.Publisher{}, publishers.ErrNotFound
	}

	var (
		p        publishers.Publisher
		lat, lon sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, phone, province, canton, address,
			latitude, longitude, created_at, updated_at
		FROM publishers
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Email, &p.Name, &p.Phone, &p.Province, &p.Canton, &p.Address,
		&lat, &lon, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return publishers.Publisher{}, publishers.ErrNotFound
	}
	if err != nil {
		return publishers.Publisher{}, err
	}

	p.Latitude = fromNullFloat(lat)
	p.Longitude = fromNullFloat(lon)
	return p, nil
}

func (r *PublishersRepo) Update(ctx context.Context, p publishers.Publisher) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE publishers
		SET name = $2, phone = $3, province = $4, canton = $5, address = $6,
			latitude = $7, longitude = $8, updated_at = $9
		WHERE id = $1
	`,
		p.ID, p.Name, p.Phone, p.Province, p.Canton, p.Address,
		toNullFloat(p.Latitude), toNullFloat(p.Longitude), p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return publishers.ErrNotFound
	}
	return nil
}
