package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pura-pata/internal/domain/dogs"

	"github.com/jackc/pgx/v5/pgtype"
)

type DogsRepo struct {
	db    *sql.DB
	types *pgtype.Map
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db, types: pgtype.NewMap()}
}

const dogColumns = `
	id, publisher_id,
	name, breed, size, gender, age_years, age_months, color,
	description, special_needs,
	vaccinated, sterilized, dewormed,
	latitude, longitude, province, canton, address,
	contact_phone, contact_email, has_whatsapp,
	photos, certificate,
	status, created_at, updated_at, adopted_at`

func (r *DogsRepo) CreateWithHistory(ctx context.Context, d dogs.Dog, entry dogs.HistoryEntry) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dogs (`+dogColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
		`,
			d.ID, d.PublisherID,
			d.Name, d.Breed, string(d.Size), string(d.Gender), d.AgeYears, d.AgeMonths, d.Color,
			d.Description, d.SpecialNeeds,
			d.Vaccinated, d.Sterilized, d.Dewormed,
			d.Latitude, d.Longitude, d.Province, d.Canton, d.Address,
			d.ContactPhone, d.ContactEmail, d.HasWhatsApp,
			photosArg(d.Photos), d.Certificate,
			string(d.Status), d.CreatedAt, d.UpdatedAt, toNullTime(d.AdoptedAt),
		)
		if err != nil {
			return fmt.Errorf("insert dog: %w", err)
		}
		return insertHistory(ctx, tx, entry)
	})
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+dogColumns+` FROM dogs WHERE id = $1`, id)
	d, err := r.scanDog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, err
}

func (r *DogsRepo) List(ctx context.Context, filter dogs.ListFilter) ([]dogs.Dog, error) {
	filter = filter.Normalize()

	where := make([]string, 0, 6)
	args := make([]any, 0, 8)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.Size != nil {
		add("size = $%d", string(*filter.Size))
	}
	if filter.Gender != nil {
		add("gender = $%d", string(*filter.Gender))
	}
	if filter.Province != "" {
		add("province = $%d", filter.Province)
	}
	if filter.Vaccinated != nil {
		add("vaccinated = $%d", *filter.Vaccinated)
	}
	if filter.Sterilized != nil {
		add("sterilized = $%d", *filter.Sterilized)
	}

	q := `SELECT ` + dogColumns + ` FROM dogs`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	q += fmt.Sprintf(` ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	return r.query(ctx, q, args...)
}

func (r *DogsRepo) ListByPublisher(ctx context.Context, publisherID string) ([]dogs.Dog, error) {
	publisherID = strings.TrimSpace(publisherID)
	if publisherID == "" {
		return []dogs.Dog{}, nil
	}
	return r.query(ctx, `
		SELECT `+dogColumns+` FROM dogs
		WHERE publisher_id = $1
		ORDER BY created_at DESC, id ASC
	`, publisherID)
}

func (r *DogsRepo) ListByStatus(ctx context.Context, status dogs.Status) ([]dogs.Dog, error) {
	return r.query(ctx, `
		SELECT `+dogColumns+` FROM dogs
		WHERE status = $1
		ORDER BY created_at DESC, id ASC
	`, string(status))
}

// Update no incluye status ni adopted_at: esos campos solo cambian en ApplyTransition.
func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $2, breed = $3, size = $4, gender = $5,
			age_years = $6, age_months = $7, color = $8,
			description = $9, special_needs = $10,
			vaccinated = $11, sterilized = $12, dewormed = $13,
			latitude = $14, longitude = $15, province = $16, canton = $17, address = $18,
			contact_phone = $19, contact_email = $20, has_whatsapp = $21,
			photos = $22, certificate = $23,
			updated_at = $24
		WHERE id = $1
	`,
		d.ID,
		d.Name, d.Breed, string(d.Size), string(d.Gender),
		d.AgeYears, d.AgeMonths, d.Color,
		d.Description, d.SpecialNeeds,
		d.Vaccinated, d.Sterilized, d.Dewormed,
		d.Latitude, d.Longitude, d.Province, d.Canton, d.Address,
		d.ContactPhone, d.ContactEmail, d.HasWhatsApp,
		photosArg(d.Photos), d.Certificate,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

// ApplyTransition bloquea la fila (FOR UPDATE) para serializar cambios de estado
// concurrentes del mismo perro. Perro e historial se confirman juntos.
func (r *DogsRepo) ApplyTransition(ctx context.Context, id string, fn dogs.TransitionFunc) (dogs.Dog, dogs.HistoryEntry, error) {
	var (
		updated dogs.Dog
		entry   dogs.HistoryEntry
	)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+dogColumns+` FROM dogs WHERE id = $1 FOR UPDATE`, id)
		current, err := r.scanDog(row)
		if errors.Is(err, sql.ErrNoRows) {
			return dogs.ErrNotFound
		}
		if err != nil {
			return err
		}

		updated, entry, err = fn(current)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE dogs
			SET status = $2, adopted_at = $3, updated_at = $4
			WHERE id = $1
		`, id, string(updated.Status), toNullTime(updated.AdoptedAt), updated.UpdatedAt); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		return insertHistory(ctx, tx, entry)
	})
	if err != nil {
		return dogs.Dog{}, dogs.HistoryEntry{}, err
	}
	return updated, entry, nil
}

// Delete: el historial se borra por ON DELETE CASCADE.
func (r *DogsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) query(ctx context.Context, q string, args ...any) ([]dogs.Dog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := r.scanDog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *DogsRepo) scanDog(row rowScanner) (dogs.Dog, error) {
	var (
		d                    dogs.Dog
		size, gender, status string
		photos               []string
		adoptedAt            sql.NullTime
	)

	if err := row.Scan(
		&d.ID, &d.PublisherID,
		&d.Name, &d.Breed, &size, &gender, &d.AgeYears, &d.AgeMonths, &d.Color,
		&d.Description, &d.SpecialNeeds,
		&d.Vaccinated, &d.Sterilized, &d.Dewormed,
		&d.Latitude, &d.Longitude, &d.Province, &d.Canton, &d.Address,
		&d.ContactPhone, &d.ContactEmail, &d.HasWhatsApp,
		r.types.SQLScanner(&photos), &d.Certificate,
		&status, &d.CreatedAt, &d.UpdatedAt, &adoptedAt,
	); err != nil {
		return dogs.Dog{}, err
	}

	st, err := dogs.ParseStatus(status)
	if err != nil {
		return dogs.Dog{}, fmt.Errorf("dog %s: stored status %q: %w", d.ID, status, err)
	}

	d.Size = dogs.Size(size)
	d.Gender = dogs.Gender(gender)
	d.Status = st
	d.Photos = photos
	if d.Photos == nil {
		d.Photos = []string{}
	}
	d.AdoptedAt = fromNullTime(adoptedAt)
	return d, nil
}

func insertHistory(ctx context.Context, tx *sql.Tx, e dogs.HistoryEntry) error {
	var old sql.NullString
	if e.OldStatus != nil {
		old = sql.NullString{String: string(*e.OldStatus), Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO dog_status_history (id, dog_id, old_status, new_status, changed_at)
		VALUES ($1,$2,$3,$4,$5)
	`, e.ID, e.DogID, old, string(e.NewStatus), e.ChangedAt)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func photosArg(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}
