package repository

import (
	"context"      // context carries deadlines and cancellation into queries
	"database/sql" // sql provides DB primitives
	"errors"       // errors.Is is used to detect sql.ErrNoRows

	"github.com/iliyamo/geo-ads-backend/internal/model"
)

// AdvertisementRepo provides access to the `advertisements` table.  It
// embeds a database handle to perform queries and commands.
type AdvertisementRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewAdvertisementRepo constructs an AdvertisementRepo with the given DB handle.
func NewAdvertisementRepo(db *sql.DB) *AdvertisementRepo {
	return &AdvertisementRepo{db: db}
}

// scanAdvertisement reads one row into a model.Advertisement, converting the
// nullable image_url column into a *string.
func scanAdvertisement(scan func(dest ...any) error) (*model.Advertisement, error) {
	var (
		ad       model.Advertisement
		imageURL sql.NullString
	)
	if err := scan(&ad.ID, &ad.Name, &imageURL, &ad.Zone, &ad.CreatedAt); err != nil {
		return nil, err
	}
	if imageURL.Valid {
		ad.ImageURL = &imageURL.String
	}
	return &ad, nil
}

// ListAll returns every advertisement ordered by id.
func (r *AdvertisementRepo) ListAll(ctx context.Context) ([]*model.Advertisement, error) {
	const q = `SELECT id, name, image_url, zone, created_at FROM advertisements ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Advertisement
	for rows.Next() {
		ad, err := scanAdvertisement(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByZone returns all advertisements registered for one zone, ordered by id.
func (r *AdvertisementRepo) ListByZone(ctx context.Context, zoneID string) ([]*model.Advertisement, error) {
	const q = `SELECT id, name, image_url, zone, created_at FROM advertisements WHERE zone = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Advertisement
	for rows.Next() {
		ad, err := scanAdvertisement(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves one advertisement by id.  It returns
// ErrAdvertisementNotFound when no row matches.
func (r *AdvertisementRepo) GetByID(ctx context.Context, id uint64) (*model.Advertisement, error) {
	const q = `SELECT id, name, image_url, zone, created_at FROM advertisements WHERE id = ?`
	ad, err := scanAdvertisement(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdvertisementNotFound
		}
		return nil, err
	}
	return ad, nil
}

// Create inserts a new advertisement.  After the insert the record is read
// back so that the ID and created_at fields are populated.
func (r *AdvertisementRepo) Create(ctx context.Context, ad *model.Advertisement) error {
	const qInsert = `INSERT INTO advertisements (name, image_url, zone) VALUES (?, ?, ?)`
	var imageURL sql.NullString
	if ad.ImageURL != nil {
		imageURL = sql.NullString{String: *ad.ImageURL, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, qInsert, ad.Name, imageURL, ad.Zone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ad.ID = uint64(id)

	const qSelect = `SELECT id, name, image_url, zone, created_at FROM advertisements WHERE id = ?`
	got, err := scanAdvertisement(r.db.QueryRowContext(ctx, qSelect, ad.ID).Scan)
	if err != nil {
		return err
	}
	*ad = *got
	return nil
}
