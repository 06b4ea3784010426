package settings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Get returns the settings row, creating it with defaults on first use.
	Get(ctx context.Context) (*StationSettings, error)
	Save(ctx context.Context, s *StationSettings) (*StationSettings, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const columns = `id, station_name, address, phone, email,
	petrol_price, diesel_price, lpg_price, cng_price,
	reward_multiplier, points_per_liter, updated_at`

func (r *repository) Get(ctx context.Context) (*StationSettings, error) {
	var s StationSettings
	err := r.db.GetContext(ctx, &s, `SELECT `+columns+` FROM station_settings WHERE id = 1`)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Lazily seed the singleton. A concurrent seeder may win the insert,
	// in which case the conflict clause makes this a read.
	err = r.db.GetContext(ctx, &s, `
		INSERT INTO station_settings (id) VALUES (1)
		ON CONFLICT (id) DO UPDATE SET id = station_settings.id
		RETURNING `+columns)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Save(ctx context.Context, s *StationSettings) (*StationSettings, error) {
	var out StationSettings
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO station_settings (id, station_name, address, phone, email,
			petrol_price, diesel_price, lpg_price, cng_price,
			reward_multiplier, points_per_liter, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			station_name = EXCLUDED.station_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			petrol_price = EXCLUDED.petrol_price,
			diesel_price = EXCLUDED.diesel_price,
			lpg_price = EXCLUDED.lpg_price,
			cng_price = EXCLUDED.cng_price,
			reward_multiplier = EXCLUDED.reward_multiplier,
			points_per_liter = EXCLUDED.points_per_liter,
			updated_at = NOW()
		RETURNING `+columns,
		s.StationName, s.Address, s.Phone, s.Email,
		s.PetrolPrice, s.DieselPrice, s.LPGPrice, s.CNGPrice,
		s.RewardMultiplier, s.PointsPerLiter)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
