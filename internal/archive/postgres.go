package archive

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/example/ride-hub/internal/models"
)

type PostgresArchive struct {
	db *sql.DB
}

func NewPostgresArchive(dsn string) (*PostgresArchive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresArchive{db: db}, nil
}

func (p *PostgresArchive) SaveRide(r *models.Ride) error {
	_, err := p.db.Exec(`INSERT INTO rides(id, user_id, driver_id, status, pickup_address, drop_address, fare, distance_km, duration_min, scheduled_time, requested_at, updated_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.ID, r.User.ID, r.Driver.ID, string(r.Status), r.PickupLocation.Address, r.DropLocation.Address,
		r.EstimatedFare, r.EstimatedDistance, r.EstimatedTime, r.ScheduledTime, r.RequestTime, time.Now())
	return err
}

func (p *PostgresArchive) UpdateRide(r *models.Ride) error {
	_, err := p.db.Exec(`UPDATE rides SET status=$1, updated_at=$2 WHERE id=$3`,
		string(r.Status), time.Now(), r.ID)
	return err
}

func (p *PostgresArchive) Close() error { return p.db.Close() }
