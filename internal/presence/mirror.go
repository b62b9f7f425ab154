// Package presence mirrors driver availability and location into Redis so
// external tooling can query it with GEO commands. The mirror is advisory:
// the active pool remains the source of truth and mirror errors never
// affect the booking flow.
package presence

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/ride-hub/internal/models"
)

type Mirror struct {
	client *redis.Client
	geoKey string
}

func NewMirror(addr, password, geoKey string) *Mirror {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &Mirror{client: c, geoKey: geoKey}
}

func (m *Mirror) DriverAvailable(ctx context.Context, d *models.DriverRecord) error {
	if _, err := m.client.GeoAdd(ctx, m.geoKey, &redis.GeoLocation{
		Longitude: d.CurrentLocation.Lng,
		Latitude:  d.CurrentLocation.Lat,
		Name:      d.ID,
	}).Result(); err != nil {
		return err
	}
	return m.client.HSet(ctx, metaKey(d.ID), map[string]interface{}{
		"rating":  strconv.FormatFloat(d.Rating, 'f', -1, 64),
		"online":  "true",
		"updated": time.Now().UTC().Format(time.RFC3339),
	}).Err()
}

func (m *Mirror) DriverOffline(ctx context.Context, id string) error {
	if err := m.client.ZRem(ctx, m.geoKey, id).Err(); err != nil {
		return err
	}
	return m.client.HSet(ctx, metaKey(id), map[string]interface{}{
		"online":  "false",
		"updated": time.Now().UTC().Format(time.RFC3339),
	}).Err()
}

func (m *Mirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *Mirror) Close() error { return m.client.Close() }

func metaKey(id string) string { return "driver:meta:" + id }
