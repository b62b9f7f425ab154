// Package profiles holds the read-only directory of driver and user
// templates. The hub never mutates templates; lookups return copies that
// the active pool is free to modify.
package profiles

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/ride-hub/internal/models"
)

type Directory struct {
	drivers map[string]models.DriverRecord
	users   map[string]models.UserRecord
}

func NewDirectory(drivers []models.DriverRecord, users []models.UserRecord) *Directory {
	d := &Directory{
		drivers: make(map[string]models.DriverRecord, len(drivers)),
		users:   make(map[string]models.UserRecord, len(users)),
	}
	for _, dr := range drivers {
		d.drivers[dr.ID] = dr
	}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

// Driver returns a copy of the template for id. Records are value types,
// so the returned copy shares nothing with the directory.
func (d *Directory) Driver(id string) (models.DriverRecord, bool) {
	rec, ok := d.drivers[id]
	return rec, ok
}

func (d *Directory) User(id string) (models.UserRecord, bool) {
	rec, ok := d.users[id]
	return rec, ok
}

// LoadFile reads a directory from a JSON file of the shape
// {"drivers": [...], "users": [...]}.
func LoadFile(path string) (*Directory, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}
	var doc struct {
		Drivers []models.DriverRecord `json:"drivers"`
		Users   []models.UserRecord   `json:"users"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse profile file %s: %w", path, err)
	}
	if len(doc.Drivers) == 0 && len(doc.Users) == 0 {
		return nil, fmt.Errorf("profile file %s has no drivers or users", path)
	}
	return NewDirectory(doc.Drivers, doc.Users), nil
}
