package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

type OrderStatus string

const (
	StatusDraft     OrderStatus = "DRAFT"
	StatusQuoted    OrderStatus = "QUOTED"
	StatusConfirmed OrderStatus = "CONFIRMED"
)

type StopType string

const (
	StopPickup   StopType = "PICKUP"
	StopDelivery StopType = "DELIVERY"
)

// Polyline is an ordered list of [latitude, longitude] pairs.
// Stored as jsonb; the pair order is latitude first, it is not GeoJSON.
type Polyline [][2]float64

func (p Polyline) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshal polyline")
	}
	return b, nil
}

func (p *Polyline) Scan(src interface{}) error {
	return scanJSON(src, p, "polyline")
}

// Flags is an open string-to-boolean mapping with no fixed key set.
// Consumers must treat absent keys as false.
type Flags map[string]bool

func (f Flags) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "marshal flags")
	}
	return b, nil
}

func (f *Flags) Scan(src interface{}) error {
	return scanJSON(src, f, "flags")
}

// Contact is a free-form sub-record (primary contact, billing address).
type Contact map[string]string

func (c Contact) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "marshal contact")
	}
	return b, nil
}

func (c *Contact) Scan(src interface{}) error {
	return scanJSON(src, c, "contact")
}

func scanJSON(src, dst interface{}, what string) error {
	if src == nil {
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.Errorf("scan %s: unsupported source type %T", what, src)
	}
	if len(b) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(b, dst), "scan %s", what)
}
