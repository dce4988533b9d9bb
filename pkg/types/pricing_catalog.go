package types

import (
	"database/sql/driver"
	"encoding/json"
)

// VehicleSize is a size tier that scales every line of a quote.
type VehicleSize struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// Condition describes how dirty a vehicle is; it scales services only.
type Condition struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Multiplier  float64 `json:"multiplier"`
}

// Service is a base detailing package.
type Service struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	BasePrice float64 `json:"base_price"`
}

// Addon is an optional extra priced per vehicle size.
type Addon struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// VehicleSizes persists as a JSONB array.
type VehicleSizes []VehicleSize

func (v VehicleSizes) Value() (driver.Value, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v)
}

func (v *VehicleSizes) Scan(value interface{}) error {
	return scanJSON(value, v)
}

// Conditions persists as a JSONB array.
type Conditions []Condition

func (c Conditions) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *Conditions) Scan(value interface{}) error {
	return scanJSON(value, c)
}

// Services persists as a JSONB array.
type Services []Service

func (s Services) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *Services) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// Addons persists as a JSONB array.
type Addons []Addon

func (a Addons) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

func (a *Addons) Scan(value interface{}) error {
	return scanJSON(value, a)
}

// PricingCatalog is the full set of pricing knobs for one business. It is
// stored column-per-category on the business and as a single JSONB snapshot
// on every quote.
type PricingCatalog struct {
	VehicleSizes VehicleSizes `json:"vehicle_sizes"`
	Conditions   Conditions   `json:"conditions"`
	Services     Services     `json:"services"`
	Addons       Addons       `json:"addons"`
}

// Clone returns a deep copy sharing no backing arrays with c.
func (c PricingCatalog) Clone() PricingCatalog {
	out := PricingCatalog{
		VehicleSizes: make(VehicleSizes, len(c.VehicleSizes)),
		Conditions:   make(Conditions, len(c.Conditions)),
		Services:     make(Services, len(c.Services)),
		Addons:       make(Addons, len(c.Addons)),
	}
	copy(out.VehicleSizes, c.VehicleSizes)
	copy(out.Conditions, c.Conditions)
	copy(out.Services, c.Services)
	copy(out.Addons, c.Addons)
	return out
}

func (c PricingCatalog) VehicleSize(id string) (VehicleSize, bool) {
	for _, item := range c.VehicleSizes {
		if item.ID == id {
			return item, true
		}
	}
	return VehicleSize{}, false
}

func (c PricingCatalog) Condition(id string) (Condition, bool) {
	for _, item := range c.Conditions {
		if item.ID == id {
			return item, true
		}
	}
	return Condition{}, false
}

func (c PricingCatalog) Service(id string) (Service, bool) {
	for _, item := range c.Services {
		if item.ID == id {
			return item, true
		}
	}
	return Service{}, false
}

func (c PricingCatalog) Addon(id string) (Addon, bool) {
	for _, item := range c.Addons {
		if item.ID == id {
			return item, true
		}
	}
	return Addon{}, false
}

func (c PricingCatalog) Value() (driver.Value, error) {
	return json.Marshal(c.Clone())
}

func (c *PricingCatalog) Scan(value interface{}) error {
	if value == nil {
		*c = PricingCatalog{}
		return nil
	}
	return scanJSON(value, c)
}
