// Package catalog owns a business's pricing catalog: the built-in defaults,
// validated whole-list replacement of a single category, and persistence.
package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"

	"github.com/detailpro/detailpro-backend/pkg/enums"
	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

// Item is the category-neutral view of one catalog entry.
type Item struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Multiplier  *float64 `json:"multiplier,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// Violation describes one invalid field of one item in a replacement list.
type Violation struct {
	Category enums.CatalogCategory `json:"category"`
	Index    int                   `json:"index"`
	Field    string                `json:"field"`
	Message  string                `json:"message"`
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s[%d].%s: %s", v.Category, v.Index, v.Field, v.Message)
}

// ReplaceCategory returns a copy of c with category swapped for items. items
// must be the slice type that matches category (types.VehicleSizes for
// vehicle_sizes and so on). Every violation is reported, not just the first.
// c is never modified.
func ReplaceCategory(c types.PricingCatalog, category enums.CatalogCategory, items any) (types.PricingCatalog, error) {
	if err := validateCategory(category, items); err != nil {
		return types.PricingCatalog{}, err
	}

	out := c.Clone()
	switch category {
	case enums.CatalogVehicleSizes:
		out.VehicleSizes = append(types.VehicleSizes{}, items.(types.VehicleSizes)...)
	case enums.CatalogConditions:
		out.Conditions = append(types.Conditions{}, items.(types.Conditions)...)
	case enums.CatalogServices:
		out.Services = append(types.Services{}, items.(types.Services)...)
	case enums.CatalogAddons:
		out.Addons = append(types.Addons{}, items.(types.Addons)...)
	}
	return out, nil
}

// Validate checks all four categories of c and reports every violation.
func Validate(c types.PricingCatalog) error {
	var errs error
	errs = multierr.Append(errs, collect(enums.CatalogVehicleSizes, c.VehicleSizes))
	errs = multierr.Append(errs, collect(enums.CatalogConditions, c.Conditions))
	errs = multierr.Append(errs, collect(enums.CatalogServices, c.Services))
	errs = multierr.Append(errs, collect(enums.CatalogAddons, c.Addons))
	return asValidationError(errs)
}

// Lookup resolves one entry of a category.
func Lookup(c types.PricingCatalog, category enums.CatalogCategory, id string) (Item, error) {
	notFound := pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s item %q not found", category, id))
	switch category {
	case enums.CatalogVehicleSizes:
		if v, ok := c.VehicleSize(id); ok {
			return Item{ID: v.ID, Label: v.Label, Multiplier: floatPtr(v.Multiplier)}, nil
		}
	case enums.CatalogConditions:
		if v, ok := c.Condition(id); ok {
			return Item{ID: v.ID, Label: v.Label, Description: v.Description, Multiplier: floatPtr(v.Multiplier)}, nil
		}
	case enums.CatalogServices:
		if v, ok := c.Service(id); ok {
			return Item{ID: v.ID, Label: v.Label, Price: floatPtr(v.BasePrice)}, nil
		}
	case enums.CatalogAddons:
		if v, ok := c.Addon(id); ok {
			return Item{ID: v.ID, Label: v.Label, Price: floatPtr(v.Price)}, nil
		}
	default:
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", category))
	}
	return Item{}, notFound
}

// DecodeItems parses a JSON array into the slice type category expects.
func DecodeItems(category enums.CatalogCategory, raw []byte) (any, error) {
	var (
		items any
		err   error
	)
	switch category {
	case enums.CatalogVehicleSizes:
		var v types.VehicleSizes
		err = json.Unmarshal(raw, &v)
		items = v
	case enums.CatalogConditions:
		var v types.Conditions
		err = json.Unmarshal(raw, &v)
		items = v
	case enums.CatalogServices:
		var v types.Services
		err = json.Unmarshal(raw, &v)
		items = v
	case enums.CatalogAddons:
		var v types.Addons
		err = json.Unmarshal(raw, &v)
		items = v
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", category))
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("%s must be a JSON array of items", category))
	}
	return items, nil
}

// Column maps a category to its pricing_catalogs column.
func Column(category enums.CatalogCategory) string {
	return string(category)
}

func validateCategory(category enums.CatalogCategory, items any) error {
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", category))
	}
	var errs error
	switch v := items.(type) {
	case types.VehicleSizes:
		if category != enums.CatalogVehicleSizes {
			return mismatch(category, items)
		}
		errs = collect(category, v)
	case types.Conditions:
		if category != enums.CatalogConditions {
			return mismatch(category, items)
		}
		errs = collect(category, v)
	case types.Services:
		if category != enums.CatalogServices {
			return mismatch(category, items)
		}
		errs = collect(category, v)
	case types.Addons:
		if category != enums.CatalogAddons {
			return mismatch(category, items)
		}
		errs = collect(category, v)
	default:
		return mismatch(category, items)
	}
	return asValidationError(errs)
}

func mismatch(category enums.CatalogCategory, items any) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("items of type %T do not belong to %s", items, category))
}

// entry is the common shape every category item is checked through.
type entry struct {
	id, label string
	amounts   map[string]float64
}

func entriesOf[T any](items []T, view func(T) entry) []entry {
	out := make([]entry, len(items))
	for i, item := range items {
		out[i] = view(item)
	}
	return out
}

func collect[T types.VehicleSize | types.Condition | types.Service | types.Addon](category enums.CatalogCategory, items []T) error {
	entries := entriesOf(items, func(item T) entry {
		switch v := any(item).(type) {
		case types.VehicleSize:
			return entry{v.ID, v.Label, map[string]float64{"multiplier": v.Multiplier}}
		case types.Condition:
			return entry{v.ID, v.Label, map[string]float64{"multiplier": v.Multiplier}}
		case types.Service:
			return entry{v.ID, v.Label, map[string]float64{"base_price": v.BasePrice}}
		case types.Addon:
			return entry{v.ID, v.Label, map[string]float64{"price": v.Price}}
		}
		return entry{}
	})

	var errs error
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.id)
		switch {
		case id == "":
			errs = multierr.Append(errs, &Violation{category, i, "id", "is required"})
		case id != e.id:
			errs = multierr.Append(errs, &Violation{category, i, "id", "must not have surrounding whitespace"})
		default:
			if first, dup := seen[id]; dup {
				errs = multierr.Append(errs, &Violation{category, i, "id", fmt.Sprintf("duplicates item %d", first)})
			} else {
				seen[id] = i
			}
		}
		if strings.TrimSpace(e.label) == "" {
			errs = multierr.Append(errs, &Violation{category, i, "label", "is required"})
		}
		for field, amount := range e.amounts {
			switch {
			case math.IsNaN(amount) || math.IsInf(amount, 0):
				errs = multierr.Append(errs, &Violation{category, i, field, "must be a finite number"})
			case amount < 0:
				errs = multierr.Append(errs, &Violation{category, i, field, "must not be negative"})
			}
		}
	}
	return errs
}

func asValidationError(errs error) error {
	if errs == nil {
		return nil
	}
	list := multierr.Errors(errs)
	details := make([]*Violation, 0, len(list))
	for _, err := range list {
		if v, ok := err.(*Violation); ok {
			details = append(details, v)
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid pricing catalog").WithDetails(details)
}

func floatPtr(v float64) *float64 { return &v }
