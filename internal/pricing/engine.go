// Package pricing computes quote totals from a pricing catalog. It is pure:
// no I/O, no clock, and the same inputs always produce the same breakdown.
package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/detailpro/detailpro-backend/pkg/errors"
	"github.com/detailpro/detailpro-backend/pkg/types"
)

// Selection is what the customer picked.
type Selection struct {
	VehicleSize string
	Condition   string
	Services    []string
	Addons      []string
}

// LineItem is one displayed row of a quote.
type LineItem struct {
	ID       string
	Label    string
	Price    decimal.Decimal
	Resolved bool
}

// Breakdown is the full result of pricing a selection.
type Breakdown struct {
	VehicleMultiplier   decimal.Decimal
	ConditionMultiplier decimal.Decimal
	ServicesSubtotal    decimal.Decimal
	ServicesTotal       decimal.Decimal
	AddonsTotal         decimal.Decimal
	Total               decimal.Decimal
	Services            []LineItem
	Addons              []LineItem
}

var one = decimal.NewFromInt(1)

// Calculate prices sel against catalog.
//
// Services are summed, scaled by the size and condition multipliers, and
// rounded once. Each add-on is scaled by the size multiplier only and rounded
// on its own. Ids that do not resolve contribute nothing (multipliers fall
// back to 1) rather than failing.
func Calculate(catalog types.PricingCatalog, sel Selection) (Breakdown, error) {
	if len(sel.Services) == 0 {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one service required")
	}

	vm := one
	if size, ok := catalog.VehicleSize(sel.VehicleSize); ok {
		vm = decimal.NewFromFloat(size.Multiplier)
	}
	cm := one
	if cond, ok := catalog.Condition(sel.Condition); ok {
		cm = decimal.NewFromFloat(cond.Multiplier)
	}
	serviceFactor := vm.Mul(cm)

	out := Breakdown{
		VehicleMultiplier:   vm,
		ConditionMultiplier: cm,
		ServicesSubtotal:    decimal.Zero,
		AddonsTotal:         decimal.Zero,
		Services:            make([]LineItem, 0, len(sel.Services)),
		Addons:              make([]LineItem, 0, len(sel.Addons)),
	}

	for _, id := range sel.Services {
		line := LineItem{ID: id, Label: id, Price: decimal.Zero}
		if svc, ok := catalog.Service(id); ok {
			base := decimal.NewFromFloat(svc.BasePrice)
			out.ServicesSubtotal = out.ServicesSubtotal.Add(base)
			line.Label = svc.Label
			line.Price = base.Mul(serviceFactor).Round(0)
			line.Resolved = true
		}
		out.Services = append(out.Services, line)
	}
	out.ServicesTotal = out.ServicesSubtotal.Mul(serviceFactor).Round(0)

	for _, id := range sel.Addons {
		line := LineItem{ID: id, Label: id, Price: decimal.Zero}
		if addon, ok := catalog.Addon(id); ok {
			line.Label = addon.Label
			line.Price = decimal.NewFromFloat(addon.Price).Mul(vm).Round(0)
			line.Resolved = true
		}
		out.AddonsTotal = out.AddonsTotal.Add(line.Price)
		out.Addons = append(out.Addons, line)
	}

	out.Total = out.ServicesTotal.Add(out.AddonsTotal)
	return out, nil
}
