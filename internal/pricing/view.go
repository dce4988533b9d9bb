package pricing

// LineItemView is the JSON shape of a line item.
type LineItemView struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// BreakdownView is the JSON shape of a breakdown. Amounts are whole currency units.
type BreakdownView struct {
	VehicleMultiplier   float64        `json:"vehicle_multiplier"`
	ConditionMultiplier float64        `json:"condition_multiplier"`
	ServicesTotal       float64        `json:"services_total"`
	AddonsTotal         float64        `json:"addons_total"`
	Total               float64        `json:"total"`
	Services            []LineItemView `json:"services"`
	Addons              []LineItemView `json:"addons"`
}

func (b Breakdown) View() BreakdownView {
	return BreakdownView{
		VehicleMultiplier:   b.VehicleMultiplier.InexactFloat64(),
		ConditionMultiplier: b.ConditionMultiplier.InexactFloat64(),
		ServicesTotal:       b.ServicesTotal.InexactFloat64(),
		AddonsTotal:         b.AddonsTotal.InexactFloat64(),
		Total:               b.Total.InexactFloat64(),
		Services:            lineViews(b.Services),
		Addons:              lineViews(b.Addons),
	}
}

func lineViews(items []LineItem) []LineItemView {
	out := make([]LineItemView, len(items))
	for i, item := range items {
		out[i] = LineItemView{ID: item.ID, Label: item.Label, Price: item.Price.InexactFloat64()}
	}
	return out
}
