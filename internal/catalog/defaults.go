package catalog

import "github.com/detailpro/detailpro-backend/pkg/types"

var defaultCatalog = types.PricingCatalog{
	VehicleSizes: types.VehicleSizes{
		{ID: "sedan", Label: "Sedan / Coupe", Multiplier: 1.0},
		{ID: "suv", Label: "SUV / Crossover", Multiplier: 1.25},
		{ID: "truck", Label: "Truck / Van", Multiplier: 1.4},
	},
	Conditions: types.Conditions{
		{ID: "light", Label: "Light", Description: "Regular maintenance", Multiplier: 1.0},
		{ID: "moderate", Label: "Moderate", Description: "Some buildup", Multiplier: 1.25},
		{ID: "heavy", Label: "Heavy", Description: "Deep cleaning needed", Multiplier: 1.5},
	},
	Services: types.Services{
		{ID: "exterior", Label: "Exterior Wash & Wax", BasePrice: 80},
		{ID: "interior", Label: "Interior Deep Clean", BasePrice: 100},
		{ID: "polish", Label: "Paint Correction / Polish", BasePrice: 150},
	},
	Addons: types.Addons{
		{ID: "engine", Label: "Engine Bay", Price: 45},
		{ID: "wheels", Label: "Wheel Detail", Price: 35},
		{ID: "headlights", Label: "Headlight Restoration", Price: 60},
		{ID: "odor", Label: "Odor Removal", Price: 50},
		{ID: "pet", Label: "Pet Hair Removal", Price: 40},
		{ID: "ceramic", Label: "Ceramic Spray Coating", Price: 75},
	},
}

// DefaultCatalog returns the built-in catalog new businesses start from.
// Every call returns an independent copy.
func DefaultCatalog() types.PricingCatalog {
	return defaultCatalog.Clone()
}
