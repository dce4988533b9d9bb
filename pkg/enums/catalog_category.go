package enums

import "fmt"

// CatalogCategory names one independently editable list of a pricing catalog.
type CatalogCategory string

const (
	CatalogVehicleSizes CatalogCategory = "vehicle_sizes"
	CatalogConditions   CatalogCategory = "conditions"
	CatalogServices     CatalogCategory = "services"
	CatalogAddons       CatalogCategory = "addons"
)

var validCatalogCategories = []CatalogCategory{
	CatalogVehicleSizes,
	CatalogConditions,
	CatalogServices,
	CatalogAddons,
}

func (c CatalogCategory) String() string {
	return string(c)
}

func (c CatalogCategory) IsValid() bool {
	for _, candidate := range validCatalogCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCatalogCategory converts raw input into a CatalogCategory.
func ParseCatalogCategory(value string) (CatalogCategory, error) {
	for _, candidate := range validCatalogCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog category %q", value)
}
