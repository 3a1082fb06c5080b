package catalog

import (
	"fmt"

	"billboard-pricing/core/types"
)

// DefaultBuckets are the canonical tier-price duration buckets in months
func DefaultBuckets() []int {
	return []int{1, 3, 6, 12}
}

// DefaultPackages is the canonical package list
func DefaultPackages() []types.PackageDuration {
	return []types.PackageDuration{
		{Months: 1, Label: "1 month", DiscountPercent: 0},
		{Months: 3, Label: "3 months", DiscountPercent: 5},
		{Months: 6, Label: "6 months", DiscountPercent: 10},
		{Months: 12, Label: "12 months", DiscountPercent: 20},
	}
}

// DefaultCategoryDiscounts are applied after the package discount
func DefaultCategoryDiscounts() map[types.CustomerCategory]float64 {
	return map[types.CustomerCategory]float64{
		types.CategoryIndividual: 0,
		types.CategoryCompany:    5,
		types.CategoryMarketer:   15,
	}
}

func monthsLabel(months int) string {
	if months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", months)
}
