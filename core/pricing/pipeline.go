package pricing

import "billboard-pricing/core/types"

// Step names a stage of the discount pipeline
type Step string

const (
	StepBase             Step = "base"
	StepPackageDiscount  Step = "package_discount"
	StepCategoryDiscount Step = "category_discount"
	StepInstallation     Step = "installation"
	StepTotal            Step = "total"
)

// StepResult is one stage of a pipeline run. Amount is the running value
// after the stage; Delta is what the stage changed.
type StepResult struct {
	Step    Step    `json:"step"`
	Percent float64 `json:"percent,omitempty"`
	Delta   int64   `json:"delta"`
	Amount  int64   `json:"amount"`
}

// Pipeline is the fixed pricing order:
// base -> package discount -> category discount -> + installation -> total.
// Every stage rounds to a whole amount.
type Pipeline struct {
	Base                    int64
	PackageDiscountPercent  float64
	CategoryDiscountPercent float64
	Installation            int64
}

// Result is the outcome of a pipeline run
type Result struct {
	Steps []StepResult `json:"steps"`
	// Discounted is the amount after both discounts, before installation
	Discounted int64 `json:"discounted"`
	Total      int64 `json:"total"`
}

// Run executes the pipeline
func (p Pipeline) Run() Result {
	steps := make([]StepResult, 0, 5)
	amount := p.Base
	steps = append(steps, StepResult{Step: StepBase, Amount: amount})

	afterPackage := types.ApplyDiscount(amount, p.PackageDiscountPercent)
	steps = append(steps, StepResult{
		Step:    StepPackageDiscount,
		Percent: types.ClampPercent(p.PackageDiscountPercent),
		Delta:   afterPackage - amount,
		Amount:  afterPackage,
	})
	amount = afterPackage

	afterCategory := types.ApplyDiscount(amount, p.CategoryDiscountPercent)
	steps = append(steps, StepResult{
		Step:    StepCategoryDiscount,
		Percent: types.ClampPercent(p.CategoryDiscountPercent),
		Delta:   afterCategory - amount,
		Amount:  afterCategory,
	})
	amount = afterCategory
	discounted := amount

	amount += p.Installation
	steps = append(steps, StepResult{Step: StepInstallation, Delta: p.Installation, Amount: amount})
	steps = append(steps, StepResult{Step: StepTotal, Amount: amount})

	return Result{Steps: steps, Discounted: discounted, Total: amount}
}

// FinalPrice applies the package and category discounts to a base price
func FinalPrice(base int64, packagePercent, categoryPercent float64) int64 {
	return Pipeline{
		Base:                    base,
		PackageDiscountPercent:  packagePercent,
		CategoryDiscountPercent: categoryPercent,
	}.Run().Discounted
}
