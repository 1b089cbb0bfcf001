package recommend

import (
	"vecindario/internal/model"
	"vecindario/internal/util"
)

// AllowedTiers returns the salary tiers a budget keeps, or nil when the budget
// does not filter at all.
func AllowedTiers(budget string) map[model.SalaryTier]bool {
	switch util.FoldAnswer(budget) {
	case "bajo":
		return map[model.SalaryTier]bool{model.SalaryLow: true}
	case "medio-bajo", "medio":
		return map[model.SalaryTier]bool{model.SalaryLow: true, model.SalaryMedium: true}
	default:
		// medio-alto, alto and unset rely on the salary weight alone
		return nil
	}
}

// FilterByBudget drops neighborhoods outside the budget's salary tiers.
// The input slice is not modified.
func FilterByBudget(scored []model.ScoredNeighborhood, budget string) []model.ScoredNeighborhood {
	allowed := AllowedTiers(budget)
	if allowed == nil {
		out := make([]model.ScoredNeighborhood, len(scored))
		copy(out, scored)
		return out
	}
	out := make([]model.ScoredNeighborhood, 0, len(scored))
	for _, s := range scored {
		if allowed[s.LifestyleExtras.SalaryTier] {
			out = append(out, s)
		}
	}
	return out
}
