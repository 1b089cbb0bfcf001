// Package weights derives a per-category weight vector from a user profile.
//
// Every profile field is evaluated by its own rule independently of the others.
// The resulting deltas are summed onto the baseline and the sum is clamped once,
// so the order in which rules are evaluated never changes the outcome.
package weights

import (
	"sort"

	"vecindario/internal/model"
	"vecindario/internal/util"
)

// Contribution records one delta produced by one answer.
type Contribution struct {
	Field    string         `json:"field"`
	Answer   string         `json:"answer"`
	Category model.Category `json:"category"`
	Delta    int            `json:"delta"`
}

// Baseline returns a fresh copy of the default weights.
func Baseline() model.WeightVector {
	return baseline.Clone()
}

// Contributions evaluates the rule against p. Answers are folded before lookup and
// repeated answers of a list field count once. Unknown answers contribute nothing.
func (r Rule) Contributions(p model.UserProfile) []Contribution {
	var out []Contribution
	seen := make(map[string]struct{})
	for _, raw := range r.Answer(p) {
		a := util.FoldAnswer(raw)
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		delta, ok := r.Values[a]
		if !ok {
			continue
		}
		for _, c := range sortedCategories(delta) {
			out = append(out, Contribution{Field: r.Field, Answer: a, Category: c, Delta: delta[c]})
		}
	}
	return out
}

// Contributions evaluates every rule against p.
func Contributions(p model.UserProfile) []Contribution {
	var out []Contribution
	for _, r := range Rules {
		out = append(out, r.Contributions(p)...)
	}
	return out
}

// Derive folds all contributions onto the baseline and clamps each category to
// [model.MinWeight, model.MaxWeight].
func Derive(p model.UserProfile) model.WeightVector {
	w := Baseline()
	for _, c := range Contributions(p) {
		w[c.Category] += c.Delta
	}
	for _, c := range model.Categories {
		w[c] = clamp(w[c], model.MinWeight, model.MaxWeight)
	}
	return w
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sortedCategories(d Delta) []model.Category {
	out := make([]model.Category, 0, len(d))
	for c := range d {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
