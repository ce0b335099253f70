package evaluations

import (
	"fmt"
	"math"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// Weights are percentages and sum to 100.
var Weights = map[domain.Category]float64{
	domain.CategoryTechnical:      40,
	domain.CategoryProblemSolving: 25,
	domain.CategoryCollaboration:  20,
	domain.CategoryAssetization:   15,
}

// PromotionThreshold is the minimum overall achievement rate, inclusive.
const PromotionThreshold = 80

// ComputeWeightedScore weights raw 0–100 scores. Sub-scores are rounded to two decimals
// for reporting; the total is the integer rounding of the unrounded sum.
func ComputeWeightedScore(s domain.Scores) domain.WeightedScore {
	sub := func(c domain.Category) float64 { return s.Get(c) * Weights[c] / 100 }

	tech := sub(domain.CategoryTechnical)
	ps := sub(domain.CategoryProblemSolving)
	collab := sub(domain.CategoryCollaboration)
	asset := sub(domain.CategoryAssetization)

	return domain.WeightedScore{
		TechnicalScore:      round2(tech),
		ProblemSolvingScore: round2(ps),
		CollaborationScore:  round2(collab),
		AssetizationScore:   round2(asset),
		TotalScore:          int(math.Round(tech + ps + collab + asset)),
	}
}

// AchievementRate is a rounded percentage with the counts it was computed from.
type AchievementRate struct {
	Percentage int `json:"percentage"`
	Achieved   int `json:"achieved"`
	Total      int `json:"total"`
}

// ComputeAchievementRate returns the achieved/total ratio for one category, or for
// domain.CategoryAll the unweighted ratio over all four. A zero total yields 0%.
func ComputeAchievementRate(c domain.Checklists, category domain.Category) (AchievementRate, error) {
	if category == domain.CategoryAll {
		var out AchievementRate
		for _, cat := range domain.Categories {
			if cl := c.Get(cat); cl != nil {
				out.Achieved += cl.Achieved
				out.Total += cl.Total
			}
		}
		out.Percentage = percentage(out.Achieved, out.Total)
		return out, nil
	}
	if !category.Valid() {
		return AchievementRate{}, domain.NewValidationError(fmt.Sprintf("알 수 없는 평가 항목입니다: %s", category))
	}
	cl := c.Get(category)
	if cl == nil {
		return AchievementRate{}, nil
	}
	return AchievementRate{
		Percentage: percentage(cl.Achieved, cl.Total),
		Achieved:   cl.Achieved,
		Total:      cl.Total,
	}, nil
}

// Promotion is the outcome of CheckPromotionCriteria.
type Promotion struct {
	Eligible        bool `json:"eligible"`
	AchievementRate int  `json:"achievementRate"`
}

func CheckPromotionCriteria(c domain.Checklists) Promotion {
	rate, _ := ComputeAchievementRate(c, domain.CategoryAll)
	return Promotion{
		Eligible:        rate.Percentage >= PromotionThreshold,
		AchievementRate: rate.Percentage,
	}
}

func percentage(achieved, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(achieved) / float64(total) * 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
