package growth

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// TargetRate is the per-category achievement a member is expected to reach.
const TargetRate = 80.0

type Gap struct {
	Category    domain.Category `json:"category"`
	CurrentRate float64         `json:"currentRate"`
	TargetRate  float64         `json:"targetRate"`
	Gap         float64         `json:"gap"`
}

type GapAnalysis struct {
	MemberID domain.MemberID `json:"memberId"`
	Gaps     []Gap           `json:"gaps"`
}

// AnalyzeCapabilityGap reports the categories below TargetRate, largest shortfall first.
// A category that was not assessed, or has no items, counts as 0%.
func AnalyzeCapabilityGap(m domain.Member, c domain.Checklists) GapAnalysis {
	gaps := make([]Gap, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		rate := categoryRate(c.Get(cat))
		if rate < TargetRate {
			gaps = append(gaps, Gap{
				Category:    cat,
				CurrentRate: rate,
				TargetRate:  TargetRate,
				Gap:         TargetRate - rate,
			})
		}
	}
	slices.SortStableFunc(gaps, func(a, b Gap) int { return cmp.Compare(b.Gap, a.Gap) })
	return GapAnalysis{MemberID: m.ID, Gaps: gaps}
}

func categoryRate(cl *domain.Checklist) float64 {
	if cl == nil || cl.Total <= 0 {
		return 0
	}
	return float64(cl.Achieved) / float64(cl.Total) * 100
}

type GapRecommendation struct {
	Priority       float64         `json:"priority"`
	Category       domain.Category `json:"category"`
	Label          string          `json:"label"`
	Recommendation string          `json:"recommendation"`
}

type GapPlan struct {
	MemberID        domain.MemberID     `json:"memberId"`
	Recommendations []GapRecommendation `json:"recommendations"`
}

// RecommendPathByGap turns each gap into a recommendation, keeping the gap order.
func RecommendPathByGap(m domain.Member, c domain.Checklists) GapPlan {
	analysis := AnalyzeCapabilityGap(m, c)
	recs := make([]GapRecommendation, 0, len(analysis.Gaps))
	for _, g := range analysis.Gaps {
		label := g.Category.Label()
		recs = append(recs, GapRecommendation{
			Priority:       g.Gap,
			Category:       g.Category,
			Label:          label,
			Recommendation: fmt.Sprintf("%s 역량을 %d%% 향상시켜야 합니다.", label, int(math.Round(g.Gap))),
		})
	}
	return GapPlan{MemberID: m.ID, Recommendations: recs}
}
