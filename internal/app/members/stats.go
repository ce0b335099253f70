package members

import "github.com/ecgf-team/roster-api/internal/domain"

// YearsBucket is a labelled tenure band used by the dashboard.
type YearsBucket struct {
	Label string
	Range domain.YearsRange
}

// YearsBuckets differs from the level bands only in counting 0 years in the first bucket.
var YearsBuckets = []YearsBucket{
	{Label: "0-3", Range: domain.YearsRange{Min: 0, Max: 3}},
	{Label: "4-7", Range: domain.YearsRange{Min: 4, Max: 7}},
	{Label: "8-12", Range: domain.YearsRange{Min: 8, Max: 12}},
	{Label: "13-20", Range: domain.YearsRange{Min: 13, Max: 20}},
	{Label: "21+", Range: domain.YearsRange{Min: 21, Max: domain.Unbounded}},
}

type Statistics struct {
	Total                 int                      `json:"total"`
	LevelDistribution     map[domain.Level]int     `json:"levelDistribution"`
	ArchetypeDistribution map[domain.Archetype]int `json:"archetypeDistribution"`
	YearsDistribution     map[string]int           `json:"yearsDistribution"`
}

// ComputeStatistics counts the roster by level, archetype and tenure bucket.
// Every known key is present, with zero when nothing matches.
func ComputeStatistics(ms []domain.Member, includeSecondary bool) Statistics {
	st := Statistics{
		Total:                 len(ms),
		LevelDistribution:     make(map[domain.Level]int, len(domain.ValidLevels)),
		ArchetypeDistribution: make(map[domain.Archetype]int, len(domain.ValidArchetypes)),
		YearsDistribution:     make(map[string]int, len(YearsBuckets)),
	}
	for _, l := range domain.ValidLevels {
		st.LevelDistribution[l] = 0
	}
	for _, a := range domain.ValidArchetypes {
		st.ArchetypeDistribution[a] = 0
	}
	for _, b := range YearsBuckets {
		st.YearsDistribution[b.Label] = 0
	}

	for _, m := range ms {
		if _, ok := st.LevelDistribution[m.Level]; ok {
			st.LevelDistribution[m.Level]++
		}
		if _, ok := st.ArchetypeDistribution[m.PrimaryArchetype]; ok {
			st.ArchetypeDistribution[m.PrimaryArchetype]++
		}
		if includeSecondary {
			if _, ok := st.ArchetypeDistribution[m.SecondaryArchetype]; ok {
				st.ArchetypeDistribution[m.SecondaryArchetype]++
			}
		}
		for _, b := range YearsBuckets {
			if b.Range.Contains(m.Years) {
				st.YearsDistribution[b.Label]++
				break
			}
		}
	}
	return st
}
