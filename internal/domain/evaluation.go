package domain

import "time"

// Category is one of the four competency areas a member is evaluated on.
type Category string

const (
	CategoryTechnical      Category = "technical"
	CategoryProblemSolving Category = "problemSolving"
	CategoryCollaboration  Category = "collaboration"
	CategoryAssetization   Category = "assetization"

	// CategoryAll aggregates the four categories as one flat ratio.
	CategoryAll Category = "all"
)

// Categories is ordered as they are reported.
var Categories = []Category{
	CategoryTechnical,
	CategoryProblemSolving,
	CategoryCollaboration,
	CategoryAssetization,
}

var categoryLabels = map[Category]string{
	CategoryTechnical:      "기술 역량",
	CategoryProblemSolving: "문제 해결",
	CategoryCollaboration:  "협업/리더십",
	CategoryAssetization:   "기술 자산화",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the display name of the category.
func (c Category) Label() string { return categoryLabels[c] }

// Scores holds raw 0–100 marks per category, the input of the weighted score.
type Scores struct {
	Technical      float64 `json:"technical"`
	ProblemSolving float64 `json:"problemSolving"`
	Collaboration  float64 `json:"collaboration"`
	Assetization   float64 `json:"assetization"`
}

func (s Scores) Get(c Category) float64 {
	switch c {
	case CategoryTechnical:
		return s.Technical
	case CategoryProblemSolving:
		return s.ProblemSolving
	case CategoryCollaboration:
		return s.Collaboration
	case CategoryAssetization:
		return s.Assetization
	}
	return 0
}

// Checklist counts achieved items out of the category's checklist.
type Checklist struct {
	Achieved int `json:"achieved"`
	Total    int `json:"total"`
}

// Checklists holds the achieved/total pairs per category. A nil entry was not assessed.
type Checklists struct {
	Technical      *Checklist `json:"technical,omitempty"`
	ProblemSolving *Checklist `json:"problemSolving,omitempty"`
	Collaboration  *Checklist `json:"collaboration,omitempty"`
	Assetization   *Checklist `json:"assetization,omitempty"`
}

func (c Checklists) Get(cat Category) *Checklist {
	switch cat {
	case CategoryTechnical:
		return c.Technical
	case CategoryProblemSolving:
		return c.ProblemSolving
	case CategoryCollaboration:
		return c.Collaboration
	case CategoryAssetization:
		return c.Assetization
	}
	return nil
}

// Evaluation is what an evaluator enters. Either shape may be absent.
type Evaluation struct {
	Scores     *Scores     `json:"scores,omitempty"`
	Checklists *Checklists `json:"checklists,omitempty"`
}

// WeightedScore is the reported result of the weighted aggregation.
type WeightedScore struct {
	TechnicalScore      float64 `json:"technicalScore"`
	ProblemSolvingScore float64 `json:"problemSolvingScore"`
	CollaborationScore  float64 `json:"collaborationScore"`
	AssetizationScore   float64 `json:"assetizationScore"`
	TotalScore          int     `json:"totalScore"`
}

// EvaluationRecord is the single active evaluation of a member.
type EvaluationRecord struct {
	MemberID   MemberID      `json:"memberId"`
	Evaluation Evaluation    `json:"evaluation"`
	Timestamp  time.Time     `json:"timestamp"`
	Score      WeightedScore `json:"score"`
}
