package growth

import (
	"fmt"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// NextLevel returns the level after level. ok is false for L5.
func NextLevel(level domain.Level) (next domain.Level, ok bool, err error) {
	if !level.Valid() {
		return "", false, domain.NewValidationError(fmt.Sprintf("유효하지 않은 레벨입니다: %s", level))
	}
	next, ok = level.Next()
	return next, ok, nil
}

type GrowthPath struct {
	MemberID        domain.MemberID `json:"memberId"`
	CurrentLevel    domain.Level    `json:"currentLevel"`
	NextLevel       domain.Level    `json:"nextLevel,omitempty"`
	Recommendations []string        `json:"recommendations"`
}

// RecommendGrowthPath suggests how m reaches the next level, or how an L5 widens its reach.
func RecommendGrowthPath(m domain.Member) (GrowthPath, error) {
	next, ok, err := NextLevel(m.Level)
	if err != nil {
		return GrowthPath{}, err
	}
	p := GrowthPath{MemberID: m.ID, CurrentLevel: m.Level}
	if ok {
		p.NextLevel = next
		p.Recommendations = []string{
			fmt.Sprintf("%s 레벨 달성을 위한 역량 개발", next),
			"상위 레벨 멘토와의 멘토링",
			"복잡한 프로젝트 참여",
		}
		return p, nil
	}
	p.Recommendations = []string{
		"조직 내 기술 리더십 강화",
		"외부 발표 및 기고",
		"업계 표준 기여",
	}
	return p, nil
}

var archetypePaths = map[domain.Archetype][]string{
	domain.ArchetypeProblemSolving: {
		"장애 대응 및 트러블슈팅 경험 축적",
		"Root Cause 분석 능력 강화",
		"장애 대응 프로세스 개선",
	},
	domain.ArchetypeArchitecture: {
		"시스템 아키텍처 설계 경험",
		"확장성 및 성능 고려 설계",
		"아키텍처 문서화 및 공유",
	},
	domain.ArchetypeResearch: {
		"신기술 연구 및 도입",
		"성능 최적화 프로젝트",
		"자동화 및 품질 개선",
	},
	domain.ArchetypeOperations: {
		"운영 안정성 강화",
		"운영 프로세스 최적화",
		"장애 대응 체계 구축",
	},
	domain.ArchetypeMentorship: {
		"멘토링 및 기술 전파",
		"팀 리더십 강화",
		"조직 문화 형성",
	},
}

var genericPath = []string{
	"전반적인 역량 개발",
	"다양한 프로젝트 경험",
	"기술 문서화 및 공유",
}

type ArchetypePath struct {
	MemberID        domain.MemberID  `json:"memberId"`
	Archetype       domain.Archetype `json:"archetype"`
	Recommendations []string         `json:"recommendations"`
}

// RecommendPathByArchetype tailors recommendations to the member's primary archetype.
func RecommendPathByArchetype(m domain.Member) ArchetypePath {
	recs, ok := archetypePaths[m.PrimaryArchetype]
	if !ok {
		recs = genericPath
	}
	return ArchetypePath{
		MemberID:        m.ID,
		Archetype:       m.PrimaryArchetype,
		Recommendations: append([]string(nil), recs...),
	}
}
