package evaluations

import (
	"fmt"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// Matrix lists the checklist items expected of a level, per category.
type Matrix struct {
	Level        domain.Level                 `json:"level"`
	Capabilities map[domain.Category][]string `json:"capabilities"`
}

var capabilityMatrix = map[domain.Level]map[domain.Category][]string{
	domain.LevelL1: {
		domain.CategoryTechnical:      {"기본 원리 이해", "기본 도구 사용", "코드 작성 능력"},
		domain.CategoryProblemSolving: {"문제 재현", "가설 제시", "기본 디버깅"},
		domain.CategoryCollaboration:  {"코드 리뷰 참여", "문서화", "팀 커뮤니케이션"},
		domain.CategoryAssetization:   {"작업 내용 문서화", "학습 내용 정리"},
	},
	domain.LevelL2: {
		domain.CategoryTechnical:      {"독립적 기능 구현", "설계 패턴 이해", "성능 최적화 기초"},
		domain.CategoryProblemSolving: {"Root Cause 분석", "해결 방안 제시", "장애 대응"},
		domain.CategoryCollaboration:  {"코드 리뷰 주도", "기술 공유", "멘토링 참여"},
		domain.CategoryAssetization:   {"개선 사례 문서화", "기술 가이드 작성"},
	},
	domain.LevelL3: {
		domain.CategoryTechnical:      {"시스템 단위 설계", "아키텍처 이해", "확장성 고려"},
		domain.CategoryProblemSolving: {"구조적 문제 정의", "장기적 해결 방안", "리스크 관리"},
		domain.CategoryCollaboration:  {"기술 리더십", "크로스팀 협업", "의사결정 참여"},
		domain.CategoryAssetization:   {"기술 가이드 작성", "아키텍처 문서화"},
	},
	domain.LevelL4: {
		domain.CategoryTechnical:      {"아키텍처 설계", "기술 전략 수립", "기술 부채 관리"},
		domain.CategoryProblemSolving: {"조직 차원 문제 해결", "전략적 의사결정", "복잡한 문제 분석"},
		domain.CategoryCollaboration:  {"조직 리더십", "기술 문화 형성", "외부 협력"},
		domain.CategoryAssetization:   {"핵심 기술 문서화", "기술 표준 수립"},
	},
	domain.LevelL5: {
		domain.CategoryTechnical:      {"기술 철학 제시", "장기 기술 비전", "혁신적 솔루션"},
		domain.CategoryProblemSolving: {"산업 차원 문제 해결", "전략적 비전 제시", "복잡한 시스템 설계"},
		domain.CategoryCollaboration:  {"조직 문화 형성", "외부 발표/기고", "업계 리더십"},
		domain.CategoryAssetization:   {"기술 철학 문서화", "업계 표준 기여"},
	},
}

// CapabilityMatrix returns a copy of the level's checklist.
func CapabilityMatrix(level domain.Level) (Matrix, error) {
	src, ok := capabilityMatrix[level]
	if !ok {
		return Matrix{}, domain.NewValidationError(fmt.Sprintf("유효하지 않은 레벨입니다: %s", level))
	}
	caps := make(map[domain.Category][]string, len(src))
	for c, items := range src {
		caps[c] = append([]string(nil), items...)
	}
	return Matrix{Level: level, Capabilities: caps}, nil
}

// EmptyChecklists sizes a blank checklist set from the level's matrix.
func EmptyChecklists(level domain.Level) (domain.Checklists, error) {
	m, err := CapabilityMatrix(level)
	if err != nil {
		return domain.Checklists{}, err
	}
	total := func(c domain.Category) *domain.Checklist {
		return &domain.Checklist{Total: len(m.Capabilities[c])}
	}
	return domain.Checklists{
		Technical:      total(domain.CategoryTechnical),
		ProblemSolving: total(domain.CategoryProblemSolving),
		Collaboration:  total(domain.CategoryCollaboration),
		Assetization:   total(domain.CategoryAssetization),
	}, nil
}
