package contracts

import (
	"errors"
	"fmt"
)

// Error taxonomy
// ⭐ SSOT: 파이프라인/조회 에러 분류는 여기서만 정의
var (
	// ErrValidation: 입력 파일/컬럼 누락 등. 배치 실행 중단, 저장소 변경 없음
	ErrValidation = errors.New("validation failed")

	// ErrEmptyInput: 정제 후 남은 평점이 없음. 빈 테이블을 쓰지 않음
	ErrEmptyInput = errors.New("empty input: no ratings survived cleaning")

	// ErrStoreUnavailable: 카탈로그가 아직 빌드되지 않음 (클라이언트가 해결 가능한 전제조건)
	ErrStoreUnavailable = errors.New("catalog store unavailable: run `cinemood build` first")
)

// ValidationError describes a malformed or missing input
type ValidationError struct {
	Source string // file path or parameter group
	Field  string // column or parameter name, optional
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError is a shorthand constructor
func NewValidationError(source, field, reason string) error {
	return &ValidationError{Source: source, Field: field, Reason: reason}
}
