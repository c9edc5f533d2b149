package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/internal/recommend"
)

// MaxQueryLength bounds the title query and mood parameters
const MaxQueryLength = 80

// TitlesParams are the query parameters of GET /titles
type TitlesParams struct {
	Query string `validate:"max=80"`
	Limit int    `validate:"min=1"`
}

// RecommendParams are the query parameters of GET /recommendations
type RecommendParams struct {
	Mood     string `validate:"max=80"`
	K        int    `validate:"min=1"`
	MinCount int64  `validate:"min=0"`
}

// paramNames maps struct fields to their query parameter names
var paramNames = map[string]string{
	"Query":    "query",
	"Limit":    "limit",
	"Mood":     "mood",
	"K":        "k",
	"MinCount": "min_count",
}

// singleton validator instance (caches struct info)
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ParseTitlesParams reads and validates /titles parameters
func ParseTitlesParams(q url.Values) (TitlesParams, error) {
	p := TitlesParams{Query: q.Get("query"), Limit: recommend.DefaultLimit}

	var err error
	if p.Limit, err = intParam(q, "limit", recommend.DefaultLimit); err != nil {
		return p, err
	}
	return p, validateParams("titles", p)
}

// ParseRecommendParams reads and validates /recommendations parameters
func ParseRecommendParams(q url.Values) (RecommendParams, error) {
	// 공백뿐인 mood는 생략과 동일하게 기본값 사용
	p := RecommendParams{Mood: recommend.DefaultMood}
	if v := q.Get("mood"); strings.TrimSpace(v) != "" {
		p.Mood = v
	}

	var err error
	if p.K, err = intParam(q, "k", recommend.DefaultK); err != nil {
		return p, err
	}
	minCount, err := intParam(q, "min_count", recommend.DefaultMinCount)
	if err != nil {
		return p, err
	}
	p.MinCount = int64(minCount)

	return p, validateParams("recommendations", p)
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, contracts.NewValidationError("query", name, "must be an integer")
	}
	return v, nil
}

// validateParams runs struct validation and converts the first failure
// into a contracts.ValidationError named after the query parameter
func validateParams(source string, p interface{}) error {
	err := getValidator().Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return contracts.NewValidationError(source, "", err.Error())
	}

	fe := fieldErrs[0]
	name := paramNames[fe.Field()]
	if name == "" {
		name = fe.Field()
	}
	return contracts.NewValidationError(source, name, translateTag(fe))
}

func translateTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
