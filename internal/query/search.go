package query

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"landScope/internal/model"
	"landScope/internal/money"
)

type matcher func(model.LandRecord) bool

// Search returns the records matching criteria in their input order. An
// empty result is not an error.
func Search(records []model.LandRecord, criteria Criteria) ([]model.LandRecord, error) {
	if criteria == nil {
		return nil, ErrEmptyCriteria
	}
	match, err := criteria.compile()
	if err != nil {
		return nil, err
	}

	out := make([]model.LandRecord, 0)
	for _, record := range records {
		if match(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

// Validate reports the error Search would return for criteria, without
// needing any records.
func Validate(criteria Criteria) error {
	if criteria == nil {
		return ErrEmptyCriteria
	}
	_, err := criteria.compile()
	return err
}

func (s Simple) compile() (matcher, error) {
	if strings.TrimSpace(s.Value) == "" {
		return nil, fmt.Errorf("%w: %s requires a value", ErrEmptyCriteria, s.Field)
	}
	value := strings.ToLower(s.Value)

	switch s.Field {
	case FieldLocation:
		return func(r model.LandRecord) bool {
			return containsFold(r.Location, value)
		}, nil
	case FieldSurveyNumber:
		return func(r model.LandRecord) bool {
			return containsFold(r.SurveyNumber, value)
		}, nil
	case FieldArea:
		return func(r model.LandRecord) bool {
			return strings.Contains(strconv.FormatUint(r.Area, 10), value)
		}, nil
	case FieldPrice:
		// Matches the display value (e.g. "2.5"), not raw base units.
		return func(r model.LandRecord) bool {
			return strings.Contains(money.ToDecimalString(r.Price), value)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, s.Field)
	}
}

func (a Advanced) compile() (matcher, error) {
	var matchers []matcher

	if a.Location != "" {
		location := strings.ToLower(a.Location)
		matchers = append(matchers, func(r model.LandRecord) bool {
			return containsFold(r.Location, location)
		})
	}

	if a.AreaApprox != nil {
		target := *a.AreaApprox
		matchers = append(matchers, func(r model.LandRecord) bool {
			return withinTolerance(r.Area, target, AreaTolerance)
		})
	}

	if a.SurveyNumber != "" {
		survey := strings.ToLower(a.SurveyNumber)
		matchers = append(matchers, func(r model.LandRecord) bool {
			return containsFold(r.SurveyNumber, survey)
		})
	}

	if a.PriceMin != "" {
		lower, err := money.ToBaseUnits(a.PriceMin)
		if err != nil {
			return nil, fmt.Errorf("price min: %w", err)
		}
		matchers = append(matchers, func(r model.LandRecord) bool {
			return priceOf(r).Cmp(lower) >= 0
		})
	}

	if a.PriceMax != "" {
		upper, err := money.ToBaseUnits(a.PriceMax)
		if err != nil {
			return nil, fmt.Errorf("price max: %w", err)
		}
		matchers = append(matchers, func(r model.LandRecord) bool {
			return priceOf(r).Cmp(upper) <= 0
		})
	}

	switch a.Documents {
	case "", DocumentsAny:
	case DocumentsYes:
		matchers = append(matchers, func(r model.LandRecord) bool { return r.HasDocument() })
	case DocumentsNo:
		matchers = append(matchers, func(r model.LandRecord) bool { return !r.HasDocument() })
	default:
		return nil, fmt.Errorf("invalid document filter %q", a.Documents)
	}

	return func(r model.LandRecord) bool {
		for _, m := range matchers {
			if !m(r) {
				return false
			}
		}
		return true
	}, nil
}

// containsFold reports whether s contains the already lower-cased needle.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

func withinTolerance(value, target, tolerance uint64) bool {
	if value >= target {
		return value-target <= tolerance
	}
	return target-value <= tolerance
}

func priceOf(r model.LandRecord) *big.Int {
	if r.Price == nil {
		return new(big.Int)
	}
	return r.Price
}
