package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyCriteria reports a simple search without a value.
	ErrEmptyCriteria = errors.New("empty search criteria")
	// ErrUnknownField reports a simple search on an unsupported field.
	ErrUnknownField = errors.New("unknown search field")
	// ErrInvalidArea reports an approximate area that is not an unsigned integer.
	ErrInvalidArea = errors.New("invalid area")
)

// AreaTolerance is the symmetric window applied to an approximate area.
const AreaTolerance = 200

// Field is a simple-search target.
type Field string

const (
	FieldLocation     Field = "location"
	FieldArea         Field = "area"
	FieldSurveyNumber Field = "surveyNumber"
	FieldPrice        Field = "price"
)

// ParseField resolves a field name; "survey-number" and any letter case are accepted.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "")) {
	case "location":
		return FieldLocation, nil
	case "area":
		return FieldArea, nil
	case "surveynumber":
		return FieldSurveyNumber, nil
	case "price":
		return FieldPrice, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// DocumentFilter constrains records by document availability.
type DocumentFilter string

const (
	DocumentsAny DocumentFilter = "any"
	DocumentsYes DocumentFilter = "yes"
	DocumentsNo  DocumentFilter = "no"
)

// ParseDocumentFilter resolves any/yes/no. Blank means any.
func ParseDocumentFilter(value string) (DocumentFilter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "any":
		return DocumentsAny, nil
	case "yes":
		return DocumentsYes, nil
	case "no":
		return DocumentsNo, nil
	default:
		return "", fmt.Errorf("invalid document filter %q (want any, yes or no)", value)
	}
}

// Criteria is either a Simple or an Advanced search.
type Criteria interface {
	compile() (matcher, error)
}

// Simple matches one field against a value.
type Simple struct {
	Field Field
	Value string
}

// Advanced combines optional constraints with AND. Empty strings and a nil
// AreaApprox impose no constraint.
type Advanced struct {
	Location     string
	AreaApprox   *uint64
	SurveyNumber string
	PriceMin     string
	PriceMax     string
	Documents    DocumentFilter
}

// ParseArea parses an approximate area; blank input means no constraint.
func ParseArea(value string) (*uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	area, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArea, value)
	}
	return &area, nil
}
