package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookcatalog/internal/entity"
)

// Input field names, as they appear in request bodies and query strings.
const (
	FieldID     = "id"
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldYear   = "year"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

var (
	titleRule  = fmt.Sprintf("min=%d,max=%d", entity.TitleMinLen, entity.TitleMaxLen)
	authorRule = fmt.Sprintf("min=%d,max=%d", entity.AuthorMinLen, entity.AuthorMaxLen)
	yearRule   = fmt.Sprintf("gte=%d,lte=%d", entity.YearMin, entity.YearMax)
	idRule     = "gte=1"
)

// ParseCreate validates raw as a create payload. Unknown keys, including id, are ignored.
func ParseCreate(raw map[string]any) (CreatePayload, error) {
	errs := &Errors{}
	var p CreatePayload

	if v, ok := raw[FieldTitle]; !ok {
		errs.add(FieldTitle, ReasonMissing)
	} else if s, ok := stringField(errs, FieldTitle, v, titleRule); ok {
		p.Title = s
	}

	if v, ok := raw[FieldAuthor]; !ok {
		errs.add(FieldAuthor, ReasonMissing)
	} else if s, ok := stringField(errs, FieldAuthor, v, authorRule); ok {
		p.Author = s
	}

	if v, ok := raw[FieldYear]; ok {
		if y, ok := yearField(errs, v); ok {
			p.Year = y
		}
	}

	if err := errs.orNil(); err != nil {
		return CreatePayload{}, err
	}
	return p, nil
}

// ParseUpdate validates raw as an update payload. Only keys present in raw
// become set fields, so an empty map is a valid no-op.
func ParseUpdate(raw map[string]any) (UpdatePayload, error) {
	errs := &Errors{}
	var p UpdatePayload

	if v, ok := raw[FieldTitle]; ok {
		if s, ok := stringField(errs, FieldTitle, v, titleRule); ok {
			p.Title = Some(s)
		}
	}

	if v, ok := raw[FieldAuthor]; ok {
		if s, ok := stringField(errs, FieldAuthor, v, authorRule); ok {
			p.Author = Some(s)
		}
	}

	// A present null year clears the stored year.
	if v, ok := raw[FieldYear]; ok {
		if y, ok := yearField(errs, v); ok {
			p.Year = Some(y)
		}
	}

	if err := errs.orNil(); err != nil {
		return UpdatePayload{}, err
	}
	return p, nil
}

// ParseID parses a path identifier and requires it to be a positive integer.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		errs := &Errors{}
		if errors.Is(err, strconv.ErrRange) {
			errs.add(FieldID, ReasonOutOfRange)
		} else {
			errs.add(FieldID, ReasonInvalid)
		}
		return 0, errs
	}
	if err := ValidateID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// ValidateID rejects identifiers below 1.
func ValidateID(id int64) error {
	if err := validate.Var(id, idRule); err != nil {
		errs := &Errors{}
		errs.add(FieldID, reasonFor(err))
		return errs
	}
	return nil
}

// ParseSearch reads optional title, author and year filters. Empty values mean
// no constraint. book_title is accepted as an alias of title.
func ParseSearch(params map[string]string) (SearchFilter, error) {
	var f SearchFilter

	f.Title = params[FieldTitle]
	if f.Title == "" {
		f.Title = params["book_title"]
	}
	f.Author = params[FieldAuthor]

	if raw := strings.TrimSpace(params[FieldYear]); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			errs := &Errors{}
			errs.add(FieldYear, ReasonInvalid)
			return SearchFilter{}, errs
		}
		f.Year = &y
	}
	return f, nil
}

// Join merges validation failures into one *Errors, preserving order. It
// returns nil when every err is nil.
func Join(errs ...error) error {
	out := &Errors{}
	for _, err := range errs {
		if err != nil {
			out.merge(err)
		}
	}
	return out.orNil()
}

func stringField(errs *Errors, name string, v any, rule string) (string, bool) {
	if v == nil {
		errs.add(name, ReasonMissing)
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		errs.add(name, ReasonInvalid)
		return "", false
	}
	if err := validate.Var(s, rule); err != nil {
		errs.add(name, reasonFor(err))
		return "", false
	}
	return s, true
}

func yearField(errs *Errors, v any) (*int, bool) {
	if v == nil {
		return nil, true
	}
	n, ok := asInt64(v)
	if !ok {
		errs.add(FieldYear, ReasonInvalid)
		return nil, false
	}
	if err := validate.Var(n, yearRule); err != nil {
		errs.add(FieldYear, reasonFor(err))
		return nil, false
	}
	y := int(n)
	return &y, true
}

// asInt64 accepts the number shapes a JSON decoder can produce, rejecting
// fractions.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func reasonFor(err error) Reason {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ReasonInvalid
	}

	switch verrs[0].Tag() {
	case "required":
		return ReasonMissing
	case "min":
		return ReasonTooShort
	case "max":
		return ReasonTooLong
	case "gte", "lte":
		return ReasonOutOfRange
	default:
		return ReasonInvalid
	}
}
