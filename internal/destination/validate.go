package destination

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind classifies a validation failure.
type Kind int

const (
	MissingField Kind = iota + 1
	MalformedDate
	InvalidDateOrder
	NonPositiveBudget
	EmptyActivities
)

// Sentinels matched by errors.Is against a *ValidationError of the same kind.
var (
	ErrMissingField      = errors.New("missing field")
	ErrMalformedDate     = errors.New("malformed date")
	ErrInvalidDateOrder  = errors.New("start date not before end date")
	ErrNonPositiveBudget = errors.New("budget not positive")
	ErrEmptyActivities   = errors.New("no activities")
)

func (k Kind) sentinel() error {
	switch k {
	case MissingField:
		return ErrMissingField
	case MalformedDate:
		return ErrMalformedDate
	case InvalidDateOrder:
		return ErrInvalidDateOrder
	case NonPositiveBudget:
		return ErrNonPositiveBudget
	case EmptyActivities:
		return ErrEmptyActivities
	}
	return nil
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ValidationError reports the first rule a Destination violates.
type ValidationError struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMalformedDate) and friends match by kind.
func (e *ValidationError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Validate checks d and returns a *ValidationError for the first violated
// rule, in this order: city, country, start and end presence, start parse,
// end parse, date order, budget, activities.
func (d *Destination) Validate() error {
	if d.City == "" {
		return &ValidationError{Kind: MissingField, Field: "city", Msg: "city and country must be specified"}
	}
	if d.Country == "" {
		return &ValidationError{Kind: MissingField, Field: "country", Msg: "city and country must be specified"}
	}
	if d.StartDate == "" {
		return &ValidationError{Kind: MissingField, Field: "start_date", Msg: "start and end dates must be specified"}
	}
	if d.EndDate == "" {
		return &ValidationError{Kind: MissingField, Field: "end_date", Msg: "start and end dates must be specified"}
	}

	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return &ValidationError{Kind: MalformedDate, Field: "start_date", Msg: fmt.Sprintf("start date %q is not YYYY-MM-DD", d.StartDate), Err: err}
	}
	end, err := time.Parse(DateLayout, d.EndDate)
	if err != nil {
		return &ValidationError{Kind: MalformedDate, Field: "end_date", Msg: fmt.Sprintf("end date %q is not YYYY-MM-DD", d.EndDate), Err: err}
	}
	if !start.Before(end) {
		return &ValidationError{Kind: InvalidDateOrder, Field: "end_date", Msg: "start date must be before end date"}
	}

	// NaN compares false to everything, so test for > 0 rather than <= 0.
	if !(d.Budget > 0) || math.IsInf(d.Budget, 1) {
		return &ValidationError{Kind: NonPositiveBudget, Field: "budget", Msg: "budget must be a positive number"}
	}

	for _, a := range d.Activities {
		if strings.TrimSpace(a) != "" {
			return nil
		}
	}
	return &ValidationError{Kind: EmptyActivities, Field: "activities", Msg: "at least one activity must be specified"}
}
