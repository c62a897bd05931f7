package destination

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk date format. Sorting by date relies on it being
// zero-padded so that lexicographic order matches chronological order.
const DateLayout = "2006-01-02"

// Destination is one planned trip segment.
// City is the lookup key used by the itinerary manager; it is not unique.
type Destination struct {
	City       string
	Country    string
	StartDate  string
	EndDate    string
	Budget     float64
	Activities []string
}

// New constructs a Destination without validating it.
func New(city, country, startDate, endDate string, budget float64, activities []string) *Destination {
	return &Destination{
		City:       city,
		Country:    country,
		StartDate:  startDate,
		EndDate:    endDate,
		Budget:     budget,
		Activities: copyStrings(activities),
	}
}

// Clone returns a deep copy of d.
func (d *Destination) Clone() *Destination {
	c := *d
	c.Activities = copyStrings(d.Activities)
	return &c
}

// Apply sets every field present in p. Present empty or zero values are
// applied as well; use Validate afterwards to check the result.
func (d *Destination) Apply(p Patch) {
	if p.City != nil {
		d.City = *p.City
	}
	if p.Country != nil {
		d.Country = *p.Country
	}
	if p.StartDate != nil {
		d.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		d.EndDate = *p.EndDate
	}
	if p.Budget != nil {
		d.Budget = *p.Budget
	}
	if p.Activities != nil {
		d.Activities = copyStrings(*p.Activities)
	}
}

// Nights returns the number of nights between the start and end date.
// ok is false when either date does not parse.
func (d *Destination) Nights() (nights int, ok bool) {
	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse(DateLayout, d.EndDate)
	if err != nil {
		return 0, false
	}
	return int(end.Sub(start).Hours() / 24), true
}

// String renders d the way the console prints it.
func (d *Destination) String() string {
	return fmt.Sprintf(
		"📍 %s, %s\n   Dates: %s to %s\n   Budget: $%.2f\n   Activities: %s",
		d.City, d.Country, d.StartDate, d.EndDate, d.Budget, strings.Join(d.Activities, ", "),
	)
}

// Patch is a partial update. A nil field is absent; a non-nil field is
// applied even when it points at an empty or zero value.
type Patch struct {
	City       *string   `json:"city,omitempty"`
	Country    *string   `json:"country,omitempty"`
	StartDate  *string   `json:"start_date,omitempty"`
	EndDate    *string   `json:"end_date,omitempty"`
	Budget     *float64  `json:"budget,omitempty"`
	Activities *[]string `json:"activities,omitempty"`
}

// IsEmpty reports whether no field is present.
func (p Patch) IsEmpty() bool {
	return p.City == nil && p.Country == nil && p.StartDate == nil &&
		p.EndDate == nil && p.Budget == nil && p.Activities == nil
}

// ParseActivities splits a comma separated list, trimming entries and
// dropping blanks.
func ParseActivities(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
