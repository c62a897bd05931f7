package briefing

import (
	"fmt"
	"sort"
	"strings"
)

// Weather holds current conditions for a city.
type Weather struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
}

// Country holds facts a traveller cares about.
type Country struct {
	Capital    string            `json:"capital"`
	Region     string            `json:"region"`
	Currencies map[string]string `json:"currencies"`
	Languages  []string          `json:"languages"`
}

// Brief is the local context gathered for a destination. Either part may be
// nil when its source failed.
type Brief struct {
	Weather *Weather `json:"weather,omitempty"`
	Country *Country `json:"country,omitempty"`
}

// Summary renders b as short prompt-friendly text. It is empty when nothing
// was gathered.
func (b *Brief) Summary() string {
	if b == nil {
		return ""
	}

	var lines []string
	if w := b.Weather; w != nil {
		lines = append(lines, fmt.Sprintf("Current weather: %s, %.1f°C (feels like %.1f°C), humidity %d%%.",
			w.Description, w.Temperature, w.FeelsLike, w.Humidity))
	}
	if c := b.Country; c != nil {
		codes := make([]string, 0, len(c.Currencies))
		for code := range c.Currencies {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		currencies := make([]string, 0, len(codes))
		for _, code := range codes {
			currencies = append(currencies, fmt.Sprintf("%s (%s)", c.Currencies[code], code))
		}

		languages := append([]string(nil), c.Languages...)
		sort.Strings(languages)

		lines = append(lines, fmt.Sprintf("Country facts: capital %s, region %s, currency %s, languages %s.",
			c.Capital, c.Region, strings.Join(currencies, ", "), strings.Join(languages, ", ")))
	}
	return strings.Join(lines, "\n")
}
