package assistant

import (
	"fmt"
	"strings"

	"github.com/neexbeast/itinerary/internal/destination"
)

// ItineraryPrompt asks for a day-by-day plan. extra is appended as local
// context when non-empty.
func ItineraryPrompt(d *destination.Destination, extra string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a day-by-day travel itinerary for a trip to %s, %s\n", d.City, d.Country)
	fmt.Fprintf(&b, "from %s to %s.\n", d.StartDate, d.EndDate)
	fmt.Fprintf(&b, "Budget: %s USD.\n", formatBudget(d.Budget))
	fmt.Fprintf(&b, "Preferred activities: %s.\n", strings.Join(d.Activities, ", "))
	b.WriteString("The plan should be practical and exciting.\n")
	writeExtra(&b, extra)
	return b.String()
}

// BudgetTipsPrompt asks for money-saving advice.
func BudgetTipsPrompt(d *destination.Destination, extra string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provide budget-saving travel tips for a trip to %s, %s\n", d.City, d.Country)
	fmt.Fprintf(&b, "from %s to %s.\n", d.StartDate, d.EndDate)
	fmt.Fprintf(&b, "Budget: %s USD.\n", formatBudget(d.Budget))
	if nights, ok := d.Nights(); ok && nights > 0 {
		fmt.Fprintf(&b, "That is %d nights, about %s USD per night.\n", nights, formatBudget(d.Budget/float64(nights)))
	}
	fmt.Fprintf(&b, "Activities: %s.\n", strings.Join(d.Activities, ", "))
	writeExtra(&b, extra)
	return b.String()
}

func writeExtra(b *strings.Builder, extra string) {
	if extra = strings.TrimSpace(extra); extra != "" {
		b.WriteString("Local context:\n")
		b.WriteString(extra)
		b.WriteString("\n")
	}
}

func formatBudget(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
