package listings

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PIN-11-07/Turboo/internal/domain"
)

// Placeholders for missing values
const (
	PriceOnRequest   = "Price on request"
	DateNotAvailable = "Date not available"
	NotAvailable     = "-"
)

// FormatPrice renders a price as "€ 12.500". Missing prices read
// PriceOnRequest.
func FormatPrice(price *float64) string {
	if price == nil || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return PriceOnRequest
	}
	return "€ " + FormatNumber(*price)
}

// FormatNumber renders v with Spanish digit grouping: "." between thousands,
// "," before decimals, at most three fraction digits. Four-digit integers are
// not grouped.
func FormatNumber(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	s := strconv.FormatFloat(v, 'f', 3, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	if len(intPart) > 4 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	out := intPart
	if frac != "" {
		out += "," + frac
	}
	if neg && out != "0" {
		out = "-" + out
	}
	return out
}

// FormatMileage renders a mileage as "12.500 km"
func FormatMileage(km *int) string {
	if km == nil {
		return NotAvailable
	}
	return FormatNumber(float64(*km)) + " km"
}

// FormatInt renders an optional integer attribute
func FormatInt(v *int) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.Itoa(*v)
}

// FormatText renders an optional text attribute
func FormatText(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// FormatDate renders a date as day/month/year
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return DateNotAvailable
	}
	return t.Local().Format("2/1/2006")
}

// Subtitle is the "make model · year" line of a listing card
func Subtitle(l domain.ListingSummary) string {
	var parts []string
	if name := strings.TrimSpace(strings.TrimSpace(l.Make) + " " + strings.TrimSpace(l.Model)); name != "" {
		parts = append(parts, name)
	}
	if l.Year != nil {
		parts = append(parts, strconv.Itoa(*l.Year))
	}
	return strings.Join(parts, " · ")
}

// Attribute is one labelled row of the detail view
type Attribute struct {
	Label string
	Value string
}

// Attributes returns the labelled vehicle attributes of l
func Attributes(l domain.ListingSummary) []Attribute {
	return []Attribute{
		{"Make", FormatText(l.Make)},
		{"Model", FormatText(l.Model)},
		{"Year", FormatInt(l.Year)},
		{"Mileage", FormatMileage(l.Mileage)},
		{"Fuel", FormatText(l.FuelType)},
		{"Transmission", FormatText(l.Transmission)},
		{"Doors", FormatInt(l.Doors)},
		{"Color", FormatText(l.Color)},
	}
}
