package schemas

import (
	"regexp"
	"strconv"
	"strings"
)

// QuantityUnit is the unit part of a parsed quantity.
type QuantityUnit string

const (
	UnitKilogram QuantityUnit = "kg"
	UnitMeal     QuantityUnit = "meal"
	UnitOther    QuantityUnit = ""
)

// Quantity is the structured form of the free text quantity a donor enters.
type Quantity struct {
	Magnitude float64
	Unit      QuantityUnit
}

var quantityRegex = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)\s*(.*)$`)

// ParseQuantity splits a free text quantity such as "5kg" or "20 meals" into magnitude and unit.
// Text without a leading number has magnitude zero.
func ParseQuantity(s string) Quantity {
	q := Quantity{Unit: UnitOther}
	m := quantityRegex.FindStringSubmatch(s)
	if m == nil {
		return q
	}

	if v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil {
		q.Magnitude = v
	}

	unit := strings.ToLower(strings.TrimSpace(m[2]))
	switch {
	case strings.HasPrefix(unit, "kg") || strings.HasPrefix(unit, "kilo"):
		q.Unit = UnitKilogram
	case strings.HasPrefix(unit, "meal"):
		q.Unit = UnitMeal
	}
	return q
}

// Meals estimates how many meals the quantity feeds: 1kg is 4 meals, unknown units count 2 per unit.
func (q Quantity) Meals() float64 {
	switch q.Unit {
	case UnitKilogram:
		return q.Magnitude * 4
	case UnitMeal:
		return q.Magnitude
	default:
		return q.Magnitude * 2
	}
}
