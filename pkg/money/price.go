// Package money parses the display-formatted price text stored on products
// into exact decimals.
package money

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Rupee is the currency glyph used when formatting amounts for display.
const Rupee = "₹"

// Places is the stored precision of every amount.
const Places = 2

// MaxAmount is the largest value a numeric(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ParsePrice strips a leading currency glyph, surrounding whitespace and
// digit-group separators, then parses the remainder as a non-negative decimal
// rounded to the stored precision. Any failure is a DATA_INTEGRITY error;
// callers must not substitute a default.
func ParsePrice(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimLeftFunc(text, func(r rune) bool {
		return unicode.Is(unicode.Sc, r) || unicode.IsSpace(r)
	})
	text = strings.ReplaceAll(text, ",", "")
	if text == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeDataIntegrity, "price is empty").
			WithDetails(map[string]any{"price": raw})
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDataIntegrity, err, "price is not a number").
			WithDetails(map[string]any{"price": raw})
	}
	if value.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeDataIntegrity, "price is negative").
			WithDetails(map[string]any{"price": raw})
	}
	value = value.Round(Places)
	if err := CheckAmount(value); err != nil {
		return decimal.Zero, err
	}
	return value, nil
}

// CheckAmount rejects amounts the order columns cannot store.
func CheckAmount(amount decimal.Decimal) error {
	if amount.GreaterThan(MaxAmount) {
		return pkgerrors.New(pkgerrors.CodeDataIntegrity, "amount exceeds the storable maximum").
			WithDetails(map[string]any{"amount": amount.String()})
	}
	return nil
}

// LineTotal multiplies a unit price by quantity.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// Format renders an amount as rupees with Indian digit grouping, e.g. ₹1,23,456.50.
// Whole amounts drop the fractional part.
func Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	rounded := amount.Round(2)
	whole := rounded.Truncate(0)
	frac := rounded.Sub(whole)

	digits := whole.String()
	grouped := groupIndian(digits)
	if frac.IsZero() {
		return sign + Rupee + grouped
	}
	cents := frac.Shift(2).IntPart()
	return fmt.Sprintf("%s%s%s.%02d", sign, Rupee, grouped, cents)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	parts := []string{}
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
