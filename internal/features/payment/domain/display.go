package domain

import (
	"fmt"
	"math"
	"strconv"
)

// AmountLabel renders the amount due the way the storefront shows it, e.g.
// "4 500 ₽" with space grouping and comma decimals. A missing amount renders
// as a dash.
func (s StoredSession) AmountLabel() string {
	if s.TotalAmount <= 0 {
		return "—"
	}
	return formatRubles(s.TotalAmount)
}

// StatusLabel returns the display label for the session's current status.
func (s StoredSession) StatusLabel() string {
	return s.Status.Label()
}

func formatRubles(amount float64) string {
	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatInt(whole, 10)
	var grouped []rune
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ' ')
		}
		grouped = append(grouped, d)
	}

	if cents > 0 {
		return fmt.Sprintf("%s,%02d ₽", string(grouped), cents)
	}
	return string(grouped) + " ₽"
}
