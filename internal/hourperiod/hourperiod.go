// Package hourperiod assigns hours of the day to named periods and knows
// the natural order of those periods.
package hourperiod

import (
	"fmt"
	"strings"
)

const (
	Morning   = "Morning"
	Afternoon = "Afternoon"
	Evening   = "Evening"
	Night     = "Night"
)

// Scheme maps hour-of-day to a period label. Periods never overlap.
type Scheme struct {
	order  []string
	byHour [24]string
}

// Default returns Morning 05-11, Afternoon 12-16, Evening 17-20, Night 21-04
func Default() *Scheme {
	s := &Scheme{order: []string{Morning, Afternoon, Evening, Night}}
	for h := 0; h < 24; h++ {
		switch {
		case h >= 5 && h <= 11:
			s.byHour[h] = Morning
		case h >= 12 && h <= 16:
			s.byHour[h] = Afternoon
		case h >= 17 && h <= 20:
			s.byHour[h] = Evening
		default:
			s.byHour[h] = Night
		}
	}
	return s
}

// WithOrder returns a copy of the scheme presenting periods in the given order.
// Labels not in order sort alphabetically after it.
func (s *Scheme) WithOrder(order []string) (*Scheme, error) {
	seen := make(map[string]bool, len(order))
	cleaned := make([]string, 0, len(order))
	for _, label := range order {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if seen[label] {
			return nil, fmt.Errorf("hourperiod: duplicate period %q", label)
		}
		seen[label] = true
		cleaned = append(cleaned, label)
	}
	cp := *s
	cp.order = cleaned
	return &cp, nil
}

// Classify returns the period of an hour, or "" when hour is out of range
func (s *Scheme) Classify(hour int) string {
	if hour < 0 || hour > 23 {
		return ""
	}
	return s.byHour[hour]
}

// Order returns the natural period order
func (s *Scheme) Order() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Less reports whether period a comes before period b
func (s *Scheme) Less(a, b string) bool {
	ia, ib := s.rank(a), s.rank(b)
	if ia != ib {
		return ia < ib
	}
	return a < b
}

func (s *Scheme) rank(label string) int {
	for i, l := range s.order {
		if l == label {
			return i
		}
	}
	return len(s.order)
}
