package handler

import (
	"time"
)

const dateLayout = "2006-01-02"

// parseDatePtr parses an optional YYYY-MM-DD date string
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
