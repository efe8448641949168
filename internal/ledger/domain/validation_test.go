package domain

import (
	"errors"
	"testing"
	"time"
)

func validPosting() Posting {
	return Posting{
		GuestID:    42,
		Direction:  EntryDirectionDebit,
		SourceType: SourceTypeRentCharge,
		Amount:     30000,
		OccurredAt: time.Date(2024, time.August, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestValidatePosting(t *testing.T) {
	if err := ValidatePosting(validPosting()); err != nil {
		t.Fatalf("valid posting rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Posting)
		want   error
	}{
		{"missing guest", func(p *Posting) { p.GuestID = 0 }, ErrInvalidGuest},
		{"negative amount", func(p *Posting) { p.Amount = -1 }, ErrInvalidAmount},
		{"unknown direction", func(p *Posting) { p.Direction = "sideways" }, ErrInvalidDirection},
		{"unknown source type", func(p *Posting) { p.SourceType = "lottery" }, ErrInvalidSourceType},
		{"zero occurred at", func(p *Posting) { p.OccurredAt = time.Time{} }, ErrInvalidOccurredAt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPosting()
			tc.mutate(&p)
			if err := ValidatePosting(p); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
