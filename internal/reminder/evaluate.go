// Package reminder decides whether a rent reminder should fire for a guest
// and how it is worded. It is pure: the billing profile and the reference
// time are always passed in.
package reminder

import (
	"fmt"
	"time"

	billingdomain "github.com/roombox/roombox/internal/billing/domain"
)

const (
	TitleOverdue  = "Rent Overdue"
	TitleUpcoming = "Gentle Reminder: Rent Due"
)

// Lookahead windows per cycle unit for the upcoming branch.
const (
	minuteWindow = 5 * time.Minute
	hourWindow   = 3 * time.Hour
	dayWindow    = 5 * 24 * time.Hour
)

// Decision is the outcome of evaluating a profile at a point in time.
type Decision struct {
	ShouldSend bool
	Title      string
	Body       string
}

// Evaluate applies the reminder rules from the due-date model. A guest with
// no recipient, a vacated guest, or a fully paid profile never gets a
// reminder. Overdue always fires; upcoming fires only inside the unit's
// lookahead window, which for day-based cycles runs from "due today" up to
// but excluding five full days out.
func Evaluate(p billingdomain.Profile, recipient string, now time.Time) Decision {
	if recipient == "" || p.Frozen() || p.Status == billingdomain.RentStatusPaid {
		return Decision{}
	}

	if now.After(p.DueDate) {
		return Decision{
			ShouldSend: true,
			Title:      TitleOverdue,
			Body:       overdueBody(p, now),
		}
	}

	until := p.DueDate.Sub(now)
	switch p.CycleUnit {
	case billingdomain.CycleUnitMinutes:
		if until <= minuteWindow {
			minutes := int(until / time.Minute)
			return Decision{
				ShouldSend: true,
				Title:      TitleUpcoming,
				Body:       fmt.Sprintf("Rent is due in %d minute(s).", minutes),
			}
		}
	case billingdomain.CycleUnitHours:
		if until <= hourWindow {
			hours := int(until / time.Hour)
			return Decision{
				ShouldSend: true,
				Title:      TitleUpcoming,
				Body:       fmt.Sprintf("Rent is due in %d hour(s).", hours),
			}
		}
	default:
		if until < dayWindow {
			days := int(until / (24 * time.Hour))
			if days == 0 {
				return Decision{
					ShouldSend: true,
					Title:      TitleUpcoming,
					Body:       "Rent is due today.",
				}
			}
			return Decision{
				ShouldSend: true,
				Title:      TitleUpcoming,
				Body:       fmt.Sprintf("Rent is due in %d day(s) on %s.", days, p.DueDate.Format("02 Jan 2006")),
			}
		}
	}
	return Decision{}
}

// overdueBody phrases the elapsed overdue duration in the profile's own
// cycle unit, with a floor of one so a just-overdue guest never reads
// "0 minutes".
func overdueBody(p billingdomain.Profile, now time.Time) string {
	elapsed := now.Sub(p.DueDate)
	switch p.CycleUnit {
	case billingdomain.CycleUnitMinutes:
		return fmt.Sprintf("Rent is overdue by %d minute(s).", atLeastOne(int(elapsed/time.Minute)))
	case billingdomain.CycleUnitHours:
		return fmt.Sprintf("Rent is overdue by %d hour(s).", atLeastOne(int(elapsed/time.Hour)))
	default:
		return fmt.Sprintf("Rent is overdue by %d day(s).", atLeastOne(int(elapsed/(24*time.Hour))))
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
