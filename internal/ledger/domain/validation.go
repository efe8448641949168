package domain

// ValidatePosting rejects malformed ledger lines before they are appended.
func ValidatePosting(p Posting) error {
	if p.GuestID == 0 {
		return ErrInvalidGuest
	}
	if p.Amount < 0 {
		return ErrInvalidAmount
	}
	switch p.Direction {
	case EntryDirectionDebit, EntryDirectionCredit:
	default:
		return ErrInvalidDirection
	}
	switch p.SourceType {
	case SourceTypeRentCharge, SourceTypePayment, SourceTypeManualCharge, SourceTypeAdjustment:
	default:
		return ErrInvalidSourceType
	}
	if p.OccurredAt.IsZero() {
		return ErrInvalidOccurredAt
	}
	return nil
}
