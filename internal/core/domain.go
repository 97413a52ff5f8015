package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used for input dates and daily series.
const DateLayout = "2006-01-02"

const maxDescriptionLength = 500

type (
	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Category struct {
		ID   int64
		Name string
	}

	// Transaction is a posting. Positive amounts are income, negative are expenses.
	Transaction struct {
		ID          int64
		UserID      int64
		Amount      Money
		Date        time.Time
		Description string
		CategoryID  int64
	}

	Goal struct {
		ID         int64
		UserID     int64
		Name       string
		Target     Money
		Current    Money
		CategoryID int64
	}

	Report struct {
		ID            int64
		UserID        int64
		Type          string
		GeneratedDate time.Time
	}
)

// TransactionDraft carries unvalidated transaction input. A nil Amount means
// the field was not supplied.
type TransactionDraft struct {
	UserID      int64
	Amount      *decimal.Decimal
	Date        string
	Description string
	CategoryID  int64
}

// Build validates the draft and returns the normalized transaction.
func (d TransactionDraft) Build() (Transaction, error) {
	if d.UserID <= 0 {
		return Transaction{}, NewValidationError("userId", "must be a positive id")
	}
	return d.BuildChanges()
}

// BuildChanges validates the mutable fields only. Updates never change the owner.
func (d TransactionDraft) BuildChanges() (Transaction, error) {
	if d.Amount == nil {
		return Transaction{}, NewValidationError("amount", "is required")
	}
	amount, err := MoneyFromDecimal(*d.Amount)
	if err != nil {
		return Transaction{}, NewValidationError("amount", err.Error())
	}
	if strings.TrimSpace(d.Date) == "" {
		return Transaction{}, NewValidationError("date", "is required")
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		return Transaction{}, NewValidationError("date", err.Error())
	}
	if d.CategoryID <= 0 {
		return Transaction{}, NewValidationError("categoryId", "must be a positive id")
	}
	desc := strings.TrimSpace(d.Description)
	if len(desc) > maxDescriptionLength {
		return Transaction{}, NewValidationError("description", "too long (max 500 characters)")
	}
	return Transaction{
		UserID:      d.UserID,
		Amount:      amount,
		Date:        date,
		Description: desc,
		CategoryID:  d.CategoryID,
	}, nil
}

// GoalDraft carries unvalidated goal input. A nil Current defaults to zero.
type GoalDraft struct {
	UserID     int64
	Name       string
	Target     *decimal.Decimal
	Current    *decimal.Decimal
	CategoryID int64
}

// Build checks the draft in a fixed order so each failure is distinguishable.
func (d GoalDraft) Build() (Goal, error) {
	if d.UserID <= 0 {
		return Goal{}, NewValidationError("userId", "must be a positive id")
	}
	if d.Target == nil {
		return Goal{}, NewValidationError("targetAmount", "is required")
	}
	target, err := MoneyFromDecimal(*d.Target)
	if err != nil {
		return Goal{}, NewValidationError("targetAmount", err.Error())
	}
	if target.Cents < 0 {
		return Goal{}, NewValidationError("targetAmount", "must not be negative")
	}
	var current Money
	if d.Current != nil {
		current, err = MoneyFromDecimal(*d.Current)
		if err != nil {
			return Goal{}, NewValidationError("currentAmount", err.Error())
		}
		if current.Cents < 0 {
			return Goal{}, NewValidationError("currentAmount", "must not be negative")
		}
	}
	if d.CategoryID <= 0 {
		return Goal{}, NewValidationError("categoryId", "must be a positive id")
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Goal{}, NewValidationError("goalName", "must not be blank")
	}
	return Goal{
		UserID:     d.UserID,
		Name:       name,
		Target:     target,
		Current:    current,
		CategoryID: d.CategoryID,
	}, nil
}

// ParseDate accepts a calendar day (2006-01-02) or an RFC 3339 timestamp and
// returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
