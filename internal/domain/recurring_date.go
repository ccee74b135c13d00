package domain

import "context"

// RecurringCategory selects how a recurring date is announced.
type RecurringCategory string

const (
	CategoryBirthday    RecurringCategory = "birthday"
	CategoryAnniversary RecurringCategory = "anniversary"
)

// Valid reports whether c is a known category.
func (c RecurringCategory) Valid() bool {
	switch c {
	case CategoryBirthday, CategoryAnniversary:
		return true
	}
	return false
}

// RecurringDate is a yearly date tied to a character or entity.
// (SubjectName, Date, Category) is not unique: two subjects may share a date.
// swagger:model RecurringDate
type RecurringDate struct {
	SubjectName string `json:"subject_name" yaml:"subject"`
	// Date is the month and day encoded as MMDD (e.g. 831 for August 31).
	Date     int               `json:"date" yaml:"date"`
	Category RecurringCategory `json:"category" yaml:"category"`
}

// Month returns the month part of Date.
func (r RecurringDate) Month() int { return r.Date / 100 }

// Day returns the day part of Date.
func (r RecurringDate) Day() int { return r.Date % 100 }

// RecurringDateRepository defines storage for the recurring-date reference table.
// The table is owned by the store and rebuilt from the catalog on startup.
type RecurringDateRepository interface {
	// Reseed drops, recreates and fills the table with entries atomically.
	Reseed(ctx context.Context, entries []RecurringDate) error
	// ListDue returns entries whose date equals monthDay (MMDD).
	ListDue(ctx context.Context, monthDay int) ([]*RecurringDate, error)
	List(ctx context.Context) ([]*RecurringDate, error)
}
