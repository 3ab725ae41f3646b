package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Expense  TransactionType = "expense"
	Income   TransactionType = "income"
	Transfer TransactionType = "transfer"
)

const (
	DefaultCurrency = "USD"
	DefaultType     = Expense
)

type (
	TransactionType string

	// Date is a calendar day serialized as "YYYY-MM-DD".
	Date struct {
		time.Time
	}

	// Transaction is a single bookkeeping record. The id is caller-assigned
	// and unique within the store; CategoryID may reference a category that
	// does not exist (no referential integrity is enforced).
	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Currency    string          `json:"currency"`
		Type        TransactionType `json:"type"`
		CategoryID  *string         `json:"category_id"`
		Account     *string         `json:"account"`
	}

	// Category is a nominal grouping for transactions. ParentID forms an
	// unvalidated hierarchy: the parent need not exist and cycles are not
	// detected.
	Category struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		ParentID *string `json:"parent_id"`
	}
)

var (
	ErrEmptyID         = errors.New("empty id")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidDate     = errors.New("invalid date")
	ErrMissingAmount   = errors.New("missing amount")
	ErrInvalidCurrency = errors.New("currency must be exactly 3 characters")
	ErrInvalidType     = errors.New("type must be one of expense, income, transfer")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ApplyDefaults fills the optional fields the way the API treats an omitted
// value: empty currency becomes USD and an empty type becomes expense.
func (t *Transaction) ApplyDefaults() {
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.Type == "" {
		t.Type = DefaultType
	}
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if utf8.RuneCountInString(t.Currency) != 3 {
		return ErrInvalidCurrency
	}
	switch t.Type {
	case Expense, Income, Transfer:
	default:
		return ErrInvalidType
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
