package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

const (
	IntervalWeekly    Interval = "weekly"
	IntervalMonthly   Interval = "monthly"
	IntervalQuarterly Interval = "quarterly"
	IntervalYearly    Interval = "yearly"
)

const (
	BillPending BillStatus = "pending"
	BillPaid    BillStatus = "paid"
)

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionPaused    SubscriptionStatus = "paused"
)

const (
	NotifyBillDue       NotificationType = "bill_due"
	NotifyEventReminder NotificationType = "event_reminder"
)

// DefaultNotifyDaysBefore is the due-soon window applied when a bill does not
// carry an explicit one.
const DefaultNotifyDaysBefore = 3

// BillCategories lists the accepted bill categories.
var BillCategories = []string{
	"utilities", "rent", "insurance", "credit_card", "loan", "tax", "medical", "other",
}

type (
	Frequency          string
	Interval           string
	BillStatus         string
	SubscriptionStatus string
	NotificationType   string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Bill is a single payment obligation. Status only ever persists as
	// pending or paid; urgency (overdue, due_soon, upcoming) is derived
	// from the due date at read time and never written back.
	Bill struct {
		ID               string
		Name             string
		Amount           Money
		DueDate          Date
		Category         string
		Status           BillStatus
		Recurring        bool
		Frequency        Frequency // meaningful only when Recurring
		NotifyDaysBefore int       // negative means unset, see DefaultNotifyDaysBefore
		Notes            string
		CreatedBy        string
	}

	// Subscription is a recurring vendor charge.
	Subscription struct {
		ID          string
		Vendor      string
		Amount      Money
		Interval    Interval
		NextRenewal Date
		Category    string
		Status      SubscriptionStatus
		CreatedBy   string
	}

	// Notification is weakly referenced by bills and events through its
	// type and user, never owned by them.
	Notification struct {
		ID        string
		UserID    string
		Type      NotificationType
		Title     string
		Message   string
		Read      bool
		CreatedAt time.Time
	}

	Task struct {
		ID        string
		Title     string
		Notes     string
		Done      bool
		DueDate   Date // optional
		CreatedBy string
	}

	Event struct {
		ID               string
		Title            string
		Date             Date
		Location         string
		Notes            string
		RemindDaysBefore int
		CreatedBy        string
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrNameTooLong      = errors.New("name too long (max 200 characters)")
	ErrEmptyVendor      = errors.New("empty vendor")
	ErrEmptyTitle       = errors.New("empty title")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrMissingDueDate   = errors.New("missing due date")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidInterval  = errors.New("invalid interval")
	ErrInvalidStatus    = errors.New("invalid status")
)

var validationErrors = []error{
	ErrEmptyName, ErrNameTooLong, ErrEmptyVendor, ErrEmptyTitle,
	ErrInvalidAmount, ErrMissingDueDate, ErrInvalidCategory,
	ErrInvalidFrequency, ErrInvalidInterval, ErrInvalidStatus,
}

// IsValidationError reports whether err is one of the Validate sentinels,
// as opposed to an infrastructure failure.
func IsValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// DaysUntil returns the whole calendar days from d to other. Negative when
// other is behind d.
func (d Date) DaysUntil(other Date) int {
	a := NewDate(d.Year(), d.Month(), d.Day())
	b := NewDate(other.Year(), other.Month(), other.Day())
	return int(b.Sub(a.Time).Hours() / 24)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// String formats the date as yyyy-mm-dd.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidFrequency reports whether f is a recognized recurrence frequency.
func ValidFrequency(f Frequency) bool {
	switch f {
	case Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

// ValidInterval reports whether i is a recognized subscription interval.
func ValidInterval(i Interval) bool {
	switch i {
	case IntervalWeekly, IntervalMonthly, IntervalQuarterly, IntervalYearly:
		return true
	default:
		return false
	}
}

// ValidBillCategory reports whether c is one of the accepted bill categories.
func ValidBillCategory(c string) bool {
	for _, v := range BillCategories {
		if c == v {
			return true
		}
	}
	return false
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if len(b.Name) > 200 {
		return ErrNameTooLong
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	if b.Category != "" && !ValidBillCategory(b.Category) {
		return ErrInvalidCategory
	}
	switch b.Status {
	case BillPending, BillPaid:
	default:
		return ErrInvalidStatus
	}
	if b.Recurring && !ValidFrequency(b.Frequency) {
		return ErrInvalidFrequency
	}
	return nil
}

// NotifyWindow returns the effective due-soon window in days.
func (b Bill) NotifyWindow() int {
	if b.NotifyDaysBefore < 0 {
		return DefaultNotifyDaysBefore
	}
	return b.NotifyDaysBefore
}

func (s Subscription) Validate() error {
	if len(strings.TrimSpace(s.Vendor)) == 0 {
		return ErrEmptyVendor
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if !ValidInterval(s.Interval) {
		return ErrInvalidInterval
	}
	switch s.Status {
	case SubscriptionActive, SubscriptionCancelled, SubscriptionPaused:
	default:
		return ErrInvalidStatus
	}
	return nil
}

func (t Task) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	return nil
}

func (e Event) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if e.Date.IsZero() {
		return errors.New("missing event date")
	}
	return nil
}
