package supplier

import (
	"strings"

	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Supplier is a produce or raw-material vendor with a login and a payment
// ledger. Earnings and PendingPayments move only through the methods below.
type Supplier struct {
	shared.BaseAggregateRoot
	identity.Credentials
	Name            string
	Phone           string
	Address         string
	Company         string
	Earnings        decimal.Decimal
	PendingPayments decimal.Decimal
	RatingAverage   decimal.Decimal
	RatingCount     int
}

// Profile holds the self-editable supplier fields
type Profile struct {
	Name    string
	Phone   string
	Address string
	Company string
}

// NewSupplier registers a supplier with a hashed password
func NewSupplier(p Profile, email, password string) (*Supplier, error) {
	creds, err := identity.NewCredentials(email, password)
	if err != nil {
		return nil, err
	}
	s := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Credentials:       creds,
		Earnings:          decimal.Zero,
		PendingPayments:   decimal.Zero,
		RatingAverage:     decimal.Zero,
	}
	if err := s.UpdateProfile(p); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateProfile replaces the descriptive fields
func (s *Supplier) UpdateProfile(p Profile) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	s.Name = name
	s.Phone = strings.TrimSpace(p.Phone)
	s.Address = strings.TrimSpace(p.Address)
	s.Company = strings.TrimSpace(p.Company)
	s.Touch()
	return nil
}

// ChangeEmail validates and sets a new login email
func (s *Supplier) ChangeEmail(email string) error {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return err
	}
	s.Email = normalized
	s.Touch()
	return nil
}

// ChangePassword replaces the password hash
func (s *Supplier) ChangePassword(password string) error {
	hash, err := identity.HashPassword(password)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	s.Touch()
	return nil
}

// AddPendingPayment records value now owed to the supplier
func (s *Supplier) AddPendingPayment(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	s.PendingPayments = s.PendingPayments.Add(amount)
	s.Touch()
}

// ReleasePendingPayment removes value that will no longer be paid, flooring at zero
func (s *Supplier) ReleasePendingPayment(amount decimal.Decimal) {
	s.PendingPayments = decimal.Max(decimal.Zero, s.PendingPayments.Sub(amount))
	s.Touch()
}

// RecordPayment credits a payment: earnings grow by paid and pending
// payments shrink by paid, never below zero.
func (s *Supplier) RecordPayment(paid decimal.Decimal) error {
	if paid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	s.Earnings = s.Earnings.Add(paid)
	s.PendingPayments = decimal.Max(decimal.Zero, s.PendingPayments.Sub(paid))
	s.Touch()
	return nil
}

// ApplyRating folds a new score into the running average
func (s *Supplier) ApplyRating(score int) {
	total := s.RatingAverage.Mul(decimal.NewFromInt(int64(s.RatingCount))).Add(decimal.NewFromInt(int64(score)))
	s.RatingCount++
	s.RatingAverage = total.Div(decimal.NewFromInt(int64(s.RatingCount))).Round(2)
	s.Touch()
}
