package inventory

import (
	"math"
	"strings"
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

const (
	maxProductNameLength  = 200
	maxUnitLength         = 20
	maxSupplierNameLength = 200
)

var foldCase = cases.Fold()

// Batch is one received lot of a raw material. The received quantity never
// changes after intake; consumption is tracked by the batch's BatchStatus.
type Batch struct {
	shared.BaseAggregateRoot
	ProductName  string
	BatchNumber  int
	Quantity     decimal.Decimal
	Unit         string
	SupplierName string
	ReceivedAt   time.Time
	ExpiryDate   time.Time
}

// NewBatch creates a batch at intake
func NewBatch(productName string, batchNumber int, quantity decimal.Decimal, unit, supplierName string, receivedAt, expiryDate time.Time) (*Batch, error) {
	b := &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchNumber:       batchNumber,
		Quantity:          quantity,
		ReceivedAt:        receivedAt,
	}
	if b.ReceivedAt.IsZero() {
		b.ReceivedAt = b.CreatedAt
	}
	if batchNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number must be a positive integer")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if err := b.applyDetails(productName, unit, supplierName, expiryDate); err != nil {
		return nil, err
	}

	b.AddDomainEvent(NewBatchReceivedEvent(b))
	return b, nil
}

// UpdateDetails changes the descriptive fields of a batch. Quantity is not
// among them; corrections to consumption go through BatchStatus.
func (b *Batch) UpdateDetails(productName, unit, supplierName string, expiryDate time.Time) error {
	if err := b.applyDetails(productName, unit, supplierName, expiryDate); err != nil {
		return err
	}
	b.Touch()
	return nil
}

func (b *Batch) applyDetails(productName, unit, supplierName string, expiryDate time.Time) error {
	productName = strings.TrimSpace(productName)
	unit = strings.TrimSpace(unit)
	supplierName = strings.TrimSpace(supplierName)

	if productName == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(productName) > maxProductNameLength {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if unit == "" || len(unit) > maxUnitLength {
		return shared.NewDomainError("INVALID_UNIT", "Unit must be 1-20 characters")
	}
	if len(supplierName) > maxSupplierNameLength {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot exceed 200 characters")
	}
	if expiryDate.IsZero() {
		return shared.NewDomainError("INVALID_EXPIRY_DATE", "Expiry date is required")
	}
	if expiryDate.Before(b.ReceivedAt.Truncate(24 * time.Hour)) {
		return shared.NewDomainError("INVALID_EXPIRY_DATE", "Expiry date cannot be before the received date")
	}

	b.ProductName = productName
	b.Unit = unit
	b.SupplierName = supplierName
	b.ExpiryDate = expiryDate
	return nil
}

// MaterialKey returns the normalized material name used for stock matching
func (b *Batch) MaterialKey() string {
	return NormalizeMaterialName(b.ProductName)
}

// DaysUntilExpiry returns the whole days left until expiry, rounded up
func (b *Batch) DaysUntilExpiry(now time.Time) int {
	return DaysUntil(b.ExpiryDate, now)
}

// IsExpired reports whether the expiry date has passed
func (b *Batch) IsExpired(now time.Time) bool {
	return b.DaysUntilExpiry(now) < 0
}

// NormalizeMaterialName trims and case-folds a material name.
// "  Sugar " and "sugar" refer to the same material.
func NormalizeMaterialName(name string) string {
	return foldCase.String(strings.TrimSpace(name))
}

// DaysUntil returns ceil((target - now) / 24h)
func DaysUntil(target, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}
