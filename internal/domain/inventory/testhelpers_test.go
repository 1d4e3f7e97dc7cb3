package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func mustBatch(product string, number int, qty float64, expiry time.Time) *Batch {
	b, err := NewBatch(product, number, decimal.NewFromFloat(qty), "kg", "Lanka Mills", testNow.AddDate(0, 0, -10), expiry)
	if err != nil {
		panic(err)
	}
	b.ClearDomainEvents()
	return b
}

func stockOf(b *Batch, used float64, deleted bool) BatchStock {
	st := DefaultBatchStatus(b.ID)
	st.UsedQuantity = decimal.NewFromFloat(used)
	st.IsDeleted = deleted
	return NewBatchStock(b, st)
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
