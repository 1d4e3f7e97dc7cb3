package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaterialStock is the derived available quantity of one material
type MaterialStock struct {
	ProductName   string          `json:"productName"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	Unit          string          `json:"unit,omitempty"`
	BatchCount    int             `json:"batchCount"`
}

// StockQuery controls which batches count toward available stock
type StockQuery struct {
	// ExcludeExpired drops batches whose expiry date is before Now
	ExcludeExpired bool
	Now            time.Time
}

func (q StockQuery) counts(s BatchStock) bool {
	if s.Status.IsDeleted {
		return false
	}
	if q.ExcludeExpired && s.Batch.IsExpired(q.Now) {
		return false
	}
	return true
}

// AvailableQuantity sums quantity - used over the counted batches of material.
// Unknown materials yield zero.
func AvailableQuantity(stocks []BatchStock, material string, q StockQuery) decimal.Decimal {
	key := NormalizeMaterialName(material)
	total := decimal.Zero
	for _, s := range stocks {
		if s.Batch.MaterialKey() != key || !q.counts(s) {
			continue
		}
		total = total.Add(s.Remaining())
	}
	return total
}

// AggregateMaterialStock groups counted batches by normalized material name.
// The display name is the first spelling encountered; output is sorted by it.
func AggregateMaterialStock(stocks []BatchStock, q StockQuery) []MaterialStock {
	byKey := make(map[string]*MaterialStock)
	order := make([]string, 0)

	for _, s := range stocks {
		if !q.counts(s) {
			continue
		}
		key := s.Batch.MaterialKey()
		ms, ok := byKey[key]
		if !ok {
			ms = &MaterialStock{
				ProductName:   s.Batch.ProductName,
				TotalQuantity: decimal.Zero,
				Unit:          s.Batch.Unit,
			}
			byKey[key] = ms
			order = append(order, key)
		}
		ms.TotalQuantity = ms.TotalQuantity.Add(s.Remaining())
		ms.BatchCount++
		if !strings.EqualFold(ms.Unit, s.Batch.Unit) {
			ms.Unit = ""
		}
	}

	out := make([]MaterialStock, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return NormalizeMaterialName(out[i].ProductName) < NormalizeMaterialName(out[j].ProductName)
	})
	return out
}
