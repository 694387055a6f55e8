package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/slipbook-erp/slipbook/internal/catalog"
)

// Memo caches the last ComputeSummary result keyed on an input
// fingerprint. Summaries are recomputed on every input change, so callers
// that re-derive on each edit reuse the previous result when nothing
// relevant moved.
type Memo struct {
	mu     sync.Mutex
	key    string
	cached Summary
}

// Compute returns the memoized summary for the inputs, recomputing when
// the fingerprint differs from the previous call.
func (m *Memo) Compute(lines []LineItem, items []catalog.Item, manualPrices map[string]float64) Summary {
	key := fingerprint(lines, items, manualPrices)

	m.mu.Lock()
	defer m.mu.Unlock()
	if key != "" && key == m.key {
		return m.cached
	}
	summary := ComputeSummary(lines, items, manualPrices)
	m.key = key
	m.cached = summary
	return summary
}

func fingerprint(lines []LineItem, items []catalog.Item, manualPrices map[string]float64) string {
	raw, err := json.Marshal(struct {
		Lines  []LineItem
		Items  []catalog.Item
		Prices map[string]float64
	}{lines, items, manualPrices})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
