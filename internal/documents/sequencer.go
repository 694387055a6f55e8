package documents

import (
	"strconv"
	"strings"
)

// NextSlipNumber derives the next slip number from the saved documents of
// one workflow: the maximum numeric slip number plus one, or "1" when no
// numeric slip numbers exist. Non-numeric slip numbers are ignored.
func NextSlipNumber(docs []SlipDocument) string {
	max := 0
	found := false
	for _, doc := range docs {
		n, err := strconv.Atoi(strings.TrimSpace(doc.Filters.SlipNo))
		if err != nil {
			continue
		}
		if !found || n > max {
			max = n
			found = true
		}
	}
	if !found {
		return "1"
	}
	return strconv.Itoa(max + 1)
}
