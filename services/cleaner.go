package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"ethical-pricing/models"
	"ethical-pricing/utils"
)

// priceRegexp matches a whole price field: an optional currency symbol or code, an
// unsigned decimal with optional thousands separators, and an optional unit suffix.
var priceRegexp = regexp.MustCompile(`(?i)^(?:\p{Sc}|rs\.?|inr)?\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:inr|rs\.?|rupees?|/-)?$`)

// Cleaner turns RawRecords into deduplicated Records with every field present.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean drops rows with a missing field or unusable price and removes exact duplicates.
// Input order is preserved for the rows that survive.
func (c *Cleaner) Clean(raw []*models.RawRecord) []models.Record {
	seen := utils.KeySet{}
	result := make([]models.Record, 0, len(raw))
	var missing, badPrice, dups int

	for _, r := range raw {
		if r == nil {
			missing++
			continue
		}
		rec := models.Record{
			Category: normaliseText(r.Category),
			ItemName: normaliseText(r.ItemName),
			City:     normaliseText(r.City),
		}
		if rec.Category == "" || rec.ItemName == "" || rec.City == "" || strings.TrimSpace(r.BasePrice) == "" {
			missing++
			c.logger.Debug("[cleaner] Dropping row with missing field: %+v", *r)
			continue
		}

		price, ok := parsePrice(r.BasePrice)
		if !ok {
			badPrice++
			c.logger.Debug("[cleaner] Dropping row with unusable price %q", r.BasePrice)
			continue
		}
		rec.BasePrice = price

		key := rec.Category + "\x00" + rec.ItemName + "\x00" + rec.City + "\x00" +
			strconv.FormatFloat(price, 'g', -1, 64)
		if !seen.Add(key) {
			dups++
			continue
		}

		result = append(result, rec)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d records (missing: %d, bad price: %d, duplicates: %d)",
		len(raw), len(result), missing, badPrice, dups)
	return result
}

// parsePrice reads a non-negative price from strings such as "₹1,200.50" or "40 INR".
// Anything else in the field, like a range or a second number, rejects it.
func parsePrice(raw string) (float64, bool) {
	m := priceRegexp.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
