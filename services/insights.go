package services

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"ethical-pricing/models"
	"ethical-pricing/pricing"
	"ethical-pricing/utils"
)

// ErrNoComparisonData is returned by Compare when no record matches the query.
var ErrNoComparisonData = errors.New("no data available for comparison")

// InsightService derives browseable summaries from the cleaned dataset.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Catalog lists the categories, the items sold under each category and the cities,
// all sorted.
func (s *InsightService) Catalog(records []models.Record) *models.Catalog {
	cat := &models.Catalog{ItemsByCategory: make(map[string][]string)}

	items := make(map[string]map[string]struct{})
	cities := make(map[string]struct{})
	for _, r := range records {
		if items[r.Category] == nil {
			items[r.Category] = make(map[string]struct{})
		}
		items[r.Category][r.ItemName] = struct{}{}
		cities[r.City] = struct{}{}
	}

	for c, set := range items {
		cat.Categories = append(cat.Categories, c)
		cat.ItemsByCategory[c] = sortedKeys(set)
	}
	sort.Strings(cat.Categories)
	cat.Cities = sortedKeys(cities)
	return cat
}

// Compare computes min/max/mean base price of (category, item) per city.
// With no cities given, every city the item was sold in is included.
func (s *InsightService) Compare(records []models.Record, category, item string, cities ...string) (*models.Comparison, error) {
	wanted := make(map[string]struct{}, len(cities))
	for _, c := range cities {
		wanted[c] = struct{}{}
	}

	byCity := make(map[string]*models.CityStats)
	sums := make(map[string]float64)
	for _, r := range records {
		if r.Category != category || r.ItemName != item {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[r.City]; !ok {
				continue
			}
		}
		st, ok := byCity[r.City]
		if !ok {
			st = &models.CityStats{City: r.City, MinPrice: r.BasePrice, MaxPrice: r.BasePrice}
			byCity[r.City] = st
		}
		st.Count++
		sums[r.City] += r.BasePrice
		if r.BasePrice < st.MinPrice {
			st.MinPrice = r.BasePrice
		}
		if r.BasePrice > st.MaxPrice {
			st.MaxPrice = r.BasePrice
		}
	}

	if len(byCity) == 0 {
		return nil, fmt.Errorf("%s / %s: %w", category, item, ErrNoComparisonData)
	}

	cmp := &models.Comparison{Category: category, ItemName: item}
	for city, st := range byCity {
		st.Mean = pricing.RoundPrice(sums[city] / float64(st.Count))
		cmp.Cities = append(cmp.Cities, *st)
	}
	sort.Slice(cmp.Cities, func(i, j int) bool {
		return cmp.Cities[i].City < cmp.Cities[j].City
	})

	s.logger.Debug("[insights] Compared %s / %s across %d cities", category, item, len(cmp.Cities))
	return cmp, nil
}

var (
	sep  = strings.Repeat("═", 54)
	thin = strings.Repeat("─", 54)
)

func (s *InsightService) PrintAssessment(w io.Writer, a models.Assessment) {
	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  PRICE ASSESSMENT\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "  Category        : %s\n", a.Category)
	fmt.Fprintf(w, "  Item            : %s\n", a.ItemName)
	fmt.Fprintf(w, "  City            : %s\n", a.City)
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Predicted price : \033[1m₹%.2f\033[0m\n", a.PredictedPrice)
	fmt.Fprintf(w, "  Historical range: ₹%.2f - ₹%.2f\n", a.MinPrice, a.MaxPrice)
	fmt.Fprintf(w, "  Status          : %s\n", colourLabel(a.Label))

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// PrintError renders a failed assessment as a user-facing message.
func (s *InsightService) PrintError(w io.Writer, kind string, err error) {
	fmt.Fprintf(w, "\033[1;31m  %s\033[0m: %v\n", kind, err)
}

func (s *InsightService) PrintComparison(w io.Writer, c *models.Comparison) {
	fmt.Fprintf(w, "\n\033[1;33m  Price comparison for %s (%s)\033[0m\n", c.ItemName, c.Category)
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  %-20s %6s %10s %10s %10s\n", "City", "Rows", "Min", "Max", "Mean")
	for _, st := range c.Cities {
		fmt.Fprintf(w, "  %-20s %6d %10s %10s %10s\n",
			truncate(st.City, 20), st.Count, rupees(st.MinPrice), rupees(st.MaxPrice), rupees(st.Mean))
	}
	fmt.Fprintln(w)
}

func (s *InsightService) PrintCatalog(w io.Writer, c *models.Catalog) {
	fmt.Fprintf(w, "\n\033[1;33m  Categories and items\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(c.Categories) == 0 {
		fmt.Fprintf(w, "  No data\n")
	}
	for _, cat := range c.Categories {
		fmt.Fprintf(w, "  \033[1m%s\033[0m: %s\n", cat, strings.Join(c.ItemsByCategory[cat], ", "))
	}
	fmt.Fprintf(w, "\n\033[1;33m  Cities\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  %s\n\n", strings.Join(c.Cities, ", "))
}

func (s *InsightService) PrintHistory(w io.Writer, entries []*models.HistoryEntry) {
	fmt.Fprintf(w, "\n\033[1;33m  Assessment history\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(entries) == 0 {
		fmt.Fprintf(w, "  No assessments recorded\n\n")
		return
	}
	for _, e := range entries {
		outcome := fmt.Sprintf("%s %s", rupees(e.PredictedPrice), colourLabel(e.Label))
		if e.Error != "" {
			outcome = "\033[1;31m" + e.Error + "\033[0m"
		}
		fmt.Fprintf(w, "  %s  %-12s %-16s %-12s %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"),
			truncate(e.Category, 12), truncate(e.ItemName, 16), truncate(e.City, 12), outcome)
	}
	fmt.Fprintln(w)
}

func (s *InsightService) PrintMetrics(w io.Writer, m models.Metrics) {
	fmt.Fprintf(w, "\n\033[1;33m  Model evaluation\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Train rows : %d\n", m.TrainRows)
	fmt.Fprintf(w, "  Test rows  : %d\n", m.TestRows)
	fmt.Fprintf(w, "  MAE        : %s\n", rupees(m.MAE))
	fmt.Fprintf(w, "  R² score   : %.2f\n\n", m.R2)
}

func colourLabel(l models.Label) string {
	switch l {
	case models.Underpriced:
		return "\033[1;34m" + string(l) + "\033[0m"
	case models.Overpriced:
		return "\033[1;31m" + string(l) + "\033[0m"
	case models.Fair:
		return "\033[1;32m" + string(l) + "\033[0m"
	}
	return string(l)
}

func rupees(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
