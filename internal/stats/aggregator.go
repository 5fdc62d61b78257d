package stats

import (
	"fmt"
	"sort"
	"time"

	"bookhub/pkg/models"
)

// Defaults used by the read-side views. Callers pass these explicitly;
// nothing below hardwires them.
const (
	DefaultWindowMonths = 6
	StatsTopAuthors     = 5
	RecommendTopAuthors = 3
)

// Summary is the aggregation result for one user's full record set.
type Summary struct {
	Total      int                 `json:"total"`
	ThisYear   int                 `json:"this_year"`
	MonthlyAvg float64             `json:"monthly_avg"`
	Monthly    []models.TimeBucket `json:"monthly"`
	TopAuthors []models.AuthorRank `json:"top_authors"`
}

// Aggregate computes totals, a trailing windowMonths calendar-month
// histogram ending at now's month, a current-calendar-year count, and the
// top authorTop authors by frequency. Records with a zero timestamp
// contribute to no bucket and not to the year count.
func Aggregate(records []models.Record, now time.Time, windowMonths, authorTop int) Summary {
	s := Summary{
		Total:      len(records),
		Monthly:    monthlyBuckets(records, now, windowMonths),
		TopAuthors: TopAuthors(records, authorTop),
	}

	for _, rec := range records {
		if !rec.CreatedAt.IsZero() && rec.CreatedAt.Year() == now.Year() {
			s.ThisYear++
		}
	}

	// Average over the elapsed months of the current year.
	s.MonthlyAvg = float64(s.ThisYear) / float64(now.Month())

	return s
}

func periodLabel(year int, month time.Month) string {
	return fmt.Sprintf("%04d/%02d", year, int(month))
}

// monthlyBuckets builds windowMonths consecutive buckets ending at now's
// month, oldest first, including empty months.
func monthlyBuckets(records []models.Record, now time.Time, windowMonths int) []models.TimeBucket {
	if windowMonths <= 0 {
		return nil
	}

	index := make(map[string]int, windowMonths)
	buckets := make([]models.TimeBucket, 0, windowMonths)
	for i := windowMonths - 1; i >= 0; i-- {
		d := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		label := periodLabel(d.Year(), d.Month())
		index[label] = len(buckets)
		buckets = append(buckets, models.TimeBucket{Period: label})
	}

	for _, rec := range records {
		if rec.CreatedAt.IsZero() {
			continue
		}
		label := periodLabel(rec.CreatedAt.Year(), rec.CreatedAt.Month())
		if i, ok := index[label]; ok {
			buckets[i].Count++
		}
	}

	return buckets
}

// TopAuthors ranks non-empty authors by record count, descending. The sort
// is stable: authors tied on count keep the order they were first seen in
// the input. Truncated to top entries.
func TopAuthors(records []models.Record, top int) []models.AuthorRank {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if rec.Author == "" {
			continue
		}
		if _, seen := counts[rec.Author]; !seen {
			order = append(order, rec.Author)
		}
		counts[rec.Author]++
	}

	ranks := make([]models.AuthorRank, 0, len(order))
	for _, author := range order {
		ranks = append(ranks, models.AuthorRank{Author: author, Count: counts[author]})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Count > ranks[j].Count
	})

	if top > 0 && len(ranks) > top {
		ranks = ranks[:top]
	}
	return ranks
}
