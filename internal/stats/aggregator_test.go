package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/pkg/models"
)

func rec(title, author string, created time.Time) models.Record {
	return models.Record{Title: title, Author: author, Status: models.StatusRead, CreatedAt: created}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAggregateTrailingWindow(t *testing.T) {
	now := date(2024, time.March, 15)
	records := []models.Record{
		rec("Norwegian Wood", "Haruki Murakami", date(2024, time.March, 1)),
		rec("Kafka on the Shore", "Haruki Murakami", date(2024, time.March, 20)),
		rec("1Q84", "Haruki Murakami", date(2023, time.November, 5)),
	}

	s := Aggregate(records, now, 6, 5)

	require.Len(t, s.Monthly, 6)
	labels := make([]string, 0, 6)
	for _, b := range s.Monthly {
		labels = append(labels, b.Period)
	}
	assert.Equal(t, []string{"2023/10", "2023/11", "2023/12", "2024/01", "2024/02", "2024/03"}, labels)

	assert.Equal(t, 0, s.Monthly[0].Count)
	assert.Equal(t, 1, s.Monthly[1].Count) // 2023/11
	assert.Equal(t, 2, s.Monthly[5].Count) // 2024/03

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ThisYear)
	assert.InDelta(t, 2.0/3.0, s.MonthlyAvg, 1e-9) // March = 3 elapsed months

	require.Len(t, s.TopAuthors, 1)
	assert.Equal(t, models.AuthorRank{Author: "Haruki Murakami", Count: 3}, s.TopAuthors[0])
}

func TestAggregateExcludesOutsideWindow(t *testing.T) {
	now := date(2024, time.March, 15)
	records := []models.Record{
		rec("Old", "A", date(2023, time.September, 30)), // one month too old
		rec("Future", "A", date(2024, time.April, 1)),   // next month
	}

	s := Aggregate(records, now, 6, 5)
	for _, b := range s.Monthly {
		assert.Equal(t, 0, b.Count, "bucket %s", b.Period)
	}
	assert.Equal(t, 2, s.Total)
}

func TestAggregateBucketSumNeverExceedsTotal(t *testing.T) {
	now := date(2024, time.June, 10)
	records := []models.Record{
		rec("a", "A", date(2024, time.January, 1)),
		rec("b", "A", date(2024, time.May, 2)),
		rec("c", "B", date(2022, time.June, 2)),
		rec("d", "", time.Time{}),
	}

	s := Aggregate(records, now, 6, 5)
	sum := 0
	for _, b := range s.Monthly {
		sum += b.Count
	}
	assert.LessOrEqual(t, sum, s.Total)
}

func TestAggregateZeroTimestamps(t *testing.T) {
	now := date(2024, time.March, 15)
	records := []models.Record{rec("x", "A", time.Time{})}

	s := Aggregate(records, now, 6, 5)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 0, s.ThisYear)
	for _, b := range s.Monthly {
		assert.Equal(t, 0, b.Count)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, date(2024, time.January, 1), 6, 5)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.ThisYear)
	assert.Equal(t, 0.0, s.MonthlyAvg)
	assert.Len(t, s.Monthly, 6)
	assert.Empty(t, s.TopAuthors)
}

func TestAggregateYearBoundaryWindow(t *testing.T) {
	now := date(2024, time.January, 2)
	s := Aggregate(nil, now, 6, 5)

	labels := make([]string, 0, 6)
	for _, b := range s.Monthly {
		labels = append(labels, b.Period)
	}
	assert.Equal(t, []string{"2023/08", "2023/09", "2023/10", "2023/11", "2023/12", "2024/01"}, labels)
}

func TestTopAuthorsRanking(t *testing.T) {
	records := []models.Record{
		rec("1", "B", time.Time{}),
		rec("2", "A", time.Time{}),
		rec("3", "A", time.Time{}),
		rec("4", "C", time.Time{}),
		rec("5", "", time.Time{}), // no author, ignored
	}

	ranks := TopAuthors(records, 5)
	require.Len(t, ranks, 3)
	assert.Equal(t, models.AuthorRank{Author: "A", Count: 2}, ranks[0])
	// B and C tie on 1; B was seen first.
	assert.Equal(t, models.AuthorRank{Author: "B", Count: 1}, ranks[1])
	assert.Equal(t, models.AuthorRank{Author: "C", Count: 1}, ranks[2])

	for i := 1; i < len(ranks); i++ {
		assert.GreaterOrEqual(t, ranks[i-1].Count, ranks[i].Count)
	}
}

func TestTopAuthorsTruncates(t *testing.T) {
	records := []models.Record{
		rec("1", "A", time.Time{}),
		rec("2", "B", time.Time{}),
		rec("3", "C", time.Time{}),
		rec("4", "D", time.Time{}),
	}
	ranks := TopAuthors(records, 3)
	assert.Len(t, ranks, 3)
}
