package cases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortBySeverity, ParseSortMode(""))
	assert.Equal(t, SortBySeverity, ParseSortMode("whatever"))
	assert.Equal(t, SortByNewest, ParseSortMode("newest"))
	assert.Equal(t, SortByCaseNumber, ParseSortMode("case_number"))
}

func TestSortBySeverityRankDescending(t *testing.T) {
	list := []Case{
		{ID: "a", Severity: SeverityMild},
		{ID: "b", Severity: SeverityEmergency},
		{ID: "c", Severity: SeverityPending},
		{ID: "d", Severity: SeveritySerious},
		{ID: "e", Severity: SeverityModerate},
	}

	Sort(list, SortBySeverity)

	got := make([]string, 0, len(list))
	for _, c := range list {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, got)
}

// Empates de severidad conservan el orden de entrada (sort estable).
func TestSortBySeverityStableTies(t *testing.T) {
	list := []Case{
		{ID: "first", Severity: SeverityModerate},
		{ID: "second", Severity: SeverityModerate},
		{ID: "third", Severity: SeverityModerate},
	}

	Sort(list, SortBySeverity)

	assert.Equal(t, "first", list[0].ID)
	assert.Equal(t, "second", list[1].ID)
	assert.Equal(t, "third", list[2].ID)
}

func TestSortByNewest(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	list := []Case{
		{ID: "old", CreatedAt: base},
		{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", CreatedAt: base.Add(time.Hour)},
	}

	Sort(list, SortByNewest)

	assert.Equal(t, "newest", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestSortByCaseNumber(t *testing.T) {
	list := []Case{
		{ID: "a", CaseNumber: "LT-B2"},
		{ID: "b", CaseNumber: "CN-A1"},
		{ID: "c", CaseNumber: "CS-99"},
	}

	Sort(list, SortByCaseNumber)

	assert.Equal(t, "CN-A1", list[0].CaseNumber)
	assert.Equal(t, "CS-99", list[1].CaseNumber)
	assert.Equal(t, "LT-B2", list[2].CaseNumber)
}

func TestSeverityRankOrderTotal(t *testing.T) {
	assert.Greater(t, SeverityEmergency.Rank(), SeveritySerious.Rank())
	assert.Greater(t, SeveritySerious.Rank(), SeverityModerate.Rank())
	assert.Greater(t, SeverityModerate.Rank(), SeverityMild.Rank())
	assert.Greater(t, SeverityMild.Rank(), SeverityPending.Rank())
}

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity("serious")
	assert.NoError(t, err)
	assert.Equal(t, SeveritySerious, sev)

	_, err = ParseSeverity("critical")
	assert.ErrorIs(t, err, ErrUnknownSeverity)

	_, err = ParseSeverity("")
	assert.ErrorIs(t, err, ErrUnknownSeverity)
}
