package cases

import (
	"sort"
	"strings"
)

// SortMode: los tres modos de orden de la worklist.
type SortMode string

const (
	// SortBySeverity: rank descendente. Empates conservan el orden de
	// inserción del merge (sort estable), que es determinístico dentro de
	// una corrida: casefiles, luego triage, luego consultas.
	SortBySeverity SortMode = "severity"

	// SortByNewest: createdAt descendente.
	SortByNewest SortMode = "newest"

	// SortByCaseNumber: comparación lexical del código display.
	SortByCaseNumber SortMode = "case_number"
)

func ParseSortMode(s string) SortMode {
	switch SortMode(strings.TrimSpace(s)) {
	case SortByNewest:
		return SortByNewest
	case SortByCaseNumber:
		return SortByCaseNumber
	default:
		return SortBySeverity
	}
}

// Sort ordena in-place según el modo.
func Sort(list []Case, mode SortMode) {
	switch mode {
	case SortByNewest:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	case SortByCaseNumber:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CaseNumber < list[j].CaseNumber
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Severity.Rank() > list[j].Severity.Rank()
		})
	}
}
