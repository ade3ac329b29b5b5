package cases

import "strings"

// Filter de la worklist: "all", "assigned" (mis casos) o una severidad
// exacta. Valores desconocidos degradan a "all".
type Filter string

const (
	FilterAll      Filter = "all"
	FilterAssigned Filter = "assigned"
)

func ParseFilter(s string) Filter {
	f := Filter(strings.TrimSpace(s))
	if f == FilterAll || f == FilterAssigned {
		return f
	}
	if sv := Severity(f); sv.Valid() {
		return f
	}
	return FilterAll
}

// ViewInput: los tres inputs del view engine más el actor (para "assigned").
type ViewInput struct {
	Filter  Filter
	Search  string
	Sort    SortMode
	ActorID string
}

// View es una función pura sobre la worklist en memoria: filtra, busca y
// ordena. Nunca re-fetchea ni muta la lista de entrada.
func View(worklist []Case, in ViewInput) []Case {
	out := make([]Case, 0, len(worklist))

	term := strings.ToLower(strings.TrimSpace(in.Search))

	for _, c := range worklist {
		if !matchesFilter(c, in.Filter, in.ActorID) {
			continue
		}
		if term != "" && !matchesSearch(c, term) {
			continue
		}
		out = append(out, c)
	}

	Sort(out, in.Sort)
	return out
}

func matchesFilter(c Case, f Filter, actorID string) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterAssigned:
		return actorID != "" && c.AssignedNurseID == actorID
	default:
		return c.Severity == Severity(f)
	}
}

// matchesSearch: substring case-insensitive sobre los cinco campos
// buscables. Matchea si CUALQUIERA contiene el término.
func matchesSearch(c Case, term string) bool {
	for _, field := range []string{
		c.Title,
		c.Description,
		c.CaseNumber,
		c.PetName,
		c.CustomerName,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
