// Package stations carries the embedded airport catalog used for lookups
// and fuzzy search.
package stations

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

//go:embed stations.tsv
var catalogData string

// Station is one catalog entry.
type Station struct {
	ICAO string
	Name string
}

// Match pairs a station with the rune indexes the query hit.
type Match struct {
	Station
	MatchedIndexes []int
}

var (
	catalogOnce sync.Once
	catalog     []Station
	catalogByID map[string]Station
)

func loadCatalog() {
	catalogOnce.Do(func() {
		lines := strings.Split(catalogData, "\n")
		catalog = make([]Station, 0, len(lines))
		catalogByID = make(map[string]Station, len(lines))
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			code, name, ok := strings.Cut(line, "\t")
			if !ok {
				continue
			}
			station := Station{ICAO: strings.ToUpper(strings.TrimSpace(code)), Name: strings.TrimSpace(name)}
			if station.ICAO == "" {
				continue
			}
			catalog = append(catalog, station)
			catalogByID[station.ICAO] = station
		}
	})
}

// All returns the catalog in file order.
func All() []Station {
	loadCatalog()
	return append([]Station(nil), catalog...)
}

// Lookup returns the catalog entry for an ICAO identifier.
func Lookup(code string) (Station, bool) {
	loadCatalog()
	station, ok := catalogByID[strings.ToUpper(strings.TrimSpace(code))]
	return station, ok
}

// IsValidICAO reports whether code has the shape of an ICAO identifier:
// four characters, letters or digits, starting with a letter.
func IsValidICAO(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 4 {
		return false
	}
	for i, r := range code {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

type stationSource []Station

func (s stationSource) String(i int) string {
	return s[i].ICAO + " " + s[i].Name
}

func (s stationSource) Len() int { return len(s) }

// Search fuzzy-matches query against the catalog codes and names.
// An empty query lists the catalog. Limit <= 0 means no limit.
func Search(query string, limit int) []Match {
	loadCatalog()
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Match, 0, len(catalog))
		for _, station := range catalog {
			if limit > 0 && len(out) >= limit {
				break
			}
			out = append(out, Match{Station: station})
		}
		return out
	}
	matches := fuzzy.FindFrom(query, stationSource(catalog))
	out := make([]Match, 0, len(matches))
	for _, match := range matches {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, Match{
			Station:        catalog[match.Index],
			MatchedIndexes: match.MatchedIndexes,
		})
	}
	return out
}
