// Package resolve turns the address roster into a set of resolved
// points: it assembles one query per record, runs them through the
// selected geocoding provider, and drops records the provider cannot
// place.
package resolve

import (
	"strings"

	"github.com/sells-group/zoneplan/internal/roster"
)

// BuildQuery assembles one geocodable search string for a record. A
// non-empty full Address column wins verbatim; otherwise the street,
// city, state, and zip components are joined in that order. A context
// hint ("Atlanta, GA", "Missouri") is appended unless the query already
// contains it, compared case-insensitively.
func BuildQuery(rec roster.Record, contextHint string) string {
	q := rec.Get(roster.ColFull)

	if q == "" {
		var parts []string
		for _, col := range []string{roster.ColAddress, roster.ColCity, roster.ColState, roster.ColZip} {
			if v := rec.Get(col); v != "" {
				parts = append(parts, v)
			}
		}
		q = strings.Join(parts, ", ")
	}

	hint := strings.TrimSpace(contextHint)
	if hint != "" && !strings.Contains(strings.ToLower(q), strings.ToLower(hint)) {
		if q == "" {
			q = hint
		} else {
			q = q + ", " + hint
		}
	}
	return q
}
