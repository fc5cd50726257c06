package repository

import (
	"strconv"
	"strings"

	"github.com/CHOJUNGHO96/algo-reference/internal/config"
)

// Dialect selects placeholder style and case folding for the underlying driver.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// DialectFor maps a configured driver name to its Dialect.
func DialectFor(driver string) Dialect {
	if driver == config.DriverPostgres {
		return DialectPostgres
	}
	return DialectSQLite
}

// Rebind rewrites '?' placeholders into '$n' for postgres. Queries in this
// package never carry a literal '?' so a plain scan is enough.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// containsFold matches column against a lowercased LIKE pattern without
// regard to case. SQLite's LOWER and LIKE only fold ASCII, so it goes through
// unicodeLowerFunc instead.
func (d Dialect) containsFold(column string) string {
	if d == DialectPostgres {
		return column + ` ILIKE ? ESCAPE '` + likeEscape + `'`
	}
	return unicodeLowerFunc + "(" + column + `) LIKE ? ESCAPE '` + likeEscape + `'`
}

// placeholders returns "?, ?, ?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
