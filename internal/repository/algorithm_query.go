package repository

import (
	"strings"
)

// Sort keys and directions accepted by the public listing.
const (
	SortTitle     = "title"
	SortViewCount = "view_count"
	SortCreatedAt = "created_at"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var sortColumns = map[string]string{
	SortTitle:     "a.title",
	SortViewCount: "a.view_count",
	SortCreatedAt: "a.created_at",
}

// ValidSortKey reports whether key is a sortable column.
func ValidSortKey(key string) bool {
	_, ok := sortColumns[key]
	return ok
}

// AlgorithmFilter drives the public listing. Nil ids and a blank search mean no filter.
type AlgorithmFilter struct {
	CategoryID   *int
	DifficultyID *int
	Search       string
	SortBy       string
	Order        string
	Limit        int
	Offset       int
}

const (
	algorithmSummaryColumns = `a.id, a.title, a.slug, a.concept_summary, a.time_complexity, a.space_complexity, a.view_count, a.created_at, ` +
		`c.id, c.name, c.slug, c.description, c.display_order, c.parent_id, c.color, ` +
		`d.id, d.name, d.color`
	algorithmJoins = ` FROM algorithms a` +
		` JOIN categories c ON c.id = a.category_id` +
		` JOIN difficulty_levels d ON d.id = a.difficulty_id`
	likeEscape = `\`
)

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// buildAlgorithmWhere always restricts to published rows and ANDs the optional filters.
func buildAlgorithmWhere(d Dialect, f AlgorithmFilter) (string, []any) {
	conds := []string{"a.is_published = TRUE"}
	var args []any

	if f.CategoryID != nil {
		conds = append(conds, "a.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.DifficultyID != nil {
		conds = append(conds, "a.difficulty_id = ?")
		args = append(args, *f.DifficultyID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		conds = append(conds, "("+d.containsFold("a.title")+" OR "+d.containsFold("a.concept_summary")+")")
		args = append(args, pattern, pattern)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildAlgorithmOrder falls back to created_at desc for unknown input; ties break on id.
func buildAlgorithmOrder(f AlgorithmFilter) string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[SortCreatedAt]
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, OrderAsc) {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", a.id ASC"
}

func buildAlgorithmCount(d Dialect, f AlgorithmFilter) (string, []any) {
	where, args := buildAlgorithmWhere(d, f)
	return "SELECT COUNT(*) FROM algorithms a" + where, args
}

func buildAlgorithmList(d Dialect, f AlgorithmFilter) (string, []any) {
	where, args := buildAlgorithmWhere(d, f)
	q := "SELECT " + algorithmSummaryColumns + algorithmJoins + where + buildAlgorithmOrder(f) + " LIMIT ? OFFSET ?"
	return q, append(args, f.Limit, f.Offset)
}
