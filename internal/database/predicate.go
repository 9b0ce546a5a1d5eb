package database

import (
	"blog-content-service/internal/models"
	"strings"
	"time"
)

const (
	alwaysTrue = "TRUE"

	// yearWindow is the fixed length of a created_year filter. It is not calendar aware:
	// in leap years the last day of the year falls outside the window.
	yearWindow = 365 * 24 * time.Hour
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Predicate is a parameterized boolean SQL expression.
// SQL uses gorm's '?' placeholders; Args holds the values bound to them in order.
type Predicate struct {
	SQL  string
	Args []any
}

type predicateBuilder struct {
	clauses []string
	args    []any
}

func (b *predicateBuilder) add(clause string, args ...any) {
	b.clauses = append(b.clauses, clause)
	b.args = append(b.args, args...)
}

func (b *predicateBuilder) ids(ids []int64) {
	if len(ids) == 0 {
		b.add(alwaysTrue)
		return
	}
	b.add("id IN ?", ids)
}

func (b *predicateBuilder) contains(column, value string) {
	if len(value) == 0 {
		b.add(alwaysTrue)
		return
	}
	b.add(column+" LIKE ?", "%"+likeEscaper.Replace(value)+"%")
}

func (b *predicateBuilder) equals(column string, value int64) {
	if value == 0 {
		b.add(alwaysTrue)
		return
	}
	b.add(column+" = ?", value)
}

func (b *predicateBuilder) build() Predicate {
	return Predicate{SQL: strings.Join(b.clauses, " AND "), Args: b.args}
}

// ArticlePredicate translates an article filter into a predicate over the articles table.
// Every absent filter contributes an always-true clause.
func ArticlePredicate(q models.QueryArticle) Predicate {
	b := &predicateBuilder{}
	b.ids(q.Ids)
	b.contains("title", q.Title)

	if q.State == models.ArticleStateUnspecified {
		b.add(alwaysTrue)
	} else {
		b.add("state = ?", q.State)
	}

	if q.CreatedYear == nil {
		b.add(alwaysTrue)
	} else {
		start, end := YearWindow(*q.CreatedYear)
		b.add("created_at >= ? AND created_at < ?", start, end)
	}

	b.equals("category_id", q.CategoryID)
	return b.build()
}

func CategoryPredicate(q models.QueryCategory) Predicate {
	b := &predicateBuilder{}
	b.ids(q.Ids)
	b.contains("name", q.Name)
	return b.build()
}

func TagPredicate(q models.QueryTag) Predicate {
	b := &predicateBuilder{}
	b.ids(q.Ids)
	b.contains("name", q.Name)
	return b.build()
}

// YearWindow returns [Jan 1 00:00 local, +365 days) for the local year of instant.
func YearWindow(instant time.Time) (time.Time, time.Time) {
	start := time.Date(instant.In(time.Local).Year(), time.January, 1, 0, 0, 0, 0, time.Local)
	return start, start.Add(yearWindow)
}

// UpdateClause builds the SET list of a sparse article update.
// Only non-empty fields are assigned, a blank title counts as empty; updated_at is always refreshed.
// ok is false when the article carries no field to change.
func UpdateClause(a models.Article) (clause Predicate, ok bool) {
	var assignments []string
	var args []any

	set := func(column string, value any) {
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}

	if title := strings.TrimSpace(a.Title); len(title) > 0 {
		set("title", title)
	}
	if len(a.Content) > 0 {
		set("content", a.Content)
	}
	switch {
	case len(a.Summary) > 0:
		set("summary", a.Summary)
	case len(a.Content) > 0:
		set("summary", models.DeriveSummary(a.Content))
	}
	if a.State != models.ArticleStateUnspecified {
		set("state", a.State)
	}
	if a.CategoryID != 0 {
		set("category_id", a.CategoryID)
	}

	if len(assignments) == 0 {
		return Predicate{}, false
	}

	assignments = append(assignments, "updated_at = now()")
	return Predicate{SQL: strings.Join(assignments, ", "), Args: args}, true
}
