package search

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// tsDocument is the text the Postgres GIN index is built over. It must stay
// identical to the expression in database.EnsureSearchIndexes.
const tsDocument = "to_tsvector('simple', coalesce(properties.title, '') || ' ' || coalesce(properties.description, ''))"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// searchTerms splits a search phrase into its distinct lower-cased words.
// A row matches when it contains any of them.
func searchTerms(phrase string) []string {
	var out []string
	seen := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

var lexemeEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

// tsQuery ORs every word as a quoted lexeme, so operator characters in the
// input are matched as text.
func tsQuery(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = "'" + lexemeEscaper.Replace(t) + "'"
	}
	return strings.Join(quoted, " | ")
}

// likeMatch is the SQLite fallback: any word in the title or description.
func likeMatch(terms []string) (string, []any) {
	parts := make([]string, 0, len(terms))
	args := make([]any, 0, 2*len(terms))
	for _, t := range terms {
		pattern := containsPattern(t)
		parts = append(parts, `LOWER(properties.title) LIKE ? ESCAPE '\' OR LOWER(properties.description) LIKE ? ESCAPE '\'`)
		args = append(args, pattern, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// likeRelevance scores 2 per word found in the title and 1 per word found in
// the description.
func likeRelevance(terms []string) (string, []any) {
	parts := make([]string, 0, 2*len(terms))
	args := make([]any, 0, 2*len(terms))
	for _, t := range terms {
		pattern := containsPattern(t)
		parts = append(parts,
			`CASE WHEN LOWER(properties.title) LIKE ? ESCAPE '\' THEN 2 ELSE 0 END`,
			`CASE WHEN LOWER(properties.description) LIKE ? ESCAPE '\' THEN 1 ELSE 0 END`)
		args = append(args, pattern, pattern)
	}
	return "(" + strings.Join(parts, " + ") + ")", args
}

// Filter applies only the WHERE part of the plan, so it can be shared by the
// page query and the count query.
func (p QueryPlan) Filter(dialect string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if terms := searchTerms(p.Search); len(terms) > 0 {
			if dialect == DialectPostgres {
				db = db.Where(tsDocument+" @@ to_tsquery('simple', ?)", tsQuery(terms))
			} else {
				clause, args := likeMatch(terms)
				db = db.Where(clause, args...)
			}
		}

		for _, c := range p.Conditions {
			db = db.Where(fmt.Sprintf("properties.%s %s ?", c.Column, c.Op), c.Value)
		}

		if p.Location != "" {
			pattern := containsPattern(p.Location)
			db = db.Where(`EXISTS (SELECT 1 FROM property_locations pl WHERE pl.property_id = properties.id AND pl.deleted_at IS NULL AND (pl.city_search LIKE ? ESCAPE '\' OR pl.district_search LIKE ? ESCAPE '\'))`, pattern, pattern)
		}
		return db
	}
}

// Scope applies the full plan: filters, relevance column, ordering,
// eager loads and the page window.
func (p QueryPlan) Scope(dialect string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(p.Filter(dialect))

		if terms := searchTerms(p.Search); len(terms) > 0 {
			if dialect == DialectPostgres {
				db = db.Select("properties.*, ts_rank("+tsDocument+", to_tsquery('simple', ?)) AS relevance", tsQuery(terms))
			} else {
				expr, args := likeRelevance(terms)
				db = db.Select("properties.*, "+expr+" AS relevance", args...)
			}
		}

		for _, o := range p.OrderBy {
			col := o.Column
			if col != "relevance" {
				col = "properties." + col
			}
			if o.Desc {
				col += " DESC"
			}
			db = db.Order(col)
		}

		return db.Scopes(WithRelations(p.Relations)).Offset(p.Offset()).Limit(p.PageSize)
	}
}

// WithRelations eager-loads the given property relations. Images come
// primary first, then in upload order.
func WithRelations(relations []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, rel := range relations {
			if rel == "Images" {
				db = db.Preload("Images", func(db *gorm.DB) *gorm.DB {
					return db.Order("property_images.is_primary DESC, property_images.id ASC")
				})
				continue
			}
			db = db.Preload(rel)
		}
		return db
	}
}
