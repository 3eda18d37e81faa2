// Package search turns listing filter parameters into a QueryPlan and applies
// that plan to a GORM query.
//
// Build is pure: it only decides which predicates, ordering and relations a
// request needs. Apply-time details that depend on the SQL dialect (full-text
// matching, LIKE escaping) live in scope.go.
package search

import (
	"strings"

	"aqarat_backend/pkg/utils/arabic"
)

// PageSize is the fixed number of listings per filtered page.
const PageSize = 10

// MaxPage bounds every paginated listing. Larger page numbers would overflow
// the offset and leave unbounded cache keys behind.
const MaxPage = 10000

// ClampPage keeps page within [1, MaxPage].
func ClampPage(page int) int {
	return max(1, min(page, MaxPage))
}

// All is the sentinel value meaning "do not filter on this field".
const All = "all"

// FilterSpec is the validated filter input. Nil pointers and empty strings
// mean the filter was not supplied.
type FilterSpec struct {
	Search     string
	IsFeatured string
	Status     string
	Type       string
	Location   string
	MinPrice   *float64
	MaxPrice   *float64
	Bedrooms   *int
	Bathrooms  *int
	Page       int
}

type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Condition is a single column predicate on the properties table.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

type Order struct {
	Column string
	Desc   bool
}

// QueryPlan describes a listing query without binding it to a database.
type QueryPlan struct {
	// Search is the trimmed full-text term; empty means no relevance match.
	Search     string
	Conditions []Condition
	// Location is the normalized, lower-cased location term.
	Location  string
	Relations []string
	OrderBy   []Order
	Page      int
	PageSize  int
}

// ListingRelations are eager-loaded for every listing response.
var ListingRelations = []string{"Location", "Images", "Videos", "Owner", "Agency"}

// Build maps a FilterSpec to a QueryPlan. It never fails.
func Build(spec FilterSpec) QueryPlan {
	plan := QueryPlan{
		Relations: append([]string(nil), ListingRelations...),
		Page:      ClampPage(spec.Page),
		PageSize:  PageSize,
	}

	if term := strings.TrimSpace(spec.Search); term != "" {
		plan.Search = term
		plan.OrderBy = append(plan.OrderBy, Order{Column: "relevance", Desc: true})
	}

	if v := strings.TrimSpace(spec.IsFeatured); v != "" && !strings.EqualFold(v, All) {
		plan.Conditions = append(plan.Conditions, Condition{Column: "is_featured", Op: OpEq, Value: ParseBool(v)})
	}
	if v := strings.TrimSpace(spec.Status); v != "" && !strings.EqualFold(v, All) {
		plan.Conditions = append(plan.Conditions, Condition{Column: "status", Op: OpEq, Value: v})
	}
	if v := strings.TrimSpace(spec.Type); v != "" && !strings.EqualFold(v, All) {
		plan.Conditions = append(plan.Conditions, Condition{Column: "type", Op: OpEq, Value: v})
	}

	plan.Location = arabic.SearchKey(spec.Location)

	if spec.MinPrice != nil {
		plan.Conditions = append(plan.Conditions, Condition{Column: "price", Op: OpGte, Value: *spec.MinPrice})
	}
	if spec.MaxPrice != nil {
		plan.Conditions = append(plan.Conditions, Condition{Column: "price", Op: OpLte, Value: *spec.MaxPrice})
	}
	if spec.Bedrooms != nil {
		plan.Conditions = append(plan.Conditions, Condition{Column: "bedrooms", Op: OpEq, Value: *spec.Bedrooms})
	}
	if spec.Bathrooms != nil {
		plan.Conditions = append(plan.Conditions, Condition{Column: "bathrooms", Op: OpEq, Value: *spec.Bathrooms})
	}

	plan.OrderBy = append(plan.OrderBy,
		Order{Column: "created_at", Desc: true},
		Order{Column: "id", Desc: true},
	)
	return plan
}

// Has reports whether the plan filters on column.
func (p QueryPlan) Has(column string) bool {
	_, ok := p.Condition(column)
	return ok
}

// Condition returns the first predicate on column.
func (p QueryPlan) Condition(column string) (Condition, bool) {
	for _, c := range p.Conditions {
		if c.Column == column {
			return c, true
		}
	}
	return Condition{}, false
}

// Offset is the number of rows skipped before the plan's page.
func (p QueryPlan) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParseBool accepts the truthy spellings HTML forms and query strings use.
// Anything else is false.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
