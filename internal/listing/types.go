package listing

// FlagAdvanced is the filterFlag value that switches a request to
// advanced filter mode. When set, the Search block is ignored entirely;
// the two filter languages never combine.
const FlagAdvanced = "advancedFilters"

// JoinAnd / JoinOr combine the advanced filter list. Anything other
// than "or" is treated as "and".
const (
	JoinAnd = "and"
	JoinOr  = "or"
)

// Filter is one advanced-mode condition. ID names a registry field;
// unknown fields and operators are dropped, never errored. An empty
// Operator means "eq".
type Filter struct {
	ID       string `json:"id"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// SortSpec is one explicit sort pair. Requests may instead carry a
// single "field.direction" token; see normalizeSort.
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// ListRequest is the full input of one List call, as decoded from the
// HTTP body. Sort accepts either a string token or a list of
// {field, direction} objects, hence the any type.
type ListRequest struct {
	Page         int            `json:"page"`
	PerPage      int            `json:"perPage"`
	Sort         any            `json:"sort"`
	Filters      []Filter       `json:"filters"`
	JoinOperator string         `json:"joinOperator"`
	FilterFlag   string         `json:"filterFlag"`
	Search       map[string]any `json:"search"`
}

// PageResult is the page of rows plus the counts derived from the full
// match set. PageCount is always ceil(Total/perPage); zero matches give
// PageCount 0, not 1.
type PageResult struct {
	Rows      []map[string]any `json:"rows"`
	Total     int64            `json:"total"`
	PageCount int64            `json:"pageCount"`
}
