package ports

import "context"

// Tables in the external store.
const (
	TableProfiles      = "profiles"
	TableMessages      = "messages"
	TableInsights      = "insights"
	TableVisioningDocs = "visioning_documents"
	TableBusinessPlans = "business_plans"
)

// Record is one row of the external store, keyed by column name. Every record
// carries a string "id".
type Record map[string]interface{}

// ID returns the record's id column, or "".
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// FilterOp is a comparison supported by every RecordStore.
type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpNeq FilterOp = "neq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
)

// Filter compares a column against a string value. Timestamps are compared as
// RFC3339 strings, which sort chronologically in UTC.
type Filter struct {
	Field string
	Op    FilterOp
	Value string
}

// Query selects records from one table. A zero Limit means no limit.
type Query struct {
	Filters    []Filter
	SortField  string
	Descending bool
	Limit      int
}

// Where returns a query with a single equality filter.
func Where(field, value string) Query {
	return Query{Filters: []Filter{{Field: field, Op: OpEq, Value: value}}}
}

// And appends a filter.
func (q Query) And(field string, op FilterOp, value string) Query {
	q.Filters = append(append([]Filter{}, q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// OrderBy sets the sort column and direction.
func (q Query) OrderBy(field string, descending bool) Query {
	q.SortField = field
	q.Descending = descending
	return q
}

// Take sets the limit.
func (q Query) Take(limit int) Query {
	q.Limit = limit
	return q
}

// RecordStore is the thin CRUD façade over the tabular database. There are no
// transactions, batching or caching; each call is one round-trip.
type RecordStore interface {
	// Find returns the records matching q
	Find(ctx context.Context, table string, q Query) ([]Record, error)

	// Create inserts a record and returns it as stored
	Create(ctx context.Context, table string, fields Record) (Record, error)

	// Update patches the given fields of record id; ErrRecordNotFound if absent
	Update(ctx context.Context, table, id string, fields Record) (Record, error)

	// Count returns how many records match q (Limit and sort are ignored)
	Count(ctx context.Context, table string, q Query) (int, error)
}

// HealthChecker is implemented by stores that can verify connectivity.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
