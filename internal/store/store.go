// Package store defines the range-queryable key-value contract the content
// layer is written against, plus the backends that implement it: an
// in-memory map, PostgreSQL, and DynamoDB. Items live in a single wide
// table addressed by a partition key and a sort key; secondary orderings go
// through the gsi1 index attributes.
package store

import "context"

// Key attribute names shared by every backend.
const (
	AttrPK     = "pk"
	AttrSK     = "sk"
	AttrGSI1PK = "gsi1pk"
	AttrGSI1SK = "gsi1sk"
)

// IndexGSI1 is the secondary index over gsi1pk/gsi1sk.
const IndexGSI1 = "GSI1"

// Item is one stored record: key attributes plus entity fields.
type Item map[string]any

// Key is a resume point for a paginated query. All key attributes are
// strings, which keeps cursor round-trips exact.
type Key map[string]string

// Query describes one range query. The key condition, scan direction and
// Limit define the pagination window; the optional equality filter applies
// to the returned page after the window is cut, so a filtered page may hold
// fewer than Limit items while LastEvaluatedKey still reflects the
// unfiltered window.
type Query struct {
	Table      string
	Index      string // "" = base table, IndexGSI1 = secondary ordering
	Partition  string // partition key value (pk, or gsi1pk when Index is set)
	SortPrefix string // begins_with condition on the sort key; "" = whole partition

	ScanForward bool // false = descending, newest first
	Limit       int  // <= 0 means no explicit limit

	FilterField string // optional equality filter attribute, e.g. "status"
	FilterValue string

	ExclusiveStartKey Key // resume after this key; nil = first page
}

// Result is one page of query results. LastEvaluatedKey is non-nil exactly
// when more results remain past this page.
type Result struct {
	Items            []Item
	LastEvaluatedKey Key
}

// Store is the three-operation contract the content layer consumes. Writes
// are single atomic point-inserts; queries return one page in sort-key
// order.
type Store interface {
	PutItem(ctx context.Context, table string, item Item) error
	Query(ctx context.Context, q Query) (*Result, error)
}

// keyAttrs returns the partition and sort attribute names for a query's
// target index.
func keyAttrs(index string) (string, string) {
	if index == IndexGSI1 {
		return AttrGSI1PK, AttrGSI1SK
	}
	return AttrPK, AttrSK
}
