package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/blog-content-api/internal/store"
)

const testTable = "blog-content"

func putComment(t *testing.T, m *store.Memory, slug, ts, id, status string) {
	t.Helper()
	err := m.PutItem(context.Background(), testTable, store.Item{
		"pk":     "POST#" + slug,
		"sk":     fmt.Sprintf("COMMENT#%s#%s", ts, id),
		"id":     id,
		"status": status,
	})
	if err != nil {
		t.Fatalf("PutItem failed: %v", err)
	}
}

func putPostVersion(t *testing.T, m *store.Memory, slug, ts, status string) {
	t.Helper()
	err := m.PutItem(context.Background(), testTable, store.Item{
		"pk":     "POST#" + slug,
		"sk":     "META#" + ts,
		"gsi1pk": status,
		"gsi1sk": ts + "#" + slug,
		"slug":   slug,
		"status": status,
	})
	if err != nil {
		t.Fatalf("PutItem failed: %v", err)
	}
}

func TestMemoryQueryDescendingWithPrefix(t *testing.T) {
	m := store.NewMemory()
	putComment(t, m, "hello", "2024-01-01T10:00:00Z", "c1", "pending")
	putComment(t, m, "hello", "2024-01-02T10:00:00Z", "c2", "pending")
	putComment(t, m, "hello", "2024-01-03T10:00:00Z", "c3", "pending")
	putPostVersion(t, m, "hello", "2024-01-01T09:00:00Z", "published")
	putComment(t, m, "other", "2024-01-04T10:00:00Z", "x1", "pending")

	res, err := m.Query(context.Background(), store.Query{
		Table:      testTable,
		Partition:  "POST#hello",
		SortPrefix: "COMMENT#",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(res.Items) != 3 {
		t.Fatalf("Expected 3 comments, got %d", len(res.Items))
	}
	wantOrder := []string{"c3", "c2", "c1"}
	for i, want := range wantOrder {
		if got := res.Items[i]["id"]; got != want {
			t.Errorf("Item %d: got id %v, want %s", i, got, want)
		}
	}
	if res.LastEvaluatedKey != nil {
		t.Errorf("Expected no LastEvaluatedKey on a complete page, got %v", res.LastEvaluatedKey)
	}
}

func TestMemoryQueryAscending(t *testing.T) {
	m := store.NewMemory()
	putComment(t, m, "hello", "2024-01-01T10:00:00Z", "c1", "pending")
	putComment(t, m, "hello", "2024-01-02T10:00:00Z", "c2", "pending")

	res, err := m.Query(context.Background(), store.Query{
		Table:       testTable,
		Partition:   "POST#hello",
		SortPrefix:  "COMMENT#",
		ScanForward: true,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Items) != 2 || res.Items[0]["id"] != "c1" || res.Items[1]["id"] != "c2" {
		t.Errorf("Expected oldest-first [c1 c2], got %v", res.Items)
	}
}

func TestMemoryQueryPaginationWalk(t *testing.T) {
	m := store.NewMemory()
	putComment(t, m, "hello", "2024-01-01T10:00:00Z", "c1", "pending")
	putComment(t, m, "hello", "2024-01-02T10:00:00Z", "c2", "pending")
	putComment(t, m, "hello", "2024-01-03T10:00:00Z", "c3", "pending")

	q := store.Query{
		Table:      testTable,
		Partition:  "POST#hello",
		SortPrefix: "COMMENT#",
		Limit:      2,
	}
	first, err := m.Query(context.Background(), q)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("Expected 2 items on first page, got %d", len(first.Items))
	}
	if first.LastEvaluatedKey == nil {
		t.Fatal("Expected LastEvaluatedKey on truncated page")
	}

	q.ExclusiveStartKey = first.LastEvaluatedKey
	second, err := m.Query(context.Background(), q)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("Expected 1 item on second page, got %d", len(second.Items))
	}
	if second.Items[0]["id"] != "c1" {
		t.Errorf("Second page item = %v, want c1", second.Items[0]["id"])
	}
	if second.LastEvaluatedKey != nil {
		t.Errorf("Expected no LastEvaluatedKey on final page, got %v", second.LastEvaluatedKey)
	}
}

func TestMemoryQueryExactLimitBoundary(t *testing.T) {
	m := store.NewMemory()
	putComment(t, m, "hello", "2024-01-01T10:00:00Z", "c1", "pending")
	putComment(t, m, "hello", "2024-01-02T10:00:00Z", "c2", "pending")

	// Page size equals the result count: no continuation.
	res, err := m.Query(context.Background(), store.Query{
		Table:      testTable,
		Partition:  "POST#hello",
		SortPrefix: "COMMENT#",
		Limit:      2,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(res.Items))
	}
	if res.LastEvaluatedKey != nil {
		t.Errorf("Expected no LastEvaluatedKey when nothing remains, got %v", res.LastEvaluatedKey)
	}
}

func TestMemoryQueryFilterAfterWindow(t *testing.T) {
	m := store.NewMemory()
	putComment(t, m, "hello", "2024-01-01T10:00:00Z", "c1", "approved")
	putComment(t, m, "hello", "2024-01-02T10:00:00Z", "c2", "pending")
	putComment(t, m, "hello", "2024-01-03T10:00:00Z", "c3", "pending")

	// The window of 2 covers c3 and c2, neither approved. The filter
	// applies inside that window, so the page is empty while the
	// continuation still points past c2.
	res, err := m.Query(context.Background(), store.Query{
		Table:       testTable,
		Partition:   "POST#hello",
		SortPrefix:  "COMMENT#",
		Limit:       2,
		FilterField: "status",
		FilterValue: "approved",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Items) != 0 {
		t.Fatalf("Expected 0 approved items in first window, got %d", len(res.Items))
	}
	if res.LastEvaluatedKey == nil {
		t.Fatal("Expected LastEvaluatedKey: more unfiltered results remain")
	}

	next, err := m.Query(context.Background(), store.Query{
		Table:             testTable,
		Partition:         "POST#hello",
		SortPrefix:        "COMMENT#",
		Limit:             2,
		FilterField:       "status",
		FilterValue:       "approved",
		ExclusiveStartKey: res.LastEvaluatedKey,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(next.Items) != 1 || next.Items[0]["id"] != "c1" {
		t.Errorf("Expected [c1] on second window, got %v", next.Items)
	}
}

func TestMemoryQuerySecondaryIndex(t *testing.T) {
	m := store.NewMemory()
	putPostVersion(t, m, "alpha", "2024-01-01T00:00:00Z", "published")
	putPostVersion(t, m, "beta", "2024-02-01T00:00:00Z", "published")
	putPostVersion(t, m, "gamma", "2024-03-01T00:00:00Z", "draft")

	res, err := m.Query(context.Background(), store.Query{
		Table:     testTable,
		Index:     store.IndexGSI1,
		Partition: "published",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("Expected 2 published posts, got %d", len(res.Items))
	}
	if res.Items[0]["slug"] != "beta" || res.Items[1]["slug"] != "alpha" {
		t.Errorf("Expected newest-first [beta alpha], got %v", res.Items)
	}
}

func TestMemoryQuerySecondaryIndexSameSecondTiebreak(t *testing.T) {
	m := store.NewMemory()
	// Same publish second; the slug suffix in gsi1sk breaks the tie.
	putPostVersion(t, m, "bbb", "2024-01-01T00:00:00Z", "published")
	putPostVersion(t, m, "aaa", "2024-01-01T00:00:00Z", "published")

	res, err := m.Query(context.Background(), store.Query{
		Table:     testTable,
		Index:     store.IndexGSI1,
		Partition: "published",
		Limit:     1,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0]["slug"] != "bbb" {
		t.Fatalf("Expected bbb first (descending slug tiebreak), got %v", res.Items)
	}

	next, err := m.Query(context.Background(), store.Query{
		Table:             testTable,
		Index:             store.IndexGSI1,
		Partition:         "published",
		Limit:             1,
		ExclusiveStartKey: res.LastEvaluatedKey,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(next.Items) != 1 || next.Items[0]["slug"] != "aaa" {
		t.Fatalf("Expected aaa on second page, got %v", next.Items)
	}
}

func TestMemoryPutItemReplacesSameKey(t *testing.T) {
	m := store.NewMemory()
	putComment(t, m, "hello", "2024-01-01T10:00:00Z", "c1", "pending")
	putComment(t, m, "hello", "2024-01-01T10:00:00Z", "c1", "approved")

	res, err := m.Query(context.Background(), store.Query{
		Table:      testTable,
		Partition:  "POST#hello",
		SortPrefix: "COMMENT#",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("Expected 1 item after replace, got %d", len(res.Items))
	}
	if res.Items[0]["status"] != "approved" {
		t.Errorf("Expected replaced status approved, got %v", res.Items[0]["status"])
	}
}
