package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Store. It is the reference implementation of the
// contract's query semantics and the drop-in test double, so the content
// layer can be exercised without a live database.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]map[string]Item // table -> pk+"\x00"+sk -> item
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]map[string]Item)}
}

// PutItem inserts or replaces the item identified by its pk/sk pair.
func (m *Memory) PutItem(_ context.Context, table string, item Item) error {
	pk, _ := item[AttrPK].(string)
	sk, _ := item[AttrSK].(string)

	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.tables[table]
	if items == nil {
		items = make(map[string]Item)
		m.tables[table] = items
	}

	stored := make(Item, len(item))
	for k, v := range item {
		stored[k] = v
	}
	items[pk+"\x00"+sk] = stored
	return nil
}

// Query returns one page of items matching the key condition, ordered by
// the sort attribute (sk tiebreak on the index), honoring resume keys and
// applying the equality filter after the window is cut.
func (m *Memory) Query(_ context.Context, q Query) (*Result, error) {
	pkAttr, skAttr := keyAttrs(q.Index)

	m.mu.RLock()
	var matched []Item
	for _, item := range m.tables[q.Table] {
		part, _ := item[pkAttr].(string)
		sortVal, ok := item[skAttr].(string)
		if part != q.Partition || !ok {
			continue
		}
		if q.SortPrefix != "" && !strings.HasPrefix(sortVal, q.SortPrefix) {
			continue
		}
		matched = append(matched, item)
	}
	m.mu.RUnlock()

	// Total order: sort attribute first, base sk as tiebreak for index
	// queries where sort values can collide.
	less := func(a, b Item) bool {
		as, _ := a[skAttr].(string)
		bs, _ := b[skAttr].(string)
		if as != bs {
			return as < bs
		}
		ask, _ := a[AttrSK].(string)
		bsk, _ := b[AttrSK].(string)
		return ask < bsk
	}
	sort.Slice(matched, func(i, j int) bool {
		if q.ScanForward {
			return less(matched[i], matched[j])
		}
		return less(matched[j], matched[i])
	})

	// Resume strictly past the exclusive start key in scan order.
	if start := q.ExclusiveStartKey; start != nil {
		resume := Item{skAttr: start[skAttr], AttrSK: start[AttrSK]}
		kept := matched[:0]
		for _, item := range matched {
			past := less(resume, item)
			if !q.ScanForward {
				past = less(item, resume)
			}
			if past {
				kept = append(kept, item)
			}
		}
		matched = kept
	}

	result := &Result{}
	page := matched
	if q.Limit > 0 && len(matched) > q.Limit {
		page = matched[:q.Limit]
		result.LastEvaluatedKey = itemKey(page[len(page)-1], q.Index)
	}

	for _, item := range page {
		if q.FilterField != "" {
			v, _ := item[q.FilterField].(string)
			if v != q.FilterValue {
				continue
			}
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// itemKey extracts the resume key for an item. Index queries carry the
// index key attributes alongside the primary key, mirroring DynamoDB's
// LastEvaluatedKey shape.
func itemKey(item Item, index string) Key {
	key := Key{}
	pk, _ := item[AttrPK].(string)
	sk, _ := item[AttrSK].(string)
	key[AttrPK] = pk
	key[AttrSK] = sk
	if index == IndexGSI1 {
		gpk, _ := item[AttrGSI1PK].(string)
		gsk, _ := item[AttrGSI1SK].(string)
		key[AttrGSI1PK] = gpk
		key[AttrGSI1SK] = gsk
	}
	return key
}
