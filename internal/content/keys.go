package content

import (
	"strings"
	"time"
)

// Reserved key tokens. Slug normalization strips '#', so no user-supplied
// field can forge one of these prefixes.
const (
	postPartitionPrefix = "POST#"
	metaSortPrefix      = "META#"
	commentSortPrefix   = "COMMENT#"
)

// timestampLayout renders UTC timestamps at whole-second precision so that
// lexicographic order on sort keys equals chronological order. Sub-second
// precision is deliberately given up for sortability without a custom
// comparator.
const timestampLayout = "2006-01-02T15:04:05Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timestampLayout)
}

func postPartition(slug string) string {
	return postPartitionPrefix + slug
}

// postVersionKey addresses one immutable version of a post. All versions of
// a slug share a partition; the greatest sort key is the current version.
func postVersionKey(slug, ts string) (pk, sk string) {
	return postPartition(slug), metaSortPrefix + ts
}

// commentKey addresses one comment: timestamp first for chronological
// ordering, the random id as tiebreaker for same-second collisions.
func commentKey(slug, ts, id string) (pk, sk string) {
	return postPartition(slug), commentSortPrefix + ts + "#" + id
}

// publishedIndexKey builds the secondary-ordering key for post listings:
// partition by status, sort by recency with the slug as a deterministic
// same-second tiebreak.
func publishedIndexKey(status, publishedAt, slug string) (gsi1pk, gsi1sk string) {
	return status, publishedAt + "#" + slug
}

func isMetaSort(sk string) bool {
	return strings.HasPrefix(sk, metaSortPrefix)
}

func isCommentSort(sk string) bool {
	return strings.HasPrefix(sk, commentSortPrefix)
}
