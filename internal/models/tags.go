package models

import (
	"encoding/json"
	"strings"
)

// TagList is a tag set that unmarshals from either a JSON array
// (["aws","serverless"]) or a single comma-separated string
// ("aws, serverless"). Entries are trimmed and empties dropped.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler
func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = cleanTags(list)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = cleanTags(strings.Split(single, ","))
		return nil
	}

	// Anything else (null, number, object) degrades to no tags.
	*t = nil
	return nil
}

func cleanTags(raw []string) []string {
	var tags []string
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
