package repo

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/neuronotes/internal/domain"
)

// encodeTags rejects invalid UTF-8, which json.Marshal would silently replace.
func encodeTags(tags domain.Tags) (string, error) {
	if tags == nil {
		tags = domain.Tags{}
	}
	for _, tag := range tags {
		if !utf8.ValidString(tag) {
			return "", fmt.Errorf("tag %q is not valid UTF-8", tag)
		}
	}
	b, err := json.Marshal([]string(tags))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeTags never fails: empty, null or malformed column values read as no tags.
func decodeTags(raw string) domain.Tags {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Tags{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return domain.Tags{}
	}
	return domain.Tags(out)
}
