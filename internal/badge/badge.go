package badge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Badge is one of the fixed labels a merchant can put on a product.
type Badge string

const (
	New        Badge = "new"
	BestSeller Badge = "bestseller"
	Limited    Badge = "limited"
)

// Option is a selectable badge as shown in the admin page.
type Option struct {
	Label string `json:"label"`
	Value Badge  `json:"value"`
}

// Options lists the supported badges in display order.
var Options = []Option{
	{Label: "New Arrival", Value: New},
	{Label: "Best Seller", Value: BestSeller},
	{Label: "Limited Stock", Value: Limited},
}

// Label returns the display label for a badge value, or the value itself.
func Label(value string) string {
	for _, o := range Options {
		if string(o.Value) == value {
			return o.Label
		}
	}
	return value
}

var (
	ErrMissingInput  = errors.New("missing product ID or badge")
	ErrTooManyBadges = errors.New("only one badge can be saved for this product field")
)

// InvalidBadgeError reports a value outside the supported badges.
type InvalidBadgeError struct {
	Value string
}

func (e *InvalidBadgeError) Error() string {
	return fmt.Sprintf("unknown badge %q", e.Value)
}

// Selection is the badge field of a submission. It accepts either a single
// JSON string or an array of strings.
type Selection []string

func (s *Selection) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("badge must be a string or a list of strings: %w", err)
	}
	*s = Selection{single}
	return nil
}

// normalize trims values, drops blanks and duplicates, keeping first-seen order.
func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Format is how the selection is serialized into the metafield.
type Format string

const (
	FormatSingle Format = "single"
	FormatList   Format = "list"
)

// Namespace is the metafield namespace every badge write uses.
const Namespace = "custom"

const (
	typeSingleLine     = "single_line_text_field"
	typeSingleLineList = "list.single_line_text_field"
)

// Definition identifies the product metafield badges are written to.
type Definition struct {
	Namespace string
	Key       string
	Format    Format
}

// NewDefinition returns the definition for the given key and format name
// ("single" or "list"); anything but "single" selects the list format.
func NewDefinition(key, format string) Definition {
	f := FormatList
	if Format(format) == FormatSingle {
		f = FormatSingle
	}
	return Definition{Namespace: Namespace, Key: key, Format: f}
}

// Type returns the Shopify metafield type for the definition format.
func (s Definition) Type() string {
	if s.Format == FormatSingle {
		return typeSingleLine
	}
	return typeSingleLineList
}

// Metafield is one metafieldsSet entry.
type Metafield struct {
	OwnerID   string `json:"ownerId"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// Build serializes badges into a metafield owned by ownerID.
func (s Definition) Build(ownerID string, badges []string) (Metafield, error) {
	m := Metafield{
		OwnerID:   ownerID,
		Namespace: s.Namespace,
		Key:       s.Key,
		Type:      s.Type(),
	}
	if s.Format == FormatSingle {
		if len(badges) != 1 {
			return Metafield{}, ErrTooManyBadges
		}
		m.Value = badges[0]
		return m, nil
	}

	raw, err := json.Marshal(badges)
	if err != nil {
		return Metafield{}, fmt.Errorf("marshal badges: %w", err)
	}
	m.Value = string(raw)
	return m, nil
}

// DecodeValue reads a stored metafield value back into badge values. List
// values are JSON arrays; anything else is treated as a single badge.
func DecodeValue(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	return []string{raw}
}
