// Package waybill maps flat waybill form input onto the template-declared
// schema and back.
//
// Stored custom data has the shape
//
//	{ section_key: { field_key: value, ... }, user_preferences: {...} }
//
// Keys the current schema does not know are kept, so data survives edits
// of the template.
package waybill

import (
	"sort"
	"strings"

	"docengine/internal/core/entity"
	"docengine/internal/domain/templates"
)

const (
	customPrefix = "custom_"
	prefPrefix   = "pref_"

	// PreferencesKey holds per-document display preferences.
	PreferencesKey = "user_preferences"
)

// GroupCustomFields folds flat form values into nested custom data.
//
// A key custom_{section}_{field} is assigned to the longest section key of
// the schema that matches; keys of unknown sections are split at the first
// underscore. pref_{name} keys go to user_preferences. Values already in
// previous and not overwritten by form are kept.
func GroupCustomFields(sections templates.Sections, form map[string]string, previous entity.Attributes) entity.Attributes {
	data := previous.Clone()
	if data == nil {
		data = entity.Attributes{}
	}

	known := make([]string, 0, len(sections))
	for k := range sections {
		known = append(known, k)
	}
	// Longest first so "shipment_info" wins over "shipment".
	sort.Slice(known, func(i, j int) bool { return len(known[i]) > len(known[j]) })

	for key, value := range form {
		if name, ok := strings.CutPrefix(key, prefPrefix); ok && name != "" {
			section(data, PreferencesKey)[name] = value
			continue
		}

		rest, ok := strings.CutPrefix(key, customPrefix)
		if !ok || rest == "" {
			continue
		}

		sectionKey, fieldKey := splitKey(known, rest)
		if sectionKey == "" || fieldKey == "" {
			continue
		}
		section(data, sectionKey)[fieldKey] = value
	}
	return data
}

func splitKey(known []string, rest string) (sectionKey, fieldKey string) {
	for _, k := range known {
		if f, ok := strings.CutPrefix(rest, k+"_"); ok && f != "" {
			return k, f
		}
	}
	sectionKey, fieldKey, _ = strings.Cut(rest, "_")
	return sectionKey, fieldKey
}

func section(data entity.Attributes, key string) map[string]any {
	switch m := data[key].(type) {
	case map[string]any:
		return m
	case entity.Attributes:
		return m
	}
	m := map[string]any{}
	data[key] = m
	return m
}

// GetCustomFieldValue returns the stored value of section.field, or "".
func GetCustomFieldValue(data entity.Attributes, sectionKey, fieldKey string) string {
	return data.GetMap(sectionKey).GetString(fieldKey)
}

// RowInput is one submitted item row. Index is the position the client
// sent it at (items[Index][...]); ID names an existing row being edited.
type RowInput struct {
	Index  int
	ID     string
	Values map[string]string
}

// Row is one stored item row.
type Row struct {
	RowOrder int
	ID       string
	Data     entity.Attributes
}

// BuildRows turns submitted item maps into stored rows. A row is kept iff
// any of its values is non-blank; blank values are dropped. RowOrder is the
// row's submitted index, so gaps in the indices survive.
func BuildRows(raw []RowInput) []Row {
	rows := make([]Row, 0, len(raw))
	for _, item := range raw {
		data := entity.Attributes{}
		for k, v := range item.Values {
			if strings.TrimSpace(v) == "" {
				continue
			}
			data[k] = strings.TrimSpace(v)
		}
		if len(data) == 0 {
			continue
		}
		rows = append(rows, Row{RowOrder: item.Index, ID: item.ID, Data: data})
	}
	return rows
}
