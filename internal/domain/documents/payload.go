package documents

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"docengine/internal/core/entity"
	"docengine/internal/core/id"
	"docengine/internal/core/types"
	"docengine/internal/domain/documents/waybill"
	"docengine/pkg/smartnum"
)

var indexedItemRE = regexp.MustCompile(`^items\[(\d+)\]\[([A-Za-z0-9_]+)\]$`)

// itemFields are the priced-item keys that make a row worth keeping.
var itemFields = []string{"product_service", "description", "quantity", "unit_price"}

// ItemInput is one submitted item row.
type ItemInput = waybill.RowInput

// itemIDKey carries the id of an existing row through a form or JSON post.
const itemIDKey = "id"

// ParseIndexedItems collects items[i][field] form values into an ordered
// list. Indices may be sparse; the result follows ascending index and each
// row keeps the index it was posted with.
func ParseIndexedItems(values map[string][]string) []ItemInput {
	byIndex := map[int]*ItemInput{}
	for key, vals := range values {
		m := indexedItemRE.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		row, ok := byIndex[idx]
		if !ok {
			row = &ItemInput{Index: idx, Values: map[string]string{}}
			byIndex[idx] = row
		}
		if m[2] == itemIDKey {
			row.ID = strings.TrimSpace(vals[len(vals)-1])
			continue
		}
		row.Values[m[2]] = vals[len(vals)-1]
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]ItemInput, 0, len(indices))
	for _, idx := range indices {
		out = append(out, *byIndex[idx])
	}
	return out
}

// NormalizeJSONItems converts a decoded JSON item array to the string form
// used by form posts. The array position is the row index.
func NormalizeJSONItems(items []map[string]any) []ItemInput {
	out := make([]ItemInput, 0, len(items))
	for i, item := range items {
		row := ItemInput{Index: i, Values: make(map[string]string, len(item))}
		for k, v := range item {
			if k == itemIDKey {
				row.ID = strings.TrimSpace(entity.Stringify(v))
				continue
			}
			row.Values[snakeKey(k)] = entity.Stringify(v)
		}
		out = append(out, row)
	}
	return out
}

// snakeKey accepts the camelCase names of the JSON API ("unitPrice").
func snakeKey(k string) string {
	var b strings.Builder
	for i, r := range k {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CustomFormValues picks the custom_ and pref_ keys of a form post.
func CustomFormValues(values map[string][]string) map[string]string {
	out := map[string]string{}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if strings.HasPrefix(key, "custom_") || strings.HasPrefix(key, "pref_") {
			out[key] = vals[len(vals)-1]
		}
	}
	return out
}

// BuildItems turns submitted rows into priced items. A row is kept iff any
// of product_service, description, quantity or unit_price is non-blank.
// A blank quantity on a kept row counts as 1. Quantity and unit price are
// stored at money scale, so line totals are computed from the stored values.
// Rows naming one of existing keep that id; every other row gets a new one.
func BuildItems(documentID id.ID, raw []ItemInput, existing []Item) []Item {
	ids := newItemIDs(existing)
	items := make([]Item, 0, len(raw))
	for _, row := range raw {
		if !keepRow(row.Values) {
			continue
		}
		qty := decimal.NewFromInt(1)
		if !smartnum.IsBlank(row.Values["quantity"]) {
			qty = smartnum.Parse(row.Values["quantity"])
		}
		items = append(items, Item{
			ID:             ids.claim(row.ID),
			DocumentID:     documentID,
			RowOrder:       row.Index,
			ProductService: strings.TrimSpace(row.Values["product_service"]),
			Description:    strings.TrimSpace(row.Values["description"]),
			Quantity:       types.RoundMoney(qty),
			UnitPrice:      types.RoundMoney(smartnum.Parse(row.Values["unit_price"])),
		})
	}
	return items
}

func keepRow(row map[string]string) bool {
	for _, f := range itemFields {
		if strings.TrimSpace(row[f]) != "" {
			return true
		}
	}
	return false
}

// WaybillItems turns waybill rows into items carrying ItemData.
func WaybillItems(documentID id.ID, rows []waybill.Row, existing []Item) []Item {
	ids := newItemIDs(existing)
	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{
			ID:         ids.claim(r.ID),
			DocumentID: documentID,
			RowOrder:   r.RowOrder,
			Quantity:   types.Zero(),
			UnitPrice:  types.Zero(),
			ItemData:   r.Data,
		})
	}
	return items
}

// itemIDs hands out the ids of a document's current rows, each at most once.
type itemIDs map[id.ID]struct{}

func newItemIDs(existing []Item) itemIDs {
	ids := make(itemIDs, len(existing))
	for _, it := range existing {
		ids[it.ID] = struct{}{}
	}
	return ids
}

// claim returns the submitted id when it belongs to the document and has not
// been used by an earlier row, otherwise a fresh one.
func (ids itemIDs) claim(raw string) id.ID {
	if raw != "" {
		if parsed, err := id.Parse(raw); err == nil {
			if _, ok := ids[parsed]; ok {
				delete(ids, parsed)
				return parsed
			}
		}
	}
	return id.New()
}
