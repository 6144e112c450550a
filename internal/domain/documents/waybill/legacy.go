package waybill

import (
	"docengine/internal/core/entity"
)

// legacyKeys maps flat keys of early waybills to their section and field.
var legacyKeys = map[string][2]string{
	"sender_name":       {"sender_info", "sender_name"},
	"sender_address":    {"sender_info", "sender_address"},
	"sender_phone":      {"sender_info", "sender_phone"},
	"recipient_name":    {"receiver_info", "receiver_name"},
	"recipient_address": {"receiver_info", "receiver_address"},
	"recipient_phone":   {"receiver_info", "receiver_phone"},
	"receiver_name":     {"receiver_info", "receiver_name"},
	"receiver_address":  {"receiver_info", "receiver_address"},
	"receiver_phone":    {"receiver_info", "receiver_phone"},
	"shipment_date":     {"shipment_info", "shipment_date"},
	"vehicle_number":    {"shipment_info", "vehicle_number"},
	"driver_name":       {"shipment_info", "driver_name"},
	"driver_phone":      {"shipment_info", "driver_phone"},
}

// MigrateLegacy rewrites a flat payload into the nested layout. It returns
// the migrated data and whether anything changed. Values already present
// in the nested layout win over flat ones.
func MigrateLegacy(data entity.Attributes) (entity.Attributes, bool) {
	if len(data) == 0 {
		return data, false
	}

	out := data.Clone()
	changed := false
	for flat, target := range legacyKeys {
		raw, ok := out[flat]
		if !ok {
			continue
		}
		if _, nested := raw.(map[string]any); nested {
			continue
		}
		delete(out, flat)
		changed = true

		sec := section(out, target[0])
		if existing, ok := sec[target[1]]; ok && entity.Stringify(existing) != "" {
			continue
		}
		sec[target[1]] = entity.Stringify(raw)
	}
	return out, changed
}
