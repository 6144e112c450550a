package doctype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pkgnum "docengine/pkg/numerator"
)

func TestRegistryIsComplete(t *testing.T) {
	for _, typ := range All() {
		info, ok := Lookup(typ)
		assert.True(t, ok, typ)
		assert.True(t, info.HasStatus(info.DefaultStatus), typ)
		assert.NotEmpty(t, info.DefaultPrefix, typ)

		back, ok := FromSlug(info.Slug)
		assert.True(t, ok)
		assert.Equal(t, typ, back)
	}
}

func TestNumberConfig(t *testing.T) {
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	inv := MustLookup(Invoice).NumberConfig("")
	assert.Equal(t, "INV-2024-03-0001", pkgnum.Format(inv, march, 1, ""))

	wb := MustLookup(Waybill).NumberConfig("")
	assert.Equal(t, "WB-2024-0001", pkgnum.Format(wb, march, 1, ""))

	custom := MustLookup(Quotation).NumberConfig("EST")
	assert.Equal(t, "EST-2024-03-0009", pkgnum.Format(custom, march, 9, ""))
}

func TestHasStatus(t *testing.T) {
	assert.True(t, MustLookup(Waybill).HasStatus("awaiting_pickup"))
	assert.False(t, MustLookup(Invoice).HasStatus("draft"))
	assert.False(t, Type("memo").Valid())
}
