package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes_ScanKeepsNumberDigits(t *testing.T) {
	var a Attributes
	require.NoError(t, a.Scan([]byte(`{"sender_info":{"weight":12.50,"sender_name":"Alice"}}`)))

	section := a.GetMap("sender_info")
	require.NotNil(t, section)
	assert.Equal(t, "12.50", section.GetString("weight"))
	assert.Equal(t, "Alice", section.GetString("sender_name"))
	assert.Equal(t, "", section.GetString("missing"))
}

func TestAttributes_ValueOfNilIsEmptyObject(t *testing.T) {
	var a Attributes
	v, err := a.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
}

func TestAttributes_CloneIsDeep(t *testing.T) {
	orig := Attributes{"s": map[string]any{"f": "x"}}
	cp := orig.Clone()
	cp.GetMap("s")["f"] = "y"

	assert.Equal(t, "x", orig.GetMap("s").GetString("f"))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "5", Stringify(json.Number("5")))
	assert.Equal(t, "2.5", Stringify(2.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, `["a"]`, Stringify([]any{"a"}))
}
