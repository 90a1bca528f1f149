package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_ValueScan(t *testing.T) {
	in := FromStrings(map[string]string{"visitorName": "Karim Haddad"})
	in.Set("hours", 48)

	raw, err := in.Value()
	require.NoError(t, err)

	var out JSONMap
	require.NoError(t, out.Scan(raw))
	assert.Equal(t, "Karim Haddad", out.GetString("visitorName"))
	assert.Equal(t, "48", out.GetString("hours"))
	assert.Equal(t, map[string]string{"visitorName": "Karim Haddad", "hours": "48"}, out.StringMap())
}

func TestJSONMap_NilAndBadInput(t *testing.T) {
	var empty JSONMap
	raw, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), raw)

	var out JSONMap
	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
	assert.ErrorIs(t, out.Scan(42), ErrScanValueNotBytes)

	out.SetIfAbsent("a", "1")
	out.SetIfAbsent("a", "2")
	assert.Equal(t, "1", out.GetString("a"))
}
