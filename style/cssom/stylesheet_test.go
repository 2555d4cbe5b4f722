package cssom

import (
	"testing"

	"github.com/npillmayer/cssanim/style/css"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyframeKeys(t *testing.T) {
	keys, err := ParseKeyframeKeys("from, 50%, to")
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, 0.0, keys[0].Offset.Percent())
	assert.Equal(t, 50.0, keys[1].Offset.Percent())
	assert.Equal(t, 100.0, keys[2].Offset.Percent())
	keys, err = ParseKeyframeKeys("entry 25%")
	require.NoError(t, err)
	assert.Equal(t, css.RangeEntry, keys[0].Name)
	_, err = ParseKeyframeKeys("120%")
	assert.Error(t, err)
	_, err = ParseKeyframeKeys("10px")
	assert.Error(t, err)
}
