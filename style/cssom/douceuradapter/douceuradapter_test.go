package douceuradapter

import (
	"strings"
	"testing"

	"github.com/npillmayer/cssanim/style"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var sheet = `
div.moving { animation: slide 1s; }
@keyframes slide {
	from { left: 0px; }
	50%, 75% { left: 40px; top: 5px; left: 50px; }
	to { left: 100px; }
}
`

func TestKeyframesRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssom")
	defer teardown()
	//
	s, err := Parse(sheet)
	require.NoError(t, err)
	assert.Len(t, s.Rules(), 1)
	kfrs := s.KeyframesRules()
	require.Len(t, kfrs, 1)
	kfr := kfrs[0]
	assert.Equal(t, "slide", kfr.Name())
	frames := kfr.Keyframes()
	require.Len(t, frames, 3)
	assert.Len(t, frames[1].Keys(), 2)
	assert.Equal(t, []string{"left", "top"}, frames[1].Properties())
	assert.Equal(t, "50px", frames[1].Value("left").String())
	// identity is stable
	again := s.KeyframesRules()
	assert.True(t, kfr == again[0], "expected identical rule object")
}

func TestKeyframesMutation(t *testing.T) {
	s, err := Parse(sheet)
	require.NoError(t, err)
	kfr := s.KeyframesRules()[0].(*KeyframesRule)
	v := kfr.Version()
	require.NoError(t, kfr.AppendKeyframe("25%", "left: 10px"))
	assert.Equal(t, v+1, kfr.Version())
	assert.Len(t, kfr.Keyframes(), 4)
	appended := kfr.Keyframes()[3]
	assert.Equal(t, style.Property("10px"), appended.Value("left"))
	assert.True(t, kfr.DeleteKeyframe("25%"))
	assert.Equal(t, v+2, kfr.Version())
	assert.False(t, kfr.DeleteKeyframe("33%"))
}

func TestExtractStyleElements(t *testing.T) {
	doc := `<html><head><style>` + sheet + `</style></head><body><p>x</p></body></html>`
	h, err := html.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	sheets := ExtractStyleElements(h)
	require.Len(t, sheets, 1)
	assert.False(t, sheets[0].Empty())
	assert.Len(t, sheets[0].KeyframesRules(), 1)
}

func TestParseDeclarations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cssanim.cssom")
	defer teardown()
	//
	decls, err := ParseDeclarations("top: 1px; left: 5px !important")
	if err != nil {
		t.Fatal(err)
	}
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, have %d", len(decls))
	}
	if decls[1].Property != "left" || decls[1].Value != "5px" || !decls[1].Important {
		t.Errorf("expected last declaration to be 'left: 5px !important', is %v", decls[1])
	}
	decls, err = ParseDeclarations("color: ; opacity: 0")
	if err != nil {
		t.Fatal(err)
	}
	if len(decls) != 1 || decls[0].Property != "opacity" {
		t.Errorf("expected declaration without value to be dropped, have %v", decls)
	}
	if decls, _ = ParseDeclarations("   "); len(decls) != 0 {
		t.Errorf("expected no declarations for blank text, have %v", decls)
	}
}
