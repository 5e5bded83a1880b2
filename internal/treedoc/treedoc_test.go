package treedoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const balanceSheet = `BAL SHT:
  type: Asset
  active: true
  ASSETS:
    shortdesc: Assets
    "0100": {}
    "0200":
      shortdesc: ""
  LIABS:
`

func sample() *Element {
	root := &Element{Name: "BAL SHT", Attrs: []Attr{{"type", "Asset"}, {"active", "true"}}}
	assets := root.AddChild("ASSETS")
	assets.SetAttr("shortdesc", "Assets")
	assets.AddChild("0100")
	assets.AddChild("0200").SetAttr("shortdesc", "")
	root.AddChild("LIABS")
	return root
}

var ignoreLines = cmpopts.IgnoreFields(Element{}, "Line")

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(balanceSheet))
	require.NoError(t, err)

	if diff := cmp.Diff(sample(), got, ignoreLines, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, got.Line)
	assert.Equal(t, 4, got.Children[0].Line)
}

func TestWrite(t *testing.T) {
	b, err := Marshal(sample())
	require.NoError(t, err)

	want := strings.Replace(balanceSheet, "  LIABS:\n", "  LIABS: {}\n", 1)
	assert.Equal(t, want, string(b))
}

func TestRoundTrip(t *testing.T) {
	root := &Element{Name: "7000"}
	root.SetAttr("shortdesc", "null")
	root.SetAttr("longdesc", "with: colon")
	root.SetAttr("localdesc", "123")
	child := root.AddChild("true")
	child.SetAttr("active", "false")

	b, err := Marshal(root)
	require.NoError(t, err)
	got, err := Parse(bytes.NewReader(b))
	require.NoError(t, err)

	if diff := cmp.Diff(root, got, ignoreLines, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, b)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		desc string
		doc  string
	}{
		{"empty", ""},
		{"comment only", "# nothing\n"},
		{"scalar", "just text\n"},
		{"two roots", "A: {}\nB: {}\n"},
		{"sequence", "A:\n  - B\n"},
		{"repeated attribute", "A:\n  type: Asset\n  type: Income\n"},
		{"malformed", "A:\n  B: [\n"},
		{"two documents", "A: {}\n---\nB: {}\n"},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			_, err := Parse(strings.NewReader(test.doc))
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestParseReportsTrailingSyntaxError(t *testing.T) {
	_, err := Parse(strings.NewReader("A: {}\n---\nB: [\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.NotContains(t, pe.Msg, "more than one")
	assert.Contains(t, pe.Msg, "yaml:")
}

func TestParseErrorLine(t *testing.T) {
	_, err := Parse(strings.NewReader("A:\n  B:\n    - x\n"))
	require.Error(t, err)
	assert.Equal(t, "line 3: unsupported value for \"B\": sequences and aliases are not allowed", err.Error())
}

func TestWalk(t *testing.T) {
	var names []string
	sample().Walk(func(el, parent *Element) {
		p := "-"
		if parent != nil {
			p = parent.Name
		}
		names = append(names, p+">"+el.Name)
	})
	assert.Equal(t, []string{"->BAL SHT", "BAL SHT>ASSETS", "ASSETS>0100", "ASSETS>0200", "BAL SHT>LIABS"}, names)
}
