package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "  Tom   Hanks \n", expected: "Tom Hanks"},
		{input: "Tom Hanks", expected: "Tom Hanks"},
		{input: "Lupita Nyong&#39;o", expected: "Lupita Nyong'o"},
		{input: "Lupita Nyong&amp;#39;o", expected: "Lupita Nyong'o"},
		{input: "Pen&eacute;lope\tCruz", expected: "Penélope Cruz"},
		{input: "\x00Meryl\x07 Streep", expected: "Meryl Streep"},
		{input: "", expected: ""},
		{input: " \n\t ", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, CleanText(test.input), test.input)
	}
}

func TestStripOrdinal(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "1. Tom Hanks", expected: "Tom Hanks"},
		{input: "100.  Meryl Streep", expected: "Meryl Streep"},
		{input: "Tom Hanks", expected: "Tom Hanks"},
		{input: "50 Cent", expected: "50 Cent"},
		{input: "2.", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, StripOrdinal(test.input), test.input)
	}
}

func TestLeadingInt(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		ok       bool
	}{
		{input: "1.", expected: 1, ok: true},
		{input: " 12. Meryl Streep", expected: 12, ok: true},
		{input: "#3", ok: false},
		{input: "", ok: false},
	}

	for _, test := range testCases {
		value, ok := LeadingInt(test.input)
		require.Equal(t, test.ok, ok, test.input)
		require.Equal(t, test.expected, value, test.input)
	}
}

func TestSelectionText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
<div class="bio"><p>Born in Concord,</p><p>California.</p><script>var x = 1;</script></div>`))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Born in Concord, California.", SelectionText(doc.Find("div.bio")))
	require.Equal(t, "", SelectionText(doc.Find("div.missing")))
}

func TestOrdinal(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		ok       bool
	}{
		{input: "3. Denzel Washington", expected: 3, ok: true},
		{input: " 10.Meryl Streep", expected: 10, ok: true},
		{input: "50 Cent", ok: false},
		{input: "Tom Hanks", ok: false},
	}

	for _, test := range testCases {
		value, ok := Ordinal(test.input)
		require.Equal(t, test.ok, ok, test.input)
		require.Equal(t, test.expected, value, test.input)
	}
}
