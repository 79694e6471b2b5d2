package imdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"topactors-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Shape is the markup layout a list page was extracted from.
type Shape int

const (
	SHAPE_NONE Shape = iota
	SHAPE_JSON_LD
	SHAPE_LISTER_ITEM
	SHAPE_SUMMARY_ITEM
)

func (s Shape) String() string {
	switch s {
	case SHAPE_JSON_LD:
		return "json-ld"
	case SHAPE_LISTER_ITEM:
		return "lister-item"
	case SHAPE_SUMMARY_ITEM:
		return "summary-item"
	}
	return "none"
}

// RawItem is an item of a list page before it becomes an actor.Record.
type RawItem struct {
	Rank int
	Name string
	// ExternalID is the "nm..." id found in the profile link, empty if there was none.
	ExternalID string
	// Summary is the biography shown inline on the list page, if any.
	Summary    string
	ProfileURL string
	ImageURL   string
}

type Extraction struct {
	Shape Shape
	Items []RawItem
}

type strategy struct {
	shape   Shape
	extract func(doc *goquery.Document, base *url.URL) []RawItem
}

// strategies are tried in order, the first one to produce at least one item wins.
var strategies = []strategy{
	{shape: SHAPE_JSON_LD, extract: extractJsonLd},
	{shape: SHAPE_LISTER_ITEM, extract: extractListerItems},
	{shape: SHAPE_SUMMARY_ITEM, extract: extractSummaryItems},
}

// Extract pulls the ranked items out of a list page. `base` is used to resolve relative
// profile links and may be nil. The only error returned is if the document cannot be parsed
// at all, a document with no recognizable items returns SHAPE_NONE.
func Extract(r io.Reader, base *url.URL) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Extraction{}, fmt.Errorf("parse list page: %w", err)
	}
	return ExtractDocument(doc, base), nil
}

func ExtractDocument(doc *goquery.Document, base *url.URL) Extraction {
	for _, s := range strategies {
		items := s.extract(doc, base)
		if len(items) > 0 {
			return Extraction{Shape: s.shape, Items: items}
		}
	}
	return Extraction{Shape: SHAPE_NONE}
}

var externalIdRegex = regexp.MustCompile(`/name/(nm\d+)`)

// ExternalIdFromUrl returns the "nm..." id in a profile link.
func ExternalIdFromUrl(link string) string {
	groups := externalIdRegex.FindStringSubmatch(link)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}

type rawFields struct {
	// rankLabel is an explicit index field like "1." or a json-ld position
	rankLabel string
	name      string
	href      string
	summary   string
	image     string
}

// buildItem cleans the fields of a discovered container, `position` is the 1-based
// discovery order which is used as the rank if no explicit one exists.
func buildItem(position int, f rawFields, base *url.URL) (RawItem, bool) {
	rawName := htmlutil.CleanText(f.name)
	name := htmlutil.StripOrdinal(rawName)
	if name == "" {
		return RawItem{}, false
	}

	rank, ok := htmlutil.LeadingInt(f.rankLabel)
	if !ok {
		rank, ok = htmlutil.Ordinal(rawName)
	}
	if !ok || rank <= 0 {
		rank = position
	}

	profile := resolve(base, f.href)
	return RawItem{
		Rank:       rank,
		Name:       name,
		ExternalID: ExternalIdFromUrl(profile),
		Summary:    htmlutil.CleanText(f.summary),
		ProfileURL: profile,
		ImageURL:   resolve(base, f.image),
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func imageSrc(sel *goquery.Selection) string {
	img := sel.Find("img").First()
	return firstNonEmpty(img.AttrOr("loadlate", ""), img.AttrOr("src", ""))
}

func extractListerItems(doc *goquery.Document, base *url.URL) []RawItem {
	var items []RawItem
	doc.Find("div.lister-item").Each(func(i int, node *goquery.Selection) {
		profile := node.Find(`a[href*="/name/nm"]`).First()
		anchor := node.Find("h3 a").First()
		if anchor.Length() == 0 {
			anchor = profile
		}
		summary := htmlutil.SelectionText(node.Find(".lister-item-content > p:not(.text-muted)"))
		if summary == "" {
			summary = htmlutil.SelectionText(node.Find("p.text-small"))
		}

		item, ok := buildItem(i+1, rawFields{
			rankLabel: node.Find(".lister-item-index").First().Text(),
			name:      anchor.Text(),
			// the name link is not always the profile link
			href:      firstNonEmpty(profile.AttrOr("href", ""), anchor.AttrOr("href", "")),
			summary:   summary,
			image:     imageSrc(node),
		}, base)
		if ok {
			items = append(items, item)
		}
	})
	return items
}

func extractSummaryItems(doc *goquery.Document, base *url.URL) []RawItem {
	var items []RawItem
	doc.Find("li.ipc-metadata-list-summary-item").Each(func(i int, node *goquery.Selection) {
		profile := node.Find(`a[href*="/name/nm"]`)
		title := node.Find(".ipc-title__text").First().Text()

		name := title
		if htmlutil.StripOrdinal(htmlutil.CleanText(name)) == "" {
			name = profile.Last().Text()
		}
		summary := htmlutil.SelectionText(node.Find(".ipc-html-content-inner-div"))
		if summary == "" {
			summary = htmlutil.SelectionText(node.Find(`[data-testid="dli-bio"]`))
		}
		image := node.Find("img.ipc-image").First()

		item, ok := buildItem(i+1, rawFields{
			name:      name,
			href:      profile.First().AttrOr("href", ""),
			summary:   summary,
			image:     firstNonEmpty(image.AttrOr("src", ""), imageSrc(node)),
		}, base)
		if ok {
			items = append(items, item)
		}
	})
	return items
}

func extractJsonLd(doc *goquery.Document, base *url.URL) []RawItem {
	var items []RawItem
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		if len(items) > 0 {
			return
		}
		var data any
		err := json.Unmarshal([]byte(script.Text()), &data)
		if err != nil {
			return
		}
		for _, list := range findItemLists(data) {
			items = append(items, itemsFromItemList(list, base)...)
			if len(items) > 0 {
				break
			}
		}
	})
	// positions in json-ld are not guaranteed to be in document order
	slices.SortStableFunc(items, func(a, b RawItem) int {
		return a.Rank - b.Rank
	})
	return items
}

func hasType(node map[string]any, expected string) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == expected
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == expected {
				return true
			}
		}
	}
	return false
}

func findItemLists(data any) []map[string]any {
	var lists []map[string]any
	switch v := data.(type) {
	case map[string]any:
		if hasType(v, "ItemList") {
			return []map[string]any{v}
		}
		for _, key := range objectKeys(v) {
			lists = append(lists, findItemLists(v[key])...)
		}
	case []any:
		for _, child := range v {
			lists = append(lists, findItemLists(child)...)
		}
	}
	return lists
}

// objectKeys orders the keys of a json-ld object so the first list found is always the
// same one: "@graph", then "mainEntity", then the rest alphabetically.
func objectKeys(node map[string]any) []string {
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if d := jsonKeyPriority(a) - jsonKeyPriority(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return keys
}

func jsonKeyPriority(key string) int {
	switch key {
	case "@graph":
		return 0
	case "mainEntity":
		return 1
	}
	return 2
}

func jsonString(node map[string]any, key string) string {
	switch v := node[key].(type) {
	case string:
		return v
	case map[string]any:
		// ex. "image": {"@type": "ImageObject", "url": "..."}
		if u, ok := v["url"].(string); ok {
			return u
		}
	}
	return ""
}

func jsonPosition(node map[string]any) string {
	switch v := node["position"].(type) {
	case float64:
		return strconv.Itoa(int(v))
	case string:
		return v
	}
	return ""
}

func itemsFromItemList(list map[string]any, base *url.URL) []RawItem {
	elements, ok := list["itemListElement"].([]any)
	if !ok {
		return nil
	}

	var items []RawItem
	for i, e := range elements {
		element, ok := e.(map[string]any)
		if !ok {
			continue
		}
		inner, ok := element["item"].(map[string]any)
		if !ok {
			inner = element
		}

		item, ok := buildItem(i+1, rawFields{
			rankLabel: jsonPosition(element),
			name:      firstNonEmpty(jsonString(inner, "name"), jsonString(element, "name")),
			href:      firstNonEmpty(jsonString(inner, "url"), jsonString(element, "url")),
			summary:   firstNonEmpty(jsonString(inner, "description"), jsonString(element, "description")),
			image:     firstNonEmpty(jsonString(inner, "image"), jsonString(element, "image")),
		}, base)
		if ok {
			items = append(items, item)
		}
	}
	return items
}
