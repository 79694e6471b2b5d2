package imdb

import (
	"encoding/json"
	"fmt"
	"io"
	"topactors-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// bioSelectors are the places a profile's mini biography has lived over the
// various redesigns of the bio page, newest first.
var bioSelectors = []string{
	`[data-testid="sub-section-mini_bio"] .ipc-html-content-inner-div`,
	`[data-testid="bio-content"] .ipc-html-content-inner-div`,
	`#bio_content .soda p`,
}

// ExtractBio returns the cleaned biography text of a profile bio page or an empty
// string if the page does not have one.
func ExtractBio(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse bio page: %w", err)
	}
	return ExtractBioDocument(doc), nil
}

func ExtractBioDocument(doc *goquery.Document) string {
	for _, selector := range bioSelectors {
		text := htmlutil.SelectionText(doc.Find(selector).First())
		if text != "" {
			return text
		}
	}

	if text := personDescription(doc); text != "" {
		return text
	}

	content, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return htmlutil.CleanText(content)
}

func personDescription(doc *goquery.Document) string {
	var description string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var data map[string]any
		err := json.Unmarshal([]byte(script.Text()), &data)
		if err != nil || !hasType(data, "Person") {
			return true
		}
		description = htmlutil.CleanText(jsonString(data, "description"))
		return description == ""
	})
	return description
}
