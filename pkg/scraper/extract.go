package scraper

import (
	"io"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"wallgrab/pkg/models"
)

const (
	postSelector  = ".thing"
	titleSelector = `[data-event-action="title"]`

	attrPromoted = "data-promoted"
	attrNSFW     = "data-nsfw"
	attrURL      = "data-url"
)

// ExtractCandidates parses a rendered listing page and returns one candidate
// per post that is neither promoted nor marked NSFW, in document order.
func ExtractCandidates(r io.Reader) ([]models.Candidate, error) {
	candidates, _, err := extract(r)
	return candidates, err
}

// extract also returns the number of posts seen before filtering
func extract(r io.Reader) ([]models.Candidate, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, err
	}

	posts := doc.Find(postSelector)
	candidates := make([]models.Candidate, 0, posts.Length())

	posts.Each(func(_ int, post *goquery.Selection) {
		if IsFlagged(post.AttrOr(attrPromoted, "")) || IsFlagged(post.AttrOr(attrNSFW, "")) {
			return
		}
		candidates = append(candidates, candidateFrom(post))
	})

	return candidates, posts.Length(), nil
}

func candidateFrom(post *goquery.Selection) models.Candidate {
	url := post.AttrOr(attrURL, models.Sentinel)

	name := models.Sentinel
	if title := post.Find(titleSelector).First(); title.Length() > 0 {
		name = NormalizeName(title.Text())
	}

	return models.Candidate{
		URL:  url,
		Name: name,
		Ext:  ExtensionOf(url),
	}
}

// IsFlagged reports whether a post attribute is the literal "true",
// ignoring case and surrounding whitespace.
func IsFlagged(attr string) bool {
	return strings.EqualFold(strings.TrimSpace(attr), "true")
}

// nameSeparators are each replaced with a hyphen. Only the ASCII space
// counts; tabs and other whitespace are kept so names match the catalog.
const nameSeparators = " */[]|@"

// NormalizeName turns a post title into a file-safe slug
func NormalizeName(title string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(nameSeparators, r) {
			return '-'
		}
		return unicode.ToLower(r)
	}, strings.TrimSpace(title))
}

// ExtensionOf returns the lowercased text after the last "." of url,
// or url itself when it has no ".".
func ExtensionOf(url string) string {
	i := strings.LastIndex(url, ".")
	if i < 0 {
		return url
	}
	return strings.ToLower(url[i+1:])
}
