// Package scraper extracts candidate images from a forum listing page.
//
// A Renderer produces the page HTML (headless Chrome or a plain HTTP GET) and
// ExtractCandidates walks it with goquery:
//
//   - every element with class "thing" is a post
//   - posts whose data-promoted or data-nsfw attribute is "true" are dropped
//   - data-url gives the image URL and its extension
//   - the title link text, normalized by NormalizeName, gives the file name
//
// Fields missing from a post are set to models.Sentinel.
package scraper
