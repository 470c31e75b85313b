package trending

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Languages returns the programming-language facet slugs advertised by the
// trending page's language dropdown, in page order. The sentinel facet is not
// included; callers prepend it. On any structural failure (dropdown or its
// filter list absent, unparseable body) the result is empty, never partial,
// so callers can fall back to a cached facet list.
func Languages(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	menu := doc.Find("details#select-menu-language").First()
	if menu.Length() == 0 {
		return nil
	}
	list := menu.Find("div[data-filter-list]").First()
	if list.Length() == 0 {
		return nil
	}

	var langs []string
	list.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		// Links look like /trending/python?since=daily; the slug is the
		// third path segment. The escaped form is kept so slugs like
		// c%2B%2B drop straight back into a target URL.
		parts := strings.Split(u.EscapedPath(), "/")
		if len(parts) > 2 && parts[2] != "" {
			langs = append(langs, parts[2])
		}
	})
	return langs
}

// SpokenLanguages returns the locale facet codes advertised by the trending
// page's spoken-language dropdown. Same contract as Languages: empty on any
// structural failure, never partial.
func SpokenLanguages(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	menu := doc.Find("details#select-menu-spoken-language").First()
	if menu.Length() == 0 {
		return nil
	}

	var codes []string
	menu.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if code := u.Query().Get("spoken_language_code"); code != "" {
			codes = append(codes, code)
		}
	})
	return codes
}
