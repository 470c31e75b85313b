package trending

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/metrics"
)

// Extractor parses trending page bodies into repository records.
type Extractor struct {
	baseURL string
	logger  *zap.Logger
}

// NewExtractor constructs an Extractor. baseURL is the scheme and host used
// to turn relative repository links into absolute URLs.
func NewExtractor(baseURL string, logger *zap.Logger) *Extractor {
	return &Extractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Extract returns every parseable repository listing in body. A listing
// missing its repository link is skipped on its own; the remaining listings
// on the page are still extracted. A page with no listings yields an empty
// slice and no error.
func (e *Extractor) Extract(body []byte) ([]Repository, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse trending page: %w", err)
	}

	var repos []Repository
	doc.Find("article.Box-row").Each(func(_ int, article *goquery.Selection) {
		repo, err := e.extractArticle(article)
		if err != nil {
			metrics.RecordListingSkipped()
			e.logger.Warn("skipping unparseable listing", zap.Error(err))
			return
		}
		repos = append(repos, repo)
	})
	metrics.AddRepositoriesExtracted(len(repos))
	return repos, nil
}

func (e *Extractor) extractArticle(article *goquery.Selection) (Repository, error) {
	link := article.Find("h2.h3 > a").First()
	if link.Length() == 0 {
		return Repository{}, errors.New("repository link not found")
	}
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return Repository{}, errors.New("repository link missing href")
	}

	// Listing names render as "owner /\n repo"; collapse to "owner/repo".
	name := strings.NewReplacer("\n", "", " ", "").Replace(link.Text())

	description := "No description provided."
	if p := article.Find("p.col-9").First(); p.Length() > 0 {
		description = strings.TrimSpace(p.Text())
	}

	language := "N/A"
	if span := article.Find("span[itemprop=programmingLanguage]").First(); span.Length() > 0 {
		language = strings.TrimSpace(span.Text())
	}

	stars := parseCount(article.Find(fmt.Sprintf("a[href=%q]", href+"/stargazers")).First().Text())
	forks := parseCount(article.Find(fmt.Sprintf("a[href=%q]", href+"/forks")).First().Text())

	// "1,234 stars today" style counter scoped to the query's time window.
	rangeStars := 0
	if span := article.Find("span.d-inline-block.float-sm-right").First(); span.Length() > 0 {
		if fields := strings.Fields(span.Text()); len(fields) > 0 {
			rangeStars = parseCount(fields[0])
		}
	}

	return Repository{
		Name:           name,
		URL:            e.baseURL + href,
		Description:    description,
		Language:       language,
		Stars:          stars,
		Forks:          forks,
		DateRangeStars: rangeStars,
	}, nil
}

// parseCount converts a star/fork counter like "12,345" into an int,
// defaulting to zero for missing or malformed text.
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
