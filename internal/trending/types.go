// Package trending defines the records scraped from GitHub Trending pages
// and the parsers that produce them.
package trending

// FacetAll is the sentinel value for the unfiltered language and
// spoken-language facets.
const FacetAll = "all"

// Repository is one trending listing as scraped from a single page.
// The name is the identity key; two listings with the same name refer to
// the same repository regardless of which facet they were observed under.
type Repository struct {
	Name           string `json:"repository_name"`
	URL            string `json:"repository_url"`
	Description    string `json:"description"`
	Language       string `json:"language"`
	Stars          int    `json:"star"`
	Forks          int    `json:"fork"`
	DateRangeStars int    `json:"date_range_stars"`
}

// Publication records one facet combination a repository was observed under.
type Publication struct {
	Language           string `json:"language"`
	SpokenLanguageCode string `json:"spoken_language_code"`
	Since              string `json:"since"`
}

// TrendingRepository pairs a repository with every facet combination it has
// appeared under. Published grows by append only and is never deduplicated:
// repeated observations of the same combination are kept as an audit trail.
type TrendingRepository struct {
	Repository
	Published []Publication `json:"published"`
}
