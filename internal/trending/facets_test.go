package trending

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const facetMenuPage = `
<html><body>
<details id="select-menu-language">
  <div data-filter-list>
    <a href="/trending/python?since=daily">Python</a>
    <a href="/trending/rust?since=daily">Rust</a>
    <a href="/trending/c%2B%2B?since=daily">C++</a>
    <a href="/notlanguage">broken</a>
  </div>
</details>
<details id="select-menu-spoken-language">
  <a href="/trending?since=daily&amp;spoken_language_code=en">English</a>
  <a href="/trending?since=daily&amp;spoken_language_code=ja">Japanese</a>
  <a href="/trending?since=daily">Clear filter</a>
</details>
</body></html>`

func TestLanguagesParsesDropdownSlugs(t *testing.T) {
	t.Parallel()

	langs := Languages([]byte(facetMenuPage))
	require.Equal(t, []string{"python", "rust", "c%2B%2B"}, langs)
}

func TestLanguagesStructuralFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	// No dropdown at all.
	require.Empty(t, Languages([]byte("<html><body></body></html>")))

	// Dropdown present but the filter list container is missing: still no
	// partial results.
	page := `<details id="select-menu-language"><a href="/trending/go">Go</a></details>`
	require.Empty(t, Languages([]byte(page)))
}

func TestSpokenLanguagesParsesQueryCodes(t *testing.T) {
	t.Parallel()

	codes := SpokenLanguages([]byte(facetMenuPage))
	require.Equal(t, []string{"en", "ja"}, codes)
}

func TestSpokenLanguagesStructuralFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, SpokenLanguages([]byte("<html><body></body></html>")))
}
