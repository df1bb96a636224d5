package extractor

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile holds the ordered selector lists used to extract one article page.
// Selectors are tried in order; the first that yields acceptable content wins.
type Profile struct {
	Name             string   `yaml:"name"`
	Domains          []string `yaml:"domains"`
	TitleSelectors   []string `yaml:"title_selectors"`
	BodySelectors    []string `yaml:"body_selectors"`
	AuthorSelectors  []string `yaml:"author_selectors"`
	DateSelectors    []string `yaml:"date_selectors"`
	ExcludeSelectors []string `yaml:"exclude_selectors"`
}

// wordpressMarkers are path fragments that identify a WordPress site.
var wordpressMarkers = []string{"wp-content", "wp-includes", "wp-json", "wordpress.com"}

// ProfileTable selects a Profile for a given page. Selection priority:
// exact or substring domain match, then WordPress structural detection,
// then the default profile.
type ProfileTable struct {
	profiles []Profile
	fallback Profile
}

// DefaultProfiles returns the built-in profile table.
func DefaultProfiles() *ProfileTable {
	fallback := Profile{
		Name: "default",
		TitleSelectors: []string{
			"h1", ".entry-title", ".post-title", "title",
		},
		BodySelectors: []string{
			".entry-content", ".post-content", ".content",
			"article", ".post-body",
			"main", ".main-content",
		},
		AuthorSelectors: []string{
			".author", ".by-author", ".post-author",
			".entry-author", `meta[name="author"]`,
		},
		DateSelectors: []string{
			".entry-date", ".post-date", ".published",
			`meta[property="article:published_time"]`,
			`meta[name="date"]`, "time[datetime]",
		},
		ExcludeSelectors: []string{
			"script", "style", "nav", "header", "footer",
			".sidebar", ".comments", ".advertisement",
			".ads", ".social-share",
		},
	}

	return &ProfileTable{
		fallback: fallback,
		profiles: []Profile{
			{
				Name:    "medium",
				Domains: []string{"medium.com"},
				TitleSelectors: []string{
					`h1[data-testid="storyTitle"]`, "h1",
				},
				BodySelectors: []string{
					`article[data-testid="storyContent"]`, "article",
				},
				AuthorSelectors: []string{
					`a[data-testid="authorName"]`, ".author",
				},
				DateSelectors: []string{
					"time[datetime]", `meta[property="article:published_time"]`,
				},
			},
			{
				Name:    "wordpress",
				Domains: []string{"wordpress.com"},
				TitleSelectors: []string{
					"h1.entry-title", "h1",
				},
				BodySelectors: []string{
					".entry-content", ".post-content",
				},
				AuthorSelectors: []string{
					".author.vcard", ".post-author", `meta[name="author"]`,
				},
				DateSelectors: []string{
					".entry-date", ".post-date", "time.entry-date",
				},
			},
		},
	}
}

// Match returns the profile for the given host and full URL.
func (t *ProfileTable) Match(host, rawURL string) Profile {
	host = strings.ToLower(host)
	lowerURL := strings.ToLower(rawURL)

	for _, p := range t.profiles {
		for _, d := range p.Domains {
			if d != "" && strings.Contains(host, d) {
				return t.complete(p)
			}
		}
	}

	// Structural WordPress detection by URL markers.
	for _, p := range t.profiles {
		if p.Name != "wordpress" {
			continue
		}
		for _, marker := range wordpressMarkers {
			if strings.Contains(host, marker) || strings.Contains(lowerURL, marker) {
				return t.complete(p)
			}
		}
	}

	return t.fallback
}

// complete fills missing exclude selectors from the default profile so every
// matched profile strips boilerplate subtrees.
func (t *ProfileTable) complete(p Profile) Profile {
	if len(p.ExcludeSelectors) == 0 {
		p.ExcludeSelectors = t.fallback.ExcludeSelectors
	}
	return p
}

// LoadOverrides reads additional profiles from a YAML file and prepends them
// to the table, so overrides win over built-ins for the same domain. A
// profile named "default" replaces the fallback instead.
func (t *ProfileTable) LoadOverrides(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return fmt.Errorf("read site profiles: %w", err)
	}

	var overrides []Profile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse site profiles: %w", err)
	}

	for _, p := range overrides {
		if p.Name == "default" {
			t.fallback = p
			continue
		}
		t.profiles = append([]Profile{p}, t.profiles...)
	}
	return nil
}
