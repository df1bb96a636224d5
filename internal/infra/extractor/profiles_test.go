package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileTableMatch(t *testing.T) {
	table := DefaultProfiles()

	tests := []struct {
		name     string
		host     string
		url      string
		wantName string
	}{
		{
			name:     "medium by domain",
			host:     "medium.com",
			url:      "https://medium.com/@someone/a-story-1234",
			wantName: "medium",
		},
		{
			name:     "medium subdomain",
			host:     "engineering.medium.com",
			url:      "https://engineering.medium.com/post",
			wantName: "medium",
		},
		{
			name:     "wordpress by domain",
			host:     "example.wordpress.com",
			url:      "https://example.wordpress.com/2024/03/15/post",
			wantName: "wordpress",
		},
		{
			name:     "wordpress by structural marker in URL",
			host:     "myblog.example.com",
			url:      "https://myblog.example.com/wp-content/uploads/post",
			wantName: "wordpress",
		},
		{
			name:     "unknown site falls back to default",
			host:     "news.example.org",
			url:      "https://news.example.org/article/42",
			wantName: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := table.Match(tt.host, tt.url)
			assert.Equal(t, tt.wantName, p.Name)
		})
	}
}

func TestProfileTableMatch_FillsExcludeSelectors(t *testing.T) {
	table := DefaultProfiles()

	// The medium built-in carries no exclude list of its own.
	p := table.Match("medium.com", "https://medium.com/story")
	assert.NotEmpty(t, p.ExcludeSelectors)
	assert.Contains(t, p.ExcludeSelectors, "script")
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	content := `
- name: corporate
  domains: ["corp.example.com"]
  title_selectors: [".headline"]
  body_selectors: [".story-body"]
- name: default
  title_selectors: ["h1"]
  body_selectors: [".custom-main"]
  exclude_selectors: ["script"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table := DefaultProfiles()
	require.NoError(t, table.LoadOverrides(path))

	t.Run("override matched by domain", func(t *testing.T) {
		p := table.Match("corp.example.com", "https://corp.example.com/article/1")
		assert.Equal(t, "corporate", p.Name)
		assert.Equal(t, []string{".story-body"}, p.BodySelectors)
		// Exclude selectors inherited from the fallback.
		assert.NotEmpty(t, p.ExcludeSelectors)
	})

	t.Run("default override replaces fallback", func(t *testing.T) {
		p := table.Match("unknown.example.net", "https://unknown.example.net/")
		assert.Equal(t, "default", p.Name)
		assert.Equal(t, []string{".custom-main"}, p.BodySelectors)
	})

	t.Run("built-ins still match", func(t *testing.T) {
		p := table.Match("medium.com", "https://medium.com/story")
		assert.Equal(t, "medium", p.Name)
	})
}

func TestLoadOverrides_Errors(t *testing.T) {
	table := DefaultProfiles()

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, table.LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml")))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))
		assert.Error(t, table.LoadOverrides(path))
	})
}
