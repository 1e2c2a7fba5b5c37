package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// DefaultRecentPosts is how many posts the recent-posts data channel
// carries when the manifest does not say otherwise.
const DefaultRecentPosts = 5

// Site holds the site-wide settings every template receives.
type Site struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Origin      string `yaml:"origin"`
	Language    string `yaml:"language"`
}

// NavLink is a single entry in the site navigation.
type NavLink struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

// Route maps a URL path to a page source. TemplateType is either
// "PLUSH" or "MARKDOWN".
type Route struct {
	Path           string   `yaml:"path"`
	Source         string   `yaml:"source"`
	TemplateType   string   `yaml:"template_type"`
	JavascriptDeps []string `yaml:"javascript_deps"`
	PartialDeps    []string `yaml:"partial_deps"`
}

// Partial is a reusable template fragment rendered into the page context
// under its manifest key.
type Partial struct {
	Source       string `yaml:"source"`
	TemplateType string `yaml:"template_type"`
}

// JavascriptTarget is an esbuild entry point and its output directory.
type JavascriptTarget struct {
	Source string `yaml:"source"`
	OutDir string `yaml:"out_dir"`
}

// Manifest is the parsed manifest.yaml describing the whole site.
type Manifest struct {
	Site               Site                        `yaml:"site"`
	Routes             []Route                     `yaml:"routes"`
	Nav                []NavLink                   `yaml:"nav"`
	Partials           map[string]Partial          `yaml:"partials"`
	JavascriptTargets  map[string]JavascriptTarget `yaml:"javascript"`
	NotFoundPageSource string                      `yaml:"not_found_page_source"`
	ContentDir         string                      `yaml:"content_dir"`
	OutputDir          string                      `yaml:"output_dir"`
	RecentPosts        int                         `yaml:"recent_posts"`
}

// Load reads and parses the manifest, then applies environment overrides
// (SITE_ORIGIN, SITE_OUTPUT_DIR, ...) and fills in defaults.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest %s", path)
	}

	v := viper.New()
	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if origin := v.GetString("origin"); origin != "" {
		m.Site.Origin = origin
	}
	if out := v.GetString("output_dir"); out != "" {
		m.OutputDir = out
	}

	m.applyDefaults()

	if err := m.validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.ContentDir == "" {
		m.ContentDir = "pages"
	}
	if m.OutputDir == "" {
		m.OutputDir = "public"
	}
	if m.RecentPosts <= 0 {
		m.RecentPosts = DefaultRecentPosts
	}
	if m.Site.Language == "" {
		m.Site.Language = "en"
	}
}

func (m *Manifest) validate() error {
	if m.Site.Origin == "" {
		return errors.New("manifest: site.origin is required")
	}
	for _, r := range m.Routes {
		if r.Path == "" || r.Source == "" {
			return errors.Errorf("manifest: route %q needs both path and source", r.Path)
		}
		switch r.TemplateType {
		case "PLUSH", "MARKDOWN":
		default:
			return errors.Errorf("manifest: route %q has unsupported template type %q", r.Path, r.TemplateType)
		}
	}
	return nil
}
