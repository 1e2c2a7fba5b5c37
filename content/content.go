// Package content loads the blog posts under the site's content
// directory, parses their front matter, renders their Markdown bodies
// and keeps them ordered by publication time, newest first.
package content

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Matter is the YAML front matter a post carries between --- delimiters.
type Matter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Image       string   `yaml:"image,omitempty"`
	Layout      string   `yaml:"layout,omitempty"`
	Draft       bool     `yaml:"draft,omitempty"`
}

// Post is a single rendered blog post.
type Post struct {
	Title      string
	Date       time.Time
	Slug       string
	Permalink  string
	Summary    string
	Tags       []string
	Image      string
	Draft      bool
	HTML       template.HTML
	SourcePath string
}

// Collection holds every loaded post, sorted by descending publication
// time. Posts with equal timestamps keep the order they were read in.
type Collection struct {
	Posts []*Post
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load walks dir for .md files and returns the sorted collection.
// A post that cannot be read or parsed is logged and skipped; the load
// itself only fails when the directory is unusable.
func Load(dir string, includeDrafts bool) (*Collection, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			log.WithField("dir", dir).Warn("content directory missing, no posts loaded")
			return &Collection{}, nil
		}
		return nil, errors.Wrapf(err, "content directory %s", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sort.Strings(paths)

	c := &Collection{}
	for _, path := range paths {
		post, err := loadPost(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("skipping unparseable post")
			continue
		}
		if post.Draft && !includeDrafts {
			log.WithField("path", path).Debug("skipping draft")
			continue
		}
		c.Posts = append(c.Posts, post)
	}

	sort.SliceStable(c.Posts, func(i, j int) bool {
		if c.Posts[i].Date.IsZero() {
			return false
		}
		if c.Posts[j].Date.IsZero() {
			return true
		}
		return c.Posts[i].Date.After(c.Posts[j].Date)
	})

	return c, nil
}

// BySlug returns the post with the given slug, or nil.
func (c *Collection) BySlug(slug string) *Post {
	for _, p := range c.Posts {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}

func loadPost(path string) (*Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var matter Matter
	body, err := frontmatter.Parse(f, &matter)
	if err != nil {
		return nil, errors.Wrap(err, "parsing front matter")
	}

	slug := Slugify(strings.TrimSuffix(filepath.Base(path), ".md"))
	title := matter.Title
	if title == "" {
		title = titleFromSlug(slug)
	}

	var date time.Time
	if matter.Date != "" {
		date, err = parseDate(matter.Date)
		if err != nil {
			return nil, err
		}
	}

	summary := matter.Description
	if summary == "" {
		summary = firstParagraph(body)
	}

	return &Post{
		Title:      title,
		Date:       date,
		Slug:       slug,
		Permalink:  "/blog/" + slug + "/",
		Summary:    summary,
		Tags:       matter.Tags,
		Image:      matter.Image,
		Draft:      matter.Draft,
		HTML:       template.HTML(RenderMarkdown(body)),
		SourcePath: path,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date %q, use YYYY-MM-DD or RFC3339", s)
}

// RenderMarkdown converts a Markdown body to HTML with the site's
// standard extensions.
func RenderMarkdown(src []byte) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	return string(markdown.ToHTML(src, p, nil))
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(s string) string {
	s = slugStrip.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// firstParagraph pulls the first prose line out of a Markdown body for
// use as a fallback summary.
func firstParagraph(body []byte) string {
	for _, line := range bytes.Split(body, []byte("\n")) {
		text := strings.TrimSpace(string(line))
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "!") {
			continue
		}
		const max = 200
		if len(text) > max {
			text = fmt.Sprintf("%s...", strings.TrimSpace(text[:max]))
		}
		return text
	}
	return ""
}
