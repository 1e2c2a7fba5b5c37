package content

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// RecentPost is the flattened shape of a post as published through the
// recent-posts data channel: the template context and the generated
// JSON file both carry this.
type RecentPost struct {
	Title     string   `json:"title"`
	Permalink string   `json:"permalink"`
	Date      string   `json:"date"`
	Summary   string   `json:"summary,omitempty"`
	Image     string   `json:"image,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Recent returns the first min(n, len(posts)) posts flattened for
// publication. The input is already newest-first; order is preserved.
func Recent(posts []*Post, n int) []RecentPost {
	if n > len(posts) {
		n = len(posts)
	}
	out := make([]RecentPost, 0, n)
	for _, p := range posts[:n] {
		var date string
		if !p.Date.IsZero() {
			date = p.Date.Format(time.RFC3339)
		}
		out = append(out, RecentPost{
			Title:     p.Title,
			Permalink: p.Permalink,
			Date:      date,
			Summary:   p.Summary,
			Image:     p.Image,
			Tags:      p.Tags,
		})
	}
	return out
}

// WriteRecentFile writes the recent-posts JSON data file.
func WriteRecentFile(path string, posts []RecentPost) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "writing %s", path)
}

// LoadRecentFile reads a recent-posts JSON file back. Any read or parse
// failure yields an empty slice so a stale or missing data file never
// breaks rendering.
func LoadRecentFile(path string) []RecentPost {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Debug("no recent-posts data file")
		return []RecentPost{}
	}
	var posts []RecentPost
	if err := json.Unmarshal(data, &posts); err != nil {
		log.WithError(err).WithField("path", path).Warn("malformed recent-posts data file")
		return []RecentPost{}
	}
	return posts
}
