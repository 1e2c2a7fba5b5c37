package utils

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"time"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/config"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/content"
	"github.com/pkg/errors"
)

type Rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Language    string `xml:"language,omitempty"`
	Items       []Item `xml:"item"`
}

type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Guid        string `xml:"guid"`
	PubDate     string `xml:"pubDate,omitempty"`
	Description string `xml:"description,omitempty"`
}

// GenerateFeed writes feed.xml for the recent posts into outDir.
func GenerateFeed(site config.Site, outDir string, posts []content.RecentPost) error {
	xmlOutput, err := GenerateFeedContent(site, posts)
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, "feed.xml")
	xmlFile, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer xmlFile.Close()

	xmlFile.Write([]byte(xml.Header))
	xmlFile.Write([]byte(xmlOutput))

	return nil
}

// GenerateFeedContent renders an RSS 2.0 channel for the recent posts.
func GenerateFeedContent(site config.Site, posts []content.RecentPost) (string, error) {
	channel := Channel{
		Title:       site.Title,
		Link:        site.Origin,
		Description: site.Description,
		Language:    site.Language,
	}

	for _, p := range posts {
		item := Item{
			Title:       p.Title,
			Link:        site.Origin + p.Permalink,
			Guid:        site.Origin + p.Permalink,
			Description: p.Summary,
		}
		if t, err := time.Parse(time.RFC3339, p.Date); err == nil {
			item.PubDate = t.Format(time.RFC1123Z)
		}
		channel.Items = append(channel.Items, item)
	}

	rss := Rss{Version: "2.0", Channel: channel}
	xmlOutput, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(xmlOutput), nil
}
