package utils

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GenerateSitemaps writes sitemap.xml for the given routes into outDir.
func GenerateSitemaps(origin, outDir string, routes []string) error {
	xmlOutput, err := GenerateSitemapContent(origin, routes)
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, "sitemap.xml")
	xmlFile, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer xmlFile.Close()

	xmlFile.Write([]byte(xml.Header))
	xmlFile.Write([]byte(xmlOutput))

	return nil
}

// GenerateSitemapContent renders the urlset for every registered route,
// rooted at origin.
func GenerateSitemapContent(origin string, routes []string) (string, error) {
	sitemap := Sitemap{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	lastMod := time.Now().Format("2006-01-02")
	for _, route := range routes {
		sitemap.Urls = append(sitemap.Urls, Url{
			Loc:     origin + route,
			LastMod: lastMod,
		})
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(xmlOutput), nil
}
