package handlers

import (
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/config"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

// newTestSite lays out a minimal site fixture in a temp dir and chdirs
// into it, since templates resolve relative to the working directory.
func newTestSite(t *testing.T) *Site {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	writeFile(t, "templates/layouts/base.plush.html",
		`<html><head><title><%= pageTitle %>|<%= siteTitle %></title></head>`+
			`<body><%= navbar %><main><%= yield %></main></body></html>`)
	writeFile(t, "templates/partials/navbar.plush.html",
		`<nav><%= siteTitle %></nav>`)
	writeFile(t, "templates/partials/recent.plush.html",
		`<ul class="recent"><%= for (p) in recentPosts { %><li><%= p.Title %></li><% } %></ul>`)
	writeFile(t, "templates/pages/index.plush.html",
		`<h1>Home</h1><%= recent %>`)
	writeFile(t, "templates/pages/blog_post.plush.html",
		`<article><h1><%= pageTitle %></h1><%= content %></article>`)
	writeFile(t, "templates/pages/404.plush.html",
		`<h1>Page not found</h1>`)
	writeFile(t, "pages/about.md", "---\ntitle: About Me\ndescription: Bio.\n---\n# About\n\nHello there.\n")

	manifest := &config.Manifest{
		Site: config.Site{
			Title:    "Test Site",
			Origin:   "https://example.com",
			Language: "en",
		},
		Routes: []config.Route{
			{
				Path:         "/",
				Source:       "templates/pages/index.plush.html",
				TemplateType: "PLUSH",
				PartialDeps:  []string{"navbar", "recent"},
			},
			{
				Path:         "/about/",
				Source:       "pages/about.md",
				TemplateType: "MARKDOWN",
				PartialDeps:  []string{"navbar"},
			},
			{
				Path:         "/blog/:slug/",
				Source:       "templates/pages/blog_post.plush.html",
				TemplateType: "PLUSH",
				PartialDeps:  []string{"navbar"},
			},
		},
		Partials: map[string]config.Partial{
			"navbar": {Source: "templates/partials/navbar.plush.html", TemplateType: "PLUSH"},
			"recent": {Source: "templates/partials/recent.plush.html", TemplateType: "PLUSH"},
		},
		NotFoundPageSource: "templates/pages/404.plush.html",
		RecentPosts:        1,
	}

	coll := &content.Collection{Posts: []*content.Post{
		{
			Title:     "Newest Post",
			Slug:      "newest-post",
			Permalink: "/blog/newest-post/",
			Date:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Summary:   "The newest one.",
			HTML:      template.HTML("<p>Newest body.</p>"),
		},
		{
			Title:     "Older Post",
			Slug:      "older-post",
			Permalink: "/blog/older-post/",
			Date:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			HTML:      template.HTML("<p>Older body.</p>"),
		},
	}}

	return New(manifest, coll)
}

func get(t *testing.T, server *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestSiteRoutes(t *testing.T) {
	site := newTestSite(t)
	router, err := site.SetupRouter()
	require.NoError(t, err)

	server := httptest.NewServer(router)
	defer server.Close()

	t.Run("home page renders recent posts", func(t *testing.T) {
		status, body := get(t, server, "/")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<h1>Home</h1>")
		assert.Contains(t, body, "<nav>Test Site</nav>")
		// RecentPosts is 1, so only the newest post appears.
		assert.Contains(t, body, "<li>Newest Post</li>")
		assert.NotContains(t, body, "<li>Older Post</li>")
	})

	t.Run("markdown page renders with front matter title", func(t *testing.T) {
		status, body := get(t, server, "/about/")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "About Me|Test Site")
		assert.Contains(t, body, "Hello there.")
	})

	t.Run("blog routes expand per post", func(t *testing.T) {
		status, body := get(t, server, "/blog/newest-post/")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<h1>Newest Post</h1>")
		assert.Contains(t, body, "<p>Newest body.</p>")

		status, body = get(t, server, "/blog/older-post/")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<p>Older body.</p>")
	})

	t.Run("unknown path renders 404 page", func(t *testing.T) {
		status, body := get(t, server, "/does-not-exist/")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Contains(t, body, "Page not found")
	})

	t.Run("sitemap lists every route", func(t *testing.T) {
		status, body := get(t, server, "/sitemap.xml")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<loc>https://example.com/about/</loc>")
		assert.Contains(t, body, "<loc>https://example.com/blog/newest-post/</loc>")
	})

	t.Run("feed carries the recent posts", func(t *testing.T) {
		status, body := get(t, server, "/feed.xml")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, `<rss version="2.0">`)
		assert.Contains(t, body, "<title>Newest Post</title>")
		assert.NotContains(t, body, "<title>Older Post</title>")
	})
}

func TestRoutesListsExpandedPaths(t *testing.T) {
	site := newTestSite(t)
	_, err := site.SetupRouter()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/",
		"/about/",
		"/blog/newest-post/",
		"/blog/older-post/",
	}, site.Routes())
}
