// Package handlers assembles the site's router: manifest routes, blog
// routes expanded from the content collection, feeds and the 404 page.
package handlers

import (
	"net/http"
	"strings"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/config"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/content"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/utils"
	"github.com/gorilla/mux"
)

// Site binds the manifest and the loaded content to a router. A fresh
// Site is built per rebuild in watch mode, so it carries no globals.
type Site struct {
	Manifest *config.Manifest
	Content  *content.Collection
	Recent   []content.RecentPost

	// JS holds the public paths of compiled javascript bundles,
	// keyed by manifest target name. Empty when serving without a
	// build step.
	JS map[string]string

	routes []string
}

// New prepares a Site, computing the recent-posts data the templates
// and feeds consume.
func New(manifest *config.Manifest, coll *content.Collection) *Site {
	return &Site{
		Manifest: manifest,
		Content:  coll,
		Recent:   content.Recent(coll.Posts, manifest.RecentPosts),
		JS:       map[string]string{},
	}
}

// SetupRouter registers every page of the site and returns the router.
func (s *Site) SetupRouter() (*mux.Router, error) {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(s.NotFoundHandler)

	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	s.routes = nil
	for _, route := range s.Manifest.Routes {
		if strings.Contains(route.Path, ":slug") {
			// A :slug route is the blog post template; expand it
			// into one concrete route per post.
			for _, post := range s.Content.Posts {
				path := strings.Replace(route.Path, ":slug", post.Slug, 1)
				router.HandleFunc(path, s.PostHandler(post, route)).Methods("GET")
				s.routes = append(s.routes, path)
			}
			continue
		}

		router.HandleFunc(route.Path, s.PageHandler(route)).Methods("GET")
		s.routes = append(s.routes, route.Path)
	}

	sitemap, err := utils.GenerateSitemapContent(s.Manifest.Site.Origin, s.routes)
	if err != nil {
		return nil, err
	}
	router.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(sitemap))
	}).Methods("GET")

	feed, err := utils.GenerateFeedContent(s.Manifest.Site, s.Recent)
	if err != nil {
		return nil, err
	}
	router.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feed))
	}).Methods("GET")

	return router, nil
}

// Routes returns every page path registered by SetupRouter, for the
// static build walker and the sitemap.
func (s *Site) Routes() []string {
	return s.routes
}
