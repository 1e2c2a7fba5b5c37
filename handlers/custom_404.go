package handlers

import (
	"net/http"
	"sort"
)

// NotFoundHandler renders the manifest's 404 page inside the base
// layout. When the page itself cannot render, fall back to plain text
// rather than cascading errors.
func (s *Site) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)

	source := s.Manifest.NotFoundPageSource
	if source == "" {
		w.Write([]byte("404 page not found"))
		return
	}

	ctx := s.baseContext(r.URL.Path)
	ctx.Set("pageTitle", "Page not found")

	var partials []string
	for name := range s.Manifest.Partials {
		partials = append(partials, name)
	}
	sort.Strings(partials)
	if err := s.renderPartials(ctx, partials); err != nil {
		w.Write([]byte("404 page not found"))
		return
	}

	body, err := renderPlushFile(source, ctx)
	if err != nil {
		w.Write([]byte("404 page not found"))
		return
	}

	s.writePage(w, ctx, body)
}
