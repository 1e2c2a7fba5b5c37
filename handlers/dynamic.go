package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/config"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/content"
	"github.com/adrg/frontmatter"
	"github.com/gobuffalo/plush"
	"github.com/pkg/errors"
)

const baseLayoutPath = "templates/layouts/base.plush.html"

// PageHandler renders a manifest route: a PLUSH or MARKDOWN source
// wrapped in the base layout.
func (s *Site) PageHandler(route config.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := s.baseContext(r.URL.Path)

		if err := s.renderPartials(ctx, route.PartialDeps); err != nil {
			http.Error(w, fmt.Sprintf("Error rendering partials: %v", err), http.StatusInternalServerError)
			return
		}
		s.setScripts(ctx, route.JavascriptDeps)

		var body string
		var err error
		switch route.TemplateType {
		case "PLUSH":
			body, err = renderPlushFile(route.Source, ctx)
		case "MARKDOWN":
			var title, desc string
			body, title, desc, err = renderMarkdownFile(route.Source)
			ctx.Set("pageTitle", title)
			ctx.Set("description", desc)
		default:
			http.Error(w, "Unsupported template type", http.StatusInternalServerError)
			return
		}
		if err != nil {
			http.Error(w, fmt.Sprintf("Error rendering page: %v", err), http.StatusInternalServerError)
			return
		}

		s.writePage(w, ctx, body)
	}
}

// PostHandler renders one blog post through the post template named by
// the blog route's source.
func (s *Site) PostHandler(post *content.Post, route config.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := s.baseContext(r.URL.Path)

		if err := s.renderPartials(ctx, route.PartialDeps); err != nil {
			http.Error(w, fmt.Sprintf("Error rendering partials: %v", err), http.StatusInternalServerError)
			return
		}
		s.setScripts(ctx, route.JavascriptDeps)

		ctx.Set("pageTitle", post.Title)
		ctx.Set("description", post.Summary)
		var date string
		if !post.Date.IsZero() {
			date = post.Date.Format(time.RFC3339)
		}
		ctx.Set("date", date)
		tags := post.Tags
		if tags == nil {
			tags = []string{}
		}
		ctx.Set("tags", tags)
		ctx.Set("image", post.Image)
		ctx.Set("content", post.HTML)

		body, err := renderPlushFile(route.Source, ctx)
		if err != nil {
			http.Error(w, fmt.Sprintf("Error rendering post: %v", err), http.StatusInternalServerError)
			return
		}

		s.writePage(w, ctx, body)
	}
}

// baseContext builds the plush context every page starts from. The
// recent-posts slice is the global data channel the original site fed
// its front page from.
func (s *Site) baseContext(currentPath string) *plush.Context {
	site := s.Manifest.Site
	ctx := plush.NewContext()

	ctx.Set("siteTitle", site.Title)
	ctx.Set("siteDescription", site.Description)
	ctx.Set("siteAuthor", site.Author)
	ctx.Set("lang", site.Language)
	ctx.Set("nav", s.Manifest.Nav)
	ctx.Set("recentPosts", s.Recent)
	ctx.Set("posts", content.Recent(s.Content.Posts, len(s.Content.Posts)))
	ctx.Set("currentPath", currentPath)
	ctx.Set("canonical", strings.TrimSuffix(site.Origin, "/")+currentPath)

	// Defaults pages and partials override; plush treats an unset
	// identifier as an error, so every key the layout mentions must
	// exist up front.
	ctx.Set("pageTitle", "")
	ctx.Set("description", site.Description)
	ctx.Set("scripts", []string{})
	for name := range s.Manifest.Partials {
		ctx.Set(name, template.HTML(""))
	}

	ctx.Set("formatDate", func(date string, layout string) string {
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return date
		}
		return t.Format(layout)
	})
	ctx.Set("startsWith", strings.HasPrefix)
	ctx.Set("replaceAll", strings.ReplaceAll)
	ctx.Set("isActive", func(path string) bool {
		if path == "/" {
			return currentPath == "/"
		}
		return strings.HasPrefix(currentPath, path)
	})

	return ctx
}

// renderPartials renders each named partial and exposes it in the
// context under its manifest key.
func (s *Site) renderPartials(ctx *plush.Context, deps []string) error {
	for _, name := range deps {
		partial, ok := s.Manifest.Partials[name]
		if !ok {
			return errors.Errorf("unknown partial %q", name)
		}

		var html string
		var err error
		switch partial.TemplateType {
		case "MARKDOWN":
			html, _, _, err = renderMarkdownFile(partial.Source)
		default:
			html, err = renderPlushFile(partial.Source, ctx)
		}
		if err != nil {
			return errors.Wrapf(err, "partial %q", name)
		}
		ctx.Set(name, template.HTML(html))
	}
	return nil
}

// setScripts resolves javascript deps to the public paths of their
// compiled bundles. Targets not built yet resolve to nothing.
func (s *Site) setScripts(ctx *plush.Context, deps []string) {
	scripts := []string{}
	for _, name := range deps {
		if path, ok := s.JS[name]; ok {
			scripts = append(scripts, path)
		}
	}
	ctx.Set("scripts", scripts)
}

// writePage wraps the rendered body in the base layout and writes it.
func (s *Site) writePage(w http.ResponseWriter, ctx *plush.Context, body string) {
	ctx.Set("yield", template.HTML(body))

	baseContent, err := os.ReadFile(baseLayoutPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error reading base layout: %v", err), http.StatusInternalServerError)
		return
	}

	baseLayout, err := plush.Parse(string(baseContent))
	if err != nil {
		http.Error(w, fmt.Sprintf("Error parsing base layout: %v", err), http.StatusInternalServerError)
		return
	}

	pageHTML, err := baseLayout.Exec(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error executing base layout: %v", err), http.StatusInternalServerError)
		return
	}

	if _, err := w.Write([]byte(pageHTML)); err != nil {
		http.Error(w, fmt.Sprintf("Error writing response: %v", err), http.StatusInternalServerError)
	}
}

func renderPlushFile(source string, ctx *plush.Context) (string, error) {
	tplContent, err := os.ReadFile(source)
	if err != nil {
		return "", errors.WithStack(err)
	}

	tpl, err := plush.Parse(string(tplContent))
	if err != nil {
		return "", errors.Wrapf(err, "parsing %s", source)
	}

	return tpl.Exec(ctx)
}

// renderMarkdownFile renders a front-mattered Markdown source and
// returns its HTML plus the title and description from the matter.
func renderMarkdownFile(source string) (string, string, string, error) {
	raw, err := os.ReadFile(source)
	if err != nil {
		return "", "", "", errors.WithStack(err)
	}

	var matter content.Matter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &matter)
	if err != nil {
		return "", "", "", errors.Wrapf(err, "parsing front matter of %s", source)
	}

	html := fmt.Sprintf(`
  <article class="flex flex-col gap-4 page-container">
  %s
  </article>
  `, content.RenderMarkdown(body))

	return html, matter.Title, matter.Description, nil
}
