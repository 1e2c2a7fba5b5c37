package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoadSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "older.md", `---
title: Older
date: 2024-01-10
---
Older body.
`)
	writePost(t, dir, "newer.md", `---
title: Newer
date: 2025-03-01
---
Newer body.
`)
	writePost(t, dir, "undated.md", `---
title: Undated
---
No date at all.
`)

	coll, err := Load(dir, false)
	require.NoError(t, err)
	require.Len(t, coll.Posts, 3)

	assert.Equal(t, "Newer", coll.Posts[0].Title)
	assert.Equal(t, "Older", coll.Posts[1].Title)
	// Undated posts sort after every dated one.
	assert.Equal(t, "Undated", coll.Posts[2].Title)
}

func TestLoadSkipsDraftsUnlessAsked(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "live.md", `---
title: Live
date: 2025-01-01
---
Body.
`)
	writePost(t, dir, "draft.md", `---
title: Draft
date: 2025-02-01
draft: true
---
Body.
`)

	coll, err := Load(dir, false)
	require.NoError(t, err)
	require.Len(t, coll.Posts, 1)
	assert.Equal(t, "Live", coll.Posts[0].Title)

	coll, err = Load(dir, true)
	require.NoError(t, err)
	assert.Len(t, coll.Posts, 2)
}

func TestLoadSkipsUnparseablePosts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "good.md", `---
title: Good
date: 2025-01-01
---
Body.
`)
	writePost(t, dir, "broken.md", `---
title: [unclosed
---
Body.
`)
	writePost(t, dir, "baddate.md", `---
title: Bad Date
date: first of never
---
Body.
`)

	coll, err := Load(dir, false)
	require.NoError(t, err)
	require.Len(t, coll.Posts, 1)
	assert.Equal(t, "Good", coll.Posts[0].Title)
}

func TestLoadMissingDirectoryIsEmpty(t *testing.T) {
	coll, err := Load(filepath.Join(t.TempDir(), "absent"), false)
	require.NoError(t, err)
	assert.Empty(t, coll.Posts)
}

func TestLoadPostFields(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "My First Post.md", `---
date: 2025-06-18T09:30:00Z
tags: [go, web]
image: /static/img/cover.png
---
# Heading

The opening paragraph becomes the summary.

More text below.
`)

	coll, err := Load(dir, false)
	require.NoError(t, err)
	require.Len(t, coll.Posts, 1)

	p := coll.Posts[0]
	assert.Equal(t, "my-first-post", p.Slug)
	assert.Equal(t, "/blog/my-first-post/", p.Permalink)
	// Title falls back to the slug when the matter has none.
	assert.Equal(t, "My First Post", p.Title)
	assert.Equal(t, time.Date(2025, 6, 18, 9, 30, 0, 0, time.UTC), p.Date)
	assert.Equal(t, []string{"go", "web"}, p.Tags)
	assert.Equal(t, "/static/img/cover.png", p.Image)
	assert.Equal(t, "The opening paragraph becomes the summary.", p.Summary)
	assert.Contains(t, string(p.HTML), "<h1")
}

func TestBySlug(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "one.md", "---\ntitle: One\ndate: 2025-01-01\n---\nBody.\n")

	coll, err := Load(dir, false)
	require.NoError(t, err)

	assert.NotNil(t, coll.BySlug("one"))
	assert.Nil(t, coll.BySlug("two"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "spark-3-5-skew", Slugify("Spark 3.5 (skew)"))
	assert.Equal(t, "", Slugify("!!!"))
}
