package meta

import "testing"

func TestExtract_TitleSuffixStripped(t *testing.T) {
	raw := `<html><head><title>Breaking News | The Daily Example</title></head><body></body></html>`
	if got := Extract(raw).Title; got != "Breaking News" {
		t.Fatalf("expected cleaned title, got %q", got)
	}
}

func TestExtract_PrefersOpenGraphTitle(t *testing.T) {
	raw := `<html><head>
		<title>Ugly Title - Section - Site</title>
		<meta property="og:title" content="Clean Title">
	</head><body></body></html>`
	if got := Extract(raw).Title; got != "Clean Title" {
		t.Fatalf("expected og:title, got %q", got)
	}
}

func TestExtract_AllFields(t *testing.T) {
	raw := `<html><head>
		<title>Story</title>
		<meta name="description" content=" A short summary. ">
		<meta name="author" content="Jane Writer">
		<meta property="article:published_time" content="2024-05-01T10:00:00Z">
		<meta property="og:image" content="https://example.com/cover.jpg">
	</head><body><p>Body</p></body></html>`
	m := Extract(raw)
	if m.Title != "Story" {
		t.Fatalf("unexpected title %q", m.Title)
	}
	if m.Description != "A short summary." {
		t.Fatalf("unexpected description %q", m.Description)
	}
	if m.Author != "Jane Writer" {
		t.Fatalf("unexpected author %q", m.Author)
	}
	if m.PublishedTime != "2024-05-01T10:00:00Z" {
		t.Fatalf("unexpected published time %q", m.PublishedTime)
	}
	if m.Image != "https://example.com/cover.jpg" {
		t.Fatalf("unexpected image %q", m.Image)
	}
}

func TestExtract_FallbackMetaNames(t *testing.T) {
	raw := `<html><head>
		<meta property="og:description" content="OG summary">
		<meta property="article:author" content="https://example.com/authors/jo">
	</head><body></body></html>`
	m := Extract(raw)
	if m.Description != "OG summary" || m.Author != "https://example.com/authors/jo" {
		t.Fatalf("unexpected fallbacks: %+v", m)
	}
}

func TestExtract_Missing(t *testing.T) {
	m := Extract(`<html><body><p>No head at all</p></body></html>`)
	if m != (Metadata{}) {
		t.Fatalf("expected empty metadata, got %+v", m)
	}
}

func TestCleanTitle(t *testing.T) {
	cases := map[string]string{
		"Plain title":              "Plain title",
		"Title - Site":             "Title",
		"Title — Site":             "Title",
		"Title: Subtitle":          "Title",
		"A - B | Site":             "A - B",
		"  Spaced   out  |  Site ": "Spaced out",
		"| Only site":              "| Only site",
	}
	for in, want := range cases {
		if got := CleanTitle(in); got != want {
			t.Fatalf("CleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtract_StripsMarkupFromValues(t *testing.T) {
	page := `<html><head>
<meta name="description" content="A &lt;b&gt;bold&lt;/b&gt; claim &amp; more">
<meta name="author" content="Plain Author">
</head></html>`
	md := Extract(page)
	if md.Description != "A bold claim & more" {
		t.Fatalf("Description=%q", md.Description)
	}
	if md.Author != "Plain Author" {
		t.Fatalf("Author=%q", md.Author)
	}
}
