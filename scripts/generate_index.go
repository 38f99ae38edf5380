package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// generate_index renders README.md into <dist-dir>/index.html and swaps the
// Installation section for links to the release archives found in dist.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(distDir string) error {
	readme, err := os.ReadFile("README.md")
	if err != nil {
		return fmt.Errorf("read README.md: %w", err)
	}
	page := renderMarkdown(readme)

	archives, err := releaseArchives(distDir)
	if err != nil {
		return err
	}
	page = replaceSection(page, "installation", downloadsHTML(archives))

	indexPath := filepath.Join(distDir, "index.html")
	out := pageHeader + page + pageFooter
	if err := os.WriteFile(indexPath, []byte(out), 0o644); err != nil { //nolint:gosec // public page
		return err
	}
	fmt.Fprintf(os.Stderr, "Generated %s\n", indexPath)
	return nil
}

func renderMarkdown(src []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(markdown.Render(p.Parse(src), renderer))
}

var archiveName = regexp.MustCompile(`^kvpath_([^_]+)_(Darwin|Linux|Windows)_(arm64|x86_64)\.(?:tar\.gz|zip)$`)

type archive struct {
	File     string
	Version  string
	Platform string
}

func releaseArchives(distDir string) ([]archive, error) {
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return nil, err
	}
	var out []archive
	for _, e := range entries {
		m := archiveName.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		out = append(out, archive{File: e.Name(), Version: m[1], Platform: m[2] + " " + m[3]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out, nil
}

func downloadsHTML(archives []archive) string {
	if len(archives) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h2 id=\"installation\">Installation</h2>\n<p>Release %s</p>\n<table class=\"downloads\">\n", archives[0].Version)
	for _, a := range archives {
		fmt.Fprintf(&sb, "  <tr><td>%s</td><td><a href=\"%s\">%s</a></td></tr>\n", a.Platform, a.File, a.File)
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

// replaceSection swaps the <h2 id="id"> section up to the next <h2> with
// replacement. The page is returned unchanged when either is missing.
func replaceSection(page, id, replacement string) string {
	if replacement == "" {
		return page
	}
	start := strings.Index(page, `<h2 id="`+id+`">`)
	if start < 0 {
		return page
	}
	next := strings.Index(page[start+1:], "<h2 ")
	if next < 0 {
		return page[:start] + replacement
	}
	return page[:start] + replacement + page[start+1+next:]
}

const pageHeader = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>kvpath</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 860px; margin: 40px auto; padding: 0 20px; line-height: 1.6; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; }
    pre { background: #1e293b; color: #e2e8f0; padding: 16px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; }
    table { border-collapse: collapse; }
    td, th { padding: 4px 10px; border-bottom: 1px solid #e2e8f0; }
  </style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
