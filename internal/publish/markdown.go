package publish

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"launchpad-cli/internal/model"
	"launchpad-cli/internal/store"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type RenderOptions struct {
	// Title heads the document. Empty means "Launchpad".
	Title string

	// Usage adds launch counts per location when set.
	Usage []store.UsageCount
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"|", `\|`,
	"#", `\#`,
)

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(strings.TrimSpace(s))
}

// RenderLayoutMarkdown renders the collection as one markdown document, top
// level in order with folders expanded in place.
func RenderLayoutMarkdown(c model.Collection, opt RenderOptions) string {
	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Launchpad"
	}
	launches := map[string]int{}
	for _, u := range opt.Usage {
		launches[u.Location] = u.Count
	}

	folders := 0
	for _, it := range c {
		if it.Kind() == model.ItemKindFolder {
			folders++
		}
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + escapeMarkdown(title))
	writeLn("")
	writeLn(fmt.Sprintf("- Items: %d", len(c)))
	writeLn(fmt.Sprintf("- Apps: %d", len(c.Apps())))
	writeLn(fmt.Sprintf("- Folders: %d", folders))
	writeLn("")

	if len(c) == 0 {
		writeLn("_No applications yet._")
		return buf.String()
	}

	writeLn("## Layout")
	writeLn("")
	appLine := func(a model.App) string {
		line := escapeMarkdown(a.Name) + " · `" + a.Location + "`"
		if n := launches[a.Location]; n > 0 {
			line += fmt.Sprintf(" (%d launches)", n)
		}
		return line
	}
	for i, it := range c {
		switch v := it.(type) {
		case model.App:
			writeLn(fmt.Sprintf("%d. %s", i+1, appLine(v)))
		case model.Folder:
			writeLn(fmt.Sprintf("%d. :file_folder: **%s** (%d apps)", i+1, escapeMarkdown(v.Name), len(v.Items)))
			for _, a := range v.Items {
				writeLn("    - " + appLine(a))
			}
		}
	}
	return buf.String()
}

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Raw HTML passthrough stays disabled (no html.WithUnsafe()).
		html.WithHardWraps(),
	),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML converts a markdown document into a standalone HTML page.
func RenderHTML(title, md string) (string, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &body); err != nil {
		return "", err
	}
	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		// goldmark output is trusted only because raw HTML is disabled above.
		Body: template.HTML(body.String()),
	})
	if err != nil {
		return "", err
	}
	return page.String(), nil
}
