package reporting

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spboyer/sampledrive/internal/suite"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders report as a markdown document with one section per sample.
func Markdown(report *suite.Report, title string) string {
	var b strings.Builder

	c := report.Counts()
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Started %s, took %v.\n\n", report.StartedAt.UTC().Format(time.RFC3339), report.Duration().Round(time.Millisecond))
	if report.Stopped {
		b.WriteString("Stopped at a checkpoint before every sample ran.\n\n")
	}

	b.WriteString("| | Sample | Outcome | Polls | Duration |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, res := range report.Results {
		duration := "-"
		if res.Session != nil {
			duration = res.Session.Duration().Round(time.Millisecond).String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", Icon(res), escapeCell(res.Sample.Label), Outcome(res), polls(res), duration)
	}
	fmt.Fprintf(&b, "\n**%d done**, %d errored, %d timed out, %d failed, %d skipped of %d.\n",
		c.Done, c.Errored, c.TimedOut, c.Failed, c.Skipped, c.Planned)

	for _, res := range report.Results {
		fmt.Fprintf(&b, "\n## %s\n\n", res.Sample.Label)
		if res.Err != nil {
			fmt.Fprintf(&b, "Error: `%s`\n\n", res.Err)
		}
		if res.ResetErr != nil {
			fmt.Fprintf(&b, "Reset failed: `%s`\n\n", res.ResetErr)
		}
		if res.Session == nil {
			continue
		}
		for _, shot := range res.Session.Screenshots() {
			fmt.Fprintf(&b, "- %s: ![%s](%s)\n", shot.Tag, shot.Tag, filepath.ToSlash(shot.Path))
		}
	}
	return b.String()
}

// HTML renders the markdown report as a standalone HTML page.
func HTML(report *suite.Report, title string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(report, title)), &body); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", htmlEscaper.Replace(title))
	page.WriteString("<style>body{font-family:sans-serif;max-width:1100px;margin:auto}img{max-width:100%;border:1px solid #ccc}td,th{padding:4px 8px}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Write renders report to path, choosing the format from the extension:
// .html/.htm for HTML, .xml for JUnit and markdown otherwise.
func Write(report *suite.Report, title, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		data, err := HTML(report, title)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case ".xml":
		return WriteJUnitXML(report, title, path)
	default:
		return os.WriteFile(path, []byte(Markdown(report, title)), 0o644)
	}
}

func polls(res suite.Result) string {
	if res.Session == nil || !res.State().Terminal() {
		return "-"
	}
	return fmt.Sprint(res.Session.Snapshot().Polls)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
