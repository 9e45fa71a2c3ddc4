package html

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/chatdoc"
)

var _ chatdoc.Converter = (*MarkdownConverter)(nil)

// MarkdownConverter converts HTML to CommonMark, keeping tables.
type MarkdownConverter struct {
	conv *converter.Converter
}

// NewMarkdownConverter creates a new MarkdownConverter.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert transforms html into Markdown.
func (c *MarkdownConverter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", chatdoc.Errorf(chatdoc.EINVALID, "empty HTML input")
	}
	return c.conv.ConvertString(html)
}

// PlainText returns the visible text of the document body with scripts and
// styles removed and whitespace collapsed per line.
func PlainText(rawHTML string) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", "", err
	}
	doc.Find("script, style, noscript, nav, footer").Remove()
	title = strings.TrimSpace(doc.Find("title").First().Text())

	var lines []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return title, strings.Join(lines, "\n"), nil
}
