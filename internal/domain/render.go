package domain

import (
	"fmt"
	"strings"
)

// quoteBlockFormat is the centered, italic block placed between the markers.
const quoteBlockFormat = `<p align="center" style="font-style: italic;">
  <i>“%s”</i><br/>
  — %s
</p>`

// RenderQuoteBlock formats the quote as an HTML paragraph with an em-dash attribution.
func RenderQuoteBlock(q *Quote) string {
	return fmt.Sprintf(quoteBlockFormat, strings.TrimSpace(q.Text), strings.TrimSpace(q.Author))
}

// RegionContent is the full replacement for the marker region. The blank lines
// around the block keep Markdown renderers treating it as raw HTML.
func RegionContent(q *Quote) string {
	return "\n\n" + RenderQuoteBlock(q) + "\n\n"
}
