package content

import (
	"iter"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Ignatius32/programas-crubunco/core/textnorm"
)

// tagLike matches the opening of an HTML tag. Its presence is what switches a
// section from plain-text to HTML interpretation.
var tagLike = regexp.MustCompile(`<\s*/?[a-zA-Z][^>]*>`)

// allTags strips markup when malformed HTML falls back to plain text.
var allTags = regexp.MustCompile(`<[^>]*>`)

// bulletPrefixes are characters that open a list item in plain-text sections.
// Legacy records used a mix of Windows-1252 bullets and bare dashes; by the
// time text reaches here Normalize has folded those into this set.
var bulletPrefixes = []string{"•", "◦", "·", "‣", "–", "—", "-", "*", ">"}

// LooksHTML reports whether raw contains tag-like markup.
func LooksHTML(raw string) bool {
	return tagLike.MatchString(raw)
}

// Blocks interprets a section's raw value into a sequence of layout blocks,
// consumed once by a renderer. Plain text splits into paragraphs and bullet
// lists; HTML is parsed and its layout-affecting elements walked in document
// order. Malformed markup degrades to plain text, never an error.
func Blocks(raw string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		if !LooksHTML(raw) {
			emitPlain(raw, yield)
			return
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err != nil {
			emitPlain(allTags.ReplaceAllString(raw, " "), yield)
			return
		}

		root := doc.Selection
		if body := doc.Find("body"); body.Length() > 0 {
			root = body.First()
		}

		emitted := false
		ok := emitNodes(root, yield, &emitted)
		if !ok {
			return
		}
		if !emitted {
			// Markup parsed to nothing recognizable; keep whatever text
			// survives rather than dropping the section.
			emitPlain(doc.Text(), yield)
		}
	}
}

// emitNodes walks the direct children of sel in document order.
func emitNodes(sel *goquery.Selection, yield func(Block) bool, emitted *bool) bool {
	for _, node := range sel.Contents().Nodes {
		switch {
		case node.Type == html.TextNode:
			text := strings.TrimSpace(node.Data)
			if text != "" {
				if !emitPlainCounted(text, yield, emitted) {
					return false
				}
			}

		case node.Type != html.ElementNode:
			// comments, doctypes

		case node.Data == "table":
			grid := FlattenTable(wrap(node))
			if grid.Cols > 0 {
				*emitted = true
				if !yield(Table{Grid: grid}) {
					return false
				}
			}

		case node.Data == "ul" || node.Data == "ol":
			list := List{Ordered: node.Data == "ol"}
			wrap(node).Find("li").Each(func(_ int, li *goquery.Selection) {
				if item := cleanText(li.Text()); item != "" {
					list.Items = append(list.Items, item)
				}
			})
			if len(list.Items) > 0 {
				*emitted = true
				if !yield(list) {
					return false
				}
			}

		case node.Data == "p":
			if text := cleanText(wrap(node).Text()); text != "" {
				*emitted = true
				if !yield(Paragraph{Text: text}) {
					return false
				}
			}

		case node.Data == "div":
			// div containers are transparent: recurse into them.
			if !emitNodes(wrap(node), yield, emitted) {
				return false
			}

		default:
			// b/strong/i/em and unknown tags degrade to their text content.
			if text := cleanText(wrap(node).Text()); text != "" {
				if !emitPlainCounted(text, yield, emitted) {
					return false
				}
			}
		}
	}
	return true
}

// wrap lifts a bare parse node into a goquery selection.
func wrap(node *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(node).Selection
}

// emitPlain splits text into paragraphs and groups consecutive bullet lines
// into a single list block, preserving original order.
func emitPlain(text string, yield func(Block) bool) {
	emitted := false
	emitPlainCounted(text, yield, &emitted)
}

func emitPlainCounted(text string, yield func(Block) bool, emitted *bool) bool {
	text = cleanText(text)

	var items []string
	flush := func() bool {
		if len(items) == 0 {
			return true
		}
		*emitted = true
		ok := yield(List{Items: items})
		items = nil
		return ok
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if item, isBullet := trimBullet(line); isBullet {
			items = append(items, item)
			continue
		}
		if !flush() {
			return false
		}
		*emitted = true
		if !yield(Paragraph{Text: line}) {
			return false
		}
	}
	return flush()
}

// trimBullet strips a leading bullet marker, reporting whether one was found.
func trimBullet(line string) (string, bool) {
	for _, b := range bulletPrefixes {
		if strings.HasPrefix(line, b) {
			return strings.TrimSpace(strings.TrimPrefix(line, b)), true
		}
	}
	return line, false
}

func cleanText(s string) string {
	return strings.TrimSpace(textnorm.Normalize(textnorm.DecodeEntities(s)))
}
