// Package corpus converts NITF news articles, as distributed in the New
// York Times Annotated Corpus, into plain text ready for annotation.
package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/kedarbellare/lore/internal/logging"
	"github.com/kedarbellare/lore/pkg/lore/internalerr"
)

// ExtractBody returns the article body of an NITF document, one paragraph
// per line. Paragraphs come from the full_text block, or from the whole of
// body.content when there is no such block.
func ExtractBody(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var paras []string
	if block := find(doc, isFullText); block != nil {
		paras = paragraphs(block)
	} else if content := find(doc, isElement("body.content")); content != nil {
		paras = paragraphs(content)
	}
	if len(paras) == 0 {
		return "", fmt.Errorf("no body text: %w", internalerr.ErrNotFound)
	}
	return strings.Join(paras, "\n"), nil
}

func isElement(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

func isFullText(n *html.Node) bool {
	if !isElement("block")(n) {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "class" && a.Val == "full_text" {
			return true
		}
	}
	return false
}

// find returns the first node in document order matching match.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// paragraphs returns the whitespace-normalised text of every non-empty <p>
// under n.
func paragraphs(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isElement("p")(n) {
			if text := strings.Join(strings.Fields(textOf(n)), " "); text != "" {
				out = append(out, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(n)
	return buf.String()
}

// Result counts the outcome of a conversion.
type Result struct {
	Converted int
	Skipped   int
}

// ConvertTree converts every *.xml file under inRoot into a .txt file at the
// same relative path under outRoot. Articles without body text are skipped.
func ConvertTree(ctx context.Context, inRoot, outRoot string) (Result, error) {
	var res Result
	err := filepath.WalkDir(inRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".xml") {
			return nil
		}

		rel, err := filepath.Rel(inRoot, path)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outRoot, strings.TrimSuffix(rel, ".xml")+".txt")

		converted, err := convertFile(path, outPath)
		if err != nil {
			return err
		}
		if converted {
			res.Converted++
			logging.Debug("converted", "file", path, "out", outPath)
		} else {
			res.Skipped++
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("convert %s: %w", inRoot, err)
	}
	return res, nil
}

func convertFile(path, outPath string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	body, err := ExtractBody(bytes.NewReader(data))
	if errors.Is(err, internalerr.ErrNotFound) {
		logging.Warn("skipping article without body", "file", path)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(outPath, []byte(body+"\n"), 0644); err != nil {
		return false, err
	}
	return true, nil
}
