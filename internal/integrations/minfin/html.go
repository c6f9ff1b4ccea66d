package minfin

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Dan9191/debt-indexation/internal/inflation"
)

var errNoTable = errors.New("no table found in document")

// parseHTMLTable reads the rows of the first <table> on the page
func parseHTMLTable(body []byte) ([]inflation.TableRow, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, errNoTable
	}

	var rows []inflation.TableRow
	walk(table, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Tr {
			return true
		}
		var cells []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
				cells = append(cells, nodeText(c))
			}
		}
		if len(cells) > 0 {
			row := inflation.TableRow{Year: cells[0]}
			for _, cell := range cells[1:] {
				row.Months = append(row.Months, inflation.TextIndex(cell))
			}
			rows = append(rows, row)
		}
		return false
	})
	return rows, nil
}

func findFirst(root *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants; returning false skips the children
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
