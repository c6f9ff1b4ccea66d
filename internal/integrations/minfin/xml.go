package minfin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/Dan9191/debt-indexation/internal/inflation"
)

// parseXMLTable reads an XML or XHTML export of the index table. Rows are
// <tr> elements anywhere in the document; a "value" attribute on a cell
// takes precedence over its text.
func parseXMLTable(body []byte) ([]inflation.TableRow, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	trElements := doc.FindElements("//tr")
	if len(trElements) == 0 {
		return nil, errNoTable
	}

	var rows []inflation.TableRow
	for _, tr := range trElements {
		var (
			row   inflation.TableRow
			first = true
		)
		for _, cell := range tr.ChildElements() {
			if cell.Tag != "td" && cell.Tag != "th" {
				continue
			}
			if first {
				row.Year = elementText(cell)
				first = false
				continue
			}
			row.Months = append(row.Months, cellIndex(cell))
		}
		if !first {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func cellIndex(cell *etree.Element) inflation.RawIndex {
	if attr := cell.SelectAttrValue("value", ""); attr != "" {
		if v, err := strconv.ParseFloat(attr, 64); err == nil {
			return inflation.NumberIndex(v)
		}
		return inflation.TextIndex(attr)
	}
	return inflation.TextIndex(elementText(cell))
}

func elementText(e *etree.Element) string {
	var b strings.Builder
	var collect func(*etree.Element)
	collect = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				collect(t)
			}
		}
	}
	collect(e)
	return strings.Join(strings.Fields(b.String()), " ")
}
