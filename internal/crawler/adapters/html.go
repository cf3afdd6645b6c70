package adapters

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"storecrawl/internal/config"
	"storecrawl/internal/models"
)

// HTMLAdapter handles table-like store listings in page markup. The header
// row names the columns; each body row becomes one raw mapping. This is the
// shape that needs the heaviest cleaning downstream, since cell text carries
// whitespace and entity artifacts.
type HTMLAdapter struct {
	tableClass string
	fieldMap   map[string]string
}

// NewHTMLAdapter creates an adapter for table-like HTML listings.
func NewHTMLAdapter(tableClass string, fieldMap map[string]string) *HTMLAdapter {
	return &HTMLAdapter{
		tableClass: tableClass,
		fieldMap:   fieldMap,
	}
}

// Shape returns the shape identifier.
func (a *HTMLAdapter) Shape() string {
	return config.ShapeHTML
}

// Extract parses the markup, finds the store table, and converts each body
// row into a raw mapping keyed by the lowercased header cells.
func (a *HTMLAdapter) Extract(body, _ string) ([]models.RawStore, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	table := a.findTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: no matching table", ErrNoRecordsFound)
	}

	var headers []string

	var records []models.RawStore

	for _, row := range findAll(table, "tr") {
		cells := rowCells(row)
		if len(cells) == 0 {
			continue
		}

		if headers == nil {
			headers = make([]string, len(cells))
			for i, cell := range cells {
				headers[i] = strings.ToLower(collapseSpace(cell))
			}

			continue
		}

		record := make(map[string]any, len(headers))

		for i, cell := range cells {
			if i >= len(headers) || headers[i] == "" {
				continue
			}

			record[headers[i]] = collapseSpace(cell)
		}

		if len(record) > 0 {
			records = append(records, applyFieldMap(record, a.fieldMap))
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: table has no data rows", ErrNoRecordsFound)
	}

	return records, nil
}

// findTable returns the first table node, filtered by class when one is
// configured.
func (a *HTMLAdapter) findTable(doc *html.Node) *html.Node {
	for _, table := range findAll(doc, "table") {
		if a.tableClass == "" || hasClass(table, a.tableClass) {
			return table
		}
	}

	return nil
}

// rowCells returns the text of each th/td cell in a row.
func rowCells(row *html.Node) []string {
	var cells []string

	for child := row.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && (child.Data == "td" || child.Data == "th") {
			cells = append(cells, nodeText(child))
		}
	}

	return cells
}

// findAll collects every descendant element with the given tag name.
func findAll(node *html.Node, tag string) []*html.Node {
	var found []*html.Node

	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			found = append(found, n)
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	walk(node)

	return found
}

// nodeText concatenates all text content under a node.
func nodeText(node *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	walk(node)

	return sb.String()
}

func hasClass(node *html.Node, class string) bool {
	for _, attr := range node.Attr {
		if attr.Key != "class" {
			continue
		}

		for _, candidate := range strings.Fields(attr.Val) {
			if candidate == class {
				return true
			}
		}
	}

	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
