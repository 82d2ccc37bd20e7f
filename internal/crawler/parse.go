package crawler

import (
	"strings"

	"golang.org/x/net/html"
)

// listingRow is one assessment row scraped from a catalog listing page,
// before the detail page has been visited.
type listingRow struct {
	ID       string
	Name     string
	Href     string
	Remote   string
	Adaptive string
	Letters  []string
}

// details holds the fields scraped from an assessment's own page.
type details struct {
	Duration    int
	Description string
}

// parseListing extracts assessment rows and the presence of a next-page
// arrow. The first page nests its rows under the "Individual Test Solutions"
// table heading; later pages use the product-catalogue__list container.
func parseListing(doc *html.Node, firstPage bool) (rows []listingRow, hasNext bool) {
	container := doc
	if firstPage {
		if header := find(doc, func(n *html.Node) bool {
			return isElement(n, "th") && hasClass(n, "custom__table-heading__title") &&
				strings.Contains(text(n), "Individual Test Solutions")
		}); header != nil {
			if table := ancestor(header, "table"); table != nil {
				container = table
			} else {
				return nil, false
			}
		} else {
			return nil, false
		}
	} else {
		container = find(doc, func(n *html.Node) bool {
			return isElement(n, "div") && hasClass(n, "product-catalogue__list")
		})
		if container == nil {
			return nil, false
		}
	}

	for _, tr := range findAll(container, func(n *html.Node) bool {
		return isElement(n, "tr") && attr(n, "data-entity-id") != ""
	}) {
		row := listingRow{ID: attr(tr, "data-entity-id"), Remote: "No", Adaptive: "No"}

		title := find(tr, func(n *html.Node) bool {
			return hasClass(n, "custom__table-heading__title")
		})
		if title == nil {
			continue
		}
		link := find(title, func(n *html.Node) bool { return isElement(n, "a") })
		if link == nil {
			continue
		}
		row.Name = text(link)
		row.Href = attr(link, "href")

		cells := findAll(tr, func(n *html.Node) bool { return isElement(n, "td") })
		if len(cells) > 1 && hasYesCircle(cells[1]) {
			row.Remote = "Yes"
		}
		if len(cells) > 2 && hasYesCircle(cells[2]) {
			row.Adaptive = "Yes"
		}

		for _, span := range findAll(tr, func(n *html.Node) bool {
			return hasClass(n, "product-catalogue__key")
		}) {
			if letter := text(span); letter != "" {
				row.Letters = append(row.Letters, letter)
			}
		}

		rows = append(rows, row)
	}

	next := find(doc, func(n *html.Node) bool {
		return hasClass(n, "pagination__item") && hasClass(n, "-arrow") &&
			hasClass(n, "-next") && !hasClass(n, "-disabled")
	})
	hasNext = next != nil && find(next, func(n *html.Node) bool { return isElement(n, "a") }) != nil

	return rows, hasNext
}

// parseDetails extracts the duration and description from an assessment page,
// degrading to the sentinels when either is missing.
func parseDetails(doc *html.Node) details {
	d := details{Duration: -1, Description: "N/A"}

	if header := find(doc, func(n *html.Node) bool {
		return isElement(n, "h4") && strings.Contains(strings.ToLower(text(n)), "assessment length")
	}); header != nil {
		if p := following(doc, header, "p"); p != nil {
			d.Duration = durationFrom(text(p))
		}
	}

	if d.Duration == -1 {
		if dt := find(doc, func(n *html.Node) bool {
			return isElement(n, "dt") && strings.TrimSpace(text(n)) == "Duration:"
		}); dt != nil {
			if dd := following(doc, dt, "dd"); dd != nil {
				if minutes := digits(text(dd)); minutes >= 0 {
					d.Duration = minutes
				}
			}
		}
	}

	if header := find(doc, func(n *html.Node) bool {
		return isElement(n, "h4") && strings.TrimSpace(text(n)) == "Description"
	}); header != nil {
		if row := ancestorWithClass(header, "div", "product-catalogue-training-calendar__row"); row != nil {
			if p := find(row, func(n *html.Node) bool { return isElement(n, "p") }); p != nil {
				if description := strings.TrimSpace(text(p)); description != "" {
					d.Description = description
				}
			}
		}
	}

	return d
}

// durationFrom parses strings like "Approximate Completion Time in minutes = 36".
func durationFrom(s string) int {
	if idx := strings.LastIndex(s, "="); idx != -1 {
		s = s[idx+1:]
	}
	return digits(s)
}

// digits extracts the concatenated digit runs of s, or -1 when there are none.
func digits(s string) int {
	value := -1
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if value == -1 {
			value = 0
		}
		value = value*10 + int(r-'0')
	}
	return value
}

func hasYesCircle(n *html.Node) bool {
	return find(n, func(c *html.Node) bool {
		return hasClass(c, "catalogue__circle") && hasClass(c, "-yes")
	}) != nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// text returns the concatenated text content of the subtree.
func text(n *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			builder.WriteString(c.Data)
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(builder.String())
}

func find(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

func ancestor(n *html.Node, tag string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if isElement(p, tag) {
			return p
		}
	}
	return nil
}

func ancestorWithClass(n *html.Node, tag, class string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if isElement(p, tag) && hasClass(p, class) {
			return p
		}
	}
	return nil
}

// following returns the first element with the given tag that appears after
// marker in document order.
func following(root, marker *html.Node, tag string) *html.Node {
	seen := false
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n == marker {
			seen = true
		} else if seen && isElement(n, tag) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}
