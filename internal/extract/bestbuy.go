package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nhle/order-tracker/internal/model"
)

const notAvailable = "N/A"

// confirmationOrderNumber finds the order number in a confirmation.
func (r *Rules) confirmationOrderNumber(doc *goquery.Document) string {
	return textOf(r.OrderNumber.Confirmation.findFirst(doc.Selection))
}

// statusOrderNumber finds the order number in a cancellation or
// shipment notice, trying the heading first and the labelled cell
// second.
func (r *Rules) statusOrderNumber(doc *goquery.Document) string {
	rules := r.OrderNumber

	if heading := rules.Status.findFirst(doc.Selection); heading.Length() > 0 {
		text := textOf(heading)
		if rules.StripPrefix != "" {
			text = strings.ReplaceAll(text, rules.StripPrefix, "")
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}

	var number string
	rules.AltContainer.findAll(doc.Selection).EachWithBreak(func(_ int, td *goquery.Selection) bool {
		number = textOf(rules.AltTarget.findFirst(td))
		return number == ""
	})
	return number
}

// products returns the line items and the order total of a confirmation.
// An item without a price is skipped.
func (r *Rules) products(doc *goquery.Document) ([]model.Product, string) {
	rules := r.Products
	order := documentOrder(doc.Get(0))
	qtyLabels := rules.QtyLabel.findAll(doc.Selection)

	products := []model.Product{}
	rules.Section.findAll(doc.Selection).Each(func(_ int, section *goquery.Selection) {
		title := rules.Title.findFirst(section)
		if title.Length() == 0 {
			return
		}

		price := textOf(rules.Price.findFirst(section))
		if price == "" {
			return
		}

		products = append(products, model.Product{
			Title:    textOf(title),
			Price:    price,
			Quantity: quantityAfter(section, qtyLabels, order),
		})
	})

	total := textOf(rules.Total.findFirst(doc.Selection))
	if total == "" {
		total = notAvailable
	}
	return products, total
}

// quantityAfter reads the cell next to the first "Qty:" label that
// follows section in document order.
func quantityAfter(section, labels *goquery.Selection, order map[*html.Node]int) string {
	start := order[section.Get(0)]

	qty := notAvailable
	labels.EachWithBreak(func(_ int, label *goquery.Selection) bool {
		if order[label.Get(0)] <= start {
			return true
		}
		if cell := label.NextAllFiltered("td").First(); cell.Length() > 0 {
			qty = textOf(cell)
		}
		return false
	})
	return qty
}

// trackingNumbers collects every tracking number across all known
// layouts, in document order per layout.
func (r *Rules) trackingNumbers(doc *goquery.Document) []string {
	var out []string
	for _, format := range r.Tracking {
		format.Container.findAll(doc.Selection).Each(func(_ int, container *goquery.Selection) {
			if number := textOf(format.Target.findFirst(container)); number != "" {
				out = append(out, number)
			}
		})
	}
	return out
}
