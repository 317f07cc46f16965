package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// xboxCode returns the Game Pass code and, when present, the order it
// was issued for.
func (r *Rules) xboxCode(doc *goquery.Document) (code, orderNumber string) {
	el := r.Xbox.CodeElement.findFirst(doc.Selection)
	if el.Length() == 0 {
		return "", ""
	}

	m := r.codeRE.FindStringSubmatch(el.Text())
	if m == nil {
		return "", ""
	}
	code = m[1]

	for _, text := range textNodes(doc.Get(0)) {
		if om := r.orderRE.FindStringSubmatch(text); om != nil {
			orderNumber = om[1]
			break
		}
	}
	return code, orderNumber
}
