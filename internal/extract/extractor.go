package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
)

// Extractor turns raw messages into partial order facts. It is
// stateless apart from its rules and safe for concurrent use.
type Extractor struct {
	rules  *Rules
	logger *log.Logger
}

// New returns an Extractor using rules, or DefaultRules when nil.
func New(rules *Rules, logger *log.Logger) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{rules: rules, logger: logger}
}

// Extract parses raw as kind. It never fails: a message that does not
// decode or does not match its template yields an empty Result.
func (e *Extractor) Extract(raw []byte, kind Kind) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction panicked", "kind", kind, "panic", fmt.Sprint(r))
			res = Result{}
		}
	}()

	env, err := parseMessage(raw)
	if err != nil {
		e.logger.Debug("no html body", "kind", kind, "err", err)
		return Result{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(env.HTML))
	if err != nil {
		e.logger.Debug("unparseable html", "kind", kind, "err", err)
		return Result{}
	}

	switch kind {
	case KindConfirmation:
		res = e.confirmation(doc)
		res.EmailAddress = env.To
	case KindCancellation:
		res = Result{OrderNumber: e.rules.statusOrderNumber(doc)}
	case KindShipment:
		res = e.shipment(doc)
	case KindXbox:
		res.Code, res.OrderNumber = e.rules.xboxCode(doc)
		if res.Code == "" {
			return Result{}
		}
	default:
		e.logger.Warn("unknown message kind", "kind", kind)
		return Result{}
	}

	if res.Empty() {
		e.logger.Debug("message matched no template", "kind", kind)
		return Result{}
	}
	res.Date = env.Date
	return res
}

func (e *Extractor) confirmation(doc *goquery.Document) Result {
	number := e.rules.confirmationOrderNumber(doc)
	if number == "" {
		return Result{}
	}

	products, total := e.rules.products(doc)
	return Result{
		OrderNumber: number,
		TotalPrice:  total,
		Products:    products,
	}
}

func (e *Extractor) shipment(doc *goquery.Document) Result {
	number := e.rules.statusOrderNumber(doc)
	if number == "" {
		return Result{}
	}

	return Result{
		OrderNumber:     number,
		TrackingNumbers: e.rules.trackingNumbers(doc),
	}
}
