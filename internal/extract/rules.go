package extract

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Selector matches HTML elements by tag, exact attribute values, style
// substrings and text content. Zero-valued fields match anything.
type Selector struct {
	Tag string `yaml:"tag"`

	// Attrs must match exactly, e.g. style="font: bold 14px Arial".
	Attrs map[string]string `yaml:"attrs,omitempty"`

	// StyleContains lists substrings that must all occur in the style
	// attribute.
	StyleContains []string `yaml:"style_contains,omitempty"`

	// TextContains is matched against all descendant text.
	TextContains string `yaml:"text_contains,omitempty"`

	// OwnText is matched against the element's direct text children
	// only. OwnTextExact requires equality after trimming.
	OwnText      string `yaml:"own_text,omitempty"`
	OwnTextExact bool   `yaml:"own_text_exact,omitempty"`
}

// OrderNumberRules locate the order number in each template family.
type OrderNumberRules struct {
	Confirmation Selector `yaml:"confirmation"`

	// Status emails (cancelled, shipped) carry "Order #BBY01-..." in a
	// heading; StripPrefix is removed from its text.
	Status      Selector `yaml:"status"`
	StripPrefix string   `yaml:"strip_prefix"`

	// Older status emails put the number in a labelled table cell.
	AltContainer Selector `yaml:"alt_container"`
	AltTarget    Selector `yaml:"alt_target"`
}

// ProductRules locate line items and the order total in confirmations.
type ProductRules struct {
	Section  Selector `yaml:"section"`
	Title    Selector `yaml:"title"`
	QtyLabel Selector `yaml:"qty_label"`
	Price    Selector `yaml:"price"`
	Total    Selector `yaml:"total"`
}

// TrackingFormat is a container holding a tracking number in a child
// element.
type TrackingFormat struct {
	Container Selector `yaml:"container"`
	Target    Selector `yaml:"target"`
}

// XboxRules locate the Game Pass code and its order.
type XboxRules struct {
	CodeElement  Selector `yaml:"code_element"`
	CodePattern  string   `yaml:"code_pattern"`
	OrderPattern string   `yaml:"order_pattern"`
}

// Rules is the full selector table for the retailer's templates.
type Rules struct {
	OrderNumber OrderNumberRules `yaml:"order_number"`
	Products    ProductRules     `yaml:"products"`
	Tracking    []TrackingFormat `yaml:"tracking"`
	Xbox        XboxRules        `yaml:"xbox"`

	codeRE  *regexp.Regexp
	orderRE *regexp.Regexp
}

const boldValue = "font-weight: 700"

// DefaultRules returns the selector table for Best Buy's current and
// previous email templates.
func DefaultRules() *Rules {
	r := &Rules{
		OrderNumber: OrderNumberRules{
			Confirmation: Selector{Tag: "span", OwnText: "BBY01-"},
			Status: Selector{
				Tag:   "span",
				Attrs: map[string]string{"style": "font: bold 23px Arial; color: #1d252c;"},
			},
			StripPrefix: "Order #",
			AltContainer: Selector{
				Tag:          "td",
				Attrs:        map[string]string{"style": "padding-bottom:12px;"},
				TextContains: "Order number:",
			},
			AltTarget: Selector{
				Tag:           "span",
				StyleContains: []string{boldValue, "font-size: 14px"},
			},
		},
		Products: ProductRules{
			Section: Selector{
				Tag:           "td",
				StyleContains: []string{"width:60%;max-width:359px;"},
			},
			Title: Selector{
				Tag:   "a",
				Attrs: map[string]string{"style": "text-decoration: none;"},
			},
			QtyLabel: Selector{Tag: "td", OwnText: "Qty:", OwnTextExact: true},
			Price: Selector{
				Tag:           "span",
				OwnText:       "$",
				StyleContains: []string{"font-weight: 700;font-size: 14px;line-height: 18px;"},
			},
			Total: Selector{
				Tag:   "td",
				Attrs: map[string]string{"align": "right"},
				StyleContains: []string{
					"padding-top:12px; padding-left:0;padding-right:0; padding-bottom:0; color:#000000;",
				},
			},
		},
		Tracking: []TrackingFormat{
			{
				Container: Selector{
					Tag:          "span",
					Attrs:        map[string]string{"style": "font: bold 14px Arial"},
					TextContains: "Tracking #:",
				},
				Target: Selector{Tag: "a"},
			},
			{
				Container: Selector{
					Tag:          "td",
					Attrs:        map[string]string{"style": "padding-bottom:12px;"},
					TextContains: "Tracking Number:",
				},
				Target: Selector{
					Tag:           "span",
					StyleContains: []string{boldValue, "font-size: 14px"},
				},
			},
		},
		Xbox: XboxRules{
			CodeElement:  Selector{Tag: "strong", OwnText: "Code:"},
			CodePattern:  `Code:\s*([A-Z0-9-]+)`,
			OrderPattern: `Order\s*#\s*(BBY01-\d+)`,
		},
	}
	if err := r.compile(); err != nil {
		panic(err)
	}
	return r
}

// LoadRules reads a YAML selector table. Sections missing from the file
// keep their default values.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}

	r := DefaultRules()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	if err := r.compile(); err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return r, nil
}

func (r *Rules) compile() error {
	var err error
	if r.codeRE, err = regexp.Compile(r.Xbox.CodePattern); err != nil {
		return fmt.Errorf("xbox code pattern: %w", err)
	}
	if r.codeRE.NumSubexp() < 1 {
		return fmt.Errorf("xbox code pattern %q has no capture group", r.Xbox.CodePattern)
	}
	if r.orderRE, err = regexp.Compile(r.Xbox.OrderPattern); err != nil {
		return fmt.Errorf("xbox order pattern: %w", err)
	}
	if r.orderRE.NumSubexp() < 1 {
		return fmt.Errorf("xbox order pattern %q has no capture group", r.Xbox.OrderPattern)
	}
	return nil
}
