// Package query turns declarative search intents into IMAP SEARCH
// queries.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"

	"github.com/nhle/order-tracker/internal/model"
)

// sinceLayout is the configuration form of a since date, after the
// optional "after:" prefix.
const sinceLayout = "2006/01/02"

// imapDateLayout is the RFC 3501 date format used by SINCE.
const imapDateLayout = "02-Jan-2006"

// Query is one translated search. Literal is the IMAP SEARCH grammar
// text; Criteria is the equivalent structure sent by go-imap.
type Query struct {
	Literal  string
	Criteria *imap.SearchCriteria
}

// String returns the literal IMAP query.
func (q Query) String() string {
	return q.Literal
}

// Translate converts an intent into a Query. It never fails: an absent
// or unparsable since date omits the date clause.
func Translate(intent model.SearchIntent) Query {
	criteria := &imap.SearchCriteria{}
	var clauses []string

	if since, ok := ParseSince(intent.Since); ok {
		clauses = append(clauses, "SINCE "+since.Format(imapDateLayout))
		criteria.Since = since
	}

	if lit, c, ok := disjunction("FROM", "From", intent.Senders); ok {
		clauses = append(clauses, lit)
		merge(criteria, c)
	}

	if lit, c, ok := disjunction("SUBJECT", "Subject", intent.Subjects); ok {
		clauses = append(clauses, lit)
		merge(criteria, c)
	}

	if len(clauses) == 0 {
		return Query{Literal: "ALL", Criteria: criteria}
	}

	return Query{
		Literal:  strings.Join(clauses, " "),
		Criteria: criteria,
	}
}

// ParseSince parses "after:YYYY/MM/DD" (prefix optional) into a UTC date.
func ParseSince(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "after:")
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(sinceLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatSince renders t in the configuration form.
func FormatSince(t time.Time) string {
	return "after:" + t.Format(sinceLayout)
}

// disjunction builds the clause for one header key over patterns. A
// single pattern is a bare key; several are folded into nested binary
// ORs, each operand wrapped in parentheses.
func disjunction(
	keyword, header string, patterns []string,
) (string, *imap.SearchCriteria, bool) {
	var kept []string
	for _, p := range patterns {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "", nil, false
	}

	lit, c := fold(keyword, header, kept)
	return lit, c, true
}

func fold(keyword, header string, patterns []string) (string, *imap.SearchCriteria) {
	if len(patterns) == 1 {
		lit := fmt.Sprintf("%s %s", keyword, quote(patterns[0]))
		c := &imap.SearchCriteria{
			Header: []imap.SearchCriteriaHeaderField{
				{Key: header, Value: patterns[0]},
			},
		}
		return lit, c
	}

	headLit, headC := fold(keyword, header, patterns[:1])
	restLit, restC := fold(keyword, header, patterns[1:])
	if len(patterns) == 2 {
		restLit = "(" + restLit + ")"
	}

	lit := fmt.Sprintf("(OR (%s) %s)", headLit, restLit)
	c := &imap.SearchCriteria{
		Or: [][2]imap.SearchCriteria{{*headC, *restC}},
	}
	return lit, c
}

// merge ANDs src into dst.
func merge(dst, src *imap.SearchCriteria) {
	dst.Header = append(dst.Header, src.Header...)
	dst.Or = append(dst.Or, src.Or...)
}

// quote renders s as an IMAP quoted string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
