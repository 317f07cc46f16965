package app

import (
	"github.com/nhle/order-tracker/internal/extract"
	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/reconcile"
	"github.com/nhle/order-tracker/internal/source"
)

// newEngine builds a reconciliation engine over mb using the configured
// search templates and extraction rules. A non-empty since overrides
// every template's date bound.
func (a *App) newEngine(mb source.Mailbox, since string) (*reconcile.Engine, error) {
	rules := extract.DefaultRules()
	if path := a.cfg.Extract.RulesFile; path != "" {
		loaded, err := extract.LoadRules(path)
		if err != nil {
			return nil, err
		}
		rules = loaded
		a.logger.Debug("loaded extraction rules", "path", path)
	}

	search := a.cfg.Search
	if since != "" {
		search = search.WithSince(since)
	}

	return reconcile.NewEngine(mb, extract.New(rules, a.logger), search, a.logger), nil
}

// searchSince returns the date bound the templates use when no override
// is given, for display.
func searchSince(cfg model.SearchConfig) string {
	for _, s := range []string{cfg.Confirmation.Since, cfg.Xbox.Since} {
		if s != "" {
			return s
		}
	}
	return "all time"
}
