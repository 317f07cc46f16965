// Package reconcile drives the confirmation, cancellation and shipment
// sweeps over a mailbox and folds their facts into one order ledger.
package reconcile

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/nhle/order-tracker/internal/extract"
	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/query"
	"github.com/nhle/order-tracker/internal/source"
)

// Extractor turns one raw message into partial facts.
type Extractor interface {
	Extract(raw []byte, kind extract.Kind) extract.Result
}

// Engine runs reconciliation passes against a mailbox. It is not safe
// for concurrent use; the mailbox session is sequential.
type Engine struct {
	mailbox   source.Mailbox
	extractor Extractor
	search    model.SearchConfig
	logger    *log.Logger
}

// NewEngine creates an Engine. search is copied and never mutated.
func NewEngine(
	mailbox source.Mailbox,
	extractor Extractor,
	search model.SearchConfig,
	logger *log.Logger,
) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		mailbox:   mailbox,
		extractor: extractor,
		search:    search,
		logger:    logger,
	}
}

// RunOrderReconciliation sweeps folder for confirmations, then
// cancellations, then shipment notices, and returns the reconciled
// orders in first-confirmed order.
//
// Only confirmations create orders. A failed select or search aborts
// that phase alone; a failed fetch drops that message alone.
func (e *Engine) RunOrderReconciliation(
	ctx context.Context, folder string,
) ([]model.Order, model.PhaseStatistics) {
	ledger := NewLedger()
	var stats model.PhaseStatistics

	e.runPhase(ctx, folder, model.PhaseConfirmation, e.search.Confirmation, &stats,
		func(res extract.Result) {
			ledger.Confirm(model.Order{
				OrderNumber:  res.OrderNumber,
				OrderDate:    res.Date,
				TotalPrice:   res.TotalPrice,
				EmailAddress: res.EmailAddress,
				Products:     res.Products,
			})
			stats.Confirmations++
			e.logger.Debug("confirmed", "order", res.OrderNumber)
		})

	e.runPhase(ctx, folder, model.PhaseCancellation, e.search.Cancellation, &stats,
		func(res extract.Result) {
			if !ledger.Cancel(res.OrderNumber) {
				e.logger.Debug("cancellation for unknown order", "order", res.OrderNumber)
				return
			}
			stats.Cancellations++
			e.logger.Debug("cancelled", "order", res.OrderNumber)
		})

	e.runPhase(ctx, folder, model.PhaseShipment, e.search.Shipment, &stats,
		func(res extract.Result) {
			known, shipped := ledger.Ship(res.OrderNumber, res.TrackingNumbers)
			if !known {
				e.logger.Debug("shipment for unknown order", "order", res.OrderNumber)
				return
			}
			stats.TrackingNumbersFound += len(res.TrackingNumbers)
			if shipped {
				stats.Shipped++
			}
			e.logger.Debug("shipped", "order", res.OrderNumber,
				"tracking", res.TrackingNumbers, "status_changed", shipped)
		})

	e.logger.Info("reconciliation finished",
		"folder", folder,
		"orders", ledger.Len(),
		"processed", stats.Processed,
		"successful", stats.Successful,
		"failed", stats.Failed,
	)

	return ledger.Records(), stats
}

// runPhase performs one search-fetch-extract sweep and hands each usable
// result to apply. Every message found is counted once as either
// successful or failed.
func (e *Engine) runPhase(
	ctx context.Context,
	folder string,
	phase model.Phase,
	intent model.SearchIntent,
	stats *model.PhaseStatistics,
	apply func(extract.Result),
) {
	logger := e.logger.With("phase", phase)

	if err := e.mailbox.SelectFolder(ctx, folder); err != nil {
		logger.Error("select failed, skipping phase", "folder", folder, "err", err)
		stats.AbortedPhases = append(stats.AbortedPhases, phase)
		return
	}

	q := query.Translate(intent)
	ids, err := e.mailbox.Search(ctx, q)
	if err != nil {
		logger.Error("search failed, skipping phase", "query", q.Literal, "err", err)
		stats.AbortedPhases = append(stats.AbortedPhases, phase)
		return
	}
	logger.Info("found messages", "count", len(ids), "query", q.Literal)

	for i, id := range ids {
		if ctx.Err() != nil {
			logger.Warn("phase interrupted", "done", i, "total", len(ids))
			stats.AbortedPhases = append(stats.AbortedPhases, phase)
			return
		}

		msg, err := e.mailbox.Fetch(ctx, id)
		if err != nil {
			logger.Warn("fetch failed, skipping message", "id", id, "err", err)
			stats.FetchFailures++
			stats.Record(false)
			continue
		}

		res := e.extractor.Extract(msg.Body, kindOf(phase))
		if !usable(phase, res) {
			logger.Debug("no match", "id", id)
			stats.Record(false)
			continue
		}

		apply(res)
		stats.Record(true)
	}
}

// usable reports whether res carries the key its phase merges on: the
// code for Xbox mail, the order number otherwise.
func usable(phase model.Phase, res extract.Result) bool {
	if phase == model.PhaseXbox {
		return res.Code != ""
	}
	return res.OrderNumber != ""
}

func kindOf(phase model.Phase) extract.Kind {
	return extract.Kind(phase)
}
