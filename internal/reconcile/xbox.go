package reconcile

import (
	"context"

	"github.com/nhle/order-tracker/internal/extract"
	"github.com/nhle/order-tracker/internal/model"
)

// CollectXboxCodes sweeps folder for Game Pass code emails. Codes are
// returned in search order and are not deduplicated here.
func (e *Engine) CollectXboxCodes(
	ctx context.Context, folder string,
) ([]model.XboxCode, model.PhaseStatistics) {
	codes := []model.XboxCode{}
	var stats model.PhaseStatistics

	e.runPhase(ctx, folder, model.PhaseXbox, e.search.Xbox, &stats,
		func(res extract.Result) {
			codes = append(codes, model.XboxCode{
				Code:        res.Code,
				Date:        res.Date,
				OrderNumber: res.OrderNumber,
			})
			stats.Codes++
			e.logger.Debug("collected code", "order", res.OrderNumber)
		})

	e.logger.Info("xbox collection finished", "folder", folder, "codes", len(codes))
	return codes, stats
}
