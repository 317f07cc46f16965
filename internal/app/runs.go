package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/order-tracker/internal/credential"
	"github.com/nhle/order-tracker/internal/export"
	"github.com/nhle/order-tracker/internal/store"
	appsync "github.com/nhle/order-tracker/internal/sync"
)

// RunOptions selects what a run does.
type RunOptions struct {
	Profile string
	// Folder defaults to the profile service's default folder.
	Folder string
	// Since overrides the date bound of every search template.
	Since  string
	Orders bool
	Xbox   bool
	// Export writes the configured CSV files after the run.
	Export bool
	// Schedule overrides schedule.cron for Watch.
	Schedule string
}

// Run connects, performs one reconciliation run, saves the results and
// prints the summaries. Only connection and database problems are
// returned as errors; an empty mailbox is a successful run.
func (a *App) Run(ctx context.Context, opts RunOptions) (appsync.Result, error) {
	mb, p, err := a.connect(ctx, opts.Profile)
	if err != nil {
		return appsync.Result{}, err
	}
	defer mb.Disconnect()

	syncer, st, err := a.newSyncer(mb, opts.Since)
	if err != nil {
		return appsync.Result{}, err
	}
	defer st.Close()

	job := a.job(p.Name, p.Service, opts)
	a.logger.Info("starting run",
		"profile", job.Profile,
		"folder", job.Folder,
		"since", firstNonEmpty(opts.Since, searchSince(a.cfg.Search)),
	)

	res, err := syncer.RunOnce(ctx, job)
	if err != nil {
		return res, err
	}
	a.printRun(res, job)

	sum, err := st.OrderSummary(ctx)
	if err != nil {
		return res, fmt.Errorf("reading summary: %w", err)
	}
	a.printStore(sum)

	if opts.Export {
		if err := a.exportResult(res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Watch connects once and re-runs the job on the configured schedule
// until ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	spec := firstNonEmpty(opts.Schedule, a.cfg.Schedule.Cron)
	if err := appsync.ValidateSchedule(spec); err != nil {
		return err
	}

	mb, p, err := a.connect(ctx, opts.Profile)
	if err != nil {
		return err
	}
	defer mb.Disconnect()

	syncer, st, err := a.newSyncer(mb, opts.Since)
	if err != nil {
		return err
	}
	defer st.Close()

	sched, err := appsync.NewScheduler(syncer, a.job(p.Name, p.Service, opts), spec, a.logger)
	if err != nil {
		return err
	}
	return sched.Run(ctx)
}

// ShowFolders prints the mailboxes of a profile.
func (a *App) ShowFolders(ctx context.Context, profile string) error {
	folders, err := a.Folders(ctx, profile)
	if err != nil {
		return err
	}
	a.printFolders(folders)
	return nil
}

// ShowProfiles prints the configured profiles.
func (a *App) ShowProfiles() {
	a.printProfiles(a.Profiles())
}

// ExportOptions overrides the configured export paths. Empty paths fall
// back to the config; an empty XLSX path with no config value skips the
// workbook.
type ExportOptions struct {
	OrdersCSV  string
	CodesCSV   string
	OrdersXLSX string
}

// Export writes the stored orders and codes to CSV and, when
// configured, to an XLSX workbook.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	st, err := a.store()
	if err != nil {
		return err
	}
	defer st.Close()

	orders, err := st.GetOrders(ctx)
	if err != nil {
		return err
	}
	codes, err := st.GetXboxCodes(ctx)
	if err != nil {
		return err
	}

	ordersPath := firstNonEmpty(opts.OrdersCSV, a.cfg.Export.OrdersCSV)
	codesPath := firstNonEmpty(opts.CodesCSV, a.cfg.Export.CodesCSV)
	if err := export.SaveOrdersCSV(ordersPath, orders); err != nil {
		return err
	}
	if err := export.SaveCodesCSV(codesPath, codes); err != nil {
		return err
	}
	a.printf("Exported %d orders to %s and %d codes to %s\n", len(orders), ordersPath, len(codes), codesPath)

	if xlsx := firstNonEmpty(opts.OrdersXLSX, a.cfg.Export.OrdersXLSX); xlsx != "" {
		if err := export.SaveWorkbook(xlsx, orders, codes); err != nil {
			return err
		}
		a.printf("Wrote workbook %s\n", xlsx)
	}
	return nil
}

// exportResult writes the CSV files for just the orders and codes of
// one run.
func (a *App) exportResult(res appsync.Result) error {
	var errs []error
	if len(res.Orders) > 0 {
		errs = append(errs, export.SaveOrdersCSV(a.cfg.Export.OrdersCSV, res.Orders))
	}
	if len(res.Codes) > 0 {
		errs = append(errs, export.SaveCodesCSV(a.cfg.Export.CodesCSV, res.Codes))
	}
	return errors.Join(errs...)
}

func (a *App) newSyncer(mb Mailbox, since string) (*appsync.Syncer, store.Store, error) {
	engine, err := a.newEngine(mb, since)
	if err != nil {
		return nil, nil, err
	}
	st, err := a.store()
	if err != nil {
		return nil, nil, err
	}
	return appsync.New(engine, st, a.logger), st, nil
}

func (a *App) job(profile, service string, opts RunOptions) appsync.Job {
	folder := opts.Folder
	if folder == "" {
		folder = credential.DefaultFolder(service)
	}
	return appsync.Job{
		Profile: profile,
		Folder:  folder,
		Orders:  opts.Orders,
		Xbox:    opts.Xbox,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
