package main

import (
	"github.com/spf13/cobra"

	"github.com/nhle/order-tracker/internal/app"
	"github.com/nhle/order-tracker/internal/prompt"
)

var (
	profileFlag    string
	folderFlag     string
	sinceFlag      string
	xboxFlag       bool
	noOrdersFlag   bool
	exportFlag     bool
	pickFolderFlag bool
	scheduleFlag   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile orders from one mailbox",
	Long: `Run connects to a profile's mailbox and sweeps it for order
confirmations, cancellations and shipment notices, in that order. The
reconciled orders are saved to the database and summarized.

Use --xbox to also collect Game Pass codes, and --no-orders to skip the
order sweeps.`,
	RunE: runRun,
}

var xboxCmd = &cobra.Command{
	Use:   "xbox",
	Short: "Collect Xbox Game Pass codes from one mailbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		xboxFlag = true
		noOrdersFlag = true
		return runRun(cmd, args)
	},
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List the folders of a profile's mailbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		return a.ShowFolders(ctx, profileFlag)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reconcile on a schedule until interrupted",
	Long: `Watch runs once immediately and then again on the cron schedule
from schedule.cron (or --schedule). A tick that arrives while the
previous run is still going is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		return a.Watch(ctx, runOptions())
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, xboxCmd, foldersCmd, watchCmd} {
		c.Flags().StringVarP(&profileFlag, "profile", "p", "", "Profile to use (optional when only one exists)")
	}
	for _, c := range []*cobra.Command{runCmd, xboxCmd, watchCmd} {
		c.Flags().StringVarP(&folderFlag, "folder", "f", "", "Folder to scan (default depends on the service)")
		c.Flags().StringVar(&sinceFlag, "since", "", "Only consider mail on or after this date (after:YYYY/MM/DD)")
	}
	for _, c := range []*cobra.Command{runCmd, xboxCmd} {
		c.Flags().BoolVar(&exportFlag, "export", false, "Write the configured CSV files after the run")
		c.Flags().BoolVar(&pickFolderFlag, "pick-folder", false, "Choose the folder interactively")
	}
	for _, c := range []*cobra.Command{runCmd, watchCmd} {
		c.Flags().BoolVar(&xboxFlag, "xbox", false, "Also collect Xbox Game Pass codes")
		c.Flags().BoolVar(&noOrdersFlag, "no-orders", false, "Skip the order sweeps")
	}
	watchCmd.Flags().StringVar(&scheduleFlag, "schedule", "", "Cron expression overriding schedule.cron")

	rootCmd.AddCommand(runCmd, xboxCmd, foldersCmd, watchCmd)
}

func runOptions() app.RunOptions {
	return app.RunOptions{
		Profile:  profileFlag,
		Folder:   folderFlag,
		Since:    sinceFlag,
		Orders:   !noOrdersFlag,
		Xbox:     xboxFlag,
		Export:   exportFlag,
		Schedule: scheduleFlag,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	opts := runOptions()
	if !opts.Orders && !opts.Xbox {
		cmd.Println("Nothing to do: --no-orders without --xbox.")
		return nil
	}

	if pickFolderFlag && opts.Folder == "" {
		folders, err := a.Folders(ctx, opts.Profile)
		if err != nil {
			return err
		}
		folder, err := prompt.PickFolder(folders, a.DefaultFolder(opts.Profile))
		if err != nil {
			return err
		}
		opts.Folder = folder
	}

	_, err = a.Run(ctx, opts)
	return err
}
