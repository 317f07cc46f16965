package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/order-tracker/internal/app"
	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/prompt"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage mailbox profiles",
	Long: `Profiles name a mailbox account. The login and service are kept in
the configuration file; the password is kept in the system keyring.`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a profile interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		in, err := prompt.AskProfile(a.HasProfile)
		if err != nil {
			return err
		}

		p := model.ProfileConfig{Name: in.Name, Email: in.Username, Service: in.Service}
		if err := a.AddProfile(p, in.Password); err != nil {
			return err
		}
		cmd.Printf("Profile %q saved.\n", p.Name)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.ShowProfiles()
		return nil
	},
}

var yesFlag bool

var profileDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile and its stored password",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		name := args[0]
		if !yesFlag {
			ok, err := prompt.Confirm(fmt.Sprintf("Delete profile %q?", name))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		if err := a.DeleteProfile(name); err != nil {
			return err
		}
		cmd.Printf("Profile %q deleted.\n", name)
		return nil
	},
}

var (
	ordersOutFlag string
	codesOutFlag  string
	xlsxOutFlag   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored orders and codes",
	Long: `Export writes every stored order and Xbox code to CSV, and to an XLSX
workbook when --xlsx or export.orders_xlsx is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		return a.Export(ctx, app.ExportOptions{
			OrdersCSV:  ordersOutFlag,
			CodesCSV:   codesOutFlag,
			OrdersXLSX: xlsxOutFlag,
		})
	},
}

func init() {
	profileDeleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Do not ask for confirmation")
	profileCmd.AddCommand(profileAddCmd, profileListCmd, profileDeleteCmd)

	exportCmd.Flags().StringVar(&ordersOutFlag, "orders", "", "Orders CSV path (default export.orders_csv)")
	exportCmd.Flags().StringVar(&codesOutFlag, "codes", "", "Codes CSV path (default export.codes_csv)")
	exportCmd.Flags().StringVar(&xlsxOutFlag, "xlsx", "", "XLSX workbook path (default export.orders_xlsx)")

	rootCmd.AddCommand(profileCmd, exportCmd)
}
