package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/arafatrahman/Property-Rental-Management/internal/config"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/arafatrahman/Property-Rental-Management/internal/notify"
	"github.com/arafatrahman/Property-Rental-Management/internal/repository"
	"github.com/arafatrahman/Property-Rental-Management/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	log      *logrus.Logger
	clock    clock.Clock
	snapshot string
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	a := &app{log: log, clock: clock.System{}}

	rootCmd := &cobra.Command{
		Use:           "rentctl",
		Short:         "Inspect and move the local rental snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.snapshot != "" {
				return nil
			}
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			a.snapshot = cfg.SnapshotPath()
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.snapshot, "snapshot", "", "Snapshot file (defaults to DATA_DIR/SNAPSHOT_FILE)")

	rootCmd.AddCommand(
		a.balancesCmd(),
		a.remindersCmd(),
		a.exportCmd(),
		a.importCmd(),
	)
	return rootCmd
}

func (a *app) local() *repository.LocalStore {
	return repository.NewLocalStore(a.snapshot, a.log)
}

func (a *app) balancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Recalculate and print every tenant's balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")

			local := a.local()
			data, err := local.Load(context.Background())
			if err != nil {
				return err
			}

			svc := service.NewService(a.clock, a.log)
			defer svc.Close()
			svc.Replace(nil, data)
			if save {
				svc.Attach(local, 0)
			}
			svc.RecalculateAll()

			props := make(map[string]string)
			for _, p := range svc.ListProperties() {
				props[p.ID] = p.Name
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TENANT\tPROPERTY\tSTATUS\tOWED\tNEXT DUE\tDEPOSIT")
			for _, t := range svc.ListTenants() {
				due := "-"
				if !t.NextDueDate.IsZero() && t.PropertyID != "" {
					due = t.NextDueDate.Format("2006-01-02")
				}
				deposit := "unpaid"
				if t.IsDepositPaid {
					deposit = "paid"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.Name, orDash(props[t.PropertyID]), t.Status, t.AmountOwed.StringFixed(2), due, deposit)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("save", false, "Write the recalculated balances back to the snapshot")
	return cmd
}

func (a *app) remindersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "List upcoming reminders derived from the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.local().Load(context.Background())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIRE AT\tKIND\tTITLE")
			for _, r := range notify.Plan(data, a.clock.Now()) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.FireAt.Format("2006-01-02 15:04"), r.Kind, r.Title)
			}
			return w.Flush()
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Copy the snapshot to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := a.local().ExportBlob()
			if err != nil {
				return err
			}
			if blob == nil {
				return fmt.Errorf("no snapshot at %s", a.snapshot)
			}
			if err := os.WriteFile(args[0], blob, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s\n", len(blob), args[0])
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the snapshot with a previously exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			data, err := a.local().ImportBlob(blob)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", describe(data))
			return nil
		},
	}
}

func describe(d *models.AppData) string {
	return fmt.Sprintf("%d properties, %d tenants, %d incomes, %d expenses",
		len(d.Properties), len(d.Tenants), len(d.Incomes), len(d.Expenses))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
