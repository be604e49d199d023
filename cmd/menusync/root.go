package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/spf13/cobra"

	structuresync "github.com/goliatone/go-structure-sync"
	"github.com/goliatone/go-structure-sync/internal/commands"
	auditcmd "github.com/goliatone/go-structure-sync/internal/commands/audit"
	menulinkscmd "github.com/goliatone/go-structure-sync/internal/commands/menulinks"
	"github.com/goliatone/go-structure-sync/internal/di"
	"github.com/goliatone/go-structure-sync/internal/jobs"
	"github.com/goliatone/go-structure-sync/internal/menusync"
	"github.com/goliatone/go-structure-sync/internal/snapshot"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// cli holds the flags shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool
	menus      []string
	retries    int

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	app := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "menusync",
		Short: "Export and import menu link configuration",
		Long: `menusync keeps menu links in sync with a snapshot.

Export writes the live links of every language to the snapshot store.
Import applies the snapshot back using one of three styles:
  full   mirror the snapshot, deleting links it does not contain
  safe   only add links and translations that do not exist yet
  force  delete every link and recreate them from the snapshot`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "Path to a YAML, TOML or JSON config file")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log every step to the console at debug level")
	root.PersistentFlags().StringSliceVar(&app.menus, "menus", nil, "Limit the run to these menus (comma separated)")
	root.PersistentFlags().IntVar(&app.retries, "retries", 0, "Retry a failed command this many times")

	root.AddCommand(
		app.exportCmd(),
		app.importCmd(),
		app.validateCmd(),
		app.invalidateCacheCmd(),
		app.auditCmd(),
	)
	return root
}

func (a *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the live menu links to the snapshot store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), a, func(cfg structuresync.Config) menulinkscmd.ExportCommand {
				return menulinkscmd.ExportCommand{Menus: a.menusOr(cfg)}
			})
		},
	}
}

func (a *cli) importCmd() *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Apply the snapshot to the live menu links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), a, func(cfg structuresync.Config) menulinkscmd.ImportCommand {
				chosen := strings.TrimSpace(style)
				if chosen == "" {
					chosen = cfg.Sync.DefaultStyle
				}
				return menulinkscmd.ImportCommand{Style: chosen, Menus: a.menusOr(cfg)}
			})
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "Import style: full, safe or force (defaults to sync.default_style)")
	return cmd
}

func (a *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the stored snapshot without importing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), a, func(structuresync.Config) menulinkscmd.ValidateCommand {
				return menulinkscmd.ValidateCommand{}
			})
		},
	}
}

func (a *cli) invalidateCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate-cache",
		Short: "Flush the menu link read caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), a, func(structuresync.Config) menulinkscmd.InvalidateCacheCommand {
				return menulinkscmd.InvalidateCacheCommand{}
			})
		},
	}
}

func (a *cli) auditCmd() *cobra.Command {
	audit := &cobra.Command{
		Use:   "audit",
		Short: "Inspect recorded sync batch events",
	}

	var limit int
	export := &cobra.Command{
		Use:   "export",
		Short: "List recorded batch events, most recent last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), a, func(structuresync.Config) auditcmd.ExportAuditCommand {
				msg := auditcmd.ExportAuditCommand{}
				if limit > 0 {
					msg.MaxRecords = &limit
				}
				return msg
			})
		},
	}
	export.Flags().IntVar(&limit, "limit", 0, "Only list the most recent events")

	var dryRun bool
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove recorded batch events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), a, func(structuresync.Config) auditcmd.CleanupAuditCommand {
				return auditcmd.CleanupAuditCommand{DryRun: dryRun}
			})
		},
	}
	cleanup.Flags().BoolVar(&dryRun, "dry-run", false, "Only count the events")

	audit.AddCommand(export, cleanup)
	return audit
}

func (a *cli) menusOr(cfg structuresync.Config) []string {
	if len(a.menus) > 0 {
		return a.menus
	}
	return cfg.Sync.Menus
}

func (a *cli) loadConfig() (structuresync.Config, error) {
	cfg, err := structuresync.LoadConfig(a.configPath)
	if err != nil {
		return cfg, err
	}
	if a.verbose {
		cfg.Features.Logger = true
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = "console"
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// run builds the module, subscribes its handlers to the dispatcher and sends
// the message built from the loaded configuration.
func run[T command.Message](ctx context.Context, a *cli, build func(structuresync.Config) T) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	module, err := structuresync.New(ctx, cfg, structuresync.WithNotifier(&writerNotifier{out: a.out, errOut: a.errOut}))
	if err != nil {
		return err
	}
	defer module.Close()

	registration, err := module.RegisterCommands(structuresync.RegistrationOptions{
		Dispatcher: structuresync.CommandDispatcher(a.retries),
		Observers: menulinkscmd.Observers{
			Exported:  a.printExport,
			Imported:  a.printImport,
			Validated: a.printIssues,
		},
		AuditObservers: di.AuditObservers{
			Exported: a.printAudit,
			Cleaned:  a.printCleanup,
		},
	})
	if err != nil {
		return err
	}
	defer commands.Unsubscribe(registration.Subscriptions)

	return dispatcher.Dispatch(ctx, build(cfg))
}

func (a *cli) printExport(snap *snapshot.Snapshot) {
	fmt.Fprintf(a.out, "Exported %d menu links (%d records)\n", len(snap.Groups), snap.Len())
}

func (a *cli) printImport(result *menusync.ImportResult) {
	fmt.Fprintf(a.out, "Import (%s): %d created, %d updated, %d translated, %d deleted, %d skipped, %d failed\n",
		result.Style, result.Created, result.Updated, result.Translated, result.Deleted, result.Skipped, result.Failed)
	for _, warning := range result.Warnings {
		fmt.Fprintf(a.errOut, "warning: %v\n", warning)
	}
	for _, err := range result.Errors {
		fmt.Fprintf(a.errOut, "error: %v\n", err)
	}
}

func (a *cli) printIssues(issues []snapshot.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(a.out, "Snapshot is valid")
		return
	}
	fmt.Fprintf(a.out, "Snapshot is valid with %d warnings\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(a.errOut, "warning: %s\n", issue)
	}
}

func (a *cli) printAudit(events []jobs.AuditEvent) {
	for _, event := range events {
		step := event.Step
		if step == "" {
			step = "-"
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", event.OccurredAt.Format(time.RFC3339), event.Batch, step, event.Action)
	}
}

func (a *cli) printCleanup(count int, dryRun bool) {
	if dryRun {
		fmt.Fprintf(a.out, "%d audit events would be removed\n", count)
		return
	}
	fmt.Fprintf(a.out, "Removed %d audit events\n", count)
}

// writerNotifier prints user notifications, errors and warnings to errOut.
type writerNotifier struct {
	out    io.Writer
	errOut io.Writer
}

func (n *writerNotifier) Notify(_ context.Context, level interfaces.NotifyLevel, message string) {
	switch level {
	case interfaces.NotifyError, interfaces.NotifyWarning:
		fmt.Fprintf(n.errOut, "[%s] %s\n", level, message)
	default:
		fmt.Fprintln(n.out, message)
	}
}
