package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/timereport/internal/app"
	"github.com/alexanderramin/timereport/internal/cli/formatter"
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/schedule"
	"github.com/alexanderramin/timereport/internal/timeutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the use cases and collaborators the command drives.
type App struct {
	Sync     app.SyncUseCase
	Report   app.ReportUseCase
	Calendar *timeutil.Calendar
	// Schedule runs the daily pipeline at HH:MM until ctx is done. Nil
	// disables --schedule.
	Schedule func(ctx context.Context, at string) error
}

type operation string

const (
	opReport operation = "report"
	opDB     operation = "db-maintenance"
)

func parseOperation(s string) (operation, error) {
	switch strings.ToLower(s) {
	case "report", "re":
		return opReport, nil
	case "db-maintenance", "db":
		return opDB, nil
	default:
		return "", fmt.Errorf("invalid operation %q (want report|re or db-maintenance|db)", s)
	}
}

type options struct {
	operation string
	update    int
	level     int
	date      string
	dryRun    bool
	schedule  string

	op   operation
	mode app.SyncMode
	lvl  domain.Level
}

// NewRootCmd creates the "timereport" command. Without flags it runs an
// incremental sync followed by yesterday's daily report.
func NewRootCmd(a *App) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "timereport",
		Short: "Sync tracked time and publish daily, weekly and monthly reports",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate(a.Calendar)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd, a, opts)
		},
	}

	registerFlags(root.Flags(), &opts)
	return root
}

func registerFlags(f *pflag.FlagSet, opts *options) {
	f.StringVar(&opts.operation, "operation", string(opReport), "report|re or db-maintenance|db")
	f.IntVar(&opts.update, "update", int(app.SyncIncremental), "0 = incremental sync, 1 = rebuild the store")
	f.IntVar(&opts.level, "level", int(domain.LevelDay), "0 = day, 1 = week, 2 = month")
	f.StringVar(&opts.date, "date", "", "period token: YYYYMMDD, YYYYWww or YYYYMmm (default: last complete period)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print the report instead of publishing it")
	f.StringVar(&opts.schedule, "schedule", "", "run the daily pipeline every day at HH:MM")
}

func (o *options) validate(cal *timeutil.Calendar) error {
	var err error
	if o.op, err = parseOperation(o.operation); err != nil {
		return err
	}
	if o.mode, err = app.ParseSyncMode(o.update); err != nil {
		return err
	}
	if o.lvl, err = domain.ParseLevel(o.level); err != nil {
		return err
	}
	if o.date != "" {
		if _, err := cal.PeriodBounds(o.date, o.lvl); err != nil {
			return fmt.Errorf("--date does not match --level %d: %w", o.level, err)
		}
	}
	if o.schedule != "" {
		if err := schedule.ValidateTime(o.schedule); err != nil {
			return fmt.Errorf("--schedule: %w", err)
		}
	}
	return nil
}

func run(cmd *cobra.Command, a *App, opts options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.schedule != "" {
		if a.Schedule == nil {
			return fmt.Errorf("scheduling is not available")
		}
		fmt.Fprintf(out, "%s daily run at %s\n", formatter.Dim("scheduled"), opts.schedule)
		return a.Schedule(ctx, opts.schedule)
	}

	syncRes, err := a.Sync.Sync(ctx, app.SyncRequest{Mode: opts.mode})
	if err != nil {
		return err
	}
	if opts.op == opDB {
		fmt.Fprint(out, formatter.FormatSyncStatus(syncRes, a.Calendar))
		return nil
	}

	res, err := a.Report.Generate(ctx, app.ReportRequest{
		Level:  opts.lvl,
		Date:   opts.date,
		DryRun: opts.dryRun,
	})
	if err != nil {
		return err
	}
	if opts.dryRun {
		fmt.Fprint(out, formatter.FormatDocument(res.Document))
	}
	fmt.Fprint(out, formatter.FormatReportStatus(res))
	return nil
}
