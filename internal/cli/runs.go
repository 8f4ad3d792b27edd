package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/pipeline"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

func newRunsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs from the run journal",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			defer func() {
				if err := j.Close(); err != nil {
					a.logger.Warn("closing run journal", zap.Error(err))
				}
			}()

			runs, err := j.Runs(limit)
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				if runs == nil {
					runs = []types.Run{}
				}
				return printJSON(cmd.OutOrStdout(), runs)
			}

			var sb strings.Builder
			tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tMODE\tPLANE\tSTATUS\tSTARTED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					r.RunID, r.Mode, r.PlaneStringID, r.Status, r.StartedAt.Local().Format(time.DateTime))
			}
			tw.Flush()
			_, err = fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list; 0 lists all")
	return cmd
}

func newResumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <run-id>",
		Short: "Retry the native conversions a previous run left pending",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := a.openSession(sessionOptions{journal: true})
			if err != nil {
				return err
			}
			defer a.closeSession(s)
			if s.journal == nil {
				return pipeline.ErrNoJournal
			}

			res, err := wait(pipeline.NewRunner(s.pipeline).StartResume(ctx, args[0]))
			if res != nil {
				if perr := printResult(cmd.OutOrStdout(), a.flags.jsonMode, res); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}
