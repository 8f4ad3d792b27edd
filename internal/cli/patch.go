package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/pipeline"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

func newPatchCmd(a *app, mode types.Mode) *cobra.Command {
	f := &patchFlags{}
	cmd := &cobra.Command{
		Use:  string(mode),
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			s, err := a.openSession(sessionOptions{inputs: f.inputs(), journal: true})
			if err != nil {
				return err
			}
			defer a.closeSession(s)

			req, err := f.request(ctx, cmd.Flags(), mode, s.pipeline)
			if err != nil {
				return err
			}
			res, err := wait(pipeline.NewRunner(s.pipeline).Start(ctx, req))
			if res != nil {
				if perr := printResult(cmd.OutOrStdout(), a.flags.jsonMode, res); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	switch mode {
	case types.ModeAdd:
		cmd.Short = "Add a new plane to the PlayerPlane, Skin and AircraftViewer tables"
		cmd.Example = `  acepatch add --plane f15c --category Multirole --stat GraphSpeed=80 --skin 0 --skin 1:nose,tail`
	case types.ModeEdit:
		cmd.Short = "Edit an existing plane; its skins and viewer rows are replaced"
		cmd.Example = `  acepatch edit --plane f15c --flares 6 --sp1 LAAM`
	}
	f.register(cmd.Flags(), mode)
	return cmd
}

// wait blocks until a started run delivers its outcome. The pipeline shares
// the command's context, so an interrupt unwinds it and the journal records
// where it stopped.
func wait(ch <-chan pipeline.Outcome, err error) (*pipeline.Result, error) {
	if err != nil {
		return nil, err
	}
	out := <-ch
	return out.Result, out.Err
}

func (a *app) closeSession(s *session) {
	if err := s.Close(); err != nil {
		a.logger.Warn("closing run journal", zap.Error(err))
	}
}
