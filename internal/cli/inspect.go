package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

func newPlanesCmd(a *app) *cobra.Command {
	var playerPlane string
	cmd := &cobra.Command{
		Use:   "planes",
		Short: "List the planes in the PlayerPlane table",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(sessionOptions{inputs: map[string]string{types.PlayerPlaneTable: playerPlane}})
			if err != nil {
				return err
			}
			defer a.closeSession(s)

			planes, err := s.pipeline.Planes(cmd.Context())
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				if planes == nil {
					planes = []string{}
				}
				return printJSON(cmd.OutOrStdout(), planes)
			}
			for _, p := range planes {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&playerPlane, "player-plane", "", "PlayerPlane table to read instead of the data directory's")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var playerPlane, skinTable string
	cmd := &cobra.Command{
		Use:   "show <plane>",
		Short: "Show a plane's values and skins as an edit would start from them",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(sessionOptions{inputs: map[string]string{
				types.PlayerPlaneTable: playerPlane,
				types.SkinTable:        skinTable,
			}})
			if err != nil {
				return err
			}
			defer a.closeSession(s)

			req, err := s.pipeline.Prefill(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), struct {
					Plane types.PlaneValues      `json:"plane"`
					Skins []types.SkinDescriptor `json:"skins"`
				}{req.Plane, req.Skins})
			}
			return printPlane(cmd, req)
		},
	}
	cmd.Flags().StringVar(&playerPlane, "player-plane", "", "PlayerPlane table to read instead of the data directory's")
	cmd.Flags().StringVar(&skinTable, "skin-table", "", "Skin table to read instead of the data directory's")
	return cmd
}

func printPlane(cmd *cobra.Command, req types.Request) error {
	v := req.Plane
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Plane\t%s\n", v.PlaneStringID)
	fmt.Fprintf(tw, "PlaneID\t%d\n", v.PlaneID)
	fmt.Fprintf(tw, "Category\t%s\n", v.Category)
	if v.FlareCount != nil {
		fmt.Fprintf(tw, "Flares\t%d\n", *v.FlareCount)
	}
	for i, sp := range v.SpWeapons {
		fmt.Fprintf(tw, "SpWeapon%d\t%s\n", i+1, sp)
	}

	names := make([]string, 0, len(v.Stats))
	for name := range v.Stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\n", name, v.Stats[name])
	}
	tw.Flush()

	fmt.Fprintln(&sb)
	tw = tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKIN\tNOSE\tWING\tTAIL")
	for _, skin := range req.Skins {
		fmt.Fprintf(tw, "%d\t%t\t%t\t%t\n", skin.SkinNo, skin.Emblems.Nose, skin.Emblems.Wing, skin.Emblems.Tail)
	}
	tw.Flush()

	_, err := fmt.Fprint(cmd.OutOrStdout(), sb.String())
	return err
}
