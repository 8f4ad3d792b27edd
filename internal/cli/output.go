package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/pipeline"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printResult(w io.Writer, jsonMode bool, res *pipeline.Result) error {
	if jsonMode {
		return printJSON(w, res)
	}

	var sb strings.Builder
	verb := "Added"
	if res.Mode == types.ModeEdit {
		verb = "Edited"
	}
	if res.PlaneStringID != "" && res.PlaneID != 0 {
		fmt.Fprintf(&sb, "%s plane %s (PlaneID %d, sort number %d)\n", verb, res.PlaneStringID, res.PlaneID, res.SortNumber)
	}
	if len(res.SkinIDs) > 0 {
		ids := make([]string, len(res.SkinIDs))
		for i, id := range res.SkinIDs {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(&sb, "Skins: %s\n", strings.Join(ids, ", "))
	}
	if res.ViewerRows > 0 {
		fmt.Fprintf(&sb, "Viewer rows: %d\n", res.ViewerRows)
	}

	if len(res.Steps) > 0 {
		tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TABLE\tSTATUS\tOUTPUT")
		for _, s := range res.Steps {
			out := s.NativePath
			if s.Status != types.StepConverted {
				out = s.JSONPath
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Table, s.Status, out)
		}
		tw.Flush()
	}
	for _, s := range res.Steps {
		if s.Error != "" && s.Status != types.StepConversionSkipped {
			fmt.Fprintf(&sb, "%s: %s\n", s.Table, s.Error)
		}
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(&sb, "Warning: %s\n", warn)
	}
	if res.FailedStep != "" {
		fmt.Fprintf(&sb, "Failed at %s\n", res.FailedStep)
	}
	if res.RunID != "" {
		fmt.Fprintf(&sb, "Run %s: %s\n", res.RunID, res.Status)
		if res.Status == types.RunPartial {
			fmt.Fprintf(&sb, "Retry the conversions with: acepatch resume %s\n", res.RunID)
		}
	} else {
		fmt.Fprintf(&sb, "Status: %s\n", res.Status)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
