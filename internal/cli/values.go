package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/pipeline"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// patchFlags are the add and edit flags the value bundle is built from.
type patchFlags struct {
	plane        string
	planeID      int
	category     string
	flares       int
	sp           [3]string
	stats        map[string]int
	skins        []string
	playerPlane  string
	skinTable    string
	viewerTable  string
	fromExisting bool
}

func (f *patchFlags) register(fs *pflag.FlagSet, mode types.Mode) {
	fs.StringVar(&f.plane, "plane", "", "plane identity, e.g. f15c (PlaneStringID)")
	fs.StringVar(&f.category, "category", "", "Fighter, Attacker or Multirole (default Fighter when adding)")
	fs.IntVar(&f.flares, "flares", -1, "flare count; -1 keeps the current value")
	for i := range f.sp {
		n := strconv.Itoa(i + 1)
		fs.StringVar(&f.sp[i], "sp"+n, "", "special weapon "+n)
	}
	fs.StringToIntVar(&f.stats, "stat", nil, "stat override Name=Value, repeatable (e.g. GraphSpeed=80)")
	fs.StringArrayVar(&f.skins, "skin", nil, `skin "N[:nose,wing,tail]", repeatable (default: the base skin 0)`)
	fs.StringVar(&f.playerPlane, "player-plane", "", "PlayerPlane table to read instead of the data directory's")
	fs.StringVar(&f.skinTable, "skin-table", "", "Skin table to read instead of the data directory's")
	fs.StringVar(&f.viewerTable, "viewer-table", "", "AircraftViewer table to read instead of the data directory's")

	switch mode {
	case types.ModeAdd:
		fs.IntVar(&f.planeID, "plane-id", 0, "numeric PlaneID; 0 picks the next free id")
	case types.ModeEdit:
		fs.BoolVar(&f.fromExisting, "from-existing", true, "start from the plane's current values and skins")
	}
}

// inputs returns the per-table input overrides that were given.
func (f *patchFlags) inputs() map[string]string {
	m := make(map[string]string)
	for name, path := range map[string]string{
		types.PlayerPlaneTable:    f.playerPlane,
		types.SkinTable:           f.skinTable,
		types.AircraftViewerTable: f.viewerTable,
	} {
		if path != "" {
			m[name] = path
		}
	}
	return m
}

// prefiller reads the current state of a plane for an edit.
type prefiller interface {
	Prefill(ctx context.Context, planeID string) (types.Request, error)
}

var _ prefiller = (*pipeline.Pipeline)(nil)

// request builds the value bundle. Only flags that were set override the
// starting point, which is empty for add and, with --from-existing, the
// plane's current state for edit.
func (f *patchFlags) request(ctx context.Context, fs *pflag.FlagSet, mode types.Mode, p prefiller) (types.Request, error) {
	req := types.Request{Mode: mode}
	if mode == types.ModeEdit && f.fromExisting && f.plane != "" {
		var err error
		if req, err = p.Prefill(ctx, f.plane); err != nil {
			return types.Request{}, err
		}
	}
	req.Plane.PlaneStringID = f.plane

	if changed(fs, "plane-id") {
		req.Plane.PlaneID = f.planeID
	}
	if changed(fs, "category") {
		req.Plane.Category = f.category
	}
	if changed(fs, "flares") {
		if f.flares < 0 {
			req.Plane.FlareCount = nil
		} else {
			req.Plane.FlareCount = types.IntPtr(f.flares)
		}
	}
	for i := range f.sp {
		if changed(fs, "sp"+strconv.Itoa(i+1)) {
			req.Plane.SpWeapons[i] = f.sp[i]
		}
	}
	if len(f.stats) > 0 {
		if err := types.ValidateStatOverrides(f.stats); err != nil {
			return types.Request{}, err
		}
		if req.Plane.Stats == nil {
			req.Plane.Stats = make(map[string]int, len(f.stats))
		}
		for name, value := range f.stats {
			req.Plane.Stats[name] = value
		}
	}

	switch {
	case changed(fs, "skin"):
		skins, err := parseSkins(f.skins)
		if err != nil {
			return types.Request{}, err
		}
		req.Skins = skins
	case len(req.Skins) == 0:
		req.Skins = []types.SkinDescriptor{{SkinNo: 0}}
	}
	return req, nil
}

func parseSkins(specs []string) ([]types.SkinDescriptor, error) {
	out := make([]types.SkinDescriptor, 0, len(specs))
	for _, s := range specs {
		d, err := parseSkin(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// parseSkin parses "N" or "N:slots", where slots is a comma-separated subset
// of nose, wing and tail.
func parseSkin(s string) (types.SkinDescriptor, error) {
	num, slots, _ := strings.Cut(strings.TrimSpace(s), ":")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return types.SkinDescriptor{}, types.NewValidationError("skin", "%q: skin number must be an integer", s)
	}

	d := types.SkinDescriptor{SkinNo: n}
	for _, slot := range strings.Split(slots, ",") {
		switch strings.ToLower(strings.TrimSpace(slot)) {
		case "":
		case "nose":
			d.Emblems.Nose = true
		case "wing":
			d.Emblems.Wing = true
		case "tail":
			d.Emblems.Tail = true
		default:
			return types.SkinDescriptor{}, types.NewValidationError("skin", "%q: unknown emblem slot %q", s, slot)
		}
	}
	return d, nil
}
