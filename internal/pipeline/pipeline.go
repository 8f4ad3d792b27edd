// Package pipeline runs one add or edit end to end: it prepares the three
// input tables, patches and persists them one after another, then converts
// the results back to native assets.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/patch"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// Converter turns native assets into JSON and back.
type Converter interface {
	ToJSON(ctx context.Context, nativePath, jsonPath string) error
	ToNative(ctx context.Context, jsonPath, nativePath string) error
}

// Journal records runs so that failed conversions can be resumed.
type Journal interface {
	BeginRun(mode types.Mode, planeStringID string) (string, error)
	RecordStep(runID string, s types.Step) error
	FinishRun(runID string, status types.RunStatus, message string) error
	Run(runID string) (types.Run, error)
	Steps(runID string) ([]types.Step, error)
	PendingConversions(runID string) ([]types.Step, error)
}

// Pipeline is not safe for concurrent use; wrap it in a Runner to gate it.
type Pipeline struct {
	cfg     types.Config
	fs      afero.Fs
	conv    Converter
	journal Journal
	logger  *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFs sets the filesystem tables and templates are read from and written
// to. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithConverter enables native asset conversion. Without one, native inputs
// are rejected and output conversion is skipped.
func WithConverter(c Converter) Option {
	return func(p *Pipeline) { p.conv = c }
}

// WithJournal records runs and steps.
func WithJournal(j Journal) Option {
	return func(p *Pipeline) { p.journal = j }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New validates cfg and returns a pipeline.
func New(cfg types.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	p := &Pipeline{cfg: cfg, fs: afero.NewOsFs(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("pipeline")
	return p, nil
}

// Result summarizes a run.
type Result struct {
	RunID         string          `json:"run_id,omitempty"`
	Mode          types.Mode      `json:"mode"`
	PlaneStringID string          `json:"plane_string_id"`
	PlaneID       int64           `json:"plane_id,omitempty"`
	SortNumber    int             `json:"sort_number"`
	SkinIDs       []int64         `json:"skin_ids,omitempty"`
	ViewerRows    int             `json:"viewer_rows"`
	Warnings      []string        `json:"warnings,omitempty"`
	Steps         []types.Step    `json:"steps"`
	Status        types.RunStatus `json:"status"`
	FailedStep    string          `json:"failed_step,omitempty"`
}

type stage struct {
	table string
	apply func(doc *table.Document) error
}

// Run executes req. A request that fails validation returns before anything
// is read or written. Otherwise the returned Result is non-nil even when err
// is set, and names the step that failed; outputs of earlier steps stay on
// disk. Conversion failures do not fail the run, they leave it partial.
func (p *Pipeline) Run(ctx context.Context, req types.Request) (*Result, error) {
	if err := types.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := patch.CheckViewerTarget(req.Plane.PlaneStringID); err != nil {
		return nil, err
	}
	req = req.Clone()
	planeID := req.Plane.PlaneStringID

	res := &Result{Mode: req.Mode, PlaneStringID: planeID}
	res.RunID = p.beginRun(req)
	log := p.logger.With(zap.String("run", res.RunID), zap.String("plane", planeID))
	log.Info("starting pipeline", zap.String("mode", string(req.Mode)))

	fail := func(tableName string, err error) (*Result, error) {
		res.FailedStep = tableName
		p.recordStep(res, types.Step{Table: tableName, Status: types.StepFailed, Error: err.Error()})
		res.Status = types.RunFailed
		p.finishRun(res, err.Error())
		log.Error("pipeline failed", zap.String("step", tableName), zap.Error(err))
		return res, fmt.Errorf("%s step: %w", tableName, err)
	}

	inputs := make(map[string]input, len(types.StandardTableNames))
	for _, name := range types.StandardTableNames {
		in, err := p.prepare(ctx, name)
		if err != nil {
			return fail(name, err)
		}
		inputs[name] = in
	}

	tdir := p.cfg.TemplateDirOrData()
	planeTmpl, err := table.LoadTemplate(p.fs, filepath.Join(tdir, types.PlaneTemplateFile))
	if err != nil {
		return fail(types.PlayerPlaneTable, err)
	}
	skinTmpl, err := table.LoadTemplate(p.fs, filepath.Join(tdir, types.SkinTemplateFile))
	if err != nil {
		return fail(types.SkinTable, err)
	}

	stages := []stage{
		{types.PlayerPlaneTable, func(doc *table.Document) error {
			r, err := patch.PatchPlane(doc, planeTmpl, req.Mode, req.Plane)
			if err != nil {
				return err
			}
			res.PlaneID, res.SortNumber = r.PlaneID, r.SortNumber
			log.Info("patched plane",
				zap.Int64("plane_id", r.PlaneID),
				zap.Bool("added", r.Added),
				zap.Int("sort_number", r.SortNumber),
				zap.Strings("new_names", r.NewNames),
			)
			return nil
		}},
		{types.SkinTable, func(doc *table.Document) error {
			r, err := patch.PatchSkins(doc, skinTmpl, req.Mode, planeID, req.Skins)
			if err != nil {
				return err
			}
			res.SkinIDs = r.IDs
			log.Info("patched skins", zap.Int64s("skin_ids", r.IDs), zap.Int("removed", r.Removed))
			return nil
		}},
		{types.AircraftViewerTable, func(doc *table.Document) error {
			r, err := patch.DuplicateViewer(doc, planeID, req.Mode == types.ModeEdit)
			if err != nil {
				return err
			}
			res.ViewerRows = len(r.Rows)
			if len(r.Rows) == 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("no %s viewer rows to copy", patch.ReferenceViewerPlane))
				log.Warn("no reference viewer rows", zap.String("reference", patch.ReferenceViewerPlane))
			}
			for _, s := range r.Skipped {
				res.Warnings = append(res.Warnings, s.Error())
				log.Warn("kept non-numeric viewer field", zap.String("row", s.Row), zap.String("field", s.Field), zap.String("value", s.Value))
			}
			log.Info("duplicated viewer rows", zap.Int("rows", len(r.Rows)), zap.Int("removed", r.Removed))
			return nil
		}},
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return fail(st.table, err)
		}
		step, err := p.patchTable(inputs[st.table], st.apply)
		if err != nil {
			return fail(st.table, err)
		}
		p.recordStep(res, step)
		res.Steps = append(res.Steps, step)
		log.Info("wrote table", zap.String("step", st.table), zap.String("path", step.JSONPath))
	}

	for i := range res.Steps {
		p.convert(ctx, &res.Steps[i])
		p.recordStep(res, res.Steps[i])
	}

	res.Status = runStatus(res.Steps)
	p.finishRun(res, "")
	log.Info("pipeline finished", zap.String("status", string(res.Status)))
	return res, nil
}

// patchTable loads one input, applies the patch and persists the result as
// Output/<table>.json.
func (p *Pipeline) patchTable(in input, apply func(*table.Document) error) (types.Step, error) {
	doc, err := table.Load(p.fs, in.json)
	if err != nil {
		return types.Step{}, err
	}
	if err := apply(doc); err != nil {
		return types.Step{}, err
	}
	out := filepath.Join(p.cfg.OutputDir, in.table+".json")
	if err := table.Save(p.fs, out, doc); err != nil {
		return types.Step{}, err
	}
	return types.Step{
		Table:      in.table,
		SourcePath: in.source,
		JSONPath:   out,
		StagingDir: in.stagingDir,
		Status:     types.StepWritten,
	}, nil
}

// convert turns a written step into Output/<source stem>.uasset. On success
// the intermediate JSON and any staging directory are removed.
func (p *Pipeline) convert(ctx context.Context, s *types.Step) {
	log := p.logger.With(zap.String("step", s.Table))
	if p.conv == nil {
		s.Status = types.StepConversionSkipped
		s.Error = types.ErrConverterNotFound.Error()
		log.Warn("converter not available, leaving JSON output", zap.String("path", s.JSONPath))
		return
	}

	name := s.Table
	if s.SourcePath != "" {
		name = stem(s.SourcePath)
	}
	s.NativePath = filepath.Join(p.cfg.OutputDir, name+".uasset")

	if ok, _ := afero.Exists(p.fs, s.JSONPath); !ok {
		s.Status = types.StepConversionFailed
		s.Error = (&types.NotFoundError{What: "JSON output", Path: s.JSONPath}).Error()
		log.Error("cannot convert", zap.String("error", s.Error))
		return
	}
	if err := p.conv.ToNative(ctx, s.JSONPath, s.NativePath); err != nil {
		s.Status = types.StepConversionFailed
		s.Error = err.Error()
		log.Error("conversion failed", zap.Error(err))
		return
	}
	if ok, _ := afero.Exists(p.fs, s.NativePath); !ok {
		s.Status = types.StepConversionFailed
		s.Error = "converter reported success but " + s.NativePath + " does not exist"
		log.Error("conversion produced no output", zap.String("path", s.NativePath))
		return
	}

	s.Status, s.Error = types.StepConverted, ""
	if err := p.fs.Remove(s.JSONPath); err != nil {
		log.Warn("could not delete intermediate JSON", zap.String("path", s.JSONPath), zap.Error(err))
	}
	if s.StagingDir != "" {
		if err := p.fs.RemoveAll(s.StagingDir); err != nil {
			log.Warn("could not delete staging directory", zap.String("path", s.StagingDir), zap.Error(err))
		} else {
			s.StagingDir = ""
		}
	}
	log.Info("converted", zap.String("path", s.NativePath))
}

// ErrNoJournal is returned by Resume when the pipeline has no journal.
var ErrNoJournal = errors.New("resume needs the run journal")

// Resume re-runs only the conversions a previous run left pending.
func (p *Pipeline) Resume(ctx context.Context, runID string) (*Result, error) {
	if p.journal == nil {
		return nil, ErrNoJournal
	}
	if p.conv == nil {
		return nil, types.ErrConverterNotFound
	}
	run, err := p.journal.Run(runID)
	if err != nil {
		return nil, err
	}
	// A run that stopped before its last table has nothing consistent to
	// convert; converting its earlier tables would ship a partial set.
	steps, err := p.journal.Steps(runID)
	if err != nil {
		return nil, err
	}
	if len(steps) < len(types.StandardTableNames) || runStatus(steps) == types.RunFailed {
		return nil, types.NewValidationError("run_id", "run %s stopped before writing every table; run it again instead", runID)
	}
	pending, err := p.journal.PendingConversions(runID)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, Mode: run.Mode, PlaneStringID: run.PlaneStringID}
	log := p.logger.With(zap.String("run", runID))
	log.Info("resuming conversions", zap.Int("pending", len(pending)))
	for i := range pending {
		p.convert(ctx, &pending[i])
		p.recordStep(res, pending[i])
	}

	if res.Steps, err = p.journal.Steps(runID); err != nil {
		return nil, err
	}
	res.Status = runStatus(res.Steps)
	p.finishRun(res, "")
	return res, nil
}

func runStatus(steps []types.Step) types.RunStatus {
	status := types.RunSucceeded
	for _, s := range steps {
		switch {
		case s.Status == types.StepFailed:
			return types.RunFailed
		case s.Status.NeedsConversion():
			status = types.RunPartial
		}
	}
	return status
}

// Journal writes never fail a run; the tables on disk are what matter.

func (p *Pipeline) beginRun(req types.Request) string {
	if p.journal == nil {
		return ""
	}
	id, err := p.journal.BeginRun(req.Mode, req.Plane.PlaneStringID)
	if err != nil {
		p.logger.Warn("could not record run", zap.Error(err))
		return ""
	}
	return id
}

func (p *Pipeline) recordStep(res *Result, s types.Step) {
	if p.journal == nil || res.RunID == "" {
		return
	}
	if err := p.journal.RecordStep(res.RunID, s); err != nil {
		p.logger.Warn("could not record step", zap.String("step", s.Table), zap.Error(err))
	}
}

func (p *Pipeline) finishRun(res *Result, message string) {
	if p.journal == nil || res.RunID == "" {
		return
	}
	if err := p.journal.FinishRun(res.RunID, res.Status, message); err != nil {
		p.logger.Warn("could not record run outcome", zap.Error(err))
	}
}
