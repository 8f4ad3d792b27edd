package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/journal"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/pipeline"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// session is a pipeline wired to the converter and, when requested and
// enabled, the run journal in the output directory. The caller must Close it.
type session struct {
	cfg      types.Config
	pipeline *pipeline.Pipeline
	journal  *journal.Journal
}

type sessionOptions struct {
	inputs  map[string]string
	journal bool
}

func (a *app) openSession(opts sessionOptions) (*session, error) {
	cfg, err := a.config(opts.inputs)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}

	pipeOpts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if conv := a.converter(cfg); conv != nil {
		pipeOpts = append(pipeOpts, pipeline.WithConverter(conv))
	}
	if opts.journal && a.v.GetBool(cfgKeyJournal) {
		j, err := journal.Open(filepath.Join(cfg.OutputDir, journal.FileName))
		if err != nil {
			a.logger.Warn("run journal disabled", zap.Error(err))
		} else {
			s.journal = j
			pipeOpts = append(pipeOpts, pipeline.WithJournal(j))
		}
	}

	if s.pipeline, err = pipeline.New(cfg, pipeOpts...); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return s, nil
}

// openJournal opens the journal without a pipeline, for read-only commands.
func (a *app) openJournal() (*journal.Journal, error) {
	cfg, err := a.config(nil)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.OutputDir, journal.FileName)
	j, err := journal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run journal %s: %w", path, err)
	}
	return j, nil
}

func (s *session) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}
