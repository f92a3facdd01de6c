package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/replay"
	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
	"github.com/younwookim/towerdefense/internal/infrastructure/highscore"
)

// replayOutcome is what a headless replay reports
type replayOutcome struct {
	replay.Result
	State string
	Score int
	Wave  int
	Gold  int
	Lives int
}

// runReplay re-simulates a recording without a window. The stage defaults
// to the configured one and must match the stage the recording names.
func runReplay(path string, cfg *config.GameConfig, loader *config.Loader, stageName string, log logrus.FieldLogger) (replayOutcome, error) {
	var out replayOutcome

	data, err := replay.LoadReplay(path)
	if err != nil {
		return out, err
	}
	if stageName == "" {
		stageName = cfg.Settings.Rules.Stage
	}
	stageCfg, err := loader.LoadStage(stageName)
	if err != nil {
		return out, err
	}

	cfg.Settings.Rules.Seed = data.Seed
	s, err := session.New(cfg, stageCfg, session.Deps{Log: log, Scores: highscore.NewMemoryStore()})
	if err != nil {
		return out, err
	}
	if s.Stage().Name != data.Stage {
		return out, fmt.Errorf("replay recorded on %q, loaded stage is %q", data.Stage, s.Stage().Name)
	}

	log.WithFields(logrus.Fields{
		"path":    path,
		"seed":    data.Seed,
		"intents": len(data.Intents),
		"ticks":   data.Ticks,
	}).Info("replaying")

	out.Result, err = replay.NewReplayer(*data).Run(s)
	if err != nil {
		return out, err
	}

	snap := s.Snapshot()
	out.State = snap.State
	out.Score = snap.Score
	out.Wave = snap.Wave
	out.Gold = snap.Gold
	out.Lives = snap.Lives
	return out, nil
}
