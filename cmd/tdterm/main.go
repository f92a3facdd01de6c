// Command tdterm plays the tower defense game in a terminal.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/application/replay"
	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/application/state"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
	"github.com/younwookim/towerdefense/internal/infrastructure/highscore"
	"github.com/younwookim/towerdefense/internal/infrastructure/logger"
	"github.com/younwookim/towerdefense/internal/infrastructure/termview"
)

func main() {
	configDir := flag.String("config", "cmd/game/configs", "Config directory")
	stageName := flag.String("stage", "", "Stage to load (default from game.json)")
	seed := flag.Int64("seed", 0, "RNG seed (default from game.json)")
	scoresPath := flag.String("scores", "highscores.json", "High score file")
	record := flag.String("record", "", "Record intents to file")
	logPath := flag.String("log", "tdterm.log", "Log file; the terminal is taken by the game")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.FromEnv(os.Stderr).WithError(err).Fatal("failed to open log file")
	}
	defer func() { _ = logFile.Close() }()
	log := logger.FromEnv(logFile)

	loader := config.NewLoader(*configDir)
	cfg, err := loader.LoadAll()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if *stageName == "" {
		*stageName = cfg.Settings.Rules.Stage
	}
	stageCfg, err := loader.LoadStage(*stageName)
	if err != nil {
		log.WithError(err).Fatal("failed to load stage")
	}
	if *seed != 0 {
		cfg.Settings.Rules.Seed = *seed
	}

	var scores session.ScoreBoard = highscore.NewMemoryStore()
	if store, err := highscore.Open(*scoresPath); err != nil {
		log.WithError(err).Warn("high scores unavailable, keeping them in memory")
	} else {
		scores = store
	}

	s, err := session.New(cfg, stageCfg, session.Deps{Events: event.NewBus(), Log: log, Scores: scores})
	if err != nil {
		log.WithError(err).Fatal("failed to create session")
	}

	tps := cfg.Settings.Display.Framerate
	if tps <= 0 {
		tps = 60
	}
	dt := 1 / float64(tps)

	var rec *replay.Recorder
	if *record != "" {
		rec = replay.NewRecorder(s.Seed(), s.Stage().Name, dt)
		s.SetRecorder(rec)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.WithError(err).Fatal("failed to create screen")
	}
	if err := screen.Init(); err != nil {
		log.WithError(err).Fatal("failed to init screen")
	}

	loop(screen, s, dt, log)
	screen.Fini()

	if rec != nil {
		if err := rec.Save(*record, s.Tick()); err != nil {
			log.WithError(err).Error("failed to save recording")
		} else {
			log.WithFields(logrus.Fields{"path": *record, "intents": rec.IntentCount()}).Info("recording saved")
		}
	}
}

func loop(screen tcell.Screen, s *session.Session, dt float64, log logrus.FieldLogger) {
	view := termview.New(screen, s.Stage())
	var snap session.Snapshot

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				in, cmd := view.HandleKey(ev, s.SelectedType().String())
				switch cmd {
				case termview.CmdQuit:
					return
				case termview.CmdStart:
					if s.State() == state.StateMenu {
						s.Start()
					}
				case termview.CmdIntent:
					if s.State() == state.StateMenu {
						break
					}
					if err := s.Apply(in); err != nil {
						log.WithError(err).WithField("intent", in.Kind).Debug("intent rejected")
					}
				}
			}
		case <-ticker.C:
			s.Update(dt)
			s.SnapshotInto(&snap)
			view.Draw(&snap)
		}
	}
}
