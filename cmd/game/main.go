package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/application/game"
	"github.com/younwookim/towerdefense/internal/application/scene"
	"github.com/younwookim/towerdefense/internal/application/scene/playing"
	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/infrastructure/audio"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
	"github.com/younwookim/towerdefense/internal/infrastructure/highscore"
	"github.com/younwookim/towerdefense/internal/infrastructure/logger"
	"github.com/younwookim/towerdefense/internal/infrastructure/netview"
)

//go:embed configs
var configFS embed.FS

type options struct {
	record string
	replay string
	serve  string
	mute   bool
	stage  string
	seed   int64
	scores string
}

func main() {
	var opts options
	flag.StringVar(&opts.record, "record", "", "Record intents to file (e.g., -record replay.json)")
	flag.StringVar(&opts.replay, "replay", "", "Replay a recording headlessly and print the outcome")
	flag.StringVar(&opts.serve, "serve", "", "Stream snapshots to websocket spectators on this address (e.g., -serve :8080)")
	flag.BoolVar(&opts.mute, "mute", false, "Disable audio cues")
	flag.StringVar(&opts.stage, "stage", "", "Stage to load (default from game.json)")
	flag.Int64Var(&opts.seed, "seed", 0, "RNG seed (default from game.json, 0 there means time based)")
	flag.StringVar(&opts.scores, "scores", "highscores.json", "High score file")
	flag.Parse()

	log := logger.FromEnv(os.Stderr)

	loader, err := embeddedLoader()
	if err != nil {
		log.WithError(err).Fatal("failed to open embedded configs")
	}
	cfg, err := loader.LoadAll()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	if opts.replay != "" {
		res, err := runReplay(opts.replay, cfg, loader, opts.stage, log)
		if err != nil {
			log.WithError(err).Fatal("replay failed")
		}
		log.WithFields(logrus.Fields{
			"state":    res.State,
			"score":    res.Score,
			"wave":     res.Wave,
			"ticks":    res.Ticks,
			"applied":  res.Applied,
			"rejected": res.Rejected,
		}).Info("replay finished")
		return
	}

	if err := run(cfg, loader, opts, log); err != nil && !game.IsTermination(err) {
		log.WithError(err).Fatal("game stopped")
	}
}

func embeddedLoader() (*config.Loader, error) {
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, err
	}
	return config.NewFSLoader(fsys, "configs"), nil
}

func run(cfg *config.GameConfig, loader *config.Loader, opts options, log *logrus.Logger) error {
	stageName := cfg.Settings.Rules.Stage
	if opts.stage != "" {
		stageName = opts.stage
	}
	stageCfg, err := loader.LoadStage(stageName)
	if err != nil {
		return err
	}

	switch {
	case opts.seed != 0:
		cfg.Settings.Rules.Seed = opts.seed
	case cfg.Settings.Rules.Seed == 0:
		cfg.Settings.Rules.Seed = time.Now().UnixNano()
	}

	var scores session.ScoreBoard
	if store, err := highscore.Open(opts.scores); err != nil {
		log.WithError(err).Warn("high scores unavailable, keeping them in memory")
		scores = highscore.NewMemoryStore()
	} else {
		scores = store
	}

	bus := event.NewBus()
	s, err := session.New(cfg, stageCfg, session.Deps{Events: bus, Log: log, Scores: scores})
	if err != nil {
		return err
	}

	if !opts.mute && cfg.Settings.Audio.Enabled {
		player := audio.NewPlayer(cfg.Settings.Audio, log)
		if err := player.Start(); err != nil {
			log.WithError(err).Warn("audio disabled")
		} else {
			player.Attach(bus)
			defer player.Close()
		}
	}

	display := cfg.Settings.Display
	tps := display.Framerate
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	play := playing.New(cfg, s, 1/float64(tps), playing.Options{RecordPath: opts.record, Log: log})
	w, h := play.ScreenSize()

	var first scene.Scene = play

	if opts.serve != "" {
		hub := netview.NewHub(cfg.Settings.Network, log)
		hub.Attach(bus)
		srv := serveSpectators(opts.serve, hub, log)
		defer func() {
			hub.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		first = &spectated{Scene: first, session: s, hub: hub}
	}

	g := game.New(first, w, h, tps)
	defer g.Close()

	scale := max(display.Scale, 1)
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetWindowTitle("Tower Defense - " + s.Stage().Name)
	ebiten.SetTPS(tps)
	return ebiten.RunGame(g)
}

func serveSpectators(addr string, hub *netview.Hub, log logrus.FieldLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("spectator server stopped")
		}
	}()
	log.WithField("addr", addr).Info("streaming to spectators on /ws")
	return srv
}
