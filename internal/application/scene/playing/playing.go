// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/application/replay"
	"github.com/younwookim/towerdefense/internal/application/scene"
	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/application/state"
	"github.com/younwookim/towerdefense/internal/domain/entity"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
)

const bannerMs = 2000

// Options configure a Playing scene
type Options struct {
	// RecordPath enables intent recording; the replay is written there on
	// game end, on F5 and when the scene exits.
	RecordPath string
	Log        logrus.FieldLogger
}

type subscription struct {
	typ event.Type
	l   event.Listener
}

// Playing runs a session and draws its snapshot
type Playing struct {
	session *session.Session
	snap    session.Snapshot
	hud     hud
	palette palette
	costs   map[entity.TowerKind]int
	log     logrus.FieldLogger

	// input source, replaced in tests
	input          func() InputState
	mouseX, mouseY int

	recorder   *replay.Recorder
	recordPath string
	savedEnd   bool

	banner    string
	bannerMs  float64
	newRecord bool
	subs      []subscription
}

// New creates a Playing scene over s. dt is the fixed step the host passes to Update.
func New(cfg *config.GameConfig, s *session.Session, dt float64, opts Options) *Playing {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	st := s.Stage()
	p := &Playing{
		session: s,
		hud: hud{
			mapW:   int(st.Width()),
			mapH:   int(st.Height()),
			height: cfg.Settings.Display.HUDHeight,
		},
		palette:    newPalette(cfg.Entities),
		costs:      make(map[entity.TowerKind]int),
		log:        log,
		input:      pollInput,
		recordPath: opts.RecordPath,
	}
	for _, kind := range entity.TowerKinds() {
		if spec, ok := s.Towers().Spec(kind); ok {
			p.costs[kind] = spec.Stats.Cost
		}
	}

	if opts.RecordPath != "" {
		p.recorder = replay.NewRecorder(s.Seed(), st.Name, dt)
		s.SetRecorder(p.recorder)
		log.WithFields(logrus.Fields{"path": opts.RecordPath, "seed": s.Seed()}).Info("recording enabled")
	}

	s.SnapshotInto(&p.snap)
	return p
}

// Update applies this frame's input and advances the session (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	in := p.input()
	p.mouseX, p.mouseY = in.MouseX, in.MouseY
	s := p.session

	if s.State() == state.StateMenu {
		if in.LeftClick || in.Actions.Has(ActStart) {
			s.Start()
		}
	} else {
		for _, intent := range translate(in, p.hud, s.Towers(), s.SelectedType()) {
			if err := s.Apply(intent); err != nil {
				p.log.WithError(err).WithField("intent", intent.Kind).Debug("intent rejected")
			}
		}
	}

	if in.Actions.Has(ActSave) {
		p.saveRecording()
	}

	s.Update(dt)

	if s.State().Finished() {
		if !p.savedEnd {
			p.savedEnd = true
			p.saveRecording()
		}
	} else {
		p.savedEnd = false
	}

	s.SnapshotInto(&p.snap)
	p.bannerMs = max(0, p.bannerMs-dt*1000)
	return nil, nil
}

func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}
	filename := p.recordPath
	if filename == "" {
		filename = replay.GenerateFilename()
	}
	if err := p.recorder.Save(filename, p.session.Tick()); err != nil {
		p.log.WithError(err).Error("failed to save recording")
		return
	}
	p.log.WithFields(logrus.Fields{"path": filename, "intents": p.recorder.IntentCount()}).Info("recording saved")
}

func (p *Playing) showBanner(msg string) {
	p.banner = msg
	p.bannerMs = bannerMs
}

func (p *Playing) onEvent(e event.Event) {
	switch d := e.Data.(type) {
	case event.WaveData:
		if e.Type == event.WaveStart {
			p.showBanner(fmt.Sprintf("Wave %d", d.Number))
		} else {
			p.showBanner(fmt.Sprintf("Wave %d cleared  +%d gold", d.Number, d.BonusGold))
		}
	case event.RejectionData:
		p.showBanner("Cannot build: " + d.Reason)
	case event.OutcomeData:
		p.newRecord = d.NewRecord
	}
}

// OnEnter subscribes to the session events the scene reacts to
func (p *Playing) OnEnter() {
	bus := p.session.Events()
	for _, t := range []event.Type{event.WaveStart, event.WaveComplete, event.PlacementRejected, event.GameOver, event.Victory} {
		p.subs = append(p.subs, subscription{t, bus.SubscribeFunc(t, p.onEvent)})
	}
}

// OnExit unsubscribes and flushes the recording
func (p *Playing) OnExit() {
	bus := p.session.Events()
	for _, sub := range p.subs {
		bus.Unsubscribe(sub.typ, sub.l)
	}
	p.subs = nil
	p.saveRecording()
}

// Snapshot returns the state drawn last frame
func (p *Playing) Snapshot() *session.Snapshot {
	return &p.snap
}

// Banner returns the message currently shown over the map
func (p *Playing) Banner() string {
	if p.bannerMs <= 0 {
		return ""
	}
	return p.banner
}

// ScreenSize returns the map plus HUD dimensions
func (p *Playing) ScreenSize() (int, int) {
	return p.hud.mapW, p.hud.mapH + p.hud.height
}
