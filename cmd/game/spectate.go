package main

import (
	"github.com/younwookim/towerdefense/internal/application/scene"
	"github.com/younwookim/towerdefense/internal/application/session"
	"github.com/younwookim/towerdefense/internal/infrastructure/netview"
)

// spectated publishes the session to the hub after every scene update
type spectated struct {
	scene.Scene
	session *session.Session
	hub     *netview.Hub
}

func (s *spectated) Update(dt float64) (scene.Scene, error) {
	next, err := s.Scene.Update(dt)
	s.hub.Publish(s.session)
	return next, err
}
