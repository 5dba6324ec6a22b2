package api

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/coronavirus-calculator/country"
)

func (s *Server) current() *country.Countries {
	return s.registry.Load().(*country.Countries)
}

// countries returns the current registry, rebuilding it first when it is stale. Readers
// never wait on a rebuild started by another request; they keep the stale registry.
func (s *Server) countries() *country.Countries {
	registry := s.current()
	if !registry.Stale() {
		return registry
	}

	if !s.rebuildLock.TryLock() {
		return registry
	}
	defer s.rebuildLock.Unlock()

	// replaced by another request since the first load
	if registry = s.current(); !registry.Stale() {
		return registry
	}

	now := s.clock()
	if now.Sub(s.lastRebuild) < rebuildRetryInterval {
		return registry
	}
	s.lastRebuild = now

	ctx, cancel := context.WithTimeout(context.Background(), s.rebuildTimeout)
	defer cancel()

	fresh, err := country.NewCountries(ctx, s.assembler, now, country.WithClock(s.clock))
	if err != nil {
		s.scope.Counter("registry_rebuild_failure").Inc(1)
		log.WithFields(logrus.Fields{"registry": registry.ID(), "error": err}).Error("rebuild country registry")
		sentry.CaptureException(err)
		return registry
	}

	s.registry.Store(fresh)
	s.scope.Counter("registry_rebuild").Inc(1)
	log.WithFields(logrus.Fields{"old": registry.ID(), "new": fresh.ID()}).Info("country registry replaced")
	return fresh
}
