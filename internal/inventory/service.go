package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estateportal_backend/platform/apperr"
	"estateportal_backend/platform/cache"
	"estateportal_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

// CatalogReader is the consumer-driven interface the service needs from the
// inventory client. Tests substitute a fake.
type CatalogReader interface {
	FetchTree(ctx context.Context, projectID int64) (Tree, error)
	FetchUnit(ctx context.Context, unitID int64) (Unit, error)
}

// Service serves the catalog with a short-TTL redis cache in front.
// Concurrent tree fetches for the same project collapse into one upstream
// call. The cache is an optimization only: a cold or absent redis never
// breaks a read.
type Service struct {
	client CatalogReader
	cache  *cache.Cache
	ttl    time.Duration
	group  singleflight.Group
	log    *logger.Logger
}

// NewService creates the catalog service. cacheStore may be nil.
func NewService(client CatalogReader, cacheStore *cache.Cache, ttl time.Duration, log *logger.Logger) *Service {
	return &Service{client: client, cache: cacheStore, ttl: ttl, log: log}
}

// Tree returns the catalog for a project, cached.
func (s *Service) Tree(ctx context.Context, projectID int64) (Tree, error) {
	key := treeCacheKey(projectID)

	if s.cache != nil {
		var cached Tree
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("inventory cache read failed", "error", err, "projectId", projectID)
		}
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		tree, err := s.client.FetchTree(ctx, projectID)
		if err != nil {
			return Tree{}, err
		}
		return tree, nil
	})
	if err != nil {
		return Tree{}, err
	}
	tree := result.(Tree)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, tree, s.ttl); err != nil {
			s.log.Warn("inventory cache write failed", "error", err, "projectId", projectID)
		}
	}

	return tree, nil
}

// Invalidate drops the cached tree for a project. Called after operations
// that change availability on the backend (a booking, a block).
func (s *Service) Invalidate(ctx context.Context, projectID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, treeCacheKey(projectID)); err != nil {
		s.log.Warn("inventory cache invalidation failed", "error", err, "projectId", projectID)
	}
}

// ResolveUnit locates a unit in the project tree, falling back to the
// by-unit endpoint when the tree omits it.
func (s *Service) ResolveUnit(ctx context.Context, projectID, unitID int64) (Unit, error) {
	tree, err := s.Tree(ctx, projectID)
	if err == nil {
		if unit, ok := tree.FindUnit(unitID); ok {
			return unit, nil
		}
	}

	unit, unitErr := s.client.FetchUnit(ctx, unitID)
	if unitErr != nil {
		return Unit{}, unitErr
	}
	return unit, nil
}

// EnsureSelectable is the availability gate shared by visit scheduling and
// interested-unit selection. The error names the unit's actual status, not
// a generic message.
func (s *Service) EnsureSelectable(unit Unit) error {
	if unit.Selectable() {
		return nil
	}
	return apperr.Validationf("unit %s cannot be selected: availability is %s", unit.Label, unit.DisplayStatus())
}

func treeCacheKey(projectID int64) string {
	return fmt.Sprintf("inventory:tree:%d", projectID)
}
