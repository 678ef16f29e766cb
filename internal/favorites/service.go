package favorites

import (
	"context"
	"log"

	"grubz/models"
	"grubz/repository"
)

// Service is a cache-aside favorites layer. The primary store is
// authoritative: writes go to it first and the local cache is refreshed from
// its results; reads fall back to the cache only when the primary read
// fails. The cache is never written with state the primary has not accepted.
type Service struct {
	primary repository.FavoriteRepositoryI
	cache   *Cache // optional
}

func NewService(primary repository.FavoriteRepositoryI, cache *Cache) *Service {
	return &Service{primary: primary, cache: cache}
}

// Add records a favorite in the primary store and mirrors it to the cache.
func (s *Service) Add(ctx context.Context, userID, restaurantID int64) (*models.Favorite, error) {
	f, err := s.primary.Add(ctx, userID, restaurantID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if cerr := s.cache.Put(ctx, *f); cerr != nil {
			log.Printf("favorites: cache put user=%d restaurant=%d: %v", userID, restaurantID, cerr)
		}
	}
	return f, nil
}

// Remove deletes a favorite from the primary store and the cache.
func (s *Service) Remove(ctx context.Context, userID, restaurantID int64) error {
	if err := s.primary.Remove(ctx, userID, restaurantID); err != nil {
		return err
	}
	if s.cache != nil {
		if cerr := s.cache.Delete(ctx, userID, restaurantID); cerr != nil {
			log.Printf("favorites: cache delete user=%d restaurant=%d: %v", userID, restaurantID, cerr)
		}
	}
	return nil
}

// List returns a user's favorites from the primary store, refreshing the
// cache on success and serving the cached copy when the primary is
// unreachable.
func (s *Service) List(ctx context.Context, userID int64) ([]models.Favorite, error) {
	favs, err := s.primary.ListByUser(ctx, userID)
	if err != nil {
		if s.cache == nil {
			return nil, err
		}
		log.Printf("favorites: primary list user=%d failed, serving cache: %v", userID, err)
		return s.cache.List(ctx, userID)
	}
	if s.cache != nil {
		if cerr := s.cache.ReplaceAll(ctx, userID, favs); cerr != nil {
			log.Printf("favorites: cache refresh user=%d: %v", userID, cerr)
		}
	}
	return favs, nil
}
