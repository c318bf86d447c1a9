package user

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// CachedService serves GetByID from an in-process TTL cache. The admin gate
// and booking display lookups hit it on nearly every request.
type CachedService struct {
	Service
	cache *ccache.Cache[*User]
	ttl   time.Duration
}

// NewCachedService wraps next with a cache holding at most maxSize users for ttl.
func NewCachedService(next Service, maxSize int64, ttl time.Duration) *CachedService {
	return &CachedService{
		Service: next,
		cache:   ccache.New(ccache.Configure[*User]().MaxSize(maxSize)),
		ttl:     ttl,
	}
}

func (s *CachedService) GetByID(ctx context.Context, id string) (*User, error) {
	item, err := s.cache.Fetch(id, s.ttl, func() (*User, error) {
		return s.Service.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	// Hand out a copy so callers cannot mutate the cached record.
	u := *item.Value()
	return &u, nil
}

func (s *CachedService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error) {
	defer s.cache.Delete(id)
	return s.Service.UpdateProfile(ctx, id, req)
}

func (s *CachedService) Update(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	defer s.cache.Delete(id)
	return s.Service.Update(ctx, id, req)
}

func (s *CachedService) Delete(ctx context.Context, id string) error {
	defer s.cache.Delete(id)
	return s.Service.Delete(ctx, id)
}

// Stop releases the cache's background goroutine.
func (s *CachedService) Stop() {
	s.cache.Stop()
}
