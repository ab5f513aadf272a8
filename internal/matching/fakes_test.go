package matching

import (
	"context"
	"sync"
	"time"
)

type fakeRepository struct {
	mu sync.Mutex

	candidates    []*Profile
	candidatesErr error
	lastQuery     *CandidateQuery

	stats    map[int64]*FameStats
	statsErr error

	written  map[int64]int
	writeErr error

	activeIDs []int64
	activeErr error
	since     time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		stats:   make(map[int64]*FameStats),
		written: make(map[int64]int),
	}
}

func (r *fakeRepository) FindCandidates(ctx context.Context, q *CandidateQuery) ([]*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = q
	if r.candidatesErr != nil {
		return nil, r.candidatesErr
	}
	return r.candidates, nil
}

func (r *fakeRepository) GetFameStats(ctx context.Context, userID int64) (*FameStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statsErr != nil {
		return nil, r.statsErr
	}
	stats, ok := r.stats[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return stats, nil
}

func (r *fakeRepository) UpdateFameRating(ctx context.Context, userID int64, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.written[userID] = rating
	return nil
}

func (r *fakeRepository) GetRecentlyActiveUserIDs(ctx context.Context, since time.Time) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.since = since
	return r.activeIDs, r.activeErr
}

func (r *fakeRepository) writtenRating(userID int64) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating, ok := r.written[userID]
	return rating, ok
}

type fakeCache struct {
	ratings map[int64]int
	ttls    map[int64]time.Duration
	getErr  error
	setErr  error
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		ratings: make(map[int64]int),
		ttls:    make(map[int64]time.Duration),
	}
}

func (c *fakeCache) Get(ctx context.Context, userID int64) (int, bool, error) {
	c.gets++
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	rating, ok := c.ratings[userID]
	return rating, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, userID int64, rating int, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.ratings[userID] = rating
	c.ttls[userID] = ttl
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, userID int64) error {
	delete(c.ratings, userID)
	return nil
}

type fakeUpdater struct {
	mu      sync.Mutex
	calls   []int64
	failFor map[int64]error
	rating  int
}

func (u *fakeUpdater) UpdateFameRating(ctx context.Context, userID int64) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, userID)
	if err, ok := u.failFor[userID]; ok {
		return 0, err
	}
	return u.rating, nil
}

func (u *fakeUpdater) called() []int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]int64(nil), u.calls...)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}
