package app

import (
	"context"
	"fmt"
	"sync"

	"visa_slot_watcher/internal/domain/watchrequest"
	idb "visa_slot_watcher/internal/infra/database"
)

// fakeNotifier records every message and fails the calls listed in failOn (1-based).
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	calls    int
	failOn   map[int]bool
}

func (n *fakeNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.failOn[n.calls] {
		return fmt.Errorf("telegram unavailable")
	}
	n.messages = append(n.messages, text)
	return nil
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// fakeRepository is an in-memory watchrequest.Repository.
type fakeRepository struct {
	mu      sync.Mutex
	nextID  int64
	items   []*watchrequest.WatchRequest
	listErr error
}

func newFakeRepository(items ...*watchrequest.WatchRequest) *fakeRepository {
	r := &fakeRepository{}
	for _, it := range items {
		r.nextID++
		it.ID = r.nextID
		r.items = append(r.items, it)
	}
	return r
}

func (r *fakeRepository) Create(_ context.Context, req *watchrequest.WatchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.UniqueID == req.UniqueID {
			return idb.ErrDuplicateUniqueID
		}
	}
	r.nextID++
	req.ID = r.nextID
	r.items = append(r.items, req)
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id int64) (*watchrequest.WatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, idb.ErrWatchRequestNotFound
}

func (r *fakeRepository) GetByUniqueID(_ context.Context, uniqueID string) (*watchrequest.WatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.UniqueID == uniqueID {
			return it, nil
		}
	}
	return nil, idb.ErrWatchRequestNotFound
}

func (r *fakeRepository) ListAll(_ context.Context) ([]*watchrequest.WatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]*watchrequest.WatchRequest(nil), r.items...), nil
}

func (r *fakeRepository) Delete(_ context.Context, id int64) error {
	return r.remove(func(it *watchrequest.WatchRequest) bool { return it.ID == id })
}

func (r *fakeRepository) DeleteByUniqueID(_ context.Context, uniqueID string) error {
	return r.remove(func(it *watchrequest.WatchRequest) bool { return it.UniqueID == uniqueID })
}

func (r *fakeRepository) remove(match func(*watchrequest.WatchRequest) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if match(it) {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return idb.ErrWatchRequestNotFound
}
