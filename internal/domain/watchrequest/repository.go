package watchrequest

import (
	"context"
)

// Repository defines the operations for persisting and retrieving WatchRequest entities.
// There is no update path: requests are created and deleted only.
type Repository interface {
	Create(ctx context.Context, req *WatchRequest) error
	GetByID(ctx context.Context, id int64) (*WatchRequest, error)
	GetByUniqueID(ctx context.Context, uniqueID string) (*WatchRequest, error)
	ListAll(ctx context.Context) ([]*WatchRequest, error) // ordered by id
	Delete(ctx context.Context, id int64) error
	DeleteByUniqueID(ctx context.Context, uniqueID string) error
}
