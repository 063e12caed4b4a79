package user

import "context"

// DirectoryCache caches the first page of the tutor directory, the hottest read
// in the system. A (nil, 0, nil) return from GetTutorPage means cache miss.
type DirectoryCache interface {
	GetTutorPage(ctx context.Context) ([]*User, int, error)
	SetTutorPage(ctx context.Context, users []*User, total int) error
	Invalidate(ctx context.Context) error
}
