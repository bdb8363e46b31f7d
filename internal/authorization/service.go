package authorization

import "context"

type Service interface {
	// Authorize returns ErrForbidden unless role may perform action on object.
	Authorize(ctx context.Context, username, role, object, action string) error
}
