package service

import (
	"context"
	"errors"
	"fmt"

	"social-graph/repo"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthenticated  = errors.New("unauthenticated")
)

// storeError places a store failure in the service taxonomy while keeping the
// original error reachable through errors.Is.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrUserNotFound), errors.Is(err, repo.ErrTweetNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case errors.Is(err, repo.ErrDuplicateUser):
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidOperation, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}
