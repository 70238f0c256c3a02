package errs

import "errors"

// StoreError reports a failure of the backing store (connection, query, decode).
// Op names the store operation, e.g. "favorites.add".
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op + ": store failure"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a *StoreError unless it is nil or already one of the
// sentinels above, which callers match on directly.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrRateLimited):
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsStore reports whether err (or anything it wraps) is a *StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
