package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatusCode is matched by InvalidStatusCodeError
	ErrInvalidStatusCode = errors.New("server replied with invalid status code")

	// ErrCouldNotLikeFood is matched by CouldNotLikeFoodError
	ErrCouldNotLikeFood = errors.New("could not like food")

	// ErrCouldNotUnlikeFood is matched by CouldNotUnlikeFoodError
	ErrCouldNotUnlikeFood = errors.New("could not unlike food")

	// ErrFoodNotFound is returned when a food id is not present in the list
	ErrFoodNotFound = errors.New("food not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrStoreUnavailable is returned when the backing store is closed or missing
	ErrStoreUnavailable = errors.New("food store unavailable")
)

// APIError is the closed set of failures raised by the OpenFoods API client.
// Transport and decoding errors are never mapped into it.
type APIError interface {
	error
	apiError()
}

// InvalidStatusCodeError means the exchange completed but the HTTP status
// was outside 200-299.
type InvalidStatusCodeError struct {
	Code int
}

func (e *InvalidStatusCodeError) Error() string {
	return fmt.Sprintf("server replied with invalid status code: %d", e.Code)
}

func (e *InvalidStatusCodeError) Is(target error) bool { return target == ErrInvalidStatusCode }

func (*InvalidStatusCodeError) apiError() {}

// CouldNotLikeFoodError means the server accepted the like request but
// reported success=false.
type CouldNotLikeFoodError struct {
	Food Food
}

func (e *CouldNotLikeFoodError) Error() string {
	return fmt.Sprintf("could not like food %q (id: %d)", e.Food.Name, e.Food.ID)
}

func (e *CouldNotLikeFoodError) Is(target error) bool { return target == ErrCouldNotLikeFood }

func (*CouldNotLikeFoodError) apiError() {}

// CouldNotUnlikeFoodError is the unlike counterpart of CouldNotLikeFoodError.
type CouldNotUnlikeFoodError struct {
	Food Food
}

func (e *CouldNotUnlikeFoodError) Error() string {
	return fmt.Sprintf("could not unlike food %q (id: %d)", e.Food.Name, e.Food.ID)
}

func (e *CouldNotUnlikeFoodError) Is(target error) bool { return target == ErrCouldNotUnlikeFood }

func (*CouldNotUnlikeFoodError) apiError() {}
