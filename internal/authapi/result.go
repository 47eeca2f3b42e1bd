package authapi

// Result holds either a value or the APIError the upstream call failed with.
type Result[T any] struct {
	value T
	err   *APIError
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Fail[T any](err *APIError) Result[T] {
	if err == nil {
		err = NetworkError(0)
	}

	return Result[T]{err: err}
}

func (r Result[T]) IsOk() bool {
	return r.err == nil
}

func (r Result[T]) Value() (T, bool) {
	return r.value, r.err == nil
}

func (r Result[T]) Err() *APIError {
	return r.err
}

// Unwrap converts the result into Go's value/error pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}

	return r.value, nil
}
