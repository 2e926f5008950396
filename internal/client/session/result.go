package session

// Result is the uniform outcome of a facade operation. On failure Success is
// false and Error holds a message fit for display.
type Result[T any] struct {
	Success bool
	Data    T
	Message string
	Error   string
}

func succeed[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

func fail[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}
