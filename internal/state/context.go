package state

import (
	"fmt"
	"reflect"
	"sync"
)

// ContextRegistry is the hierarchical type -> value-stack map a single
// build pass uses to share values down the tree without threading them
// through every node's parameters explicitly.
type ContextRegistry struct {
	mu    sync.Mutex
	stack map[reflect.Type][]any
}

func NewContextRegistry() *ContextRegistry {
	return &ContextRegistry{stack: make(map[reflect.Type][]any)}
}

// ProvideContext pushes value for type T, returning a function that pops it;
// callers must defer the returned function so the provided value only
// remains visible for the providing node's subtree build.
func ProvideContext[T any](cr *ContextRegistry, value T) (pop func()) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	cr.mu.Lock()
	cr.stack[t] = append(cr.stack[t], value)
	cr.mu.Unlock()

	return func() {
		cr.mu.Lock()
		defer cr.mu.Unlock()
		s := cr.stack[t]
		if len(s) == 0 {
			return
		}
		cr.stack[t] = s[:len(s)-1]
	}
}

// UseContext returns the most recently provided value of type T and
// whether one was in scope.
func UseContext[T any](cr *ContextRegistry) (T, bool) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	cr.mu.Lock()
	defer cr.mu.Unlock()
	s := cr.stack[t]
	if len(s) == 0 {
		var zero T
		return zero, false
	}
	return s[len(s)-1].(T), true
}

// MustUseContext returns the most recently provided value of type T,
// panicking if none is in scope. Missing required context is a fatal
// programming error, not a recoverable runtime condition.
func MustUseContext[T any](cr *ContextRegistry) T {
	v, ok := UseContext[T](cr)
	if !ok {
		var zero T
		panic(fmt.Sprintf("state: no context of type %T in scope", zero))
	}
	return v
}
