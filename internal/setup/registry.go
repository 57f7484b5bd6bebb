package setup

import (
	"net/url"
	"sync"

	"github.com/pkg/errors"
)

var ErrSchemeNotRegistered = errors.New("scheme not registered")

type Factory[T any] func(u *url.URL) (T, error)

// Registry maps URI schemes to the factories of an interchangeable
// implementation.
type Registry[T any] struct {
	mutex     sync.RWMutex
	factories map[string]Factory[T]
}

func (r *Registry[T]) Register(scheme string, factory Factory[T]) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.factories[scheme] = factory
}

func (r *Registry[T]) From(rawURL string) (T, error) {
	var empty T

	u, err := url.Parse(rawURL)
	if err != nil {
		return empty, errors.WithStack(err)
	}

	r.mutex.RLock()
	factory, exists := r.factories[u.Scheme]
	r.mutex.RUnlock()

	if !exists {
		return empty, errors.Wrapf(ErrSchemeNotRegistered, "no factory for scheme '%s'", u.Scheme)
	}

	service, err := factory(u)
	if err != nil {
		return empty, errors.WithStack(err)
	}

	return service, nil
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		factories: map[string]Factory[T]{},
	}
}
