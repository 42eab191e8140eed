package primitive

// Option holds either a value of T or nothing. The zero value is None.
// An absent Option is distinct from a present zero value: Some("") != None.
type Option[T any] struct {
	v  T
	ok bool
}

func Some[T any](v T) Option[T] { return Option[T]{v: v, ok: true} }

func None[T any]() Option[T] { return Option[T]{} }

// Get returns the wrapped value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.v, o.ok }

func (o Option[T]) IsSome() bool { return o.ok }
func (o Option[T]) IsNone() bool { return !o.ok }

// OrElse returns the wrapped value, or def when absent.
func (o Option[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.v
}
