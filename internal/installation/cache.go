package installation

// cache is the explicit tri-state backing each cacheable search
// location: unloaded, or loaded with a value that may legitimately be
// empty. Tracking loadedness separately from emptiness keeps genuinely
// empty directories from being rescanned on every query.
type cache[T any] struct {
	loaded bool
	value  T
}

// ensure returns the cached value, invoking load first if the cache has
// never been populated. A failed load leaves the cache unloaded.
func (c *cache[T]) ensure(load func() (T, error)) (T, error) {
	if c.loaded {
		return c.value, nil
	}
	value, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = value
	c.loaded = true
	return c.value, nil
}

// reload discards any cached value and repopulates it immediately.
func (c *cache[T]) reload(load func() (T, error)) error {
	c.invalidate()
	_, err := c.ensure(load)
	return err
}

// invalidate returns the cache to the unloaded state.
func (c *cache[T]) invalidate() {
	var zero T
	c.value = zero
	c.loaded = false
}
