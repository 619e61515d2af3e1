package cache

// ScopedKeyer wraps a Keyer with a prefix so that several engines can share
// one cache backend without seeing each other's entries.
//
//	labKeyer := NewScopedKeyer(NewDefaultKeyer(), "lab:delft:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer falls back to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// BackendsKey implements Keyer.
func (k *ScopedKeyer) BackendsKey(providerType, providerName string) string {
	return k.prefix + k.inner.BackendsKey(providerType, providerName)
}

// CalibrationKey implements Keyer.
func (k *ScopedKeyer) CalibrationKey(providerType, backend string) string {
	return k.prefix + k.inner.CalibrationKey(providerType, backend)
}
