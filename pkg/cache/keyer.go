package cache

// Keyer derives cache keys for the values dressup persists.
type Keyer interface {
	// LandmarkKey identifies the scanned BodyMeta of a base image.
	LandmarkKey(url string, opts LandmarkKeyOpts) string

	// SizeKey identifies the intrinsic size of a garment image.
	SizeKey(url string) string
}

// LandmarkKeyOpts holds scan parameters that change the scan result.
type LandmarkKeyOpts struct {
	Threshold int    `json:"threshold"`
	Version   string `json:"version,omitempty"`
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LandmarkKey returns "landmark:<sha256>".
func (DefaultKeyer) LandmarkKey(url string, opts LandmarkKeyOpts) string {
	return hashKey("landmark", url, opts)
}

// SizeKey returns "size:<sha256>".
func (DefaultKeyer) SizeKey(url string) string {
	return hashKey("size", url)
}

// ScopedKeyer prefixes every key of an inner Keyer. The server scopes keys
// by asset root so two roots with overlapping relative urls never share
// entries in one Redis.
//
//	keyer := NewScopedKeyer(nil, RootScope(root))
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LandmarkKey returns the prefixed landmark key.
func (k *ScopedKeyer) LandmarkKey(url string, opts LandmarkKeyOpts) string {
	return k.prefix + k.inner.LandmarkKey(url, opts)
}

// SizeKey returns the prefixed size key.
func (k *ScopedKeyer) SizeKey(url string) string {
	return k.prefix + k.inner.SizeKey(url)
}
