package quota

// Rotation walks the configured API keys in order. The cursor only moves
// forward: once a key is abandoned inside a cycle it is not retried until
// the next cycle builds a fresh Rotation.
type Rotation struct {
	keys   []string
	cursor int
}

// NewRotation creates a rotation over the configured keys.
func NewRotation(keys []string) *Rotation {
	return &Rotation{keys: keys}
}

// Current returns the active key. ok is false once every key was
// exhausted.
func (r *Rotation) Current() (key string, ok bool) {
	if r.cursor >= len(r.keys) {
		return "", false
	}
	return r.keys[r.cursor], true
}

// Advance moves to the next key. Returns false when there is none left;
// there is no wraparound.
func (r *Rotation) Advance() bool {
	if r.cursor >= len(r.keys) {
		return false
	}
	r.cursor++
	return r.cursor < len(r.keys)
}

// Index returns the 1-based position of the active key, for logs.
func (r *Rotation) Index() int {
	return r.cursor + 1
}

// Len returns how many keys the rotation holds.
func (r *Rotation) Len() int {
	return len(r.keys)
}
