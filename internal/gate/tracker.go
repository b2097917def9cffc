package gate

// Tracker turns a stream of session snapshots into at most one navigation per
// transition into the denied state. It is not safe for concurrent use; each
// consumer (one WebSocket connection, one page view) owns its own Tracker.
type Tracker struct {
	last   Decision
	seeded bool
}

// Observe evaluates s and reports whether the caller should navigate to
// the decision's target now.
func (t *Tracker) Observe(s Session, originalPath string) (Decision, bool) {
	d := Admit(s, originalPath)
	navigate := d.Kind == Redirect && (!t.seeded || t.last.Kind != Redirect)
	t.last = d
	t.seeded = true
	return d, navigate
}

// Last returns the most recent decision and whether one was made.
func (t *Tracker) Last() (Decision, bool) {
	return t.last, t.seeded
}

// Reset forgets the previous decision.
func (t *Tracker) Reset() {
	t.last = Decision{}
	t.seeded = false
}
