package alert

// Actor identifies who asked for a lifecycle change over the control surface.
type Actor struct {
	// Hostname is the machine name where the request was made.
	Hostname string
	// Username is the system user who made the request.
	Username string
}

// Clone returns a copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String formats the actor as username@hostname.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return a.Username + "@" + a.Hostname
}
