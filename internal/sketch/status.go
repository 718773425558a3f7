package sketch

// DeriveStatus computes a sketch's status from the evidence available.
// Registry membership wins over anything on disk. ok is false when none of
// the evidence is present and the directory is not a sketch.
func DeriveStatus(running, artifactExists, sourceExists bool) (status Status, ok bool) {
	switch {
	case running:
		return StatusRunning, true
	case artifactExists:
		return StatusReady, true
	case sourceExists:
		return StatusCreated, true
	default:
		return "", false
	}
}
