package retrodfrg

import "time"

// Stopped is closed once a stop has been requested.
func (u *UI) Stopped() <-chan struct{} {
	return u.stopChan
}

// WaitWithStop holds the board on screen for d, returning early with
// ErrInterrupted if the user asks to stop.
func WaitWithStop(u *UI, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-u.stopChan:
		return ErrInterrupted
	case <-timer.C:
		return nil
	}
}
