// Package slot provides a lazily populated single-instance holder.
//
// A [Slot] owns at most one value of its payload type. The value is produced
// by a caller-supplied [Factory] on the first successful [Slot.Get] and then
// shared by every caller. [Slot.Shutdown] closes the slot permanently: the
// value is dropped (and closed if it implements [io.Closer]) and no later
// access can bring it back.
//
// Example usage:
//
//	sessions := slot.New(func() (*Session, error) { return dial() })
//	if s, ok := sessions.Get(); ok {
//		s.Use()
//	}
//	// On host teardown.
//	sessions.Shutdown()
package slot
