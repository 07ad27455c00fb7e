package showreel

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRegistered is returned when a scene name has no registered factory.
	ErrNotRegistered = errors.New("showreel: scene not registered")

	// ErrTransitionBusy is returned by TrySwitchTo while another transition is
	// in flight.
	ErrTransitionBusy = errors.New("showreel: transition in progress")
)

// HookError reports a failed scene lifecycle hook. Panics raised inside a
// hook are recovered and reported as a HookError as well.
type HookError struct {
	Scene string
	Hook  string
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("showreel: scene %q %s: %v", e.Scene, e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// callHook runs fn, converting a returned error or a panic into a *HookError.
func callHook(scene, hook string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HookError{Scene: scene, Hook: hook, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		return &HookError{Scene: scene, Hook: hook, Err: err}
	}
	return nil
}
