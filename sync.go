package gd

import "time"

// Fence is an on-device completion marker: Signal enqueues the marker behind
// all work issued so far and Completed reports whether the GPU has reached
// it. Backends implement it over their native event query.
type Fence interface {
	Signal() error
	Completed() (bool, error)
}

// WaitFence signals f once and blocks until it completes, sleeping interval
// between polls. There is no timeout: a stalled GPU blocks forever.
// A poll error stops the wait and is returned.
func WaitFence(f Fence, interval time.Duration) error {
	if err := f.Signal(); err != nil {
		return err
	}
	for {
		done, err := f.Completed()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		time.Sleep(interval)
	}
}
