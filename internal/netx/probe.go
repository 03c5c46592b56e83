// Package netx answers the one network question the sync core asks: is the
// device connected, and can it reach the cloud backend right now.
package netx

import (
	"context"
	"net"
	"time"
)

// Status is a single reachability observation. Both flags must hold before
// any upload is attempted.
type Status struct {
	Connected         bool
	InternetReachable bool
}

func (s Status) Online() bool {
	return s.Connected && s.InternetReachable
}

type Probe interface {
	Check(ctx context.Context) Status
}

// Reacher performs the end-to-end reachability test.
type Reacher interface {
	Reachable(ctx context.Context) bool
}

// Checker combines a local interface scan with a Reacher. The Reacher is
// skipped when no interface is up.
type Checker struct {
	reacher    Reacher
	timeout    time.Duration
	interfaces func() ([]net.Interface, error)
}

func NewChecker(reacher Reacher, timeout time.Duration) *Checker {
	return &Checker{reacher: reacher, timeout: timeout, interfaces: net.Interfaces}
}

func (c *Checker) Check(ctx context.Context) Status {
	var st Status
	st.Connected = c.connected()
	if !st.Connected || c.reacher == nil {
		return st
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	st.InternetReachable = c.reacher.Reachable(ctx)
	return st
}

func (c *Checker) connected() bool {
	ifaces, err := c.interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 {
			return true
		}
	}
	return false
}

// Always is a Probe with a fixed answer, used when reachability checks are
// switched off.
type Always Status

func (a Always) Check(context.Context) Status {
	return Status(a)
}
