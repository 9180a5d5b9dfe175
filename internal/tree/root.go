package tree

import (
	"fmt"

	"github.com/ovirt-tools/ovirtctl/internal/logging"
)

// Root is the hierarchy root. It owns the single engine session (or none,
// when disconnected) and cascades refresh to the per-category collections.
type Root struct {
	base
	dial    DialFunc
	session *Session
}

// NewRoot creates a disconnected root node.
func NewRoot(dial DialFunc) *Root {
	return &Root{
		base: base{name: "/"},
		dial: dial,
	}
}

// Session returns the current session, or nil when disconnected.
func (r *Root) Session() *Session {
	return r.session
}

// Connect establishes the engine session. Refuses (logs and returns) when a
// session already exists. The connection is validated with a lightweight
// test call; when that fails the session is kept but marked unverified
// rather than torn down, so the operator can inspect or retry explicitly.
func (r *Root) Connect(username, password, address string) error {
	if r.session != nil {
		logging.Info("Already connected. Disconnect first.")
		return nil
	}

	logging.Info("Connecting to %s...", address)

	session, err := r.dial(username, password, address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	if err := session.Services.System.Test(); err != nil {
		logging.Warn("Failed to test connection to the engine: %v", err)
		logging.Warn("Session kept as unverified; disconnect and retry to re-check.")
		session.Verified = false
		r.session = session
		return nil
	}

	session.Verified = true
	r.session = session
	logging.Info("Connected to the engine at %s.", address)
	return r.Refresh()
}

// Disconnect closes the session if one exists and rebuilds the (now empty)
// tree. Calling it while already disconnected only logs; repeated calls are
// harmless.
func (r *Root) Disconnect() error {
	if r.session != nil {
		if err := r.session.Close(); err != nil {
			logging.Warn("Error while closing the engine connection: %v", err)
		}
		r.session = nil
		logging.Info("Disconnected from the engine.")
	} else {
		logging.Info("Already disconnected from the engine.")
	}
	return r.Refresh()
}

// Refresh wipes all children and, if a session exists, reconstructs one
// collection node per resource category from the engine inventory. Without
// a session the tree has no resource children.
func (r *Root) Refresh() error {
	r.setChildren(nil)

	if r.session == nil {
		return nil
	}
	svc := r.session.Services

	collections := []Node{
		newDataCenters(r, svc.DataCenters),
		newClusters(r, svc.Clusters),
		newHosts(r, svc.Hosts),
		newStorageDomains(r, svc.StorageDomains),
		newTemplates(r, svc.Templates),
		newVMs(r, svc.VMs),
	}

	for _, c := range collections {
		if err := c.Refresh(); err != nil {
			return err
		}
	}
	r.setChildren(collections)
	return nil
}

// Summary describes the session state.
func (r *Root) Summary() (string, *bool) {
	switch {
	case r.session == nil:
		return "disconnected", nil
	case !r.session.Verified:
		return fmt.Sprintf("connected to %s (unverified)", r.session.Address), healthy(false)
	default:
		return fmt.Sprintf("connected to %s as %s", r.session.Address, r.session.Username), healthy(true)
	}
}
