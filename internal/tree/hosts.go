package tree

import (
	"fmt"
	"time"

	"github.com/ovirt-tools/ovirtctl/internal/engine"
	"github.com/ovirt-tools/ovirtctl/internal/logging"
	"github.com/ovirt-tools/ovirtctl/internal/validate"
)

// Host provisioning is asynchronous on the engine side: an add request is
// accepted immediately and the host installs in the background. The
// controller polls the host's status on a fixed interval until it observes
// a terminal state (up or non_operational) or the deadline elapses. There
// is no automatic retry or rollback; a host that failed to come up is left
// in place for the operator to inspect.
const (
	hostAddPollInterval = 5 * time.Second
	hostAddTimeout      = 15 * time.Minute
)

// Hosts is the hosts collection node and the host lifecycle controller.
type Hosts struct {
	base
	svc HostService

	// Poll pacing, overridable in tests.
	pollInterval time.Duration
	addTimeout   time.Duration
}

func newHosts(parent Node, svc HostService) *Hosts {
	return &Hosts{
		base:         base{name: "Hosts", parent: parent},
		svc:          svc,
		pollInterval: hostAddPollInterval,
		addTimeout:   hostAddTimeout,
	}
}

// Refresh rebuilds the entry nodes from a full list fetch.
func (c *Hosts) Refresh() error {
	hosts, err := c.svc.List()
	if err != nil {
		return err
	}
	children := make([]Node, 0, len(hosts))
	for _, h := range hosts {
		children = append(children, &HostEntry{
			base: base{name: h.Name, parent: c},
			host: h,
			coll: c,
		})
	}
	c.setChildren(children)
	return nil
}

// Summary reports the host count and how many are up, from the snapshot.
func (c *Hosts) Summary() (string, *bool) {
	up := 0
	for _, child := range c.children {
		if entry, ok := child.(*HostEntry); ok && entry.host.Status == engine.HostStatusUp {
			up++
		}
	}
	if len(c.children) == 0 {
		return "no hosts", nil
	}
	desc := fmt.Sprintf("%d hosts (%d UP)", len(c.children), up)
	if up == 0 {
		return desc, healthy(false)
	}
	return desc, healthy(up == len(c.children))
}

type hostParams struct {
	Name     string `validate:"required"`
	Address  string `validate:"required"`
	Password string `validate:"required"`
	Cluster  string `validate:"required"`
}

// Create submits a host add request and waits for the host to come up.
// The wait is a blocking poll loop on the calling goroutine: status is
// re-fetched every pollInterval until it reads up or non_operational, or
// addTimeout elapses. Success logs and refreshes; failure and timeout log
// the observed status and leave the host as-is.
func (c *Hosts) Create(name, address, password, cluster, description string) error {
	if err := validate.Struct(hostParams{
		Name:     name,
		Address:  address,
		Password: password,
		Cluster:  cluster,
	}); err != nil {
		return err
	}

	created, err := c.svc.Add(engine.Host{
		Name:         name,
		Description:  description,
		Address:      address,
		RootPassword: password,
		Cluster:      &engine.ClusterRef{Name: cluster},
	})
	if err != nil {
		return err
	}

	logging.Info("Host %s submitted, waiting for it to come up (up to %v)...", name, c.addTimeout)

	deadline := time.Now().Add(c.addTimeout)
	var status engine.HostStatus
	for {
		time.Sleep(c.pollInterval)

		h, err := c.svc.Get(created.ID)
		if err != nil {
			return err
		}
		status = h.Status

		if status == engine.HostStatusUp || status == engine.HostStatusNonOperational {
			break
		}
		if time.Now().After(deadline) {
			break
		}
	}

	if status == engine.HostStatusUp {
		logging.Success("Host was successfully added.")
		return c.Refresh()
	}

	logging.Error("Host was not added properly. Status: %s", status)
	return nil
}

// lookup resolves a host by exact name, logging and returning nil on a
// missed lookup so the caller aborts without mutating anything.
func (c *Hosts) lookup(name string) (*engine.Host, error) {
	hosts, err := c.svc.ListByName(name)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		logging.Info("Host %s not found. Check spelling.", name)
		return nil, nil
	}
	return &hosts[0], nil
}

// Activate moves the named host out of maintenance. A host that is already
// up is a silent no-op: the precondition is satisfied, nothing to do.
func (c *Hosts) Activate(name string) error {
	h, err := c.lookup(name)
	if err != nil || h == nil {
		return err
	}
	if h.Status == engine.HostStatusUp {
		return nil
	}
	if err := c.svc.Activate(h.ID); err != nil {
		return err
	}
	logging.Success("Host %s activated.", name)
	return c.Refresh()
}

// Deactivate moves the named host into maintenance. Already in maintenance
// is a silent no-op.
func (c *Hosts) Deactivate(name string) error {
	h, err := c.lookup(name)
	if err != nil || h == nil {
		return err
	}
	if h.Status == engine.HostStatusMaintenance {
		return nil
	}
	if err := c.svc.Deactivate(h.ID); err != nil {
		return err
	}
	logging.Success("Host %s deactivated.", name)
	return c.Refresh()
}

// Delete removes the named host. Removal is only permitted from
// maintenance; otherwise the guard logs and aborts without issuing any
// remote call.
func (c *Hosts) Delete(name string) error {
	h, err := c.lookup(name)
	if err != nil || h == nil {
		return err
	}
	if h.Status != engine.HostStatusMaintenance {
		logging.Info("Host is not in maintenance. Deactivate it first.")
		return nil
	}
	if err := c.svc.Remove(h.ID); err != nil {
		return err
	}
	logging.Success("Host %s deleted.", name)
	return c.Refresh()
}

// HostEntry is a single host node. It holds the status snapshot from the
// refresh that created it and delegates mutating commands to the parent
// collection by name.
type HostEntry struct {
	base
	host engine.Host
	coll *Hosts
}

func (e *HostEntry) Refresh() error { return nil }

func (e *HostEntry) Summary() (string, *bool) {
	switch e.host.Status {
	case engine.HostStatusUp:
		return fmt.Sprintf("Address: %s [UP]", e.host.Address), healthy(true)
	case engine.HostStatusMaintenance:
		return fmt.Sprintf("Address: %s [Maint.]", e.host.Address), nil
	case engine.HostStatusNonOperational:
		return fmt.Sprintf("Address: %s [NonOperational]", e.host.Address), healthy(false)
	default:
		return fmt.Sprintf("Address: %s [%s]", e.host.Address, e.host.Status), nil
	}
}

// Activate is a silent no-op when the snapshot already reads up.
func (e *HostEntry) Activate() error {
	if e.host.Status == engine.HostStatusUp {
		return nil
	}
	return e.coll.Activate(e.host.Name)
}

// Deactivate is a silent no-op when the snapshot already reads maintenance.
func (e *HostEntry) Deactivate() error {
	if e.host.Status == engine.HostStatusMaintenance {
		return nil
	}
	return e.coll.Deactivate(e.host.Name)
}

// Delete delegates to the collection's guarded delete.
func (e *HostEntry) Delete() error {
	return e.coll.Delete(e.host.Name)
}
