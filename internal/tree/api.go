package tree

import (
	"io"
	"time"

	"github.com/ovirt-tools/ovirtctl/internal/engine"
)

// The tree consumes the engine through narrow per-category interfaces so
// that tests can substitute fakes. The concrete services in
// internal/engine satisfy these directly.

// SystemService is the lightweight post-connect verification call.
type SystemService interface {
	Test() error
}

// DataCenterService is the slice of the engine API the Datacenters
// collection consumes.
type DataCenterService interface {
	List() ([]engine.DataCenter, error)
	ListByName(name string) ([]engine.DataCenter, error)
	Add(dc engine.DataCenter) (*engine.DataCenter, error)
	Remove(id string) error
}

// ClusterService lists clusters.
type ClusterService interface {
	List() ([]engine.Cluster, error)
}

// HostService is the slice of the engine API the Hosts collection and the
// host lifecycle controller consume.
type HostService interface {
	List() ([]engine.Host, error)
	ListByName(name string) ([]engine.Host, error)
	Add(h engine.Host) (*engine.Host, error)
	Get(id string) (*engine.Host, error)
	Remove(id string) error
	Activate(id string) error
	Deactivate(id string) error
}

// StorageDomainService lists storage domains.
type StorageDomainService interface {
	List() ([]engine.StorageDomain, error)
}

// TemplateService lists templates.
type TemplateService interface {
	List() ([]engine.Template, error)
}

// VMService lists virtual machines.
type VMService interface {
	List() ([]engine.VM, error)
}

// Services bundles the per-category views of one engine connection.
type Services struct {
	System         SystemService
	DataCenters    DataCenterService
	Clusters       ClusterService
	Hosts          HostService
	StorageDomains StorageDomainService
	Templates      TemplateService
	VMs            VMService
}

// Session is the authenticated connection state to the engine. At most one
// exists per shell; collection and entry nodes may only query the engine
// while the root holds one.
type Session struct {
	Address  string
	Username string

	// Verified reports whether the post-connect test call succeeded. A
	// connection whose test failed is kept, but marked, so the operator can
	// see the ambiguous state instead of it being silently dropped.
	Verified bool

	Services *Services
	closer   io.Closer
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// DialFunc establishes a session against an engine address. The production
// implementation wraps engine.Connect; tests substitute fakes.
type DialFunc func(username, password, address string) (*Session, error)

// EngineDialer builds the production DialFunc from the transport options
// carried by the CLI flags.
func EngineDialer(insecure bool, timeout time.Duration) DialFunc {
	return func(username, password, address string) (*Session, error) {
		conn := engine.Connect(engine.Config{
			Address:  address,
			Username: username,
			Password: password,
			Insecure: insecure,
			Timeout:  timeout,
		})
		return NewEngineSession(conn, username, address), nil
	}
}

// NewEngineSession adapts a live engine connection into a Session.
func NewEngineSession(conn *engine.Connection, username, address string) *Session {
	return &Session{
		Address:  address,
		Username: username,
		Services: &Services{
			System:         conn,
			DataCenters:    conn.DataCenters(),
			Clusters:       conn.Clusters(),
			Hosts:          conn.Hosts(),
			StorageDomains: conn.StorageDomains(),
			Templates:      conn.Templates(),
			VMs:            conn.VMs(),
		},
		closer: conn,
	}
}
