package engine

import (
	"fmt"
	"net/url"
)

// Category-scoped services, one per engine collection endpoint. Each service
// is a thin, stateless view over the shared Connection; entries are located
// by an exact-match name filter passed as a search query (name=<value>).

// searchByName builds the engine's exact-match name filter query.
func searchByName(name string) url.Values {
	return url.Values{"search": []string{fmt.Sprintf("name=%s", name)}}
}

// DataCentersService exposes the /datacenters collection.
type DataCentersService struct {
	conn *Connection
}

// DataCenters returns the data centers service.
func (c *Connection) DataCenters() *DataCentersService {
	return &DataCentersService{conn: c}
}

// List fetches all data centers.
func (s *DataCentersService) List() ([]DataCenter, error) {
	var dcs []DataCenter
	if err := s.conn.get("/datacenters", nil, &dcs); err != nil {
		return nil, err
	}
	return dcs, nil
}

// ListByName fetches data centers matching the exact name.
func (s *DataCentersService) ListByName(name string) ([]DataCenter, error) {
	var dcs []DataCenter
	if err := s.conn.get("/datacenters", searchByName(name), &dcs); err != nil {
		return nil, err
	}
	return dcs, nil
}

// Add creates a new data center from the supplied representation.
func (s *DataCentersService) Add(dc DataCenter) (*DataCenter, error) {
	var created DataCenter
	if err := s.conn.post("/datacenters", dc, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Remove deletes the data center with the given id.
func (s *DataCentersService) Remove(id string) error {
	return s.conn.delete("/datacenters/" + id)
}

// ClustersService exposes the /clusters collection.
type ClustersService struct {
	conn *Connection
}

// Clusters returns the clusters service.
func (c *Connection) Clusters() *ClustersService {
	return &ClustersService{conn: c}
}

// List fetches all clusters.
func (s *ClustersService) List() ([]Cluster, error) {
	var clusters []Cluster
	if err := s.conn.get("/clusters", nil, &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// HostsService exposes the /hosts collection and the per-host lifecycle
// sub-resources (activate/deactivate).
type HostsService struct {
	conn *Connection
}

// Hosts returns the hosts service.
func (c *Connection) Hosts() *HostsService {
	return &HostsService{conn: c}
}

// List fetches all hosts.
func (s *HostsService) List() ([]Host, error) {
	var hosts []Host
	if err := s.conn.get("/hosts", nil, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// ListByName fetches hosts matching the exact name.
func (s *HostsService) ListByName(name string) ([]Host, error) {
	var hosts []Host
	if err := s.conn.get("/hosts", searchByName(name), &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// Add submits a host for installation. The engine answers immediately with
// the accepted representation; reaching UP is asynchronous and must be
// observed by polling Get.
func (s *HostsService) Add(h Host) (*Host, error) {
	var created Host
	if err := s.conn.post("/hosts", h, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Get fetches the current representation of one host, including its
// engine-side lifecycle status.
func (s *HostsService) Get(id string) (*Host, error) {
	var h Host
	if err := s.conn.get("/hosts/"+id, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Remove deletes the host. The engine rejects removal of hosts that are not
// in maintenance; the shell guards for that before calling.
func (s *HostsService) Remove(id string) error {
	return s.conn.delete("/hosts/" + id)
}

// Activate moves a host out of maintenance.
func (s *HostsService) Activate(id string) error {
	return s.conn.post("/hosts/"+id+"/activate", struct{}{}, nil)
}

// Deactivate moves a host into maintenance.
func (s *HostsService) Deactivate(id string) error {
	return s.conn.post("/hosts/"+id+"/deactivate", struct{}{}, nil)
}

// StorageDomainsService exposes the /storagedomains collection.
type StorageDomainsService struct {
	conn *Connection
}

// StorageDomains returns the storage domains service.
func (c *Connection) StorageDomains() *StorageDomainsService {
	return &StorageDomainsService{conn: c}
}

// List fetches all storage domains.
func (s *StorageDomainsService) List() ([]StorageDomain, error) {
	var sds []StorageDomain
	if err := s.conn.get("/storagedomains", nil, &sds); err != nil {
		return nil, err
	}
	return sds, nil
}

// TemplatesService exposes the /templates collection.
type TemplatesService struct {
	conn *Connection
}

// Templates returns the templates service.
func (c *Connection) Templates() *TemplatesService {
	return &TemplatesService{conn: c}
}

// List fetches all templates.
func (s *TemplatesService) List() ([]Template, error) {
	var templates []Template
	if err := s.conn.get("/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// VMsService exposes the /vms collection.
type VMsService struct {
	conn *Connection
}

// VMs returns the virtual machines service.
func (c *Connection) VMs() *VMsService {
	return &VMsService{conn: c}
}

// List fetches all virtual machines.
func (s *VMsService) List() ([]VM, error) {
	var vms []VM
	if err := s.conn.get("/vms", nil, &vms); err != nil {
		return nil, err
	}
	return vms, nil
}
