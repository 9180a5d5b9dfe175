package tree

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/ovirt-tools/ovirtctl/internal/engine"
	"github.com/ovirt-tools/ovirtctl/internal/logging"
	"github.com/ovirt-tools/ovirtctl/internal/validate"
)

// Collection nodes follow one pattern: Refresh clears the children and
// rebuilds one entry per object the engine returned, lookups are exact-name
// searches that log and abort on zero matches, and every successful
// mutation ends in a local Refresh so the change is immediately visible
// (read-your-writes by re-fetch, never by optimistic local insert).

// DataCenters is the data centers collection node.
type DataCenters struct {
	base
	svc DataCenterService
}

func newDataCenters(parent Node, svc DataCenterService) *DataCenters {
	return &DataCenters{base: base{name: "Datacenters", parent: parent}, svc: svc}
}

// Refresh rebuilds the entry nodes from a full list fetch.
func (c *DataCenters) Refresh() error {
	dcs, err := c.svc.List()
	if err != nil {
		return err
	}
	children := make([]Node, 0, len(dcs))
	for _, dc := range dcs {
		children = append(children, &DataCenterEntry{
			base: base{name: dc.Name, parent: c},
			dc:   dc,
			coll: c,
		})
	}
	c.setChildren(children)
	return nil
}

// Summary reports the count from the current snapshot.
func (c *DataCenters) Summary() (string, *bool) {
	return fmt.Sprintf("Data Centers: %d", len(c.children)), nil
}

type dataCenterParams struct {
	Name string `validate:"required"`
}

// Create builds a new data center. Validation beyond what is structurally
// required to issue the request is left to the engine.
func (c *DataCenters) Create(name, description string, local bool) error {
	if err := validate.Struct(dataCenterParams{Name: name}); err != nil {
		return err
	}
	if _, err := c.svc.Add(engine.DataCenter{
		Name:        name,
		Description: description,
		Local:       local,
	}); err != nil {
		return err
	}
	logging.Success("Created data center '%s'.", name)
	return c.Refresh()
}

// Delete removes the data center with the given name. A missed lookup is
// logged and aborts without any mutation.
func (c *DataCenters) Delete(name string) error {
	dcs, err := c.svc.ListByName(name)
	if err != nil {
		return err
	}
	if len(dcs) == 0 {
		logging.Info("Data center %s not found. Check spelling.", name)
		return nil
	}
	if err := c.svc.Remove(dcs[0].ID); err != nil {
		return err
	}
	logging.Success("Deleted data center '%s'.", name)
	return c.Refresh()
}

// DataCenterEntry is a single data center node.
type DataCenterEntry struct {
	base
	dc   engine.DataCenter
	coll *DataCenters
}

func (e *DataCenterEntry) Refresh() error { return nil }

func (e *DataCenterEntry) Summary() (string, *bool) {
	return fmt.Sprintf("Data Center: %s", e.dc.Name), nil
}

// Delete delegates to the parent collection's name-keyed delete.
func (e *DataCenterEntry) Delete() error {
	return e.coll.Delete(e.dc.Name)
}

// Clusters is the clusters collection node.
type Clusters struct {
	base
	svc ClusterService
}

func newClusters(parent Node, svc ClusterService) *Clusters {
	return &Clusters{base: base{name: "Clusters", parent: parent}, svc: svc}
}

func (c *Clusters) Refresh() error {
	clusters, err := c.svc.List()
	if err != nil {
		return err
	}
	children := make([]Node, 0, len(clusters))
	for _, cluster := range clusters {
		children = append(children, &ClusterEntry{
			base:    base{name: cluster.Name, parent: c},
			cluster: cluster,
		})
	}
	c.setChildren(children)
	return nil
}

func (c *Clusters) Summary() (string, *bool) {
	return fmt.Sprintf("Clusters: %d", len(c.children)), nil
}

// ClusterEntry is a single cluster node.
type ClusterEntry struct {
	base
	cluster engine.Cluster
}

func (e *ClusterEntry) Refresh() error { return nil }

func (e *ClusterEntry) Summary() (string, *bool) {
	return fmt.Sprintf("CPU: %s", e.cluster.CPU.Type), nil
}

// StorageDomains is the storage domains collection node.
type StorageDomains struct {
	base
	svc StorageDomainService
}

func newStorageDomains(parent Node, svc StorageDomainService) *StorageDomains {
	return &StorageDomains{base: base{name: "Storagedomains", parent: parent}, svc: svc}
}

func (c *StorageDomains) Refresh() error {
	sds, err := c.svc.List()
	if err != nil {
		return err
	}
	children := make([]Node, 0, len(sds))
	for _, sd := range sds {
		children = append(children, &StorageDomainEntry{
			base: base{name: sd.Name, parent: c},
			sd:   sd,
		})
	}
	c.setChildren(children)
	return nil
}

func (c *StorageDomains) Summary() (string, *bool) {
	return fmt.Sprintf("Storage Domains: %d", len(c.children)), nil
}

// StorageDomainEntry is a single storage domain node.
type StorageDomainEntry struct {
	base
	sd engine.StorageDomain
}

func (e *StorageDomainEntry) Refresh() error { return nil }

func (e *StorageDomainEntry) Summary() (string, *bool) {
	desc := fmt.Sprintf("type: %s, status: %s", e.sd.Type, e.sd.Status)
	if total := e.sd.Available + e.sd.Used; total > 0 {
		desc += fmt.Sprintf(", %s free of %s",
			humanize.IBytes(e.sd.Available), humanize.IBytes(total))
	}
	return desc, healthy(e.sd.Status == "active")
}

// Templates is the templates collection node.
type Templates struct {
	base
	svc TemplateService
}

func newTemplates(parent Node, svc TemplateService) *Templates {
	return &Templates{base: base{name: "Templates", parent: parent}, svc: svc}
}

func (c *Templates) Refresh() error {
	templates, err := c.svc.List()
	if err != nil {
		return err
	}
	children := make([]Node, 0, len(templates))
	for _, template := range templates {
		children = append(children, &TemplateEntry{
			base:     base{name: template.Name, parent: c},
			template: template,
		})
	}
	c.setChildren(children)
	return nil
}

func (c *Templates) Summary() (string, *bool) {
	return fmt.Sprintf("Templates: %d", len(c.children)), nil
}

// TemplateEntry is a single template node.
type TemplateEntry struct {
	base
	template engine.Template
}

func (e *TemplateEntry) Refresh() error { return nil }

func (e *TemplateEntry) Summary() (string, *bool) {
	return e.template.Name, nil
}

// VMs is the virtual machines collection node.
type VMs struct {
	base
	svc VMService
}

func newVMs(parent Node, svc VMService) *VMs {
	return &VMs{base: base{name: "VMs", parent: parent}, svc: svc}
}

func (c *VMs) Refresh() error {
	vms, err := c.svc.List()
	if err != nil {
		return err
	}
	children := make([]Node, 0, len(vms))
	for _, vm := range vms {
		children = append(children, &VMEntry{
			base: base{name: vm.Name, parent: c},
			vm:   vm,
		})
	}
	c.setChildren(children)
	return nil
}

func (c *VMs) Summary() (string, *bool) {
	return fmt.Sprintf("Virtual Machines: %d", len(c.children)), nil
}

// VMEntry is a single virtual machine node.
type VMEntry struct {
	base
	vm engine.VM
}

func (e *VMEntry) Refresh() error { return nil }

func (e *VMEntry) Summary() (string, *bool) {
	if e.vm.Status == "" {
		return e.vm.Name, nil
	}
	return fmt.Sprintf("status: %s", e.vm.Status), healthy(e.vm.Status == "up")
}
