// Package engine provides the HTTPS API client for the virtualization
// management engine.
//
// This package implements the complete HTTP client layer for talking to the
// engine REST API at https://<address>/ovirt-engine/api. It handles
// authentication, TLS configuration (including the insecure no-verify mode
// the tool defaults to), request/response serialization, retry on connection
// errors, and structured debug logging of every API exchange.
//
// The resource types mirror the engine's JSON representations. They are
// read-only snapshots on the shell side: mutating an object never happens by
// editing a local struct, only by issuing the corresponding service call and
// re-fetching.
package engine

// HostStatus is the engine-governed lifecycle state of a host. The shell
// never assumes a transition completed without observing the new status via
// a fresh fetch.
type HostStatus string

const (
	HostStatusUp             HostStatus = "up"
	HostStatusMaintenance    HostStatus = "maintenance"
	HostStatusNonOperational HostStatus = "non_operational"
	HostStatusInstalling     HostStatus = "installing"
)

// DataCenter is a top-level grouping of clusters and storage.
type DataCenter struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Local       bool   `json:"local"`
	Status      string `json:"status,omitempty"`
}

// CPU describes the CPU profile shared by all hosts in a cluster.
type CPU struct {
	Type string `json:"type,omitempty"`
}

// ClusterRef references a cluster by name when building create requests;
// the engine resolves the name server-side.
type ClusterRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Cluster is a group of hosts sharing a CPU profile and scheduling policy.
type Cluster struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CPU         CPU    `json:"cpu,omitempty"`
}

// Host is a hypervisor managed by the engine. RootPassword is only ever set
// on create requests; the engine never returns it.
type Host struct {
	ID           string      `json:"id,omitempty"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Address      string      `json:"address,omitempty"`
	RootPassword string      `json:"root_password,omitempty"`
	Status       HostStatus  `json:"status,omitempty"`
	Cluster      *ClusterRef `json:"cluster,omitempty"`
}

// StorageDomain is a storage backend attached to a data center.
type StorageDomain struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status,omitempty"`
	Available uint64 `json:"available,omitempty"`
	Used      uint64 `json:"used,omitempty"`
}

// Template is a VM template.
type Template struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// VM is a virtual machine.
type VM struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// ProductInfo identifies the engine; returned by the API root and used as
// the lightweight connection test after connect.
type ProductInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
