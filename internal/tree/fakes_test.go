package tree

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ovirt-tools/ovirtctl/internal/engine"
	"github.com/ovirt-tools/ovirtctl/internal/logging"
)

// Fake collaborator services with call counters, standing in for the
// engine client. Each fake serves from an in-memory slice and records how
// many times each operation ran so tests can assert on exact call counts.

type fakeSystem struct {
	testErr   error
	testCalls int
}

func (f *fakeSystem) Test() error {
	f.testCalls++
	return f.testErr
}

type fakeDataCenters struct {
	items       []engine.DataCenter
	listCalls   int
	addCalls    int
	removeCalls int
}

func (f *fakeDataCenters) List() ([]engine.DataCenter, error) {
	f.listCalls++
	return append([]engine.DataCenter{}, f.items...), nil
}

func (f *fakeDataCenters) ListByName(name string) ([]engine.DataCenter, error) {
	var out []engine.DataCenter
	for _, dc := range f.items {
		if dc.Name == name {
			out = append(out, dc)
		}
	}
	return out, nil
}

func (f *fakeDataCenters) Add(dc engine.DataCenter) (*engine.DataCenter, error) {
	f.addCalls++
	dc.ID = fmt.Sprintf("dc-%d", len(f.items)+1)
	f.items = append(f.items, dc)
	return &dc, nil
}

func (f *fakeDataCenters) Remove(id string) error {
	f.removeCalls++
	for i, dc := range f.items {
		if dc.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("data center %s not found", id)
}

type fakeClusters struct {
	items []engine.Cluster
}

func (f *fakeClusters) List() ([]engine.Cluster, error) {
	return append([]engine.Cluster{}, f.items...), nil
}

type fakeStorageDomains struct {
	items []engine.StorageDomain
}

func (f *fakeStorageDomains) List() ([]engine.StorageDomain, error) {
	return append([]engine.StorageDomain{}, f.items...), nil
}

type fakeTemplates struct {
	items []engine.Template
}

func (f *fakeTemplates) List() ([]engine.Template, error) {
	return append([]engine.Template{}, f.items...), nil
}

type fakeVMs struct {
	items []engine.VM
}

func (f *fakeVMs) List() ([]engine.VM, error) {
	return append([]engine.VM{}, f.items...), nil
}

// fakeHosts scripts the status sequence observed by Get, which is what the
// add-host polling loop consumes.
type fakeHosts struct {
	items []engine.Host

	// statusScript, when non-empty, is consumed one entry per Get call;
	// the last entry repeats once exhausted.
	statusScript []engine.HostStatus

	listCalls       int
	addCalls        int
	getCalls        int
	removeCalls     int
	activateCalls   int
	deactivateCalls int
}

func (f *fakeHosts) List() ([]engine.Host, error) {
	f.listCalls++
	return append([]engine.Host{}, f.items...), nil
}

func (f *fakeHosts) ListByName(name string) ([]engine.Host, error) {
	var out []engine.Host
	for _, h := range f.items {
		if h.Name == name {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHosts) Add(h engine.Host) (*engine.Host, error) {
	f.addCalls++
	h.ID = fmt.Sprintf("host-%d", len(f.items)+1)
	h.Status = engine.HostStatusInstalling
	f.items = append(f.items, h)
	return &h, nil
}

func (f *fakeHosts) Get(id string) (*engine.Host, error) {
	f.getCalls++
	for i := range f.items {
		if f.items[i].ID == id {
			if len(f.statusScript) > 0 {
				idx := f.getCalls - 1
				if idx >= len(f.statusScript) {
					idx = len(f.statusScript) - 1
				}
				f.items[i].Status = f.statusScript[idx]
			}
			h := f.items[i]
			return &h, nil
		}
	}
	return nil, fmt.Errorf("host %s not found", id)
}

func (f *fakeHosts) Remove(id string) error {
	f.removeCalls++
	for i, h := range f.items {
		if h.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("host %s not found", id)
}

func (f *fakeHosts) Activate(id string) error {
	f.activateCalls++
	return nil
}

func (f *fakeHosts) Deactivate(id string) error {
	f.deactivateCalls++
	return nil
}

// fakeServices bundles fresh fakes into a Services value.
func fakeServices() (*Services, *fakeHosts, *fakeDataCenters) {
	hosts := &fakeHosts{}
	dcs := &fakeDataCenters{}
	svc := &Services{
		System:         &fakeSystem{},
		DataCenters:    dcs,
		Clusters:       &fakeClusters{},
		Hosts:          hosts,
		StorageDomains: &fakeStorageDomains{},
		Templates:      &fakeTemplates{},
		VMs:            &fakeVMs{},
	}
	return svc, hosts, dcs
}

// hostFixture builds an up host for seeding fakes.
func hostFixture(name string) engine.Host {
	return engine.Host{
		ID:      "id-" + name,
		Name:    name,
		Address: "10.0.0.1",
		Status:  engine.HostStatusUp,
	}
}

// captureLog runs fn with log output redirected to a buffer and returns
// everything that was logged.
func captureLog(fn func()) string {
	var buf bytes.Buffer
	logging.SetWriter(&buf)
	defer logging.SetWriter(os.Stderr)
	fn()
	return strings.TrimSpace(buf.String())
}
