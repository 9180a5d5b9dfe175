package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ovirt-tools/ovirtctl/internal/engine"
	"github.com/ovirt-tools/ovirtctl/internal/prefs"
	"github.com/ovirt-tools/ovirtctl/internal/tree"
)

// Minimal fake engine services backing the tree during shell tests.

type fakeSystem struct{ err error }

func (f *fakeSystem) Test() error { return f.err }

type fakeDataCenters struct {
	items       []engine.DataCenter
	removeCalls int
}

func (f *fakeDataCenters) List() ([]engine.DataCenter, error) {
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
	dc.ID = "dc-new"
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
	return errors.New("not found")
}

type fakeClusters struct{ items []engine.Cluster }

func (f *fakeClusters) List() ([]engine.Cluster, error) { return f.items, nil }

type fakeHosts struct{ items []engine.Host }

func (f *fakeHosts) List() ([]engine.Host, error) { return f.items, nil }

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
	h.ID = "host-new"
	h.Status = engine.HostStatusUp
	f.items = append(f.items, h)
	return &h, nil
}

func (f *fakeHosts) Get(id string) (*engine.Host, error) {
	for _, h := range f.items {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeHosts) Remove(id string) error     { return nil }
func (f *fakeHosts) Activate(id string) error   { return nil }
func (f *fakeHosts) Deactivate(id string) error { return nil }

type fakeStorageDomains struct{}

func (f *fakeStorageDomains) List() ([]engine.StorageDomain, error) { return nil, nil }

type fakeTemplates struct{}

func (f *fakeTemplates) List() ([]engine.Template, error) { return nil, nil }

type fakeVMs struct{}

func (f *fakeVMs) List() ([]engine.VM, error) { return nil, nil }

func fakeServices() *tree.Services {
	return &tree.Services{
		System: &fakeSystem{},
		DataCenters: &fakeDataCenters{items: []engine.DataCenter{
			{ID: "dc-1", Name: "Default"},
		}},
		Clusters: &fakeClusters{},
		Hosts: &fakeHosts{items: []engine.Host{
			{ID: "h-1", Name: "host1", Address: "10.0.0.1", Status: engine.HostStatusUp},
		}},
		StorageDomains: &fakeStorageDomains{},
		Templates:      &fakeTemplates{},
		VMs:            &fakeVMs{},
	}
}

// newTestShell builds a connected-capable shell writing into a buffer,
// with the save file pointed at a temp dir.
func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()

	svc := fakeServices()
	root := tree.NewRoot(func(username, password, address string) (*tree.Session, error) {
		return &tree.Session{
			Address:  address,
			Username: username,
			Services: svc,
		}, nil
	})

	p := prefs.Default()
	var out bytes.Buffer
	s, err := New(Options{
		Root:  root,
		Prefs: &p,
		Store: prefs.NewStore(filepath.Join(t.TempDir(), "ovirtlcli.json")),
		Out:   &out,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s, &out
}

func mustExec(t *testing.T, s *Shell, line string) {
	t.Helper()
	if err := s.Execute(line); err != nil {
		t.Fatalf("Execute(%q) failed: %v", line, err)
	}
}

// TestDispatchUnknownCommand tests that bad input surfaces an error
func TestDispatchUnknownCommand(t *testing.T) {
	s, _ := newTestShell(t)
	if err := s.Execute("frobnicate"); err == nil {
		t.Fatal("unknown command should fail")
	}
}

// TestConnectThenLs tests the connect round trip through the shell
func TestConnectThenLs(t *testing.T) {
	s, out := newTestShell(t)
	mustExec(t, s, "connect admin secret engine.example.com")

	if len(s.root.Children()) != 6 {
		t.Fatalf("expected 6 category nodes, got %d", len(s.root.Children()))
	}

	mustExec(t, s, "ls")
	for _, want := range []string{"Datacenters", "Hosts", "host1", "[UP]"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("ls output missing %q:\n%s", want, out.String())
		}
	}
}

// TestCdPwd tests navigation and the pwd command
func TestCdPwd(t *testing.T) {
	s, out := newTestShell(t)
	mustExec(t, s, "connect admin secret engine.example.com")

	mustExec(t, s, "cd Hosts")
	mustExec(t, s, "pwd")
	if got := strings.TrimSpace(out.String()); got != "/Hosts" {
		t.Fatalf("pwd = %q, want /Hosts", got)
	}

	mustExec(t, s, "cd ..")
	if tree.Path(s.Current()) != "/" {
		t.Fatalf("cd .. should return to root, at %s", tree.Path(s.Current()))
	}

	if err := s.Execute("cd nope"); err == nil {
		t.Fatal("cd to a missing path should fail")
	}
}

// TestPathPrefixedCommand tests running a command against another node
// without changing the current directory
func TestPathPrefixedCommand(t *testing.T) {
	s, out := newTestShell(t)
	mustExec(t, s, "connect admin secret engine.example.com")

	mustExec(t, s, "/Hosts status")
	if !strings.Contains(out.String(), "1 hosts (1 UP)") {
		t.Fatalf("status output = %q", out.String())
	}
	if tree.Path(s.Current()) != "/" {
		t.Fatalf("path-prefixed command must not move, at %s", tree.Path(s.Current()))
	}
}

// TestRevalidateAfterDisconnect tests that the current node falls back to
// the root when its path vanishes
func TestRevalidateAfterDisconnect(t *testing.T) {
	s, _ := newTestShell(t)
	mustExec(t, s, "connect admin secret engine.example.com")
	mustExec(t, s, "cd /Hosts/host1")

	mustExec(t, s, "disconnect")
	if tree.Path(s.Current()) != "/" {
		t.Fatalf("after disconnect the shell must stand at the root, at %s", tree.Path(s.Current()))
	}
}

// TestGetSetPreferences tests the preference commands
func TestGetSetPreferences(t *testing.T) {
	s, out := newTestShell(t)

	mustExec(t, s, "set color_mode false")
	mustExec(t, s, "get color_mode")
	if !strings.Contains(out.String(), "color_mode=false") {
		t.Fatalf("get output = %q", out.String())
	}

	out.Reset()
	mustExec(t, s, "get")
	if !strings.Contains(out.String(), "auto_save_on_exit=true") {
		t.Fatalf("bare get should list all preferences, got %q", out.String())
	}

	if err := s.Execute("set color_mode banana"); err == nil {
		t.Fatal("set with a bad bool should fail")
	}
}

// TestCreateAutoCd tests the auto_cd_after_create preference
func TestCreateAutoCd(t *testing.T) {
	s, _ := newTestShell(t)
	mustExec(t, s, "connect admin secret engine.example.com")
	mustExec(t, s, "set auto_cd_after_create true")

	mustExec(t, s, "cd /Datacenters")
	mustExec(t, s, "create dc1")
	if tree.Path(s.Current()) != "/Datacenters/dc1" {
		t.Fatalf("auto cd should land on the new entry, at %s", tree.Path(s.Current()))
	}
}

// TestCreateKeyValueArgs tests key=value parameter form
func TestCreateKeyValueArgs(t *testing.T) {
	s, _ := newTestShell(t)
	mustExec(t, s, "connect admin secret engine.example.com")

	mustExec(t, s, "/Datacenters create name=lab description=test local=true")
	if n := tree.Child(tree.Child(s.root, "Datacenters"), "lab"); n == nil {
		t.Fatal("created data center should be visible in the tree")
	}
}

// TestCreateWrongNode tests that create is rejected off-collection
func TestCreateWrongNode(t *testing.T) {
	s, _ := newTestShell(t)
	if err := s.Execute("create x"); err == nil {
		t.Fatal("create at the root should fail")
	}
}

// TestDeleteEntry tests argument-free delete on an entry node
func TestDeleteEntry(t *testing.T) {
	s, _ := newTestShell(t)
	mustExec(t, s, "connect admin secret engine.example.com")

	mustExec(t, s, "/Datacenters/Default delete")
	if n := tree.Child(tree.Child(s.root, "Datacenters"), "Default"); n != nil {
		t.Fatal("deleted entry should be gone after refresh")
	}
}

// TestSaveRestoreConfigCommands tests the config commands round trip
func TestSaveRestoreConfigCommands(t *testing.T) {
	s, _ := newTestShell(t)
	mustExec(t, s, "set username admin")
	mustExec(t, s, "saveconfig")

	mustExec(t, s, "set username other")
	mustExec(t, s, "restoreconfig")
	if s.prefs.Username != "admin" {
		t.Fatalf("restore should bring back the saved username, got %q", s.prefs.Username)
	}
}

// TestRestoreConfigPartialFile tests that restoring a file missing some
// settings keeps the current values unless clear_existing is given
func TestRestoreConfigPartialFile(t *testing.T) {
	s, _ := newTestShell(t)
	partial := []byte(`{"prefs":{"username":"bob"}}` + "\n")
	if err := os.WriteFile(s.store.DefaultPath(), partial, 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	mustExec(t, s, "set auto_cd_after_create true")
	mustExec(t, s, "restoreconfig")
	if s.prefs.Username != "bob" {
		t.Fatalf("username = %q, want bob", s.prefs.Username)
	}
	if !s.prefs.AutoSaveOnExit || !s.prefs.ColorMode || !s.prefs.AutoCDAfterCreate {
		t.Fatalf("settings absent from the file must keep current values, got %+v", *s.prefs)
	}

	// clear_existing discards the current values and restores over the
	// defaults instead.
	mustExec(t, s, "restoreconfig "+s.store.DefaultPath()+" true")
	want := prefs.Default()
	want.Username = "bob"
	if *s.prefs != want {
		t.Fatalf("clear_existing restore = %+v, want %+v", *s.prefs, want)
	}
}

// TestExitCommand tests the exit sentinel
func TestExitCommand(t *testing.T) {
	s, _ := newTestShell(t)
	if err := s.Execute("exit"); !errors.Is(err, errExit) {
		t.Fatalf("exit should return the exit sentinel, got %v", err)
	}
}

// TestCloseAutoSave tests disconnect-and-save on shell shutdown
func TestCloseAutoSave(t *testing.T) {
	s, _ := newTestShell(t)
	mustExec(t, s, "connect admin secret engine.example.com")

	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if s.root.Session() != nil {
		t.Fatal("Close() must disconnect")
	}

	cfg, _, err := s.store.Restore("")
	if err != nil {
		t.Fatalf("auto-saved config should be restorable: %v", err)
	}
	if cfg.Address != "engine.example.com" || cfg.Username != "admin" {
		t.Fatalf("saved config = %+v", cfg)
	}
}

// TestHelpListsCommands tests the help overview
func TestHelpListsCommands(t *testing.T) {
	s, out := newTestShell(t)
	mustExec(t, s, "help")
	for _, want := range []string{"connect", "saveconfig", "activate"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("help output missing %q", want)
		}
	}

	out.Reset()
	mustExec(t, s, "help create")
	if !strings.Contains(out.String(), "key=value") {
		t.Fatalf("detailed help missing, got %q", out.String())
	}
}

// TestVersionCommand tests the version output
func TestVersionCommand(t *testing.T) {
	s, out := newTestShell(t)
	mustExec(t, s, "version")
	if !strings.Contains(out.String(), "ovirtctl version") {
		t.Fatalf("version output = %q", out.String())
	}
}
