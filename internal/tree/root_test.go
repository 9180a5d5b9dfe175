package tree

import (
	"fmt"
	"strings"
	"testing"
)

// dialTo builds a DialFunc that hands out sessions over the given services.
func dialTo(svc *Services) DialFunc {
	return func(username, password, address string) (*Session, error) {
		return &Session{
			Address:  address,
			Username: username,
			Services: svc,
		}, nil
	}
}

// TestConnectPopulatesCategories tests that connect then refresh yields
// exactly the six top-level category nodes
func TestConnectPopulatesCategories(t *testing.T) {
	svc, _, _ := fakeServices()
	root := NewRoot(dialTo(svc))

	if err := root.Connect("admin", "secret", "engine.example.com"); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}

	want := []string{"Datacenters", "Clusters", "Hosts", "Storagedomains", "Templates", "VMs"}
	children := root.Children()
	if len(children) != len(want) {
		t.Fatalf("expected %d category nodes, got %d", len(want), len(children))
	}
	for i, name := range want {
		if children[i].Name() != name {
			t.Fatalf("category %d = %q, want %q", i, children[i].Name(), name)
		}
	}

	desc, ok := root.Summary()
	if !strings.Contains(desc, "engine.example.com") || ok == nil || !*ok {
		t.Fatalf("root summary after connect = %q (%v), want healthy connected state", desc, ok)
	}
}

// TestConnectWhileConnected tests that a second connect refuses without
// touching the existing session
func TestConnectWhileConnected(t *testing.T) {
	svc, _, _ := fakeServices()
	root := NewRoot(dialTo(svc))

	if err := root.Connect("admin", "secret", "engine1"); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	first := root.Session()

	output := captureLog(func() {
		if err := root.Connect("admin", "secret", "engine2"); err != nil {
			t.Fatalf("second Connect() must not raise, got: %v", err)
		}
	})

	if root.Session() != first {
		t.Fatal("second connect must not replace the existing session")
	}
	if !strings.Contains(output, "Already connected") {
		t.Fatalf("expected already-connected message, got %q", output)
	}
}

// TestConnectUnverified tests the lenient policy on a failed connection
// test: the handle is kept, marked unverified, and the tree is not built
func TestConnectUnverified(t *testing.T) {
	svc, _, _ := fakeServices()
	svc.System = &fakeSystem{testErr: fmt.Errorf("certificate rejected")}
	root := NewRoot(dialTo(svc))

	output := captureLog(func() {
		if err := root.Connect("admin", "secret", "engine.example.com"); err != nil {
			t.Fatalf("Connect() must not raise on test failure, got: %v", err)
		}
	})

	sess := root.Session()
	if sess == nil {
		t.Fatal("session must be kept after a failed connection test")
	}
	if sess.Verified {
		t.Fatal("session must be marked unverified")
	}
	if len(root.Children()) != 0 {
		t.Fatalf("tree must not be built from an unverified session, got %d children", len(root.Children()))
	}
	if !strings.Contains(output, "Failed to test connection") {
		t.Fatalf("expected warning about the failed test, got %q", output)
	}

	desc, ok := root.Summary()
	if !strings.Contains(desc, "unverified") || ok == nil || *ok {
		t.Fatalf("root summary = %q (%v), want unverified unhealthy state", desc, ok)
	}
}

// TestDisconnectIdempotent tests that repeated disconnects only log and
// never mutate tree state
func TestDisconnectIdempotent(t *testing.T) {
	svc, _, _ := fakeServices()
	root := NewRoot(dialTo(svc))

	if err := root.Connect("admin", "secret", "engine"); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if err := root.Disconnect(); err != nil {
		t.Fatalf("Disconnect() failed: %v", err)
	}
	if len(root.Children()) != 0 {
		t.Fatalf("disconnect must empty the tree, got %d children", len(root.Children()))
	}

	for i := 0; i < 3; i++ {
		output := captureLog(func() {
			if err := root.Disconnect(); err != nil {
				t.Fatalf("repeat Disconnect() #%d raised: %v", i+1, err)
			}
		})
		if !strings.Contains(output, "Already disconnected") {
			t.Fatalf("expected already-disconnected message, got %q", output)
		}
		if root.Session() != nil || len(root.Children()) != 0 {
			t.Fatal("repeat disconnect must not mutate state")
		}
	}
}

// TestRefreshWithoutSession tests that refresh with no session yields zero
// resource children
func TestRefreshWithoutSession(t *testing.T) {
	root := NewRoot(dialTo(nil))
	if err := root.Refresh(); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	if len(root.Children()) != 0 {
		t.Fatalf("disconnected refresh must yield no children, got %d", len(root.Children()))
	}

	desc, ok := root.Summary()
	if desc != "disconnected" || ok != nil {
		t.Fatalf("root summary = %q (%v), want plain disconnected", desc, ok)
	}
}

// TestPathAndResolve tests path rendering and navigation over a live tree
func TestPathAndResolve(t *testing.T) {
	svc, hosts, _ := fakeServices()
	hosts.items = append(hosts.items, hostFixture("node1"))
	root := NewRoot(dialTo(svc))
	if err := root.Connect("admin", "secret", "engine"); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}

	hostsNode, ok := Resolve(root, "/Hosts")
	if !ok {
		t.Fatal("Resolve(/Hosts) failed")
	}
	if Path(hostsNode) != "/Hosts" {
		t.Fatalf("Path = %q, want /Hosts", Path(hostsNode))
	}

	entry, ok := Resolve(hostsNode, "node1")
	if !ok {
		t.Fatal("Resolve(node1) from /Hosts failed")
	}
	if Path(entry) != "/Hosts/node1" {
		t.Fatalf("Path = %q, want /Hosts/node1", Path(entry))
	}

	back, ok := Resolve(entry, "../..")
	if !ok || back != Node(root) {
		t.Fatalf("Resolve(../..) should land on root, got %v", back)
	}

	if _, ok := Resolve(root, "/Nope"); ok {
		t.Fatal("Resolve of unknown path should fail")
	}
}
