// Package enginemock provides an in-process mock of the engine REST API.
//
// The mock implements exactly the subset of the engine API that the client
// in internal/engine consumes: product info at the API root, per-category
// list endpoints with the name=<value> search filter, host add/remove and
// the activate/deactivate lifecycle actions. Host provisioning is simulated:
// newly added hosts report "installing" for a configurable number of status
// fetches before settling into a terminal state, which is what the shell's
// add-host polling loop exercises.
//
// It backs both the client integration tests and the `ovirtctl mock-engine`
// development command, so the shell can be driven end to end without a real
// engine deployment.
package enginemock

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/ovirt-tools/ovirtctl/internal/engine"
	"github.com/ovirt-tools/ovirtctl/internal/logging"
)

// Options configures the simulated engine behavior.
type Options struct {
	// ProvisionPolls is how many status fetches a newly added host reports
	// "installing" before settling. Zero means the host is up immediately.
	ProvisionPolls int

	// ProvisionResult is the terminal status of a simulated installation.
	// Empty means HostStatusUp.
	ProvisionResult engine.HostStatus

	// Username/Password, when set, are required as basic auth on every call.
	Username string
	Password string
}

// Server is the in-memory mock engine.
type Server struct {
	mu   sync.Mutex
	opts Options

	nextID      int
	datacenters []engine.DataCenter
	clusters    []engine.Cluster
	hosts       []engine.Host
	domains     []engine.StorageDomain
	templates   []engine.Template
	vms         []engine.VM

	// remaining "installing" polls per host id
	provisioning map[string]int
}

// New creates an empty mock engine.
func New(opts Options) *Server {
	if opts.ProvisionResult == "" {
		opts.ProvisionResult = engine.HostStatusUp
	}
	return &Server{
		opts:         opts,
		provisioning: make(map[string]int),
	}
}

// Seed installs a small default inventory: one data center, one cluster,
// one up host, one storage domain, one template and two VMs. Used by the
// mock-engine command so a freshly started mock has something to show.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datacenters = append(s.datacenters, engine.DataCenter{
		ID: s.newID(), Name: "Default", Description: "The default Data Center", Local: false, Status: "up",
	})
	s.clusters = append(s.clusters, engine.Cluster{
		ID: s.newID(), Name: "Default", Description: "The default server cluster",
		CPU: engine.CPU{Type: "Intel Cascadelake Server Family"},
	})
	s.hosts = append(s.hosts, engine.Host{
		ID: s.newID(), Name: "host1", Address: "192.168.1.10",
		Status: engine.HostStatusUp, Cluster: &engine.ClusterRef{Name: "Default"},
	})
	s.domains = append(s.domains, engine.StorageDomain{
		ID: s.newID(), Name: "data", Type: "nfs", Status: "active",
		Available: 500 << 30, Used: 120 << 30,
	})
	s.templates = append(s.templates, engine.Template{
		ID: s.newID(), Name: "Blank", Description: "Blank template",
	})
	s.vms = append(s.vms,
		engine.VM{ID: s.newID(), Name: "web-01", Status: "up"},
		engine.VM{ID: s.newID(), Name: "db-01", Status: "down"},
	)
}

// newID mints an opaque identifier. Callers must hold s.mu.
func (s *Server) newID() string {
	s.nextID++
	return fmt.Sprintf("mock-%04d", s.nextID)
}

// Handler builds the gin router implementing the consumed API subset under
// the engine's base path.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	if s.opts.Username != "" {
		router.Use(s.authMiddleware())
	}

	api := router.Group("/ovirt-engine/api")
	api.GET("", s.handleRoot)
	api.GET("/", s.handleRoot)

	api.GET("/datacenters", s.handleDataCenterList)
	api.POST("/datacenters", s.handleDataCenterAdd)
	api.DELETE("/datacenters/:id", s.handleDataCenterRemove)

	api.GET("/clusters", s.handleClusterList)

	api.GET("/hosts", s.handleHostList)
	api.POST("/hosts", s.handleHostAdd)
	api.GET("/hosts/:id", s.handleHostGet)
	api.DELETE("/hosts/:id", s.handleHostRemove)
	api.POST("/hosts/:id/activate", s.handleHostActivate)
	api.POST("/hosts/:id/deactivate", s.handleHostDeactivate)

	api.GET("/storagedomains", s.handleStorageDomainList)
	api.GET("/templates", s.handleTemplateList)
	api.GET("/vms", s.handleVMList)

	return router
}

// Run serves the mock engine over TLS on addr with a self-signed
// certificate, matching the insecure-by-default transport the CLI uses.
// Blocks until the listener fails.
func (s *Server) Run(addr string) error {
	cert, err := selfSignedCert()
	if err != nil {
		return fmt.Errorf("failed to generate mock certificate: %w", err)
	}

	srv := &http.Server{
		Addr:      addr,
		Handler:   s.Handler(),
		TLSConfig: tlsConfigWith(cert),
	}

	logging.Info("Mock engine listening on https://%s/ovirt-engine/api", addr)
	return srv.ListenAndServeTLS("", "")
}

// authMiddleware enforces the configured basic auth credentials.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != s.opts.Username || pass != s.opts.Password {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "access denied"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, engine.ProductInfo{Name: "oVirt Engine", Version: "4.5.0-mock"})
}

// searchName extracts the exact name from a "name=<value>" search query.
// Returns "" when no name filter is present.
func searchName(c *gin.Context) string {
	search := c.Query("search")
	if after, ok := strings.CutPrefix(search, "name="); ok {
		return after
	}
	return ""
}

func (s *Server) handleDataCenterList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]engine.DataCenter, 0, len(s.datacenters))
	name := searchName(c)
	for _, dc := range s.datacenters {
		if name == "" || dc.Name == name {
			out = append(out, dc)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDataCenterAdd(c *gin.Context) {
	var dc engine.DataCenter
	if err := c.ShouldBindJSON(&dc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if dc.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.datacenters {
		if existing.Name == dc.Name {
			c.JSON(http.StatusConflict, gin.H{"detail": "data center name already in use"})
			return
		}
	}
	dc.ID = s.newID()
	dc.Status = "up"
	s.datacenters = append(s.datacenters, dc)
	c.JSON(http.StatusCreated, dc)
}

func (s *Server) handleDataCenterRemove(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	for i, dc := range s.datacenters {
		if dc.ID == id {
			s.datacenters = append(s.datacenters[:i], s.datacenters[i+1:]...)
			c.Status(http.StatusOK)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "data center not found"})
}

func (s *Server) handleClusterList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, append([]engine.Cluster{}, s.clusters...))
}

func (s *Server) handleHostList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]engine.Host, 0, len(s.hosts))
	name := searchName(c)
	for _, h := range s.hosts {
		if name == "" || h.Name == name {
			h.RootPassword = ""
			out = append(out, h)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleHostAdd(c *gin.Context) {
	var h engine.Host
	if err := c.ShouldBindJSON(&h); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if h.Name == "" || h.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "name and address are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.hosts {
		if existing.Name == h.Name {
			c.JSON(http.StatusConflict, gin.H{"detail": "host name already in use"})
			return
		}
	}

	h.ID = s.newID()
	h.RootPassword = ""
	if s.opts.ProvisionPolls > 0 {
		h.Status = engine.HostStatusInstalling
		s.provisioning[h.ID] = s.opts.ProvisionPolls
	} else {
		h.Status = s.opts.ProvisionResult
	}
	s.hosts = append(s.hosts, h)
	c.JSON(http.StatusCreated, h)
}

// findHost returns the index of the host with the given id, or -1.
// Callers must hold s.mu.
func (s *Server) findHost(id string) int {
	for i, h := range s.hosts {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) handleHostGet(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findHost(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "host not found"})
		return
	}

	// Tick the simulated installation forward one poll.
	h := &s.hosts[i]
	if left, ok := s.provisioning[h.ID]; ok {
		if left <= 1 {
			h.Status = s.opts.ProvisionResult
			delete(s.provisioning, h.ID)
		} else {
			s.provisioning[h.ID] = left - 1
		}
	}

	out := *h
	out.RootPassword = ""
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleHostRemove(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findHost(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "host not found"})
		return
	}
	if s.hosts[i].Status != engine.HostStatusMaintenance {
		c.JSON(http.StatusConflict, gin.H{"detail": "host must be in maintenance before removal"})
		return
	}
	s.hosts = append(s.hosts[:i], s.hosts[i+1:]...)
	c.Status(http.StatusOK)
}

func (s *Server) handleHostActivate(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findHost(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "host not found"})
		return
	}
	s.hosts[i].Status = engine.HostStatusUp
	c.Status(http.StatusOK)
}

func (s *Server) handleHostDeactivate(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findHost(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "host not found"})
		return
	}
	s.hosts[i].Status = engine.HostStatusMaintenance
	c.Status(http.StatusOK)
}

func (s *Server) handleStorageDomainList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, append([]engine.StorageDomain{}, s.domains...))
}

func (s *Server) handleTemplateList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, append([]engine.Template{}, s.templates...))
}

func (s *Server) handleVMList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, append([]engine.VM{}, s.vms...))
}
