package web_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DPlauder/meisterplan/internal/domain"
)

// fakeGateway is an in-memory stand-in for the REST gateway. It records the
// raw request bodies it receives so tests can check what was sent.
type fakeGateway struct {
	mu        sync.Mutex
	customers []domain.BusinessCustomer
	products  []domain.Product
	inventory []domain.InventoryItem
	nextID    int

	bodies   map[string][]map[string]any // "METHOD path" -> decoded bodies
	auth     []string
	deleted  []string
	failList string // non-empty: list endpoints answer 500 with this message
	// failCreate, when set, makes customer creation answer 409 with it.
	failCreate string
	// deleteBody, when set, is written instead of the default delete reply.
	deleteBody string
}

func newFakeGateway(t *testing.T) (*fakeGateway, *httptest.Server) {
	t.Helper()
	g := &fakeGateway{bodies: make(map[string][]map[string]any)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", g.handleLogin)
	mux.HandleFunc("GET /business-customers", g.handleListCustomers)
	mux.HandleFunc("POST /business-customers", g.handleCreateCustomer)
	mux.HandleFunc("GET /business-customers/{id}", g.handleGetCustomer)
	mux.HandleFunc("PUT /business-customers/{id}", g.handleUpdateCustomer)
	mux.HandleFunc("DELETE /business-customers/{id}", g.handleDelete)
	mux.HandleFunc("GET /products", g.handleListProducts)
	mux.HandleFunc("POST /products", g.handleCreateProduct)
	mux.HandleFunc("DELETE /products/{id}", g.handleDelete)
	mux.HandleFunc("GET /inventory", g.handleListInventory)
	mux.HandleFunc("POST /inventory", g.handleCreateInventory)
	mux.HandleFunc("DELETE /inventory/{id}", g.handleDelete)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.auth = append(g.auth, r.Header.Get("Authorization"))
		g.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return g, srv
}

func (g *fakeGateway) record(r *http.Request, body map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := r.Method + " " + r.URL.Path
	g.bodies[key] = append(g.bodies[key], body)
}

// with runs fn under the fake's lock, for seeding and configuring it.
func (g *fakeGateway) with(fn func(g *fakeGateway)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g)
}

func (g *fakeGateway) deletedPaths() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.deleted...)
}

func (g *fakeGateway) received(key string) []map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bodies[key]
}

func (g *fakeGateway) lastAuth() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.auth) == 0 {
		return ""
	}
	return g.auth[len(g.auth)-1]
}

func (g *fakeGateway) id() string {
	g.nextID++
	return fmt.Sprintf("id-%d", g.nextID)
}

// decode returns the body as a generic map and also decodes it into out.
func decode(w http.ResponseWriter, r *http.Request, out any) (map[string]any, bool) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad json"})
		return nil, false
	}
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	if err := json.Unmarshal(raw, out); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad json"})
		return nil, false
	}
	return m, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (g *fakeGateway) listFailure(w http.ResponseWriter) bool {
	g.mu.Lock()
	msg := g.failList
	g.mu.Unlock()
	if msg == "" {
		return false
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": msg})
	return true
}

func (g *fakeGateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if _, ok := decode(w, r, &in); !ok {
		return
	}
	if in.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": "opaque-token"})
}

func (g *fakeGateway) handleListCustomers(w http.ResponseWriter, _ *http.Request) {
	if g.listFailure(w) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	writeJSON(w, http.StatusOK, g.customers)
}

func (g *fakeGateway) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.BusinessCustomer
	raw, ok := decode(w, r, &c)
	if !ok {
		return
	}
	g.record(r, raw)

	g.mu.Lock()
	if g.failCreate != "" {
		msg := g.failCreate
		g.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"message": msg})
		return
	}
	c.ID = g.id()
	g.customers = append(g.customers, c)
	g.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (g *fakeGateway) findCustomer(id string) int {
	for i, c := range g.customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (g *fakeGateway) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.findCustomer(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Customer not found"})
		return
	}
	writeJSON(w, http.StatusOK, g.customers[i])
}

func (g *fakeGateway) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var p domain.CustomerPatch
	raw, ok := decode(w, r, &p)
	if !ok {
		return
	}
	g.record(r, raw)

	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.findCustomer(r.PathValue("id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Customer not found"})
		return
	}
	if p.City != nil {
		g.customers[i].City = *p.City
	}
	if p.Name != nil {
		g.customers[i].Name = *p.Name
	}
	writeJSON(w, http.StatusOK, g.customers[i])
}

func (g *fakeGateway) handleListProducts(w http.ResponseWriter, _ *http.Request) {
	if g.listFailure(w) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	writeJSON(w, http.StatusOK, g.products)
}

func (g *fakeGateway) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	raw, ok := decode(w, r, &p)
	if !ok {
		return
	}
	g.record(r, raw)

	g.mu.Lock()
	p.ID = g.id()
	g.products = append(g.products, p)
	g.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (g *fakeGateway) handleListInventory(w http.ResponseWriter, _ *http.Request) {
	if g.listFailure(w) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	writeJSON(w, http.StatusOK, g.inventory)
}

func (g *fakeGateway) handleCreateInventory(w http.ResponseWriter, r *http.Request) {
	var it domain.InventoryItem
	raw, ok := decode(w, r, &it)
	if !ok {
		return
	}
	g.record(r, raw)

	g.mu.Lock()
	it.ArticleNumber = fmt.Sprintf("ART-%03d", len(g.inventory)+1)
	g.inventory = append(g.inventory, it)
	g.mu.Unlock()
	writeJSON(w, http.StatusCreated, it)
}

// handleDelete removes the entity from whichever collection holds it. The
// reply mimics the gateway's plain-text "true".
func (g *fakeGateway) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteBody != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(g.deleteBody))
		return
	}

	g.deleted = append(g.deleted, r.URL.Path)
	if i := g.findCustomer(id); i >= 0 {
		g.customers = append(g.customers[:i], g.customers[i+1:]...)
	}
	for i, p := range g.products {
		if p.ID == id {
			g.products = append(g.products[:i], g.products[i+1:]...)
			break
		}
	}
	for i, it := range g.inventory {
		if it.ArticleNumber == id {
			g.inventory = append(g.inventory[:i], g.inventory[i+1:]...)
			break
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("true"))
}
