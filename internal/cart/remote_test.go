package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

// newStubCartServer serves the membership cart for a single token "t1".
func newStubCartServer(t *testing.T) *httptest.Server {
	t.Helper()
	var (
		mu  sync.Mutex
		ids []string
	)
	mux := http.NewServeMux()
	authed := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get(apiclient.TokenHeader) != "t1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid token"}`))
			return false
		}
		return true
	}
	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		out := struct {
			Cart []models.Product `json:"cart"`
		}{Cart: []models.Product{}}
		for _, id := range ids {
			out.Cart = append(out.Cart, models.Product{ID: id})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /cart/add", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		var req productRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		ids = append(ids, req.ProductID)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"message":"added"}`))
	})
	mux.HandleFunc("POST /cart/remove", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		var req productRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		kept := ids[:0]
		for _, id := range ids {
			if id != req.ProductID {
				kept = append(kept, id)
			}
		}
		ids = kept
		mu.Unlock()
		_, _ = w.Write([]byte(`{"message":"removed"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
