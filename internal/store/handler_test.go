package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubCatalog struct {
	menu []string
	err  error
}

func (s *stubCatalog) Menu(ctx context.Context, storeName string) ([]string, error) {
	return s.menu, s.err
}

func newStoreRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	s := router.Group("/s")
	{
		s.GET("/:store", h.Show)
		s.GET("/:store/menu", h.Menu)
	}
	return router
}

func TestShow(t *testing.T) {
	router := newStoreRouter(NewHandler(NewMemoryCatalog(nil)))

	req := httptest.NewRequest(http.MethodGet, "/s/espresso-bar", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Store   string `json:"store"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Store != "espresso-bar" || body.Message != "Welcome to espresso-bar" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMenuDefault(t *testing.T) {
	router := newStoreRouter(NewHandler(NewMemoryCatalog(nil)))

	req := httptest.NewRequest(http.MethodGet, "/s/espresso-bar/menu", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Store string   `json:"store"`
		Menu  []string `json:"menu"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !reflect.DeepEqual(body.Menu, []string{"Coffee", "Sandwich", "Salad"}) {
		t.Fatalf("unexpected menu: %#v", body.Menu)
	}
}

func TestMenuPerStoreOverride(t *testing.T) {
	catalog := NewMemoryCatalog(map[string][]string{
		"teahouse": {"Green Tea", "Scone"},
	})

	menu, err := catalog.Menu(context.Background(), "teahouse")
	if err != nil {
		t.Fatalf("Menu error: %v", err)
	}
	if !reflect.DeepEqual(menu, []string{"Green Tea", "Scone"}) {
		t.Fatalf("unexpected menu: %#v", menu)
	}

	menu, err = catalog.Menu(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Menu error: %v", err)
	}
	if !reflect.DeepEqual(menu, []string{"Coffee", "Sandwich", "Salad"}) {
		t.Fatalf("expected default menu for unknown store, got %#v", menu)
	}
}

func TestMenuFallsBackOnCatalogError(t *testing.T) {
	router := newStoreRouter(NewHandler(&stubCatalog{err: errors.New("backend down")}))

	req := httptest.NewRequest(http.MethodGet, "/s/espresso-bar/menu", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// カタログ障害でもエンドポイントは失敗しない
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body struct {
		Menu []string `json:"menu"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !reflect.DeepEqual(body.Menu, []string{"Coffee", "Sandwich", "Salad"}) {
		t.Fatalf("expected default menu on error, got %#v", body.Menu)
	}
}
