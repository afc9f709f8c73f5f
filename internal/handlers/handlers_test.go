package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/repository"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/service"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/vapi"
	"github.com/Lixing-Zhang/restaurant-backoffice/pkg/logger"
)

const (
	testWebhookSecret = "test-secret"
	testPublicKey     = "pk_test_123"
)

type testApp struct {
	router http.Handler
	store  *repository.InMemoryStore
}

type appOptions struct {
	unmatched vapi.UnmatchedPolicy
	policy    service.StatusPolicy
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWith(t, appOptions{})
}

func newTestAppWith(t *testing.T, opts appOptions) *testApp {
	t.Helper()

	log := logger.NewWithFormat(io.Discard, "debug", "json")
	store := repository.NewInMemoryStore()
	clock := steppingClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))

	dishes := service.NewMenuService(store.Menu, models.KindDish).WithClock(clock)
	drinks := service.NewMenuService(store.Menu, models.KindDrink).WithClock(clock)
	sides := service.NewMenuService(store.Menu, models.KindSide).WithClock(clock)
	orders := service.NewOrderService(store.Orders, opts.policy, nil, log).WithClock(clock)
	settings := service.NewSettingsService(store.Settings).WithClock(clock)
	adapter := vapi.NewAdapter(service.NewCatalog(dishes, drinks, sides), orders, settings, opts.unmatched, log)

	router := NewRouter(RouterConfig{
		Dishes:        NewMenuHandler(dishes, log),
		Drinks:        NewMenuHandler(drinks, log),
		Sides:         NewMenuHandler(sides, log),
		Orders:        NewOrderHandler(orders, log),
		Settings:      NewSettingsHandler(settings, log),
		Vapi:          NewVapiHandler(adapter, testPublicKey, log),
		Health:        NewHealthHandler(store, log),
		WebhookSecret: testWebhookSecret,
		Logger:        log,
	})

	return &testApp{router: router, store: store}
}

// do sends body (a string is sent verbatim, anything else is JSON-encoded).
func (a *testApp) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func steppingClock(start time.Time) service.Clock {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
