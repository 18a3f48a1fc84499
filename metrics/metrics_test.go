package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T) string {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddlewareLabelsByRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Middleware())
	router.HandleFunc("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/65f000000000000000000001", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t)
	assert.Contains(t, body, `instaseller_http_requests_total{method="DELETE",route="/api/products/{id}",status="404"}`)
	assert.NotContains(t, body, "65f000000000000000000001")
}

func TestHandlerExposesCustomCollectors(t *testing.T) {
	RecordAuth("seller", "login", "success")
	RecordCacheLookup("miss")

	body := scrape(t)
	assert.Contains(t, body, `instaseller_auth_events_total{action="login",outcome="success",role="seller"}`)
	assert.Contains(t, body, `instaseller_cache_lookups_total{result="miss"}`)
}
