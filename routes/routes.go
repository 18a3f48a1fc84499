// routes/routes.go
package routes

import (
	"insta-marketplace/controllers"
	"insta-marketplace/metrics"
	"insta-marketplace/middleware"
	"insta-marketplace/utils"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Options configures the outer HTTP handler.
type Options struct {
	Logger      zerolog.Logger
	CORSOrigins []string
	// UploadDir is served at /uploads/ when set.
	UploadDir string
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, authController *controllers.AuthController, productController *controllers.ProductController, guard *middleware.Guard) {
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.MessageResponse{Message: "Server is running!"})
	}).Methods(http.MethodGet)

	// Auth routes
	auth := router.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/customer/signup", authController.CustomerSignup).Methods(http.MethodPost)
	auth.HandleFunc("/customer/login", authController.CustomerLogin).Methods(http.MethodPost)
	auth.HandleFunc("/seller/signup", authController.SellerSignup).Methods(http.MethodPost)
	auth.HandleFunc("/seller/login", authController.SellerLogin).Methods(http.MethodPost)
	auth.Handle("/seller/me", guard.RequireSeller(http.HandlerFunc(authController.SellerProfile))).Methods(http.MethodGet)

	// Product routes; my-products must be registered before {id}
	products := router.PathPrefix("/api/products").Subrouter()
	products.Handle("/my-products", guard.RequireSellerOrHeader(http.HandlerFunc(productController.GetMyProducts))).Methods(http.MethodGet)
	products.HandleFunc("", productController.GetProducts).Methods(http.MethodGet)
	products.Handle("", guard.RequireSeller(http.HandlerFunc(productController.CreateProduct))).Methods(http.MethodPost)
	products.HandleFunc("/{id}", productController.GetProductByID).Methods(http.MethodGet)
	products.Handle("/{id}", guard.RequireSeller(http.HandlerFunc(productController.UpdateProduct))).Methods(http.MethodPut)
	products.Handle("/{id}", guard.RequireSeller(http.HandlerFunc(productController.DeleteProduct))).Methods(http.MethodDelete)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse{Error: "Route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusMethodNotAllowed, utils.ErrorResponse{Error: "Method not allowed"})
	})
}

// NewHandler builds the router and wraps it in the global middleware:
// CORS, then request logging, then panic recovery.
func NewHandler(opts Options, authController *controllers.AuthController, productController *controllers.ProductController, guard *middleware.Guard) http.Handler {
	router := mux.NewRouter()
	router.Use(metrics.Middleware())

	if opts.UploadDir != "" {
		router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", uploads(opts.UploadDir))).Methods(http.MethodGet, http.MethodHead)
	}
	RegisterRoutes(router, authController, productController, guard)

	var h http.Handler = router
	h = trimTrailingSlash(h)
	h = middleware.Recovery(h)
	h = middleware.Logger(opts.Logger)(h)
	h = middleware.CORS(middleware.DefaultCORSOptions(opts.CORSOrigins))(h)
	return h
}

// uploads serves stored images without directory listings.
func uploads(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse{Error: "Route not found"})
			return
		}
		files.ServeHTTP(w, r)
	})
}

// trimTrailingSlash lets /api/products/ reach the /api/products route.
func trimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") && !strings.HasPrefix(p, "/uploads/") {
			r.URL.Path = strings.TrimRight(p, "/")
			if r.URL.RawPath != "" {
				r.URL.RawPath = strings.TrimRight(r.URL.RawPath, "/")
			}
		}
		next.ServeHTTP(w, r)
	})
}
