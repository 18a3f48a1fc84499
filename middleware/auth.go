package middleware

import (
	"context"
	"errors"
	"insta-marketplace/errs"
	"insta-marketplace/metrics"
	"insta-marketplace/models"
	"insta-marketplace/utils"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Key type for context
type contextKey string

const SellerContextKey = contextKey("seller")

// SellerHeader scopes a request to a seller in the legacy header mode.
const SellerHeader = "X-Seller-Id"

var (
	ErrNoToken        = errs.New(errs.ErrUnauthorized, "Not authorized, no token")
	ErrTokenFailed    = errs.New(errs.ErrUnauthorized, "Not authorized, token failed")
	ErrSellerNotFound = errs.New(errs.ErrUnauthorized, "Not authorized, seller not found")
)

// SellerFinder loads the seller a verified token refers to.
type SellerFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Seller, error)
}

// Guard authenticates sellers and attaches them to the request context.
type Guard struct {
	tokens      *utils.TokenService
	sellers     SellerFinder
	trustHeader bool
}

// NewGuard returns a Guard. trustHeader enables the legacy x-seller-id
// lookup on routes wrapped with RequireSellerOrHeader.
func NewGuard(tokens *utils.TokenService, sellers SellerFinder, trustHeader bool) *Guard {
	return &Guard{tokens: tokens, sellers: sellers, trustHeader: trustHeader}
}

// RequireSeller lets the request through only with a valid seller token.
func (g *Guard) RequireSeller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seller, err := g.authenticate(r)
		if err != nil {
			g.reject(w, r, err)
			return
		}
		metrics.RecordAuth(models.RoleSeller, "guard", "allowed")
		next.ServeHTTP(w, r.WithContext(WithSeller(r.Context(), seller)))
	})
}

// RequireSellerOrHeader behaves like RequireSeller. When the legacy mode is
// on and no Authorization header was sent, the seller is taken from the
// x-seller-id header instead.
func (g *Guard) RequireSellerOrHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.trustHeader || r.Header.Get("Authorization") != "" {
			g.RequireSeller(next).ServeHTTP(w, r)
			return
		}

		seller, err := g.fromHeader(r)
		if err != nil {
			g.reject(w, r, err)
			return
		}
		metrics.RecordAuth(models.RoleSeller, "guard", "allowed_header")
		next.ServeHTTP(w, r.WithContext(WithSeller(r.Context(), seller)))
	})
}

func (g *Guard) authenticate(r *http.Request) (*models.Seller, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrNoToken
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, ErrNoToken
	}

	claims, err := g.tokens.Verify(parts[1])
	if err != nil {
		return nil, ErrTokenFailed
	}
	if claims.Role != models.RoleSeller {
		return nil, ErrTokenFailed
	}
	if scoped := r.Header.Get(SellerHeader); scoped != "" && scoped != claims.ID {
		return nil, ErrTokenFailed
	}

	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, ErrTokenFailed
	}
	return g.load(r.Context(), id)
}

func (g *Guard) fromHeader(r *http.Request) (*models.Seller, error) {
	raw := strings.TrimSpace(r.Header.Get(SellerHeader))
	if raw == "" {
		return nil, ErrNoToken
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, ErrSellerNotFound
	}
	return g.load(r.Context(), id)
}

func (g *Guard) load(ctx context.Context, id primitive.ObjectID) (*models.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	seller, err := g.sellers.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, ErrSellerNotFound
	}
	if err != nil {
		return nil, err
	}
	return seller, nil
}

func (g *Guard) reject(w http.ResponseWriter, r *http.Request, err error) {
	outcome := "denied"
	if errs.GetErrorStatusCode(err) != http.StatusUnauthorized {
		outcome = "error"
	}
	metrics.RecordAuth(models.RoleSeller, "guard", outcome)
	log.Ctx(r.Context()).Debug().Err(err).Str("component", "Guard").Msg("request rejected")
	utils.WriteError(w, r, err)
}

// WithSeller returns a copy of ctx carrying seller.
func WithSeller(ctx context.Context, seller *models.Seller) context.Context {
	return context.WithValue(ctx, SellerContextKey, seller)
}

// SellerFromContext returns the seller attached by the guard.
func SellerFromContext(ctx context.Context) (*models.Seller, bool) {
	seller, ok := ctx.Value(SellerContextKey).(*models.Seller)
	return seller, ok && seller != nil
}
