package catalog

import (
	"insta-marketplace/models"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UnknownSellerName     = "Unknown Seller"
	UnknownSellerSocialID = "@seller"
	DefaultRating         = 4.5
	TrendingProbability   = 0.3
)

var whitespace = regexp.MustCompile(`\s+`)

// SellerSummary is the public slice of a seller embedded in product views.
type SellerSummary struct {
	ID            primitive.ObjectID `json:"_id,omitempty"`
	Name          string             `json:"name"`
	SocialID      string             `json:"socialId"`
	ContactPerson string             `json:"contactPerson,omitempty"`
	Email         string             `json:"email,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	Verified      bool               `json:"verified"`
}

// ProductView is a product joined with its owner, as returned to clients.
type ProductView struct {
	ID            primitive.ObjectID `json:"_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Price         float64            `json:"price"`
	OriginalPrice float64            `json:"originalPrice,omitempty"`
	Quantity      int                `json:"quantity"`
	Category      string             `json:"category"`
	Brand         string             `json:"brand"`
	Image         string             `json:"image"`
	Discount      int                `json:"discount"`
	Rating        float64            `json:"rating"`
	Reviews       int                `json:"reviews"`
	Seller        SellerSummary      `json:"seller"`
	IsProtected   bool               `json:"isProtected,omitempty"`
	IsTrending    bool               `json:"isTrending,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// SocialID derives the "@handle" shown next to a seller.
func SocialID(businessName string) string {
	handle := strings.ToLower(whitespace.ReplaceAllString(businessName, ""))
	if handle == "" {
		return UnknownSellerSocialID
	}
	return "@" + handle
}

// Summarize returns the public summary of seller. A nil seller yields the
// placeholder used for products whose owner no longer exists.
func Summarize(seller *models.Seller) SellerSummary {
	if seller == nil {
		return SellerSummary{Name: UnknownSellerName, SocialID: UnknownSellerSocialID}
	}
	name := seller.BusinessName
	if name == "" {
		name = UnknownSellerName
	}
	return SellerSummary{
		ID:            seller.ID,
		Name:          name,
		SocialID:      SocialID(seller.BusinessName),
		ContactPerson: seller.ContactPerson,
		Email:         seller.Email,
		Phone:         seller.Phone,
		Verified:      seller.Verified,
	}
}

// NewView joins p with its owner. resolve turns a stored image key into a
// public URL; values already starting with "http" are kept as they are.
func NewView(p models.Product, seller *models.Seller, resolve func(string) string) ProductView {
	image := p.Image
	if image != "" && !strings.HasPrefix(image, "http") && resolve != nil {
		image = resolve(image)
	}
	return ProductView{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Quantity:      p.Quantity,
		Category:      p.Category,
		Brand:         p.Brand,
		Image:         image,
		Discount:      p.Discount,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		Seller:        Summarize(seller),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Join builds views for products, looking owners up in sellers.
func Join(products []models.Product, sellers map[primitive.ObjectID]models.Seller, resolve func(string) string) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		var owner *models.Seller
		if s, ok := sellers[p.Seller]; ok {
			owner = &s
		}
		views = append(views, NewView(p, owner, resolve))
	}
	return views
}

// SellerIDs returns the distinct owners of products in first-seen order.
func SellerIDs(products []models.Product) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(products))
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		if seen[p.Seller] {
			continue
		}
		seen[p.Seller] = true
		ids = append(ids, p.Seller)
	}
	return ids
}

// Decorate applies the storefront presentation defaults in place. trending
// is asked once per product.
func Decorate(views []ProductView, trending func() bool) []ProductView {
	for i := range views {
		if views[i].Rating == 0 {
			views[i].Rating = DefaultRating
		}
		views[i].IsProtected = true
		views[i].IsTrending = trending != nil && trending()
	}
	return views
}
