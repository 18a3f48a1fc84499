package catalog

import (
	"insta-marketplace/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func resolveLocal(key string) string { return "http://localhost:5000/uploads/" + key }

func TestSocialID(t *testing.T) {
	assert.Equal(t, "@acmehomegoods", SocialID("Acme Home\tGoods"))
	assert.Equal(t, "@seller", SocialID("  "))
}

func TestNewViewResolvesImage(t *testing.T) {
	seller := &models.Seller{ID: primitive.NewObjectID(), BusinessName: "Acme", Verified: true}
	p := models.Product{Title: "Lamp", Image: "image-1.png", Seller: seller.ID}

	v := NewView(p, seller, resolveLocal)
	assert.Equal(t, "http://localhost:5000/uploads/image-1.png", v.Image)
	assert.Equal(t, "Acme", v.Seller.Name)
	assert.Equal(t, "@acme", v.Seller.SocialID)
	assert.True(t, v.Seller.Verified)

	p.Image = "https://cdn.example.com/lamp.png"
	assert.Equal(t, p.Image, NewView(p, seller, resolveLocal).Image)
}

func TestJoinUnknownSeller(t *testing.T) {
	known := models.Seller{ID: primitive.NewObjectID(), BusinessName: "Acme"}
	products := []models.Product{
		{Title: "Lamp", Seller: known.ID},
		{Title: "Orphan", Seller: primitive.NewObjectID()},
	}

	views := Join(products, map[primitive.ObjectID]models.Seller{known.ID: known}, nil)
	assert.Len(t, views, 2)
	assert.Equal(t, "Acme", views[0].Seller.Name)
	assert.Equal(t, UnknownSellerName, views[1].Seller.Name)
	assert.Equal(t, UnknownSellerSocialID, views[1].Seller.SocialID)
}

func TestSellerIDsDistinct(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	ids := SellerIDs([]models.Product{{Seller: a}, {Seller: b}, {Seller: a}})
	assert.Equal(t, []primitive.ObjectID{a, b}, ids)
}

func TestDecorate(t *testing.T) {
	views := []ProductView{{Rating: 0}, {Rating: 3.9}}
	calls := 0
	Decorate(views, func() bool { calls++; return calls == 2 })

	assert.Equal(t, 2, calls)
	assert.Equal(t, DefaultRating, views[0].Rating)
	assert.Equal(t, 3.9, views[1].Rating)
	assert.True(t, views[0].IsProtected)
	assert.False(t, views[0].IsTrending)
	assert.True(t, views[1].IsTrending)
}
