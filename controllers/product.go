package controllers

import (
	"context"
	"errors"
	"fmt"
	"insta-marketplace/cache"
	"insta-marketplace/catalog"
	"insta-marketplace/errs"
	"insta-marketplace/middleware"
	"insta-marketplace/models"
	"insta-marketplace/repository"
	"insta-marketplace/storage"
	"insta-marketplace/utils"
	"io"
	"math"
	"math/rand"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const multipartMemory = 8 << 20

var (
	errProductNotFound = errs.New(errs.ErrNotFound, "Product not found")
	errImageRequired   = errs.New(errs.ErrValidation, "Product image is required.")
	errImageType       = errs.New(errs.ErrValidation, "Only image uploads are allowed.")
	errProductFields   = errs.New(errs.ErrValidation, "Please provide title and price.")
	errNotOwner        = errs.New(errs.ErrForbidden, "Not authorized to modify this product")
	errUploadTooLarge  = errs.New(errs.ErrPayloadTooLarge, "Upload is too large")
	errInvalidForm     = errs.New(errs.ErrValidation, "Invalid form data")
)

// ProductController handles product-related requests
type ProductController struct {
	Products       repository.ProductRepository
	Sellers        repository.SellerRepository
	Disk           storage.Disk
	Cache          cache.Catalog
	MaxUploadBytes int64
	// Trending decides the storefront "trending" badge per product.
	Trending func() bool
	Now      func() time.Time
}

func NewProductController(products repository.ProductRepository, sellers repository.SellerRepository, disk storage.Disk, catalogCache cache.Catalog, maxUploadBytes int64) *ProductController {
	if catalogCache == nil {
		catalogCache = cache.Noop{}
	}
	return &ProductController{
		Products:       products,
		Sellers:        sellers,
		Disk:           disk,
		Cache:          catalogCache,
		MaxUploadBytes: maxUploadBytes,
		Trending:       func() bool { return rand.Float64() < catalog.TrendingProbability },
		Now:            time.Now,
	}
}

// GetProducts lists the public catalog
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	query, err := catalog.ParseQuery(r.URL.Query())
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	views, err := pc.catalogViews(ctx)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	views = catalog.Decorate(views, pc.Trending)
	page, total := views, len(views)
	if !query.IsZero() {
		page, total = query.Apply(views)
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	utils.WriteJSON(w, http.StatusOK, page)
}

// catalogViews returns every product joined with its seller, from the
// cache when possible.
func (pc *ProductController) catalogViews(ctx context.Context) ([]catalog.ProductView, error) {
	if views, ok := pc.Cache.Get(ctx); ok {
		return views, nil
	}

	products, err := pc.Products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	sellers, err := pc.Sellers.FindByIDs(ctx, catalog.SellerIDs(products))
	if err != nil {
		return nil, err
	}

	views := catalog.Join(products, sellers, pc.Disk.URL)
	pc.Cache.Set(ctx, views)
	return views, nil
}

// GetMyProducts lists the authenticated seller's products
func (pc *ProductController) GetMyProducts(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, middleware.ErrNoToken)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := pc.Products.List(ctx, repository.ProductFilter{Seller: seller.ID})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	owners := map[primitive.ObjectID]models.Seller{seller.ID: *seller}
	utils.WriteJSON(w, http.StatusOK, catalog.Join(products, owners, pc.Disk.URL))
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, r, errProductNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.findProduct(ctx, id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	var owner *models.Seller
	seller, err := pc.Sellers.FindByID(ctx, product.Seller)
	switch {
	case err == nil:
		owner = seller
	case !errors.Is(err, errs.ErrNotFound):
		utils.WriteError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, catalog.NewView(*product, owner, pc.Disk.URL))
}

// CreateProduct adds a product owned by the authenticated seller
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, middleware.ErrNoToken)
		return
	}
	if err := pc.parseMultipart(w, r); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form, err := parseProductForm(r.MultipartForm.Value)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if form.Title == nil || *form.Title == "" || form.Price == nil {
		utils.WriteError(w, r, errProductFields)
		return
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		utils.WriteError(w, r, errImageRequired)
		return
	}
	if err != nil {
		utils.WriteError(w, r, errInvalidForm)
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key, err := pc.storeImage(ctx, file, header)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	product := models.Product{Seller: seller.ID, Image: key}
	form.apply(&product)
	product.Discount = models.ComputeDiscount(product.Price, product.OriginalPrice)

	if err := pc.Products.Create(ctx, &product); err != nil {
		pc.removeImage(ctx, key)
		utils.WriteError(w, r, err)
		return
	}

	pc.Cache.Invalidate(ctx)
	log.Ctx(ctx).Info().Str("component", "CreateProduct").Str("product", product.ID.Hex()).Str("seller", seller.ID.Hex()).Msg("product created")
	utils.WriteJSON(w, http.StatusCreated, product)
}

// UpdateProduct changes any subset of a product's fields
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, middleware.ErrNoToken)
		return
	}
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, r, errProductNotFound)
		return
	}
	if err := pc.parseMultipart(w, r); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form, err := parseProductForm(r.MultipartForm.Value)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if form.Title != nil && *form.Title == "" {
		utils.WriteError(w, r, errProductFields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.findProduct(ctx, id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if !product.IsOwnedBy(seller.ID) {
		utils.WriteError(w, r, errNotOwner)
		return
	}

	oldImage, newImage := product.Image, ""
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		if newImage, err = pc.storeImage(ctx, file, header); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		product.Image = newImage
	case !errors.Is(err, http.ErrMissingFile):
		utils.WriteError(w, r, errInvalidForm)
		return
	}

	form.apply(product)
	product.Discount = models.ComputeDiscount(product.Price, product.OriginalPrice)

	if err := pc.Products.Update(ctx, product); err != nil {
		if newImage != "" {
			pc.removeImage(ctx, newImage)
		}
		if errors.Is(err, errs.ErrNotFound) {
			err = errProductNotFound
		}
		utils.WriteError(w, r, err)
		return
	}
	if newImage != "" {
		pc.removeImage(ctx, oldImage)
	}

	pc.Cache.Invalidate(ctx)
	utils.WriteJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product owned by the authenticated seller
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, middleware.ErrNoToken)
		return
	}
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, r, errProductNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.findProduct(ctx, id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if !product.IsOwnedBy(seller.ID) {
		utils.WriteError(w, r, errNotOwner)
		return
	}

	if err := pc.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			err = errProductNotFound
		}
		utils.WriteError(w, r, err)
		return
	}
	pc.removeImage(ctx, product.Image)

	pc.Cache.Invalidate(ctx)
	utils.WriteJSON(w, http.StatusOK, utils.MessageResponse{Message: "Product deleted successfully"})
}

func (pc *ProductController) findProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := pc.Products.FindByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errProductNotFound
	}
	return product, err
}

func (pc *ProductController) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if pc.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, pc.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return errUploadTooLarge
		}
		return errInvalidForm
	}
	return nil
}

// storeImage sniffs the upload and writes it to the disk under a fresh key.
func (pc *ProductController) storeImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	contentType := http.DetectContentType(sniff[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", errImageType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding upload: %w", err)
	}

	key := storage.NewKey(header.Filename, pc.Now())
	if err := pc.Disk.Put(ctx, key, file, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// removeImage deletes a stored image. Failures are only logged.
func (pc *ProductController) removeImage(ctx context.Context, image string) {
	if image == "" {
		return
	}
	key := storage.KeyFromURL(pc.Disk, image)
	if strings.HasPrefix(key, "http") {
		return
	}
	if err := pc.Disk.Delete(ctx, key); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "removeImage").Str("key", key).Msg("")
	}
}

// productForm holds the fields present in a product form. Nil means the
// field was not sent.
type productForm struct {
	Title         *string
	Description   *string
	Category      *string
	Brand         *string
	Price         *float64
	OriginalPrice *float64
	Quantity      *int
}

func parseProductForm(values map[string][]string) (productForm, error) {
	var form productForm
	text := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		s := strings.TrimSpace(v[0])
		return &s
	}

	form.Title = text("title")
	form.Description = text("description")
	form.Category = text("category")
	form.Brand = text("brand")

	var err error
	if form.Price, err = parseAmount(text("price"), "price"); err != nil {
		return form, err
	}
	if form.OriginalPrice, err = parseAmount(text("originalPrice"), "originalPrice"); err != nil {
		return form, err
	}
	if raw := text("quantity"); raw != nil && *raw != "" {
		q, err := strconv.Atoi(*raw)
		if err != nil || q < 0 {
			return form, errs.New(errs.ErrValidation, "quantity must be a whole number of at least 0")
		}
		form.Quantity = &q
	}
	return form, nil
}

func parseAmount(raw *string, field string) (*float64, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil, errs.New(errs.ErrValidation, field+" must be a number of at least 0")
	}
	return &v, nil
}

func (f productForm) apply(p *models.Product) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.Brand != nil {
		p.Brand = *f.Brand
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.OriginalPrice != nil {
		p.OriginalPrice = *f.OriginalPrice
	}
	if f.Quantity != nil {
		p.Quantity = *f.Quantity
	}
}
