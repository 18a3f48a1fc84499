package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"insta-marketplace/errs"
	"insta-marketplace/metrics"
	"insta-marketplace/middleware"
	"insta-marketplace/models"
	"insta-marketplace/repository"
	"insta-marketplace/utils"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const maxJSONBody = 1 << 20

var (
	errInvalidInput        = errs.New(errs.ErrValidation, "Invalid input")
	errCustomerFields      = errs.New(errs.ErrValidation, "Please provide name, email, and password.")
	errSellerFields        = errs.New(errs.ErrValidation, "Please fill in all required fields.")
	errLoginFields         = errs.New(errs.ErrValidation, "Please provide email and password.")
	errCustomerEmailExists = errs.New(errs.ErrDuplicateEmail, "A customer with this email already exists.")
	errSellerEmailExists   = errs.New(errs.ErrDuplicateEmail, "A seller with this email already exists.")
)

type CustomerSignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type SellerSignupRequest struct {
	BusinessName  string `json:"businessName"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	Address       string `json:"address"`
	Description   string `json:"description"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CustomerUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type SellerUser struct {
	ID           string `json:"id"`
	BusinessName string `json:"businessName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

// AuthResponse is returned by every successful signup and login.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    interface{} `json:"user"`
}

// AuthController handles customer and seller accounts
type AuthController struct {
	Customers repository.CustomerRepository
	Sellers   repository.SellerRepository
	Tokens    *utils.TokenService
	Mailer    utils.Mailer
}

func NewAuthController(customers repository.CustomerRepository, sellers repository.SellerRepository, tokens *utils.TokenService, mailer utils.Mailer) *AuthController {
	if mailer == nil {
		mailer = utils.NopMailer{}
	}
	return &AuthController{
		Customers: customers,
		Sellers:   sellers,
		Tokens:    tokens,
		Mailer:    mailer,
	}
}

// CustomerSignup registers a buyer account
func (ac *AuthController) CustomerSignup(w http.ResponseWriter, r *http.Request) {
	var req CustomerSignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		metrics.RecordAuth(models.RoleCustomer, "signup", "invalid")
		utils.WriteError(w, r, errCustomerFields)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	customer := models.Customer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hashedPassword,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := ac.Customers.Create(ctx, &customer); err != nil {
		if errors.Is(err, errs.ErrDuplicateEmail) {
			metrics.RecordAuth(models.RoleCustomer, "signup", "duplicate")
			utils.WriteError(w, r, errCustomerEmailExists)
			return
		}
		metrics.RecordAuth(models.RoleCustomer, "signup", "error")
		utils.WriteError(w, r, err)
		return
	}

	token, err := ac.Tokens.Issue(customer.ID.Hex(), models.RoleCustomer)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	metrics.RecordAuth(models.RoleCustomer, "signup", "success")
	ac.sendWelcome(r.Context(), customer.Email, customer.Name, models.RoleCustomer)
	utils.WriteJSON(w, http.StatusCreated, AuthResponse{
		Message: "Customer registered successfully",
		Token:   token,
		User:    customerUser(&customer),
	})
}

// CustomerLogin authenticates a buyer
func (ac *AuthController) CustomerLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeLogin(w, r, &req); err != nil {
		metrics.RecordAuth(models.RoleCustomer, "login", "invalid")
		utils.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	customer, err := ac.Customers.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		metrics.RecordAuth(models.RoleCustomer, "login", "error")
		utils.WriteError(w, r, err)
		return
	}
	// Unknown email and wrong password are indistinguishable to the client.
	if customer == nil || !utils.CheckPassword(customer.Password, req.Password) {
		metrics.RecordAuth(models.RoleCustomer, "login", "failure")
		utils.WriteError(w, r, errs.ErrInvalidCredentials)
		return
	}

	token, err := ac.Tokens.Issue(customer.ID.Hex(), models.RoleCustomer)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	metrics.RecordAuth(models.RoleCustomer, "login", "success")
	utils.WriteJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    customerUser(customer),
	})
}

// SellerSignup registers a merchant account
func (ac *AuthController) SellerSignup(w http.ResponseWriter, r *http.Request) {
	var req SellerSignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if req.BusinessName == "" || req.ContactPerson == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		metrics.RecordAuth(models.RoleSeller, "signup", "invalid")
		utils.WriteError(w, r, errSellerFields)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	seller := models.Seller{
		BusinessName:  req.BusinessName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      hashedPassword,
		Address:       req.Address,
		Description:   req.Description,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := ac.Sellers.Create(ctx, &seller); err != nil {
		if errors.Is(err, errs.ErrDuplicateEmail) {
			metrics.RecordAuth(models.RoleSeller, "signup", "duplicate")
			utils.WriteError(w, r, errSellerEmailExists)
			return
		}
		metrics.RecordAuth(models.RoleSeller, "signup", "error")
		utils.WriteError(w, r, err)
		return
	}

	token, err := ac.Tokens.Issue(seller.ID.Hex(), models.RoleSeller)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	metrics.RecordAuth(models.RoleSeller, "signup", "success")
	ac.sendWelcome(r.Context(), seller.Email, seller.BusinessName, models.RoleSeller)
	utils.WriteJSON(w, http.StatusCreated, AuthResponse{
		Message: "Seller registered successfully",
		Token:   token,
		User:    sellerUser(&seller),
	})
}

// SellerLogin authenticates a merchant
func (ac *AuthController) SellerLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeLogin(w, r, &req); err != nil {
		metrics.RecordAuth(models.RoleSeller, "login", "invalid")
		utils.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	seller, err := ac.Sellers.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		metrics.RecordAuth(models.RoleSeller, "login", "error")
		utils.WriteError(w, r, err)
		return
	}
	if seller == nil || !utils.CheckPassword(seller.Password, req.Password) {
		metrics.RecordAuth(models.RoleSeller, "login", "failure")
		utils.WriteError(w, r, errs.ErrInvalidCredentials)
		return
	}

	token, err := ac.Tokens.Issue(seller.ID.Hex(), models.RoleSeller)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	metrics.RecordAuth(models.RoleSeller, "login", "success")
	utils.WriteJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    sellerUser(seller),
	})
}

// SellerProfile returns the authenticated seller
func (ac *AuthController) SellerProfile(w http.ResponseWriter, r *http.Request) {
	seller, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, middleware.ErrNoToken)
		return
	}
	utils.WriteJSON(w, http.StatusOK, seller)
}

// sendWelcome mails in the background; the response never waits on it.
func (ac *AuthController) sendWelcome(reqCtx context.Context, email, name, role string) {
	logger := log.Ctx(reqCtx)
	go func() {
		ctx, cancel := context.WithTimeout(logger.WithContext(context.Background()), 10*time.Second)
		defer cancel()
		if err := ac.Mailer.SendWelcomeEmail(ctx, email, name, role); err != nil {
			logger.Warn().Err(err).Str("component", "sendWelcome").Str("to", email).Msg("")
		}
	}()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidInput
	}
	return nil
}

func decodeLogin(w http.ResponseWriter, r *http.Request, req *LoginRequest) error {
	if err := decodeJSON(w, r, req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return errLoginFields
	}
	return nil
}

func customerUser(c *models.Customer) CustomerUser {
	return CustomerUser{ID: c.ID.Hex(), Name: c.Name, Email: c.Email, Role: models.RoleCustomer}
}

func sellerUser(s *models.Seller) SellerUser {
	return SellerUser{ID: s.ID.Hex(), BusinessName: s.BusinessName, Email: s.Email, Role: models.RoleSeller}
}
