package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/password"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	name     string
	email    string
	phone    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		name:     "Test User",
		email:    fmt.Sprintf("test_%s@example.com", suffix),
		phone:    "5550001234",
		password: "testpassword123",
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(pw string) *UserBuilder {
	b.password = pw
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashed, err := password.Hash(b.password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Name:         b.name,
		Email:        b.email,
		Phone:        b.phone,
		PasswordHash: hashed,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// RegisterBody returns the JSON request body for POST /auth/register
func (b *UserBuilder) RegisterBody() map[string]string {
	return map[string]string{
		"username": b.username,
		"name":     b.name,
		"email":    b.email,
		"phone":    b.phone,
		"password": b.password,
	}
}

// UserResponse matches the API user response
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// BuildAndAuthenticate registers the user via the API and returns the user
// plus an HTTP client carrying the session cookie.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, *http.Client) {
	t.Helper()

	client := NewCookieClient(t)

	body, _ := json.Marshal(b.RegisterBody())
	resp, err := client.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var userResp UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(userResp.ID)
	user := &domain.User{
		ID:       userID,
		Username: userResp.Username,
		Name:     userResp.Name,
		Email:    userResp.Email,
		Phone:    userResp.Phone,
	}

	return user, client
}

// NewCookieClient returns an HTTP client with a cookie jar so session
// cookies survive across requests.
func NewCookieClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

// CustomerBuilder creates test customers with a builder pattern
type CustomerBuilder struct {
	name  string
	email string
	phone string
	notes string
}

// NewCustomerBuilder creates a new CustomerBuilder with default values
func NewCustomerBuilder() *CustomerBuilder {
	suffix := uuid.New().String()[:8]
	return &CustomerBuilder{
		name:  fmt.Sprintf("Customer %s", suffix),
		email: fmt.Sprintf("customer_%s@example.com", suffix),
		phone: "5559876543",
	}
}

// WithName sets the customer name
func (b *CustomerBuilder) WithName(name string) *CustomerBuilder {
	b.name = name
	return b
}

// WithEmail sets the customer email
func (b *CustomerBuilder) WithEmail(email string) *CustomerBuilder {
	b.email = email
	return b
}

// Build creates the customer in the database
func (b *CustomerBuilder) Build(t *testing.T, db *gorm.DB) *domain.Customer {
	t.Helper()

	customer := &domain.Customer{
		ID:        uuid.New(),
		Name:      b.name,
		Email:     b.email,
		Phone:     b.phone,
		Notes:     b.notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	return customer
}

// ProductBuilder creates test products with a builder pattern
type ProductBuilder struct {
	name       string
	sku        string
	priceCents int64
	stock      int
}

// NewProductBuilder creates a new ProductBuilder with default values
func NewProductBuilder() *ProductBuilder {
	suffix := uuid.New().String()[:8]
	return &ProductBuilder{
		name:       fmt.Sprintf("Product %s", suffix),
		sku:        fmt.Sprintf("SKU-%s", suffix),
		priceCents: 1999,
		stock:      10,
	}
}

// WithSKU sets the SKU
func (b *ProductBuilder) WithSKU(sku string) *ProductBuilder {
	b.sku = sku
	return b
}

// WithStock sets the stock level
func (b *ProductBuilder) WithStock(stock int) *ProductBuilder {
	b.stock = stock
	return b
}

// WithPriceCents sets the unit price
func (b *ProductBuilder) WithPriceCents(price int64) *ProductBuilder {
	b.priceCents = price
	return b
}

// Build creates the product in the database
func (b *ProductBuilder) Build(t *testing.T, db *gorm.DB) *domain.Product {
	t.Helper()

	product := &domain.Product{
		ID:         uuid.New(),
		Name:       b.name,
		SKU:        b.sku,
		PriceCents: b.priceCents,
		Stock:      b.stock,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	return product
}

// DoJSON issues a request with a JSON body using the given client and method
func DoJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
