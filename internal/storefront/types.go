package storefront

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ProductID is an opaque product identifier. The backend keys products by
// integer, so numeric IDs are encoded as JSON numbers.
type ProductID string

// MarshalJSON implements json.Marshaler.
func (id ProductID) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(id))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(s)
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string { return string(id) }

// Product mirrors the catalog payload.
type Product struct {
	ID                 ProductID `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	Description        string    `json:"description"`
	Price              float64   `json:"price"`
	Category           string    `json:"category"`
	StockQuantity      int       `json:"stock_quantity"`
	ImageURL           string    `json:"image_url"`
	Weight             string    `json:"weight"`
	Grade              string    `json:"grade"`
	Origin             string    `json:"origin"`
	NutritionalInfo    string    `json:"nutritional_info,omitempty"`
	SustainabilityInfo string    `json:"sustainability_info,omitempty"`
}

// NutritionFacts decodes the JSON-encoded nutritional info, if any.
func (p Product) NutritionFacts() (map[string]string, error) {
	raw := strings.TrimSpace(p.NutritionalInfo)
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, fmt.Errorf("decode nutritional info: %w", err)
	}
	facts := make(map[string]string, len(generic))
	for k, v := range generic {
		facts[k] = fmt.Sprint(v)
	}
	return facts, nil
}

// CartItem is one row of the remote cart. Rows are never deleted remotely;
// a quantity at or below zero means the product is no longer in the cart.
type CartItem struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	ProductID ProductID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product"`
}

// WishlistItem is one row of the remote wishlist.
type WishlistItem struct {
	ID        int64     `json:"id"`
	ProductID ProductID `json:"product_id"`
	Product   *Product  `json:"product"`
}

// Order is returned by a successful checkout.
type Order struct {
	ID           int64   `json:"id"`
	CustomerName string  `json:"customer_name"`
	TotalAmount  float64 `json:"total_amount"`
	Status       string  `json:"status"`
}

// CheckoutRequest carries the shipping details collected at checkout.
type CheckoutRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Address      string `json:"address" validate:"required"`
	City         string `json:"city" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims every field.
func (r CheckoutRequest) Normalize() CheckoutRequest {
	return CheckoutRequest{
		CustomerName: strings.TrimSpace(r.CustomerName),
		Email:        strings.TrimSpace(r.Email),
		Address:      strings.TrimSpace(r.Address),
		City:         strings.TrimSpace(r.City),
	}
}

// Validate reports missing shipping details or a malformed email.
func (r CheckoutRequest) Validate() error {
	return ValidateStruct(r.Normalize())
}

// ValidateStruct runs the shared validator over v and flattens field errors
// into a single message.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fieldLabel(fe.Field())))
		case "email":
			parts = append(parts, fmt.Sprintf("%s is not a valid email", fieldLabel(fe.Field())))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fieldLabel(fe.Field())))
		}
	}
	return &ValidationError{Problems: parts}
}

// ValidationError lists every field problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func fieldLabel(field string) string {
	switch field {
	case "CustomerName":
		return "name"
	default:
		return strings.ToLower(field)
	}
}

// ProductQuery filters and orders /api/products.
type ProductQuery struct {
	Category string
	SortBy   string // price_asc, price_desc, name
	MinPrice *float64
	MaxPrice *float64
}

// Sort orders understood by the catalog endpoint.
const (
	SortFeatured  = ""
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

type deltaRequest struct {
	ProductID ProductID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type wishlistRequest struct {
	ProductID ProductID `json:"product_id"`
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}
