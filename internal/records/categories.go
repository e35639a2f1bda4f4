package records

import (
	"context"
	"net/http"
)

const (
	categoriesPath     = "/categories/getCategories"
	paymentMethodsPath = "/payment-methods"
)

// ListCategories calls GET /categories/getCategories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	env, err := c.do(ctx, http.MethodGet, categoriesPath, nil, nil)
	if err != nil {
		return nil, err
	}
	var out []Category
	if err := decodeData(env, categoriesPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPaymentMethods calls GET /payment-methods.
func (c *Client) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	env, err := c.do(ctx, http.MethodGet, paymentMethodsPath, nil, nil)
	if err != nil {
		return nil, err
	}
	var out []PaymentMethod
	if err := decodeData(env, paymentMethodsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}
