package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go-storefront/models"
)

// Products lists the catalog
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, "list_products", http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func bucketPath(userID string) string {
	return fmt.Sprintf("/users/%s/bucket", url.PathEscape(userID))
}

// Cart returns the user's persisted cart
func (c *Client) Cart(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := c.do(ctx, "get_cart", http.MethodGet, bucketPath(userID), nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// AddToCart persists one more unit of productID in the user's cart
func (c *Client) AddToCart(ctx context.Context, userID string, productID models.ID) error {
	body := models.AddToCartRequest{ProductID: productID}
	return c.do(ctx, "add_to_cart", http.MethodPost, bucketPath(userID), body, nil)
}

// RemoveFromCart deletes productID from the user's cart
func (c *Client) RemoveFromCart(ctx context.Context, userID string, productID models.ID) error {
	endpoint := bucketPath(userID) + "/" + url.PathEscape(productID.String())
	return c.do(ctx, "remove_from_cart", http.MethodDelete, endpoint, nil, nil)
}
