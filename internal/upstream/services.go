package upstream

import (
	"context"
	"fmt"
	"net/http"
)

// Users fronts the user/address service.
type Users struct {
	c *Client
}

func NewUsers(baseURL string, client *http.Client) *Users {
	return &Users{c: NewClient(baseURL, client)}
}

func (u *Users) Get(ctx context.Context, userID int) (*Reply, error) {
	return u.c.GetJSON(ctx, fmt.Sprintf("/usuarios/%d", userID))
}

// Addresses fetches the user's address collection. The shape varies by
// deployment (bare list, wrapped list, single object); callers normalize it.
func (u *Users) Addresses(ctx context.Context, userID int) (*Reply, error) {
	return u.c.GetJSON(ctx, fmt.Sprintf("/direcciones/%d", userID))
}

func (u *Users) BaseURL() string { return u.c.BaseURL() }

// Products fronts the product/catalog service.
type Products struct {
	c *Client
}

func NewProducts(baseURL string, client *http.Client) *Products {
	return &Products{c: NewClient(baseURL, client)}
}

func (p *Products) Get(ctx context.Context, productID int) (*Reply, error) {
	return p.c.GetJSON(ctx, fmt.Sprintf("/productos/%d", productID))
}

func (p *Products) Categories(ctx context.Context) (*Reply, error) {
	return p.c.GetJSON(ctx, "/categorias")
}

// List is used by the deep health probe.
func (p *Products) List(ctx context.Context) (*Reply, error) {
	return p.c.GetJSON(ctx, "/productos")
}

func (p *Products) BaseURL() string { return p.c.BaseURL() }

// Orders fronts the order service.
type Orders struct {
	c *Client
}

func NewOrders(baseURL string, client *http.Client) *Orders {
	return &Orders{c: NewClient(baseURL, client)}
}

func (o *Orders) Create(ctx context.Context, payload any) (*Reply, error) {
	return o.c.PostJSON(ctx, "/pedidos", payload)
}

func (o *Orders) Get(ctx context.Context, orderID string) (*Reply, error) {
	return o.c.GetJSON(ctx, "/pedidos/"+orderID)
}

// List is used by the deep health probe.
func (o *Orders) List(ctx context.Context) (*Reply, error) {
	return o.c.GetJSON(ctx, "/pedidos")
}

func (o *Orders) UpdateState(ctx context.Context, orderID, state string) (*Reply, error) {
	return o.c.PutJSON(ctx, "/pedidos/"+orderID, map[string]any{"estado": state})
}

// PostHistory posts one candidate history payload to one candidate route.
// Route discovery lives in the orchestrator, not here.
func (o *Orders) PostHistory(ctx context.Context, path string, payload any) (*Reply, error) {
	return o.c.PostJSON(ctx, path, payload)
}

func (o *Orders) BaseURL() string { return o.c.BaseURL() }
