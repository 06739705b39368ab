package domain

import "time"

type OrderState string

const (
	OrderStatePending   OrderState = "pending"
	OrderStateCancelled OrderState = "cancelled"
)

// CartLine is one requested line of a quote or order, as sent by the client.
// ExpectedUnitPrice is an optional guard: when set, the quote compares it
// against the authoritative price and flags drift.
type CartLine struct {
	ProductID         int      `json:"product_id"`
	Quantity          int      `json:"quantity"`
	ExpectedUnitPrice *float64 `json:"expected_unit_price,omitempty"`
}

type QuoteRequest struct {
	UserID    int        `json:"user_id"`
	AddressID *int       `json:"address_id,omitempty"`
	Items     []CartLine `json:"items"`
}

type OrderRequest struct {
	UserID    int        `json:"user_id"`
	AddressID int        `json:"address_id"`
	Items     []CartLine `json:"items"`
}

type IssueReason string

const (
	IssueNotFound     IssueReason = "NOT_FOUND"
	IssuePriceChanged IssueReason = "PRICE_CHANGED"
)

type QuoteIssue struct {
	ProductID int         `json:"product_id"`
	Reason    IssueReason `json:"reason"`
}

// QuoteLine is a request line resolved against the product service. Category
// fields stay nil when enrichment was skipped or the product has no category.
type QuoteLine struct {
	ProductID    int     `json:"product_id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	Quantity     int     `json:"quantity"`
	LineTotal    float64 `json:"line_total"`
	CategoryID   *int    `json:"category_id"`
	CategoryName *string `json:"category_name"`
	PriceChanged bool    `json:"price_changed"`
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Taxes    float64 `json:"taxes"`
	Total    float64 `json:"total"`
}

type Quote struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Items       []QuoteLine  `json:"items"`
	Issues      []QuoteIssue `json:"issues"`
	Totals      Totals       `json:"totals"`
}

type OrderLine struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreatedOrder is the orchestrator's view of a freshly created order. OrderID
// is whatever identifier the order service assigned; it is never generated
// locally.
type CreatedOrder struct {
	OrderID           string      `json:"order_id"`
	State             OrderState  `json:"status"`
	Totals            Totals      `json:"totals"`
	Lines             []OrderLine `json:"lines"`
	DeliveryAddressID int         `json:"delivery_address_id"`
	CreatedAt         time.Time   `json:"created_at"`
	Warnings          []string    `json:"warnings,omitempty"`
}

type CancelledOrder struct {
	OrderID  string     `json:"order_id"`
	State    OrderState `json:"status"`
	Warnings []string   `json:"warnings,omitempty"`
}
