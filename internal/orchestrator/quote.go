package orchestrator

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/ccastillo/delivery-orchestrator/internal/domain"
	"github.com/ccastillo/delivery-orchestrator/internal/schema"
	"github.com/ccastillo/delivery-orchestrator/internal/upstream"
)

// priceDriftTolerance bounds the difference between the client's expected
// price and the authoritative one before drift is flagged.
const priceDriftTolerance = 1e-6

// PriceQuote resolves every cart line against the product service and
// computes totals. Unknown users and foreign addresses abort; everything else
// degrades per line: an unresolvable product becomes a NOT_FOUND issue, price
// drift becomes a PRICE_CHANGED issue while the quote proceeds on the
// authoritative price, and category enrichment is entirely best-effort.
// Quoting has no side effects and is always safe to retry.
func (o *Orchestrator) PriceQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	if err := o.ensureUserAndAddress(ctx, req.UserID, req.AddressID); err != nil {
		return nil, err
	}

	replies := o.fetchProducts(ctx, req.Items)

	items := []domain.QuoteLine{}
	issues := []domain.QuoteIssue{}
	var lineTotals []float64
	// Product bodies are retained per resolved line so the category pass does
	// not need a second round of fetches.
	var resolved []map[string]any

	for i, line := range req.Items {
		reply := replies[i]
		if reply == nil || reply.Status != 200 {
			issues = append(issues, domain.QuoteIssue{ProductID: line.ProductID, Reason: domain.IssueNotFound})
			continue
		}

		product := reply.Record()
		name := fieldProductName.String(product, fmt.Sprintf("producto:%d", line.ProductID))
		unitPrice := fieldProductPrice.Float(product, 0)
		lineTotal := round2(unitPrice * float64(line.Quantity))
		lineTotals = append(lineTotals, lineTotal)

		priceChanged := line.ExpectedUnitPrice != nil &&
			math.Abs(unitPrice-*line.ExpectedUnitPrice) > priceDriftTolerance
		if priceChanged {
			issues = append(issues, domain.QuoteIssue{ProductID: line.ProductID, Reason: domain.IssuePriceChanged})
		}

		items = append(items, domain.QuoteLine{
			ProductID:    line.ProductID,
			Name:         name,
			UnitPrice:    unitPrice,
			Quantity:     line.Quantity,
			LineTotal:    lineTotal,
			PriceChanged: priceChanged,
		})
		resolved = append(resolved, product)
	}

	o.enrichCategories(ctx, items, resolved)

	o.metrics.quotes.Add(ctx, 1)
	o.logger.Info("quote produced", "user_id", req.UserID, "lines", len(items), "issues", len(issues))

	return &domain.Quote{
		GeneratedAt: nowUTC(),
		Items:       items,
		Issues:      issues,
		Totals:      computeTotals(lineTotals, o.taxRate),
	}, nil
}

// fetchProducts issues one lookup per line concurrently. The result slice is
// index-aligned with the input lines regardless of completion order. A failed
// call leaves a nil entry, which callers treat like a non-200.
func (o *Orchestrator) fetchProducts(ctx context.Context, lines []domain.CartLine) []*upstream.Reply {
	replies := make([]*upstream.Reply, len(lines))
	var wg sync.WaitGroup
	for i, line := range lines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reply, err := o.products.Get(ctx, line.ProductID)
			if err != nil {
				o.logger.Warn("product fetch failed", "product_id", line.ProductID, "error", err)
				return
			}
			replies[i] = reply
		}()
	}
	wg.Wait()
	return replies
}

// enrichCategories annotates resolved lines with category names. Every step
// is optional: a missing category id, an unreachable /categorias, or an
// unparseable entry leaves the line without category data, never fails the
// quote.
func (o *Orchestrator) enrichCategories(ctx context.Context, items []domain.QuoteLine, products []map[string]any) {
	anyCategory := false
	for i, product := range products {
		if id, ok := fieldCategoryID.Int(product); ok {
			cid := id
			items[i].CategoryID = &cid
			anyCategory = true
		}
	}
	if !anyCategory {
		return
	}

	reply, err := o.products.Categories(ctx)
	if err != nil || reply.Status != 200 {
		o.logger.Warn("category fetch skipped", "error", err)
		return
	}
	list, ok := reply.Body.([]any)
	if !ok {
		return
	}

	names := make(map[int]string, len(list))
	for _, entry := range list {
		record := schema.AsRecord(entry)
		id, ok := fieldCategoryEntryID.Int(record)
		if !ok {
			continue
		}
		names[id] = fieldCategoryName.String(record, "")
	}

	for i := range items {
		if items[i].CategoryID == nil {
			continue
		}
		if name, ok := names[*items[i].CategoryID]; ok && name != "" {
			n := name
			items[i].CategoryName = &n
		}
	}
}
