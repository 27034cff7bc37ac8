package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/five82/nutmunch/internal/storefront"
)

// Line is one product's presence in the cart. Descriptive fields are a
// display snapshot taken at the last sync; the server reprices at checkout.
type Line struct {
	ProductID storefront.ProductID
	Quantity  int
	UnitPrice decimal.Decimal
	Name      string
	Category  string
	Weight    string
	Grade     string
	Origin    string
	ImageURL  string
}

// LineTotal is UnitPrice × Quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func lineFromProduct(p storefront.Product, quantity int) Line {
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("Product %s", p.ID)
	}
	return Line{
		ProductID: p.ID,
		Quantity:  quantity,
		UnitPrice: decimal.NewFromFloat(p.Price),
		Name:      name,
		Category:  p.Category,
		Weight:    p.Weight,
		Grade:     p.Grade,
		Origin:    p.Origin,
		ImageURL:  p.ImageURL,
	}
}

// State is an ordered set of lines keyed by product. At rest no two lines
// share a ProductID and every quantity is at least one.
//
// States are treated as immutable: every change builds a new Lines slice, so
// a State held as a rollback snapshot never aliases the live one.
type State struct {
	Lines []Line
}

// Clone returns a deep copy.
func (s State) Clone() State {
	if len(s.Lines) == 0 {
		return State{}
	}
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return State{Lines: lines}
}

// Find returns the line for id.
func (s State) Find(id storefront.ProductID) (Line, bool) {
	if i := s.index(id); i >= 0 {
		return s.Lines[i], true
	}
	return Line{}, false
}

func (s State) index(id storefront.ProductID) int {
	for i, line := range s.Lines {
		if line.ProductID == id {
			return i
		}
	}
	return -1
}

// Empty reports whether the cart has no lines.
func (s State) Empty() bool { return len(s.Lines) == 0 }

// LineCount is the number of distinct products.
func (s State) LineCount() int { return len(s.Lines) }

// TotalQuantity sums quantities across lines.
func (s State) TotalQuantity() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

// Subtotal sums UnitPrice × Quantity across lines.
func (s State) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range s.Lines {
		sum = sum.Add(line.LineTotal())
	}
	return sum
}

// withAdded increments an existing line or appends a new one.
func (s State) withAdded(line Line, quantity int) State {
	next := s.Clone()
	if i := next.index(line.ProductID); i >= 0 {
		next.Lines[i].Quantity += quantity
		return next
	}
	line.Quantity = quantity
	next.Lines = append(next.Lines, line)
	return next
}

func (s State) without(id storefront.ProductID) State {
	lines := make([]Line, 0, len(s.Lines))
	for _, line := range s.Lines {
		if line.ProductID != id {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return State{}
	}
	return State{Lines: lines}
}

func (s State) withQuantity(id storefront.ProductID, quantity int) State {
	next := s.Clone()
	if i := next.index(id); i >= 0 {
		next.Lines[i].Quantity = quantity
	}
	return next
}

// normalizeLines converts fetched rows into a State. Rows at or below zero
// are the backend's tombstones and are dropped. Duplicate rows for one
// product are merged in first-seen order.
func normalizeLines(items []storefront.CartItem) State {
	var lines []Line
	seen := make(map[storefront.ProductID]int, len(items))
	for _, item := range items {
		id := item.ProductID
		if id == "" && item.Product != nil {
			id = item.Product.ID
		}
		if id == "" {
			continue
		}
		if i, ok := seen[id]; ok {
			lines[i].Quantity += item.Quantity
			continue
		}
		product := storefront.Product{ID: id}
		if item.Product != nil {
			product = *item.Product
			product.ID = id
		}
		seen[id] = len(lines)
		lines = append(lines, lineFromProduct(product, item.Quantity))
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return State{}
	}
	return State{Lines: kept}
}
