package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
)

// CartService owns the live carts, one per terminal, held in memory
// only. A cart is locally authoritative until submission; the database
// first hears about it when the order is rung up.
type CartService struct {
	mu         sync.Mutex
	carts      map[string]*entity.Cart
	submitting map[string]bool

	products  repository.ProductRepository
	display   *DisplayService
	companyID uuid.UUID
	logger    *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	products repository.ProductRepository,
	display *DisplayService,
	companyID uuid.UUID,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		carts:      make(map[string]*entity.Cart),
		submitting: make(map[string]bool),
		products:   products,
		display:    display,
		companyID:  companyID,
		logger:     logger,
	}
}

// locked; creates the cart on first touch.
func (s *CartService) cart(terminalID string) *entity.Cart {
	c, ok := s.carts[terminalID]
	if !ok {
		c = &entity.Cart{TerminalID: terminalID, CompanyID: s.companyID}
		s.carts[terminalID] = c
	}
	return c
}

// snapshot returns a deep copy safe to hand out of the lock.
func snapshot(c *entity.Cart) *entity.Cart {
	out := &entity.Cart{TerminalID: c.TerminalID, CompanyID: c.CompanyID}
	out.Lines = make([]entity.CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

// Get returns a copy of the terminal's current cart.
func (s *CartService) Get(terminalID string) *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.cart(terminalID))
}

// AddProduct adds qty units of a product to the cart. If the product
// is already in the cart its quantity is incremented on the existing
// line (merge-on-add); otherwise a new line is appended with price,
// VAT rate and descriptive fields copied from the catalog.
func (s *CartService) AddProduct(ctx context.Context, terminalID string, productID uuid.UUID, qty int) (*entity.Cart, error) {
	if qty < 1 {
		qty = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apperror.NewNotFoundError("Product")
	}

	s.mu.Lock()
	cart := s.cart(terminalID)
	if line := cart.FindProductLine(productID); line != nil {
		line.Quantity += qty
	} else {
		cart.Lines = append(cart.Lines, entity.CartLine{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      product.Name,
			Barcode:   product.Barcode,
			Reference: product.Reference,
			UOM:       product.UOM,
			ImageURL:  product.ImageURL,
			UnitPrice: product.SalePrice,
			Quantity:  qty,
			VATRate:   product.VATRate,
		})
	}
	out := snapshot(cart)
	s.mu.Unlock()

	s.publish(ctx, out)
	return out, nil
}

// Scan resolves a barcode or reference code and adds one unit of the
// match to the cart.
func (s *CartService) Scan(ctx context.Context, terminalID, code string) (*entity.Cart, error) {
	product, err := s.products.GetByScanCode(ctx, s.companyID, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return s.AddProduct(ctx, terminalID, product.ID, 1)
}

// SetQuantity replaces a line's quantity. A quantity of zero or less
// removes the line. The line keeps its identity; a removed line's ID
// is never reused.
func (s *CartService) SetQuantity(ctx context.Context, terminalID string, lineID uuid.UUID, qty int) (*entity.Cart, error) {
	s.mu.Lock()
	cart := s.cart(terminalID)
	line := cart.FindLine(lineID)
	if line == nil {
		s.mu.Unlock()
		return nil, apperror.NewNotFoundError("Cart line")
	}
	if qty <= 0 {
		s.removeLine(cart, lineID)
	} else {
		line.Quantity = qty
	}
	out := snapshot(cart)
	s.mu.Unlock()

	s.publish(ctx, out)
	return out, nil
}

// SetDiscount sets a line's discount percentage, clamped to [0, 100].
func (s *CartService) SetDiscount(ctx context.Context, terminalID string, lineID uuid.UUID, pct float64) (*entity.Cart, error) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	s.mu.Lock()
	cart := s.cart(terminalID)
	line := cart.FindLine(lineID)
	if line == nil {
		s.mu.Unlock()
		return nil, apperror.NewNotFoundError("Cart line")
	}
	line.DiscountPct = pct
	out := snapshot(cart)
	s.mu.Unlock()

	s.publish(ctx, out)
	return out, nil
}

// SetUnitPrice overrides a line's unit price. The catalog price is
// only the add-time default; supervisors may ring up a different one.
func (s *CartService) SetUnitPrice(ctx context.Context, terminalID string, lineID uuid.UUID, cents int64) (*entity.Cart, error) {
	if cents < 0 {
		return nil, apperror.NewBadRequestError("Unit price cannot be negative")
	}

	s.mu.Lock()
	cart := s.cart(terminalID)
	line := cart.FindLine(lineID)
	if line == nil {
		s.mu.Unlock()
		return nil, apperror.NewNotFoundError("Cart line")
	}
	line.UnitPrice = cents
	out := snapshot(cart)
	s.mu.Unlock()

	s.publish(ctx, out)
	return out, nil
}

// RemoveLine deletes a line from the cart.
func (s *CartService) RemoveLine(ctx context.Context, terminalID string, lineID uuid.UUID) (*entity.Cart, error) {
	s.mu.Lock()
	cart := s.cart(terminalID)
	if cart.FindLine(lineID) == nil {
		s.mu.Unlock()
		return nil, apperror.NewNotFoundError("Cart line")
	}
	s.removeLine(cart, lineID)
	out := snapshot(cart)
	s.mu.Unlock()

	s.publish(ctx, out)
	return out, nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, terminalID string) *entity.Cart {
	s.mu.Lock()
	cart := s.cart(terminalID)
	cart.Lines = nil
	out := snapshot(cart)
	s.mu.Unlock()

	s.publish(ctx, out)
	return out
}

// locked
func (s *CartService) removeLine(cart *entity.Cart, lineID uuid.UUID) {
	for i := range cart.Lines {
		if cart.Lines[i].ID == lineID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			return
		}
	}
}

// BeginSubmission marks the cart as checking out and returns its
// snapshot. At most one submission may be in flight per terminal; a
// second attempt while one is outstanding is rejected. The caller
// must finish with EndSubmission or CompleteSubmission.
func (s *CartService) BeginSubmission(terminalID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting[terminalID] {
		return nil, apperror.ErrSubmissionInFlight
	}
	cart := s.cart(terminalID)
	if cart.IsEmpty() {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	s.submitting[terminalID] = true
	return snapshot(cart), nil
}

// EndSubmission releases the submission lock after a failed checkout;
// the cart is left intact for the cashier to retry.
func (s *CartService) EndSubmission(terminalID string) {
	s.mu.Lock()
	delete(s.submitting, terminalID)
	s.mu.Unlock()
}

// CompleteSubmission releases the lock and empties the cart after a
// successful checkout.
func (s *CartService) CompleteSubmission(ctx context.Context, terminalID string) {
	s.mu.Lock()
	delete(s.submitting, terminalID)
	cart := s.cart(terminalID)
	cart.Lines = nil
	out := snapshot(cart)
	s.mu.Unlock()

	s.publish(ctx, out)
}

func (s *CartService) publish(ctx context.Context, cart *entity.Cart) {
	if s.display == nil {
		return
	}
	s.display.PublishCart(ctx, cart)
}
