package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/pkg/broadcast"
)

// DisplayService fans live-cart snapshots out to attached customer
// displays. Every cart mutation produces a full snapshot; a display
// that attaches mid-sale receives the current state immediately.
type DisplayService struct {
	hub       *broadcast.Hub[entity.DisplaySnapshot]
	companies repository.CompanyRepository
	companyID uuid.UUID
	idleText  string
	logger    *zap.Logger

	once        sync.Once
	companyName string
	companyLogo string
}

// NewDisplayService creates a new display service
func NewDisplayService(companies repository.CompanyRepository, companyID uuid.UUID, idleText string, logger *zap.Logger) *DisplayService {
	return &DisplayService{
		hub:       broadcast.NewHub[entity.DisplaySnapshot](),
		companies: companies,
		companyID: companyID,
		idleText:  idleText,
		logger:    logger,
	}
}

// PublishCart broadcasts the cart's current state to all displays.
func (s *DisplayService) PublishCart(ctx context.Context, cart *entity.Cart) {
	s.hub.Publish(s.Snapshot(ctx, cart))
}

// Snapshot builds the display payload for a cart.
func (s *DisplayService) Snapshot(ctx context.Context, cart *entity.Cart) entity.DisplaySnapshot {
	name, logo := s.companyBranding(ctx)

	snap := entity.DisplaySnapshot{
		Type:        entity.DisplaySnapshotType,
		Cart:        make([]entity.DisplayLine, 0, len(cart.Lines)),
		CompanyName: name,
		CompanyLogo: logo,
	}

	for i := range cart.Lines {
		line := &cart.Lines[i]
		amounts := line.Amounts()
		snap.Cart = append(snap.Cart, entity.DisplayLine{
			Name:        line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   float64(line.UnitPrice) / 100,
			DiscountPct: line.DiscountPct,
			VATRate:     line.VATRate,
			ImageURL:    line.ImageURL,
			SubTotal:    float64(amounts.SubTotal) / 100,
			Total:       float64(amounts.Total) / 100,
		})
	}

	totals := cart.Totals()
	snap.SubTotal = float64(totals.SubTotal) / 100
	snap.Tax = float64(totals.Tax) / 100
	snap.Total = float64(totals.Total) / 100

	if cart.IsEmpty() {
		snap.IdleText = s.idleText
	}
	return snap
}

// Subscribe attaches a display feed. The returned channel yields full
// snapshots, starting with the most recent one if any sale is in
// progress. Call cancel when the display disconnects.
func (s *DisplayService) Subscribe() (<-chan entity.DisplaySnapshot, func()) {
	return s.hub.Subscribe()
}

// SubscriberCount returns the number of attached displays.
func (s *DisplayService) SubscriberCount() int {
	return s.hub.SubscriberCount()
}

// Close shuts the hub down, detaching all displays.
func (s *DisplayService) Close() {
	s.hub.Close()
}

// companyBranding loads the merchant name and logo once; displays show
// them on the idle screen and above the cart.
func (s *DisplayService) companyBranding(ctx context.Context) (string, string) {
	s.once.Do(func() {
		company, err := s.companies.GetByID(ctx, s.companyID)
		if err != nil || company == nil {
			s.logger.Warn("failed to load company branding for display", zap.Error(err))
			return
		}
		s.companyName = company.Name
		s.companyLogo = company.LogoURL
	})
	return s.companyName, s.companyLogo
}
