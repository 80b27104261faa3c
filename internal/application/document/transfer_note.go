// Package document arma los documentos imprimibles del flujo de traslados.
package document

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	domtransfer "github.com/jhoicas/Traslados-api/internal/domain/transfer"
)

// TransferNote datos de la guía de traslado lista para render.
type TransferNote struct {
	Number       string
	Status       string
	TransferDate time.Time
	FromLocation string
	ToLocation   string
	Notes        string
	Items        []TransferNoteItem
	GeneratedAt  time.Time
}

// TransferNoteItem línea de la guía con nombres resueltos y seriales.
type TransferNoteItem struct {
	ProductName   string
	VariationName string
	Quantity      decimal.Decimal
	SerialCodes   []string
}

// PDFGenerator puerto de render de la guía de traslado.
type PDFGenerator interface {
	TransferNote(note *TransferNote) ([]byte, error)
}

// UseCase genera la guía de traslado (PDF) de un traslado visible al actor.
type UseCase struct {
	transferRepo repository.StockTransferRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	serialRepo   repository.SerialNumberRepository
	resolver     *access.Resolver
	generator    PDFGenerator
}

// NewUseCase construye el caso de uso de documentos.
func NewUseCase(
	transferRepo repository.StockTransferRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	serialRepo repository.SerialNumberRepository,
	resolver *access.Resolver,
	generator PDFGenerator,
) *UseCase {
	return &UseCase{
		transferRepo: transferRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		serialRepo:   serialRepo,
		resolver:     resolver,
		generator:    generator,
	}
}

// TransferNote genera el PDF de la guía. Solo hay guía desde el despacho:
// un borrador o un traslado apenas aprobado no tiene mercancía en camino.
func (uc *UseCase) TransferNote(ctx context.Context, actor access.Actor, transferID string) ([]byte, error) {
	t, err := uc.transferRepo.GetByID(ctx, actor.BusinessID, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	ok, err := uc.resolver.CanView(ctx, actor, t.FromLocationID, t.ToLocationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	if !domtransfer.StockDeducted(t.Status) {
		return nil, domain.ErrConflict
	}

	productIDs := make([]string, 0, len(t.Items))
	variationIDs := make([]string, 0, len(t.Items))
	serialIDs := []string{}
	for _, it := range t.Items {
		productIDs = append(productIDs, it.ProductID)
		variationIDs = append(variationIDs, it.VariationID)
		serialIDs = append(serialIDs, it.SerialNumberIDs...)
	}
	products, err := uc.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	variations, err := uc.productRepo.GetVariationsByIDs(ctx, variationIDs)
	if err != nil {
		return nil, err
	}
	locations, err := uc.locationRepo.GetByIDs(ctx, []string{t.FromLocationID, t.ToLocationID})
	if err != nil {
		return nil, err
	}
	serialCode := map[string]string{}
	if len(serialIDs) > 0 {
		serials, err := uc.serialRepo.GetByIDs(ctx, t.BusinessID, serialIDs)
		if err != nil {
			return nil, err
		}
		for _, s := range serials {
			serialCode[s.ID] = s.Code
		}
	}

	note := &TransferNote{
		Number:       t.Number,
		Status:       t.Status,
		TransferDate: t.TransferDate,
		Notes:        t.Notes,
		GeneratedAt:  time.Now(),
	}
	if l := locations[t.FromLocationID]; l != nil {
		note.FromLocation = l.Name
	}
	if l := locations[t.ToLocationID]; l != nil {
		note.ToLocation = l.Name
	}
	for _, it := range t.Items {
		item := TransferNoteItem{Quantity: it.Quantity}
		if p := products[it.ProductID]; p != nil {
			item.ProductName = p.Name
		}
		if v := variations[it.VariationID]; v != nil {
			item.VariationName = v.Name
		}
		for _, id := range it.SerialNumberIDs {
			if code, ok := serialCode[id]; ok {
				item.SerialCodes = append(item.SerialCodes, code)
			}
		}
		note.Items = append(note.Items, item)
	}
	return uc.generator.TransferNote(note)
}
