package transfer_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	apptransfer "github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un memStore implementa los puertos transaccionales y el
// TxRunner de prueba lo fotografía antes de cada callback para simular el
// rollback (ninguna mutación sobrevive a un error).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	transfers  map[string]*entity.StockTransfer
	steps      []entity.TransferStep
	sequences  map[string]int64
	serials    map[string]*entity.SerialNumber
	serialMovs []*entity.SerialMovement
	entries    []*entity.StockEntry
	balances   map[string]decimal.Decimal // variationID|locationID
}

func newMemStore() *memStore {
	return &memStore{
		transfers: map[string]*entity.StockTransfer{},
		sequences: map[string]int64{},
		serials:   map[string]*entity.SerialNumber{},
		balances:  map[string]decimal.Decimal{},
	}
}

func balKey(variationID, locationID string) string { return variationID + "|" + locationID }

// setStock siembra saldo inicial como una entrada de ledger coherente.
func (m *memStore) setStock(businessID, productID, variationID, locationID string, qty decimal.Decimal) {
	m.balances[balKey(variationID, locationID)] = qty
	m.entries = append(m.entries, &entity.StockEntry{
		ID: "seed-" + variationID + "-" + locationID, BusinessID: businessID,
		ProductID: productID, VariationID: variationID, LocationID: locationID,
		Quantity: qty, Balance: qty, RefType: entity.RefTypeAdjustment, RefID: "seed",
	})
}

// sumEntries suma las cantidades firmadas del par (invariante del ledger).
func (m *memStore) sumEntries(variationID, locationID string) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.VariationID == variationID && e.LocationID == locationID {
			sum = sum.Add(e.Quantity)
		}
	}
	return sum
}

func (m *memStore) movementsByType(refID, typ string) []*entity.SerialMovement {
	var out []*entity.SerialMovement
	for _, mv := range m.serialMovs {
		if mv.RefID == refID && mv.Type == typ {
			out = append(out, mv)
		}
	}
	return out
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	for id, t := range m.transfers {
		tt := *t
		tt.Items = append([]entity.StockTransferItem(nil), t.Items...)
		c.transfers[id] = &tt
	}
	c.steps = append([]entity.TransferStep(nil), m.steps...)
	for k, v := range m.sequences {
		c.sequences[k] = v
	}
	for id, s := range m.serials {
		ss := *s
		c.serials[id] = &ss
	}
	c.serialMovs = append([]*entity.SerialMovement(nil), m.serialMovs...)
	c.entries = append([]*entity.StockEntry(nil), m.entries...)
	for k, v := range m.balances {
		c.balances[k] = v
	}
	return c
}

func (m *memStore) restore(from *memStore) {
	m.transfers = from.transfers
	m.steps = from.steps
	m.sequences = from.sequences
	m.serials = from.serials
	m.serialMovs = from.serialMovs
	m.entries = from.entries
	m.balances = from.balances
}

// ── StockTransferRepository ──

func (m *memStore) Create(_ context.Context, t *entity.StockTransfer) error {
	m.transfers[t.ID] = t
	return nil
}

func (m *memStore) GetByID(_ context.Context, businessID, id string) (*entity.StockTransfer, error) {
	t, ok := m.transfers[id]
	if !ok || t.BusinessID != businessID {
		return nil, nil
	}
	return t, nil
}

func (m *memStore) GetByIDForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	return m.GetByID(ctx, businessID, id)
}

func (m *memStore) UpdateStatus(_ context.Context, id, status string) error {
	m.transfers[id].Status = status
	return nil
}

func (m *memStore) UpdateHeader(_ context.Context, id string, transferDate time.Time, notes string) error {
	t := m.transfers[id]
	t.TransferDate = transferDate
	t.Notes = notes
	return nil
}

func (m *memStore) UpdateItemReceived(_ context.Context, itemID string, qty decimal.Decimal) error {
	for _, t := range m.transfers {
		for i := range t.Items {
			if t.Items[i].ID == itemID {
				t.Items[i].ReceivedQuantity = qty
				return nil
			}
		}
	}
	return nil
}

func (m *memStore) MarkCancelled(_ context.Context, id string, at time.Time) error {
	t := m.transfers[id]
	t.Status = entity.TransferStatusCancelled
	t.CancelledAt = &at
	return nil
}

func (m *memStore) List(_ context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	for _, t := range m.transfers {
		if t.BusinessID != f.BusinessID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.LocationID != "" && t.FromLocationID != f.LocationID && t.ToLocationID != f.LocationID {
			continue
		}
		if f.LocationIDs != nil && !touchesAny(t, f.LocationIDs) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func touchesAny(t *entity.StockTransfer, ids []string) bool {
	for _, id := range ids {
		if t.FromLocationID == id || t.ToLocationID == id {
			return true
		}
	}
	return false
}

// ── TransferStepRepository / TransferSequenceRepository ──

func (m *memStore) Append(_ context.Context, step *entity.TransferStep) error {
	m.steps = append(m.steps, *step)
	return nil
}

func (m *memStore) ListByTransfer(_ context.Context, transferID string) ([]entity.TransferStep, error) {
	var out []entity.TransferStep
	for _, s := range m.steps {
		if s.TransferID == transferID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) Next(_ context.Context, businessID, period string) (int64, error) {
	key := businessID + "|" + period
	m.sequences[key]++
	return m.sequences[key], nil
}

// ── SerialNumberRepository / SerialMovementRepository ──

func (m *memStore) GetByIDs(_ context.Context, businessID string, ids []string) ([]*entity.SerialNumber, error) {
	var out []*entity.SerialNumber
	for _, id := range ids {
		if s, ok := m.serials[id]; ok && s.BusinessID == businessID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) GetByIDsForUpdate(ctx context.Context, businessID string, ids []string) ([]*entity.SerialNumber, error) {
	return m.GetByIDs(ctx, businessID, ids)
}

func (m *memStore) UpdateStatusLocation(_ context.Context, id, status, locationID string) error {
	s := m.serials[id]
	s.Status = status
	s.LocationID = locationID
	return nil
}

type serialMovRepo struct{ m *memStore }

func (r serialMovRepo) Append(_ context.Context, mv *entity.SerialMovement) error {
	r.m.serialMovs = append(r.m.serialMovs, mv)
	return nil
}

func (r serialMovRepo) ListBySerial(_ context.Context, serialNumberID string, _, _ int) ([]*entity.SerialMovement, error) {
	var out []*entity.SerialMovement
	for _, mv := range r.m.serialMovs {
		if mv.SerialNumberID == serialNumberID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (r serialMovRepo) ListByRef(_ context.Context, refType, refID string) ([]*entity.SerialMovement, error) {
	var out []*entity.SerialMovement
	for _, mv := range r.m.serialMovs {
		if mv.RefType == refType && mv.RefID == refID {
			out = append(out, mv)
		}
	}
	return out, nil
}

// ── StockLedgerRepository ──

type ledgerRepo struct{ m *memStore }

func (r ledgerRepo) Balance(_ context.Context, variationID, locationID string) (decimal.Decimal, error) {
	return r.m.balances[balKey(variationID, locationID)], nil
}

func (r ledgerRepo) BalanceForUpdate(ctx context.Context, variationID, locationID string) (decimal.Decimal, error) {
	return r.Balance(ctx, variationID, locationID)
}

func (r ledgerRepo) Append(_ context.Context, e *entity.StockEntry) error {
	r.m.entries = append(r.m.entries, e)
	r.m.balances[balKey(e.VariationID, e.LocationID)] = e.Balance
	return nil
}

func (r ledgerRepo) ListByVariationLocation(_ context.Context, variationID, locationID string, _, _ int) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for _, e := range r.m.entries {
		if e.VariationID == variationID && e.LocationID == locationID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── TxRunner de prueba con rollback por snapshot ──

type fakeTxRunner struct{ m *memStore }

func (f fakeTxRunner) RunTransfer(_ context.Context, fn func(apptransfer.TxRepos) error) error {
	snapshot := f.m.clone()
	err := fn(apptransfer.TxRepos{
		Transfers:  f.m,
		Steps:      f.m,
		Sequences:  f.m,
		Serials:    f.m,
		SerialMovs: serialMovRepo{f.m},
		Ledger:     ledgerRepo{f.m},
	})
	if err != nil {
		f.m.restore(snapshot)
	}
	return err
}

// ── Catálogos de solo lectura ──

type fakeCatalog struct {
	locations  map[string]*entity.Location
	products   map[string]*entity.Product
	variations map[string]*entity.ProductVariation
	users      map[string]*entity.User
	userLocs   map[string][]string
	sod        map[string]*entity.SODSettings
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return f.locations[id], nil
}

func (f *fakeCatalog) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Location, error) {
	out := map[string]*entity.Location{}
	for _, id := range ids {
		if l, ok := f.locations[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

func (f *fakeCatalog) Create(_ context.Context, l *entity.Location) error {
	f.locations[l.ID] = l
	return nil
}

func (f *fakeCatalog) ListByBusiness(_ context.Context, businessID string, _, _ int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range f.locations {
		if l.BusinessID == businessID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeProducts struct{ c *fakeCatalog }

func (f fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return f.c.products[id], nil
}

func (f fakeProducts) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p, ok := f.c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f fakeProducts) GetVariationsByIDs(_ context.Context, ids []string) (map[string]*entity.ProductVariation, error) {
	out := map[string]*entity.ProductVariation{}
	for _, id := range ids {
		if v, ok := f.c.variations[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

type fakeUsers struct{ c *fakeCatalog }

func (f fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.c.users[id], nil
}

func (f fakeUsers) GetByIDs(_ context.Context, ids []string) (map[string]*entity.User, error) {
	out := map[string]*entity.User{}
	for _, id := range ids {
		if u, ok := f.c.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f fakeUsers) GetByUsername(_ context.Context, businessID, username string) (*entity.User, error) {
	for _, u := range f.c.users {
		if u.BusinessID == businessID && u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

type fakeUserLocs struct{ c *fakeCatalog }

func (f fakeUserLocs) LocationIDsForUser(_ context.Context, userID string) ([]string, error) {
	return f.c.userLocs[userID], nil
}

func (f fakeUserLocs) Assign(_ context.Context, userID, locationID string) error {
	f.c.userLocs[userID] = append(f.c.userLocs[userID], locationID)
	return nil
}

func (f fakeUserLocs) Unassign(_ context.Context, _, _ string) error { return nil }

type fakeSOD struct{ c *fakeCatalog }

func (f fakeSOD) GetByBusiness(_ context.Context, businessID string) (*entity.SODSettings, error) {
	return f.c.sod[businessID], nil
}

func (f fakeSOD) Upsert(_ context.Context, s *entity.SODSettings) error {
	f.c.sod[s.BusinessID] = s
	return nil
}

// ── Sidecars y reloj ──

type recordingAudit struct{ entries []*entity.AuditEntry }

func (a *recordingAudit) Record(_ context.Context, e *entity.AuditEntry) {
	a.entries = append(a.entries, e)
}

type recordingNotifier struct{ summaries []apptransfer.Summary }

func (n *recordingNotifier) Notify(s apptransfer.Summary) {
	n.summaries = append(n.summaries, s)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func (c fixedClock) Today() time.Time {
	return time.Date(c.now.Year(), c.now.Month(), c.now.Day(), 0, 0, 0, 0, c.now.Location())
}
