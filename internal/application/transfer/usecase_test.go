package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Traslados-api/internal/application/access"
	"github.com/jhoicas/Traslados-api/internal/application/dto"
	apptransfer "github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escenario base: negocio "biz" con sedes bodega y tienda, producto con una
// variación, tres operadores (ana en ambas sedes, luis en bodega, rosa en
// tienda) y SOD apagado salvo que el test lo encienda.
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	store *memStore
	cat   *fakeCatalog
	audit *recordingAudit
	notif *recordingNotifier
	uc    *apptransfer.UseCase
}

var allTransferPerms = []string{
	entity.PermTransferCreate, entity.PermTransferCheck, entity.PermTransferSend,
	entity.PermTransferReceive, entity.PermTransferComplete,
	entity.PermTransferCancel, entity.PermTransferUpdate,
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := newMemStore()
	cat := &fakeCatalog{
		locations: map[string]*entity.Location{
			"bodega": {ID: "bodega", BusinessID: "biz", Name: "Bodega Central"},
			"tienda": {ID: "tienda", BusinessID: "biz", Name: "Tienda Norte"},
			"ajena":  {ID: "ajena", BusinessID: "otro", Name: "Sede Ajena"},
		},
		products: map[string]*entity.Product{
			"prodA": {ID: "prodA", BusinessID: "biz", Name: "Producto A"},
		},
		variations: map[string]*entity.ProductVariation{
			"varA": {ID: "varA", ProductID: "prodA", Name: "Única"},
		},
		users: map[string]*entity.User{
			"ana":  {ID: "ana", BusinessID: "biz", Name: "Ana"},
			"luis": {ID: "luis", BusinessID: "biz", Name: "Luis"},
			"rosa": {ID: "rosa", BusinessID: "biz", Name: "Rosa"},
		},
		userLocs: map[string][]string{
			"ana":  {"bodega", "tienda"},
			"luis": {"bodega"},
			"rosa": {"tienda"},
		},
		sod: map[string]*entity.SODSettings{
			"biz": {BusinessID: "biz", EnforceTransferSOD: false},
		},
	}
	audit := &recordingAudit{}
	notif := &recordingNotifier{}
	uc := apptransfer.NewUseCase(apptransfer.Deps{
		TxRunner:     fakeTxRunner{store},
		TransferRepo: store,
		StepRepo:     store,
		LocationRepo: cat,
		ProductRepo:  fakeProducts{cat},
		UserRepo:     fakeUsers{cat},
		SerialRepo:   store,
		SODRepo:      fakeSOD{cat},
		Resolver:     access.NewResolver(fakeUserLocs{cat}),
		Audit:        audit,
		Notifier:     notif,
		Clock:        fixedClock{time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)},
	})
	return &env{store: store, cat: cat, audit: audit, notif: notif, uc: uc}
}

func actor(id string, perms ...string) access.Actor {
	if perms == nil {
		perms = allTransferPerms
	}
	return access.Actor{ID: id, BusinessID: "biz", Username: id, Permissions: perms}
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func (e *env) create(t *testing.T, by access.Actor, serialIDs []string, n int64) *dto.TransferResponse {
	t.Helper()
	resp, err := e.uc.Create(context.Background(), by, dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items: []dto.CreateTransferItemRequest{
			{ProductID: "prodA", VariationID: "varA", Quantity: qty(n), SerialNumberIDs: serialIDs},
		},
	})
	require.NoError(t, err)
	return resp
}

func (e *env) seedSerial(id, status, locationID string) {
	e.store.serials[id] = &entity.SerialNumber{
		ID: id, BusinessID: "biz", ProductID: "prodA", VariationID: "varA",
		Code: "SN-" + id, Status: status, LocationID: locationID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Feliz(t *testing.T) {
	e := newEnv(t)
	resp := e.create(t, actor("ana"), nil, 5)

	assert.Equal(t, "TR-202503-0001", resp.Number)
	assert.Equal(t, entity.TransferStatusDraft, resp.Status)
	assert.False(t, resp.StockDeducted)

	steps, _ := e.store.ListByTransfer(context.Background(), resp.ID)
	require.Len(t, steps, 1)
	assert.Equal(t, entity.TransferStepCreate, steps[0].Step)
	assert.Equal(t, "ana", steps[0].ActorID)

	require.Len(t, e.notif.summaries, 1)
	assert.Equal(t, entity.TransferStepCreate, e.notif.summaries[0].Step)
	require.Len(t, e.audit.entries, 1)
	assert.Equal(t, "transfer.create", e.audit.entries[0].Action)
}

func TestCreate_ConsecutivoPorNegocioYMes(t *testing.T) {
	e := newEnv(t)
	first := e.create(t, actor("ana"), nil, 1)
	second := e.create(t, actor("ana"), nil, 2)
	assert.Equal(t, "TR-202503-0001", first.Number)
	assert.Equal(t, "TR-202503-0002", second.Number)
}

func TestCreate_MismoOrigenYDestino(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "bodega",
		Items:          []dto.CreateTransferItemRequest{{ProductID: "prodA", VariationID: "varA", Quantity: qty(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, e.store.transfers, "no debe persistirse encabezado alguno")
}

func TestCreate_CantidadNoPositiva(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items:          []dto.CreateTransferItemRequest{{ProductID: "prodA", VariationID: "varA", Quantity: qty(0)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items:          []dto.CreateTransferItemRequest{},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas también es inválido")
}

func TestCreate_ConteoDeSerialesDistintoDeCantidad(t *testing.T) {
	e := newEnv(t)
	e.seedSerial("s1", entity.SerialStatusInStock, "bodega")
	e.seedSerial("s2", entity.SerialStatusInStock, "bodega")

	_, err := e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items: []dto.CreateTransferItemRequest{
			{ProductID: "prodA", VariationID: "varA", Quantity: qty(3), SerialNumberIDs: []string{"s1", "s2"}},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, e.store.transfers)
}

func TestCreate_SerialVendidoRechazado(t *testing.T) {
	e := newEnv(t)
	e.seedSerial("s1", entity.SerialStatusInStock, "bodega")
	e.seedSerial("s2", entity.SerialStatusInStock, "bodega")
	e.seedSerial("s3", entity.SerialStatusSold, "bodega") // ya vendido

	_, err := e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items: []dto.CreateTransferItemRequest{
			{ProductID: "prodA", VariationID: "varA", Quantity: qty(3), SerialNumberIDs: []string{"s1", "s2", "s3"}},
		},
	})
	assert.ErrorIs(t, err, domain.ErrSerialUnavailable)
	assert.Empty(t, e.store.transfers, "ningún encabezado persistido")
	assert.Equal(t, entity.SerialStatusSold, e.store.serials["s3"].Status, "ningún serial cambia de estado")
	assert.Equal(t, entity.SerialStatusInStock, e.store.serials["s1"].Status)
}

func TestCreate_SerialEnOtraSedeRechazado(t *testing.T) {
	e := newEnv(t)
	e.seedSerial("s1", entity.SerialStatusInStock, "tienda") // no está en la sede origen

	_, err := e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items: []dto.CreateTransferItemRequest{
			{ProductID: "prodA", VariationID: "varA", Quantity: qty(1), SerialNumberIDs: []string{"s1"}},
		},
	})
	assert.ErrorIs(t, err, domain.ErrSerialUnavailable)
}

func TestCreate_SinAccesoASedeOrigen(t *testing.T) {
	e := newEnv(t)
	// rosa solo está asignada a tienda; el origen es bodega.
	_, err := e.uc.Create(context.Background(), actor("rosa"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items:          []dto.CreateTransferItemRequest{{ProductID: "prodA", VariationID: "varA", Quantity: qty(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_CapacidadTodasLasSedesPermiteOrigen(t *testing.T) {
	e := newEnv(t)
	root := access.Actor{ID: "root", BusinessID: "biz",
		Permissions: append([]string{entity.PermAllLocations}, allTransferPerms...)}
	resp, err := e.uc.Create(context.Background(), root, dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items:          []dto.CreateTransferItemRequest{{ProductID: "prodA", VariationID: "varA", Quantity: qty(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusDraft, resp.Status)
}

func TestCreate_SedeDeOtroNegocio(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "ajena",
		Items:          []dto.CreateTransferItemRequest{{ProductID: "prodA", VariationID: "varA", Quantity: qty(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo y ledger
// ──────────────────────────────────────────────────────────────────────────────

// Escenario bodega→tienda, cantidad 5 sin seriales: el despacho debita origen
// exactamente una vez sin tocar destino; la recepción acredita destino
// exactamente una vez y llena la cantidad recibida.
func TestFlujo_BodegaATienda(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(20))
	ctx := context.Background()

	created := e.create(t, actor("ana"), nil, 5)

	_, err := e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)

	sent, err := e.uc.Send(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusInTransit, sent.Status)
	assert.True(t, sent.StockDeducted, "stock_deducted se deriva del estado tras despachar")

	assert.True(t, e.store.balances[balKey("varA", "bodega")].Equal(qty(15)), "origen -5 exactamente una vez")
	assert.True(t, e.store.balances[balKey("varA", "tienda")].Equal(qty(0)), "destino intacto antes de recibir")

	_, err = e.uc.Arrive(ctx, actor("rosa"), created.ID)
	require.NoError(t, err)

	received, err := e.uc.Receive(ctx, actor("rosa"), created.ID, dto.ReceiveTransferRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, received.Status)

	assert.True(t, e.store.balances[balKey("varA", "tienda")].Equal(qty(5)), "destino +5 exactamente una vez")
	assert.True(t, e.store.transfers[created.ID].Items[0].ReceivedQuantity.Equal(qty(5)))

	done, err := e.uc.Complete(ctx, actor("rosa"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, done.Status)

	// Invariante del ledger: suma de entradas == saldo vigente, en ambos pares.
	assert.True(t, e.store.sumEntries("varA", "bodega").Equal(e.store.balances[balKey("varA", "bodega")]))
	assert.True(t, e.store.sumEntries("varA", "tienda").Equal(e.store.balances[balKey("varA", "tienda")]))

	// Historial completo de pasos en orden.
	steps, _ := e.store.ListByTransfer(ctx, created.ID)
	var names []string
	for _, s := range steps {
		names = append(names, s.Step)
	}
	assert.Equal(t, []string{"create", "check", "send", "arrive", "receive", "complete"}, names)
}

func TestReceive_ParcialNoExcedeLoSolicitado(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(10))
	ctx := context.Background()

	created := e.create(t, actor("ana"), nil, 5)
	_, err := e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Send(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Arrive(ctx, actor("rosa"), created.ID)
	require.NoError(t, err)

	itemID := e.store.transfers[created.ID].Items[0].ID
	_, err = e.uc.Receive(ctx, actor("rosa"), created.ID, dto.ReceiveTransferRequest{
		Items: []dto.ReceiveTransferItemRequest{{ItemID: itemID, ReceivedQuantity: qty(7)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "recibir más de lo solicitado es inválido")

	_, err = e.uc.Receive(ctx, actor("rosa"), created.ID, dto.ReceiveTransferRequest{
		Items: []dto.ReceiveTransferItemRequest{{ItemID: itemID, ReceivedQuantity: qty(3)}},
	})
	require.NoError(t, err)
	assert.True(t, e.store.balances[balKey("varA", "tienda")].Equal(qty(3)))
	assert.True(t, e.store.transfers[created.ID].Items[0].ReceivedQuantity.Equal(qty(3)))
}

func TestSend_StockInsuficienteRechazaTodo(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(2))
	ctx := context.Background()

	created := e.create(t, actor("ana"), nil, 5)
	_, err := e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)

	_, err = e.uc.Send(ctx, actor("luis"), created.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, e.store.balances[balKey("varA", "bodega")].Equal(qty(2)), "ledger intacto")
	assert.Equal(t, entity.TransferStatusChecked, e.store.transfers[created.ID].Status, "estado intacto")
}

// Dos líneas: la primera con saldo y la segunda sin; nada queda deducido.
func TestSend_NuncaDeduccionParcial(t *testing.T) {
	e := newEnv(t)
	e.cat.variations["varB"] = &entity.ProductVariation{ID: "varB", ProductID: "prodA", Name: "Grande"}
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(10))
	e.store.setStock("biz", "prodA", "varB", "bodega", qty(1))
	ctx := context.Background()

	created, err := e.uc.Create(ctx, actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items: []dto.CreateTransferItemRequest{
			{ProductID: "prodA", VariationID: "varA", Quantity: qty(4)},
			{ProductID: "prodA", VariationID: "varB", Quantity: qty(3)},
		},
	})
	require.NoError(t, err)
	_, err = e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)

	_, err = e.uc.Send(ctx, actor("luis"), created.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, e.store.balances[balKey("varA", "bodega")].Equal(qty(10)),
		"la línea con saldo tampoco se deduce: todo o nada")
	assert.True(t, e.store.balances[balKey("varB", "bodega")].Equal(qty(1)))
}

func TestTransicion_EstadoIncorrectoEsConflicto(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(10))
	ctx := context.Background()

	created := e.create(t, actor("ana"), nil, 2)

	_, err := e.uc.Send(ctx, actor("luis"), created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "despachar un borrador sin aprobar es conflicto de estado")

	_, err = e.uc.Receive(ctx, actor("rosa"), created.ID, dto.ReceiveTransferRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Seriales
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoConSeriales(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(3))
	for _, id := range []string{"s1", "s2", "s3"} {
		e.seedSerial(id, entity.SerialStatusInStock, "bodega")
	}
	ctx := context.Background()

	created := e.create(t, actor("ana"), []string{"s1", "s2", "s3"}, 3)

	// Vincular no cambia el estado: siguen in_stock hasta el despacho.
	assert.Equal(t, entity.SerialStatusInStock, e.store.serials["s1"].Status)

	_, err := e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Send(ctx, actor("luis"), created.ID)
	require.NoError(t, err)

	for _, id := range []string{"s1", "s2", "s3"} {
		assert.Equal(t, entity.SerialStatusInTransit, e.store.serials[id].Status)
	}
	assert.Len(t, e.store.movementsByType(created.ID, entity.SerialMovementTransferOut), 3,
		"un movimiento pareado por unidad al despachar")

	_, err = e.uc.Arrive(ctx, actor("rosa"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Receive(ctx, actor("rosa"), created.ID, dto.ReceiveTransferRequest{})
	require.NoError(t, err)

	for _, id := range []string{"s1", "s2", "s3"} {
		assert.Equal(t, entity.SerialStatusInStock, e.store.serials[id].Status)
		assert.Equal(t, "tienda", e.store.serials[id].LocationID, "el serial queda en la sede destino")
	}
	assert.Len(t, e.store.movementsByType(created.ID, entity.SerialMovementTransferIn), 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación y compensación
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_Borrador(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, actor("ana"), nil, 2)

	require.NoError(t, e.uc.Cancel(context.Background(), actor("ana"), created.ID))
	got := e.store.transfers[created.ID]
	assert.Equal(t, entity.TransferStatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)
}

func TestCancel_EnTransitoCompensaYEsIdempotentePorRechazo(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(5))
	for _, id := range []string{"s1", "s2"} {
		e.seedSerial(id, entity.SerialStatusInStock, "bodega")
	}
	ctx := context.Background()

	created := e.create(t, actor("ana"), []string{"s1", "s2"}, 2)
	_, err := e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Send(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	assert.True(t, e.store.balances[balKey("varA", "bodega")].Equal(qty(3)))

	require.NoError(t, e.uc.Cancel(ctx, actor("luis"), created.ID))

	// Cada serial restituido a in_stock en la sede origen con exactamente un
	// movimiento adjustment por unidad; el ledger de origen vuelve a su saldo.
	for _, id := range []string{"s1", "s2"} {
		assert.Equal(t, entity.SerialStatusInStock, e.store.serials[id].Status)
		assert.Equal(t, "bodega", e.store.serials[id].LocationID)
	}
	assert.Len(t, e.store.movementsByType(created.ID, entity.SerialMovementAdjustment), 2)
	assert.True(t, e.store.balances[balKey("varA", "bodega")].Equal(qty(5)))
	assert.True(t, e.store.sumEntries("varA", "bodega").Equal(qty(5)), "la corrección se apendiza, nunca se edita")

	// Re-cancelar: conflicto sin compensación adicional.
	movsBefore := len(e.store.serialMovs)
	err = e.uc.Cancel(ctx, actor("luis"), created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, e.store.serialMovs, movsBefore, "sin doble compensación")
}

func TestCancel_RecibidoRechazado(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(5))
	ctx := context.Background()

	created := e.create(t, actor("ana"), nil, 2)
	_, err := e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Send(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Arrive(ctx, actor("rosa"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Receive(ctx, actor("rosa"), created.ID, dto.ReceiveTransferRequest{})
	require.NoError(t, err)

	err = e.uc.Cancel(ctx, actor("luis"), created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Segregación de funciones
// ──────────────────────────────────────────────────────────────────────────────

func TestSend_SODCreadorNoDespacha(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(10))
	e.cat.sod["biz"] = &entity.SODSettings{
		BusinessID:         "biz",
		EnforceTransferSOD: true,
		CreatorCanSend:     false,
		CheckerCanSend:     true,
	}
	ctx := context.Background()

	created := e.create(t, actor("ana"), nil, 2)
	_, err := e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)

	_, err = e.uc.Send(ctx, actor("ana"), created.ID)
	assert.ErrorIs(t, err, domain.ErrSODViolation, "el creador no despacha su propio traslado")

	e.cat.sod["biz"].CreatorCanSend = true
	_, err = e.uc.Send(ctx, actor("ana"), created.ID)
	require.NoError(t, err, "con la bandera activa el mismo actor sí despacha")
}

func TestCheck_SODCreadorNoAprueba(t *testing.T) {
	e := newEnv(t)
	e.cat.sod["biz"] = &entity.SODSettings{
		BusinessID:         "biz",
		EnforceTransferSOD: true,
		CreatorCanCheck:    false,
	}
	created := e.create(t, actor("ana"), nil, 1)

	_, err := e.uc.Check(context.Background(), actor("ana"), created.ID)
	assert.ErrorIs(t, err, domain.ErrSODViolation)

	_, err = e.uc.Check(context.Background(), actor("luis"), created.ID)
	require.NoError(t, err, "otro operador sí puede aprobar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas: Get y List
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_ResuelveNombresEnLote(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, actor("ana"), nil, 2)

	got, err := e.uc.Get(context.Background(), actor("ana"), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Bodega Central", got.FromLocationName)
	assert.Equal(t, "Tienda Norte", got.ToLocationName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Producto A", got.Items[0].ProductName)
	assert.Equal(t, "Única", got.Items[0].VariationName)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "Ana", got.Steps[0].ActorName)
	assert.False(t, got.Settings.EnforceTransferSOD)
}

// El invariante de seguridad de Get: sin asignación a origen o destino no hay
// lectura, incluso con la capacidad todas-las-sedes.
func TestGet_SinAsignacionNoLee(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, actor("ana"), nil, 2)

	otro := access.Actor{ID: "otro", BusinessID: "biz", Permissions: allTransferPerms}
	_, err := e.uc.Get(context.Background(), otro, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	root := access.Actor{ID: "root", BusinessID: "biz",
		Permissions: append([]string{entity.PermAllLocations}, allTransferPerms...)}
	_, err = e.uc.Get(context.Background(), root, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"todas-las-sedes no exime la asignación en lecturas puntuales")
}

func TestList_SinAsignacionesDevuelveVacio(t *testing.T) {
	e := newEnv(t)
	e.create(t, actor("ana"), nil, 2)

	otro := access.Actor{ID: "otro", BusinessID: "biz", Permissions: allTransferPerms}
	got, err := e.uc.List(context.Background(), otro, dto.ListTransfersRequest{})
	require.NoError(t, err)
	assert.Empty(t, got.Items, "cero asignaciones es resultado vacío, no error")
}

func TestList_AlcancePorAsignaciones(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, actor("ana"), nil, 2)

	// luis (bodega) y rosa (tienda) ven el traslado: toca una de sus sedes.
	for _, who := range []string{"luis", "rosa"} {
		got, err := e.uc.List(context.Background(), actor(who), dto.ListTransfersRequest{})
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, created.ID, got.Items[0].ID)
	}
}

func TestList_FiltroPorEstado(t *testing.T) {
	e := newEnv(t)
	created := e.create(t, actor("ana"), nil, 2)
	e.create(t, actor("ana"), nil, 3)
	_, err := e.uc.Check(context.Background(), actor("luis"), created.ID)
	require.NoError(t, err)

	got, err := e.uc.List(context.Background(), actor("ana"), dto.ListTransfersRequest{Status: entity.TransferStatusChecked})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, created.ID, got.Items[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_SoloBorrador(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(10))
	ctx := context.Background()

	created := e.create(t, actor("ana"), nil, 2)
	notas := "urgente"
	_, err := e.uc.Update(ctx, actor("ana"), created.ID, dto.UpdateTransferRequest{Notes: &notas})
	require.NoError(t, err)
	assert.Equal(t, "urgente", e.store.transfers[created.ID].Notes)

	_, err = e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Update(ctx, actor("ana"), created.ID, dto.UpdateTransferRequest{Notes: &notas})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pasado el borrador ya no se edita")
}

func TestPermisoFaltanteEsForbidden(t *testing.T) {
	e := newEnv(t)
	sinPermisos := access.Actor{ID: "ana", BusinessID: "biz", Permissions: []string{}}
	_, err := e.uc.Create(context.Background(), sinPermisos, dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		Items:          []dto.CreateTransferItemRequest{{ProductID: "prodA", VariationID: "varA", Quantity: qty(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración SOD
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateSOD_RequierePermisoDeConfiguracion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	activar := true

	// Los permisos de flujo no alcanzan: sin settings.sod nadie apaga la
	// segregación de funciones.
	_, err := e.uc.UpdateSODSettings(ctx, actor("ana"), dto.UpdateSODSettingsRequest{EnforceTransferSOD: &activar})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, e.cat.sod["biz"].EnforceTransferSOD, "las banderas deben quedar intactas")

	admin := actor("ana", entity.PermSettingsSOD)
	resp, err := e.uc.UpdateSODSettings(ctx, admin, dto.UpdateSODSettingsRequest{EnforceTransferSOD: &activar})
	require.NoError(t, err)
	assert.True(t, resp.EnforceTransferSOD)
	assert.True(t, e.cat.sod["biz"].EnforceTransferSOD)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fecha de negocio
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_FechaRetroactivaRechazada(t *testing.T) {
	e := newEnv(t)
	ayer := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	_, err := e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		TransferDate:   &ayer,
		Items:          []dto.CreateTransferItemRequest{{ProductID: "prodA", VariationID: "varA", Quantity: qty(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la fecha de negocio es el piso")
	assert.Empty(t, e.store.transfers, "nada debe persistirse")
}

func TestCreate_ConsecutivoSiempreDelPeriodoVigente(t *testing.T) {
	e := newEnv(t)
	// Una fecha futura es válida, pero el consecutivo se acuña sobre el
	// periodo del reloj de negocio, no sobre el mes solicitado.
	futuro := time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)
	resp, err := e.uc.Create(context.Background(), actor("ana"), dto.CreateTransferRequest{
		FromLocationID: "bodega",
		ToLocationID:   "tienda",
		TransferDate:   &futuro,
		Items:          []dto.CreateTransferItemRequest{{ProductID: "prodA", VariationID: "varA", Quantity: qty(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "TR-202503-0001", resp.Number)
	assert.Equal(t, futuro, e.store.transfers[resp.ID].TransferDate)
}

func TestReceive_ParcialEnLineaSerializadaRechazada(t *testing.T) {
	e := newEnv(t)
	e.store.setStock("biz", "prodA", "varA", "bodega", qty(3))
	for _, id := range []string{"s1", "s2", "s3"} {
		e.seedSerial(id, entity.SerialStatusInStock, "bodega")
	}
	ctx := context.Background()

	created := e.create(t, actor("ana"), []string{"s1", "s2", "s3"}, 3)
	_, err := e.uc.Check(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Send(ctx, actor("luis"), created.ID)
	require.NoError(t, err)
	_, err = e.uc.Arrive(ctx, actor("rosa"), created.ID)
	require.NoError(t, err)

	// Cada serial en tránsito vuelve a destino al recibir: una recepción
	// parcial acreditaría menos unidades que seriales registrados.
	itemID := e.store.transfers[created.ID].Items[0].ID
	_, err = e.uc.Receive(ctx, actor("rosa"), created.ID, dto.ReceiveTransferRequest{
		Items: []dto.ReceiveTransferItemRequest{{ItemID: itemID, ReceivedQuantity: qty(2)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "una línea serializada se recibe completa o no se recibe")
	for _, id := range []string{"s1", "s2", "s3"} {
		assert.Equal(t, entity.SerialStatusInTransit, e.store.serials[id].Status,
			"el rechazo no debe mover serial alguno")
	}
	assert.True(t, e.store.balances[balKey("varA", "tienda")].IsZero(), "destino sin acreditar")

	// La recepción completa sí procede.
	_, err = e.uc.Receive(ctx, actor("rosa"), created.ID, dto.ReceiveTransferRequest{})
	require.NoError(t, err)
	assert.True(t, e.store.balances[balKey("varA", "tienda")].Equal(qty(3)))
}
