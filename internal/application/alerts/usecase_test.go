package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/internal/domain/stock"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

// ── Fakes ───────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	audience []*entity.User
	err      error
}

func (f *fakeUserRepo) Create(context.Context, *entity.User) error { return nil }
func (f *fakeUserRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(context.Context, *entity.User) error { return nil }
func (f *fakeUserRepo) Delete(context.Context, string) error       { return nil }
func (f *fakeUserRepo) ListByRoles(_ context.Context, _ []string) ([]*entity.User, error) {
	return f.audience, f.err
}

type fakeStockQuery struct {
	lowStock    []repository.ProductStockSummary
	lowStockErr error
	lots        []repository.ExpiringLotRow
	lotsErr     error

	gotFrom, gotTo time.Time
}

func (f *fakeStockQuery) TotalStockByProduct(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeStockQuery) TotalStockByLot(context.Context, string) (int64, error)     { return 0, nil }
func (f *fakeStockQuery) TotalAtLocation(context.Context, string) (int64, error)     { return 0, nil }
func (f *fakeStockQuery) FactsByProduct(context.Context, string) ([]stock.Fact, error) {
	return nil, nil
}
func (f *fakeStockQuery) ValuationGroups(context.Context) ([]stock.ProductFacts, error) {
	return nil, nil
}
func (f *fakeStockQuery) StockDetailsByProduct(context.Context, string) ([]repository.StockDetailRow, error) {
	return nil, nil
}
func (f *fakeStockQuery) ProductsAtOrBelowMinStock(context.Context) ([]repository.ProductStockSummary, error) {
	return f.lowStock, f.lowStockErr
}
func (f *fakeStockQuery) ExpiringLots(_ context.Context, from, to time.Time) ([]repository.ExpiringLotRow, error) {
	f.gotFrom, f.gotTo = from, to
	if f.lotsErr != nil {
		return nil, f.lotsErr
	}
	var rows []repository.ExpiringLotRow
	for _, r := range f.lots {
		if !r.ExpiresAt.Before(from) && !r.ExpiresAt.After(to) {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// fakeNotificationRepo deduplica en memoria por (usuario, mensaje) sin leer,
// igual que el índice único parcial en Postgres.
type fakeNotificationRepo struct {
	unread  map[string]bool
	stored  []*entity.Notification
	failFor func(n *entity.Notification) error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{unread: make(map[string]bool)}
}

func (f *fakeNotificationRepo) CreateIfAbsent(_ context.Context, n *entity.Notification) (bool, error) {
	if f.failFor != nil {
		if err := f.failFor(n); err != nil {
			return false, err
		}
	}
	key := n.UserID + "|" + n.Message
	if f.unread[key] {
		return false, nil
	}
	f.unread[key] = true
	f.stored = append(f.stored, n)
	return true, nil
}

func (f *fakeNotificationRepo) ListByUser(context.Context, string, int, int) ([]*entity.Notification, error) {
	return f.stored, nil
}
func (f *fakeNotificationRepo) MarkRead(context.Context, string, string) error { return nil }

func (f *fakeNotificationRepo) messages() []string {
	var out []string
	for _, n := range f.stored {
		out = append(out, n.Message)
	}
	return out
}

// ── Helpers ─────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

func newTestUseCase(users *fakeUserRepo, sq *fakeStockQuery, notifs *fakeNotificationRepo) *UseCase {
	cfg := Config{
		AudienceRoles:    []string{entity.RoleInventoryManager, entity.RoleStoreManager},
		ExpiryWindowDays: 30,
	}
	uc := NewUseCase(users, sq, notifs, cfg, logger.NewNop())
	return uc.WithClock(func() time.Time { return testNow })
}

func audienceOf(ids ...string) []*entity.User {
	var out []*entity.User
	for _, id := range ids {
		out = append(out, &entity.User{ID: id, Role: entity.RoleInventoryManager, Active: true})
	}
	return out
}

func expiringOn(day time.Time) repository.ExpiringLotRow {
	return repository.ExpiringLotRow{
		LotID: "l1", Code: "L-001", ProductID: "p1",
		ProductName: "Yogur Natural", ExpiresAt: day, StockTotal: 12,
	}
}

// ── Stock bajo ──────────────────────────────────────────────────────────────

func TestRunAlertGeneration_StockBajo_MensajeExacto(t *testing.T) {
	notifs := newFakeNotificationRepo()
	sq := &fakeStockQuery{
		lowStock: []repository.ProductStockSummary{
			{ProductID: "p1", Name: "Leche Entera 1L", MinStock: 10, StockTotal: 7},
		},
	}
	uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1")}, sq, notifs)

	res, err := uc.RunAlertGeneration(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.LowStockCount)
	assert.Equal(t, 1, res.NotificationsCreated)
	require.Len(t, notifs.stored, 1)
	assert.Equal(t, "¡Stock bajo! Quedan 7 de un mínimo de 10 para 'Leche Entera 1L'.", notifs.stored[0].Message)
	assert.Equal(t, entity.NotificationLowStock, notifs.stored[0].Type)
}

func TestRunAlertGeneration_NotificaATodaLaAudiencia(t *testing.T) {
	notifs := newFakeNotificationRepo()
	sq := &fakeStockQuery{
		lowStock: []repository.ProductStockSummary{
			{ProductID: "p1", Name: "Arroz", MinStock: 5, StockTotal: 0},
		},
	}
	uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1", "u2", "u3")}, sq, notifs)

	res, err := uc.RunAlertGeneration(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.NotificationsCreated)
}

func TestRunAlertGeneration_EsIdempotente(t *testing.T) {
	notifs := newFakeNotificationRepo()
	sq := &fakeStockQuery{
		lowStock: []repository.ProductStockSummary{
			{ProductID: "p1", Name: "Leche Entera 1L", MinStock: 10, StockTotal: 7},
		},
		lots: []repository.ExpiringLotRow{expiringOn(testNow.AddDate(0, 0, 5))},
	}
	uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1")}, sq, notifs)

	first, err := uc.RunAlertGeneration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.NotificationsCreated)

	second, err := uc.RunAlertGeneration(context.Background())
	require.NoError(t, err)

	// Las condiciones siguen vigentes pero las notificaciones ya existen.
	assert.Equal(t, 1, second.LowStockCount)
	assert.Equal(t, 1, second.ExpiringLotCount)
	assert.Equal(t, 0, second.NotificationsCreated)
	assert.Len(t, notifs.stored, 2)
}

func TestRunAlertGeneration_SinAudienciaNoHaceNada(t *testing.T) {
	notifs := newFakeNotificationRepo()
	sq := &fakeStockQuery{
		lowStock: []repository.ProductStockSummary{
			{ProductID: "p1", Name: "Arroz", MinStock: 5, StockTotal: 1},
		},
	}
	uc := newTestUseCase(&fakeUserRepo{audience: nil}, sq, notifs)

	res, err := uc.RunAlertGeneration(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.LowStockCount)
	assert.Zero(t, res.NotificationsCreated)
	assert.Empty(t, notifs.stored)
}

// ── Lotes por vencer ────────────────────────────────────────────────────────

func TestRunAlertGeneration_MensajesDeVencimiento(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		mensaje string
	}{
		{"vence hoy", 0, "¡Lote por vencer! El lote 'L-001' de 'Yogur Natural' vence HOY."},
		{"vence mañana", 1, "¡Lote por vencer! El lote 'L-001' de 'Yogur Natural' vence MAÑANA."},
		{"vence en varios días", 5, "¡Lote por vencer! El lote 'L-001' de 'Yogur Natural' vence en 5 días."},
		{"borde de la ventana", 30, "¡Lote por vencer! El lote 'L-001' de 'Yogur Natural' vence en 30 días."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifs := newFakeNotificationRepo()
			sq := &fakeStockQuery{lots: []repository.ExpiringLotRow{expiringOn(testNow.AddDate(0, 0, tt.days))}}
			uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1")}, sq, notifs)

			res, err := uc.RunAlertGeneration(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 1, res.ExpiringLotCount)
			require.Len(t, notifs.stored, 1)
			assert.Equal(t, tt.mensaje, notifs.stored[0].Message)
			assert.Equal(t, entity.NotificationExpiringLot, notifs.stored[0].Type)
		})
	}
}

func TestRunAlertGeneration_ExcluyeFueraDeVentana(t *testing.T) {
	tests := []struct {
		name string
		days int
	}{
		{"vencido ayer", -1},
		{"vencido hace una semana", -7},
		{"más allá de la ventana", 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifs := newFakeNotificationRepo()
			sq := &fakeStockQuery{lots: []repository.ExpiringLotRow{expiringOn(testNow.AddDate(0, 0, tt.days))}}
			uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1")}, sq, notifs)

			res, err := uc.RunAlertGeneration(context.Background())
			require.NoError(t, err)

			assert.Zero(t, res.ExpiringLotCount)
			assert.Empty(t, notifs.stored)
		})
	}
}

func TestRunAlertGeneration_ConsultaLaVentanaCorrecta(t *testing.T) {
	sq := &fakeStockQuery{}
	uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1")}, sq, newFakeNotificationRepo())

	_, err := uc.RunAlertGeneration(context.Background())
	require.NoError(t, err)

	wantFrom := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantFrom, sq.gotFrom)
	assert.Equal(t, wantFrom.AddDate(0, 0, 30), sq.gotTo)
}

// ── Política de fallo ───────────────────────────────────────────────────────

func TestRunAlertGeneration_ErrorDeAgregacionAborta(t *testing.T) {
	sq := &fakeStockQuery{lowStockErr: errors.New("conexión perdida")}
	uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1")}, sq, newFakeNotificationRepo())

	_, err := uc.RunAlertGeneration(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agregar stock bajo mínimo")
}

func TestRunAlertGeneration_FalloIndividualNoDetieneLaCorrida(t *testing.T) {
	notifs := newFakeNotificationRepo()
	notifs.failFor = func(n *entity.Notification) error {
		if n.UserID == "u2" {
			return errors.New("fila corrupta")
		}
		return nil
	}
	sq := &fakeStockQuery{
		lowStock: []repository.ProductStockSummary{
			{ProductID: "p1", Name: "Arroz", MinStock: 5, StockTotal: 2},
			{ProductID: "p2", Name: "Frijol", MinStock: 8, StockTotal: 8},
		},
	}
	uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1", "u2", "u3")}, sq, notifs)

	res, err := uc.RunAlertGeneration(context.Background())

	// u2 falla en ambos productos; el resto de la audiencia recibe todo.
	require.Error(t, err)
	assert.Equal(t, 2, res.LowStockCount)
	assert.Equal(t, 4, res.NotificationsCreated)
	assert.Len(t, notifs.stored, 4)
}

func TestRunAlertGeneration_StockIgualAlMinimoAlerta(t *testing.T) {
	notifs := newFakeNotificationRepo()
	sq := &fakeStockQuery{
		lowStock: []repository.ProductStockSummary{
			{ProductID: "p1", Name: "Azúcar", MinStock: 10, StockTotal: 10},
		},
	}
	uc := newTestUseCase(&fakeUserRepo{audience: audienceOf("u1")}, sq, notifs)

	res, err := uc.RunAlertGeneration(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.LowStockCount)
	assert.Contains(t, notifs.messages()[0], "Quedan 10 de un mínimo de 10")
}
