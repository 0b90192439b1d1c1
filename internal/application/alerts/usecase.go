// Package alerts implementa la generación de alertas de stock bajo y lotes
// por vencer, con deduplicación por (usuario, mensaje) sin leer.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mercamax/mercamax-api/internal/domain/entity"
	"github.com/mercamax/mercamax-api/internal/domain/repository"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

// Config parámetros del generador. Los roles de la audiencia llegan por
// configuración para mantener la lógica testeable sin un directorio real.
type Config struct {
	AudienceRoles    []string
	ExpiryWindowDays int
}

// RunResult resultado de una corrida. Los contadores son condiciones
// evaluadas (productos bajo mínimo, lotes por vencer), no notificaciones
// creadas; NotificationsCreated trae ese dato aparte.
type RunResult struct {
	LowStockCount        int
	ExpiringLotCount     int
	NotificationsCreated int
}

// UseCase genera notificaciones de stock bajo y lotes por vencer.
// Una sola corrida a la vez por proceso (mutex); entre procesos, el índice
// único parcial de notificaciones hace que la carrera sea inofensiva.
type UseCase struct {
	users         repository.UserRepository
	stockQuery    repository.StockQueryRepository
	notifications repository.NotificationRepository
	cfg           Config
	log           *logger.Logger
	now           func() time.Time

	mu sync.Mutex
}

// NewUseCase construye el generador de alertas.
func NewUseCase(
	users repository.UserRepository,
	stockQuery repository.StockQueryRepository,
	notifications repository.NotificationRepository,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	if cfg.ExpiryWindowDays <= 0 {
		cfg.ExpiryWindowDays = 30
	}
	return &UseCase{
		users:         users,
		stockQuery:    stockQuery,
		notifications: notifications,
		cfg:           cfg,
		log:           log,
		now:           time.Now,
	}
}

// WithClock fija el reloj (para tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// RunAlertGeneration ejecuta las dos pasadas de alertas.
//
// Política de fallo: un error al leer los agregados aborta la corrida (no hay
// nada parcialmente confiable que reportar); un error al crear una
// notificación individual se registra, se acumula y la corrida continúa con
// el resto de candidatos — una fila mala no bloquea las demás alertas. El
// error devuelto es el agregado de esos fallos individuales.
func (uc *UseCase) RunAlertGeneration(ctx context.Context) (RunResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var result RunResult

	audience, err := uc.users.ListByRoles(ctx, uc.cfg.AudienceRoles)
	if err != nil {
		return result, fmt.Errorf("resolver audiencia de alertas: %w", err)
	}
	if len(audience) == 0 {
		// Sin audiencia no hay nada que generar: no-op, no un error.
		uc.log.Info().Strs("roles", uc.cfg.AudienceRoles).
			Msg("generación de alertas sin usuarios destino")
		return result, nil
	}

	var failures []error

	// ── Pasada 1: stock bajo ────────────────────────────────────────────────
	lowStock, err := uc.stockQuery.ProductsAtOrBelowMinStock(ctx)
	if err != nil {
		return result, fmt.Errorf("agregar stock bajo mínimo: %w", err)
	}
	result.LowStockCount = len(lowStock)

	for _, p := range lowStock {
		msg := LowStockMessage(p)
		created, errs := uc.notifyAll(ctx, audience, entity.NotificationLowStock, msg)
		result.NotificationsCreated += created
		failures = append(failures, errs...)
	}

	// ── Pasada 2: lotes por vencer ──────────────────────────────────────────
	today := dateOnly(uc.now())
	until := today.AddDate(0, 0, uc.cfg.ExpiryWindowDays)

	lots, err := uc.stockQuery.ExpiringLots(ctx, today, until)
	if err != nil {
		return result, fmt.Errorf("agregar lotes por vencer: %w", err)
	}

	for _, lot := range lots {
		days := DaysUntil(today, lot.ExpiresAt)
		if days < 0 || days > uc.cfg.ExpiryWindowDays {
			// Los lotes ya vencidos (o fuera de ventana) quedan fuera aunque
			// la consulta los devolviera.
			continue
		}
		result.ExpiringLotCount++
		msg := ExpiryMessage(lot, days)
		created, errs := uc.notifyAll(ctx, audience, entity.NotificationExpiringLot, msg)
		result.NotificationsCreated += created
		failures = append(failures, errs...)
	}

	uc.log.Info().
		Int("stock_bajo", result.LowStockCount).
		Int("lotes_por_vencer", result.ExpiringLotCount).
		Int("notificaciones_creadas", result.NotificationsCreated).
		Int("fallos", len(failures)).
		Msg("generación de alertas completada")

	return result, errors.Join(failures...)
}

// notifyAll crea la notificación para cada usuario de la audiencia,
// omitiendo duplicadas sin leer. Devuelve cuántas se crearon y los fallos
// individuales (mejor esfuerzo: ningún fallo detiene el resto).
func (uc *UseCase) notifyAll(ctx context.Context, audience []*entity.User, typ, msg string) (int, []error) {
	var created int
	var failures []error
	for _, user := range audience {
		n := &entity.Notification{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Type:      typ,
			Message:   msg,
			CreatedAt: uc.now(),
		}
		ok, err := uc.notifications.CreateIfAbsent(ctx, n)
		if err != nil {
			uc.log.Warn().Err(err).Str("usuario", user.ID).Str("mensaje", msg).
				Msg("no se pudo crear la notificación")
			failures = append(failures, fmt.Errorf("notificar a %s (%q): %w", user.ID, msg, err))
			continue
		}
		if ok {
			created++
		}
	}
	return created, failures
}

// LowStockMessage es el texto canónico de la alerta de stock bajo. El mismo
// texto es la clave de deduplicación y el que muestran los reportes.
func LowStockMessage(p repository.ProductStockSummary) string {
	return fmt.Sprintf("¡Stock bajo! Quedan %d de un mínimo de %d para '%s'.",
		p.StockTotal, p.MinStock, p.Name)
}

// ExpiryMessage es el texto canónico de la alerta de lote por vencer.
func ExpiryMessage(lot repository.ExpiringLotRow, days int) string {
	prefix := fmt.Sprintf("¡Lote por vencer! El lote '%s' de '%s'", lot.Code, lot.ProductName)
	switch days {
	case 0:
		return prefix + " vence HOY."
	case 1:
		return prefix + " vence MAÑANA."
	default:
		return fmt.Sprintf("%s vence en %d días.", prefix, days)
	}
}

// dateOnly trunca a la fecha (medianoche UTC) para que la aritmética de
// días no dependa de la hora de la corrida.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil cuenta los días completos entre dos fechas (ambas truncadas).
func DaysUntil(today, expiry time.Time) int {
	return int(dateOnly(expiry).Sub(dateOnly(today)) / (24 * time.Hour))
}
