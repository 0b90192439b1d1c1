// Corrida única del generador de alertas, pensada para cron:
//
//	*/30 * * * *  /usr/local/bin/alertas
//
// Genera notificaciones de stock bajo y lotes por vencer para la audiencia
// configurada y termina. La deduplicación hace la corrida idempotente.
package main

import (
	"context"
	"time"

	"github.com/mercamax/mercamax-api/internal/application/alerts"
	"github.com/mercamax/mercamax-api/internal/infrastructure/postgres"
	"github.com/mercamax/mercamax-api/pkg/config"
	"github.com/mercamax/mercamax-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		App:   "mercamax-alertas",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := alerts.NewUseCase(
		postgres.NewUserRepository(pool),
		postgres.NewStockQueryRepository(pool),
		postgres.NewNotificationRepository(pool),
		alerts.Config{
			AudienceRoles:    cfg.Alerts.Roles,
			ExpiryWindowDays: cfg.Alerts.ExpiryWindowDays,
		},
		log,
	)

	result, err := uc.RunAlertGeneration(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("corrida de alertas")
	}
	log.Info().
		Int("stock_bajo", result.LowStockCount).
		Int("por_vencer", result.ExpiringLotCount).
		Int("notificaciones_creadas", result.NotificationsCreated).
		Msg("corrida de alertas completada")
}
