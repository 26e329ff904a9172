package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aircare/config"
	"aircare/models"
	"aircare/services/notification"
	"aircare/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt is the asynq connection shared by the reminder client and worker.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitReminderWorker runs the reminder worker in the background and returns
// the server so the caller can shut it down.
func InitReminderWorker(notifSvc notification.NotificationService) *asynq.Server {
	logger := utils.GetLogger().Named("reminder-worker")

	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeSendReminder, HandleReminderTask(notifSvc, logger))

	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("failed to start reminder worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("reminder worker max retry attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleReminderTask decodes a reminder and hands it to the notification service.
func HandleReminderTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		logger.Info("sending appointment reminder", zap.String("bookingId", p.BookingID), zap.String("fireDate", p.FireDate))
		if err := notifSvc.SendReminder(ctx, p); err != nil {
			logger.Warn("reminder delivery failed", zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}
