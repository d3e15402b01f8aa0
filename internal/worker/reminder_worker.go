package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"dinebook/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Sender delivers a reminder message to the user. The telegram service
// implements it.
type Sender interface {
	SendText(chatID int64, text string) error
}

// ReminderTask is one scheduled reservation reminder.
type ReminderTask struct {
	UserID         int64  `json:"user_id"`
	ReservationID  string `json:"reservation_id"`
	RestaurantName string `json:"restaurant_name"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	SendAt         int64  `json:"send_at"`
	RetryCount     int    `json:"retry_count"`
}

// ReminderWorker schedules and delivers reservation reminders. Tasks
// live in a redis sorted set scored by delivery time; without redis an
// in-memory schedule is used and reminders do not survive a restart.
type ReminderWorker struct {
	redis        *redis.Client
	sender       Sender
	retryPolicy  RetryPolicy
	reminderHour int
	pollInterval time.Duration
	logger       *zerolog.Logger

	mu     sync.Mutex
	memory []ReminderTask
}

const (
	reminderQueueKey      = "reminders:queue"
	reminderDeadLetterKey = "reminders:deadletter"
)

// NewReminderWorker builds a worker with sane defaults.
func NewReminderWorker(redisClient *redis.Client, sender Sender, retry RetryPolicy, reminderHour int, logger *zerolog.Logger) *ReminderWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if reminderHour <= 0 || reminderHour > 23 {
		reminderHour = models.ReminderHour
	}

	return &ReminderWorker{
		redis:        redisClient,
		sender:       sender,
		retryPolicy:  retry,
		reminderHour: reminderHour,
		pollInterval: time.Minute,
		logger:       logger,
	}
}

// EnqueueReminder schedules a reminder for the day before the
// reservation at the configured hour. Reservations too close for that
// get no reminder.
func (w *ReminderWorker) EnqueueReminder(ctx context.Context, userID int64, reservation *models.Reservation) error {
	if reservation == nil || reservation.ID == "" {
		return errors.New("reservation id is required")
	}

	date, err := time.ParseInLocation("2006-01-02", reservation.Date, time.Local)
	if err != nil {
		return fmt.Errorf("parse reservation date: %w", err)
	}

	sendAt := date.AddDate(0, 0, -1).Add(time.Duration(w.reminderHour) * time.Hour)
	if sendAt.Before(time.Now()) {
		w.logger.Debug().Str("reservation_id", reservation.ID).Msg("reservation too soon for a reminder")
		return nil
	}

	task := ReminderTask{
		UserID:         userID,
		ReservationID:  reservation.ID,
		RestaurantName: reservation.RestaurantName,
		Date:           reservation.Date,
		Time:           reservation.Time,
		SendAt:         sendAt.Unix(),
	}

	if err := w.push(ctx, task); err != nil {
		return err
	}
	w.logger.Info().
		Str("reservation_id", reservation.ID).
		Time("send_at", sendAt).
		Msg("reminder scheduled")
	return nil
}

func (w *ReminderWorker) push(ctx context.Context, task ReminderTask) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode reminder task: %w", err)
	}

	if w.redis != nil {
		err := w.redis.ZAdd(ctx, reminderQueueKey, redis.Z{
			Score:  float64(task.SendAt),
			Member: raw,
		}).Err()
		if err == nil {
			return nil
		}
		w.logger.Warn().Err(err).Msg("redis enqueue failed, keeping reminder in memory")
	}

	w.mu.Lock()
	w.memory = append(w.memory, task)
	w.mu.Unlock()
	return nil
}

// Start polls for due reminders until the context is cancelled.
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info().Msg("reminder worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("reminder worker stopping")
			return
		case <-ticker.C:
			w.deliverDue(ctx)
		}
	}
}

func (w *ReminderWorker) deliverDue(ctx context.Context) {
	now := time.Now().Unix()

	for _, task := range w.popDue(ctx, now) {
		if err := w.deliver(task); err != nil {
			w.requeue(ctx, task, err)
		}
	}
}

func (w *ReminderWorker) popDue(ctx context.Context, now int64) []ReminderTask {
	var due []ReminderTask

	if w.redis != nil {
		raws, err := w.redis.ZRangeByScore(ctx, reminderQueueKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: fmt.Sprintf("%d", now),
		}).Result()
		if err != nil {
			w.logger.Error().Err(err).Msg("failed to read reminder queue")
		}
		for _, raw := range raws {
			w.redis.ZRem(ctx, reminderQueueKey, raw)
			var task ReminderTask
			if err := json.Unmarshal([]byte(raw), &task); err != nil {
				w.logger.Error().Err(err).Msg("malformed reminder task dropped")
				continue
			}
			due = append(due, task)
		}
	}

	w.mu.Lock()
	remaining := w.memory[:0]
	for _, task := range w.memory {
		if task.SendAt <= now {
			due = append(due, task)
		} else {
			remaining = append(remaining, task)
		}
	}
	w.memory = remaining
	w.mu.Unlock()

	return due
}

func (w *ReminderWorker) deliver(task ReminderTask) error {
	text := fmt.Sprintf(
		"Reminder: you have a table at %s on %s at %s. See you there!",
		task.RestaurantName, task.Date, task.Time,
	)
	return w.sender.SendText(task.UserID, text)
}

func (w *ReminderWorker) requeue(ctx context.Context, task ReminderTask, cause error) {
	task.RetryCount++
	if task.RetryCount > w.retryPolicy.MaxRetries {
		w.logger.Error().
			Err(cause).
			Str("reservation_id", task.ReservationID).
			Int("retries", task.RetryCount-1).
			Msg("reminder delivery gave up, moving to dead letter")
		w.deadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.NextDelay(task.RetryCount)
	task.SendAt = time.Now().Add(delay).Unix()
	w.logger.Warn().
		Err(cause).
		Str("reservation_id", task.ReservationID).
		Dur("retry_in", delay).
		Msg("reminder delivery failed, retrying")

	if err := w.push(ctx, task); err != nil {
		w.logger.Error().Err(err).Msg("failed to requeue reminder")
	}
}

func (w *ReminderWorker) deadLetter(ctx context.Context, task ReminderTask) {
	if w.redis == nil {
		return
	}
	raw, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := w.redis.RPush(ctx, reminderDeadLetterKey, raw).Err(); err != nil {
		w.logger.Error().Err(err).Msg("failed to write reminder dead letter")
	}
}
