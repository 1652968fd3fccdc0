package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres/repository"
)

const (
	reminderSpec      = "0 * * * *"
	reminderBatchSize = 100
	maxConcurrentSend = 10
)

// ReminderUpdate lists the reminder settings to change. Nil means unchanged.
type ReminderUpdate struct {
	IsEnabled      *bool
	IntervalHours  *int
	StartTime      *string
	EndTime        *string
	Timezone       *string
	TelegramChatID *int64
}

// ReminderSettings is a user's reminder window and linked Telegram chat.
type ReminderSettings struct {
	entities.UserReminders
	TelegramChatID *int64
}

// ReminderService handles reminder business logic with batch processing.
type ReminderService struct {
	reminderRepo ReminderRepository
	users        UserRepository
	notifier     ReminderNotifier
	now          func() time.Time
	logger       *zap.Logger
}

// NewReminderService creates a new reminder service.
func NewReminderService(reminderRepo ReminderRepository, users UserRepository, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		users:        users,
		now:          time.Now,
		logger:       logger,
	}
}

// SetNotifier sets the notifier (called after the Telegram bot is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the hourly reminder job until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) {
	s.logger.Info("reminder service started")

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(reminderSpec, func() {
		s.logger.Info("cron triggered: processing hourly reminders")
		if err := s.SendDueReminders(ctx); err != nil {
			s.logger.Error("failed to send hourly reminders", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()
	s.logger.Info("cron scheduler started")

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")
}

// SendDueReminders processes and sends all due reminders in batches.
func (s *ReminderService) SendDueReminders(ctx context.Context) error {
	if s.notifier == nil {
		return errors.New("notifier not initialized")
	}

	offset := 0
	totalSent := 0
	now := s.now().UTC()

	for {
		targets, err := s.reminderRepo.GetDueRemindersBatch(ctx, now, reminderBatchSize, offset)
		if err != nil {
			return fmt.Errorf("get due reminders batch: %w", err)
		}
		if len(targets) == 0 {
			break
		}

		sent, failed := s.processBatch(ctx, targets, now)
		totalSent += sent

		if len(targets) < reminderBatchSize {
			break
		}
		// Processed reminders leave the due set; only failed ones remain.
		offset += failed
	}

	s.logger.Info("reminders processed", zap.Int("total_sent", totalSent))
	return nil
}

// processBatch processes a batch of reminders concurrently.
func (s *ReminderService) processBatch(ctx context.Context, targets []*entities.ReminderTarget, now time.Time) (sent, failed int) {
	sem := make(chan struct{}, maxConcurrentSend)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, target := range targets {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			ok, err := s.processReminder(ctx, target, now)
			if err != nil {
				s.logger.Error("failed to process reminder",
					zap.Int64("user_id", target.UserID),
					zap.Error(err))
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			if ok {
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return sent, failed
}

// processReminder sends one reminder when the user has due cards and moves
// next_send_at to the next slot in the user's window either way.
func (s *ReminderService) processReminder(ctx context.Context, target *entities.ReminderTarget, now time.Time) (bool, error) {
	if !target.CanSendNow(now) {
		return false, nil
	}

	next := target.NextSendAfter(now)

	decks, err := s.reminderRepo.DueByDeck(ctx, target.UserID, now)
	if err != nil {
		return false, fmt.Errorf("count due cards: %w", err)
	}

	payload := entities.ReminderPayload{Decks: decks}
	for _, d := range decks {
		payload.TotalDue += d.Due
	}

	if payload.TotalDue == 0 {
		if err := s.reminderRepo.Reschedule(ctx, target.UserID, next); err != nil {
			return false, fmt.Errorf("reschedule reminder: %w", err)
		}
		return false, nil
	}

	if err := s.notifier.SendReminder(target.ChatID, payload); err != nil {
		return false, fmt.Errorf("send notification: %w", err)
	}

	if err := s.reminderRepo.UpdateAfterSend(ctx, target.UserID, now, next); err != nil {
		return false, fmt.Errorf("update after send: %w", err)
	}

	s.logger.Info("reminder sent",
		zap.Int64("user_id", target.UserID),
		zap.Int("due", payload.TotalDue),
		zap.Time("next_send_at", next),
	)
	return true, nil
}

// GetOrCreate retrieves reminder settings or creates default ones.
func (s *ReminderService) GetOrCreate(ctx context.Context, userID int64) (*entities.UserReminders, error) {
	reminder, err := s.reminderRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReminderNotFound) {
			reminder = entities.NewUserReminders(userID)
			if err := s.reminderRepo.Upsert(ctx, reminder); err != nil {
				return nil, fmt.Errorf("create default reminder: %w", err)
			}
			return reminder, nil
		}
		return nil, fmt.Errorf("get reminder: %w", err)
	}

	return reminder, nil
}

// Settings returns the user's reminder window and linked chat.
func (s *ReminderService) Settings(ctx context.Context, userID int64) (*ReminderSettings, error) {
	reminder, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &ReminderSettings{UserReminders: *reminder, TelegramChatID: user.TelegramChatID}, nil
}

// Update applies upd, validates the window and recomputes next_send_at.
func (s *ReminderService) Update(ctx context.Context, userID int64, upd ReminderUpdate) (*ReminderSettings, error) {
	reminder, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.IsEnabled != nil {
		reminder.IsEnabled = *upd.IsEnabled
	}
	if upd.IntervalHours != nil {
		reminder.IntervalHours = *upd.IntervalHours
	}
	if upd.StartTime != nil {
		reminder.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		reminder.EndTime = *upd.EndTime
	}
	if upd.Timezone != nil {
		reminder.Timezone = *upd.Timezone
	}
	if err := reminder.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	next := reminder.NextSendAfter(now)
	reminder.NextSendAt = &next
	reminder.UpdatedAt = now

	if err := s.reminderRepo.Upsert(ctx, reminder); err != nil {
		return nil, fmt.Errorf("upsert reminder: %w", err)
	}

	if upd.TelegramChatID != nil {
		if err := s.users.SetTelegramChatID(ctx, userID, upd.TelegramChatID); err != nil {
			return nil, fmt.Errorf("set telegram chat id: %w", err)
		}
	}

	s.logger.Info("reminder settings updated",
		zap.Int64("user_id", userID),
		zap.Bool("enabled", reminder.IsEnabled),
		zap.Time("next_send_at", next),
	)

	return s.Settings(ctx, userID)
}
