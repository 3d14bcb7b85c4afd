package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/Dias221467/Recipe_Manager/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReminderUserSource interface {
	GetUsersWithRemindersEnabled(ctx context.Context) ([]*models.User, error)
}

type MealPlanSource interface {
	GetMealPlansByUser(ctx context.Context, userID primitive.ObjectID) ([]models.MealPlan, error)
}

// ReminderHistory looks up the newest notification that references a target.
// It returns repository.ErrNotFound when there is none.
type ReminderHistory interface {
	GetLatestNotificationByTarget(ctx context.Context, userID, targetID primitive.ObjectID) (*models.Notification, error)
}

// Mailer delivers a reminder by e-mail.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// ReminderSweep creates meal plan reminders once a plan's frequency interval has
// elapsed since its last notification.
type ReminderSweep struct {
	Users    ReminderUserSource
	Plans    MealPlanSource
	History  ReminderHistory
	Notifier Notifier
	Mailer   Mailer
}

func NewReminderSweep(users ReminderUserSource, plans MealPlanSource, history ReminderHistory, notifier Notifier) *ReminderSweep {
	return &ReminderSweep{
		Users:    users,
		Plans:    plans,
		History:  history,
		Notifier: notifier,
	}
}

// RunOnce sweeps every opted-in user's plans. Plans without any prior notification
// get no reminder.
func (s *ReminderSweep) RunOnce(ctx context.Context, now time.Time) error {
	users, err := s.Users.GetUsersWithRemindersEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	created := 0
	for _, user := range users {
		if !user.NotificationPreferences.RemindersEnabled() {
			continue
		}

		plans, err := s.Plans.GetMealPlansByUser(ctx, user.ID)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to fetch meal plans for user %s", user.ID.Hex())
			continue
		}

		for i := range plans {
			ok, err := s.remind(ctx, user, &plans[i], now)
			if err != nil {
				logrus.WithError(err).Warnf("Failed to process reminder for meal plan %s", plans[i].ID.Hex())
				continue
			}
			if ok {
				created++
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"users":     len(users),
		"reminders": created,
	}).Info("Meal plan reminder sweep completed")
	return nil
}

func (s *ReminderSweep) remind(ctx context.Context, user *models.User, plan *models.MealPlan, now time.Time) (bool, error) {
	latest, err := s.History.GetLatestNotificationByTarget(ctx, user.ID, plan.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !IsReminderDue(plan.Frequency, latest.CreatedAt, now) {
		return false, nil
	}

	message := reminderMessage(plan)
	planID := plan.ID
	if _, err := s.Notifier.CreateNotification(ctx, user.ID, models.NotificationMealPlanReminder, plan.Title, message, &planID); err != nil {
		return false, err
	}

	if s.Mailer != nil && user.NotificationPreferences.Email && user.Email != "" {
		if err := s.Mailer.SendEmail(user.Email, "Meal plan reminder: "+plan.Title, message); err != nil {
			logrus.WithError(err).Warnf("Failed to e-mail reminder to user %s", user.ID.Hex())
		}
	}
	return true, nil
}

func reminderMessage(plan *models.MealPlan) string {
	msg := fmt.Sprintf("Time to check in on your %s meal plan \"%s\"", frequencyLabel(plan.Frequency), plan.Title)
	if plan.MealsPerDay > 0 {
		msg += fmt.Sprintf(" (%d meals per day)", plan.MealsPerDay)
	}
	return msg + "."
}

func frequencyLabel(f models.Frequency) string {
	switch f {
	case models.FrequencyDaily:
		return "daily"
	case models.FrequencyWeekly:
		return "weekly"
	case models.FrequencyBiWeekly:
		return "bi-weekly"
	case models.FrequencyMonthly:
		return "monthly"
	case models.FrequencyQuarterly:
		return "quarterly"
	case models.FrequencyYearly:
		return "yearly"
	}
	return string(f)
}

const day = 24 * time.Hour

// IsReminderDue reports whether the interval for freq has elapsed between last and
// now. Day and week frequencies compare elapsed time; month-based ones compare
// whole calendar months.
func IsReminderDue(freq models.Frequency, last, now time.Time) bool {
	elapsed := now.Sub(last)
	switch freq {
	case models.FrequencyDaily:
		return elapsed >= day
	case models.FrequencyWeekly:
		return elapsed >= 7*day
	case models.FrequencyBiWeekly:
		return elapsed >= 14*day
	case models.FrequencyMonthly:
		return MonthsBetween(last, now) >= 1
	case models.FrequencyQuarterly:
		return MonthsBetween(last, now) >= 3
	case models.FrequencyYearly:
		return MonthsBetween(last, now) >= 12
	}
	return false
}

// MonthsBetween counts whole calendar months from the date of start to the date of
// end, in start's location. A month only counts once end's day-of-month reaches
// start's.
func MonthsBetween(start, end time.Time) int {
	end = end.In(start.Location())
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()

	months := (ey-sy)*12 + int(em-sm)
	if months > 0 && ed < sd {
		months--
	} else if months < 0 && ed > sd {
		months++
	}
	return months
}
