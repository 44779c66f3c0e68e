package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mentorhive/mentor-scheduler/db"
	"github.com/mentorhive/mentor-scheduler/models"
	"github.com/mentorhive/mentor-scheduler/scheduler"
	"github.com/mentorhive/mentor-scheduler/utils"
)

// StartCronJobs wires the background jobs: sweeping accepted bookings whose
// sessions have ended into Completed, and mailing session reminders.
func StartCronJobs(engine *scheduler.Engine, logger *zap.Logger) {
	c := cron.New()

	_, err := c.AddFunc("*/5 * * * *", func() {
		completed := engine.CompleteElapsed(context.Background())
		if completed > 0 {
			logger.Info("sessions auto-completed", zap.Int("count", completed))
		}
	})
	if err != nil {
		logger.Fatal("failed to add completion sweep", zap.Error(err))
	}

	_, err = c.AddFunc("*/10 * * * *", func() {
		sendSessionReminders(engine, logger)
	})
	if err != nil {
		logger.Fatal("failed to add reminder job", zap.Error(err))
	}

	c.Start()
	logger.Info("cron jobs started")
}

// sendSessionReminders mails students whose accepted sessions start roughly
// an hour from now. The job runs every ten minutes against a ten-minute
// window, so each session is reminded once.
func sendSessionReminders(engine *scheduler.Engine, logger *zap.Logger) {
	now := time.Now()
	today := now.UTC().Format("2006-01-02")
	tomorrow := now.UTC().AddDate(0, 0, 1).Format("2006-01-02")

	var bookings []models.BookingRequest
	err := db.DB.
		Where("status = ? AND slot_date IN (?, ?)", models.StatusAccepted, today, tomorrow).
		Find(&bookings).Error
	if err != nil {
		logger.Error("failed to fetch bookings for reminders", zap.Error(err))
		return
	}

	windowStart := now.Add(60 * time.Minute)
	windowEnd := now.Add(70 * time.Minute)

	for _, booking := range bookings {
		policy := engine.Policy(booking.MentorID)
		loc, err := time.LoadLocation(policy.Timezone)
		if err != nil {
			loc = time.UTC
		}
		day, err := time.ParseInLocation("2006-01-02", booking.SlotDate, loc)
		if err != nil {
			continue
		}
		start := day.Add(time.Duration(booking.StartMinute) * time.Minute)
		if start.Before(windowStart) || !start.Before(windowEnd) {
			continue
		}

		if err := sendReminderEmail(&booking, start); err != nil {
			logger.Error("failed to send session reminder",
				zap.Uint("request_id", booking.ID),
				zap.Error(err),
			)
			continue
		}
		logger.Info("session reminder sent", zap.Uint("request_id", booking.ID))
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(booking *models.BookingRequest, start time.Time) error {
	var student, mentor models.User
	if err := db.DB.First(&student, booking.StudentID).Error; err != nil {
		return fmt.Errorf("load student %d: %w", booking.StudentID, err)
	}
	if err := db.DB.First(&mentor, booking.MentorID).Error; err != nil {
		return fmt.Errorf("load mentor %d: %w", booking.MentorID, err)
	}

	subject := "Reminder: Upcoming Mentoring Session"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your mentoring session starting in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Mentor:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>Duration:</strong> %d minutes</li>
		</ul>
		<p>If you need to reschedule or cancel, contact your mentor as soon as possible.</p>
	`, student.Name, mentor.Name, start.Format("2006-01-02 15:04"), booking.DurationMinutes)

	return utils.SendEmail(student.Email, subject, body)
}
