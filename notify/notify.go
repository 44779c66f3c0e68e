package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mentorhive/mentor-scheduler/models"
	"github.com/mentorhive/mentor-scheduler/redis"
	"github.com/mentorhive/mentor-scheduler/utils"
)

// Notifier fans engine events out to the collaborators that care: the slot
// cache is invalidated, structured logs are written, and the affected party
// gets an email. The messaging service picks status changes up through the
// conversation referenced on the request; this package never formats chat
// messages.
type Notifier struct {
	db     *gorm.DB
	cache  redis.SlotCache
	logger *zap.Logger
}

func New(db *gorm.DB, logger *zap.Logger) *Notifier {
	return &Notifier{db: db, logger: logger}
}

func (n *Notifier) BookingStatusChanged(req models.BookingRequest, old models.BookingStatus) {
	n.logger.Info("booking status changed",
		zap.Uint("request_id", req.ID),
		zap.String("conversation_id", req.ConversationID.String()),
		zap.String("from", string(old)),
		zap.String("to", string(req.Status)),
	)
	go n.emailStatusChange(req, old)
}

func (n *Notifier) SlotCapacityChanged(mentorID, slotID uint, date string, booked, max int) {
	n.logger.Info("slot capacity changed",
		zap.Uint("mentor_id", mentorID),
		zap.Uint("slot_id", slotID),
		zap.String("date", date),
		zap.Int("booked", booked),
		zap.Int("max", max),
	)
	n.cache.Invalidate(context.Background(), mentorID)
}

func (n *Notifier) emailStatusChange(req models.BookingRequest, old models.BookingStatus) {
	if n.db == nil {
		return
	}

	var recipientID uint
	var subject, body string
	switch {
	case old == "" && req.Status == models.StatusPending:
		recipientID = req.MentorID
		subject = "New booking request"
		body = fmt.Sprintf("<p>You have a new booking request for %s at %s.</p>",
			req.PreferredDate, utils.FormatClock(req.StartMinute))
	case req.Status == models.StatusAccepted:
		recipientID = req.StudentID
		subject = "Booking accepted"
		body = fmt.Sprintf("<p>Your session on %s at %s has been confirmed.</p>",
			req.SlotDate, utils.FormatClock(req.StartMinute))
	case req.Status == models.StatusDeclined:
		recipientID = req.StudentID
		subject = "Booking declined"
		body = fmt.Sprintf("<p>Your request for %s at %s was declined. %s</p>",
			req.PreferredDate, utils.FormatClock(req.StartMinute), req.DeclineReason)
	default:
		return
	}

	var user models.User
	if err := n.db.First(&user, recipientID).Error; err != nil {
		n.logger.Warn("status email skipped, recipient not found",
			zap.Uint("user_id", recipientID),
			zap.Error(err),
		)
		return
	}
	if err := utils.SendEmail(user.Email, subject, body); err != nil {
		n.logger.Warn("status email failed",
			zap.String("to", user.Email),
			zap.Error(err),
		)
	}
}
