package engine

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"squadup/backend/internal/gamemode"
	"squadup/backend/internal/models"
)

// CreateSessionInput carries the creator's choices for a new session.
type CreateSessionInput struct {
	GameModeID  string
	ScheduledAt time.Time
	Description string
	// MaxRankDiff < 0 means no filter.
	MaxRankDiff int
	MessageRef  string
}

// CreateSession validates the game mode and opens a new session. The
// scheduled time is stored in UTC; the creator's timezone is recorded so the
// presentation layer can render local times.
func CreateSession(db *gorm.DB, creatorID uint, in CreateSessionInput) (*models.Session, error) {
	if _, ok := gamemode.Lookup(in.GameModeID); !ok {
		return nil, ErrInvalidGameMode
	}
	if in.ScheduledAt.IsZero() {
		return nil, ErrInvalidSchedule
	}

	var creator models.User
	if err := db.First(&creator, creatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	maxDiff := in.MaxRankDiff
	if maxDiff < 0 {
		maxDiff = models.NoRankDiffLimit
	}

	session := models.Session{
		CreatorID:   creatorID,
		GameModeID:  in.GameModeID,
		ScheduledAt: in.ScheduledAt.UTC(),
		Timezone:    creator.Timezone,
		Description: in.Description,
		MaxRankDiff: maxDiff,
		Status:      models.StatusOpen,
		MessageRef:  in.MessageRef,
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}
	Notify(session.ID)
	return &session, nil
}

// SetStatus applies an explicit creator status change. Only Open<->Closed
// toggles and cancellation are permitted; fullness transitions are derived,
// never set directly. Cancelling is terminal and drops the session's queue
// and roster.
func SetStatus(db *gorm.DB, sessionID, requesterID uint, target models.SessionStatus) (*models.Session, error) {
	unlock := sessionLocks.lock(sessionID)

	var session models.Session
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := loadSession(tx, sessionID, &session); err != nil {
			return err
		}
		if session.CreatorID != requesterID {
			return ErrForbidden
		}
		if session.Status == models.StatusCancelled {
			return ErrSessionCancelled
		}

		switch target {
		case models.StatusCancelled:
			if err := tx.Where("session_id = ?", sessionID).Delete(&models.QueueEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Where("session_id = ?", sessionID).Delete(&models.RosterSlot{}).Error; err != nil {
				return err
			}
			session.Status = models.StatusCancelled
		case models.StatusClosed:
			session.Status = models.StatusClosed
		case models.StatusOpen:
			session.Status = models.StatusOpen
			count, err := rosterCount(tx, sessionID, "")
			if err != nil {
				return err
			}
			mode, ok := gamemode.Lookup(session.GameModeID)
			if !ok {
				return ErrInvalidGameMode
			}
			session.Status = recomputeStatus(session.Status, int(count), mode.Total())
		default:
			return ErrInvalidStatus
		}

		return tx.Save(&session).Error
	})
	unlock()

	if err != nil {
		return nil, err
	}
	Notify(sessionID)
	return &session, nil
}

// Reschedule moves a session to a new time. Creator-only, permitted in any
// non-cancelled status; queue and roster membership are untouched.
func Reschedule(db *gorm.DB, sessionID, requesterID uint, newTime time.Time) (*models.Session, error) {
	unlock := sessionLocks.lock(sessionID)

	var session models.Session
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := loadSession(tx, sessionID, &session); err != nil {
			return err
		}
		if session.CreatorID != requesterID {
			return ErrForbidden
		}
		if session.Status == models.StatusCancelled {
			return ErrSessionCancelled
		}
		if newTime.IsZero() {
			return ErrInvalidSchedule
		}
		session.ScheduledAt = newTime.UTC()
		return tx.Save(&session).Error
	})
	unlock()

	if err != nil {
		return nil, err
	}
	Notify(sessionID)
	return &session, nil
}

// recomputeStatus derives the fullness-driven transition: an open session
// becomes full when the roster reaches capacity and a full one reopens when
// a slot frees up. Closed and cancelled are never auto-overridden.
func recomputeStatus(status models.SessionStatus, rosterCount, total int) models.SessionStatus {
	switch {
	case status == models.StatusOpen && rosterCount >= total:
		return models.StatusFull
	case status == models.StatusFull && rosterCount < total:
		return models.StatusOpen
	default:
		return status
	}
}

// loadSession loads a session inside tx, mapping a missing row to ErrNotFound.
// Callers already hold the in-process lock for the session, which serializes
// every mutation scoped to it.
func loadSession(tx *gorm.DB, sessionID uint, out *models.Session) error {
	if err := tx.First(out, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// rosterCount counts a session's roster slots, optionally for a single role.
func rosterCount(tx *gorm.DB, sessionID uint, role string) (int64, error) {
	query := tx.Model(&models.RosterSlot{}).Where("session_id = ?", sessionID)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
