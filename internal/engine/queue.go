package engine

import (
	"errors"

	"gorm.io/gorm"

	"squadup/backend/internal/gamemode"
	"squadup/backend/internal/models"
)

// JoinQueueInput is what a user offers when entering a session's queue.
type JoinQueueInput struct {
	AccountIDs []uint
	Roles      []string
	Streaming  bool
	Note       string
}

// JoinQueue adds a user to a session's waiting queue. The user must not
// already be queued or rostered, the session must be joinable, and for
// role-capacitated modes at least one offered role must still have room.
// Account ownership is the only account check made here; rank eligibility is
// evaluated later, at promotion time, against live account data.
func JoinQueue(db *gorm.DB, sessionID, userID uint, in JoinQueueInput) (*models.QueueEntry, error) {
	unlock := sessionLocks.lock(sessionID)

	var entry models.QueueEntry
	err := db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := loadSession(tx, sessionID, &session); err != nil {
			return err
		}
		switch session.Status {
		case models.StatusCancelled:
			return ErrSessionCancelled
		case models.StatusClosed:
			return ErrSessionNotJoinable
		}

		mode, ok := gamemode.Lookup(session.GameModeID)
		if !ok {
			return ErrInvalidGameMode
		}

		roles := in.Roles
		if mode.AnyOnly() {
			roles = []string{gamemode.RoleAny}
		} else {
			if len(roles) == 0 {
				return ErrInvalidRole
			}
			for _, role := range roles {
				if !mode.HasRole(role) {
					return ErrInvalidRole
				}
			}
		}

		if len(in.AccountIDs) == 0 {
			return ErrIneligibleAccount
		}
		var owned int64
		if err := tx.Model(&models.Account{}).
			Where("id IN ? AND user_id = ?", in.AccountIDs, userID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned != int64(len(in.AccountIDs)) {
			return ErrIneligibleAccount
		}

		var existing models.QueueEntry
		err := tx.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&existing).Error
		if err == nil {
			return ErrAlreadyQueued
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		var slot models.RosterSlot
		err = tx.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&slot).Error
		if err == nil {
			return ErrAlreadyRostered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Joining is still allowed while some offered role has room, even if
		// other roles are already at capacity.
		if open, err := anyRoleOpen(tx, sessionID, mode, roles); err != nil {
			return err
		} else if !open {
			return ErrSessionNotJoinable
		}

		entry = models.QueueEntry{
			SessionID:           sessionID,
			UserID:              userID,
			CandidateAccountIDs: in.AccountIDs,
			Roles:               roles,
			IsStreaming:         in.Streaming,
			Note:                in.Note,
		}
		return tx.Create(&entry).Error
	})
	unlock()

	if err != nil {
		return nil, err
	}
	Notify(sessionID)
	return &entry, nil
}

// LeaveQueue removes the user's queue entry and reports whether a row was
// removed. A missing entry is ErrNotQueued, reported but non-fatal.
func LeaveQueue(db *gorm.DB, sessionID, userID uint) (bool, error) {
	unlock := sessionLocks.lock(sessionID)

	err := db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := loadSession(tx, sessionID, &session); err != nil {
			return err
		}
		if session.Status == models.StatusCancelled {
			return ErrSessionCancelled
		}

		result := tx.Where("session_id = ? AND user_id = ?", sessionID, userID).
			Delete(&models.QueueEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotQueued
		}
		return nil
	})
	unlock()

	if err != nil {
		return false, err
	}
	Notify(sessionID)
	return true, nil
}

// SetStreaming sets the streaming flag wherever the user currently is:
// queue entry or roster slot, which are mutually exclusive.
func SetStreaming(db *gorm.DB, sessionID, userID uint, value bool) error {
	unlock := sessionLocks.lock(sessionID)

	err := db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := loadSession(tx, sessionID, &session); err != nil {
			return err
		}
		if session.Status == models.StatusCancelled {
			return ErrSessionCancelled
		}

		result := tx.Model(&models.QueueEntry{}).
			Where("session_id = ? AND user_id = ?", sessionID, userID).
			Update("is_streaming", value)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		result = tx.Model(&models.RosterSlot{}).
			Where("session_id = ? AND user_id = ?", sessionID, userID).
			Update("is_streaming", value)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotParticipating
		}
		return nil
	})
	unlock()

	if err != nil {
		return err
	}
	Notify(sessionID)
	return nil
}

// ListQueue returns a session's waiting queue in insertion order. The engine
// provides the listing for the creator's review; rendering is not its job.
func ListQueue(db *gorm.DB, sessionID uint) ([]models.QueueEntry, error) {
	var session models.Session
	if err := loadSession(db, sessionID, &session); err != nil {
		return nil, err
	}
	var entries []models.QueueEntry
	err := db.Preload("User").
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// anyRoleOpen reports whether at least one of the offered roles still has
// roster capacity. For Any-only modes this is a plain total-capacity check.
func anyRoleOpen(tx *gorm.DB, sessionID uint, mode gamemode.Mode, roles []string) (bool, error) {
	if mode.AnyOnly() {
		count, err := rosterCount(tx, sessionID, "")
		if err != nil {
			return false, err
		}
		return int(count) < mode.Total(), nil
	}
	for _, role := range roles {
		count, err := rosterCount(tx, sessionID, role)
		if err != nil {
			return false, err
		}
		if int(count) < mode.Capacity(role) {
			return true, nil
		}
	}
	return false, nil
}
