package engine

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"squadup/backend/internal/gamemode"
	"squadup/backend/internal/models"
)

// EligibleAccounts filters a queue entry's candidate accounts to those that
// can fill the given role: for named roles the account must hold a rating for
// it, for Any every candidate qualifies. Accounts come back primary-first,
// then in the order the user declared them. Ratings are read live, so a rank
// edited after queueing is honored here.
func EligibleAccounts(db *gorm.DB, entry *models.QueueEntry, mode gamemode.Mode, role string) ([]models.Account, error) {
	if len(entry.CandidateAccountIDs) == 0 {
		return nil, nil
	}

	var accounts []models.Account
	if err := db.Preload("Ratings").
		Where("id IN ? AND user_id = ?", entry.CandidateAccountIDs, entry.UserID).
		Find(&accounts).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc
	}

	anyRole := mode.AnyOnly() || role == gamemode.RoleAny
	var primaries, rest []models.Account
	for _, id := range entry.CandidateAccountIDs {
		acc, ok := byID[id]
		if !ok {
			// Account deleted since queueing; the reference is tolerated.
			continue
		}
		if !anyRole && acc.RatingFor(role) == nil {
			continue
		}
		if acc.IsPrimary {
			primaries = append(primaries, acc)
		} else {
			rest = append(rest, acc)
		}
	}
	return append(primaries, rest...), nil
}

// Promote moves a queue entry into a roster slot for a specific role and
// account. It is always an explicit creator choice: the engine never picks
// "next in line". The queue-entry removal and slot insertion commit as one
// transition, so a concurrent observer never sees the user in both or
// neither, and of two racing promotions into the last open slot exactly one
// commits - the other fails with NotFound or RoleFull.
func Promote(db *gorm.DB, sessionID, creatorID, targetUserID uint, role string, accountID uint) (*models.RosterSlot, error) {
	unlock := sessionLocks.lock(sessionID)

	var slot models.RosterSlot
	err := db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := loadSession(tx, sessionID, &session); err != nil {
			return err
		}
		if session.Status == models.StatusCancelled {
			return ErrSessionCancelled
		}
		// Closed sessions may still be managed by their creator.
		if session.CreatorID != creatorID {
			return ErrForbidden
		}

		mode, ok := gamemode.Lookup(session.GameModeID)
		if !ok {
			return ErrInvalidGameMode
		}
		if mode.AnyOnly() {
			role = gamemode.RoleAny
		} else if !mode.HasRole(role) {
			return ErrInvalidRole
		}

		if mode.AnyOnly() {
			count, err := rosterCount(tx, sessionID, "")
			if err != nil {
				return err
			}
			if int(count) >= mode.Total() {
				return ErrRoleFull
			}
		} else {
			count, err := rosterCount(tx, sessionID, role)
			if err != nil {
				return err
			}
			if int(count) >= mode.Capacity(role) {
				return ErrRoleFull
			}
		}

		var existing models.RosterSlot
		err := tx.Where("session_id = ? AND user_id = ?", sessionID, targetUserID).First(&existing).Error
		if err == nil {
			return ErrAlreadyRostered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var entry models.QueueEntry
		err = tx.Where("session_id = ? AND user_id = ?", sessionID, targetUserID).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		eligible, err := EligibleAccounts(tx, &entry, mode, role)
		if err != nil {
			return err
		}
		var account *models.Account
		for i := range eligible {
			if eligible[i].ID == accountID {
				account = &eligible[i]
				break
			}
		}
		if account == nil {
			return ErrIneligibleAccount
		}

		if err := checkRankSpread(tx, &session, account, role); err != nil {
			return err
		}

		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		slot = models.RosterSlot{
			SessionID:    sessionID,
			UserID:       targetUserID,
			AccountID:    accountID,
			Role:         role,
			IsStreaming:  entry.IsStreaming,
			AssignedByID: creatorID,
			AssignedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&slot).Error; err != nil {
			return err
		}

		total, err := rosterCount(tx, sessionID, "")
		if err != nil {
			return err
		}
		if next := recomputeStatus(session.Status, int(total), mode.Total()); next != session.Status {
			session.Status = next
			return tx.Save(&session).Error
		}
		return nil
	})
	unlock()

	if err != nil {
		return nil, err
	}
	Notify(sessionID)
	return &slot, nil
}

// Demote removes a user's roster slot. The requester must be the session
// creator or the rostered user themself. The removed user is not re-queued;
// a full session reopens if it wasn't explicitly closed.
func Demote(db *gorm.DB, sessionID, requesterID, targetUserID uint) error {
	unlock := sessionLocks.lock(sessionID)

	err := db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := loadSession(tx, sessionID, &session); err != nil {
			return err
		}
		if session.Status == models.StatusCancelled {
			return ErrSessionCancelled
		}
		if requesterID != session.CreatorID && requesterID != targetUserID {
			return ErrForbidden
		}

		result := tx.Where("session_id = ? AND user_id = ?", sessionID, targetUserID).
			Delete(&models.RosterSlot{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		mode, ok := gamemode.Lookup(session.GameModeID)
		if !ok {
			return ErrInvalidGameMode
		}
		total, err := rosterCount(tx, sessionID, "")
		if err != nil {
			return err
		}
		if next := recomputeStatus(session.Status, int(total), mode.Total()); next != session.Status {
			session.Status = next
			return tx.Save(&session).Error
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

// checkRankSpread enforces the session's max-rank-difference filter at
// promotion time: the chosen account's rank value for the role must stay
// within the limit of every rated account already on the roster. Unranked
// accounts are never compared.
func checkRankSpread(tx *gorm.DB, session *models.Session, account *models.Account, role string) error {
	if session.MaxRankDiff == models.NoRankDiffLimit {
		return nil
	}
	rating := account.RatingFor(role)
	if rating == nil {
		return nil
	}
	value := gamemode.RankValue(rating.Rank, rating.Division)

	var slots []models.RosterSlot
	if err := tx.Preload("Account.Ratings").
		Where("session_id = ?", session.ID).
		Find(&slots).Error; err != nil {
		return err
	}
	for _, slot := range slots {
		other := slot.Account.RatingFor(slot.Role)
		if other == nil {
			continue
		}
		diff := value - gamemode.RankValue(other.Rank, other.Division)
		if diff < 0 {
			diff = -diff
		}
		if diff > session.MaxRankDiff {
			return ErrIneligibleAccount
		}
	}
	return nil
}
