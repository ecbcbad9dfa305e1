package engine

import (
	"errors"

	"gorm.io/gorm"

	"squadup/backend/internal/gamemode"
	"squadup/backend/internal/models"
)

// CreateAccount adds a named account for a user. Names are unique per owner.
// Marking the new account primary atomically unsets the previous primary.
func CreateAccount(db *gorm.DB, userID uint, name string, isPrimary bool) (*models.Account, error) {
	unlock := userLocks.lock(userID)
	defer unlock()

	var account models.Account
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Account
		err := tx.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error
		if err == nil {
			return ErrDuplicateAccount
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if isPrimary {
			if err := tx.Model(&models.Account{}).
				Where("user_id = ?", userID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}

		account = models.Account{
			UserID:    userID,
			Name:      name,
			IsPrimary: isPrimary,
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SetRating sets or clears an account's rank for one role. An empty rank
// clears the rating, making the account unranked for that role.
func SetRating(db *gorm.DB, userID, accountID uint, role, rank string, division int) (*models.Account, error) {
	if !gamemode.ValidRatingRole(role) {
		return nil, ErrInvalidRole
	}
	if rank != "" && !gamemode.ValidDivision(rank, division) {
		return nil, ErrInvalidRank
	}

	unlock := userLocks.lock(userID)
	defer unlock()

	var account models.Account
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := loadOwnedAccount(tx, userID, accountID, &account); err != nil {
			return err
		}

		if rank == "" {
			return tx.Where("account_id = ? AND role = ?", accountID, role).
				Delete(&models.RoleRating{}).Error
		}

		var rating models.RoleRating
		err := tx.Where("account_id = ? AND role = ?", accountID, role).First(&rating).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rating = models.RoleRating{AccountID: accountID, Role: role, Rank: rank, Division: division}
			return tx.Create(&rating).Error
		}
		if err != nil {
			return err
		}
		rating.Rank = rank
		rating.Division = division
		return tx.Save(&rating).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Ratings").First(&account, accountID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// SetPrimary marks an account as the owner's primary. The previous primary is
// unset in the same transaction, so the user ends up with exactly one primary
// account regardless of starting state.
func SetPrimary(db *gorm.DB, userID, accountID uint) (*models.Account, error) {
	unlock := userLocks.lock(userID)
	defer unlock()

	var account models.Account
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := loadOwnedAccount(tx, userID, accountID, &account); err != nil {
			return err
		}
		if err := tx.Model(&models.Account{}).
			Where("user_id = ? AND id <> ?", userID, accountID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		account.IsPrimary = true
		return tx.Save(&account).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteAccount removes an account and its ratings. Queue entries and roster
// slots keep their non-owning references; eligibility checks tolerate the
// dangling id.
func DeleteAccount(db *gorm.DB, userID, accountID uint) error {
	unlock := userLocks.lock(userID)
	defer unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := loadOwnedAccount(tx, userID, accountID, &account); err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&models.RoleRating{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&account).Error
	})
}

// ListAccounts returns a user's accounts, primary first then oldest first,
// with ratings loaded.
func ListAccounts(db *gorm.DB, userID uint) ([]models.Account, error) {
	var accounts []models.Account
	err := db.Preload("Ratings").
		Where("user_id = ?", userID).
		Order("is_primary DESC, id ASC").
		Find(&accounts).Error
	return accounts, err
}

func loadOwnedAccount(tx *gorm.DB, userID, accountID uint, out *models.Account) error {
	err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
