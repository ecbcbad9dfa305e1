package engine

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"squadup/backend/internal/database"
	"squadup/backend/internal/models"
)

// newTestDB opens an isolated in-memory database. The pool is capped at one
// connection so every test sees the same memory database and transactions
// serialize instead of hitting SQLITE_BUSY.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, nickname string) models.User {
	t.Helper()
	user := models.User{
		Nickname:     nickname,
		Email:        nickname + "@example.com",
		PasswordHash: "irrelevant",
		Timezone:     "America/New_York",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createAccount(t *testing.T, db *gorm.DB, userID uint, name string, primary bool) models.Account {
	t.Helper()
	account, err := CreateAccount(db, userID, name, primary)
	require.NoError(t, err)
	return *account
}

func rateAccount(t *testing.T, db *gorm.DB, userID, accountID uint, role, rank string, division int) {
	t.Helper()
	_, err := SetRating(db, userID, accountID, role, rank, division)
	require.NoError(t, err)
}

func createTestSession(t *testing.T, db *gorm.DB, creatorID uint, modeID string) *models.Session {
	t.Helper()
	session, err := CreateSession(db, creatorID, CreateSessionInput{
		GameModeID:  modeID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		MaxRankDiff: models.NoRankDiffLimit,
	})
	require.NoError(t, err)
	return session
}

// queueUp creates a user with one rated account and joins them to the queue.
// The account is rated for every role offered, so promotion eligibility
// depends only on what the individual test sets up afterwards.
func queueUp(t *testing.T, db *gorm.DB, sessionID uint, nickname string, roles []string, rank string, division int) (models.User, models.Account) {
	t.Helper()
	user := createUser(t, db, nickname)
	account := createAccount(t, db, user.ID, nickname+"-main", true)
	for _, role := range roles {
		if role == "Any" {
			continue
		}
		rateAccount(t, db, user.ID, account.ID, role, rank, division)
	}
	_, err := JoinQueue(db, sessionID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
		Roles:      roles,
	})
	require.NoError(t, err)
	return user, account
}
