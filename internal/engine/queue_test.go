package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squadup/backend/internal/models"
)

func TestJoinQueue(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")

	user := createUser(t, db, "joiner")
	account := createAccount(t, db, user.ID, "joiner-main", true)

	entry, err := JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
		Roles:      []string{"Tank", "Support"},
		Streaming:  true,
		Note:       "can flex",
	})
	require.NoError(t, err)

	assert.Equal(t, []uint{account.ID}, entry.CandidateAccountIDs)
	assert.Equal(t, []string{"Tank", "Support"}, entry.Roles)
	assert.True(t, entry.IsStreaming)
	assert.Equal(t, "can flex", entry.Note)
}

func TestJoinQueueTwiceFails(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")
	user, account := queueUp(t, db, session.ID, "joiner", []string{"Tank"}, "Gold", 3)

	_, err := JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
		Roles:      []string{"DPS"},
	})
	assert.ErrorIs(t, err, ErrAlreadyQueued)
}

func TestJoinQueueWhileRostered(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")
	user, account := queueUp(t, db, session.ID, "joiner", []string{"Tank"}, "Gold", 3)

	_, err := Promote(db, session.ID, creator.ID, user.ID, "Tank", account.ID)
	require.NoError(t, err)

	_, err = JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
		Roles:      []string{"DPS"},
	})
	assert.ErrorIs(t, err, ErrAlreadyRostered)
}

func TestJoinQueueClosedSession(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")
	_, err := SetStatus(db, session.ID, creator.ID, models.StatusClosed)
	require.NoError(t, err)

	user := createUser(t, db, "joiner")
	account := createAccount(t, db, user.ID, "joiner-main", true)
	_, err = JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
		Roles:      []string{"Tank"},
	})
	assert.ErrorIs(t, err, ErrSessionNotJoinable)
}

func TestJoinQueueRoleValidation(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")
	user := createUser(t, db, "joiner")
	account := createAccount(t, db, user.ID, "joiner-main", true)

	_, err := JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
	})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
		Roles:      []string{"Healer"},
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestJoinQueueUnownedAccount(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")
	other := createUser(t, db, "other")
	otherAccount := createAccount(t, db, other.ID, "other-main", true)

	user := createUser(t, db, "joiner")
	_, err := JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{otherAccount.ID},
		Roles:      []string{"Tank"},
	})
	assert.ErrorIs(t, err, ErrIneligibleAccount)

	_, err = JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		Roles: []string{"Tank"},
	})
	assert.ErrorIs(t, err, ErrIneligibleAccount)
}

func TestJoinQueueAnyOnlyModeIgnoresRoles(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "6v6")
	user := createUser(t, db, "joiner")
	account := createAccount(t, db, user.ID, "joiner-main", true)

	entry, err := JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
		Roles:      []string{"Tank", "DPS"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Any"}, entry.Roles)
}

func TestLeaveQueueAndRejoin(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")
	user, account := queueUp(t, db, session.ID, "joiner", []string{"Tank"}, "Gold", 3)

	left, err := LeaveQueue(db, session.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, left)

	_, err = LeaveQueue(db, session.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotQueued)

	// Hard-deleted rows free the (session, user) uniqueness for a rejoin.
	_, err = JoinQueue(db, session.ID, user.ID, JoinQueueInput{
		AccountIDs: []uint{account.ID},
		Roles:      []string{"Tank"},
	})
	require.NoError(t, err)
}

func TestSetStreaming(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")
	queued, _ := queueUp(t, db, session.ID, "queued", []string{"DPS"}, "Gold", 3)
	rostered, account := queueUp(t, db, session.ID, "rostered", []string{"Tank"}, "Gold", 3)
	_, err := Promote(db, session.ID, creator.ID, rostered.ID, "Tank", account.ID)
	require.NoError(t, err)

	require.NoError(t, SetStreaming(db, session.ID, queued.ID, true))
	var entry models.QueueEntry
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, queued.ID).First(&entry).Error)
	assert.True(t, entry.IsStreaming)

	require.NoError(t, SetStreaming(db, session.ID, rostered.ID, true))
	var slot models.RosterSlot
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, rostered.ID).First(&slot).Error)
	assert.True(t, slot.IsStreaming)

	bystander := createUser(t, db, "bystander")
	err = SetStreaming(db, session.ID, bystander.ID, true)
	assert.ErrorIs(t, err, ErrNotParticipating)
}

func TestListQueueOrder(t *testing.T) {
	db := newTestDB(t)
	creator := createUser(t, db, "creator")
	session := createTestSession(t, db, creator.ID, "5v5")
	first, _ := queueUp(t, db, session.ID, "first", []string{"Tank"}, "Gold", 3)
	second, _ := queueUp(t, db, session.ID, "second", []string{"DPS"}, "Gold", 3)
	third, _ := queueUp(t, db, session.ID, "third", []string{"Support"}, "Gold", 3)

	entries, err := ListQueue(db, session.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, first.ID, entries[0].UserID)
	assert.Equal(t, second.ID, entries[1].UserID)
	assert.Equal(t, third.ID, entries[2].UserID)
	assert.Equal(t, "first", entries[0].User.Nickname)
}
