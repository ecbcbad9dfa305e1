package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	router := setupRouter(t)

	registerUser(t, router, "alice")

	// Duplicate nickname or email is rejected.
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"nickname": "alice",
		"email":    "alice2@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login works with either nickname or email.
	for _, login := range []string{"alice", "alice@example.com"} {
		w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"login":    login,
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"login":    "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMeRequiresAuth(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := registerUser(t, router, "alice")
	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me PrivateUserResponse
	decodeBody(t, w, &me)
	assert.Equal(t, "alice", me.Nickname)
	assert.Equal(t, "America/New_York", me.Timezone)
}

func TestUpdateProfile(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router, "alice")

	w := doJSON(t, router, http.MethodPut, "/api/v1/users/me", token, gin.H{
		"timezone":        "Europe/Berlin",
		"preferred_roles": []string{"Tank", "Support"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me PrivateUserResponse
	decodeBody(t, w, &me)
	assert.Equal(t, "Europe/Berlin", me.Timezone)
	assert.Equal(t, []string{"Tank", "Support"}, me.PreferredRoles)

	w = doJSON(t, router, http.MethodPut, "/api/v1/users/me", token, gin.H{
		"timezone": "Mars/Olympus_Mons",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/users/me", token, gin.H{
		"preferred_roles": []string{"Healer"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
