package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdash/teamdash/db"
	"github.com/teamdash/teamdash/internal/auth"
	"github.com/teamdash/teamdash/internal/models"
	"github.com/teamdash/teamdash/internal/router"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gormDB.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Task{},
	)
	require.NoError(t, err)

	db.DB = gormDB

	return router.NewRouter()
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func registerUser(t *testing.T, r *gin.Engine, username, email string) (token string, userID uint) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	return body.Token, body.User.ID
}

func TestAuthFlow(t *testing.T) {
	r := setupRouter(t)

	token, _ := registerUser(t, r, "alice", "a@x.com")

	t.Run("duplicate username", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
			"username": "alice",
			"email":    "other@x.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login with username", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"identity": "alice",
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("login with email", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"identity": "a@x.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"identity": "alice",
			"password": "wrongpassword",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("me requires token", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doRequest(t, r, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTeamMembershipEndpoints(t *testing.T) {
	r := setupRouter(t)

	aliceToken, _ := registerUser(t, r, "alice", "a@x.com")
	bobToken, bobID := registerUser(t, r, "bob", "b@x.com")
	carolToken, carolID := registerUser(t, r, "carol", "c@x.com")

	w := doRequest(t, r, http.MethodPost, "/api/teams", aliceToken, gin.H{"name": "Eng"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var team struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &team))

	membersPath := fmt.Sprintf("/api/team-members/teams/%d/members", team.ID)

	t.Run("duplicate team name", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/teams", bobToken, gin.H{"name": "Eng"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("moderator adds member", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, membersPath, aliceToken, gin.H{"user_id": bobID})
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("non-moderator cannot add", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, membersPath, bobToken, gin.H{"user_id": carolID})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-member cannot list", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, membersPath, carolToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("member lists members", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, membersPath, bobToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var members []struct {
			UserID uint `json:"user_id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
		assert.Len(t, members, 2)
	})

	t.Run("moderator updates role", func(t *testing.T) {
		path := fmt.Sprintf("%s/%d/role", membersPath, bobID)
		w := doRequest(t, r, http.MethodPut, path, aliceToken, gin.H{"is_moderator": true})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("moderator removes member", func(t *testing.T) {
		path := fmt.Sprintf("%s/%d", membersPath, bobID)
		w := doRequest(t, r, http.MethodDelete, path, aliceToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown member id", func(t *testing.T) {
		w := doRequest(t, r, http.MethodGet, "/api/team-members/999", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskEndpoints(t *testing.T) {
	r := setupRouter(t)

	token, userID := registerUser(t, r, "alice", "a@x.com")

	w := doRequest(t, r, http.MethodPost, "/api/teams", token, gin.H{"name": "Eng"})
	require.Equal(t, http.StatusCreated, w.Code)

	var team struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &team))

	t.Run("task needs an owner or a team", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/tasks", token, gin.H{"title": "orphan"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var task struct {
		ID uint `json:"id"`
	}

	t.Run("create personal task", func(t *testing.T) {
		w := doRequest(t, r, http.MethodPost, "/api/tasks", token, gin.H{
			"title":    "write docs",
			"owner_id": userID,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	})

	t.Run("cannot have both owner and team", func(t *testing.T) {
		path := fmt.Sprintf("/api/tasks/%d", task.ID)
		w := doRequest(t, r, http.MethodPut, path, token, gin.H{"team_id": team.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("hand task to team", func(t *testing.T) {
		path := fmt.Sprintf("/api/tasks/%d", task.ID)
		w := doRequest(t, r, http.MethodPut, path, token, gin.H{"owner_id": nil, "team_id": team.ID})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("list by team", func(t *testing.T) {
		path := fmt.Sprintf("/api/tasks/team/%d", team.ID)
		w := doRequest(t, r, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var tasks []json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
		assert.Len(t, tasks, 1)
	})

	t.Run("delete task", func(t *testing.T) {
		path := fmt.Sprintf("/api/tasks/%d", task.ID)
		w := doRequest(t, r, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, r, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
