package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poultry-market-backend/internal/domains/follow/model"
	"poultry-market-backend/internal/shared"
)

type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return m.Called(ctx, followerID, followeeID).Error(0)
}

func (m *MockFollowService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return m.Called(ctx, followerID, followeeID).Error(0)
}

func (m *MockFollowService) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowService) FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockFollowService) Stats(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*model.Stats, error) {
	args := m.Called(ctx, userID, viewer)
	if s, ok := args.Get(0).(*model.Stats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFollowService) Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Connection, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]model.Connection), args.Error(1)
}

func (m *MockFollowService) Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Connection, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]model.Connection), args.Error(1)
}

func (m *MockFollowService) ReconcileCounters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) EnqueueReconcileFollowCounters(ctx context.Context, requestedBy string) (string, error) {
	args := m.Called(ctx, requestedBy)
	return args.String(0), args.Error(1)
}

// asUser stands in for the auth middleware.
func asUser(id *uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != nil {
			c.Set(shared.ContextUserID, *id)
		}
		c.Next()
	}
}

func setupRouter(svc *MockFollowService, dispatcher *MockDispatcher, caller *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewFollowHandler(svc, dispatcher)

	r := gin.New()
	r.Use(asUser(caller))
	r.POST("/users/:id/follow", h.Follow)
	r.DELETE("/users/:id/follow", h.Unfollow)
	r.GET("/users/:id/follow-stats", h.GetStats)
	r.GET("/users/:id/followers", h.ListFollowers)
	r.POST("/admin/follows/reconcile", h.ReconcileCounters)
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestFollow(t *testing.T) {
	caller, target := uuid.New(), uuid.New()

	t.Run("ok", func(t *testing.T) {
		svc := new(MockFollowService)
		svc.On("Follow", mock.Anything, caller, target).Return(nil).Once()

		w := serve(setupRouter(svc, nil, &caller), http.MethodPost, "/users/"+target.String()+"/follow")
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("self follow is a conflict", func(t *testing.T) {
		svc := new(MockFollowService)
		svc.On("Follow", mock.Anything, caller, caller).Return(model.NewSelfFollowError()).Once()

		w := serve(setupRouter(svc, nil, &caller), http.MethodPost, "/users/"+caller.String()+"/follow")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, model.ErrCodeSelfFollow, errorCode(t, w))
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := new(MockFollowService)
		w := serve(setupRouter(svc, nil, nil), http.MethodPost, "/users/"+target.String()+"/follow")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(MockFollowService)
		w := serve(setupRouter(svc, nil, &caller), http.MethodDelete, "/users/not-a-uuid/follow")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStats(t *testing.T) {
	target := uuid.New()
	viewer := uuid.New()
	yes := true

	svc := new(MockFollowService)
	svc.On("Stats", mock.Anything, target, (*uuid.UUID)(nil)).
		Return(&model.Stats{UserID: target, FollowersCount: 4}, nil).Once()
	svc.On("Stats", mock.Anything, target, &viewer).
		Return(&model.Stats{UserID: target, FollowersCount: 4, IsFollowing: &yes}, nil).Once()

	w := serve(setupRouter(svc, nil, nil), http.MethodGet, "/users/"+target.String()+"/follow-stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "is_following")

	w = serve(setupRouter(svc, nil, &viewer), http.MethodGet, "/users/"+target.String()+"/follow-stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_following":true`)
	svc.AssertExpectations(t)
}

func TestListFollowers(t *testing.T) {
	target := uuid.New()
	svc := new(MockFollowService)
	svc.On("Followers", mock.Anything, target, 5, 10).
		Return([]model.Connection{{UserID: uuid.New(), Name: "Wanjiru"}}, nil).Once()

	w := serve(setupRouter(svc, nil, nil), http.MethodGet, "/users/"+target.String()+"/followers?limit=5&offset=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Wanjiru")
}

func TestReconcileCounters(t *testing.T) {
	admin := uuid.New()

	t.Run("queued", func(t *testing.T) {
		d := new(MockDispatcher)
		d.On("EnqueueReconcileFollowCounters", mock.Anything, admin.String()).Return("task-1", nil).Once()

		w := serve(setupRouter(new(MockFollowService), d, &admin), http.MethodPost, "/admin/follows/reconcile")
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), "task-1")
	})

	t.Run("already queued", func(t *testing.T) {
		d := new(MockDispatcher)
		d.On("EnqueueReconcileFollowCounters", mock.Anything, admin.String()).
			Return("", fmt.Errorf("enqueue: %w", asynq.ErrTaskIDConflict)).Once()

		w := serve(setupRouter(new(MockFollowService), d, &admin), http.MethodPost, "/admin/follows/reconcile")
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), `"queued":false`)
	})
}
