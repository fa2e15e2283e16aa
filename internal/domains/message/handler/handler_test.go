package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"poultry-market-backend/internal/domains/message/model"
	"poultry-market-backend/internal/shared"
	"poultry-market-backend/pkg/jwt"
)

type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Send(ctx context.Context, senderID uuid.UUID, req model.SendMessageRequest) (*model.Message, error) {
	args := m.Called(ctx, senderID, req)
	if msg, ok := args.Get(0).(*model.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessageService) Conversations(ctx context.Context, userID uuid.UUID) ([]model.Conversation, error) {
	args := m.Called(ctx, userID)
	if cs, ok := args.Get(0).([]model.Conversation); ok {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMessageService) Thread(ctx context.Context, userID, otherID, listingID uuid.UUID, limit, offset int) ([]*model.Message, error) {
	args := m.Called(ctx, userID, otherID, listingID, limit, offset)
	if msgs, ok := args.Get(0).([]*model.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

// asUser stands in for the auth middleware.
func asUser(id *uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != nil {
			c.Set(shared.ContextUserID, *id)
			c.Set(shared.ContextRole, role)
		}
		c.Next()
	}
}

func setupRouter(svc *MockMessageService, caller *uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMessageHandler(svc)

	r := gin.New()
	r.Use(asUser(caller, role))
	r.POST("/messages", h.Send)
	r.GET("/users/:id/conversations", h.ListConversations)
	r.GET("/conversations/:listingId/:otherUserId/messages", h.GetThread)
	return r
}

func serve(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
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

func TestSend(t *testing.T) {
	caller, seller, listing := uuid.New(), uuid.New(), uuid.New()
	req := model.SendMessageRequest{ReceiverID: seller.String(), ListingID: listing.String(), Content: "Still available?"}

	t.Run("created", func(t *testing.T) {
		svc := new(MockMessageService)
		svc.On("Send", mock.Anything, caller, req).Return(&model.Message{
			ID: uuid.New(), SenderID: caller, ReceiverID: seller, ListingID: listing,
			Content: req.Content, CreatedAt: time.Now(),
		}, nil).Once()

		w := serve(setupRouter(svc, &caller, jwt.RoleUser), http.MethodPost, "/messages", req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Still available?")
		svc.AssertExpectations(t)
	})

	t.Run("not a listing party", func(t *testing.T) {
		svc := new(MockMessageService)
		svc.On("Send", mock.Anything, caller, req).Return(nil, model.NewNotListingPartyError()).Once()

		w := serve(setupRouter(svc, &caller, jwt.RoleUser), http.MethodPost, "/messages", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeNotListingParty, errorCode(t, w))
	})

	t.Run("store down", func(t *testing.T) {
		svc := new(MockMessageService)
		svc.On("Send", mock.Anything, caller, req).
			Return(nil, model.NewStoreUnavailableError(errors.New("connection refused"))).Once()

		w := serve(setupRouter(svc, &caller, jwt.RoleUser), http.MethodPost, "/messages", req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := new(MockMessageService)
		w := serve(setupRouter(svc, nil, ""), http.MethodPost, "/messages", req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListConversations(t *testing.T) {
	owner, other := uuid.New(), uuid.New()
	conversations := []model.Conversation{{
		ID:          model.ConversationID(uuid.New(), other),
		OtherUserID: other,
		LastMessage: "See you Friday",
		UnreadCount: 3,
	}}

	t.Run("own inbox", func(t *testing.T) {
		svc := new(MockMessageService)
		svc.On("Conversations", mock.Anything, owner).Return(conversations, nil).Once()

		w := serve(setupRouter(svc, &owner, jwt.RoleUser), http.MethodGet, "/users/"+owner.String()+"/conversations", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"unread_count":3`)
		assert.Contains(t, w.Body.String(), `"last_message":"See you Friday"`)
	})

	t.Run("someone else's inbox", func(t *testing.T) {
		svc := new(MockMessageService)
		w := serve(setupRouter(svc, &other, jwt.RoleUser), http.MethodGet, "/users/"+owner.String()+"/conversations", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, model.ErrCodeForeignInbox, errorCode(t, w))
		svc.AssertNotCalled(t, "Conversations", mock.Anything, mock.Anything)
	})

	t.Run("admin", func(t *testing.T) {
		admin := uuid.New()
		svc := new(MockMessageService)
		svc.On("Conversations", mock.Anything, owner).Return(conversations, nil).Once()

		w := serve(setupRouter(svc, &admin, jwt.RoleAdmin), http.MethodGet, "/users/"+owner.String()+"/conversations", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := serve(setupRouter(new(MockMessageService), &owner, jwt.RoleUser), http.MethodGet, "/users/x/conversations", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetThread(t *testing.T) {
	caller, other, listing := uuid.New(), uuid.New(), uuid.New()
	path := "/conversations/" + listing.String() + "/" + other.String() + "/messages"

	svc := new(MockMessageService)
	svc.On("Thread", mock.Anything, caller, other, listing, 2, 4).
		Return([]*model.Message{{Content: "one"}, {Content: "two"}}, nil).Once()

	w := serve(setupRouter(svc, &caller, jwt.RoleUser), http.MethodGet, path+"?limit=2&offset=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_more":true`)
	svc.AssertExpectations(t)

	w = serve(setupRouter(svc, &caller, jwt.RoleUser), http.MethodGet, "/conversations/bad/"+other.String()+"/messages", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
