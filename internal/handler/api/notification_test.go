//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"mention-relay/internal/handler/api"
	resdto "mention-relay/internal/handler/dto/response"
	"mention-relay/internal/usecase/queries"
	"mention-relay/tests/common/builder"
	"mention-relay/tests/common/httptest"
	"mention-relay/tests/common/testutil"
	commandsmock "mention-relay/tests/mock/commands"
	queriesmock "mention-relay/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type NotificationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockNotificationCommands
	mockQueries  *queriesmock.MockNotificationQueries
	handler      *api.NotificationHandler
	userID       uuid.UUID
}

func (s *NotificationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockNotificationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockNotificationQueries(s.mockCtrl)
	s.handler = api.NewNotificationHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("username", "bob")
		c.Next()
	}

	notifications := s.router.Group("/api/notifications", authMiddleware)
	notifications.GET("", s.handler.List)
	notifications.GET("/unread-count", s.handler.UnreadCount)
	notifications.POST("/:id/read", s.handler.MarkRead)
	notifications.POST("/read-all", s.handler.MarkAllRead)
}

func (s *NotificationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestNotificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerTestSuite))
}

// ================================================================================
// TestList
// ================================================================================

func (s *NotificationHandlerTestSuite) TestListSuccess() {
	first := builder.NewNotificationBuilder().WithRecipient(s.userID).BuildView()
	second := builder.NewNotificationBuilder().WithRecipient(s.userID).WithRead(true).BuildView()

	s.mockQueries.EXPECT().
		ListByRecipient(gomock.Any(), s.userID).
		Return([]*queries.NotificationView{first, second}, nil)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/notifications", nil, "token")

	var body struct {
		Notifications []*resdto.NotificationResponse `json:"notifications"`
	}
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
	s.Require().Len(body.Notifications, 2)

	want := testutil.DtoMap(s.T(), resdto.FromNotificationView(first))
	s.Equal(want, testutil.DtoMap(s.T(), body.Notifications[0]))

	want = testutil.DtoMap(s.T(), resdto.FromNotificationView(second))
	s.Equal(want, testutil.DtoMap(s.T(), body.Notifications[1]))
	s.True(body.Notifications[1].IsRead)
}

func (s *NotificationHandlerTestSuite) TestListUnauthorized() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/notifications", nil, "")
	httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Unauthorized")
}

func (s *NotificationHandlerTestSuite) TestListQueryFailure() {
	s.mockQueries.EXPECT().
		ListByRecipient(gomock.Any(), s.userID).
		Return(nil, errors.New("db down"))

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/notifications", nil, "token")
	httptest.AssertErrorResponse(s.T(), w, http.StatusInternalServerError, "Failed to load notifications")
}

func (s *NotificationHandlerTestSuite) TestUnreadCount() {
	s.mockQueries.EXPECT().
		UnreadCount(gomock.Any(), s.userID).
		Return(int64(7), nil)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/notifications/unread-count", nil, "token")

	var body resdto.UnreadCountResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
	s.Equal(int64(7), body.Count)
}

func (s *NotificationHandlerTestSuite) TestMarkRead() {
	notificationID := uuid.New()

	s.mockCommands.EXPECT().
		MarkRead(gomock.Any(), notificationID, s.userID).
		Return(int64(1), nil)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/notifications/"+notificationID.String()+"/read", nil, "token")

	var body resdto.AffectedCountResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
	s.Equal(int64(1), body.Affected)
}

func (s *NotificationHandlerTestSuite) TestMarkReadNotFound() {
	// Missing, already read, and owned-by-someone-else all come back as
	// zero affected rows and must surface as 404, never 403.
	notificationID := uuid.New()

	s.mockCommands.EXPECT().
		MarkRead(gomock.Any(), notificationID, s.userID).
		Return(int64(0), nil)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/notifications/"+notificationID.String()+"/read", nil, "token")
	httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "Not found")
}

func (s *NotificationHandlerTestSuite) TestMarkReadInvalidID() {
	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/notifications/not-a-uuid/read", nil, "token")
	httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid id")
}

func (s *NotificationHandlerTestSuite) TestMarkAllRead() {
	s.mockCommands.EXPECT().
		MarkAllRead(gomock.Any(), s.userID).
		Return(int64(4), nil)

	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/notifications/read-all", nil, "token")

	var body resdto.AffectedCountResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
	s.Equal(int64(4), body.Affected)
}
