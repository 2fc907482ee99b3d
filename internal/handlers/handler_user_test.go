package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/expense_sharing_app/internal/apperrors"
	"github.com/SscSPs/expense_sharing_app/internal/core/domain"
	"github.com/SscSPs/expense_sharing_app/internal/dto"
	"github.com/SscSPs/expense_sharing_app/internal/handlers"
	"github.com/SscSPs/expense_sharing_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockUserService    *MockUserService
	mockBalanceService *MockBalanceService
}

func (suite *UserHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockUserService = new(MockUserService)
	suite.mockBalanceService = new(MockBalanceService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	handlers.RegisterUserRoutes(v1, suite.mockUserService, suite.mockBalanceService)
}

func (suite *UserHandlerTestSuite) do(method, url, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, url, nil)
	} else {
		req, _ = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *UserHandlerTestSuite) TestGetMe_IncludesPooledBalance() {
	suite.mockUserService.On("GetUserByID", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Username: "alice"}, nil).Once()
	suite.mockBalanceService.On("GetUserBalance", mock.Anything, "u1", true).Return(dec("87.17"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/me", "", generateTestToken("u1"))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("alice", resp.Username)
	suite.Require().NotNil(resp.Balance)
	suite.True(resp.Balance.Equal(dec("87.17")))
	suite.Equal([]domain.Role{domain.RoleUser}, resp.Roles)
}

func (suite *UserHandlerTestSuite) TestGetUser_WithoutPartner() {
	suite.mockUserService.On("GetUserByID", mock.Anything, "u2").Return(&domain.User{UserID: "u2", Username: "bob"}, nil).Once()
	suite.mockBalanceService.On("GetUserBalance", mock.Anything, "u2", false).Return(dec("-12.5"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/u2?includePartner=false", "", generateTestToken("u1"))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockBalanceService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestGetUser_NotFound() {
	suite.mockUserService.On("GetUserByID", mock.Anything, "ghost").
		Return(nil, fmt.Errorf("failed to get user ghost: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/ghost", "", generateTestToken("u1"))

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockBalanceService.AssertNotCalled(suite.T(), "GetUserBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestListUsers_ByPartialUsername() {
	suite.mockUserService.On("ListUsers", mock.Anything, dto.ListUsersParams{Username: "ali", Limit: 20, Offset: 0}).
		Return([]domain.User{{UserID: "u1", Username: "alice"}}, nil).Once()
	suite.mockBalanceService.On("GetUserBalances", mock.Anything, mock.Anything, true).
		Return(map[string]decimal.Decimal{"u1": dec("12.5")}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users?username=ali", "", generateTestToken("u1"))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListUsersResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Users, 1)
	suite.Equal([]string{}, resp.Users[0].TagIDs)
}

func (suite *UserHandlerTestSuite) TestListUsers_IncludesPooledBalances() {
	users := []domain.User{
		{UserID: "u1", Username: "alice", PartnerID: strPtr("u2")},
		{UserID: "u2", Username: "bob", PartnerID: strPtr("u1")},
		{UserID: "u3", Username: "carol"},
	}
	suite.mockUserService.On("ListUsers", mock.Anything, mock.Anything).Return(users, nil).Once()
	suite.mockBalanceService.On("GetUserBalances", mock.Anything, users, true).Return(map[string]decimal.Decimal{
		"u1": dec("40"),
		"u2": dec("40"),
		"u3": dec("-40"),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users", "", generateTestToken("u1"))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListUsersResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Users, 3)
	for i, want := range []string{"40", "40", "-40"} {
		suite.Require().NotNil(resp.Users[i].Balance, resp.Users[i].UserID)
		suite.True(resp.Users[i].Balance.Equal(dec(want)), resp.Users[i].UserID)
	}
	suite.mockBalanceService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestListUsers_BalanceFailure() {
	suite.mockUserService.On("ListUsers", mock.Anything, mock.Anything).Return([]domain.User{{UserID: "u1"}}, nil).Once()
	suite.mockBalanceService.On("GetUserBalances", mock.Anything, mock.Anything, true).
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "db down", nil)).Once()

	w := suite.do(http.MethodGet, "/api/v1/users", "", generateTestToken("u1"))

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Contains(w.Body.String(), "Failed to list users")
}

func (suite *UserHandlerTestSuite) TestCreateUser_RequiresAdmin() {
	w := suite.do(http.MethodPost, "/api/v1/users", `{"username":"carol"}`, generateTestToken("u1"))

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestCreateUser_AsAdmin() {
	suite.mockUserService.On("CreateUser", mock.Anything, mock.MatchedBy(func(r dto.CreateUserRequest) bool {
		return r.Username == "carol" && r.Password == nil
	}), "admin").Return(&domain.User{UserID: "u3", Username: "carol"}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/users", `{"username":"carol"}`, generateTestToken("admin", domain.RoleAdmin))

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestCreateUser_DuplicateUsername() {
	suite.mockUserService.On("CreateUser", mock.Anything, mock.Anything, "admin").
		Return(nil, fmt.Errorf("username %q: %w", "carol", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/api/v1/users", `{"username":"carol"}`, generateTestToken("admin", domain.RoleAdmin))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *UserHandlerTestSuite) TestSetPartner_Unlink() {
	suite.mockUserService.On("SetPartner", mock.Anything, "a", (*string)(nil), "admin").
		Return(&domain.User{UserID: "a", Username: "alice"}, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/users/a/partner", `{"partnerID":null}`, generateTestToken("admin", domain.RoleAdmin))

	suite.Equal(http.StatusOK, w.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestSetPartner_Self() {
	suite.mockUserService.On("SetPartner", mock.Anything, "a", mock.Anything, "admin").
		Return(nil, apperrors.NewValidationError(apperrors.Violation{Code: "self_partner", Field: "partnerID", Message: "a user cannot be their own partner"})).Once()

	w := suite.do(http.MethodPut, "/api/v1/users/a/partner", `{"partnerID":"a"}`, generateTestToken("admin", domain.RoleAdmin))

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Violations, 1)
	suite.Equal("self_partner", resp.Violations[0].Code)
}

func (suite *UserHandlerTestSuite) TestIssueToken() {
	suite.mockUserService.On("IssueLoginToken", mock.Anything, "u2").
		Return(&domain.LoginToken{Token: strings.Repeat("ab", 32), UserID: "u2", Username: "bob"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/users/u2/token", "", generateTestToken("admin", domain.RoleAdmin))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.IssuedTokenResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Token, 64)
	suite.Equal("bob", resp.Username)
}

func TestUserHandler(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
