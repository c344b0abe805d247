//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"storefront-backend/internal/domain/coupon"
	"storefront-backend/internal/handler/api"
	reqdto "storefront-backend/internal/handler/dto/request"
	"storefront-backend/internal/pkg/errs"
	"storefront-backend/internal/usecase/commands"
	"storefront-backend/internal/usecase/queries"
)

type stubCouponCommands struct {
	validateResult *commands.CouponValidationResult
	validateErr    error
	createErr      error
	createView     *queries.CouponView
}

func (s *stubCouponCommands) ValidateCoupon(_ context.Context, _ string, _ decimal.Decimal) (*commands.CouponValidationResult, error) {
	return s.validateResult, s.validateErr
}

func (s *stubCouponCommands) CreateCoupon(_ context.Context, _ reqdto.CreateCouponRequest) (*queries.CouponView, error) {
	return s.createView, s.createErr
}

func (s *stubCouponCommands) UpdateCoupon(_ context.Context, _ uuid.UUID, _ reqdto.UpdateCouponRequest) (*queries.CouponView, error) {
	return nil, nil
}

func (s *stubCouponCommands) DeleteCoupon(_ context.Context, _ uuid.UUID) error {
	return nil
}

type stubCouponQueries struct {
	view    *queries.CouponView
	getErr  error
	listErr error
}

func (s *stubCouponQueries) GetByID(_ context.Context, _ uuid.UUID) (*queries.CouponView, error) {
	return s.view, s.getErr
}

func (s *stubCouponQueries) List(_ context.Context) ([]*queries.CouponView, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []*queries.CouponView{s.view}, nil
}

type CouponHandlerTestSuite struct {
	suite.Suite
	commands *stubCouponCommands
	queries  *stubCouponQueries
	router   *gin.Engine
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.commands = &stubCouponCommands{}
	s.queries = &stubCouponQueries{}
	handler := api.NewCouponHandler(s.commands, s.queries)

	s.router = gin.New()
	s.router.POST("/api/coupons/validate", handler.ValidateCoupon)
	s.router.POST("/api/coupons", handler.CreateCoupon)
	s.router.GET("/api/coupons/:id", handler.GetCoupon)
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

func (s *CouponHandlerTestSuite) postJSON(url string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CouponHandlerTestSuite) errorMessage(rec *httptest.ResponseRecorder) string {
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func (s *CouponHandlerTestSuite) TestValidateCoupon() {
	url := "/api/coupons/validate"
	validBody := gin.H{"code": "SAVE20", "subtotal": "50.000"}

	s.Run("success returns the discount", func() {
		s.commands.validateErr = nil
		s.commands.validateResult = &commands.CouponValidationResult{
			CouponID:       uuid.New(),
			Code:           "SAVE20",
			DiscountType:   "percentage",
			DiscountAmount: decimal.RequireFromString("10.000"),
		}

		rec := s.postJSON(url, validBody)

		s.Equal(http.StatusOK, rec.Code)
		var result commands.CouponValidationResult
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
		s.Equal("SAVE20", result.Code)
		s.True(decimal.RequireFromString("10.000").Equal(result.DiscountAmount))
	})

	s.Run("each rejection reason has its own message", func() {
		belowMin := &coupon.BelowMinimumError{Min: decimal.RequireFromString("25.000")}
		testCases := []struct {
			name        string
			commandsErr error
			expectedMsg string
		}{
			{"unknown code", errs.ErrCouponNotFound, "Coupon not found"},
			{"expired", errs.ErrCouponExpired, "This coupon has expired"},
			{"exhausted", errs.ErrCouponExhausted, "This coupon has reached its usage limit"},
			{"below minimum", belowMin, belowMin.Error()},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.commands.validateResult = nil
				s.commands.validateErr = tc.commandsErr

				rec := s.postJSON(url, validBody)

				s.Equal(http.StatusBadRequest, rec.Code)
				s.Equal(tc.expectedMsg, s.errorMessage(rec))
			})
		}
	})

	s.Run("malformed body is rejected before the usecase", func() {
		rec := s.postJSON(url, gin.H{"subtotal": "50.000"})

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("Invalid request format", s.errorMessage(rec))
	})
}

func (s *CouponHandlerTestSuite) TestCreateCoupon() {
	url := "/api/coupons"
	validBody := gin.H{"code": "SAVE20", "discount_type": "percentage", "discount_value": "20"}

	s.Run("duplicate code returns 409", func() {
		s.commands.createErr = errs.ErrCouponCodeTaken

		rec := s.postJSON(url, validBody)

		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("A coupon with this code already exists", s.errorMessage(rec))
	})

	s.Run("invalid parameters return 422", func() {
		s.commands.createErr = errs.ErrInvalidCoupon

		rec := s.postJSON(url, validBody)

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown discount type fails binding", func() {
		rec := s.postJSON(url, gin.H{"code": "SAVE20", "discount_type": "bogus", "discount_value": "20"})

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *CouponHandlerTestSuite) TestGetCoupon() {
	s.Run("bad id format returns 400", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/coupons/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing coupon returns 404", func() {
		s.queries.getErr = errs.ErrCouponNotFound

		req := httptest.NewRequest(http.MethodGet, "/api/coupons/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusNotFound, rec.Code)
	})
}
