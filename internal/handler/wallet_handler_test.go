package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-offers/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWalletService is a mock implementation of WalletService.
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetWallet(ctx context.Context, patientID string) (*model.PatientWallet, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PatientWallet), args.Error(1)
}

func (m *MockWalletService) TopUp(ctx context.Context, patientID string, amount float64) error {
	args := m.Called(ctx, patientID, amount)
	return args.Error(0)
}

func (m *MockWalletService) PurchasePackage(ctx context.Context, req *model.PackagePurchaseRequest) (*model.PackagePurchase, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackagePurchase), args.Error(1)
}

func (m *MockWalletService) PayPackage(ctx context.Context, purchaseID uuid.UUID) error {
	args := m.Called(ctx, purchaseID)
	return args.Error(0)
}

func (m *MockWalletService) RedeemCredit(ctx context.Context, patientID string, req *model.CreditRedeemRequest) error {
	args := m.Called(ctx, patientID, req)
	return args.Error(0)
}

func TestWalletHandler_Wallet(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Get wallet", func(t *testing.T) {
		mockService := new(MockWalletService)
		mockService.On("GetWallet", mock.Anything, "PAT-001").Return(&model.PatientWallet{
			PatientID:   "PAT-001",
			CashBalance: 250,
			Credits: []model.ServiceCredit{
				{ServiceID: "SVC-LASER", Remaining: 4, Total: 6, UnitType: model.UnitSession},
			},
		}, nil)

		handler := NewWalletHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/patients/PAT-001/wallet", nil)
		w := httptest.NewRecorder()

		handler.Wallet(w, req, "PAT-001", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var wallet model.PatientWallet
		require.NoError(t, json.NewDecoder(w.Body).Decode(&wallet))
		assert.Equal(t, 250.0, wallet.CashBalance)
		require.Len(t, wallet.Credits, 1)
		assert.Equal(t, "SVC-LASER", wallet.Credits[0].ServiceID)

		mockService.AssertExpectations(t)
	})

	t.Run("Top up", func(t *testing.T) {
		mockService := new(MockWalletService)
		mockService.On("TopUp", mock.Anything, "PAT-001", 500.0).Return(nil)

		handler := NewWalletHandler(mockService, logger)

		body, _ := json.Marshal(model.TopUpRequest{Amount: 500})
		req := httptest.NewRequest(http.MethodPost, "/api/patients/PAT-001/wallet/topup", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Wallet(w, req, "PAT-001", "topup")

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Top up rejects invalid amount", func(t *testing.T) {
		mockService := new(MockWalletService)
		mockService.On("TopUp", mock.Anything, "PAT-001", -10.0).
			Return(model.NewDomainError(model.ErrCodeMissingField, "top-up amount must be positive"))

		handler := NewWalletHandler(mockService, logger)

		body, _ := json.Marshal(model.TopUpRequest{Amount: -10})
		req := httptest.NewRequest(http.MethodPost, "/api/patients/PAT-001/wallet/topup", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Wallet(w, req, "PAT-001", "topup")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Redeem credit", func(t *testing.T) {
		mockService := new(MockWalletService)
		mockService.On("RedeemCredit", mock.Anything, "PAT-001",
			mock.MatchedBy(func(req *model.CreditRedeemRequest) bool {
				return req.ServiceID == "SVC-LASER" && req.Units == 2
			})).Return(nil)

		handler := NewWalletHandler(mockService, logger)

		body, _ := json.Marshal(model.CreditRedeemRequest{ServiceID: "SVC-LASER", Units: 2})
		req := httptest.NewRequest(http.MethodPost, "/api/patients/PAT-001/wallet/credits/redeem", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Wallet(w, req, "PAT-001", "credits/redeem")

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Redeem credit insufficient", func(t *testing.T) {
		mockService := new(MockWalletService)
		mockService.On("RedeemCredit", mock.Anything, "PAT-001", mock.Anything).
			Return(model.NewDomainError(model.ErrCodeInsufficientCredits, "not enough credits remaining"))

		handler := NewWalletHandler(mockService, logger)

		body, _ := json.Marshal(model.CreditRedeemRequest{ServiceID: "SVC-LASER", Units: 9})
		req := httptest.NewRequest(http.MethodPost, "/api/patients/PAT-001/wallet/credits/redeem", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Wallet(w, req, "PAT-001", "credits/redeem")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Unknown sub-path", func(t *testing.T) {
		mockService := new(MockWalletService)
		handler := NewWalletHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/patients/PAT-001/wallet/history", nil)
		w := httptest.NewRecorder()

		handler.Wallet(w, req, "PAT-001", "history")

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertNotCalled(t, "GetWallet", mock.Anything, mock.Anything)
	})

	t.Run("Method not allowed on wallet root", func(t *testing.T) {
		mockService := new(MockWalletService)
		handler := NewWalletHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodDelete, "/api/patients/PAT-001/wallet", nil)
		w := httptest.NewRecorder()

		handler.Wallet(w, req, "PAT-001", "")

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestWalletHandler_Packages(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Purchase package", func(t *testing.T) {
		purchase := &model.PackagePurchase{
			ID:        uuid.New(),
			PatientID: "PAT-001",
			OfferID:   "OFF-PKG",
			OfferName: "Laser Package",
			Price:     3000,
			Status:    model.PurchasePending,
		}

		mockService := new(MockWalletService)
		mockService.On("PurchasePackage", mock.Anything,
			mock.MatchedBy(func(req *model.PackagePurchaseRequest) bool {
				return req.PatientID == "PAT-001" && req.OfferID == "OFF-PKG"
			})).Return(purchase, nil)

		handler := NewWalletHandler(mockService, logger)

		body, _ := json.Marshal(model.PackagePurchaseRequest{PatientID: "PAT-001", OfferID: "OFF-PKG"})
		req := httptest.NewRequest(http.MethodPost, "/api/packages", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Packages(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response model.PackagePurchase
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, purchase.ID, response.ID)
		assert.Equal(t, model.PurchasePending, response.Status)

		mockService.AssertExpectations(t)
	})

	t.Run("Purchase not a package offer", func(t *testing.T) {
		mockService := new(MockWalletService)
		mockService.On("PurchasePackage", mock.Anything, mock.Anything).
			Return(nil, model.NewDomainError(model.ErrCodeInvalidOffer, "offer does not grant a package"))

		handler := NewWalletHandler(mockService, logger)

		body, _ := json.Marshal(model.PackagePurchaseRequest{PatientID: "PAT-001", OfferID: "OFF-10"})
		req := httptest.NewRequest(http.MethodPost, "/api/packages", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.Packages(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Pay package", func(t *testing.T) {
		purchaseID := uuid.New()

		mockService := new(MockWalletService)
		mockService.On("PayPackage", mock.Anything, purchaseID).Return(nil)

		handler := NewWalletHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/packages/"+purchaseID.String()+"/pay", nil)
		w := httptest.NewRecorder()

		handler.PackageItem(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Pay package invalid ID", func(t *testing.T) {
		mockService := new(MockWalletService)
		handler := NewWalletHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/packages/not-a-uuid/pay", nil)
		w := httptest.NewRecorder()

		handler.PackageItem(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "PayPackage", mock.Anything, mock.Anything)
	})

	t.Run("Pay package unknown action", func(t *testing.T) {
		mockService := new(MockWalletService)
		handler := NewWalletHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/packages/"+uuid.NewString()+"/refund", nil)
		w := httptest.NewRecorder()

		handler.PackageItem(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
