package service

import (
	"context"

	"clinic-offers/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) GetAll(ctx context.Context) ([]model.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *model.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, offer *model.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOfferRepository) UpsertMany(ctx context.Context, offers []model.Offer) error {
	args := m.Called(ctx, offers)
	return args.Error(0)
}

// MockPatientRepository is a mock implementation of PatientRepository.
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id string) (*model.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

// MockServiceRepository is a mock implementation of ServiceRepository.
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) GetAll(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Service), args.Error(1)
}

func (m *MockServiceRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Service, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Service), args.Error(1)
}

// MockRedemptionRepository is a mock implementation of RedemptionRepository.
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) Record(ctx context.Context, tx pgx.Tx, redemption *model.OfferRedemption) error {
	args := m.Called(ctx, tx, redemption)
	return args.Error(0)
}

func (m *MockRedemptionRepository) CountByOffer(ctx context.Context, offerID string) (int, error) {
	args := m.Called(ctx, offerID)
	return args.Int(0), args.Error(1)
}

func (m *MockRedemptionRepository) CountByOfferAndPatient(ctx context.Context, offerID, patientID string) (int, error) {
	args := m.Called(ctx, offerID, patientID)
	return args.Int(0), args.Error(1)
}

func (m *MockRedemptionRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetWallet(ctx context.Context, patientID string) (*model.PatientWallet, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PatientWallet), args.Error(1)
}

func (m *MockWalletRepository) AddCash(ctx context.Context, patientID string, amount float64) error {
	args := m.Called(ctx, patientID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) DeductCash(ctx context.Context, patientID string, amount float64) error {
	args := m.Called(ctx, patientID, amount)
	return args.Error(0)
}

func (m *MockWalletRepository) UpsertCredit(ctx context.Context, tx pgx.Tx, credit *model.ServiceCredit) error {
	args := m.Called(ctx, tx, credit)
	return args.Error(0)
}

func (m *MockWalletRepository) RedeemCredit(ctx context.Context, patientID, serviceID string, units int) error {
	args := m.Called(ctx, patientID, serviceID, units)
	return args.Error(0)
}

func (m *MockWalletRepository) CreatePackagePurchase(ctx context.Context, purchase *model.PackagePurchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockWalletRepository) GetPackagePurchase(ctx context.Context, id uuid.UUID) (*model.PackagePurchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackagePurchase), args.Error(1)
}

func (m *MockWalletRepository) MarkPurchasePaid(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockWalletRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
