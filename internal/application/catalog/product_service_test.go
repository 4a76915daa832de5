package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/retailscan/backend/internal/domain/catalog"
	"github.com/retailscan/backend/internal/domain/scan"
	"github.com/retailscan/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindExpiring(ctx context.Context, now time.Time) ([]catalog.Product, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	args := m.Called(ctx, barcode)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllOrdered(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHistoryRecorder is a mock implementation of HistoryRecorder
type MockHistoryRecorder struct {
	mock.Mock
}

func (m *MockHistoryRecorder) Record(ctx context.Context, entry scan.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func newTestProductID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func createTestProduct() *catalog.Product {
	product, _ := catalog.NewProduct("Test Product")
	_ = product.SetBarcode("6901234567890")
	_ = product.SetStock(decimal.NewFromInt(10))
	_ = product.SetMinStock(decimal.NewFromInt(5))
	return product
}

func TestProductService_Create_Success(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockHistory := new(MockHistoryRecorder)
	service := NewProductService(mockProductRepo, mockCategoryRepo, mockHistory, nil)

	ctx := context.Background()
	price := decimal.RequireFromString("15.00")
	req := CreateProductRequest{
		Name:         "Milk 1L",
		Barcode:      "6111248001234",
		SellingPrice: &price,
	}

	mockProductRepo.On("ExistsByBarcode", ctx, req.Barcode).Return(false, nil)
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
	mockHistory.On("Record", ctx, mock.AnythingOfType("scan.HistoryEntry")).Return(nil)

	result, err := service.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Milk 1L", result.Name)
	assert.Equal(t, "6111248001234", result.Barcode)
	assert.True(t, result.SellingPrice.Equal(price))
	mockProductRepo.AssertExpectations(t)
	mockHistory.AssertExpectations(t)
}

func TestProductService_Create_EmptyNameRejected(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	result, err := service.Create(context.Background(), CreateProductRequest{Name: ""})

	assert.Error(t, err)
	assert.Nil(t, result)
	mockProductRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Create_DuplicateBarcode(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	ctx := context.Background()
	mockProductRepo.On("ExistsByBarcode", ctx, "6901234567890").Return(true, nil)

	result, err := service.Create(ctx, CreateProductRequest{Name: "Dup", Barcode: "6901234567890"})

	assert.Error(t, err)
	assert.Nil(t, result)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestProductService_Create_UnknownCategory(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	ctx := context.Background()
	categoryID := uuid.New()
	mockCategoryRepo.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, CreateProductRequest{Name: "Milk", CategoryID: &categoryID})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestProductService_Create_StoreFailure(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	ctx := context.Background()
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(errors.New("disk full"))

	result, err := service.Create(ctx, CreateProductRequest{Name: "Milk"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrStoreFailure)
}

func TestProductService_Create_HistoryFailureDoesNotFail(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockHistory := new(MockHistoryRecorder)
	service := NewProductService(mockProductRepo, mockCategoryRepo, mockHistory, nil)

	ctx := context.Background()
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
	mockHistory.On("Record", ctx, mock.AnythingOfType("scan.HistoryEntry")).Return(errors.New("redis down"))

	result, err := service.Create(ctx, CreateProductRequest{Name: "Milk"})

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestProductService_AdjustStock_RemovalClampedAtZero(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	ctx := context.Background()
	product := createTestProduct()
	_ = product.SetStock(decimal.NewFromInt(2))
	product.ID = newTestProductID()

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.AdjustStock(ctx, product.ID, decimal.NewFromInt(-5))

	assert.NoError(t, err)
	assert.True(t, result.Stock.IsZero())
	assert.True(t, result.IsLowStock)
	mockProductRepo.AssertExpectations(t)
}

func TestProductService_AdjustStock_Addition(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	ctx := context.Background()
	product := createTestProduct()
	product.ID = newTestProductID()

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.AdjustStock(ctx, product.ID, decimal.NewFromInt(3))

	assert.NoError(t, err)
	assert.True(t, result.Stock.Equal(decimal.NewFromInt(13)))
	assert.False(t, result.IsLowStock)
}

func TestProductService_AdjustStock_DraftRejected(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	result, err := service.AdjustStock(context.Background(), uuid.Nil, decimal.NewFromInt(1))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	mockProductRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProductService_AdjustStock_WriteFailureLeavesProductUntouched(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	ctx := context.Background()
	product := createTestProduct()
	product.ID = newTestProductID()
	originalStock := product.Stock

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(errors.New("write failed"))

	result, err := service.AdjustStock(ctx, product.ID, decimal.NewFromInt(-5))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrStoreFailure)
	assert.True(t, product.Stock.Equal(originalStock), "no partial visible update on failure")
}

func TestProductService_Update_PartialFields(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	ctx := context.Background()
	product := createTestProduct()
	product.ID = newTestProductID()

	newName := "Renamed Product"
	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockProductRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := service.Update(ctx, product.ID, UpdateProductRequest{Name: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "Renamed Product", result.Name)
	assert.Equal(t, "6901234567890", result.Barcode, "unset fields untouched")
}

func TestProductService_List_AppliesDefaults(t *testing.T) {
	mockProductRepo := new(MockProductRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	service := NewProductService(mockProductRepo, mockCategoryRepo, nil, nil)

	ctx := context.Background()
	expected := shared.Filter{Page: 1, PageSize: 20, OrderBy: "name", OrderDir: "asc"}
	mockProductRepo.On("FindAll", ctx, expected).Return([]catalog.Product{*createTestProduct()}, nil)
	mockProductRepo.On("Count", ctx, expected).Return(int64(1), nil)

	results, total, err := service.List(ctx, ProductListFilter{})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int64(1), total)
	mockProductRepo.AssertExpectations(t)
}
