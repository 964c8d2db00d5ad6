package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"therawking/internal/apperrors"
	"therawking/internal/models"
	"therawking/internal/payments"
	"therawking/internal/repositories"
	"therawking/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(query repositories.ProductQuery) ([]models.Product, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Insert(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindBySession(sessionID string) (*models.Order, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusBySession(sessionID string, status models.PaymentStatus) (int64, error) {
	args := m.Called(sessionID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusByPaymentIntent(intentID string, status models.PaymentStatus) (int64, error) {
	args := m.Called(intentID, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockGateway is a mock implementation of payments.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, params payments.SessionParams) (*payments.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Session), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(queue string, payload interface{}) error {
	args := m.Called(queue, payload)
	return args.Error(0)
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{45.00, 4500},
		{19.99, 1999},
		{0, 0},
		{0.615, 62},   // rounds half up despite float representation
		{10.004, 1000},
		{10.005, 1001},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, services.MinorUnits(tc.price), "price %v", tc.price)
	}
}

func TestCreateCheckout_PricesFromCatalog(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockGateway)
	service := services.NewCheckoutService(orderRepo, productRepo, gateway, nil, "https://shop.test")

	product := &models.Product{
		ID:       "p1",
		Title:    "Lunar Phase Tee",
		Price:    45.00,
		Currency: "usd",
		Images:   []string{"https://img.test/tee.jpg"},
	}
	productRepo.On("GetByID", "p1").Return(product, nil).Once()

	var gotParams payments.SessionParams
	gateway.On("CreateCheckoutSession", mock.Anything, mock.AnythingOfType("payments.SessionParams")).
		Run(func(args mock.Arguments) {
			gotParams = args.Get(1).(payments.SessionParams)
		}).
		Return(&payments.Session{ID: "sess_1", URL: "https://gw.test/sess_1", PaymentIntentID: "pi_1"}, nil).Once()

	var gotOrder *models.Order
	orderRepo.On("Insert", mock.AnythingOfType("*models.Order")).
		Run(func(args mock.Arguments) {
			gotOrder = args.Get(0).(*models.Order)
		}).
		Return(nil).Once()

	url, err := service.CreateCheckout(context.Background(), services.CreateCheckoutRequest{
		Email: "buyer@example.com",
		Items: []services.CheckoutItemRequest{{ProductID: "p1", Quantity: 2, Size: "M"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://gw.test/sess_1", url)

	// Gateway line item must carry the exact minor-unit amount.
	assert.Len(t, gotParams.LineItems, 1)
	assert.Equal(t, int64(4500), gotParams.LineItems[0].UnitAmount)
	assert.Equal(t, int64(2), gotParams.LineItems[0].Quantity)
	assert.Equal(t, "usd", gotParams.LineItems[0].Currency)
	assert.Equal(t, "https://img.test/tee.jpg", gotParams.LineItems[0].ImageURL)
	assert.Contains(t, gotParams.SuccessURL, "{CHECKOUT_SESSION_ID}")
	assert.Equal(t, "buyer@example.com", gotParams.CustomerEmail)

	// Order snapshot agrees with what went to the gateway.
	assert.Equal(t, 90.00, gotOrder.Total)
	assert.Equal(t, models.PaymentStatusPending, gotOrder.PaymentStatus)
	assert.Equal(t, "sess_1", gotOrder.StripeSessionID)
	assert.Equal(t, "pi_1", gotOrder.StripePaymentIntentID)
	assert.Len(t, gotOrder.Items, 1)
	assert.Equal(t, 45.00, gotOrder.Items[0].Price)
	assert.Equal(t, 2, gotOrder.Items[0].Quantity)
	assert.Equal(t, "M", gotOrder.Items[0].Size)

	productRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestCreateCheckout_ProductNotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockGateway)
	service := services.NewCheckoutService(orderRepo, productRepo, gateway, nil, "https://shop.test")

	productRepo.On("GetByID", "missing").Return(nil, apperrors.NewNotFound("product", "missing")).Once()

	url, err := service.CreateCheckout(context.Background(), services.CreateCheckoutRequest{
		Items: []services.CheckoutItemRequest{{ProductID: "missing", Quantity: 1}},
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, url)
	// No session was requested and no order persisted.
	gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestCreateCheckout_InvalidQuantity(t *testing.T) {
	service := services.NewCheckoutService(new(MockOrderRepository), new(MockProductRepository), new(MockGateway), nil, "https://shop.test")

	_, err := service.CreateCheckout(context.Background(), services.CreateCheckoutRequest{
		Items: []services.CheckoutItemRequest{{ProductID: "p1", Quantity: 0}},
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = service.CreateCheckout(context.Background(), services.CreateCheckoutRequest{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateCheckout_GatewayFailure(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockGateway)
	service := services.NewCheckoutService(orderRepo, productRepo, gateway, nil, "https://shop.test")

	productRepo.On("GetByID", "p1").Return(&models.Product{ID: "p1", Title: "Tee", Price: 29, Currency: "usd"}, nil).Once()
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, &apperrors.PaymentGatewayError{Detail: "Invalid currency: xxx"}).Once()

	url, err := service.CreateCheckout(context.Background(), services.CreateCheckoutRequest{
		Items: []services.CheckoutItemRequest{{ProductID: "p1", Quantity: 1}},
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsPaymentGateway(err))
	assert.Contains(t, err.Error(), "Invalid currency")
	assert.Empty(t, url)
	orderRepo.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestCreateCheckout_PersistFailureStillReturnsURL(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockGateway)
	publisher := new(MockPublisher)
	service := services.NewCheckoutService(orderRepo, productRepo, gateway, publisher, "https://shop.test")

	productRepo.On("GetByID", "p1").Return(&models.Product{ID: "p1", Title: "Tee", Price: 29, Currency: "usd"}, nil).Once()
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payments.Session{ID: "sess_dangling", URL: "https://gw.test/sess_dangling"}, nil).Once()
	orderRepo.On("Insert", mock.Anything).Return(fmt.Errorf("%w: down", apperrors.ErrStorageUnavailable)).Once()

	// The dangling session must be pushed to the reconciliation audit queue.
	publisher.On("PublishJSON", services.QueueReconciliation, mock.MatchedBy(func(payload interface{}) bool {
		event, ok := payload.(map[string]interface{})
		return ok && event["session_id"] == "sess_dangling" && event["event"] == "checkout.session.dangling"
	})).Return(nil).Once()

	url, err := service.CreateCheckout(context.Background(), services.CreateCheckoutRequest{
		Items: []services.CheckoutItemRequest{{ProductID: "p1", Quantity: 1}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://gw.test/sess_dangling", url)
	publisher.AssertExpectations(t)
}

func TestCreateCheckout_PublishesOrderCreated(t *testing.T) {
	productRepo := new(MockProductRepository)
	orderRepo := new(MockOrderRepository)
	gateway := new(MockGateway)
	publisher := new(MockPublisher)
	service := services.NewCheckoutService(orderRepo, productRepo, gateway, publisher, "https://shop.test")

	productRepo.On("GetByID", "p1").Return(&models.Product{ID: "p1", Title: "Tee", Price: 29, Currency: "usd"}, nil).Once()
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&payments.Session{ID: "sess_ok", URL: "https://gw.test/sess_ok"}, nil).Once()
	orderRepo.On("Insert", mock.Anything).Return(nil).Once()
	publisher.On("PublishJSON", services.QueueOrderEvents, mock.Anything).Return(nil).Once()

	_, err := service.CreateCheckout(context.Background(), services.CreateCheckoutRequest{
		Items: []services.CheckoutItemRequest{{ProductID: "p1", Quantity: 1}},
	})

	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}
