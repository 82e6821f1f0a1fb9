package orderrepo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"orderservice/internal/adapters/out/postgres/orderrepo"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Get connection string and connect to database
	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Auto-migrate the schema
	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	// Clean the database before each test
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items").Error)

	// Create fresh repository and tracker for each test
	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()

	// The repository assigns the identifier during Add, so the exact UUID
	// is not known up front.
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.NotNil(testOrder.ID())
	suite.assertOrderCount(1)
	suite.assertItemCount(2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_AssignsUniqueIdentifiers() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)

	first := suite.createTestOrder()
	second := suite.createTestOrder()

	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().NoError(suite.repository.Add(ctx, second))

	suite.Require().NotNil(first.ID())
	suite.Require().NotNil(second.ID())
	suite.False(first.ID().IsEqual(*second.ID()))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()

	originalOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), originalOrder).Once()

	err := suite.repository.Add(ctx, originalOrder)
	suite.Require().NoError(err)

	retrievedOrder, err := suite.repository.Get(ctx, *originalOrder.ID())
	suite.Require().NoError(err)

	// Verify order details round-tripped
	suite.True(originalOrder.ID().IsEqual(*retrievedOrder.ID()))
	suite.Equal("c1", retrievedOrder.CustomerID())
	suite.Equal(order.Created, retrievedOrder.Status())
	suite.True(retrievedOrder.TotalPrice().Equal(decimal.RequireFromString("40.00")))
	suite.Equal(originalOrder.Version(), retrievedOrder.Version())

	items := retrievedOrder.Items()
	suite.Require().Len(items, 2)
	suite.Equal("A1", items[0].ProductID())
	suite.Equal(2, items[0].Quantity())
	suite.True(items[0].Price().Equal(decimal.RequireFromString("10.00")))
	suite.Equal("B2", items[1].ProductID())
	suite.Equal(1, items[1].Quantity())
	suite.True(items[1].Price().Equal(decimal.RequireFromString("20.00")))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_PreservesItemInsertionOrder() {
	ctx := context.Background()

	testOrder, err := order.NewOrder("c9")
	suite.Require().NoError(err)

	productIDs := []string{"Z9", "A1", "M5", "B2"}
	for _, productID := range productIDs {
		item, itemErr := order.NewItem(productID, 1, decimal.RequireFromString("1.00"))
		suite.Require().NoError(itemErr)
		suite.Require().NoError(testOrder.AddItem(item))
	}

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, *testOrder.ID())
	suite.Require().NoError(err)

	items := retrievedOrder.Items()
	suite.Require().Len(items, len(productIDs))
	for i, productID := range productIDs {
		suite.Equal(productID, items[i].ProductID())
	}

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	nonExistentID := kernel.NewUUID()
	retrievedOrder, err := suite.repository.Get(ctx, nonExistentID)

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_OrderStatusTransitions() {
	testCases := []struct {
		name          string
		updatedStatus order.Status
	}{
		{name: "created to processing", updatedStatus: order.Processing},
		{name: "created to cancelled", updatedStatus: order.Cancelled},
	}

	ctx := context.Background()
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			initialOrder := suite.createTestOrder()
			suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), initialOrder).Times(2)
			suite.Require().NoError(suite.repository.Add(ctx, initialOrder))

			suite.Require().NoError(initialOrder.UpdateStatus(tc.updatedStatus))
			suite.Require().NoError(suite.repository.Update(ctx, initialOrder))

			retrievedOrder, err := suite.repository.Get(ctx, *initialOrder.ID())
			suite.Require().NoError(err)
			suite.Equal(tc.updatedStatus, retrievedOrder.Status())
			suite.Equal(initialOrder.Version()+1, retrievedOrder.Version())

			suite.tracker.AssertExpectations(suite.T())
		})
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsVersionError() {
	ctx := context.Background()

	initialOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, initialOrder))

	// Two readers load the same row, then both try to write.
	firstCopy, err := suite.repository.Get(ctx, *initialOrder.ID())
	suite.Require().NoError(err)
	secondCopy, err := suite.repository.Get(ctx, *initialOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(firstCopy.UpdateStatus(order.Processing))
	suite.Require().NoError(suite.repository.Update(ctx, firstCopy))

	suite.Require().NoError(secondCopy.UpdateStatus(order.Cancelled))
	err = suite.repository.Update(ctx, secondCopy)
	suite.Require().Error(err)

	var versionErr *errs.VersionIsInvalidError
	suite.Require().ErrorAs(err, &versionErr)

	// The first writer's state is what the database keeps.
	retrievedOrder, err := suite.repository.Get(ctx, *initialOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Processing, retrievedOrder.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	phantomID := kernel.NewUUID()
	item, err := order.NewItem("A1", 1, decimal.RequireFromString("5.00"))
	suite.Require().NoError(err)
	now := time.Now().UTC()
	phantomOrder, err := order.RestoreOrder(phantomID, "c1", []order.Item{item}, order.Created, now, now, 1)
	suite.Require().NoError(err)

	err = suite.repository.Update(ctx, phantomOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

// TestOrderRepository_ErrorScenarios verifies error handling for various failure cases.
func (suite *OrderRepositoryIntegrationTestSuite) TestOrderRepository_ErrorScenarios() {
	testCases := []struct {
		name      string
		operation func() error
		expected  string
	}{
		{
			name: "get with invalid UUID",
			operation: func() error {
				invalidID := kernel.UUID{}
				_, err := suite.repository.Get(context.Background(), invalidID)
				return err
			},
			expected: "required",
		},
		{
			name: "get non-existent order",
			operation: func() error {
				nonExistentID := kernel.NewUUID()
				_, err := suite.repository.Get(context.Background(), nonExistentID)
				return err
			},
			expected: "not found",
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.operation()
			suite.Require().Error(err)
			suite.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.expected))
			suite.tracker.AssertExpectations(suite.T())
		})
	}
}

// TestOrderRepository_Concurrency verifies repository behavior under concurrent access.
func (suite *OrderRepositoryIntegrationTestSuite) TestOrderRepository_Concurrency() {
	ctx := context.Background()

	initialOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), initialOrder).Once()
	err := suite.repository.Add(ctx, initialOrder)
	suite.Require().NoError(err)

	// Simulate concurrent reads
	results := make(chan *order.Order, 3)
	errors := make(chan error, 3)

	for range 3 {
		go func() {
			retrievedOrder, readErr := suite.repository.Get(ctx, *initialOrder.ID())
			if readErr != nil {
				errors <- readErr
			} else {
				results <- retrievedOrder
			}
		}()
	}

	// Collect results
	for range 3 {
		select {
		case result := <-results:
			suite.True(initialOrder.ID().IsEqual(*result.ID()))
		case readErr := <-errors:
			suite.Failf("Unexpected error in concurrent read", "%v", readErr)
		}
	}

	suite.tracker.AssertExpectations(suite.T())
}

// createTestOrder creates an order for customer c1 with two line items
// totalling 40.00.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	testOrder, err := order.NewOrder("c1")
	suite.Require().NoError(err)

	first, err := order.NewItem("A1", 2, decimal.RequireFromString("10.00"))
	suite.Require().NoError(err)
	second, err := order.NewItem("B2", 1, decimal.RequireFromString("20.00"))
	suite.Require().NoError(err)

	suite.Require().NoError(testOrder.AddItem(first))
	suite.Require().NoError(testOrder.AddItem(second))
	return testOrder
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

// assertItemCount verifies the number of order items in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertItemCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderItemDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
