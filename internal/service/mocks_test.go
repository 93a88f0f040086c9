package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/BryleCahapay/petstore/internal/cache"
	"github.com/BryleCahapay/petstore/internal/domain"
	"github.com/BryleCahapay/petstore/internal/repository"
	"github.com/BryleCahapay/petstore/internal/stock"
)

// MockCartRepository implements repository.CartRepository in memory.
type MockCartRepository struct {
	mu     sync.Mutex
	nextID int64
	lines  map[string]*domain.CartLine // customerID/itemName -> line

	ListErr   error
	DeleteErr error

	DeletedItems []string
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{lines: make(map[string]*domain.CartLine)}
}

func cartKey(customerID int64, itemName string) string {
	return fmt.Sprintf("%d/%s", customerID, itemName)
}

func (m *MockCartRepository) AddItem(_ context.Context, line *domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cartKey(line.CustomerID, line.ItemName)
	if existing, ok := m.lines[key]; ok {
		existing.Quantity += line.Quantity
		line.ID = existing.ID
		return nil
	}

	m.nextID++
	stored := *line
	stored.ID = m.nextID
	m.lines[key] = &stored
	line.ID = stored.ID
	return nil
}

func (m *MockCartRepository) GetLine(_ context.Context, customerID int64, itemName string) (*domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line, ok := m.lines[cartKey(customerID, itemName)]
	if !ok {
		return nil, repository.ErrCartLineNotFound
	}
	copied := *line
	return &copied, nil
}

func (m *MockCartRepository) ListByCustomer(_ context.Context, customerID int64) ([]*domain.CartLine, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*domain.CartLine
	for _, line := range m.lines {
		if line.CustomerID == customerID {
			copied := *line
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockCartRepository) UpdateQuantity(_ context.Context, customerID int64, itemName string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	line, ok := m.lines[cartKey(customerID, itemName)]
	if !ok {
		return repository.ErrCartLineNotFound
	}
	line.Quantity = quantity
	return nil
}

func (m *MockCartRepository) Remove(_ context.Context, lineID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, line := range m.lines {
		if line.ID == lineID {
			delete(m.lines, key)
			return nil
		}
	}
	return repository.ErrCartLineNotFound
}

func (m *MockCartRepository) DeleteLines(_ context.Context, customerID int64, itemNames []string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range itemNames {
		delete(m.lines, cartKey(customerID, name))
		m.DeletedItems = append(m.DeletedItems, name)
	}
	return nil
}

func (m *MockCartRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// MockReceiptRepository implements repository.ReceiptRepository.
type MockReceiptRepository struct {
	mu       sync.Mutex
	nextID   int64
	Appended []*domain.Receipt

	AppendErr error

	DeletedIDs []int64
	Statuses   map[int64]domain.ReceiptStatus
}

func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{Statuses: make(map[int64]domain.ReceiptStatus)}
}

func (m *MockReceiptRepository) Append(_ context.Context, receipt *domain.Receipt) (int64, error) {
	if m.AppendErr != nil {
		return 0, m.AppendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	receipt.ID = m.nextID
	copied := *receipt
	m.Appended = append(m.Appended, &copied)
	m.Statuses[receipt.ID] = receipt.Status
	return receipt.ID, nil
}

func (m *MockReceiptRepository) ListByEmail(_ context.Context, email string) ([]*domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*domain.Receipt
	for _, rec := range m.Appended {
		if rec.Email == email && !contains(m.DeletedIDs, rec.ID) {
			copied := *rec
			copied.Status = m.Statuses[rec.ID]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockReceiptRepository) ListAll(context.Context) ([]*repository.ReceiptSummary, error) {
	return nil, nil
}

func (m *MockReceiptRepository) ListFulfilled(context.Context) ([]*domain.Receipt, error) {
	return nil, nil
}

func (m *MockReceiptRepository) UpdateStatus(_ context.Context, receiptID int64, status domain.ReceiptStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Statuses[receiptID]; !ok {
		return repository.ErrReceiptNotFound
	}
	m.Statuses[receiptID] = status
	return nil
}

func (m *MockReceiptRepository) Delete(_ context.Context, receiptID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeletedIDs = append(m.DeletedIDs, receiptID)
	return nil
}

func (m *MockReceiptRepository) GetUnprocessedEvents(context.Context, int) ([]*repository.OutboxEvent, error) {
	return nil, nil
}

func (m *MockReceiptRepository) MarkEventProcessed(context.Context, int64) error {
	return nil
}

func (m *MockReceiptRepository) forget(receiptID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, rec := range m.Appended {
		if rec.ID == receiptID {
			m.Appended = append(m.Appended[:i], m.Appended[i+1:]...)
			break
		}
	}
	delete(m.Statuses, receiptID)
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// MockCheckoutRepository applies the commit unit against the in-memory
// collaborators with transaction semantics: any failure undoes every
// step already applied, like a rollback.
type MockCheckoutRepository struct {
	cart     *MockCartRepository
	receipts *MockReceiptRepository
	ledger   stock.Ledger
}

func (m *MockCheckoutRepository) CommitOrder(ctx context.Context, receipt *domain.Receipt, customerID int64) (int64, error) {
	var reserved []domain.ReceiptItem
	rollback := func() {
		for _, item := range reserved {
			_ = m.ledger.Release(ctx, item.Name, item.Quantity)
		}
	}

	for _, item := range receipt.Items {
		if err := m.ledger.Reserve(ctx, item.Name, item.Quantity); err != nil {
			rollback()
			return 0, &repository.ItemStockError{Item: item.Name, Err: err}
		}
		reserved = append(reserved, item)
	}

	id, err := m.receipts.Append(ctx, receipt)
	if err != nil {
		rollback()
		return 0, err
	}

	names := make([]string, len(receipt.Items))
	for i, item := range receipt.Items {
		names[i] = item.Name
	}
	if err := m.cart.DeleteLines(ctx, customerID, names); err != nil {
		m.receipts.forget(id)
		rollback()
		return 0, err
	}

	return id, nil
}

// MockCatalogRepository serves pet foods from a map.
type MockCatalogRepository struct {
	Foods map[string]*domain.PetFood
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{Foods: make(map[string]*domain.PetFood)}
}

func (m *MockCatalogRepository) SetFood(name string, price decimal.Decimal) {
	m.Foods[name] = &domain.PetFood{ID: int64(len(m.Foods) + 1), Name: name, Price: price}
}

func (m *MockCatalogRepository) ListPetFoods(context.Context) ([]*domain.PetFood, error) {
	var foods []*domain.PetFood
	for _, f := range m.Foods {
		foods = append(foods, f)
	}
	return foods, nil
}

func (m *MockCatalogRepository) GetPetFood(_ context.Context, id int64) (*domain.PetFood, error) {
	for _, f := range m.Foods {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, repository.ErrPetFoodNotFound
}

func (m *MockCatalogRepository) GetPetFoodByName(_ context.Context, name string) (*domain.PetFood, error) {
	f, ok := m.Foods[name]
	if !ok {
		return nil, repository.ErrPetFoodNotFound
	}
	return f, nil
}

func (m *MockCatalogRepository) UpdatePetFood(_ context.Context, id int64, name string, price decimal.Decimal, onHand int) error {
	for _, f := range m.Foods {
		if f.ID == id {
			f.Name = name
			f.Price = price
			f.OnHand = onHand
			return nil
		}
	}
	return repository.ErrPetFoodNotFound
}

// NoopCache always misses; mutations are recorded for assertions.
type NoopCache struct {
	mu      sync.Mutex
	Deletes []int64
}

func (c *NoopCache) Get(context.Context, int64) ([]*domain.CartLine, error) {
	return nil, cache.ErrCacheMiss
}

func (c *NoopCache) Set(context.Context, int64, []*domain.CartLine) error {
	return nil
}

func (c *NoopCache) Delete(_ context.Context, customerID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Deletes = append(c.Deletes, customerID)
	return nil
}

// optimisticLedger reports everything as available at check time while
// delegating Reserve/Release to a real in-memory ledger. It simulates the
// window where another customer drains stock between the advisory check
// and the conditional decrement.
type optimisticLedger struct {
	*stock.MemoryLedger
}

func (l optimisticLedger) CheckAvailability(context.Context, string, int) (stock.Availability, error) {
	return stock.Availability{Available: true, OnHand: 999}, nil
}
