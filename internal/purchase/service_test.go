package purchase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/product"
	"github.com/gussttaav/g-commerce-thymeleaf/internal/user"
)

func newTestService(t *testing.T) (*Service, *LocalStorage, *user.LocalStorage, *product.LocalStorage) {
	t.Helper()
	ledger := NewLocalStorage()
	users := user.NewLocalStorage()
	products := product.NewLocalStorage()
	svc := NewService(ledger, users, products, zaptest.NewLogger(t))
	return svc, ledger, users, products
}

func addUser(t *testing.T, users *user.LocalStorage, name, email string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{Name: name, Email: email, Password: "x", Role: role, CreatedAt: time.Now()}
	require.NoError(t, users.Create(u))
	return u
}

func addProduct(t *testing.T, products *product.LocalStorage, name, price string) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Active:    true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, products.Create(p))
	return p
}

func defaultPageRequest() pagination.PageRequest {
	return pagination.NewPageRequest(0, 10, "date", pagination.DESC)
}

func TestCreate_ComputesTotals(t *testing.T) {
	svc, _, users, products := newTestService(t)
	addUser(t, users, "Alice", "alice@example.com", user.RoleUser)
	a := addProduct(t, products, "Product A", "10.00")
	b := addProduct(t, products, "Product B", "15.00")

	created, err := svc.Create("alice@example.com", Request{Items: []ItemRequest{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	}})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotZero(t, created.ID, "Expected an assigned purchase ID")
	assert.Equal(t, "Alice", created.UserName)
	assert.False(t, created.Date.IsZero(), "Expected a server-side timestamp")
	assert.True(t, created.Total.Equal(decimal.RequireFromString("35.00")),
		"Expected total 35.00, got %s", created.Total)

	require.Len(t, created.Items, 2)
	assert.True(t, created.Items[0].Subtotal.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, created.Items[1].Subtotal.Equal(decimal.RequireFromString("15.00")))
	assert.Equal(t, "Product A", created.Items[0].ProductName)
	assert.True(t, created.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestCreate_TotalReconciliation(t *testing.T) {
	svc, _, users, products := newTestService(t)
	addUser(t, users, "Alice", "alice@example.com", user.RoleUser)

	prices := []string{"0.01", "19.99", "3.50", "1234.56"}
	quantities := []int{1, 3, 7, 100}

	items := make([]ItemRequest, 0, len(prices))
	for i, price := range prices {
		p := addProduct(t, products, "P"+price, price)
		items = append(items, ItemRequest{ProductID: p.ID, Quantity: quantities[i]})
	}

	created, err := svc.Create("alice@example.com", Request{Items: items})
	require.NoError(t, err)

	sum := decimal.Zero
	for i, it := range created.Items {
		expected := decimal.RequireFromString(prices[i]).
			Mul(decimal.NewFromInt(int64(quantities[i])))
		assert.True(t, it.Subtotal.Equal(expected),
			"item %d: expected subtotal %s, got %s", i, expected, it.Subtotal)
		sum = sum.Add(it.Subtotal)
	}
	assert.True(t, created.Total.Equal(sum), "Expected total to equal the sum of subtotals exactly")
}

func TestCreate_UnknownProduct_NothingPersisted(t *testing.T) {
	svc, ledger, users, products := newTestService(t)
	addUser(t, users, "Alice", "alice@example.com", user.RoleUser)
	a := addProduct(t, products, "Product A", "10.00")

	created, err := svc.Create("alice@example.com", Request{Items: []ItemRequest{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: 999, Quantity: 1},
	}})
	require.Error(t, err)
	assert.Nil(t, created)

	var pnf *ProductNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, int64(999), pnf.ProductID, "Expected the error to name the offending product id")

	assert.Equal(t, 0, ledger.Count(), "Expected no partial purchase in the ledger")

	page, err := svc.List("alice@example.com", defaultPageRequest())
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(0), page.TotalElements)
}

func TestCreate_UnknownUser(t *testing.T) {
	svc, ledger, _, products := newTestService(t)
	a := addProduct(t, products, "Product A", "10.00")

	created, err := svc.Create("ghost@example.com", Request{Items: []ItemRequest{
		{ProductID: a.ID, Quantity: 1},
	}})
	require.ErrorIs(t, err, user.ErrNotFound)
	assert.Nil(t, created)
	assert.Equal(t, 0, ledger.Count())
}

func TestCreate_PreservesItemOrder(t *testing.T) {
	svc, _, users, products := newTestService(t)
	addUser(t, users, "Alice", "alice@example.com", user.RoleUser)
	x := addProduct(t, products, "Product X", "5.00")
	y := addProduct(t, products, "Product Y", "7.00")

	created, err := svc.Create("alice@example.com", Request{Items: []ItemRequest{
		{ProductID: x.ID, Quantity: 2},
		{ProductID: y.ID, Quantity: 1},
	}})
	require.NoError(t, err)

	page, err := svc.List("alice@example.com", defaultPageRequest())
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, created.ID, page.Content[0].ID)

	readBack := page.Content[0].Items
	require.Len(t, readBack, 2)
	assert.Equal(t, x.ID, readBack[0].ProductID, "Expected items to come back in submission order")
	assert.Equal(t, y.ID, readBack[1].ProductID)
}

func TestList_RoleScopedVisibility(t *testing.T) {
	svc, _, users, products := newTestService(t)
	addUser(t, users, "Alice", "alice@example.com", user.RoleUser)
	addUser(t, users, "Bob", "bob@example.com", user.RoleUser)
	addUser(t, users, "Carol", "carol@example.com", user.RoleAdmin)
	p := addProduct(t, products, "Product A", "10.00")

	items := []ItemRequest{{ProductID: p.ID, Quantity: 1}}
	_, err := svc.Create("alice@example.com", Request{Items: items})
	require.NoError(t, err)
	_, err = svc.Create("alice@example.com", Request{Items: items})
	require.NoError(t, err)
	_, err = svc.Create("bob@example.com", Request{Items: items})
	require.NoError(t, err)

	alicePage, err := svc.List("alice@example.com", defaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(2), alicePage.TotalElements)
	for _, r := range alicePage.Content {
		assert.Equal(t, "Alice", r.UserName, "Expected non-admin listing to contain only own purchases")
	}

	bobPage, err := svc.List("bob@example.com", defaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobPage.TotalElements)
	assert.Equal(t, "Bob", bobPage.Content[0].UserName)

	adminPage, err := svc.List("carol@example.com", defaultPageRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(3), adminPage.TotalElements, "Expected admin to see every purchase")
}

func TestList_Pagination(t *testing.T) {
	svc, _, users, products := newTestService(t)
	addUser(t, users, "Alice", "alice@example.com", user.RoleUser)
	p := addProduct(t, products, "Product A", "10.00")

	for i := 0; i < 5; i++ {
		_, err := svc.Create("alice@example.com", Request{Items: []ItemRequest{
			{ProductID: p.ID, Quantity: 1},
		}})
		require.NoError(t, err)
	}

	seen := map[int64]bool{}
	for page := 0; page < 3; page++ {
		req := pagination.NewPageRequest(page, 2, "date", pagination.DESC)
		result, err := svc.List("alice@example.com", req)
		require.NoError(t, err)

		assert.Equal(t, int64(5), result.TotalElements)
		assert.Equal(t, 3, result.TotalPages)
		if page < 2 {
			assert.Len(t, result.Content, 2)
			assert.False(t, result.Last, "Expected page %d not to be the last page", page)
		} else {
			assert.Len(t, result.Content, 1, "Expected the last page to hold the remainder")
			assert.True(t, result.Last)
		}
		for _, r := range result.Content {
			assert.False(t, seen[r.ID], "Expected purchase %d on exactly one page", r.ID)
			seen[r.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestList_SortByTotal(t *testing.T) {
	svc, _, users, products := newTestService(t)
	addUser(t, users, "Alice", "alice@example.com", user.RoleUser)
	cheap := addProduct(t, products, "Cheap", "1.00")
	pricey := addProduct(t, products, "Pricey", "100.00")

	_, err := svc.Create("alice@example.com", Request{Items: []ItemRequest{{ProductID: cheap.ID, Quantity: 1}}})
	require.NoError(t, err)
	_, err = svc.Create("alice@example.com", Request{Items: []ItemRequest{{ProductID: pricey.ID, Quantity: 1}}})
	require.NoError(t, err)

	req := pagination.NewPageRequest(0, 10, "total", pagination.ASC)
	page, err := svc.List("alice@example.com", req)
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.True(t, page.Content[0].Total.LessThan(page.Content[1].Total),
		"Expected ascending totals, got %s then %s", page.Content[0].Total, page.Content[1].Total)
}

func TestList_UnknownUser(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.List("ghost@example.com", defaultPageRequest())
	require.ErrorIs(t, err, user.ErrNotFound)
}
