package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gussttaav/g-commerce-thymeleaf/internal/pagination"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewLocalStorage(), zaptest.NewLogger(t))
}

func defaultPageRequest() pagination.PageRequest {
	return pagination.NewPageRequest(0, 10, "name", pagination.ASC)
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(Request{
		Name:        "Coffee",
		Description: "Whole beans",
		Price:       decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.True(t, created.Active, "Expected new products to be active")
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreate_InvalidPrice(t *testing.T) {
	svc := newTestService(t)

	for _, price := range []string{"0", "-1.00", "9.999"} {
		_, err := svc.Create(Request{Name: "Broken", Price: decimal.RequireFromString(price)})
		assert.ErrorIs(t, err, ErrInvalidPrice, "Expected price %s to be rejected", price)
	}
}

func TestUpdate(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(Request{Name: "Coffee", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, Request{
		Name:        "Coffee Deluxe",
		Description: "Single origin",
		Price:       decimal.RequireFromString("15.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee Deluxe", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("15.00")))

	_, err = svc.Update(999, Request{Name: "Nope", Price: decimal.RequireFromString("1.00")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleStatus(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(Request{Name: "Coffee", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)

	toggled, err := svc.ToggleStatus(created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	toggled, err = svc.ToggleStatus(created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Active)

	_, err = svc.ToggleStatus(999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_StatusFilter(t *testing.T) {
	svc := newTestService(t)
	active, err := svc.Create(Request{Name: "Active product", Price: decimal.RequireFromString("1.00")})
	require.NoError(t, err)
	inactive, err := svc.Create(Request{Name: "Retired product", Price: decimal.RequireFromString("2.00")})
	require.NoError(t, err)
	_, err = svc.ToggleStatus(inactive.ID)
	require.NoError(t, err)

	page, err := svc.List(StatusActive, "", defaultPageRequest())
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, active.ID, page.Content[0].ID)

	page, err = svc.List(StatusInactive, "", defaultPageRequest())
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, inactive.ID, page.Content[0].ID)

	page, err = svc.List(StatusAll, "", defaultPageRequest())
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
}

func TestList_Search(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(Request{Name: "Coffee", Description: "Whole beans", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)
	_, err = svc.Create(Request{Name: "Tea", Description: "Loose leaf", Price: decimal.RequireFromString("8.00")})
	require.NoError(t, err)

	page, err := svc.List(StatusAll, "COFFEE", defaultPageRequest())
	require.NoError(t, err)
	require.Len(t, page.Content, 1, "Expected case-insensitive name match")
	assert.Equal(t, "Coffee", page.Content[0].Name)

	page, err = svc.List(StatusAll, "leaf", defaultPageRequest())
	require.NoError(t, err)
	require.Len(t, page.Content, 1, "Expected description to be searched too")
	assert.Equal(t, "Tea", page.Content[0].Name)

	page, err = svc.List(StatusAll, "chocolate", defaultPageRequest())
	require.NoError(t, err)
	assert.Empty(t, page.Content)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusActive, ParseStatus("ACTIVE"))
	assert.Equal(t, StatusInactive, ParseStatus("INACTIVE"))
	assert.Equal(t, StatusAll, ParseStatus("ALL"))
	assert.Equal(t, StatusActive, ParseStatus("whatever"), "Expected unknown status to fall back to ACTIVE")
}
