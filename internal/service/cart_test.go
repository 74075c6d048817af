package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mockshop/internal/models"
)

func TestCartService_AddItem_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name string
		in   AddItemInput
	}{
		{name: "zero product", in: AddItemInput{ProductID: 0, Quantity: 1}},
		{name: "negative product", in: AddItemInput{ProductID: -3, Quantity: 1}},
		{name: "zero quantity", in: AddItemInput{ProductID: 1, Quantity: 0}},
		{name: "negative quantity", in: AddItemInput{ProductID: 1, Quantity: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.cart.AddItem(context.Background(), "u1", tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, f.events.types())
}

func TestCartService_AddItem_CreatesProductOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	entries, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 1, Quantity: 2, Title: "Shoe", Price: 50})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ProductID)
	assert.Equal(t, 2, entries[0].Quantity)

	for i := 0; i < 3; i++ {
		entries, err = f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 1, Quantity: 7, Title: "Other", Price: 1})
		require.NoError(t, err)
	}
	require.Len(t, entries, 1)
	assert.Equal(t, 7, entries[0].Quantity)

	products, err := f.repo.GetProducts(ctx, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, "Shoe", products[1].Title)

	assert.Equal(t, []string{
		EventProductCreated, EventCartItemAdded,
		EventCartItemAdded, EventCartItemAdded, EventCartItemAdded,
	}, f.events.types())
}

func TestCartService_GetCart_Enriched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	items, err := f.cart.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 1, Quantity: 2, Title: "Shoe", Price: 50, Image: "shoe.png"})
	require.NoError(t, err)

	items, err = f.cart.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	require.NotNil(t, items[0].Title)
	assert.Equal(t, "Shoe", *items[0].Title)
	assert.Equal(t, 50.0, *items[0].Price)
	assert.Equal(t, "shoe.png", *items[0].Image)
}

func TestCartService_GetCart_OrphanIsNullFilled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 1, Quantity: 1, Title: "Gone"})
	require.NoError(t, err)
	_, err = f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 2, Quantity: 3, Title: "Kept"})
	require.NoError(t, err)
	require.NoError(t, f.repo.DB.Delete(&models.Product{}, 1).Error)

	items, err := f.cart.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.CartItem{ProductID: 1, Quantity: 1}, items[0])
	require.NotNil(t, items[1].Title)
	assert.Equal(t, "Kept", *items[1].Title)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	_, err = f.cart.UpdateQuantity(ctx, "u1", 1, 0)
	assert.ErrorIs(t, err, ErrValidation)

	items, err := f.cart.UpdateQuantity(ctx, "u1", 1, 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	items, err = f.cart.UpdateQuantity(ctx, "u1", 42, 9)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)

	assert.Equal(t, []string{EventProductCreated, EventCartItemAdded, EventCartItemUpdated}, f.events.types())
}

func TestCartService_RemoveItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	_, err = f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 2, Quantity: 1})
	require.NoError(t, err)

	before, err := f.cart.GetCart(ctx, "u1")
	require.NoError(t, err)
	unchanged, err := f.cart.RemoveItem(ctx, "u1", 99)
	require.NoError(t, err)
	assert.Equal(t, before, unchanged)

	items, err := f.cart.RemoveItem(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)

	types := f.events.types()
	assert.Equal(t, EventCartItemRemoved, types[len(types)-1])
	assert.Len(t, types, 5)
}

func TestCartService_ClearCart_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, f.cart.ClearCart(ctx, "u1"))
		items, err := f.cart.GetCart(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, items)
	}
}

func TestCartService_ConcurrentAddsSameProduct(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			_, err := f.cart.AddItem(ctx, "u1", AddItemInput{ProductID: 5, Quantity: q, Title: "Hat"})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entries, err := f.repo.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var products []models.Product
	require.NoError(t, f.repo.DB.Find(&products).Error)
	assert.Len(t, products, 1)
}

func TestCartService_LockFailureIsInternal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := &CartService{Store: f.repo, Locker: failingLocker{}}

	_, err := svc.AddItem(context.Background(), "u1", AddItemInput{ProductID: 1, Quantity: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.ErrorContains(t, err, "acquire cart lock")
}
