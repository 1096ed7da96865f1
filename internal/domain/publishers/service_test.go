package publishers_test

import (
	"context"
	"sync"
	"testing"

	"pura-pata/internal/adapters/storage/memory"
	"pura-pata/internal/domain/publishers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := publishers.NewService(memory.NewStore().Publishers(), nil)

	_, err := svc.Create(ctx, "u-1", publishers.CreateInput{Email: "not-an-email", Name: "Ana"})
	assert.ErrorIs(t, err, publishers.ErrInvalidInput)

	p, err := svc.Create(ctx, "u-1", publishers.CreateInput{Email: " ana@example.cr ", Name: " Ana ", Province: "Heredia"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.cr", p.Email)
	assert.Equal(t, "Ana", p.Name)

	_, err = svc.Create(ctx, "u-1", publishers.CreateInput{Email: "ana@example.cr", Name: "Ana"})
	assert.ErrorIs(t, err, publishers.ErrAlreadyExists)

	phone := "8888-8888"
	lat := 10.0
	updated, err := svc.Update(ctx, "u-1", publishers.UpdateInput{Phone: &phone, Latitude: &lat})
	require.NoError(t, err)
	assert.Equal(t, "8888-8888", updated.Phone)
	assert.Equal(t, "Heredia", updated.Province)
	require.NotNil(t, updated.Latitude)
	assert.Equal(t, 10.0, *updated.Latitude)

	blank := "  "
	_, err = svc.Update(ctx, "u-1", publishers.UpdateInput{Name: &blank})
	assert.ErrorIs(t, err, publishers.ErrInvalidInput)

	_, err = svc.Update(ctx, "u-404", publishers.UpdateInput{Phone: &phone})
	assert.ErrorIs(t, err, publishers.ErrNotFound)
}

func TestService_GetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := publishers.NewService(memory.NewStore().Publishers(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.GetOrCreate(ctx, "u-1", "ana@example.cr")
			assert.NoError(t, err)
			assert.Equal(t, "u-1", p.ID)
		}()
	}
	wg.Wait()

	p, err := svc.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, publishers.DefaultName, p.Name)

	_, err = svc.GetOrCreate(ctx, "", "x@y.cr")
	assert.ErrorIs(t, err, publishers.ErrInvalidInput)
	_, err = svc.GetByID(ctx, "")
	assert.ErrorIs(t, err, publishers.ErrNotFound)
}

func TestService_EmailTakenByAnotherUser(t *testing.T) {
	ctx := context.Background()
	svc := publishers.NewService(memory.NewStore().Publishers(), nil)

	_, err := svc.Create(ctx, "u-a", publishers.CreateInput{Email: "bea@example.cr", Name: "Ana"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "u-c", publishers.CreateInput{Email: "bea@example.cr", Name: "Carlos"})
	assert.ErrorIs(t, err, publishers.ErrEmailTaken)

	// La dueña real del email igual obtiene perfil al publicar.
	p, err := svc.GetOrCreate(ctx, "u-b", "bea@example.cr")
	require.NoError(t, err)
	assert.Equal(t, "u-b", p.ID)
	assert.Empty(t, p.Email)
	require.NoError(t, svc.Ensure(ctx, "u-b", "bea@example.cr"))

	stored, err := svc.GetByID(ctx, "u-b")
	require.NoError(t, err)
	assert.Equal(t, publishers.DefaultName, stored.Name)
}
