package dogs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pura-pata/internal/adapters/storage/memory"
	"pura-pata/internal/domain/dogs"
	"pura-pata/internal/domain/history"
	"pura-pata/internal/domain/publishers"
	"pura-pata/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordingPublisher struct {
	got []dogs.StatusChange
	err error
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, ev dogs.StatusChange) error {
	p.got = append(p.got, ev)
	return p.err
}

type fixture struct {
	store  *memory.Store
	svc    *dogs.Service
	pubs   *publishers.Service
	events *recordingPublisher
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	st := memory.NewStore()
	pubs := publishers.NewService(st.Publishers(), log)
	events := &recordingPublisher{}
	c := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	svc := dogs.NewService(st.Dogs(),
		dogs.WithPublisherDirectory(pubs),
		dogs.WithEventPublisher(events),
		dogs.WithLogger(log),
		dogs.WithClock(c.now),
	)
	return fixture{store: st, svc: svc, pubs: pubs, events: events, logs: logs}
}

func validInput() dogs.CreateInput {
	return dogs.CreateInput{
		Name:      "  Firulais ",
		Breed:     "Zaguate",
		Size:      "Medium",
		Gender:    dogs.GenderMale,
		AgeYears:  3,
		Latitude:  9.9281,
		Longitude: -84.0907,
		Province:  "San José",
		Photos:    []string{" https://cdn.example/1.jpg "},
	}
}

func TestService_CreateStartsAvailableWithHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Create(ctx, "pub-1", "ana@example.cr", validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Firulais", d.Name)
	assert.Equal(t, dogs.SizeMedium, d.Size)
	assert.Equal(t, []string{"https://cdn.example/1.jpg"}, d.Photos)
	assert.Equal(t, dogs.StatusAvailable, d.Status)
	assert.Nil(t, d.AdoptedAt)

	entries, err := f.store.History().ListByDog(ctx, d.ID, history.ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].OldStatus)
	assert.Equal(t, dogs.StatusAvailable, entries[0].NewStatus)

	// El publicador se creó implícitamente.
	p, err := f.pubs.GetByID(ctx, "pub-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.cr", p.Email)
	assert.Equal(t, publishers.DefaultName, p.Name)
}

func TestService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]func(*dogs.CreateInput){
		"no name":       func(in *dogs.CreateInput) { in.Name = "   " },
		"bad size":      func(in *dogs.CreateInput) { in.Size = "huge" },
		"no photos":     func(in *dogs.CreateInput) { in.Photos = nil },
		"empty photo":   func(in *dogs.CreateInput) { in.Photos = []string{" "} },
		"too many":      func(in *dogs.CreateInput) { in.Photos = make([]string, 11) },
		"latitude":      func(in *dogs.CreateInput) { in.Latitude = 91 },
		"age months":    func(in *dogs.CreateInput) { in.AgeMonths = 12 },
		"contact email": func(in *dogs.CreateInput) { in.ContactEmail = "nope" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := f.svc.Create(ctx, "pub-1", "", in)
			assert.ErrorIs(t, err, dogs.ErrInvalidInput)
		})
	}

	_, err := f.svc.Create(ctx, " ", "", validInput())
	assert.ErrorIs(t, err, dogs.ErrInvalidInput)

	all, err := f.svc.List(ctx, dogs.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_SetStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Create(ctx, "pub-1", "", validInput())
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, d.ID, "reserved", "pub-1")
	require.NoError(t, err)

	adopted, err := f.svc.SetStatus(ctx, d.ID, "adopted", "pub-1")
	require.NoError(t, err)
	require.NotNil(t, adopted.AdoptedAt)
	firstAdoption := *adopted.AdoptedAt

	_, err = f.svc.SetStatus(ctx, d.ID, "available", "pub-1")
	require.NoError(t, err)
	again, err := f.svc.SetStatus(ctx, d.ID, "adopted", "pub-1")
	require.NoError(t, err)
	assert.True(t, again.AdoptedAt.Equal(firstAdoption))

	entries, err := f.store.History().ListByDog(ctx, d.ID, history.ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i := 0; i < len(entries)-1; i++ {
		require.NotNil(t, entries[i].OldStatus)
		assert.Equal(t, entries[i+1].NewStatus, *entries[i].OldStatus)
	}

	require.Len(t, f.events.got, 4)
	assert.Equal(t, dogs.StatusChange{
		DogID:       d.ID,
		PublisherID: "pub-1",
		OldStatus:   dogs.StatusAvailable,
		NewStatus:   dogs.StatusReserved,
		ChangedAt:   f.events.got[0].ChangedAt,
	}, f.events.got[0])
}

func TestService_SetStatusErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Create(ctx, "pub-1", "", validInput())
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, d.ID, "adopted", "intruder")
	assert.ErrorIs(t, err, dogs.ErrForbidden)

	_, err = f.svc.SetStatus(ctx, d.ID, "sold", "pub-1")
	assert.ErrorIs(t, err, dogs.ErrInvalidStatus)

	_, err = f.svc.SetStatus(ctx, "missing", "adopted", "pub-1")
	assert.ErrorIs(t, err, dogs.ErrNotFound)

	got, err := f.svc.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, dogs.StatusAvailable, got.Status)
	assert.Empty(t, f.events.got)
}

func TestService_PublishFailureIsLoggedNotReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.events.err = errors.New("nats: connection closed")

	d, err := f.svc.Create(ctx, "pub-1", "", validInput())
	require.NoError(t, err)

	got, err := f.svc.SetStatus(ctx, d.ID, "reserved", "pub-1")
	require.NoError(t, err)
	assert.Equal(t, dogs.StatusReserved, got.Status)

	warns := f.logs.FilterMessage("publish status change failed").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	assert.Equal(t, d.ID, warns[0].ContextMap()["dog_id"])
}

func TestService_UpdateKeepsStatusAndChecksOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Create(ctx, "pub-1", "", validInput())
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, d.ID, "reserved", "pub-1")
	require.NoError(t, err)

	name := "Firulais II"
	_, err = f.svc.Update(ctx, d.ID, "intruder", dogs.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, dogs.ErrForbidden)

	updated, err := f.svc.Update(ctx, d.ID, "pub-1", dogs.UpdateInput{
		Name:   &name,
		Photos: []string{"a.jpg", "b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Firulais II", updated.Name)
	assert.Equal(t, "Zaguate", updated.Breed)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, updated.Photos)
	assert.Equal(t, dogs.StatusReserved, updated.Status)

	_, err = f.svc.Update(ctx, d.ID, "pub-1", dogs.UpdateInput{Photos: []string{}})
	assert.ErrorIs(t, err, dogs.ErrInvalidInput, "no se puede quedar sin fotos")

	_, err = f.svc.Update(ctx, "missing", "pub-1", dogs.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, dogs.ErrNotFound)
}

func TestService_NearbyAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	near, err := f.svc.Create(ctx, "pub-1", "", validInput())
	require.NoError(t, err)

	far := validInput()
	far.Latitude, far.Longitude = 9.9907, -83.0360
	_, err = f.svc.Create(ctx, "pub-1", "", far)
	require.NoError(t, err)

	got, err := f.svc.Nearby(ctx, 9.93, -84.09, dogs.DefaultNearbyRadiusKm)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, near.ID, got[0].ID)

	_, err = f.svc.Nearby(ctx, 100, 0, 10)
	assert.ErrorIs(t, err, dogs.ErrInvalidInput)
	_, err = f.svc.Nearby(ctx, 0, 0, -1)
	assert.ErrorIs(t, err, dogs.ErrInvalidInput)

	assert.ErrorIs(t, f.svc.Delete(ctx, near.ID, "intruder"), dogs.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, near.ID, "pub-1"))
	assert.ErrorIs(t, f.svc.Delete(ctx, near.ID, "pub-1"), dogs.ErrNotFound)

	ok, err := f.svc.Exists(ctx, near.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	mine, err := f.svc.ListMine(ctx, "pub-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
