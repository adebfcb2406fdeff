package book

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqIDs struct {
	n int
}

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("book-%04d", s.n)
}

type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	clock := &stepClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), step: time.Minute}
	return NewService(repo, &seqIDs{}, WithClock(clock.Now)), repo
}

func validInput(name string) Input {
	return Input{
		Name:      name,
		Year:      2023,
		Author:    "A",
		Summary:   "S",
		Publisher: "P",
		PageCount: 100,
		ReadPage:  25,
		Reading:   true,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives finished and timestamps", func(t *testing.T) {
		svc, _ := newTestService(t)

		for _, tc := range []struct {
			pageCount, readPage int
			finished            bool
		}{
			{100, 100, true},
			{100, 99, false},
			{0, 0, true},
		} {
			in := validInput("Gemini")
			in.PageCount, in.ReadPage = tc.pageCount, tc.readPage

			id, err := svc.Create(ctx, in)
			require.NoError(t, err)

			got, err := svc.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tc.finished, got.Finished)
			assert.Equal(t, id, got.ID)
			assert.Equal(t, got.InsertedAt, got.UpdatedAt)
			assert.False(t, got.InsertedAt.IsZero())
		}
	})

	t.Run("missing name regardless of other fields", func(t *testing.T) {
		svc, repo := newTestService(t)

		in := validInput("")
		in.ReadPage = in.PageCount + 50

		_, err := svc.Create(ctx, in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, msgMissingName, ve.Message)

		n, _ := repo.Count(ctx)
		assert.Zero(t, n)
	})

	t.Run("read page exceeds page count", func(t *testing.T) {
		svc, repo := newTestService(t)

		in := validInput("Gemini")
		in.PageCount, in.ReadPage = 10, 15

		_, err := svc.Create(ctx, in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, msgReadPageExceeds, ve.Message)

		n, _ := repo.Count(ctx)
		assert.Zero(t, n)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockRepo := NewMockRepository(ctrl)
		svc := NewService(mockRepo, &seqIDs{})

		repoErr := errors.New("disk on fire")
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repoErr)

		_, err := svc.Create(ctx, validInput("Gemini"))
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	seed := []struct {
		name      string
		reading   bool
		finished  bool
		publisher string
	}{
		{"Dunia Sophie", true, false, "Mizan"},
		{"Gemini", false, true, "Gramedia"},
		{"Kisah DUNIA Lain", false, false, "Mizan"},
		{"Laskar Pelangi", true, true, "Bentang"},
	}
	var ids []string
	for _, s := range seed {
		in := validInput(s.name)
		in.Reading = s.reading
		in.Publisher = s.publisher
		if s.finished {
			in.ReadPage = in.PageCount
		}
		id, err := svc.Create(ctx, in)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	names := func(items []Summary) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Name)
		}
		return out
	}

	t.Run("no filters returns all in creation order", func(t *testing.T) {
		got, err := svc.List(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, got, len(seed))
		for i, s := range got {
			assert.Equal(t, Summary{ID: ids[i], Name: seed[i].name, Publisher: seed[i].publisher}, s)
		}
	})

	t.Run("name is case-insensitive substring", func(t *testing.T) {
		got, err := svc.List(ctx, Filter{Name: "dunia"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Dunia Sophie", "Kisah DUNIA Lain"}, names(got))
	})

	t.Run("reading flag", func(t *testing.T) {
		got, err := svc.List(ctx, FilterFromQuery(map[string][]string{"reading": {"1"}}))
		require.NoError(t, err)
		assert.Equal(t, []string{"Dunia Sophie", "Laskar Pelangi"}, names(got))

		got, err = svc.List(ctx, FilterFromQuery(map[string][]string{"reading": {"0"}}))
		require.NoError(t, err)
		assert.Equal(t, []string{"Gemini", "Kisah DUNIA Lain"}, names(got))
	})

	t.Run("finished flag", func(t *testing.T) {
		got, err := svc.List(ctx, FilterFromQuery(map[string][]string{"finished": {"1"}}))
		require.NoError(t, err)
		assert.Equal(t, []string{"Gemini", "Laskar Pelangi"}, names(got))
	})

	t.Run("filters compose with AND", func(t *testing.T) {
		got, err := svc.List(ctx, Filter{Name: "dunia", Reading: boolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, []string{"Kisah DUNIA Lain"}, names(got))
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		got, err := svc.List(ctx, Filter{Name: "zzz"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces fields and recomputes finished", func(t *testing.T) {
		svc, _ := newTestService(t)
		id, err := svc.Create(ctx, validInput("Gemini"))
		require.NoError(t, err)
		_, err = svc.Create(ctx, validInput("Other"))
		require.NoError(t, err)
		before, _ := svc.GetByID(ctx, id)

		in := Input{Name: "Gemini 2", Year: 2024, Author: "B", Summary: "S2", Publisher: "Q", PageCount: 50, ReadPage: 50, Reading: false}
		require.NoError(t, svc.Update(ctx, id, in))

		after, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, after.ID)
		assert.Equal(t, "Gemini 2", after.Name)
		assert.Equal(t, 2024, after.Year)
		assert.Equal(t, "B", after.Author)
		assert.Equal(t, "S2", after.Summary)
		assert.Equal(t, "Q", after.Publisher)
		assert.Equal(t, 50, after.PageCount)
		assert.Equal(t, 50, after.ReadPage)
		assert.False(t, after.Reading)
		assert.True(t, after.Finished)
		assert.Equal(t, before.InsertedAt, after.InsertedAt)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

		list, _ := svc.List(ctx, Filter{})
		assert.Equal(t, id, list[0].ID, "position is preserved")
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.Update(ctx, "nope", Input{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing name leaves record unchanged", func(t *testing.T) {
		svc, _ := newTestService(t)
		id, err := svc.Create(ctx, validInput("Gemini"))
		require.NoError(t, err)
		before, _ := svc.GetByID(ctx, id)

		in := validInput("")
		in.Publisher = "changed"
		err = svc.Update(ctx, id, in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, msgMissingName, ve.Message)

		after, _ := svc.GetByID(ctx, id)
		assert.Equal(t, before, after)
	})

	t.Run("read page exceeds page count", func(t *testing.T) {
		svc, _ := newTestService(t)
		id, err := svc.Create(ctx, validInput("Gemini"))
		require.NoError(t, err)

		in := validInput("Gemini")
		in.ReadPage = in.PageCount + 1
		err = svc.Update(ctx, id, in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, msgReadPageExceeds, ve.Message)
	})

	t.Run("updatedAt never precedes insertedAt", func(t *testing.T) {
		repo := NewMemoryRepo()
		clock := &stepClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), step: -time.Hour}
		svc := NewService(repo, &seqIDs{}, WithClock(clock.Now))

		id, err := svc.Create(ctx, validInput("Gemini"))
		require.NoError(t, err)
		require.NoError(t, svc.Update(ctx, id, validInput("Gemini")))

		got, _ := svc.GetByID(ctx, id)
		assert.False(t, got.UpdatedAt.Before(got.InsertedAt))
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		id, err := svc.Create(ctx, validInput(name))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, svc.Delete(ctx, ids[1]))

	n, _ := svc.Count(ctx)
	assert.Equal(t, 2, n)
	_, err := svc.GetByID(ctx, ids[1])
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
	n, _ = svc.Count(ctx)
	assert.Equal(t, 2, n)

	list, _ := svc.List(ctx, Filter{})
	require.Len(t, list, 2)
	assert.Equal(t, ids[0], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)
}

func TestService_ReadingLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	id, err := svc.Create(ctx, Input{
		Name: "Gemini", Year: 2023, Author: "A", Summary: "S", Publisher: "P",
		PageCount: 100, ReadPage: 100, Reading: false,
	})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Finished)

	require.NoError(t, svc.Delete(ctx, id))

	_, err = svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
