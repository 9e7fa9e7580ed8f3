package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/util"
)

func bookingContent() model.TaskContent {
	return model.TaskContent{
		Scenario: "Wareneinkauf auf Ziel",
		Bookings: []model.Booking{{Soll: "Wareneingang", Haben: "Verbindlichkeiten", Betrag: 1000}},
	}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Run("ids are sequential starting at one", func(t *testing.T) {
		db := newTestDB(t)
		svc := newTestTaskService(t, db)

		first, err := svc.Create(adminClaims(), CreateTaskInput{Type: "booking", Content: bookingContent()})
		require.NoError(t, err)
		second, err := svc.Create(adminClaims(), CreateTaskInput{Type: "booking", Content: bookingContent()})
		require.NoError(t, err)

		assert.Equal(t, uint(1), first.ID)
		assert.Equal(t, uint(2), second.ID)
	})

	t.Run("display aliases are canonicalized", func(t *testing.T) {
		db := newTestDB(t)
		svc := newTestTaskService(t, db)

		task, err := svc.Create(adminClaims(), CreateTaskInput{
			Type: "kreuze",
			Content: model.TaskContent{
				Account: "Kasse",
				Soll:    []string{"Anfangsbestand", "Barverkauf"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, model.TaskDragDrop, task.Type)
	})

	t.Run("unknown type is rejected with the valid set", func(t *testing.T) {
		db := newTestDB(t)
		svc := newTestTaskService(t, db)

		_, err := svc.Create(adminClaims(), CreateTaskInput{Type: "quiz", Content: bookingContent()})
		require.ErrorIs(t, err, util.ErrInvalidTaskType)
		assert.Contains(t, err.Error(), "booking")
	})

	t.Run("invalid content is rejected", func(t *testing.T) {
		db := newTestDB(t)
		svc := newTestTaskService(t, db)

		_, err := svc.Create(adminClaims(), CreateTaskInput{Type: "booking", Content: model.TaskContent{Scenario: "leer"}})
		assert.ErrorIs(t, err, util.ErrInvalidContent)
	})
}

func TestTaskServiceGet(t *testing.T) {
	db := newTestDB(t)
	svc := newTestTaskService(t, db)
	owner := userClaims("owner@example.com")

	publicTask, err := svc.Create(adminClaims(), CreateTaskInput{Type: "booking", Content: bookingContent()})
	require.NoError(t, err)
	privateTask, err := svc.Create(owner, CreateTaskInput{Type: "booking", Content: bookingContent()})
	require.NoError(t, err)

	t.Run("owner reads own private task", func(t *testing.T) {
		got, err := svc.Get(owner, privateTask.ID)
		require.NoError(t, err)
		assert.Equal(t, privateTask.ID, got.ID)
	})

	t.Run("direct fetch of a public task is admin-only", func(t *testing.T) {
		_, err := svc.Get(owner, publicTask.ID)
		assert.ErrorIs(t, err, util.ErrPermissionDenied)

		_, err = svc.Get(adminClaims(), publicTask.ID)
		assert.NoError(t, err)
	})

	t.Run("missing task is not found", func(t *testing.T) {
		_, err := svc.Get(adminClaims(), 999)
		assert.ErrorIs(t, err, util.ErrTaskNotFound)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestTaskService(t, db)
	owner := userClaims("owner@example.com")
	other := userClaims("other@example.com")

	task, err := svc.Create(owner, CreateTaskInput{Type: "booking", Content: bookingContent(), Tags: []string{"alt"}})
	require.NoError(t, err)

	t.Run("foreign private task is forbidden", func(t *testing.T) {
		_, err := svc.Update(other, task.ID, UpdateTaskInput{Type: "booking", Content: bookingContent()})
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
	})

	t.Run("owner update preserves id, creator and creation time", func(t *testing.T) {
		updated, err := svc.Update(owner, task.ID, UpdateTaskInput{
			Type:    "booking",
			Content: bookingContent(),
			Tags:    []string{"neu"},
		})
		require.NoError(t, err)

		assert.Equal(t, task.ID, updated.ID)
		assert.Equal(t, owner.Email, updated.CreatedBy)
		assert.Equal(t, task.CreatedAt.Unix(), updated.CreatedAt.Unix())
		assert.Equal(t, []string{"neu"}, updated.Tags)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	db := newTestDB(t)
	svc := newTestTaskService(t, db)
	owner := userClaims("owner@example.com")

	task, err := svc.Create(owner, CreateTaskInput{Type: "booking", Content: bookingContent()})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(owner, task.ID))
	assert.ErrorIs(t, svc.Delete(owner, task.ID), util.ErrTaskNotFound)

	// Deleted ids are never reused.
	next, err := svc.Create(owner, CreateTaskInput{Type: "booking", Content: bookingContent()})
	require.NoError(t, err)
	assert.Greater(t, next.ID, task.ID)
}

func TestTaskServiceList(t *testing.T) {
	db := newTestDB(t)
	svc := newTestTaskService(t, db)
	owner := userClaims("owner@example.com")
	other := userClaims("other@example.com")

	_, err := svc.Create(adminClaims(), CreateTaskInput{Type: "booking", Content: bookingContent(), Tags: []string{"Einkauf"}})
	require.NoError(t, err)
	_, err = svc.Create(owner, CreateTaskInput{Type: "lueckentext", Content: model.TaskContent{
		Text:    "Der Gewinn erhöht das ___.",
		Answers: []string{"Eigenkapital"},
	}, Tags: []string{"GuV"}})
	require.NoError(t, err)

	t.Run("admin sees everything", func(t *testing.T) {
		tasks, err := svc.List(adminClaims(), TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("users see public plus their own", func(t *testing.T) {
		tasks, err := svc.List(owner, TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 2)

		tasks, err = svc.List(other, TaskFilter{})
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
		assert.True(t, tasks[0].IsPublic)
	})

	t.Run("type filter accepts aliases", func(t *testing.T) {
		tasks, err := svc.List(adminClaims(), TaskFilter{Types: []string{"buchungen"}})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, model.TaskBooking, tasks[0].Type)
	})

	t.Run("unknown type filter errors instead of empty result", func(t *testing.T) {
		_, err := svc.List(adminClaims(), TaskFilter{Types: []string{"quiz"}})
		assert.ErrorIs(t, err, util.ErrInvalidTaskType)
	})

	t.Run("tag filter uses AND semantics", func(t *testing.T) {
		tasks, err := svc.List(adminClaims(), TaskFilter{Tags: []string{"GuV"}})
		require.NoError(t, err)
		require.Len(t, tasks, 1)

		tasks, err = svc.List(adminClaims(), TaskFilter{Tags: []string{"GuV", "Einkauf"}})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}

func TestDistinctTags(t *testing.T) {
	db := newTestDB(t)
	svc := newTestTaskService(t, db)
	owner := userClaims("owner@example.com")

	_, err := svc.Create(adminClaims(), CreateTaskInput{Type: "booking", Content: bookingContent(), Tags: []string{"Einkauf", "Bilanz"}})
	require.NoError(t, err)
	_, err = svc.Create(owner, CreateTaskInput{Type: "booking", Content: bookingContent(), Tags: []string{"Bilanz", "Privat"}})
	require.NoError(t, err)

	tags, err := svc.DistinctTags(context.Background(), adminClaims())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bilanz", "Einkauf", "Privat"}, tags)

	tags, err = svc.DistinctTags(context.Background(), userClaims("stranger@example.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bilanz", "Einkauf"}, tags)
}
