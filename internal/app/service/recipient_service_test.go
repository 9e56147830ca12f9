package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/marketing-survey/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func setupRecipientService(t *testing.T) (RecipientService, repository.RecipientRepository) {
	t.Helper()
	repo := repository.NewRecipientRepository(setupTestDB(t))
	return NewRecipientService(repo), repo
}

func TestRecipientService_Create(t *testing.T) {
	svc, _ := setupRecipientService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, RecipientInput{Email: "  sales@example.com ", Name: " 영업팀 "})
	require.NoError(t, err)
	assert.Equal(t, "sales@example.com", r.Email)
	assert.Equal(t, "영업팀", r.Name)
	assert.True(t, r.IsActive)

	off, err := svc.Create(ctx, RecipientInput{Email: "off@example.com", Name: "휴면", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	_, err = svc.Create(ctx, RecipientInput{Email: "sales@example.com", Name: "중복"})
	assert.ErrorIs(t, err, ErrRecipientExists)
}

func TestRecipientService_CreateValidation(t *testing.T) {
	svc, _ := setupRecipientService(t)

	tests := []struct {
		name  string
		input RecipientInput
		field string
	}{
		{"missing email", RecipientInput{Name: "팀"}, "email"},
		{"bad email", RecipientInput{Email: "not-an-email", Name: "팀"}, "email"},
		{"missing name", RecipientInput{Email: "a@example.com", Name: "   "}, "name"},
		{"long name", RecipientInput{Email: "a@example.com", Name: string(make([]rune, 51))}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestRecipientService_Update(t *testing.T) {
	svc, _ := setupRecipientService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, RecipientInput{Email: "a@example.com", Name: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, RecipientInput{Email: "b@example.com", Name: "B"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, RecipientInput{Email: "a2@example.com", Name: "A2"})
	require.NoError(t, err)
	assert.Equal(t, "a2@example.com", updated.Email)
	assert.True(t, updated.IsActive, "status is kept when is_active is omitted")

	updated, err = svc.Update(ctx, a.ID, RecipientInput{Email: "a2@example.com", Name: "A2", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(ctx, a.ID, RecipientInput{Email: "b@example.com", Name: "A2"})
	assert.ErrorIs(t, err, ErrRecipientExists)

	_, err = svc.Update(ctx, 9999, RecipientInput{Email: "z@example.com", Name: "Z"})
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestRecipientService_Delete(t *testing.T) {
	svc, _ := setupRecipientService(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, RecipientInput{Email: "a@example.com", Name: "A"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID))
	assert.ErrorIs(t, svc.Delete(ctx, r.ID), ErrRecipientNotFound)
}

func TestRecipientService_BulkStatus(t *testing.T) {
	svc, repo := setupRecipientService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, RecipientInput{Email: "a@example.com", Name: "A"})
	b, _ := svc.Create(ctx, RecipientInput{Email: "b@example.com", Name: "B"})
	_, _ = svc.Create(ctx, RecipientInput{Email: "c@example.com", Name: "C"})

	n, err := svc.SetActive(ctx, []uint{a.ID, b.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "c@example.com", active[0].Email)

	n, err = svc.SetActiveByEmail(ctx, []string{" a@example.com ", "", "nobody@example.com"}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	active, err = repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestRecipientService_Import(t *testing.T) {
	svc, repo := setupRecipientService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, RecipientInput{Email: "a@example.com", Name: "A", IsActive: boolPtr(false)})
	require.NoError(t, err)

	result, err := svc.Import(ctx, []RecipientInput{
		{Email: "a@example.com", Name: "A 팀장"},
		{Email: "b@example.com", Name: "B"},
		{Email: "c@example.com", Name: "C", IsActive: boolPtr(false)},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 2, Updated: 1}, result)

	a, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "A 팀장", a.Name)
	assert.False(t, a.IsActive)

	all, err := svc.List(ctx, repository.RecipientFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.Import(ctx, []RecipientInput{{Email: "broken", Name: "X"}})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
