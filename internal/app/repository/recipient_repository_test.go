package repository

import (
	"context"
	"testing"

	"github.com/ikkim/marketing-survey/internal/app/model"
	"github.com/ikkim/marketing-survey/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRecipientTest(t *testing.T) RecipientRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewRecipientRepository(testDB)
}

func seedRecipients(t *testing.T, repo RecipientRepository, recipients ...model.EmailRecipient) []model.EmailRecipient {
	t.Helper()
	for i := range recipients {
		require.NoError(t, repo.Create(context.Background(), &recipients[i]))
	}
	return recipients
}

func TestRecipientRepository_Create(t *testing.T) {
	repo := setupRecipientTest(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		recipient *model.EmailRecipient
		wantErr   bool
	}{
		{
			name:      "Active recipient",
			recipient: &model.EmailRecipient{Email: "a@example.com", Name: "관리자", IsActive: true},
		},
		{
			name:      "Inactive recipient keeps false",
			recipient: &model.EmailRecipient{Email: "b@example.com", Name: "마케터", IsActive: false},
		},
		{
			name:      "Duplicate email",
			recipient: &model.EmailRecipient{Email: "a@example.com", Name: "다른 사람", IsActive: true},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.recipient)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.recipient.ID)

			found, err := repo.FindByID(ctx, tt.recipient.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.recipient.IsActive, found.IsActive)
		})
	}
}

func TestRecipientRepository_FindActive(t *testing.T) {
	repo := setupRecipientTest(t)
	ctx := context.Background()

	seedRecipients(t, repo,
		model.EmailRecipient{Email: "a@example.com", Name: "A", IsActive: true},
		model.EmailRecipient{Email: "b@example.com", Name: "B", IsActive: false},
		model.EmailRecipient{Email: "c@example.com", Name: "C", IsActive: true},
	)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "a@example.com", active[0].Email)
	assert.Equal(t, "c@example.com", active[1].Email)
}

func TestRecipientRepository_FindActive_Empty(t *testing.T) {
	repo := setupRecipientTest(t)

	active, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRecipientRepository_List(t *testing.T) {
	repo := setupRecipientTest(t)
	ctx := context.Background()

	seedRecipients(t, repo,
		model.EmailRecipient{Email: "zeta@example.com", Name: "영업팀", IsActive: true},
		model.EmailRecipient{Email: "alpha@example.com", Name: "마케팅팀", IsActive: false},
	)

	all, err := repo.List(ctx, RecipientFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha@example.com", all[0].Email)

	inactive := false
	filtered, err := repo.List(ctx, RecipientFilter{Active: &inactive})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "alpha@example.com", filtered[0].Email)

	searched, err := repo.List(ctx, RecipientFilter{Search: "영업"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "zeta@example.com", searched[0].Email)
}

func TestRecipientRepository_SetActive(t *testing.T) {
	repo := setupRecipientTest(t)
	ctx := context.Background()

	seeded := seedRecipients(t, repo,
		model.EmailRecipient{Email: "a@example.com", Name: "A", IsActive: true},
		model.EmailRecipient{Email: "b@example.com", Name: "B", IsActive: true},
		model.EmailRecipient{Email: "c@example.com", Name: "C", IsActive: true},
	)

	affected, err := repo.SetActive(ctx, []uint{seeded[0].ID, seeded[2].ID}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b@example.com", active[0].Email)

	affected, err = repo.SetActive(ctx, nil, true)
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.SetActiveByEmail(ctx, []string{"a@example.com"}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	active, err = repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestRecipientRepository_UpdateDelete(t *testing.T) {
	repo := setupRecipientTest(t)
	ctx := context.Background()

	seeded := seedRecipients(t, repo, model.EmailRecipient{Email: "a@example.com", Name: "A", IsActive: true})
	recipient := seeded[0]

	recipient.Name = "변경됨"
	recipient.IsActive = false
	require.NoError(t, repo.Update(ctx, &recipient))

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "변경됨", found.Name)
	assert.False(t, found.IsActive)

	require.NoError(t, repo.Delete(ctx, recipient.ID))
	assert.ErrorIs(t, repo.Delete(ctx, recipient.ID), gorm.ErrRecordNotFound)

	_, err = repo.FindByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
