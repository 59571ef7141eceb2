package owners_test

import (
	"testing"

	"github.com/jrsteele09/go-storefront/owners"
	fakeownerrepo "github.com/jrsteele09/go-storefront/owners/repofake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := owners.HashPassword("Secr3tPass")
	require.NoError(t, err)

	owner := &owners.Owner{PasswordHash: hash}
	assert.True(t, owner.CheckPassword("Secr3tPass"))
	assert.False(t, owner.CheckPassword("secr3tpass"))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"Secr3tPass", false},
		{"short1A", true},
		{"alllowercase1", true},
		{"ALLUPPERCASE1", true},
		{"NoNumbersHere", true},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := owners.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, owners.ValidateEmail("ann@example.com"))
	assert.Error(t, owners.ValidateEmail("Ann <ann@example.com>"))
	assert.Error(t, owners.ValidateEmail("not-an-email"))
}

func TestFakeOwnerRepo(t *testing.T) {
	repo := fakeownerrepo.NewFakeOwnerRepo()

	owner := &owners.Owner{Email: " Ann@Example.com ", Name: "Ann"}
	require.NoError(t, repo.Create(owner))
	require.NotEmpty(t, owner.ID)

	err := repo.Create(&owners.Owner{Email: "ann@example.com"})
	assert.ErrorIs(t, err, owners.ErrEmailExists)

	byEmail, err := repo.GetByEmail("ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, byEmail.ID)
	assert.Equal(t, "ann@example.com", byEmail.Email)

	byID, err := repo.GetByID(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", byID.Name)

	require.NoError(t, repo.Create(&owners.Owner{Email: "bob@example.com"}))
	list, err := repo.List(0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	list, err = repo.List(1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = repo.List(5, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Delete("ann@example.com"))
	_, err = repo.GetByID(owner.ID)
	assert.ErrorIs(t, err, owners.ErrNotFound)
	assert.ErrorIs(t, repo.Delete("ann@example.com"), owners.ErrNotFound)
}
