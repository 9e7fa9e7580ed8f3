package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fibu_trainer_backend/internal/model"
	"fibu_trainer_backend/internal/util"
)

func adminClaims() *util.Claims {
	return &util.Claims{Email: "admin@example.com", Role: model.RoleAdmin}
}

func userClaims(email string) *util.Claims {
	return &util.Claims{Email: email, Role: model.RoleUser}
}

func TestTaskPolicyCanRead(t *testing.T) {
	policy := NewTaskPolicy()
	owner := userClaims("owner@example.com")
	other := userClaims("other@example.com")

	publicTask := &model.Task{IsPublic: true, CreatedBy: model.CreatedByNA}
	privateTask := &model.Task{IsPublic: false, CreatedBy: owner.Email}

	assert.True(t, policy.CanRead(adminClaims(), publicTask))
	assert.True(t, policy.CanRead(adminClaims(), privateTask))

	// Public tasks are list-visible to everyone but admin-only on
	// direct fetch.
	assert.False(t, policy.CanRead(owner, publicTask))
	assert.True(t, policy.CanRead(owner, privateTask))
	assert.False(t, policy.CanRead(other, privateTask))
}

func TestTaskPolicyCanWrite(t *testing.T) {
	policy := NewTaskPolicy()
	owner := userClaims("owner@example.com")
	other := userClaims("other@example.com")

	publicTask := &model.Task{IsPublic: true, CreatedBy: model.CreatedByNA}
	privateTask := &model.Task{IsPublic: false, CreatedBy: owner.Email}

	assert.True(t, policy.CanWrite(adminClaims(), publicTask))
	assert.True(t, policy.CanWrite(adminClaims(), privateTask))
	assert.True(t, policy.CanWrite(owner, privateTask))
	assert.False(t, policy.CanWrite(other, privateTask))

	// Public tasks are never writable by regular users, even if they
	// had authored them before the task went public.
	publicOwned := &model.Task{IsPublic: true, CreatedBy: owner.Email}
	assert.False(t, policy.CanWrite(owner, publicOwned))

	assert.Equal(t, policy.CanWrite(other, privateTask), policy.CanDelete(other, privateTask))
}

func TestTaskPolicyCreateDefaults(t *testing.T) {
	policy := NewTaskPolicy()
	truev, falsev := true, false

	tests := []struct {
		name          string
		claims        *util.Claims
		isPublic      *bool
		wantPublic    bool
		wantCreatedBy string
	}{
		{"admin default is public unowned", adminClaims(), nil, true, model.CreatedByNA},
		{"user default is private owned", userClaims("u@example.com"), nil, false, "u@example.com"},
		{"admin explicit private keeps ownership", adminClaims(), &falsev, false, "admin@example.com"},
		{"user explicit public stays owned by email", userClaims("u@example.com"), &truev, true, "u@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			public, createdBy := policy.CreateDefaults(tt.claims, tt.isPublic)
			assert.Equal(t, tt.wantPublic, public)
			assert.Equal(t, tt.wantCreatedBy, createdBy)
		})
	}
}
