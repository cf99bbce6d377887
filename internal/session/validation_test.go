package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{name: "valid inputs", email: "jane@example.com", password: "secret123"},
		{name: "missing email", email: "", password: "secret123", wantErr: "email is required"},
		{name: "malformed email", email: "jane@", password: "secret123", wantErr: "invalid email format"},
		{name: "email without TLD", email: "jane@example", password: "secret123", wantErr: "invalid email format"},
		{name: "missing password", email: "jane@example.com", password: "", wantErr: "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.email, tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegisterParams_Validate(t *testing.T) {
	valid := RegisterParams{
		Email:           "jane@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		FirstName:       "Jane",
		LastName:        "Doe",
	}

	t.Run("valid params", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("short password", func(t *testing.T) {
		p := valid
		p.Password = "short"
		p.ConfirmPassword = "short"
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		p := valid
		p.ConfirmPassword = "different1"
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "passwords do not match")
	})

	t.Run("missing names", func(t *testing.T) {
		p := valid
		p.FirstName = "  "
		p.LastName = ""
		err := p.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})

	t.Run("tenant ID and tenant name are mutually exclusive", func(t *testing.T) {
		p := valid
		p.TenantID = "t-1"
		p.TenantName = "New Shop"
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not both")
	})

	t.Run("collects every failing field", func(t *testing.T) {
		err := RegisterParams{}.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.GreaterOrEqual(t, len(verr.Fields), 4)
	})
}

func TestValidatePasswordChange(t *testing.T) {
	t.Run("valid rotation", func(t *testing.T) {
		assert.NoError(t, ValidatePasswordChange("oldsecret", "newsecret1"))
	})

	t.Run("missing current password", func(t *testing.T) {
		err := ValidatePasswordChange("", "newsecret1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "current password is required")
	})

	t.Run("new password too short", func(t *testing.T) {
		err := ValidatePasswordChange("oldsecret", "short")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("unchanged password is rejected", func(t *testing.T) {
		err := ValidatePasswordChange("samesecret", "samesecret")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must differ")
	})
}
