package validator

import (
	"testing"

	domainerrors "hrpm/internal/domain/errors"
	"hrpm/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStrongPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		want     bool
	}{
		{"Secret1!", true},
		{"aB3&", true},
		{"secret1!", false},
		{"SECRET1!", false},
		{"Secretx!", false},
		{"Secret12", false},
		{"Secret1#", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestValidator_ResetPasswordInput(t *testing.T) {
	t.Parallel()
	v := New()

	ok := &usecase.ResetPasswordInput{Token: "tok", NewPassword: "Secret1!", ConfirmPassword: "Secret1!"}
	require.NoError(t, v.Validate(ok))

	err := v.Validate(&usecase.ResetPasswordInput{Token: "", NewPassword: "weak", ConfirmPassword: "other"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var verr *domainerrors.ValidationError
	require.True(t, errors.As(err, &verr))

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "is required", fields["token"])
	assert.Equal(t, "must be at least 6 characters", fields["newPassword"])
	assert.Equal(t, "must match newPassword", fields["confirmPassword"])
}

func TestValidator_LoginInput(t *testing.T) {
	t.Parallel()
	v := New()

	assert.NoError(t, v.Validate(&usecase.LoginInput{Email: "a@x.com", Password: "anything"}))

	err := v.Validate(&usecase.LoginInput{Email: "not-an-email", Password: ""})
	var verr *domainerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
}

func TestValidator_CreateUserRole(t *testing.T) {
	t.Parallel()
	v := New()

	assert.NoError(t, v.Validate(&usecase.CreateUserInput{Name: "A", Email: "a@x.com", Password: "Secret1!", Role: "Manager"}))
	assert.Error(t, v.Validate(&usecase.CreateUserInput{Name: "A", Email: "a@x.com", Password: "Secret1!", Role: "Root"}))
}
