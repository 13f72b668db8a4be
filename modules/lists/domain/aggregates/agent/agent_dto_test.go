package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateDTO_Ok(t *testing.T) {
	dto := &CreateDTO{Name: " Ann ", Email: "ann@example.com", Mobile: "+1 555", Password: "secret"}
	errs, ok := dto.Ok()
	require.True(t, ok)
	require.Empty(t, errs)
	require.Equal(t, "Ann", dto.Name)
}

func TestCreateDTO_ReportsMissingAndInvalidFields(t *testing.T) {
	dto := &CreateDTO{Name: "  ", Email: "not-an-email"}
	errs, ok := dto.Ok()
	require.False(t, ok)
	require.Equal(t, "name is required", errs["name"])
	require.Equal(t, "email is not a valid address", errs["email"])
	require.Equal(t, "mobile is required", errs["mobile"])
	require.Equal(t, "password is required", errs["password"])
}

func TestUpdateDTO_AllowsPartialUpdates(t *testing.T) {
	_, ok := (&UpdateDTO{Mobile: "123"}).Ok()
	require.True(t, ok)

	errs, ok := (&UpdateDTO{Email: "bad"}).Ok()
	require.False(t, ok)
	require.Contains(t, errs, "email")
}

func TestAgent_NormalizesEmail(t *testing.T) {
	a := New("Ann", " Ann@Example.COM ", "1", "hash")
	require.Equal(t, "ann@example.com", a.Email())
	require.Equal(t, "bob@example.com", a.SetEmail("BOB@example.com").Email())
}
