package serrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseError_WrappedSentinelMatches(t *testing.T) {
	sentinel := NewError("X_FAILED", "x failed", "X.Failed")
	wrapped := fmt.Errorf("doing x: %w", sentinel)

	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "doing x: x failed", wrapped.Error())

	var coded Coded
	require.True(t, errors.As(wrapped, &coded))
	require.Equal(t, "X_FAILED", coded.ErrorCode())
}

func TestBaseError_WithTemplateDataCopies(t *testing.T) {
	sentinel := NewError("X_FAILED", "x failed", "")
	data := map[string]string{"field": "phone"}

	withData := sentinel.WithTemplateData(data)
	data["field"] = "changed"

	require.Nil(t, sentinel.TemplateData)
	require.Equal(t, "phone", withData.TemplateData["field"])
	require.Equal(t, sentinel.Code, withData.Code)
}
