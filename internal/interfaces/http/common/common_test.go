package common

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		parsed bool
	}{
		{"", 1, false},
		{"3", 3, true},
		{" 12 ", 12, true},
		{"0", 1, false},
		{"-2", 1, false},
		{"abc", 1, false},
	}
	for _, tt := range tests {
		got, ok := ParsePositiveInt(tt.in, 1)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.parsed, ok, tt.in)
	}
}

func TestRoundedPtr(t *testing.T) {
	assert.Nil(t, RoundedPtr(nil))
	v := 12.345
	assert.Equal(t, 12.3, *RoundedPtr(&v))
}

func TestSplitList(t *testing.T) {
	got := SplitList([]string{"CEA, HEP", "HEP", " ", "BPI-ALCI"})
	assert.Equal(t, []string{"CEA", "HEP", "BPI-ALCI"}, got)
	assert.Empty(t, SplitList(nil))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(nil, rec, http.StatusNotFound, "contractor not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "contractor not found", body["error"])
}

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithUser(context.Background(), AuthenticatedUser{ID: "admin-1"})
	user, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin-1", user.ID)
}
