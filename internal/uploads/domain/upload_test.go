package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestNewUpload(t *testing.T) {
	u, err := NewUpload("7", "a.txt", "alice", "7/k-a.txt", "/data/7/k-a.txt", []byte("abc"))
	require.NoError(t, err)

	assert.Equal(t, "7", u.GroupID())
	assert.Equal(t, "a.txt", u.FileName())
	assert.Equal(t, "alice", u.Username())
	assert.Equal(t, "/data/7/k-a.txt", u.Locator())
	assert.Equal(t, int64(3), u.Size())
	assert.True(t, strings.HasPrefix(u.ContentType(), "text/plain"))
	assert.False(t, u.UploadedAt().IsZero())
}

func TestNewUpload_Validation(t *testing.T) {
	tests := []struct {
		name                       string
		group, file, user, locator string
		want                       error
	}{
		{"missing group", "", "a.txt", "alice", "loc", ErrEmptyGroupID},
		{"missing file", "7", "", "alice", "loc", ErrEmptyFileName},
		{"missing user", "7", "a.txt", "", "loc", ErrEmptyUsername},
		{"missing locator", "7", "a.txt", "alice", "", ErrEmptyLocator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUpload(tt.group, tt.file, tt.user, "key", tt.locator, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewStorageKey(t *testing.T) {
	key, err := NewStorageKey("7", "a.txt")
	require.NoError(t, err)

	parts := strings.SplitN(key, "/", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "7", parts[0])
	assert.True(t, strings.HasSuffix(parts[1], "-a.txt"))

	other, err := NewStorageKey("7", "a.txt")
	require.NoError(t, err)
	assert.NotEqual(t, key, other, "keys are unique per call")
}

func TestNewStorageKey_Rejects(t *testing.T) {
	_, err := NewStorageKey("", "a.txt")
	assert.ErrorIs(t, err, ErrEmptyGroupID)

	_, err = NewStorageKey("7", "../")
	assert.ErrorIs(t, err, ErrEmptyFileName)

	_, err = NewStorageKey(strings.Repeat("g", MaxGroupIDLength+1), "a.txt")
	assert.ErrorIs(t, err, ErrGroupIDTooLong)

	_, err = NewStorageKey(strings.Repeat("g", MaxGroupIDLength), "a.txt")
	assert.NoError(t, err)
}

func TestValidateUploadInput(t *testing.T) {
	assert.NoError(t, ValidateUploadInput("7", "a.txt", "alice"))
	assert.ErrorIs(t, ValidateUploadInput("", "a.txt", "alice"), ErrEmptyGroupID)
	assert.ErrorIs(t, ValidateUploadInput("7", "", "alice"), ErrEmptyFileName)
	assert.ErrorIs(t, ValidateUploadInput("7", "a.txt", ""), ErrEmptyUsername)
}

func TestSanitizeFileName(t *testing.T) {
	decomposed := norm.NFD.String("café.csv")

	tests := []struct {
		in, want string
	}{
		{"a.txt", "a.txt"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\alice\report (1).csv`, "report__1_.csv"},
		{".hidden", "hidden"},
		{decomposed, "café.csv"},
		{"rm -rf;.sh", "rm_-rf_.sh"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}
