package version

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, Date, info.Date)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestString_DevBuild(t *testing.T) {
	s := String()

	assert.Contains(t, s, ApplicationName)
	assert.Contains(t, s, Version)
}

func TestString_WithCommit(t *testing.T) {
	origCommit := Commit
	defer func() { Commit = origCommit }()

	Commit = "abcdef1234567890"
	s := String()

	assert.Contains(t, s, "abcdef12")
	assert.NotContains(t, s, "abcdef123456")
}

func TestShort(t *testing.T) {
	s := Short()

	assert.True(t, strings.HasPrefix(s, ApplicationName+" "))
}

func TestJSON(t *testing.T) {
	var info Info
	err := json.Unmarshal([]byte(JSON()), &info)
	require.NoError(t, err)

	assert.Equal(t, Version, info.Version)
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()

	assert.Equal(t, ApplicationName+"/"+Version, ua)
}

func TestIsSnapshot(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "dev"
	assert.True(t, IsSnapshot())
	assert.False(t, IsRelease())

	Version = "1.2.3-SNAPSHOT.abc1234"
	assert.True(t, IsSnapshot())

	Version = "1.2.3"
	assert.False(t, IsSnapshot())
	assert.True(t, IsRelease())
}
