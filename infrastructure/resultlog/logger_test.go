package resultlog

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	domainResultLog "github.com/AzielCF/az-autopost/domains/resultlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6} - [A-Z ]+: .+$`)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestRecord_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "schedule_log.txt")
	l, err := Open(path)
	require.NoError(t, err)

	l.Record(domainResultLog.TagSuccess, "Uploaded /a/post.jpg scheduled for 2025-09-16T09:30:00+02:00")
	l.Record(domainResultLog.TagLoginFailed, "bad password")
	require.NoError(t, l.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Regexp(t, linePattern, line)
	}
	assert.True(t, strings.HasSuffix(lines[0], " - SUCCESS: Uploaded /a/post.jpg scheduled for 2025-09-16T09:30:00+02:00"))
	assert.True(t, strings.HasSuffix(lines[1], " - LOGIN FAILED: bad password"))
	assert.Equal(t, path, l.Path())
}

func TestOpen_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule_log.txt")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0644))

	l, err := Open(path)
	require.NoError(t, err)
	l.Record(domainResultLog.TagWarn, "move failed for x: denied")
	require.NoError(t, l.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "previous run", lines[0])
	assert.Contains(t, lines[1], " - WARN: move failed for x: denied")
}

func TestRecord_AfterCloseIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule_log.txt")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	l.Record(domainResultLog.TagFailed, "ignored")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
