package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleDir(t *testing.T) {
	assert.Equal(t, "/src/haku/", moduleDir("/src/haku/utils/utils.go"))
}

func TestFileWithLineNum(t *testing.T) {
	var file string
	func() { file = FileWithLineNum() }()
	assert.True(t, strings.Contains(file, "utils_test.go:"), file)
}

func TestCallerFrame(t *testing.T) {
	frame := CallerFrame()
	assert.True(t, strings.HasSuffix(frame.File, "utils_test.go"), frame.File)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains(nil, "a"))
}

func TestToString(t *testing.T) {
	values := map[string]any{
		"":     nil,
		"abc":  []byte("abc"),
		"42":   int64(42),
		"7":    uint(7),
		"1.5":  1.5,
		"true": true,
		"x":    "x",
	}
	for expected, value := range values {
		assert.Equal(t, expected, ToString(value))
	}
}
