package utils

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

var sourceDir string

func init() {
	_, file, _, _ := runtime.Caller(0)
	sourceDir = moduleDir(file)
}

func moduleDir(file string) string {
	return filepath.ToSlash(filepath.Dir(filepath.Dir(file))) + "/"
}

func external(file string) bool {
	return !strings.HasPrefix(file, sourceDir) || strings.HasSuffix(file, "_test.go")
}

// FileWithLineNum return the file name and line number of the first caller outside this module
func FileWithLineNum() string {
	// the first two frames are always this package and its caller inside the module
	for i := 2; i < 20; i++ {
		_, file, line, ok := runtime.Caller(i)
		if ok && external(file) {
			return file + ":" + strconv.FormatInt(int64(line), 10)
		}
	}
	return ""
}

// CallerFrame first stack frame outside this module
func CallerFrame() runtime.Frame {
	pcs := [20]uintptr{}
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if external(frame.File) {
			return frame
		}
		if !more {
			return frame
		}
	}
}

// Contains reports whether elem is in elems
func Contains(elems []string, elem string) bool {
	for _, e := range elems {
		if elem == e {
			return true
		}
	}
	return false
}

// ToString format scalar values for messages and comparisons
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(value)
}
