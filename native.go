package embedded

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// Library loader
var (
	nativeLibOnce    sync.Once
	nativeLibLoaded  bool
	nativeLibError   error
	nativeLibPath    string
	nativeLibHandler unsafe.Pointer
)

// NativeLibraryEnv names an explicit path for the native helper library.
const NativeLibraryEnv = "EMBEDDED_NATIVE_LIB"

// Dynamically loaded native function pointers, indexed by element width.
var (
	funcStampNulls8  unsafe.Pointer
	funcStampNulls16 unsafe.Pointer
	funcStampNulls32 unsafe.Pointer
	funcStampNulls64 unsafe.Pointer
)

// NativeHelpersAvailable returns true if the native column helpers were loaded.
func NativeHelpersAvailable() bool {
	loadNativeLibrary()
	return nativeLibLoaded
}

// NativeHelpersError returns any error that occurred during native library loading.
func NativeHelpersError() error {
	loadNativeLibrary()
	return nativeLibError
}

func loadNativeLibrary() {
	nativeLibOnce.Do(func() {
		nativeLibPath = findNativeLibraryPath()
		if nativeLibPath == "" {
			nativeLibError = errors.New("native helper library not found")
			return
		}

		handler, err := loadDynamicLibrary(nativeLibPath)
		if err != nil {
			nativeLibError = errors.Wrap(err, "failed to load native library")
			return
		}
		nativeLibHandler = handler

		if !loadNativeFunctions() {
			closeLibrary(nativeLibHandler)
			nativeLibError = errors.New("failed to load one or more native functions")
			return
		}

		nativeLibLoaded = true
	})
}

func nativeLibraryName() string {
	switch runtime.GOOS {
	case "windows":
		return "embeddednative.dll"
	case "darwin":
		return "libembeddednative.dylib"
	case "linux", "freebsd":
		return "libembeddednative.so"
	}
	return ""
}

// Find the path to the native library based on runtime OS and architecture
func findNativeLibraryPath() string {
	if p := os.Getenv(NativeLibraryEnv); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}

	libName := nativeLibraryName()
	if libName == "" {
		return ""
	}

	searchPaths := []string{filepath.Join(".", libName)}
	if execPath, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(execPath), libName))
	}
	searchPaths = append(searchPaths, filepath.Join("lib", runtime.GOOS, runtime.GOARCH, libName))

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func loadNativeFunctions() bool {
	var err error
	if funcStampNulls8, err = getSymbol(nativeLibHandler, "embedded_stamp_nulls_8"); err != nil {
		return false
	}
	if funcStampNulls16, err = getSymbol(nativeLibHandler, "embedded_stamp_nulls_16"); err != nil {
		return false
	}
	if funcStampNulls32, err = getSymbol(nativeLibHandler, "embedded_stamp_nulls_32"); err != nil {
		return false
	}
	if funcStampNulls64, err = getSymbol(nativeLibHandler, "embedded_stamp_nulls_64"); err != nil {
		return false
	}
	return true
}

func stampFunc(width uintptr) unsafe.Pointer {
	switch width {
	case 1:
		return funcStampNulls8
	case 2:
		return funcStampNulls16
	case 4:
		return funcStampNulls32
	case 8:
		return funcStampNulls64
	}
	return nil
}

// stampNulls writes null into every row of data flagged in nulls, through the
// native helper when it is loaded.
func stampNulls[T numeric](data []T, nulls []bool, null T) {
	n := len(data)
	if len(nulls) < n {
		n = len(nulls)
	}
	if n == 0 {
		return
	}
	if NativeHelpersAvailable() {
		width := unsafe.Sizeof(data[0])
		if fn := stampFunc(width); fn != nil {
			nativeStampNulls(fn, unsafe.Pointer(&data[0]), &nulls[0], n, bitPattern(null, width))
			return
		}
	}
	fallbackStampNulls(data[:n], nulls[:n], null)
}

func bitPattern[T numeric](v T, width uintptr) uint64 {
	p := unsafe.Pointer(&v)
	switch width {
	case 1:
		return uint64(*(*uint8)(p))
	case 2:
		return uint64(*(*uint16)(p))
	case 4:
		return uint64(*(*uint32)(p))
	}
	return *(*uint64)(p)
}
