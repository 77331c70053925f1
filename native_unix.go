//go:build !windows
// +build !windows

package embedded

import (
	"errors"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Load a dynamic library on Unix systems using purego
func loadDynamicLibrary(path string) (unsafe.Pointer, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(handle), nil
}

func closeLibrary(handle unsafe.Pointer) {
	if handle != nil {
		purego.Dlclose(uintptr(handle))
	}
}

func getSymbol(handle unsafe.Pointer, name string) (unsafe.Pointer, error) {
	if handle == nil {
		return nil, errors.New("invalid library handle")
	}

	sym, err := purego.Dlsym(uintptr(handle), name)
	if err != nil {
		return nil, err
	}

	return unsafe.Pointer(sym), nil
}

// nativeStampNulls calls embedded_stamp_nulls_N(data, mask, rows, pattern).
func nativeStampNulls(fn unsafe.Pointer, data unsafe.Pointer, mask *bool, rows int, pattern uint64) {
	purego.SyscallN(uintptr(fn),
		uintptr(data),
		uintptr(unsafe.Pointer(mask)),
		uintptr(rows),
		uintptr(pattern))
}
