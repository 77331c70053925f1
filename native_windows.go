//go:build windows
// +build windows

package embedded

import (
	"errors"
	"syscall"
	"unsafe"
)

// Load a dynamic library on Windows systems
func loadDynamicLibrary(path string) (unsafe.Pointer, error) {
	handle, err := syscall.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(uintptr(handle)), nil
}

func closeLibrary(handle unsafe.Pointer) {
	if handle != nil {
		syscall.FreeLibrary(syscall.Handle(uintptr(handle)))
	}
}

func getSymbol(handle unsafe.Pointer, name string) (unsafe.Pointer, error) {
	if handle == nil {
		return nil, errors.New("invalid library handle")
	}

	proc, err := syscall.GetProcAddress(syscall.Handle(uintptr(handle)), name)
	if err != nil {
		return nil, err
	}

	return unsafe.Pointer(proc), nil
}

// nativeStampNulls calls embedded_stamp_nulls_N(data, mask, rows, pattern).
func nativeStampNulls(fn unsafe.Pointer, data unsafe.Pointer, mask *bool, rows int, pattern uint64) {
	syscall.SyscallN(uintptr(fn),
		uintptr(data),
		uintptr(unsafe.Pointer(mask)),
		uintptr(rows),
		uintptr(pattern))
}
