package libgl

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Pointer returns the address of the first element of a slice, the value behind
// a pointer, an unsafe.Pointer or a raw uintptr offset. Empty slices and nil yield a nil pointer.
func Pointer(data any) unsafe.Pointer {
	if data == nil {
		return unsafe.Pointer(nil)
	}
	v := reflect.ValueOf(data)
	switch v.Type().Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return unsafe.Pointer(v.Elem().UnsafeAddr())
	case reflect.UnsafePointer:
		return data.(unsafe.Pointer)
	case reflect.Uintptr:
		return unsafe.Pointer(data.(uintptr))
	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}
		return unsafe.Pointer(v.Index(0).UnsafeAddr())
	}
	panic(fmt.Errorf("unsupported type %s; must be a slice, uintptr or pointer to a value", v.Type()))
}
