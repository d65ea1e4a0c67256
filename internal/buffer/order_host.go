package buffer

import "unsafe"

// hostOrder is resolved once at init by reading the in-memory byte layout
// of a known uint16 through an unsafe pointer.
var hostOrder = func() ByteOrder {
	var probe uint16 = 0x0001
	b := (*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 0x01 {
		return Little
	}
	return Big
}()
