package util

// Align rounds addr up to the next multiple of alignment, which must be a power of two.
func Align(addr int, alignment int) int {
	return (addr + alignment - 1) &^ (alignment - 1)
}
