package utils

// IsPowerOfTwo checks if a number is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo returns the smallest power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	if IsPowerOfTwo(n) {
		return n
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// WordsToBytes serializes 32-bit words as little-endian bytes.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[i*4] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}

// BytesToWords parses little-endian bytes into 32-bit words. The input
// length must be a multiple of the word size.
func BytesToWords(data []byte) ([]uint32, bool) {
	if len(data)%4 != 0 {
		return nil, false
	}
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = uint32(data[i*4]) | uint32(data[i*4+1])<<8 |
			uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
	}
	return out, true
}
