package insts

// SignExtend interprets the low width bits of value as a two's complement
// number and returns it as an int32. Bits above width are ignored.
// Width must be in the range 1..32.
func SignExtend(value uint32, width uint) int32 {
	v := uint64(value) & (uint64(1)<<width - 1)
	if v&(uint64(1)<<(width-1)) != 0 {
		return int32(int64(v) - int64(1)<<width)
	}
	return int32(v)
}
