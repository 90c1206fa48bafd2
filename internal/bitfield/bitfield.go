// Package bitfield converts boolean selections (weekdays, months) to and from
// the integer masks used by the monitoring API.
package bitfield

// Encode packs a selection into an integer. Bit i is set iff sel[i] is true.
func Encode(sel []bool) int {
	bits := 0
	for i, on := range sel {
		if on {
			bits |= 1 << i
		}
	}
	return bits
}

// Decode unpacks the low n bits of bits into a selection of length n.
// Bits above n are ignored.
func Decode(bits, n int) []bool {
	if n <= 0 {
		return nil
	}
	sel := make([]bool, n)
	for i := range sel {
		sel[i] = bits&(1<<i) != 0
	}
	return sel
}

// Count returns how many entries of sel are true.
func Count(sel []bool) int {
	n := 0
	for _, on := range sel {
		if on {
			n++
		}
	}
	return n
}
