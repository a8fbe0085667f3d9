/*
 * SN/X - 16-bit word arithmetic helpers.
 *
 * Copyright 2026, SN/X project contributors.
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package word implements the 16-bit word and 8-bit immediate arithmetic
// shared by every later stage of the SN/X toolchain.
package word

const (
	// Mask mask holds a value to 16 bits.
	Mask uint16 = 0xFFFF
	// SignBit is the sign bit of a 16-bit word.
	SignBit uint16 = 0x8000
	// Imm8Mask holds a value to 8 bits.
	Imm8Mask uint8 = 0xFF
	// Imm8SignBit is the sign bit of an 8-bit immediate.
	Imm8SignBit uint8 = 0x80
)

// Word truncates v to 16 bits.
func Word(v int) uint16 {
	return uint16(v) & Mask
}

// IsNegative16 reports whether w's sign bit is set.
func IsNegative16(w uint16) bool {
	return w&SignBit != 0
}

// Signed16 reinterprets w as a two's-complement signed 16-bit value.
func Signed16(w uint16) int16 {
	return int16(w)
}

// Imm8 truncates v to 8 bits.
func Imm8(v int) uint8 {
	return uint8(v) & Imm8Mask
}

// Signed8 reinterprets b as a two's-complement signed 8-bit value.
func Signed8(b uint8) int8 {
	return int8(b)
}

// NormalizeImm8 sign-extends an 8-bit immediate to a 16-bit word, the way
// a SN/X literal operand is widened before arithmetic.
func NormalizeImm8(b uint8) uint16 {
	return Word(int(Signed8(b)))
}
