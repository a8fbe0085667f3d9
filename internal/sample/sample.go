/*
 * SN/X - Bundled sample program.
 *
 * Copyright 2026, SN/X project contributors.
 */

// Package sample bundles a small SN/X source program for demos and
// smoke tests; cmd/snxc runs it when no --source file is given.
package sample

// Fib3 computes fib(3) recursively via BAL/indirect-BAL call and
// return, $3 as a software stack pointer, result left in $1. Stack
// offsets are written as signed 8-bit literals (-2, -1), not their
// two's-complement byte forms (254, 255) — the lexer's NUMBER token
// takes an optional leading sign, and an Address operand's offset is
// always parsed and stored as a signed 8-bit value.
//
// FOO's base case (n < 2) falls through into the "LDA $1, 1($0)"
// line before reaching the shared epilogue at FOO1, so both n=0 and
// n=1 return 1; the recursive case reaches the same epilogue by
// jumping straight to FOO1, skipping that line. That base value of 1
// (rather than returning n unchanged) is what makes the call below
// resolve to fib(3) = 3.
const Fib3 = `MAIN:
    LDA $3, 64($0)
    LDA $1, 3($0)
    BAL $2, FOO
    HLT
FOO:
    LDA $3, -2($3)
    ST  $2, 0($3)
    ST  $1, 1($3)
    LDA $0, 2($0)
    SLT $0, $1, $0
    BZ  $0, FOO2
    LDA $1, 1($0)
FOO1:
    LD  $2, 0($3)
    LDA $3, 2($3)
    BAL $2, 0($2)
FOO2:
    LDA $1, -1($1)
    BAL $2, FOO
    LDA $3, -1($3)
    ST  $1, 0($3)
    LD  $1, 2($3)
    LDA $1, -2($1)
    BAL $2, FOO
    LD  $2, 0($3)
    LDA $3, 1($3)
    ADD $1, $1, $2
    BAL $0, FOO1
`
