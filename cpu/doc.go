// Package cpu implements the processor, loader and assembler for the LS-8
// system.
//
// The CPU consists of a program counter (PC), 256 bytes of flat memory, eight
// 8-bit general-purpose registers (r0-r7, with r7 holding the stack pointer),
// an ALU, a downward growing stack at the top of memory, and a flags register
// recording the result of the last comparison.
//
// Programs reach the CPU either as a text image of binary literals (Load) or
// as assembly source (Assembler), both of which produce a Program listing.
package cpu
