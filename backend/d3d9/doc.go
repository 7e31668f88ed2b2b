// Package d3d9 implements gd.Device for Direct3D 9.
//
// Direct3D 9 render targets can never be locked, so every texture read and
// write goes through a system-memory offscreen surface. The native 32-bit
// format stores texels as B,G,R,A; RGBAu8 transfers swap red and blue on the
// way in and out. Buffer transfers are not supported.
package d3d9
