package dsp

// ColorIndexInverseTransform maps palette indices back to pixels. Each
// source pixel carries its index in the green channel byte; the output
// pixel is the corresponding palette entry. Out-of-range indices fall
// back to entry 0.
func ColorIndexInverseTransform(palette []uint32, src []uint32, numPixels int, dst []uint32) {
	if len(palette) == 0 {
		return
	}
	for i := 0; i < numPixels; i++ {
		idx := int(src[i] & 0xff)
		if idx >= len(palette) {
			idx = 0
		}
		dst[i] = palette[idx]
	}
}

// BundleColorMap packs a row of palette indices into ARGB pixels.
//
// xbits controls the packing density:
//   - xbits=0: 8-bit indices, 1 index per pixel
//   - xbits=1: 4-bit indices, 2 indices per pixel
//   - xbits=2: 2-bit indices, 4 indices per pixel
//   - xbits=3: 1-bit indices, 8 indices per pixel
//
// Each output pixel has alpha 0xff and the indices packed starting at
// the green channel byte.
func BundleColorMap(row []uint8, width int, xbits int, dst []uint32) {
	if xbits == 0 {
		for x := 0; x < width; x++ {
			dst[x] = 0xff000000 | uint32(row[x])<<8
		}
		return
	}
	bitDepth := uint(1) << (3 - uint(xbits))
	mask := (1 << uint(xbits)) - 1
	var code uint32
	for x := 0; x < width; x++ {
		xsub := x & mask
		if xsub == 0 {
			code = 0xff000000
		}
		code |= uint32(row[x]) << (8 + bitDepth*uint(xsub))
		dst[x>>uint(xbits)] = code
	}
}
