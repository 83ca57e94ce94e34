package model

import (
	"encoding/binary"
	"math"
)

// Data is one record offered to the filters: an identifier plus the features
// the scoring model reads. Filters never retain it.
type Data struct {
	ID            uint32
	FloatFeatures []float32
	CatFeatures   []string
}

// IDBytes returns the 4-byte little-endian encoding of the identifier.
func (d *Data) IDBytes() []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, 4), d.ID)
}

// Bytes returns a deterministic encoding of the whole record:
//
//	id u32 | nFloat u32 | float32 bits... | nCat u32 | (len u32 | bytes)...
//
// All integers are little-endian.
func (d *Data) Bytes() []byte {
	n := 12 + 4*len(d.FloatFeatures)
	for _, c := range d.CatFeatures {
		n += 4 + len(c)
	}

	buf := make([]byte, 0, n)
	buf = binary.LittleEndian.AppendUint32(buf, d.ID)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(d.FloatFeatures)))
	for _, f := range d.FloatFeatures {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(d.CatFeatures)))
	for _, c := range d.CatFeatures {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c)))
		buf = append(buf, c...)
	}
	return buf
}
