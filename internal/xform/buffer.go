package xform

import v2 "github.com/deadsy/sdfx/vec/v2"

// Buffer layout: each transform is one row of TexelsPerRow RGBA texels.
//
//	texel 0: typeId, weight, pos.x, pos.y
//	texel 1: param0..3
//	texel 2: color.r, color.g, color.b, 0
//	texel 3: setWeight0..3
//	texel 4: setWeight4, 0, 0, 0
const (
	TexelsPerRow = 5
	Channels     = 4
	RowStride    = TexelsPerRow * Channels
)

// Buffer is the encoded transform list. Height is max(1, Count): an empty list still owns one zero row so that
// the sampled buffer is never empty; Count tells the shader how many rows are real.
type Buffer struct {
	Data   []float32
	Height int
	Count  int
}

// Encode rebuilds the whole buffer from the list. There is no incremental patching: transform counts are in the
// tens, so a full rebuild per change costs less than tracking row-level edits.
func Encode(list []Transform) Buffer {
	height := len(list)
	if height < 1 {
		height = 1
	}
	b := Buffer{
		Data:   make([]float32, height*RowStride),
		Height: height,
		Count:  len(list),
	}
	for i := range list {
		encodeRow(b.Data[i*RowStride:(i+1)*RowStride], &list[i])
	}
	return b
}

func encodeRow(row []float32, t *Transform) {
	row[0] = float32(t.Type.ID())
	row[1] = float32(t.Weight)
	row[2] = float32(t.Pos.X)
	row[3] = float32(t.Pos.Y)
	for j := 0; j < 4; j++ {
		row[4+j] = float32(t.Params[j])
	}
	row[8] = float32(t.Color[0])
	row[9] = float32(t.Color[1])
	row[10] = float32(t.Color[2])
	row[11] = 0
	for j := 0; j < 4; j++ {
		row[12+j] = float32(t.SetWeights[j])
	}
	row[16] = float32(t.SetWeights[4])
	row[17], row[18], row[19] = 0, 0, 0
}

// Texel returns the four channels of texel x in row y.
func (b Buffer) Texel(y, x int) [Channels]float32 {
	var out [Channels]float32
	copy(out[:], b.Data[y*RowStride+x*Channels:])
	return out
}

// Row decodes row i back into a transform (without its ID).
func (b Buffer) Row(i int) Transform {
	row := b.Data[i*RowStride : (i+1)*RowStride]
	t := Transform{
		Type:   Type(int(row[0])),
		Weight: float64(row[1]),
		Pos:    v2.Vec{X: float64(row[2]), Y: float64(row[3])},
	}
	for j := 0; j < 4; j++ {
		t.Params[j] = float64(row[4+j])
		t.SetWeights[j] = float64(row[12+j])
	}
	t.Color = [3]float64{float64(row[8]), float64(row[9]), float64(row[10])}
	t.SetWeights[4] = float64(row[16])
	return t
}

// Padded returns the data resized to exactly rows rows, zero filled, and the number of real rows it holds.
// Rows past the limit are dropped.
func (b Buffer) Padded(rows int) ([]float32, int) {
	out := make([]float32, rows*RowStride)
	copy(out, b.Data)
	count := b.Count
	if count > rows {
		count = rows
	}
	return out, count
}
