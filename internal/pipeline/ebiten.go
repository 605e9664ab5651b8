package pipeline

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenImage adapts an *ebiten.Image to Image.
type EbitenImage struct {
	Img *ebiten.Image
}

func (i EbitenImage) Size() (int, int) {
	b := i.Img.Bounds()
	return b.Dx(), b.Dy()
}

type ebitenProgram struct {
	name   string
	shader *ebiten.Shader
}

func (p *ebitenProgram) Name() string { return p.name }

// EbitenDevice draws with Kage shaders.
type EbitenDevice struct{}

func (EbitenDevice) CompileProgram(name string, src []byte) (Program, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, err
	}
	return &ebitenProgram{name: name, shader: s}, nil
}

func (EbitenDevice) NewImage(w, h int) Image {
	return EbitenImage{Img: ebiten.NewImageWithOptions(image.Rect(0, 0, w, h), &ebiten.NewImageOptions{Unmanaged: true})}
}

func (EbitenDevice) DrawRect(dst Image, p Program, uniforms map[string]any) {
	img := dst.(EbitenImage).Img
	b := img.Bounds()
	op := &ebiten.DrawRectShaderOptions{Uniforms: uniforms, Blend: ebiten.BlendCopy}
	img.DrawRectShader(b.Dx(), b.Dy(), p.(*ebitenProgram).shader, op)
}

// DrawQuad uses DrawTrianglesShader because DrawRectShader requires source and destination of the same size,
// and the offscreen target is sized by the pixel ratio while the screen is not.
func (EbitenDevice) DrawQuad(dst, src Image, p Program, uniforms map[string]any) {
	dstImg, srcImg := dst.(EbitenImage).Img, src.(EbitenImage).Img
	dw, dh := dst.Size()
	sw, sh := src.Size()
	vs := []ebiten.Vertex{
		quadVertex(0, 0, 0, 0),
		quadVertex(float32(dw), 0, float32(sw), 0),
		quadVertex(0, float32(dh), 0, float32(sh)),
		quadVertex(float32(dw), float32(dh), float32(sw), float32(sh)),
	}
	is := []uint16{0, 1, 2, 1, 3, 2}
	op := &ebiten.DrawTrianglesShaderOptions{Uniforms: uniforms, Blend: ebiten.BlendCopy}
	op.Images[0] = srcImg
	dstImg.DrawTrianglesShader(vs, is, p.(*ebitenProgram).shader, op)
}

func quadVertex(dx, dy, sx, sy float32) ebiten.Vertex {
	return ebiten.Vertex{DstX: dx, DstY: dy, SrcX: sx, SrcY: sy, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
}

func (EbitenDevice) ReleaseImage(img Image) {
	img.(EbitenImage).Img.Deallocate()
}

func (EbitenDevice) ReleaseProgram(p Program) {
	p.(*ebitenProgram).shader.Deallocate()
}
