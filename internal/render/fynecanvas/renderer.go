// Package fynecanvas is the immediate-mode rendering backend: every
// Render call re-projects the full mesh and rebuilds the canvas
// object set from scratch. Simple and portable, but it re-uploads all
// geometry per frame, which is why the controller's redraw coalescing
// matters most for this backend.
package fynecanvas

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/precisesim/meshview/internal/render"
	"github.com/precisesim/meshview/pkg/mesh"
	"github.com/precisesim/meshview/pkg/viewer"
)

var (
	backgroundColor = color.RGBA{R: 15, G: 18, B: 25, A: 255}
	surfaceColor    = color.RGBA{R: 100, G: 120, B: 200, A: 255}
	edgeColor       = color.RGBA{R: 25, G: 25, B: 90, A: 255}
)

// Renderer is a fyne widget implementing the render.Adapter capability
// set. It owns no GPU resources: the scene is a raster image plus line
// segments recreated on every draw.
type Renderer struct {
	widget.BaseWidget

	mesh    *mesh.Mesh
	view    viewer.ViewState
	width   float64
	height  float64
	img     *canvas.Image
	lines   []*canvas.Line
	handler render.EventHandler

	dragStart *fyne.Position
}

// New creates the immediate-mode renderer widget. Input events are
// forwarded to the handler.
func New(handler render.EventHandler) *Renderer {
	r := &Renderer{
		handler: handler,
		width:   800,
		height:  600,
	}
	r.ExtendBaseWidget(r)
	return r
}

// Load replaces the displayed mesh
func (r *Renderer) Load(m *mesh.Mesh) error {
	r.mesh = m
	return nil
}

// Render rebuilds the full canvas object set for the view snapshot
func (r *Renderer) Render(vs viewer.ViewState) error {
	r.view = vs
	r.rebuild()
	r.Refresh()
	return nil
}

// OnResize updates the drawable size used for projection
func (r *Renderer) OnResize(width, height int) {
	if width > 0 && height > 0 {
		r.width = float64(width)
		r.height = float64(height)
	}
}

// Teardown releases nothing: this backend holds no native resources
func (r *Renderer) Teardown() {
	r.mesh = nil
	r.lines = nil
	r.img = nil
}

// rebuild recomputes the raster and line set from the current mesh
// and view
func (r *Renderer) rebuild() {
	r.lines = r.lines[:0]
	r.img = nil
	if r.mesh == nil {
		return
	}

	cam := viewer.CameraFor(r.view)

	if r.view.Mode == viewer.ModeSolid || r.view.Mode == viewer.ModeSolidEdges {
		r.img = r.rasterize(cam)
	}
	if r.view.Mode == viewer.ModeWireframe || r.view.Mode == viewer.ModeSolidEdges {
		r.buildLines(cam)
	}
}

// rasterize draws depth-tested filled triangles into an RGBA image
func (r *Renderer) rasterize(cam viewer.Camera) *canvas.Image {
	w, h := int(r.width), int(r.height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	zbuffer := make([]float64, w*h)
	for i := range zbuffer {
		zbuffer[i] = math.MaxFloat64
	}

	lightDir := cam.Target.Sub(cam.Position).Normalize()

	for i := 0; i < r.mesh.TriangleCount(); i++ {
		tri := r.mesh.Triangle(i)

		x1, y1, z1 := cam.Project(tri.V1, r.width, r.height)
		x2, y2, z2 := cam.Project(tri.V2, r.width, r.height)
		x3, y3, z3 := cam.Project(tri.V3, r.width, r.height)

		// Diffuse shade from the face normal, 30% ambient floor
		normal := r.mesh.FaceNormal(i)
		intensity := math.Max(0.3, math.Abs(normal.Dot(lightDir)))
		col := color.RGBA{
			R: uint8(float64(surfaceColor.R) * intensity),
			G: uint8(float64(surfaceColor.G) * intensity),
			B: uint8(float64(surfaceColor.B) * intensity),
			A: 255,
		}

		fillTriangleWithDepth(img, zbuffer, x1, y1, z1, x2, y2, z2, x3, y3, z3, col)
	}

	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillStretch
	ci.Resize(fyne.NewSize(float32(r.width), float32(r.height)))
	return ci
}

// buildLines projects the unique mesh edges into canvas line segments
func (r *Renderer) buildLines(cam viewer.Camera) {
	lineColor := edgeColor
	if r.view.Mode == viewer.ModeWireframe {
		lineColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}

	for _, edge := range r.mesh.EdgeSegments() {
		x1, y1, _ := cam.Project(r.mesh.Vertex(edge.A), r.width, r.height)
		x2, y2, _ := cam.Project(r.mesh.Vertex(edge.B), r.width, r.height)

		line := canvas.NewLine(lineColor)
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(float32(x1), float32(y1))
		line.Position2 = fyne.NewPos(float32(x2), float32(y2))
		r.lines = append(r.lines, line)
	}
}

// Dragged converts pointer drags into orbit (or pan, for secondary
// button semantics the shell decides) events.
func (r *Renderer) Dragged(event *fyne.DragEvent) {
	if r.handler == nil {
		return
	}
	if r.dragStart != nil {
		r.handler(render.Event{
			Kind: render.EventDrag,
			DX:   float64(event.Position.X - r.dragStart.X),
			DY:   float64(event.Position.Y - r.dragStart.Y),
		})
	}
	pos := event.Position
	r.dragStart = &pos
}

// DragEnd resets drag tracking
func (r *Renderer) DragEnd() {
	r.dragStart = nil
}

// Scrolled converts wheel movement into zoom events
func (r *Renderer) Scrolled(event *fyne.ScrollEvent) {
	if r.handler == nil {
		return
	}
	r.handler(render.Event{
		Kind: render.EventScroll,
		DY:   float64(event.Scrolled.DY) * 0.01,
	})
}

// CreateRenderer implements fyne.Widget
func (r *Renderer) CreateRenderer() fyne.WidgetRenderer {
	return &widgetRenderer{owner: r}
}

// widgetRenderer implements fyne.WidgetRenderer over the rebuilt
// object set
type widgetRenderer struct {
	owner   *Renderer
	objects []fyne.CanvasObject
}

func (w *widgetRenderer) Layout(size fyne.Size) {
	w.owner.OnResize(int(size.Width), int(size.Height))
}

func (w *widgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (w *widgetRenderer) Refresh() {
	w.objects = w.objects[:0]

	bg := canvas.NewRectangle(backgroundColor)
	bg.Resize(fyne.NewSize(float32(w.owner.width), float32(w.owner.height)))
	w.objects = append(w.objects, bg)

	if w.owner.img != nil {
		w.objects = append(w.objects, w.owner.img)
	}
	for _, line := range w.owner.lines {
		w.objects = append(w.objects, line)
	}

	canvas.Refresh(w.owner)
}

func (w *widgetRenderer) Objects() []fyne.CanvasObject {
	return w.objects
}

func (w *widgetRenderer) Destroy() {}
