package fynecanvas

import (
	"image"
	"image/color"
	"math"
)

// fillTriangleWithDepth fills a projected triangle into the image
// using a scanline sweep with per-pixel depth testing against zbuffer.
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, x1, y1, z1, x2, y2, z2, x3, y3, z3 float64, col color.RGBA) {
	vertices := [3][3]float64{
		{x1, y1, z1},
		{x2, y2, z2},
		{x3, y3, z3},
	}

	// Sort vertices top to bottom
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}
	if vertices[1][1] > vertices[2][1] {
		vertices[1], vertices[2] = vertices[2], vertices[1]
	}
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}

	x1, y1, z1 = vertices[0][0], vertices[0][1], vertices[0][2]
	x2, y2, z2 = vertices[1][0], vertices[1][1], vertices[1][2]
	x3, y3, z3 = vertices[2][0], vertices[2][1], vertices[2][2]

	bounds := img.Bounds()
	width := bounds.Max.X

	yStart := int(math.Max(0, y1))
	yEnd := int(math.Min(float64(bounds.Max.Y-1), y3))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		var xs [2]float64
		var zs [2]float64
		found := 0

		// Intersect the scanline with each edge
		edges := [3][6]float64{
			{x1, y1, z1, x2, y2, z2},
			{x2, y2, z2, x3, y3, z3},
			{x1, y1, z1, x3, y3, z3},
		}
		for _, e := range edges {
			ex1, ey1, ez1, ex2, ey2, ez2 := e[0], e[1], e[2], e[3], e[4], e[5]
			if ey1 == ey2 || fy < math.Min(ey1, ey2) || fy > math.Max(ey1, ey2) {
				continue
			}
			if found >= 2 {
				break
			}
			t := (fy - ey1) / (ey2 - ey1)
			xs[found] = ex1 + t*(ex2-ex1)
			zs[found] = ez1 + t*(ez2-ez1)
			found++
		}
		if found < 2 {
			continue
		}

		if xs[0] > xs[1] {
			xs[0], xs[1] = xs[1], xs[0]
			zs[0], zs[1] = zs[1], zs[0]
		}

		xStart := int(math.Max(0, xs[0]))
		xEnd := int(math.Min(float64(bounds.Max.X-1), xs[1]))

		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if xs[1] != xs[0] {
				t = (float64(x) - xs[0]) / (xs[1] - xs[0])
			}
			z := zs[0] + t*(zs[1]-zs[0])

			idx := y*width + x
			if idx >= 0 && idx < len(zbuffer) && z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}
