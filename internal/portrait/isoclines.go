package portrait

import "phaseplane/internal/grid"

// Point is a position in the population plane.
type Point struct {
	X, Y float64
}

// Segment is one linear piece of an extracted contour.
type Segment struct {
	A, B Point
}

// ZeroContour extracts the zero level set of one field component over the
// grid by marching squares: each cell whose corner values change sign
// contributes segments with endpoints placed by linear interpolation along
// the crossing edges.
func ZeroContour(g *grid.Grid, values [][]float64) []Segment {
	var segs []Segment

	for r := 0; r+1 < g.Rows(); r++ {
		for c := 0; c+1 < g.Cols(); c++ {
			// Corner values, counter-clockwise from bottom-left.
			v00 := values[r][c]
			v10 := values[r][c+1]
			v11 := values[r+1][c+1]
			v01 := values[r+1][c]

			x0, x1 := g.Xs[c], g.Xs[c+1]
			y0, y1 := g.Ys[r], g.Ys[r+1]

			idx := 0
			if v00 >= 0 {
				idx |= 1
			}
			if v10 >= 0 {
				idx |= 2
			}
			if v11 >= 0 {
				idx |= 4
			}
			if v01 >= 0 {
				idx |= 8
			}
			if idx == 0 || idx == 15 {
				continue
			}

			// Crossing points on the four edges.
			bottom := Point{lerp(x0, x1, v00, v10), y0}
			right := Point{x1, lerp(y0, y1, v10, v11)}
			top := Point{lerp(x0, x1, v01, v11), y1}
			left := Point{x0, lerp(y0, y1, v00, v01)}

			switch idx {
			case 1, 14:
				segs = append(segs, Segment{left, bottom})
			case 2, 13:
				segs = append(segs, Segment{bottom, right})
			case 4, 11:
				segs = append(segs, Segment{right, top})
			case 8, 7:
				segs = append(segs, Segment{top, left})
			case 3, 12:
				segs = append(segs, Segment{left, right})
			case 6, 9:
				segs = append(segs, Segment{bottom, top})
			case 5, 10:
				// Ambiguous saddle: split on the cell-centre sign.
				centre := (v00 + v10 + v11 + v01) / 4
				if (idx == 5) == (centre >= 0) {
					segs = append(segs, Segment{left, bottom}, Segment{right, top})
				} else {
					segs = append(segs, Segment{left, top}, Segment{right, bottom})
				}
			}
		}
	}

	return segs
}

// lerp places the zero crossing between two samples by linear
// interpolation; degenerate (equal) values fall back to the midpoint.
func lerp(p0, p1, v0, v1 float64) float64 {
	if v0 == v1 {
		return (p0 + p1) / 2
	}
	t := -v0 / (v1 - v0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return p0 + t*(p1-p0)
}
