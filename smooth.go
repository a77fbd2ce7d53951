package vtrace

// reverse flips the vertex order of the fitted curve in place. Hole
// contours are traced on the scratch bitmap, where the hole reads as
// foreground, so they come out with the same orientation as outer
// contours; reversing them makes holes wind opposite to outer curves.
func (c *Curve) reverse() {
	for i, j := 0, c.N-1; i < j; i, j = i+1, j-1 {
		c.Vertex[i], c.Vertex[j] = c.Vertex[j], c.Vertex[i]
	}
}

// smooth classifies every polygon vertex as a corner or a smooth curve
// point and derives the Bezier control points. The smoothing parameter
// alpha grows with the area of the vertex triangle relative to its base
// (how sharply the middle vertex juts out); at or above alphaMax the
// vertex stays a corner.
func (c *Curve) smooth(alphaMax float64) {
	m := c.N

	for i := 0; i < m; i++ {
		j := mod(i+1, m)
		k := mod(i+2, m)
		p4 := c.Vertex[k].Interpolate(c.Vertex[j], 0.5)

		var alpha float64
		denom := ddenom(c.Vertex[i], c.Vertex[k])
		if denom != 0 {
			dd := dpara(c.Vertex[i], c.Vertex[j], c.Vertex[k]) / denom
			if dd < 0 {
				dd = -dd
			}
			if dd > 1 {
				alpha = 1 - 1/dd
			}
			alpha = alpha / 0.75
		} else {
			alpha = 4.0 / 3.0
		}
		c.Alpha0[j] = alpha

		if alpha >= alphaMax {
			c.Tag[j] = TagCorner
			c.C[3*j+1] = c.Vertex[j]
			c.C[3*j+2] = p4
		} else {
			if alpha < 0.55 {
				alpha = 0.55
			} else if alpha > 1 {
				alpha = 1
			}
			c.Tag[j] = TagCurve
			c.C[3*j+0] = c.Vertex[i].Interpolate(c.Vertex[j], 0.5+0.5*alpha)
			c.C[3*j+1] = c.Vertex[k].Interpolate(c.Vertex[j], 0.5+0.5*alpha)
			c.C[3*j+2] = p4
		}
		c.Alpha[j] = alpha
		c.Beta[j] = 0.5
	}
}
