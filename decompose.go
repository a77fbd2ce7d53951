package vtrace

import "github.com/gogpu/vtrace/internal/bitmap"

// decompose scans the bitmap in raster order and peels off one closed
// contour per connected region, alternating signs for nested regions.
// Every discovered region is erased from the scratch bitmap by an XOR of
// its interior, which both guarantees termination and exposes holes as
// regions of the opposite color. Contours enclosing at most turdSize
// pixels are dropped.
func decompose(bm *bitmap.Bitmap, turdSize int, policy TurnPolicy) []*Path {
	work := bm.Clone()
	var paths []*Path

	x, y := 0, 0
	for {
		fx, fy, ok := work.FindNext(x, y)
		if !ok {
			break
		}
		p := findPath(work, bm, fx, fy, policy)
		xorPath(work, p)

		if p.Area > turdSize {
			paths = append(paths, p)
		}

		// Resume the scan just past the entry point.
		x, y = fx+1, fy
	}
	return paths
}

// findPath walks the boundary between black and white starting at the
// top-left edge of the pixel at (x, y), moving downward first. The walk
// turns left, right or continues straight depending on the two pixels
// ahead; at ambiguous checker configurations the turn policy decides.
// orig is the unmodified bitmap and determines the contour's sign, since
// the scratch bitmap has nested regions inverted.
func findPath(work, orig *bitmap.Bitmap, x, y int, policy TurnPolicy) *Path {
	p := &Path{
		Sign: SignOuter,
		MinX: x, MaxX: x,
		MinY: y, MaxY: y,
	}
	if !orig.Get(x, y) {
		p.Sign = SignHole
	}

	startX, startY := x, y
	dirx, diry := 0, 1

	for {
		p.Pt = append(p.Pt, IPoint{X: x, Y: y})
		if x > p.MaxX {
			p.MaxX = x
		}
		if x < p.MinX {
			p.MinX = x
		}
		if y > p.MaxY {
			p.MaxY = y
		}
		if y < p.MinY {
			p.MinY = y
		}

		x += dirx
		y += diry
		p.Area -= x * diry

		if x == startX && y == startY {
			break
		}

		l := work.Get(x+(dirx+diry-1)/2, y+(diry-dirx-1)/2)
		r := work.Get(x+(dirx-diry-1)/2, y+(diry+dirx-1)/2)

		switch {
		case r && !l:
			if turnRight(work, policy, p.Sign, x, y) {
				dirx, diry = -diry, dirx // right turn
			} else {
				dirx, diry = diry, -dirx // left turn
			}
		case r:
			dirx, diry = -diry, dirx
		case !l:
			dirx, diry = diry, -dirx
		}
	}
	return p
}

// turnRight resolves an ambiguous 2x2 configuration according to the
// turn policy.
func turnRight(work *bitmap.Bitmap, policy TurnPolicy, s Sign, x, y int) bool {
	switch policy {
	case TurnPolicyRight:
		return true
	case TurnPolicyBlack:
		return s == SignOuter
	case TurnPolicyWhite:
		return s == SignHole
	case TurnPolicyMajority:
		return majority(work, x, y)
	case TurnPolicyMinority:
		return !majority(work, x, y)
	default: // TurnPolicyLeft
		return false
	}
}

// majority votes over growing square neighborhoods of (x, y), radius 2
// to 4, and reports whether black wins the first decided radius.
func majority(bm *bitmap.Bitmap, x, y int) bool {
	for i := 2; i < 5; i++ {
		ct := 0
		for a := -i + 1; a < i; a++ {
			ct += vote(bm.Get(x+a, y+i-1))
			ct += vote(bm.Get(x+i-1, y+a-1))
			ct += vote(bm.Get(x+a-1, y-i))
			ct += vote(bm.Get(x-i, y+a))
		}
		if ct > 0 {
			return true
		}
		if ct < 0 {
			return false
		}
	}
	return false
}

func vote(black bool) int {
	if black {
		return 1
	}
	return -1
}

// xorPath inverts the interior of a freshly traced contour on the
// scratch bitmap. On every scanline where the contour changes row, the
// bits from the crossing point to the contour's right edge are flipped;
// flipping them once per crossing leaves exactly the interior inverted.
func xorPath(bm *bitmap.Bitmap, p *Path) {
	if p.Len() == 0 {
		return
	}
	y1 := p.Pt[0].Y
	for i := 1; i < p.Len(); i++ {
		x := p.Pt[i].X
		y := p.Pt[i].Y
		if y != y1 {
			minY := y1
			if y < minY {
				minY = y
			}
			bm.FlipRange(minY, x, p.MaxX)
			y1 = y
		}
	}
}
