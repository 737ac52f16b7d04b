package shape

import "fmt"

// Flattened legacy format: older documents store a polyline as a flat
// coordinate list with a parallel one-character type tag per point, 'L' for
// a line-anchored vertex and 'C' for a bezier control point. A run of
// consecutive 'C' points between two 'L' points becomes a single bezier edge
// carrying those control points. New documents never store this format, but
// exports still offer it for consumers that read the flat arrays.

// ImportFlattened rebuilds a path or polygon from the legacy flattened
// format. points holds one [x y] pair per tag character. Control points
// appearing before the first vertex have no source anchor and are discarded
// as malformed input (documented lossy). A trailing control run closes the
// cycle for polygons and is discarded for open paths.
func ImportFlattened(s *Session, points [][]float64, types string, closed bool) (Shape, error) {
	if len(points) != len(types) {
		return nil, fmt.Errorf("flattened import: %d points but %d type tags", len(points), len(types))
	}
	for i, pt := range points {
		if len(pt) < 2 {
			return nil, fmt.Errorf("flattened import: point %d has %d coordinates", i, len(pt))
		}
	}

	var anchors []*Vertex
	// pending collects the control run since the last anchor; runs maps an
	// anchor index to the control run arriving at it.
	var pending [][]float64
	runs := make(map[int][][]float64)

	for i, tag := range types {
		switch tag {
		case 'L':
			if len(anchors) > 0 && len(pending) > 0 {
				runs[len(anchors)] = pending
			}
			// A control run before the first vertex is dropped: there is no
			// source anchor for it.
			pending = nil
			anchors = append(anchors, NewVertex(s, points[i][0], points[i][1], RoleVertex))
		case 'C':
			pending = append(pending, points[i])
		default:
			return nil, fmt.Errorf("flattened import: unknown type tag %q at %d", string(tag), i)
		}
	}

	var body *Polyline
	var out Shape
	if closed {
		poly := NewPolygon(s)
		body = &poly.Polyline
		out = poly
	} else {
		path := NewPath(s)
		body = &path.Polyline
		out = path
	}
	body.vertices = anchors
	body.ended = true

	n := len(anchors)
	if n < 2 {
		// Pending controls with nowhere to land are dropped.
		return out, nil
	}

	edgeCount := n - 1
	if closed {
		edgeCount = n
		if len(pending) > 0 {
			// The trailing run curves the closing edge back to the start.
			runs[0] = pending
		}
	}
	for k := 0; k < edgeCount; k++ {
		src := anchors[k]
		dst := anchors[(k+1)%n]
		run, ok := runs[(k+1)%n]
		if !ok || len(run) != 2 {
			// No run, or a run that is not a cubic control pair, degrades to
			// a straight edge.
			body.edges = append(body.edges, NewEdge(s, src, dst, EdgeLine))
			continue
		}
		c1 := NewVertex(s, run[0][0], run[0][1], RoleControl)
		c2 := NewVertex(s, run[1][0], run[1][1], RoleControl)
		body.edges = append(body.edges, NewEdgeWithID(s, src, dst, EdgeBezier, s.NextID(), c1, c2))
	}
	return out, nil
}

// ExportFlattened writes a path or polygon back out in the flattened legacy
// format. Edges are realigned first so anchors appear in traversal order; a
// bezier edge contributes its two control points tagged 'C' after the anchor
// it leaves. For polygons the closing edge's controls land at the end of the
// arrays, which is where ImportFlattened expects them. Like Record, only
// committed geometry is exported.
func ExportFlattened(p *Polyline) (points [][]float64, types string) {
	p.AlignEdges()
	vs, es := p.committedGeometry()
	if len(vs) == 0 {
		return nil, ""
	}

	var tags []byte
	emit := func(x, y float64, tag byte) {
		points = append(points, []float64{x, y})
		tags = append(tags, tag)
	}

	for i, v := range vs {
		emit(v.X, v.Y, 'L')
		if i < len(es) {
			e := es[i]
			if e.Kind() == EdgeBezier {
				for _, c := range e.ControlPoints() {
					emit(c.X, c.Y, 'C')
				}
			}
		}
	}
	return points, string(tags)
}
