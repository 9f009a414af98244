package epa

import "github.com/go-gl/mathgl/mgl64"

// nilFace marks an empty list slot or a failed allocation.
const nilFace = -1

// face is one oriented triangle of the expanding polytope. Vertices and
// neighbors are stable indices into the engine's arenas, never pointers, so
// recycling a slot can't leave anything dangling.
//
// Adjacency bookkeeping: edge i of a face runs from vertex i to vertex
// (i+1)%3 and is shared with face adj[i] at that face's edge edge[i]. While
// the hull is healthy every edge is shared by exactly two faces, so the live
// faces form a closed surface around the origin.
type face struct {
	normal mgl64.Vec3 // outward unit normal
	dist   float64    // signed distance from origin to the face plane

	verts [3]int // vertex arena indices
	adj   [3]int // neighbor face indices, one per edge
	edge  [3]int // matching edge index on each neighbor

	prev, next int // intrusive links for the hull/stock lists
	pass       int // tag marking faces visited during one expansion
}

// faceList is a doubly linked list threaded through the face arena by index.
// A face is at all times on exactly one of the two lists (hull or stock);
// moving it is a constant-time splice.
type faceList struct {
	root  int
	count int
}

func (l *faceList) push(faces []face, i int) {
	faces[i].prev = nilFace
	faces[i].next = l.root
	if l.root != nilFace {
		faces[l.root].prev = i
	}
	l.root = i
	l.count++
}

func (l *faceList) remove(faces []face, i int) {
	if faces[i].next != nilFace {
		faces[faces[i].next].prev = faces[i].prev
	}
	if faces[i].prev != nilFace {
		faces[faces[i].prev].next = faces[i].next
	}
	if l.root == i {
		l.root = faces[i].next
	}
	l.count--
}

// bind stitches two faces together along a shared edge, recording on each
// side which edge of the other it matches.
func (e *EPA) bind(fa, ea, fb, eb int) {
	e.faces[fa].edge[ea] = eb
	e.faces[fa].adj[ea] = fb
	e.faces[fb].edge[eb] = ea
	e.faces[fb].adj[eb] = fa
}

// horizon tracks the open fan of new faces built while walking the boundary
// of the region visible from a new support point. cf/ff are the current and
// first fan faces; once the walk closes, binding cf to ff seals the hull.
type horizon struct {
	cf, ff int
	nf     int
}
