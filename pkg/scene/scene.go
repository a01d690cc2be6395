package scene

import (
	"fmt"

	"github.com/chazu/floorsnap/pkg/extract"
)

// Scene is the flat element list of one frame, in insertion order, with a
// tag index.
type Scene struct {
	elements  []Element
	NameIndex map[string]int
	// Dragged is the tag of the element being moved, empty when none.
	Dragged string
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{NameIndex: make(map[string]int)}
}

// Add appends an element. It does not check for duplicate tags; a later
// element shadows an earlier one in the index.
func (s *Scene) Add(e Element) {
	s.elements = append(s.elements, e)
	if e.Tag() != "" {
		s.NameIndex[e.Tag()] = len(s.elements) - 1
	}
}

// Lookup returns the element with the given tag, or nil.
func (s *Scene) Lookup(tag string) Element {
	i, ok := s.NameIndex[tag]
	if !ok {
		return nil
	}
	return s.elements[i]
}

// Len returns the number of elements.
func (s *Scene) Len() int {
	return len(s.elements)
}

// Rooms returns the room elements.
func (s *Scene) Rooms() []*Room {
	var rooms []*Room
	for _, e := range s.elements {
		if r, ok := e.(*Room); ok {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// Elements returns every element except the one tagged exclude, grouped
// for extraction. Only the first remaining room is kept.
func (s *Scene) Elements(exclude string) extract.Elements {
	var out extract.Elements
	for _, e := range s.elements {
		if exclude != "" && e.Tag() == exclude {
			continue
		}
		if _, ok := e.(*Room); ok && out.Room != nil {
			continue
		}
		group(&out, e)
	}
	return out
}

// Partition splits the scene into the dragged element and the rest. The
// client room is the one containing the dragged element's anchor.
func (s *Scene) Partition(master string) (masters, clients extract.Elements, err error) {
	m := s.Lookup(master)
	if m == nil {
		return masters, clients, fmt.Errorf("scene: no element tagged %q", master)
	}
	group(&masters, m)

	clients = s.Elements(master)
	clients.Room = nil
	anchor := m.Anchor()
	for _, r := range s.Rooms() {
		if r.Tag() != master && r.Contains(anchor) {
			clients.Room = r
			break
		}
	}
	return masters, clients, nil
}

func group(out *extract.Elements, e Element) {
	switch e := e.(type) {
	case *Wall:
		out.Walls = append(out.Walls, e)
	case *Beam:
		out.Beams = append(out.Beams, e)
	case *Column:
		out.Structures = append(out.Structures, e)
	case *RoundColumn:
		out.Structures = append(out.Structures, e)
	case *Hole:
		out.Holes = append(out.Holes, e)
	case *Room:
		out.Room = e
	}
}
