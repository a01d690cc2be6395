// Package scene defines the floorplan elements of one frame: walls, beams,
// columns, openings and rooms. Elements implement the accessor interfaces
// of package extract. A Scene is produced once per DSL evaluation and is
// never mutated afterwards.
package scene
