package kernel

import (
	"encoding/binary"
	"io"
)

// Mesh is a triangle mesh suitable for rendering or export.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which assembly part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Merge appends the triangles of o onto m, reindexing o's indices.
func (m *Mesh) Merge(o *Mesh) {
	offset := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, idx := range o.Indices {
		m.Indices = append(m.Indices, idx+offset)
	}
}

// WriteSTL writes the mesh to w in binary STL format: an 80-byte header, a
// uint32 triangle count, then 50 bytes per triangle.
func (m *Mesh) WriteSTL(w io.Writer) error {
	var header [80]byte
	copy(header[:], []byte("keel"))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return err
	}
	for t := 0; t < m.TriangleCount(); t++ {
		i0 := m.Indices[t*3]
		// All three vertices of a triangle share the face normal.
		if err := binary.Write(w, binary.LittleEndian, m.Normals[i0*3:i0*3+3]); err != nil {
			return err
		}
		for j := 0; j < 3; j++ {
			vi := m.Indices[t*3+j]
			if err := binary.Write(w, binary.LittleEndian, m.Vertices[vi*3:vi*3+3]); err != nil {
				return err
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return nil
}
