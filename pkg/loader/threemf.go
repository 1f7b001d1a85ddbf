package loader

import (
	"errors"

	"github.com/hpinc/go3mf"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/mesh"
)

// object is one 3MF object mesh.
type object struct {
	vertices  []geom.Point
	triangles [][]int
}

func read3MF(path string, _ options) (Loaded, error) {
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return Loaded{}, err
	}
	defer r.Close()

	var m go3mf.Model
	if err := r.Decode(&m); err != nil {
		return Loaded{}, err
	}
	var objs []object
	for _, o := range m.Resources.Objects {
		if o.Mesh == nil {
			continue
		}
		var obj object
		for _, v := range o.Mesh.Vertices.Vertex {
			obj.vertices = append(obj.vertices, geom.Pt3(float64(v[0]), float64(v[1]), float64(v[2])))
		}
		for _, t := range o.Mesh.Triangles.Triangle {
			obj.triangles = append(obj.triangles, []int{int(t.V1), int(t.V2), int(t.V3)})
		}
		objs = append(objs, obj)
	}
	s, err := surfaceFromObjects(objs)
	return Loaded{Surface: s}, err
}

// surfaceFromObjects concatenates object meshes into one surface. Objects
// keep their own vertices; nothing is welded across objects.
func surfaceFromObjects(objs []object) (*mesh.Surface, error) {
	if len(objs) == 0 {
		return nil, errors.New("no object mesh")
	}
	var (
		pts   []geom.Point
		polys [][]int
	)
	for _, o := range objs {
		offset := len(pts)
		pts = append(pts, o.vertices...)
		for _, t := range o.triangles {
			poly := make([]int, len(t))
			for i, v := range t {
				poly[i] = v + offset
			}
			polys = append(polys, poly)
		}
	}
	return mesh.NewSurface(3, pts, polys)
}
