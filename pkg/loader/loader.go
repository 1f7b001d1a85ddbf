// Package loader reads meshes and models from files. The format is chosen
// from the file extension:
//
//	.yaml .yml .json   native documents (any mesh or model kind)
//	.geojson           2D point sets, curves or polygonal surfaces
//	.dxf               polylines as one edged curve
//	.3mf               object meshes as one triangulated surface
//	.zy                model scripts
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/inspect"
	"github.com/chazu/strata/pkg/mesh"
	"github.com/chazu/strata/pkg/model"
)

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("loader: unsupported format")

// Loaded holds exactly one loaded mesh or model.
type Loaded struct {
	PointSet *mesh.PointSet
	Curve    *mesh.EdgedCurve
	Surface  *mesh.Surface
	Solid    *mesh.Solid
	Section  *model.Section
	BRep     *model.BRep
}

// Target returns the loaded value, ready for inspect.Inspect.
func (l Loaded) Target() any {
	switch {
	case l.PointSet != nil:
		return l.PointSet
	case l.Curve != nil:
		return l.Curve
	case l.Surface != nil:
		return l.Surface
	case l.Solid != nil:
		return l.Solid
	case l.Section != nil:
		return l.Section
	case l.BRep != nil:
		return l.BRep
	}
	return nil
}

// Kind returns the inspection kind of the loaded value, or "" when empty.
func (l Loaded) Kind() inspect.Kind {
	k, _ := inspect.KindOf(l.Target())
	return k
}

// fromModel wraps a model in its Section or BRep view.
func fromModel(m *model.Model) (Loaded, error) {
	switch m.Dimension() {
	case 2:
		return Loaded{Section: &model.Section{Model: m}}, nil
	case 3:
		return Loaded{BRep: &model.BRep{Model: m}}, nil
	}
	return Loaded{}, fmt.Errorf("model %q has dimension %d", m.Name(), m.Dimension())
}

type options struct {
	eps    float64
	logger *zap.Logger
}

// Option configures Load.
type Option func(*options)

// WithTolerance sets the distance used to weld model vertices into unique
// vertices when a file does not link them explicitly. Non-positive values
// keep geom.DefaultEpsilon.
func WithTolerance(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.eps = eps
		}
	}
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

type reader func(path string, o options) (Loaded, error)

var readers = map[string]reader{
	".yaml":    readNative,
	".yml":     readNative,
	".json":    readNative,
	".geojson": readGeoJSON,
	".dxf":     readDXF,
	".3mf":     read3MF,
	".zy":      readScript,
}

// Extensions lists the supported file extensions.
func Extensions() []string {
	return []string{".yaml", ".yml", ".json", ".geojson", ".dxf", ".3mf", ".zy"}
}

// Load reads the file at path.
func Load(path string, opts ...Option) (Loaded, error) {
	o := options{eps: geom.DefaultEpsilon, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := readers[ext]
	if !ok {
		return Loaded{}, fmt.Errorf("%w %q (%s)", ErrUnsupportedFormat, ext, path)
	}
	if _, err := os.Stat(path); err != nil {
		return Loaded{}, fmt.Errorf("loader: %w", err)
	}
	l, err := read(path, o)
	if err != nil {
		return Loaded{}, fmt.Errorf("loader: %s: %w", path, err)
	}
	o.logger.Info("file loaded",
		zap.String("file", path),
		zap.String("format", strings.TrimPrefix(ext, ".")),
		zap.String("kind", string(l.Kind())))
	return l, nil
}

// welder merges exactly coincident positions into one vertex.
type welder struct {
	index  map[geom.Point]int
	points []geom.Point
}

func newWelder() *welder {
	return &welder{index: make(map[geom.Point]int)}
}

func (w *welder) add(p geom.Point) int {
	if v, ok := w.index[p]; ok {
		return v
	}
	v := len(w.points)
	w.index[p] = v
	w.points = append(w.points, p)
	return v
}
