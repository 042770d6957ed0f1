package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spaghettifunk/meshport/exporter/core"
	"github.com/spaghettifunk/meshport/exporter/document"
	"github.com/spaghettifunk/meshport/exporter/geometry"
	"github.com/spaghettifunk/meshport/exporter/prefs"
)

// Config drives a single exporter instance.
type Config struct {
	Prefs *prefs.Preferences
	// ASCII selects the text STL flavor; binary is the default.
	ASCII bool
}

// Report summarizes one completed export.
type Report struct {
	Path      string
	Objects   uint32
	Vertices  uint32
	Triangles uint32
	Elapsed   time.Duration
}

type Exporter struct {
	config *Config
}

func New(config *Config) (*Exporter, error) {
	if config == nil {
		return nil, fmt.Errorf("exporter config must not be nil")
	}
	if config.Prefs == nil {
		config.Prefs = prefs.Defaults()
	}
	return &Exporter{
		config: config,
	}, nil
}

// Export runs the whole pipeline on an open document: resolve the
// visible set, tessellate and merge, write the STL file, then run the
// post-export command. Nothing is written unless every earlier stage
// succeeds.
func (e *Exporter) Export(ctx context.Context, doc *document.Document) (*Report, error) {
	if doc == nil {
		return nil, core.ErrNoDocument
	}

	visible := doc.VisibleObjects()
	if len(visible) == 0 {
		return nil, core.ErrNothingVisible
	}

	stats := core.NewStats()
	deflection := geometry.NewDeflection(
		e.config.Prefs.LinearDeflection,
		e.config.Prefs.AngularDeflection)

	merged := geometry.NewMesh(doc.DisplayName())
	for _, obj := range visible {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mesh, err := tessellateObject(obj, deflection)
		if err != nil {
			return nil, fmt.Errorf("failed to tessellate %q: %w", obj.Label, err)
		}
		mesh.ApplyTransform(obj.WorldMatrix())

		stats.AddObject(mesh.VertexCount(), mesh.TriangleCount())
		merged.Merge(mesh)

		core.LogDebug("tessellated %q (%s): %d triangles", obj.Label, obj.Type, mesh.TriangleCount())
	}
	merged.DeduplicateVertices()

	outputPath, err := e.resolveOutputPath(doc)
	if err != nil {
		return nil, err
	}
	if err := e.writeMesh(outputPath, merged); err != nil {
		return nil, err
	}

	stats.Stop()
	core.LogInfo("exported %d objects (%d triangles) to %s in %.1fms",
		stats.Objects, stats.Triangles, outputPath, stats.ElapsedMS())

	if cmd := e.config.Prefs.PostCommand; cmd != "" {
		if err := runPostCommand(ctx, cmd, outputPath); err != nil {
			return nil, err
		}
	}

	return &Report{
		Path:      outputPath,
		Objects:   stats.Objects,
		Vertices:  stats.Vertices,
		Triangles: stats.Triangles,
		Elapsed:   stats.Elapsed,
	}, nil
}

func tessellateObject(obj *document.Object, d geometry.Deflection) (*geometry.Mesh, error) {
	dim := obj.Dimensions
	switch obj.Type {
	case document.TypeBox:
		return geometry.GenerateBoxMesh(dim.Width, dim.Height, dim.Depth, obj.Label)
	case document.TypePlane:
		return geometry.GeneratePlaneMesh(dim.Width, dim.Height, obj.Label)
	case document.TypeCylinder:
		return geometry.GenerateCylinderMesh(dim.Radius, dim.Height, d, obj.Label)
	case document.TypeCone:
		return geometry.GenerateConeMesh(dim.Radius, dim.TopRadius, dim.Height, d, obj.Label)
	case document.TypeSphere:
		return geometry.GenerateSphereMesh(dim.Radius, d, obj.Label)
	case document.TypeTorus:
		return geometry.GenerateTorusMesh(dim.MajorRadius, dim.MinorRadius, d, obj.Label)
	}
	return nil, fmt.Errorf("object type %q has no tessellation", obj.Type)
}

// resolveOutputPath derives the destination: the configured output
// directory when set, otherwise next to the document, otherwise the
// working directory. The file name is the document name plus ".stl".
func (e *Exporter) resolveOutputPath(doc *document.Document) (string, error) {
	dir := e.config.Prefs.OutputDir
	if dir == "" && doc.Path != "" {
		dir = filepath.Dir(doc.Path)
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to resolve working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(filepath.Join(dir, doc.DisplayName()+".stl"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	return abs, nil
}

// writeMesh serializes atomically: temp file in the destination
// directory, rename on success. A failed write leaves no partial file.
func (e *Exporter) writeMesh(path string, m *geometry.Mesh) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".meshport-*.stl")
	if err != nil {
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}

	if e.config.ASCII {
		err = geometry.WriteSTLASCII(tmp, m)
	} else {
		err = geometry.WriteSTLBinary(tmp, m)
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
