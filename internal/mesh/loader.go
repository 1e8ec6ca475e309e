// Package mesh loads 3D surface point clouds from common mesh and
// point-cloud file formats and canonicalizes their units to meters. The
// measurement core assumes meters by contract and never converts; this
// package is the boundary where that contract is established.
package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/anthro.report/internal/anthro"
	"github.com/banshee-data/anthro.report/internal/units"
)

// Load reads a vertex cloud from path, detecting the format from the file
// extension (.xyz, .obj, .ply), and scales coordinates from sourceUnits to
// meters.
func Load(path, sourceUnits string) (anthro.Cloud, error) {
	if !units.IsValid(sourceUnits) {
		return nil, fmt.Errorf("invalid units %q (valid: %s)", sourceUnits, units.GetValidUnitsString())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mesh file: %w", err)
	}
	defer f.Close()

	var cloud anthro.Cloud
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xyz":
		cloud, err = ReadXYZ(f)
	case ".obj":
		cloud, err = ReadOBJ(f)
	case ".ply":
		cloud, err = ReadPLY(f)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	return scaleToMeters(cloud, sourceUnits), nil
}

// ReadXYZ parses whitespace-separated "x y z" rows, one vertex per line.
// Blank lines and #-comments are skipped; any other malformed row is an
// error rather than a silent drop.
func ReadXYZ(r io.Reader) (anthro.Cloud, error) {
	var cloud anthro.Cloud
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := parseVertex(strings.Fields(text), 0)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cloud = append(cloud, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cloud, nil
}

// ReadOBJ extracts vertex ("v") records from a Wavefront OBJ stream. Faces,
// normals and texture coordinates are ignored: the pipeline only needs the
// surface point cloud.
func ReadOBJ(r io.Reader) (anthro.Cloud, error) {
	var cloud anthro.Cloud
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "v" {
			continue
		}
		v, err := parseVertex(fields, 1)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cloud = append(cloud, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cloud, nil
}

// ReadPLY parses an ASCII PLY stream: header declaring a vertex element with
// leading x/y/z properties, followed by that many data rows. Binary PLY is
// not supported.
func ReadPLY(r io.Reader) (anthro.Cloud, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, fmt.Errorf("not a PLY file: missing magic")
	}

	vertexCount := -1
	inHeader := true
	for inHeader && scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 || fields[1] != "ascii" {
				return nil, fmt.Errorf("unsupported PLY format %v (ascii only)", fields[1:])
			}
		case "element":
			if len(fields) == 3 && fields[1] == "vertex" {
				n, err := strconv.Atoi(fields[2])
				if err != nil {
					return nil, fmt.Errorf("bad vertex count %q", fields[2])
				}
				vertexCount = n
			}
		case "end_header":
			inHeader = false
		}
	}
	if vertexCount < 0 {
		return nil, fmt.Errorf("PLY header missing vertex element")
	}

	cloud := make(anthro.Cloud, 0, vertexCount)
	for len(cloud) < vertexCount && scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := parseVertex(strings.Fields(text), 0)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", len(cloud), err)
		}
		cloud = append(cloud, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(cloud) != vertexCount {
		return nil, fmt.Errorf("PLY declared %d vertices, found %d", vertexCount, len(cloud))
	}
	return cloud, nil
}

// parseVertex reads three floats from fields starting at offset. Extra
// fields (colour, confidence) are tolerated; missing ones are not.
func parseVertex(fields []string, offset int) (anthro.Vertex, error) {
	if len(fields) < offset+3 {
		return anthro.Vertex{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields)-offset)
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[offset+i], 64)
		if err != nil {
			return anthro.Vertex{}, fmt.Errorf("bad coordinate %q: %w", fields[offset+i], err)
		}
		coords[i] = f
	}
	return anthro.Vertex{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func scaleToMeters(cloud anthro.Cloud, sourceUnits string) anthro.Cloud {
	if sourceUnits == units.M {
		return cloud
	}
	out := make(anthro.Cloud, len(cloud))
	for i, v := range cloud {
		out[i] = anthro.Vertex{
			X: units.ToMeters(v.X, sourceUnits),
			Y: units.ToMeters(v.Y, sourceUnits),
			Z: units.ToMeters(v.Z, sourceUnits),
		}
	}
	return out
}
