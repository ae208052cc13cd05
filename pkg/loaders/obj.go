package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pathforge/raygo/pkg/core"
)

// OBJMaterial is one material block parsed from a .mtl file.
type OBJMaterial struct {
	Name             string
	DiffuseColor     core.Vec3
	SpecularColor    core.Vec3
	EmissiveColor    core.Vec3
	Shininess        float64
	IndexOfRefaction float64
	DiffuseTexture   string // path to a map_Kd image, empty if none
	NormalTexture    string // path to a map_Bump/norm image, empty if none
}

// OBJGroup is a contiguous run of triangles sharing one material, in the
// order they appeared in the file.
type OBJGroup struct {
	MaterialName string
	Faces        []int // indices into OBJData.Vertices, 3 per triangle
	NormalFaces  []int // indices into OBJData.Normals, parallel to Faces; nil if the file has no per-face vn references
}

// OBJData is the raw geometry and material data loaded from an OBJ/MTL
// pair, left for the caller to turn into geometry.TriangleMesh shapes
// with whatever material.Material each OBJMaterial should map to.
type OBJData struct {
	Vertices  []core.Vec3
	Normals   []core.Vec3 // empty if the file has no vn lines
	TexCoords []core.Vec2 // empty if the file has no vt lines
	Groups    []OBJGroup
	Materials map[string]OBJMaterial
}

// LoadOBJ parses a Wavefront OBJ file and its referenced MTL library (if
// any). Only triangulated geometry is supported; polygons with more than
// three vertices are fan-triangulated around their first vertex.
func LoadOBJ(filename string) (*OBJData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data := &OBJData{Materials: make(map[string]OBJMaterial)}
	baseDir := filepath.Dir(filename)
	currentMaterial := ""
	var currentGroup *OBJGroup

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad vertex: %w", lineNo, err)
			}
			data.Vertices = append(data.Vertices, v)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad normal: %w", lineNo, err)
			}
			data.Normals = append(data.Normals, n)
		case "vt":
			uv, err := parseVec2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad texcoord: %w", lineNo, err)
			}
			data.TexCoords = append(data.TexCoords, uv)
		case "f":
			indices, normalIndices, err := parseFaceIndices(fields[1:], len(data.Vertices), len(data.Normals))
			if err != nil {
				return nil, fmt.Errorf("line %d: bad face: %w", lineNo, err)
			}
			if currentGroup == nil {
				data.Groups = append(data.Groups, OBJGroup{MaterialName: currentMaterial})
				currentGroup = &data.Groups[len(data.Groups)-1]
			}
			// Fan-triangulate polygons with more than 3 vertices.
			for i := 1; i+1 < len(indices); i++ {
				currentGroup.Faces = append(currentGroup.Faces, indices[0], indices[i], indices[i+1])
				if normalIndices != nil {
					currentGroup.NormalFaces = append(currentGroup.NormalFaces, normalIndices[0], normalIndices[i], normalIndices[i+1])
				}
			}
		case "usemtl":
			currentMaterial = fields[1]
			data.Groups = append(data.Groups, OBJGroup{MaterialName: currentMaterial})
			currentGroup = &data.Groups[len(data.Groups)-1]
		case "mtllib":
			mtlPath := filepath.Join(baseDir, fields[1])
			materials, err := loadMTL(mtlPath, baseDir)
			if err != nil {
				return nil, fmt.Errorf("line %d: failed to load mtllib %q: %w", lineNo, fields[1], err)
			}
			for name, mat := range materials {
				data.Materials[name] = mat
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ file: %w", err)
	}

	fmt.Printf("Loaded OBJ mesh: %d vertices, %d groups in %v\n",
		len(data.Vertices), len(data.Groups), time.Since(startTime))

	return data, nil
}

func parseVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(x, y, z), nil
}

func parseVec2(fields []string) (core.Vec2, error) {
	if len(fields) < 2 {
		return core.Vec2{}, fmt.Errorf("expected 2 components, got %d", len(fields))
	}
	u, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.NewVec2(u, v), nil
}

// parseFaceIndices extracts vertex indices, and normal indices when every
// token carries a "v//vn" or "v/vt/vn" part, from "f v/vt/vn ..." tokens,
// converting OBJ's 1-based (or negative, relative-to-end) indexing to
// 0-based. normalIndices is nil if the face has no vn references or the
// file never saw any "vn" lines, so the caller can fall back to flat
// per-triangle shading.
func parseFaceIndices(fields []string, vertexCount, normalCount int) (indices []int, normalIndices []int, err error) {
	indices = make([]int, len(fields))
	normalIndices = make([]int, len(fields))
	haveNormals := normalCount > 0

	for i, field := range fields {
		parts := strings.Split(field, "/")
		idx, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, nil, fmt.Errorf("bad vertex index %q: %w", field, err)
		}
		if idx < 0 {
			idx = vertexCount + idx
		} else {
			idx = idx - 1
		}
		if idx < 0 || idx >= vertexCount {
			return nil, nil, fmt.Errorf("vertex index %d out of range (have %d vertices)", idx, vertexCount)
		}
		indices[i] = idx

		if !haveNormals {
			continue
		}
		if len(parts) < 3 || parts[2] == "" {
			haveNormals = false
			continue
		}
		nIdx, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, nil, fmt.Errorf("bad normal index %q: %w", field, err)
		}
		if nIdx < 0 {
			nIdx = normalCount + nIdx
		} else {
			nIdx = nIdx - 1
		}
		if nIdx < 0 || nIdx >= normalCount {
			return nil, nil, fmt.Errorf("normal index %d out of range (have %d normals)", nIdx, normalCount)
		}
		normalIndices[i] = nIdx
	}

	if !haveNormals {
		return indices, nil, nil
	}
	return indices, normalIndices, nil
}

// loadMTL parses a Wavefront MTL material library. textureDir resolves
// map_Kd/map_Bump image paths, which are conventionally relative to the
// OBJ file's own directory rather than the MTL file's.
func loadMTL(filename, textureDir string) (map[string]OBJMaterial, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	materials := make(map[string]OBJMaterial)
	var current *OBJMaterial

	flush := func() {
		if current != nil {
			materials[current.Name] = *current
		}
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "newmtl":
			flush()
			current = &OBJMaterial{Name: fields[1], IndexOfRefaction: 1.0}
		case "Kd":
			if current != nil {
				if c, err := parseVec3(fields[1:]); err == nil {
					current.DiffuseColor = c
				}
			}
		case "Ks":
			if current != nil {
				if c, err := parseVec3(fields[1:]); err == nil {
					current.SpecularColor = c
				}
			}
		case "Ke":
			if current != nil {
				if c, err := parseVec3(fields[1:]); err == nil {
					current.EmissiveColor = c
				}
			}
		case "Ns":
			if current != nil && len(fields) > 1 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					current.Shininess = v
				}
			}
		case "Ni":
			if current != nil && len(fields) > 1 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					current.IndexOfRefaction = v
				}
			}
		case "map_Kd":
			if current != nil {
				current.DiffuseTexture = filepath.Join(textureDir, fields[len(fields)-1])
			}
		case "map_Bump", "map_bump", "norm":
			if current != nil {
				current.NormalTexture = filepath.Join(textureDir, fields[len(fields)-1])
			}
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return materials, nil
}
