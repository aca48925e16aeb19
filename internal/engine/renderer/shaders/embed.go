// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms positions and flat normals for the model view.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader applies ambient plus Lambertian lighting from a single point light.
//
//go:embed mesh.frag
var MeshFragmentShader string
