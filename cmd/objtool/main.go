// objtool is a CLI utility for inspecting and converting Wavefront OBJ models.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshview/pkg/gltfexport"
	"github.com/Faultbox/meshview/pkg/obj"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "check":
		cmdCheck(args)
	case "export", "x":
		cmdExport(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ model utility

Usage:
  objtool <command> [options]

Commands:
  info <file.obj>                         Show record counts and bounds
  check <file.obj>...                     Verify that models load
  export [-normals] <in.obj> <out.gltf>   Convert to glTF (.gltf or .glb)

Examples:
  objtool info teapot.obj
  objtool check models/*.obj
  objtool export -normals teapot.obj teapot.glb`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info <file.obj>")
		os.Exit(1)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	mesh, err := obj.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Model:     %s\n", args[0])
	fmt.Printf("Positions: %d\n", mesh.PositionCount())
	fmt.Printf("TexCoords: %d\n", len(mesh.TexCoords)/2)
	fmt.Printf("Normals:   %d\n", len(mesh.Normals)/3)
	fmt.Printf("Faces:     %d\n", mesh.FaceCount())

	buf, err := mesh.Flatten()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	box := buf.Bounds()
	fmt.Printf("Buffer:    %d vertices, %.1f KB\n", buf.VertexCount(), float64(buf.ByteSize())/1024)
	fmt.Printf("Bounds:    min (%.3f, %.3f, %.3f)\n", box.Min[0], box.Min[1], box.Min[2])
	fmt.Printf("           max (%.3f, %.3f, %.3f)\n", box.Max[0], box.Max[1], box.Max[2])
}

func cmdCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool check <file.obj>...")
		os.Exit(1)
	}

	failed := 0
	for _, path := range args {
		buf, err := obj.Load(path)
		if err != nil {
			fmt.Printf("FAIL  %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("ok    %s (%d triangles)\n", path, buf.TriangleCount())
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n(%d of %d models failed)\n", failed, len(args))
		os.Exit(1)
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	normals := fs.Bool("normals", false, "Include flat face normals")
	name := fs.String("name", "", "Mesh name (default: input file name)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: objtool export [-normals] [-name N] <in.obj> <out.gltf|out.glb>")
		os.Exit(1)
	}

	in, out := fs.Arg(0), fs.Arg(1)

	buf, err := obj.Load(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	meshName := *name
	if meshName == "" {
		meshName = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	}

	opts := gltfexport.Options{Name: meshName, Normals: *normals}
	if err := gltfexport.Export(buf, out, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d triangles to %s\n", buf.TriangleCount(), out)
}
