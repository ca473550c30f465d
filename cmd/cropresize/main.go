// Package main provides the cropresize command line tool.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("cropresize %s\n", version)
		return
	}

	fmt.Println("cropresize - batched crop-and-resize for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("Demo programs:")
	fmt.Println("  go run ./examples/patches      Crop boxes out of an image, save PNG/TFRecord")
	fmt.Println("  go run ./examples/patches-gpu  CPU vs WebGPU crop benchmark (windows)")
}
