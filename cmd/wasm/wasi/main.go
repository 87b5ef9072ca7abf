//go:build wasip1

// Command mml-wasi is the WASI (wasip1) entrypoint for use from any language
// that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "source": "<expression>", "vars": { "x": "2" }, "precision": 6 }
//	stdout: { "result": "<formatted value>", "kind": "real number" }  on success
//	        { "error":  "<message>" }                                  on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o mml.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"source":"pi r^2","vars":{"r":"2"}}' | wasmtime mml.wasm
package main

import (
	"os"

	"github.com/sandrolain/gomml/pkg/hostapi"
)

func main() {
	os.Exit(hostapi.Serve(os.Stdin, os.Stdout))
}
