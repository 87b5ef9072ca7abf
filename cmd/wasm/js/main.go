//go:build js && wasm

// Command mml-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `gomml` object with the following API:
//
//	gomml.version()            → string
//	gomml.eval(requestJSON)    → responseJSON
//	gomml.session()            → { run(source) → responseJSON, bind(name, source), close() }
//
// Requests and responses use the hostapi protocol:
//
//	gomml.eval('{"source": "pi r^2", "vars": {"r": "2"}}')
//	// → '{"result":"12.5664","kind":"real number"}'
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o mml.wasm ./cmd/wasm/js/
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/gomml"
	"github.com/sandrolain/gomml/pkg/hostapi"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	panic(js.Global().Get("Error").New(msg))
}

func encode(resp hostapi.Response) string {
	out, err := json.Marshal(resp)
	if err != nil {
		jsThrow(fmt.Sprintf("gomml: marshal response: %v", err))
	}
	return string(out)
}

// jsEval implements gomml.eval(requestJSON) → responseJSON.
func jsEval(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("gomml.eval requires 1 argument: request (JSON string)")
	}
	out, _ := hostapi.HandleJSON([]byte(args[0].String()))
	return string(out)
}

// jsSession implements gomml.session(), a persistent session object.
func jsSession(_ js.Value, _ []js.Value) interface{} {
	s := hostapi.NewSession()

	run := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			jsThrow("session.run requires 1 argument: source (string)")
		}
		return encode(s.Run(args[0].String()))
	})
	bind := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			jsThrow("session.bind requires 2 arguments: name and source (strings)")
		}
		if err := s.Bind(args[0].String(), args[1].String()); err != nil {
			jsThrow(fmt.Sprintf("session.bind: %v", err))
		}
		return nil
	})

	var closeFn js.Func
	closeFn = js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
		s.Close()
		run.Release()
		bind.Release()
		closeFn.Release()
		return nil
	})

	return js.ValueOf(map[string]interface{}{
		"run":   run,
		"bind":  bind,
		"close": closeFn,
	})
}

func main() {
	api := map[string]interface{}{
		"eval":    js.FuncOf(jsEval),
		"session": js.FuncOf(jsSession),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return gomml.Version()
		}),
	}
	js.Global().Set("gomml", js.ValueOf(api))

	// Block forever — the JS event loop owns execution from here.
	select {}
}
