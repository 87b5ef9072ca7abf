// Package hostapi implements the JSON request/response protocol used by the
// WebAssembly entrypoints to embed gomml in a host program.
//
//	request:  { "source": "pi r^2", "vars": { "r": "2" }, "precision": 6 }
//	response: { "result": "12.5664", "kind": "real number" }
//	          { "error": "U1001 at position 3: undefined identifier 'r'" }
//
// Text written by print-like builtins is returned in "output".
package hostapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/sandrolain/gomml/pkg/evaluator"
	"github.com/sandrolain/gomml/pkg/ext"
)

// Request is a single evaluation request.
type Request struct {
	Source string `json:"source"`
	// Vars binds name to expression source before Source runs.
	Vars      map[string]string `json:"vars,omitempty"`
	Precision int               `json:"precision,omitempty"`
}

// Response is the outcome of a Request.
type Response struct {
	Result string `json:"result,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether the response carries an error.
func (r Response) Failed() bool { return r.Error != "" }

// Session is a persistent evaluation session for hosts that send several
// sources in a row.
type Session struct {
	ev  *evaluator.Evaluator
	out bytes.Buffer
}

// NewSession creates a session with every extension registered. opts are
// applied after the defaults.
func NewSession(opts ...evaluator.EvalOption) *Session {
	s := &Session{}
	all := append([]evaluator.EvalOption{evaluator.WithOutput(&s.out), ext.WithAll()}, opts...)
	s.ev = evaluator.New(all...)
	return s
}

// Bind binds name to the unevaluated expression src.
func (s *Session) Bind(name, src string) error {
	return s.ev.BindSource(name, src)
}

// Run evaluates src and describes the value of its last statement.
func (s *Session) Run(src string) Response {
	s.out.Reset()
	v, err := s.ev.Run(src)
	resp := Response{Output: s.out.String()}
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	if v.IsValid() {
		resp.Result = s.ev.Format(v)
		resp.Kind = v.Kind.String()
	}
	return resp
}

// Close releases the session.
func (s *Session) Close() {
	s.ev.Close()
}

// Handle evaluates req in a fresh session.
func Handle(req Request, opts ...evaluator.EvalOption) Response {
	if req.Precision < 0 {
		return Response{Error: fmt.Sprintf("precision must not be negative, got %d", req.Precision)}
	}
	if req.Precision > 0 {
		opts = append(opts, evaluator.WithPrecision(req.Precision))
	}
	s := NewSession(opts...)
	defer s.Close()

	names := make([]string, 0, len(req.Vars))
	for name := range req.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.Bind(name, req.Vars[name]); err != nil {
			return Response{Error: err.Error()}
		}
	}
	return s.Run(req.Source)
}

// HandleJSON decodes a Request from data and returns the encoded Response.
func HandleJSON(data []byte, opts ...evaluator.EvalOption) ([]byte, Response) {
	var req Request
	var resp Response
	if err := json.Unmarshal(data, &req); err != nil {
		resp = Response{Error: "invalid request JSON: " + err.Error()}
	} else {
		resp = Handle(req, opts...)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		out = []byte(`{"error":"marshal response"}`)
	}
	return out, resp
}

// Serve reads one Request from r, writes its Response to w as a JSON line
// and returns the process exit code: 0 on success, 1 on failure.
func Serve(r io.Reader, w io.Writer, opts ...evaluator.EvalOption) int {
	data, err := io.ReadAll(r)
	if err != nil {
		_ = json.NewEncoder(w).Encode(Response{Error: "read request: " + err.Error()})
		return 1
	}
	out, resp := HandleJSON(data, opts...)
	if _, err := fmt.Fprintf(w, "%s\n", out); err != nil {
		return 1
	}
	if resp.Failed() {
		return 1
	}
	return 0
}
