package rootfind

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/njchilds90/rootfind/expr"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ToolMethod returns the method behind a solver tool name.
func ToolMethod(tool string) (Method, bool) {
	m, ok := toolMethods[tool]
	return m, ok
}

var toolMethods = map[string]Method{
	"bisection":      MethodBisection,
	"false_position": MethodFalsePosition,
	"newton_raphson": MethodNewtonRaphson,
	"secant":         MethodSecant,
}

// HandleToolCall runs one tool call. Failures are reported in
// ToolResponse.Error, never as a Go error.
func HandleToolCall(req ToolRequest) ToolResponse {
	return HandleToolCallObserved(req, nil)
}

// SolveObserver is told the outcome of every solver tool call.
type SolveObserver func(m Method, tr *Trace, err error)

// HandleToolCallObserved is HandleToolCall with a hook for solver tools.
func HandleToolCallObserved(req ToolRequest, observe SolveObserver) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	optString := func(key, def string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getString(key)
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return f, nil
	}
	optNumber := func(key string) (*float64, error) {
		if _, ok := req.Params[key]; !ok {
			return nil, nil
		}
		f, err := getNumber(key)
		if err != nil {
			return nil, err
		}
		return &f, nil
	}
	optInt := func(key string) (int, error) {
		p, err := optNumber(key)
		if err != nil || p == nil {
			return 0, err
		}
		if *p != float64(int(*p)) {
			return 0, fmt.Errorf("param %s must be an integer", key)
		}
		return int(*p), nil
	}
	compile := func() (*expr.Function, error) {
		src, err := getString("equation")
		if err != nil {
			return nil, err
		}
		v, err := optString("variable", DefaultVariable)
		if err != nil {
			return nil, err
		}
		return expr.Compile(src, v)
	}
	fail := func(err error) ToolResponse {
		resp := ToolResponse{Error: err.Error()}
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			resp.Result = verrs
		}
		return resp
	}

	if m, ok := toolMethods[req.Tool]; ok {
		r := Request{Method: m}
		var err error
		if r.Equation, err = getString("equation"); err != nil {
			return fail(err)
		}
		if r.Variable, err = optString("variable", ""); err != nil {
			return fail(err)
		}
		for key, dst := range map[string]**float64{"xl": &r.XL, "xr": &r.XR, "x0": &r.X0, "xa": &r.XA, "xb": &r.XB} {
			if *dst, err = optNumber(key); err != nil {
				return fail(err)
			}
		}
		if tol, err := optNumber("tolerance"); err != nil {
			return fail(err)
		} else if tol != nil {
			r.Tolerance = *tol
		}
		if r.MaxIterations, err = optInt("max_iterations"); err != nil {
			return fail(err)
		}
		if r.RoundOff, err = optInt("round_off"); err != nil {
			return fail(err)
		}
		tr, err := Solve(r)
		if observe != nil {
			observe(m, tr, err)
		}
		if err != nil {
			return fail(err)
		}
		view := tr.View()
		return ToolResponse{Result: view, String: fmt.Sprintf("root = %s", view.Root)}
	}

	switch req.Tool {
	case "differentiate":
		fn, err := compile()
		if err != nil {
			return fail(err)
		}
		d, err := fn.Derivative()
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: d.String(), LaTeX: d.LaTeX(), String: d.String()}

	case "evaluate":
		fn, err := compile()
		if err != nil {
			return fail(err)
		}
		x, err := getNumber("x")
		if err != nil {
			return fail(err)
		}
		y, err := fn.Eval(x)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: y, LaTeX: fn.LaTeX(), String: fmt.Sprintf("%s = %g at %s = %g", fn, y, fn.Variable(), x)}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ============================================================
// MCP spec
// ============================================================

func MCPToolSpec() string {
	bracket := map[string]string{"equation": "string", "variable": "string", "xl": "number", "xr": "number", "tolerance": "number", "max_iterations": "integer", "round_off": "integer"}
	tools := []map[string]interface{}{
		ts("bisection", "Bisection root finding on [xl, xr]; stops when the bracket is narrower than tolerance", []string{"equation", "xl", "xr", "tolerance"}, bracket),
		ts("false_position", "False position (regula falsi) on [xl, xr]; stops when f(xm) stagnates within tolerance", []string{"equation", "xl", "xr", "tolerance"}, bracket),
		ts("newton_raphson", "Newton-Raphson from x0 using the symbolic derivative", []string{"equation", "x0"}, map[string]string{"equation": "string", "variable": "string", "x0": "number", "max_iterations": "integer", "round_off": "integer"}),
		ts("secant", "Secant method from the pair xa, xb", []string{"equation", "xa", "xb"}, map[string]string{"equation": "string", "variable": "string", "xa": "number", "xb": "number", "max_iterations": "integer", "round_off": "integer"}),
		ts("differentiate", "Symbolic derivative of equation", []string{"equation"}, map[string]string{"equation": "string", "variable": "string"}),
		ts("evaluate", "Evaluate equation at x", []string{"equation", "x"}, map[string]string{"equation": "string", "variable": "string", "x": "number"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
