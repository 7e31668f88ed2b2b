package d3d9

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

// Go pointers passed to a vtable call are converted inside the
// syscall.SyscallN argument list. comCall only carries integers and COM
// pointers.
func TestComCallCarriesNoGoPointers(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "native_windows.go", nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	ast.Inspect(f, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if id, ok := call.Fun.(*ast.Ident); !ok || id.Name != "comCall" {
			return true
		}
		calls++
		for _, arg := range call.Args {
			ast.Inspect(arg, func(n ast.Node) bool {
				if sel, ok := n.(*ast.SelectorExpr); ok && sel.Sel.Name == "Pointer" {
					if x, ok := sel.X.(*ast.Ident); ok && x.Name == "unsafe" {
						t.Errorf("%v: comCall passes an unsafe.Pointer conversion", fset.Position(arg.Pos()))
					}
				}
				return true
			})
		}
		return true
	})
	if calls == 0 {
		t.Error("no comCall sites found")
	}
}
