package js

import (
	"testing"

	"github.com/playXE/js/api"
	"github.com/playXE/js/internal/ast"
	"github.com/stretchr/testify/require"
)

func numberLiteral(n float64) *ast.Literal {
	return &ast.Literal{Kind: ast.LitNumber, Number: n}
}

func exprStatement(n ast.Node) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Expression: n}
}

// program wraps the given top-level statements into a Program.
func program(body ...ast.Node) *ast.Program {
	return &ast.Program{Body: body}
}

func TestEvalArithmetic(t *testing.T) {
	rt := New(nil)

	prog := program(exprStatement(&ast.BinaryExpression{
		Operator: ast.BinAdd,
		Left:     numberLiteral(1),
		Right:    numberLiteral(2),
	}))

	result, err := rt.Eval(false, prog)
	require.NoError(t, err)
	require.Equal(t, api.KindNumber, result.Kind())
	require.Equal(t, float64(3), result.ToFloat64())
}

func TestEvalThrow(t *testing.T) {
	rt := New(nil)

	prog := program(&ast.ThrowStatement{
		Argument: &ast.Literal{Kind: ast.LitString, String: "boom"},
	})

	_, err := rt.Eval(false, prog)
	require.Error(t, err)

	var thrown *ThrownError
	require.ErrorAs(t, err, &thrown)
	require.Equal(t, api.ErrorKindGeneric, thrown.ErrorKind())
}

func TestCompileAndCall(t *testing.T) {
	rt := New(nil)

	fn, err := rt.Compile(false, nil, &ast.BlockStatement{
		Body: []ast.Node{
			&ast.ReturnStatement{Argument: numberLiteral(42)},
		},
	}, "answer")
	require.NoError(t, err)
	require.Equal(t, api.KindFunction, fn.Kind())

	result, err := rt.Call(fn, rt.Undefined(), nil)
	require.NoError(t, err)
	require.Equal(t, float64(42), result.ToFloat64())
}

func TestConstructBuiltin(t *testing.T) {
	rt := New(nil)

	object := rt.Global("Object")
	require.Equal(t, api.KindFunction, object.Kind())

	instance, err := rt.Construct(object, nil)
	require.NoError(t, err)
	require.Equal(t, api.KindObject, instance.Kind())
}
