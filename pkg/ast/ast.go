// Package ast defines the expression and statement node families.
//
// Both families are closed: the marker methods are unexported, so only the
// node types declared here satisfy Expr or Stmt. Every consumer switches over
// the concrete pointer types.
package ast

import "github.com/dlains/ringo/pkg/token"

type NodeType string

const (
	NodeLiteral     NodeType = "Literal"
	NodeGrouping    NodeType = "Grouping"
	NodeUnary       NodeType = "Unary"
	NodeBinary      NodeType = "Binary"
	NodeLogical     NodeType = "Logical"
	NodeConditional NodeType = "Conditional"
	NodeVariable    NodeType = "Variable"
	NodeAssign      NodeType = "Assign"
	NodeCall        NodeType = "Call"
	NodeGet         NodeType = "Get"
	NodeSet         NodeType = "Set"
	NodeThis        NodeType = "This"
	NodeSuper       NodeType = "Super"

	NodeExpression NodeType = "Expression"
	NodePrint      NodeType = "Print"
	NodeVar        NodeType = "Var"
	NodeBlock      NodeType = "Block"
	NodeIf         NodeType = "If"
	NodeWhile      NodeType = "While"
	NodeFunction   NodeType = "Function"
	NodeReturn     NodeType = "Return"
	NodeClass      NodeType = "Class"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Expr is any expression node. Expression nodes are always handled through
// pointers so the resolver can key its side table on node identity.
type Expr interface {
	Node
	exprNode()
}

type exprMarker struct{}

func (exprMarker) exprNode() {}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

type stmtMarker struct{}

func (stmtMarker) stmtNode() {}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

// Literal holds nil, a bool, a float64, or a string.
type Literal struct {
	nodeImpl
	exprMarker

	Value any
}

func NewLiteral(value any) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

type Grouping struct {
	nodeImpl
	exprMarker

	Expression Expr
}

func NewGrouping(expr Expr) *Grouping {
	return &Grouping{nodeImpl: newNodeImpl(NodeGrouping), Expression: expr}
}

type Unary struct {
	nodeImpl
	exprMarker

	Operator token.Token
	Right    Expr
}

func NewUnary(operator token.Token, right Expr) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary), Operator: operator, Right: right}
}

// Binary covers arithmetic, comparison, equality, and the comma operator.
type Binary struct {
	nodeImpl
	exprMarker

	Left     Expr
	Operator token.Token
	Right    Expr
}

func NewBinary(left Expr, operator token.Token, right Expr) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary), Left: left, Operator: operator, Right: right}
}

// Logical is a short-circuiting `and` / `or`.
type Logical struct {
	nodeImpl
	exprMarker

	Left     Expr
	Operator token.Token
	Right    Expr
}

func NewLogical(left Expr, operator token.Token, right Expr) *Logical {
	return &Logical{nodeImpl: newNodeImpl(NodeLogical), Left: left, Operator: operator, Right: right}
}

// Conditional is the ternary `cond ? then : else`.
type Conditional struct {
	nodeImpl
	exprMarker

	Condition  Expr
	ThenBranch Expr
	ElseBranch Expr
}

func NewConditional(condition, thenBranch, elseBranch Expr) *Conditional {
	return &Conditional{nodeImpl: newNodeImpl(NodeConditional), Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

type Variable struct {
	nodeImpl
	exprMarker

	Name token.Token
}

func NewVariable(name token.Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

type Assign struct {
	nodeImpl
	exprMarker

	Name  token.Token
	Value Expr
}

func NewAssign(name token.Token, value Expr) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign), Name: name, Value: value}
}

// Call keeps the closing paren token for error locations.
type Call struct {
	nodeImpl
	exprMarker

	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

func NewCall(callee Expr, paren token.Token, arguments []Expr) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Callee: callee, Paren: paren, Arguments: arguments}
}

type Get struct {
	nodeImpl
	exprMarker

	Object Expr
	Name   token.Token
}

func NewGet(object Expr, name token.Token) *Get {
	return &Get{nodeImpl: newNodeImpl(NodeGet), Object: object, Name: name}
}

type Set struct {
	nodeImpl
	exprMarker

	Object Expr
	Name   token.Token
	Value  Expr
}

func NewSet(object Expr, name token.Token, value Expr) *Set {
	return &Set{nodeImpl: newNodeImpl(NodeSet), Object: object, Name: name, Value: value}
}

type This struct {
	nodeImpl
	exprMarker

	Keyword token.Token
}

func NewThis(keyword token.Token) *This {
	return &This{nodeImpl: newNodeImpl(NodeThis), Keyword: keyword}
}

type Super struct {
	nodeImpl
	exprMarker

	Keyword token.Token
	Method  token.Token
}

func NewSuper(keyword, method token.Token) *Super {
	return &Super{nodeImpl: newNodeImpl(NodeSuper), Keyword: keyword, Method: method}
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

type Expression struct {
	nodeImpl
	stmtMarker

	Expression Expr
}

func NewExpression(expr Expr) *Expression {
	return &Expression{nodeImpl: newNodeImpl(NodeExpression), Expression: expr}
}

type Print struct {
	nodeImpl
	stmtMarker

	Expression Expr
}

func NewPrint(expr Expr) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint), Expression: expr}
}

// Var declares a variable; Initializer is nil when omitted.
type Var struct {
	nodeImpl
	stmtMarker

	Name        token.Token
	Initializer Expr
}

func NewVar(name token.Token, initializer Expr) *Var {
	return &Var{nodeImpl: newNodeImpl(NodeVar), Name: name, Initializer: initializer}
}

type Block struct {
	nodeImpl
	stmtMarker

	Statements []Stmt
}

func NewBlock(statements []Stmt) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Statements: statements}
}

// If has an optional ElseBranch.
type If struct {
	nodeImpl
	stmtMarker

	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
}

func NewIf(condition Expr, thenBranch, elseBranch Stmt) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

type While struct {
	nodeImpl
	stmtMarker

	Condition Expr
	Body      Stmt
}

func NewWhile(condition Expr, body Stmt) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile), Condition: condition, Body: body}
}

// Function is shared read-only by every runtime closure created from it.
type Function struct {
	nodeImpl
	stmtMarker

	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func NewFunction(name token.Token, params []token.Token, body []Stmt) *Function {
	return &Function{nodeImpl: newNodeImpl(NodeFunction), Name: name, Params: params, Body: body}
}

// Return has an optional Value.
type Return struct {
	nodeImpl
	stmtMarker

	Keyword token.Token
	Value   Expr
}

func NewReturn(keyword token.Token, value Expr) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Keyword: keyword, Value: value}
}

// Class has an optional Superclass variable.
type Class struct {
	nodeImpl
	stmtMarker

	Name       token.Token
	Superclass *Variable
	Methods    []*Function
}

func NewClass(name token.Token, superclass *Variable, methods []*Function) *Class {
	return &Class{nodeImpl: newNodeImpl(NodeClass), Name: name, Superclass: superclass, Methods: methods}
}
