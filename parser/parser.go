// Package parser turns a token stream into a typed program: a chain of
// function and global-variable Objects. It combines the declaration
// sub-parser (decl.go) with the full expression/statement recursive-descent
// grammar, grounded one-to-one on original_source/src/Parser.cpp and
// original_source/src/Node/NodeUtil.cpp's pointer-aware node builders.
package parser

import (
	"fmt"

	"github.com/skx/yoctocc/ast"
	"github.com/skx/yoctocc/diag"
	"github.com/skx/yoctocc/scope"
	"github.com/skx/yoctocc/token"
	"github.com/skx/yoctocc/types"
)

// Parser holds the mutable state threaded through one parse: the scope
// stack, the current function's locals, the finished top-level chain, and
// the unique-string-name counter spec.md §5 calls out as explicit,
// per-instance state rather than a package global.
type Parser struct {
	src   *diag.Source
	scope *scope.Stack

	locals  *ast.Object
	globals *ast.Object

	stringCount int
}

// New creates a Parser ready to parse a single translation unit.
func New(src *diag.Source) *Parser {
	return &Parser{src: src, scope: scope.New()}
}

// Parse runs the program driver: (function-definition | global-variable)*,
// returning the finished Object chain (most-recently-defined first).
func (p *Parser) Parse(tok *token.Token) *ast.Object {
	p.globals = nil
	p.scope.Enter() // file-scope frame for top-level variables and tags

	for tok.Kind != token.EOF {
		base, rest := p.declSpec(tok)
		if p.isFunction(rest) {
			tok = p.parseFunction(rest, base)
			continue
		}
		tok = p.parseGlobalVariable(rest, base)
	}

	return p.globals
}

func (p *Parser) findVariable(name string) (*ast.Object, bool) {
	return p.scope.FindVariable(name)
}

func (p *Parser) createLocalVariable(name string, typ *types.Type) *ast.Object {
	obj := &ast.Object{IsLocal: true, Name: name, Type: typ}
	obj.Next = p.locals
	p.locals = obj
	p.scope.PushVariable(name, obj)
	return obj
}

func (p *Parser) createGlobalVariable(name string, typ *types.Type) *ast.Object {
	obj := &ast.Object{Name: name, Type: typ}
	obj.Next = p.globals
	p.globals = obj
	p.scope.PushVariable(name, obj)
	return obj
}

func (p *Parser) uniqueName() string {
	name := fmt.Sprintf(".L..%d", p.stringCount)
	p.stringCount++
	return name
}

// --- node builders -------------------------------------------------------

func newNumber(tok *token.Token, value int64) *ast.Node {
	return &ast.Node{Kind: ast.NUMBER, Token: tok, Value: value}
}

func newUnary(kind ast.Kind, tok *token.Token, operand *ast.Node) *ast.Node {
	return &ast.Node{Kind: kind, Token: tok, Left: operand}
}

func newBinary(kind ast.Kind, tok *token.Token, left, right *ast.Node) *ast.Node {
	return &ast.Node{Kind: kind, Token: tok, Left: left, Right: right}
}

func newVariable(tok *token.Token, obj *ast.Object) *ast.Node {
	return &ast.Node{Kind: ast.VARIABLE, Token: tok, Variable: obj}
}

func newBlock(tok *token.Token, body *ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.BLOCK, Token: tok, Body: body}
}

// createAddNode builds the pointer-aware "+" node per spec.md §4.6's
// int+int / ptr+ptr (error) / int+ptr (swap) / ptr+int (scale) table.
// Grounded on NodeUtil.cpp's createAddNode.
func (p *Parser) createAddNode(tok *token.Token, left, right *ast.Node) *ast.Node {
	ast.Annotate(p.src, left)
	ast.Annotate(p.src, right)

	if types.IsInteger(left.Type) && types.IsInteger(right.Type) {
		return newBinary(ast.ADD, tok, left, right)
	}
	if left.Type.Base != nil && right.Type.Base != nil {
		p.src.Errorf(tok.ByteOffset, "invalid addition of two pointers")
		return newBinary(ast.ADD, tok, left, right)
	}
	if left.Type.Base == nil && right.Type.Base != nil {
		left, right = right, left
	}

	scaled := newBinary(ast.MUL, tok, right, newNumber(tok, int64(left.Type.Base.Size)))
	return newBinary(ast.ADD, tok, left, scaled)
}

// createSubNode builds the pointer-aware "-" node. Grounded on
// NodeUtil.cpp's createSubNode.
func (p *Parser) createSubNode(tok *token.Token, left, right *ast.Node) *ast.Node {
	ast.Annotate(p.src, left)
	ast.Annotate(p.src, right)

	if types.IsInteger(left.Type) && types.IsInteger(right.Type) {
		return newBinary(ast.SUB, tok, left, right)
	}
	if left.Type.Base != nil && types.IsInteger(right.Type) {
		resultType := left.Type
		scaled := newBinary(ast.MUL, tok, right, newNumber(tok, int64(left.Type.Base.Size)))
		ast.Annotate(p.src, scaled)
		node := newBinary(ast.SUB, tok, left, scaled)
		node.Type = resultType
		return node
	}
	if left.Type.Base != nil && right.Type.Base != nil {
		baseSize := left.Type.Base.Size
		node := newBinary(ast.SUB, tok, left, right)
		node.Type = types.IntType()
		return newBinary(ast.DIV, tok, node, newNumber(tok, int64(baseSize)))
	}

	p.src.Errorf(tok.ByteOffset, "invalid subtraction involving pointers")
	return newBinary(ast.SUB, tok, left, right)
}

// createMemberNode builds a "." / "->" member-access node. Grounded on
// NodeUtil.cpp's createStructRefNode.
func (p *Parser) createMemberNode(tok *token.Token, left *ast.Node, memberName *token.Token) *ast.Node {
	ast.Annotate(p.src, left)

	if left.Type.Kind != types.STRUCT && left.Type.Kind != types.UNION {
		p.src.Errorf(tok.ByteOffset, "left operand is not a struct or union type")
		return newUnary(ast.MEMBER, tok, left)
	}

	node := newUnary(ast.MEMBER, tok, left)
	member := types.FindMember(left.Type.Members, memberName.Lexeme)
	if member == nil {
		p.src.Errorf(memberName.ByteOffset, "no such member: %s", memberName.Lexeme)
	}
	node.Member = member
	return node
}

// --- program driver -------------------------------------------------------

func (p *Parser) parseFunction(tok *token.Token, baseType *types.Type) *token.Token {
	funcType, rest := p.declarator(tok, baseType)
	name := funcType.Name.Lexeme

	p.locals = nil
	p.scope.Enter()

	rest = token.SkipIf(rest, "{")
	p.applyParamLVars(funcType.Parameters)

	fn := &ast.Object{IsFunction: true, Name: name, Type: funcType, Parameters: p.locals}

	body, after := p.parseCompoundStatement(rest)
	fn.Body = body

	fn.Locals = p.locals
	fn.Next = p.globals
	p.globals = fn

	p.scope.Leave()

	return after
}

func (p *Parser) applyParamLVars(param *types.Type) {
	if param == nil {
		return
	}
	p.applyParamLVars(param.Next)
	p.createLocalVariable(param.Name.Lexeme, param)
}

func (p *Parser) parseGlobalVariable(tok *token.Token, baseType *types.Type) *token.Token {
	first := true
	for !token.Is(tok, ";") {
		if !first {
			tok = token.SkipIf(tok, ",")
		}
		first = false

		varType, rest := p.declarator(tok, baseType)
		p.createGlobalVariable(varType.Name.Lexeme, varType)
		tok = rest
	}
	return tok.Next
}

// --- statements ------------------------------------------------------------

// stmt = "return" expr ";"
//      | "if" "(" expr ")" stmt ("else" stmt)?
//      | "for" "(" expr-stmt expr? ";" expr? ")" stmt
//      | "while" "(" expr ")" stmt
//      | "{" compound-stmt
//      | expr-stmt
func (p *Parser) parseStatement(tok *token.Token) (*ast.Node, *token.Token) {
	if token.Is(tok, "return") {
		start := tok
		expr, rest := p.parseExpression(tok.Next)
		rest = token.SkipIf(rest, ";")
		return newUnary(ast.RETURN, start, expr), rest
	}

	if token.Is(tok, "if") {
		node := &ast.Node{Kind: ast.IF, Token: tok}
		tok = token.SkipIf(tok.Next, "(")

		cond, rest := p.parseExpression(tok)
		node.Condition = cond
		tok = token.SkipIf(rest, ")")

		then, rest2 := p.parseStatement(tok)
		node.Then = then
		tok = rest2

		if token.Is(tok, "else") {
			els, rest3 := p.parseStatement(tok.Next)
			node.Els = els
			tok = rest3
		}
		return node, tok
	}

	if token.Is(tok, "for") {
		node := &ast.Node{Kind: ast.FOR, Token: tok}
		tok = token.SkipIf(tok.Next, "(")

		init, rest := p.parseExpressionStatement(tok)
		node.Init = init
		tok = rest

		if !token.Is(tok, ";") {
			cond, rest2 := p.parseExpression(tok)
			node.Condition = cond
			tok = rest2
		}
		tok = token.SkipIf(tok, ";")

		if !token.Is(tok, ")") {
			inc, rest3 := p.parseExpression(tok)
			node.Inc = inc
			tok = rest3
		}
		tok = token.SkipIf(tok, ")")

		body, rest4 := p.parseStatement(tok)
		node.Then = body
		return node, rest4
	}

	if token.Is(tok, "while") {
		node := &ast.Node{Kind: ast.FOR, Token: tok}
		tok = token.SkipIf(tok.Next, "(")

		cond, rest := p.parseExpression(tok)
		node.Condition = cond
		tok = token.SkipIf(rest, ")")

		body, rest2 := p.parseStatement(tok)
		node.Then = body
		return node, rest2
	}

	if token.Is(tok, "{") {
		return p.parseCompoundStatement(tok.Next)
	}

	return p.parseExpressionStatement(tok)
}

// compound-stmt = (declaration | stmt)* "}"
func (p *Parser) parseCompoundStatement(tok *token.Token) (*ast.Node, *token.Token) {
	head := &ast.Node{}
	current := head

	p.scope.Enter()

	for tok.Kind != token.EOF && !token.Is(tok, "}") {
		var stmt *ast.Node
		if types.IsTypeName(tok.Lexeme) {
			stmt, tok = p.declaration(tok)
		} else {
			stmt, tok = p.parseStatement(tok)
		}
		current.Next = stmt
		current = stmt
		ast.Annotate(p.src, current)
	}

	p.scope.Leave()

	return newBlock(tok, head.Next), tok.Next
}

// declaration = declspec (declarator ("=" expr)? ("," declarator ("=" expr)?)*)? ";"
func (p *Parser) declaration(tok *token.Token) (*ast.Node, *token.Token) {
	base, rest := p.declSpec(tok)
	head := &ast.Node{}
	current := head

	i := 0
	for !token.Is(rest, ";") {
		if i > 0 {
			rest = token.SkipIf(rest, ",")
		}
		i++

		varType, rest2 := p.declarator(rest, base)
		variable := p.createLocalVariable(varType.Name.Lexeme, varType)
		rest = rest2

		if !token.Is(rest, "=") {
			continue
		}

		lhs := newVariable(rest, variable)
		rhsTok := rest
		rhs, rest3 := p.parseAssignment(rest.Next)
		assign := newBinary(ast.ASSIGN, rhsTok, lhs, rhs)
		current.Next = newUnary(ast.EXPR_STMT, rhsTok, assign)
		current = current.Next
		rest = rest3
	}

	return newBlock(rest, head.Next), rest.Next
}

// expr-stmt = expr? ";"
func (p *Parser) parseExpressionStatement(tok *token.Token) (*ast.Node, *token.Token) {
	if token.Is(tok, ";") {
		return newBlock(tok, nil), tok.Next
	}

	expr, rest := p.parseExpression(tok)
	return newUnary(ast.EXPR_STMT, tok, expr), token.SkipIf(rest, ";")
}

// --- expressions -----------------------------------------------------------

// expr = assign ("," expr)?
func (p *Parser) parseExpression(tok *token.Token) (*ast.Node, *token.Token) {
	node, rest := p.parseAssignment(tok)

	if token.Is(rest, ",") {
		right, rest2 := p.parseExpression(rest.Next)
		return newBinary(ast.COMMA, rest, node, right), rest2
	}

	return node, rest
}

// assign = equality ("=" assign)?
func (p *Parser) parseAssignment(tok *token.Token) (*ast.Node, *token.Token) {
	node, rest := p.parseEquality(tok)

	if token.Is(rest, "=") {
		start := rest
		right, rest2 := p.parseAssignment(rest.Next)
		return newBinary(ast.ASSIGN, start, node, right), rest2
	}

	return node, rest
}

// equality = relational (("==" | "!=") relational)*
func (p *Parser) parseEquality(tok *token.Token) (*ast.Node, *token.Token) {
	node, tok := p.parseRelational(tok)

	for {
		switch {
		case token.Is(tok, "=="):
			start := tok
			right, rest := p.parseRelational(tok.Next)
			node, tok = newBinary(ast.EQ, start, node, right), rest
		case token.Is(tok, "!="):
			start := tok
			right, rest := p.parseRelational(tok.Next)
			node, tok = newBinary(ast.NE, start, node, right), rest
		default:
			return node, tok
		}
	}
}

// relational = add (("<" | "<=" | ">" | ">=") add)*
func (p *Parser) parseRelational(tok *token.Token) (*ast.Node, *token.Token) {
	node, tok := p.parseAdditive(tok)

	for {
		switch {
		case token.Is(tok, "<"):
			start := tok
			right, rest := p.parseAdditive(tok.Next)
			node, tok = newBinary(ast.LT, start, node, right), rest
		case token.Is(tok, "<="):
			start := tok
			right, rest := p.parseAdditive(tok.Next)
			node, tok = newBinary(ast.LE, start, node, right), rest
		case token.Is(tok, ">"):
			start := tok
			right, rest := p.parseAdditive(tok.Next)
			node, tok = newBinary(ast.GT, start, node, right), rest
		case token.Is(tok, ">="):
			start := tok
			right, rest := p.parseAdditive(tok.Next)
			node, tok = newBinary(ast.GE, start, node, right), rest
		default:
			return node, tok
		}
	}
}

// add = mul (("+" | "-") mul)*
func (p *Parser) parseAdditive(tok *token.Token) (*ast.Node, *token.Token) {
	node, tok := p.parseMultiply(tok)

	for {
		switch {
		case token.Is(tok, "+"):
			start := tok
			right, rest := p.parseMultiply(tok.Next)
			node, tok = p.createAddNode(start, node, right), rest
		case token.Is(tok, "-"):
			start := tok
			right, rest := p.parseMultiply(tok.Next)
			node, tok = p.createSubNode(start, node, right), rest
		default:
			return node, tok
		}
	}
}

// mul = unary (("*" | "/") unary)*
func (p *Parser) parseMultiply(tok *token.Token) (*ast.Node, *token.Token) {
	node, tok := p.parseUnary(tok)

	for {
		switch {
		case token.Is(tok, "*"):
			start := tok
			right, rest := p.parseUnary(tok.Next)
			node, tok = newBinary(ast.MUL, start, node, right), rest
		case token.Is(tok, "/"):
			start := tok
			right, rest := p.parseUnary(tok.Next)
			node, tok = newBinary(ast.DIV, start, node, right), rest
		default:
			return node, tok
		}
	}
}

// unary = ("+" | "-" | "*" | "&") unary | postfix
func (p *Parser) parseUnary(tok *token.Token) (*ast.Node, *token.Token) {
	switch {
	case token.Is(tok, "+"):
		return p.parseUnary(tok.Next)
	case token.Is(tok, "-"):
		start := tok
		operand, rest := p.parseUnary(tok.Next)
		return newUnary(ast.NEGATE, start, operand), rest
	case token.Is(tok, "&"):
		start := tok
		operand, rest := p.parseUnary(tok.Next)
		return newUnary(ast.ADDRESS, start, operand), rest
	case token.Is(tok, "*"):
		start := tok
		operand, rest := p.parseUnary(tok.Next)
		return newUnary(ast.DEREF, start, operand), rest
	default:
		return p.parsePostfix(tok)
	}
}

// postfix = primary ("[" expr "]" | "." ident | "->" ident)*
func (p *Parser) parsePostfix(tok *token.Token) (*ast.Node, *token.Token) {
	node, tok := p.parsePrimary(tok)

	for {
		switch {
		case token.Is(tok, "["):
			start := tok
			index, rest := p.parseExpression(tok.Next)
			node = p.createAddNode(start, node, index)
			node = newUnary(ast.DEREF, start, node)
			tok = token.SkipIf(rest, "]")
		case token.Is(tok, "."):
			node = p.createMemberNode(tok, node, tok.Next)
			tok = tok.Next.Next
		case token.Is(tok, "->"):
			deref := newUnary(ast.DEREF, tok, node)
			node = p.createMemberNode(tok, deref, tok.Next)
			tok = tok.Next.Next
		default:
			return node, tok
		}
	}
}

// primary = "(" "{" stmt+ "}" ")" | "(" expr ")"
//         | "sizeof" unary | ident func-args? | str | num
func (p *Parser) parsePrimary(tok *token.Token) (*ast.Node, *token.Token) {
	if token.Is(tok, "(") && token.Is(tok.Next, "{") {
		node := &ast.Node{Kind: ast.STMT_EXPR, Token: tok}
		block, rest := p.parseCompoundStatement(tok.Next.Next)
		node.Body = block.Body
		return node, token.SkipIf(rest, ")")
	}

	if token.Is(tok, "(") {
		expr, rest := p.parseExpression(tok.Next)
		return expr, token.SkipIf(rest, ")")
	}

	if token.Is(tok, "sizeof") {
		operand, rest := p.parseUnary(tok.Next)
		ast.Annotate(p.src, operand)
		return newNumber(tok, int64(operand.Type.Size)), rest
	}

	if tok.Kind == token.IDENT {
		if token.Is(tok.Next, "(") {
			return p.parseFunctionCall(tok)
		}

		variable, ok := p.findVariable(tok.Lexeme)
		if !ok {
			p.src.Errorf(tok.ByteOffset, "undefined variable: %s", tok.Lexeme)
			return newNumber(tok, 0), tok.Next
		}
		return newVariable(tok, variable), tok.Next
	}

	if tok.Kind == token.STRING {
		variable := p.createGlobalVariable(p.uniqueName(), tok.LiteralType)
		variable.HasInitialData = true
		variable.InitialData = []byte(tok.Lexeme)
		return newVariable(tok, variable), tok.Next
	}

	if tok.Kind == token.DIGIT {
		return newNumber(tok, tok.NumberValue), tok.Next
	}

	p.src.Errorf(tok.ByteOffset, "expected an expression")
	return newNumber(tok, 0), tok.Next
}

// funcall = ident "(" (assign ("," assign)*)? ")"
func (p *Parser) parseFunctionCall(tok *token.Token) (*ast.Node, *token.Token) {
	start := tok
	tok = tok.Next.Next // skip name and "("

	head := &ast.Node{}
	current := head

	for !token.Is(tok, ")") {
		if current != head {
			tok = token.SkipIf(tok, ",")
		}
		arg, rest := p.parseAssignment(tok)
		current.Next = arg
		current = arg
		tok = rest
	}
	tok = token.SkipIf(tok, ")")

	return &ast.Node{Kind: ast.FUNCALL, Token: start, FunctionName: start.Lexeme, Arguments: head.Next}, tok
}
