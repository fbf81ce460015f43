// Declaration sub-parser: declspec, declarator, type-suffix, and
// struct/union member layout. Grounded on original_source/src/Parser.cpp's
// declSpec/declarator/typeSuffix/functionParameters free functions,
// adapted to methods on Parser and extended to struct/union/short/long
// (absent from that particular snapshot, required by the grammar here).
package parser

import (
	"github.com/skx/yoctocc/token"
	"github.com/skx/yoctocc/types"
)

// declSpec parses "char" | "short" | "int" | "long" | struct-decl |
// union-decl.
func (p *Parser) declSpec(tok *token.Token) (*types.Type, *token.Token) {
	switch {
	case token.Is(tok, "char"):
		return types.CharType(), tok.Next
	case token.Is(tok, "short"):
		return types.ShortType(), tok.Next
	case token.Is(tok, "long"):
		return types.LongType(), tok.Next
	case token.Is(tok, "struct"):
		return p.structDecl(tok.Next)
	case token.Is(tok, "union"):
		return p.unionDecl(tok.Next)
	default:
		tok = token.SkipIf(tok, "int")
		return types.IntType(), tok
	}
}

// declarator = "*"* ident type-suffix
func (p *Parser) declarator(tok *token.Token, base *types.Type) (*types.Type, *token.Token) {
	typ := base
	for token.Is(tok, "*") {
		typ = types.PointerTo(typ)
		tok = tok.Next
	}

	if tok.Kind != token.IDENT {
		p.src.Errorf(tok.ByteOffset, "expected an identifier")
		return typ, tok
	}

	name := tok
	tok = tok.Next
	typ, tok = p.typeSuffix(tok, typ)
	typ.Name = types.NamePos{Lexeme: name.Lexeme, ByteOffset: name.ByteOffset, Line: name.Line}
	return typ, tok
}

// typeSuffix = "(" func-params | "[" num "]" type-suffix | ε
func (p *Parser) typeSuffix(tok *token.Token, base *types.Type) (*types.Type, *token.Token) {
	if token.Is(tok, "(") {
		return p.functionParams(tok.Next, base)
	}

	if token.Is(tok, "[") {
		size := int(tok.Next.NumberValue)
		tok = tok.Next.Next
		tok = token.SkipIf(tok, "]")
		inner, rest := p.typeSuffix(tok, base)
		return types.ArrayOf(inner, size), rest
	}

	return base, tok
}

// func-params = (param ("," param)*)? ")"
// param       = declspec declarator
func (p *Parser) functionParams(tok *token.Token, returnType *types.Type) (*types.Type, *token.Token) {
	var head, current *types.Type

	for !token.Is(tok, ")") {
		if head != nil {
			tok = token.SkipIf(tok, ",")
		}
		paramBase, rest := p.declSpec(tok)
		paramType, rest2 := p.declarator(rest, paramBase)
		if head == nil {
			head = paramType
		} else {
			current.Next = paramType
		}
		current = paramType
		tok = rest2
	}

	fn := types.FunctionType(returnType)
	fn.Parameters = head
	return fn, tok.Next
}

// isFunction speculatively parses a declarator starting from a dummy base
// type to decide whether the upcoming declaration is a function
// definition, without registering anything into scope.
func (p *Parser) isFunction(tok *token.Token) bool {
	if token.Is(tok, ";") {
		return false
	}
	dummy := &types.Type{Kind: types.UNKNOWN}
	typ, _ := p.declarator(tok, dummy)
	return typ.Kind == types.FUNCTION
}

// struct-union-decl = ident? ("{" struct-members)?
//
// structDecl lays members out sequentially; unionDecl overlays them at
// offset 0. Both forms register a named tag in the current tag scope when
// followed by "{", and look an existing tag up otherwise.
func (p *Parser) structDecl(tok *token.Token) (*types.Type, *token.Token) {
	return p.structUnionDecl(tok, types.STRUCT, types.LayoutStruct)
}

func (p *Parser) unionDecl(tok *token.Token) (*types.Type, *token.Token) {
	return p.structUnionDecl(tok, types.UNION, types.LayoutUnion)
}

func (p *Parser) structUnionDecl(tok *token.Token, kind types.Kind, layout func(*types.Member) (int, int)) (*types.Type, *token.Token) {
	var tagName *token.Token
	if tok.Kind == token.IDENT {
		tagName = tok
		tok = tok.Next
	}

	if !token.Is(tok, "{") {
		if tagName == nil {
			p.src.Errorf(tok.ByteOffset, "expected a struct/union tag or body")
			return &types.Type{Kind: kind}, tok
		}
		found, ok := p.scope.FindTag(tagName.Lexeme)
		if !ok {
			p.src.Errorf(tagName.ByteOffset, "unknown struct/union type")
			return &types.Type{Kind: kind}, tok
		}
		return found, tok
	}

	members, rest := p.structMembers(tok.Next)
	typ := &types.Type{Kind: kind, Members: members}
	typ.Size, typ.Alignment = layout(members)

	if tagName != nil {
		p.scope.PushTag(tagName.Lexeme, typ)
	}

	return typ, rest
}

// struct-members = (declspec declarator ("," declarator)* ";")* "}"
func (p *Parser) structMembers(tok *token.Token) (*types.Member, *token.Token) {
	var head, current *types.Member

	for !token.Is(tok, "}") {
		base, rest := p.declSpec(tok)
		first := true
		for !token.Is(rest, ";") {
			if !first {
				rest = token.SkipIf(rest, ",")
			}
			first = false

			memberType, rest2 := p.declarator(rest, base)
			member := &types.Member{Name: memberType.Name, Type: memberType}
			if head == nil {
				head = member
			} else {
				current.Next = member
			}
			current = member
			rest = rest2
		}
		tok = rest.Next
	}

	return head, tok.Next
}
