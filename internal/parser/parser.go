// Package parser builds an internal/ast tree from a token stream using
// recursive descent for statements/declarations and Pratt (precedence
// climbing) parsing for expressions.
package parser

import (
	"fmt"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/token"
)

// ---------------------------------------------------------------------------
// Precedence levels for Pratt expression parsing
// ---------------------------------------------------------------------------

const (
	precNone       = iota
	precOr         // ||
	precAnd        // &&
	precEquality   // == !=
	precComparison // < <= > >=
	precBitOr      // |
	precBitXor     // ^
	precBitAnd     // &
	precShift      // << >> <| |>
	precAdditive   // + -
	precMultiply   // * / %
	precCast       // as, to
	precUnary      // - ~ !
	precCall       // () .
)

var binaryPrecedence = map[token.Kind]int{
	token.OR:  precOr,
	token.AND: precAnd,

	token.EQ:  precEquality,
	token.NEQ: precEquality,

	token.LT:  precComparison,
	token.LTE: precComparison,
	token.GT:  precComparison,
	token.GTE: precComparison,

	token.PIPE:  precBitOr,
	token.CARET: precBitXor,
	token.AMP:   precBitAnd,

	token.SHL:  precShift,
	token.SHR:  precShift,
	token.ROTL: precShift,
	token.ROTR: precShift,

	token.PLUS:  precAdditive,
	token.MINUS: precAdditive,

	token.STAR:    precMultiply,
	token.SLASH:   precMultiply,
	token.PERCENT: precMultiply,

	token.KwAs: precCast,
	token.KwTo: precCast,
}

// ParseError is a single error found during parsing.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Column, e.Message)
}

// Parser holds the state for a single parse pass over a token stream.
type Parser struct {
	tokens []token.Token
	pos    int
	errors []ParseError
}

// Parse is the main entry point: it takes a token slice as produced by
// internal/lexer and returns an AST root (kind Program) plus any parse
// errors collected. Parsing never aborts outright — on a malformed
// declaration it records an error and skips to the next likely
// declaration boundary so later, unrelated errors also surface.
func Parse(tokens []token.Token) (*ast.Node, []ParseError) {
	p := &Parser{tokens: tokens}
	root := p.parseProgram()
	return root, p.errors
}

// ---------------------------------------------------------------------------
// Token helpers
// ---------------------------------------------------------------------------

func (p *Parser) peek() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= 0 && idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of kind k or records a parse error and returns
// a zero-valued token, letting the caller build a syntactically-shaped
// (but semantically invalid) node rather than aborting the whole parse.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.check(k) {
		return p.advance()
	}
	tok := p.peek()
	p.errorf(tok, "expected %s, got %s %q", k, tok.Kind, tok.Value)
	return tok
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, ParseError{Message: fmt.Sprintf(format, args...), Line: tok.Line, Column: tok.Column})
}

// skipToNextStatement advances past tokens until a NEWLINE/DEDENT/EOF, so
// one malformed statement doesn't cascade into spurious follow-on errors.
func (p *Parser) skipToNextStatement() {
	for !p.check(token.NEWLINE) && !p.check(token.DEDENT) && !p.check(token.EOF) {
		p.advance()
	}
	p.match(token.NEWLINE)
}

func isTypeKeyword(k token.Kind) bool {
	_, ok := token.PrimitiveKeywords[k]
	return ok
}

func (p *Parser) atTypeAnnotation() bool {
	return isTypeKeyword(p.peek().Kind) || p.check(token.IDENT)
}

// ---------------------------------------------------------------------------
// Program / top-level declarations
// ---------------------------------------------------------------------------

func (p *Parser) parseProgram() *ast.Node {
	root := ast.New(ast.Program, token.Token{Kind: token.EOF, Line: 1, Column: 1})
	for !p.check(token.EOF) {
		if p.match(token.NEWLINE) {
			continue
		}
		if decl := p.parseTopLevelDecl(); decl != nil {
			root.Append(decl)
		}
	}
	return root
}

func (p *Parser) parseTopLevelDecl() *ast.Node {
	switch p.peek().Kind {
	case token.KwStruct:
		return p.parseStructDef()
	case token.KwConst:
		tok := p.advance()
		inner := p.parseTopLevelDecl()
		if inner == nil {
			return nil
		}
		return ast.New(ast.Const, tok, inner)
	case token.KwExport:
		tok := p.advance()
		inner := p.parseTopLevelDecl()
		if inner == nil {
			return nil
		}
		return ast.New(ast.Export, tok, inner)
	case token.KwMap:
		return p.parseMapDecl()
	}
	if p.atTypeAnnotation() {
		return p.parseTypedTopLevelDecl()
	}
	tok := p.peek()
	p.errorf(tok, "expected a declaration, got %s %q", tok.Kind, tok.Value)
	p.skipToNextStatement()
	return nil
}

// parseTypedTopLevelDecl disambiguates a FunctionDef from a Global
// variable declaration: both start with a type annotation and an
// identifier, but a FunctionDef's identifier is followed by '('.
func (p *Parser) parseTypedTopLevelDecl() *ast.Node {
	if p.peekAt(1).Kind == token.IDENT && p.peekAt(2).Kind == token.LPAREN {
		return p.parseFunctionDef()
	}
	return p.parseGlobalDecl()
}

func (p *Parser) parseType() *ast.Node {
	tok := p.peek()
	if isTypeKeyword(tok.Kind) || p.check(token.IDENT) {
		p.advance()
		return ast.New(ast.Type, tok)
	}
	p.errorf(tok, "expected a type name, got %s %q", tok.Kind, tok.Value)
	return ast.New(ast.Type, tok)
}

func (p *Parser) parseStructDef() *ast.Node {
	structTok := p.advance() // 'struct'
	nameTok := p.expect(token.IDENT)
	p.expect(token.NEWLINE)
	p.expect(token.INDENT)

	fields := ast.New(ast.Fields, structTok)
	for !p.check(token.DEDENT) && !p.check(token.EOF) {
		if p.match(token.NEWLINE) {
			continue
		}
		typ := p.parseType()
		fieldTok := p.expect(token.IDENT)
		fields.Append(ast.New(ast.VariableDef, fieldTok, typ))
		p.expect(token.NEWLINE)
	}
	p.expect(token.DEDENT)

	n := ast.New(ast.StructDef, nameTok, fields)
	return n
}

func (p *Parser) parseGlobalDecl() *ast.Node {
	typ := p.parseType()
	nameTok := p.expect(token.IDENT)
	varDef := ast.New(ast.VariableDef, nameTok, typ)
	p.expect(token.ASSIGN)
	value := p.parseExpr(precNone)
	p.expect(token.NEWLINE)
	return ast.New(ast.Global, nameTok, varDef, value)
}

func (p *Parser) parseMapDecl() *ast.Node {
	mapTok := p.advance() // 'map'
	typ := p.parseType()
	nameTok := p.expect(token.IDENT)
	varDef := ast.New(ast.VariableDef, nameTok, typ)
	offsetTok := p.expect(token.INT)
	offset := ast.New(ast.Literal, offsetTok)
	p.expect(token.NEWLINE)
	return ast.New(ast.Map, mapTok, varDef, offset)
}

func (p *Parser) parseFunctionDef() *ast.Node {
	typ := p.parseType()
	nameTok := p.expect(token.IDENT)
	p.expect(token.LPAREN)

	params := ast.New(ast.Parameters, nameTok)
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		ptyp := p.parseType()
		ptok := p.expect(token.IDENT)
		params.Append(ast.New(ast.VariableDef, ptok, ptyp))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.NEWLINE)

	body := p.parseBlock()
	return ast.New(ast.FunctionDef, nameTok, typ, params, body)
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (p *Parser) parseBlock() *ast.Node {
	openTok := p.peek()
	p.expect(token.INDENT)
	block := ast.New(ast.Block, openTok)
	for !p.check(token.DEDENT) && !p.check(token.EOF) {
		if p.match(token.NEWLINE) {
			continue
		}
		for _, stmt := range p.parseStatement() {
			block.Append(stmt)
		}
	}
	p.expect(token.DEDENT)
	return block
}

// parseStatement returns a slice because a local initialized variable
// declaration ("int x = 5" inside a function body) desugars into two
// sibling statements — a bare VariableDef and a following Assignment —
// since Global is reserved for program-scope declarations only (spec
// §4.5 describes Global's semantics as specifically "at program scope").
func (p *Parser) parseStatement() []*ast.Node {
	switch p.peek().Kind {
	case token.KwReturn:
		return []*ast.Node{p.parseReturnStatement()}
	case token.KwConst, token.KwExport:
		tok := p.advance()
		kind := ast.Const
		if tok.Kind == token.KwExport {
			kind = ast.Export
		}
		inner := p.parseStatement()
		if len(inner) == 0 {
			return nil
		}
		return []*ast.Node{ast.New(kind, tok, inner[0])}
	}

	if p.atTypeAnnotation() && p.peekAt(1).Kind == token.IDENT {
		return p.parseLocalVariableDecl()
	}

	return []*ast.Node{p.parseExprStatement()}
}

func (p *Parser) parseReturnStatement() *ast.Node {
	tok := p.advance()
	if p.check(token.NEWLINE) || p.check(token.EOF) {
		p.expect(token.NEWLINE)
		return ast.New(ast.ReturnVoid, tok)
	}
	value := p.parseExpr(precNone)
	p.expect(token.NEWLINE)
	return ast.New(ast.Return, tok, value)
}

func (p *Parser) parseLocalVariableDecl() []*ast.Node {
	typ := p.parseType()
	nameTok := p.expect(token.IDENT)
	varDef := ast.New(ast.VariableDef, nameTok, typ)
	if !p.match(token.ASSIGN) {
		p.expect(token.NEWLINE)
		return []*ast.Node{varDef}
	}
	value := p.parseExpr(precNone)
	p.expect(token.NEWLINE)
	target := ast.New(ast.VariableID, nameTok)
	assign := ast.New(ast.Assignment, nameTok, target, value)
	return []*ast.Node{varDef, assign}
}

func (p *Parser) parseExprStatement() *ast.Node {
	expr := p.parseExpr(precNone)
	if p.match(token.ASSIGN) {
		eqTok := p.tokens[p.pos-1]
		value := p.parseExpr(precNone)
		p.expect(token.NEWLINE)
		return ast.New(ast.Assignment, eqTok, expr, value)
	}
	p.expect(token.NEWLINE)
	return expr
}

// ---------------------------------------------------------------------------
// Expressions (precedence climbing)
// ---------------------------------------------------------------------------

func (p *Parser) parseExpr(minPrec int) *ast.Node {
	left := p.parseUnary()
	for {
		tok := p.peek()
		prec, ok := binaryPrecedence[tok.Kind]
		if !ok || prec < minPrec {
			return left
		}
		p.advance()
		if tok.Kind == token.KwAs || tok.Kind == token.KwTo {
			right := p.parseType()
			left = ast.New(ast.BinaryOp, tok, left, right)
			continue
		}
		right := p.parseExpr(prec + 1)
		left = ast.New(ast.BinaryOp, tok, left, right)
	}
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.peek().Kind {
	case token.MINUS, token.TILDE, token.BANG:
		tok := p.advance()
		operand := p.parseUnary()
		return ast.New(ast.UnaryOp, tok, operand)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *ast.Node {
	n := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.DOT:
			dotTok := p.advance()
			memberTok := p.expect(token.IDENT)
			member := ast.New(ast.VariableID, memberTok)
			n = ast.New(ast.Access, dotTok, n, member)
		case token.LPAREN:
			n = p.parseCall(n)
		default:
			return n
		}
	}
}

// parseCall converts a bare identifier/access callee into a
// FunctionID/Access-with-FunctionID node, since the callee position
// resolves through the function symbol table rather than the variable
// one.
func (p *Parser) parseCall(callee *ast.Node) *ast.Node {
	openTok := p.advance() // '('
	callee = reinterpretAsCallee(callee)

	args := ast.New(ast.Arguments, openTok)
	for !p.check(token.RPAREN) && !p.check(token.EOF) {
		args.Append(p.parseExpr(precNone))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return ast.New(ast.FunctionCall, openTok, callee, args)
}

// reinterpretAsCallee retags a VariableID (or the innermost member of an
// Access chain) as a FunctionID, since the parser builds identifiers as
// VariableID by default and only learns a call follows once it sees '('.
func reinterpretAsCallee(n *ast.Node) *ast.Node {
	if n.Kind == ast.VariableID {
		return ast.New(ast.FunctionID, n.Token)
	}
	if n.Kind == ast.Access {
		member := n.Child(1)
		if member != nil && member.Kind == ast.VariableID {
			fnMember := ast.New(ast.FunctionID, member.Token)
			return ast.New(ast.Access, n.Token, n.Child(0), fnMember)
		}
	}
	return n
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.INT, token.UINT, token.LONG, token.ULONG, token.FLOAT, token.DOUBLE:
		p.advance()
		return ast.New(ast.Literal, tok)
	case token.KwTrue, token.KwFalse:
		p.advance()
		lit := ast.New(ast.Literal, tok)
		lit.Token.Kind = token.BOOL
		return lit
	case token.IDENT:
		p.advance()
		return ast.New(ast.VariableID, tok)
	default:
		// A primitive-type keyword (int, float, ...) heads a builtin
		// dotted-path expression like int.load(addr); treat it as an
		// ordinary identifier so parsePostfix's Access/Call handling
		// applies uniformly (spec §4.6 catalog is looked up by name).
		if isTypeKeyword(tok.Kind) {
			p.advance()
			return ast.New(ast.VariableID, tok)
		}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr(precNone)
		p.expect(token.RPAREN)
		return inner
	}
	p.errorf(tok, "expected an expression, got %s %q", tok.Kind, tok.Value)
	p.advance()
	return ast.New(ast.Literal, token.Token{Kind: token.INT, Value: "0", Line: tok.Line, Column: tok.Column})
}
