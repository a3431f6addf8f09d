package replay

// Expr is an expression of generated code.
type Expr interface {
	exprNode()
}

// Ident is a variable, extern or class name.
type Ident struct {
	Name string
}

// Literal is nil, a bool, an int, a float64 or a string.
type Literal struct {
	Value any
}

// List is a bracketed sequence.
type List struct {
	Elems []Expr
}

// Keyword is one keyword argument of a call.
type Keyword struct {
	Name  string
	Value Expr
}

// Call applies Func to arguments. Func is an Ident for constructors and
// commands, or a Selector for method calls.
type Call struct {
	Func Expr
	Args []Expr
	Kw   []Keyword
}

// Selector is an attribute access, x.Name.
type Selector struct {
	X    Expr
	Name string
}

// Index is an item access, x["key"].
type Index struct {
	X   Expr
	Key Expr
}

func (*Ident) exprNode()    {}
func (*Literal) exprNode()  {}
func (*List) exprNode()     {}
func (*Call) exprNode()     {}
func (*Selector) exprNode() {}
func (*Index) exprNode()    {}

// Stmt is one line of generated code.
type Stmt interface {
	// Line is the 1-based source line of the statement.
	Line() int
}

// AssignStmt binds Name to the value of X.
type AssignStmt struct {
	Pos  int
	Name string
	X    Expr
}

// ExprStmt evaluates X for its side effects.
type ExprStmt struct {
	Pos int
	X   Expr
}

// AttrStmt sets an attribute: Target.Name = X.
type AttrStmt struct {
	Pos    int
	Target Expr
	Name   string
	X      Expr
}

// ItemStmt sets an item: Target[Key] = X.
type ItemStmt struct {
	Pos    int
	Target Expr
	Key    Expr
	X      Expr
}

// CommentStmt is a comment line.
type CommentStmt struct {
	Pos  int
	Text string
}

func (s *AssignStmt) Line() int  { return s.Pos }
func (s *ExprStmt) Line() int    { return s.Pos }
func (s *AttrStmt) Line() int    { return s.Pos }
func (s *ItemStmt) Line() int    { return s.Pos }
func (s *CommentStmt) Line() int { return s.Pos }

// Program is parsed generated code.
type Program struct {
	Stmts []Stmt
}
