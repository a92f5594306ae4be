package main

// Category selects one of the independent namespaces of a Scope.
type Category int

const (
	CategoryType Category = iota
	CategoryEnum
	CategoryRecord
	CategoryVariable
	CategoryFunction
	numCategories
)

func (c Category) String() string {
	switch c {
	case CategoryType:
		return "type"
	case CategoryEnum:
		return "enum"
	case CategoryRecord:
		return "record"
	case CategoryVariable:
		return "variable"
	case CategoryFunction:
		return "function"
	}
	return "unknown"
}

// findOrder is the category order FindDefinition searches.
var findOrder = []Category{CategoryEnum, CategoryFunction, CategoryRecord, CategoryType, CategoryVariable}

// Scope is the symbol table of one lexical block. Entering a nested block
// clones it, so inner definitions never leak outward.
type Scope struct {
	tables [numCategories]map[string]*ASTNode
	// local holds names added at this level, as opposed to inherited ones.
	local [numCategories]map[string]bool
}

func NewScope() *Scope {
	s := &Scope{}
	for i := range s.tables {
		s.tables[i] = map[string]*ASTNode{}
		s.local[i] = map[string]bool{}
	}
	return s
}

var builtinTypeNames = []string{"Unit", "Boolean", "String", "Number", "Vec", "Promise", "Element"}

// NewRootScope returns a scope with the built-in types defined.
func NewRootScope() *Scope {
	s := NewScope()
	for _, name := range builtinTypeNames {
		s.tables[CategoryType][name] = builtinNode
	}
	return s
}

// Clone returns a copy for a nested block. Nothing in the copy counts as
// defined locally.
func (s *Scope) Clone() *Scope {
	c := NewScope()
	for i, table := range s.tables {
		for name, node := range table {
			c.tables[i][name] = node
		}
	}
	return c
}

// Snapshot returns a copy of the same block, local definitions included.
func (s *Scope) Snapshot() *Scope {
	c := s.Clone()
	for i, names := range s.local {
		for name := range names {
			c.local[i][name] = true
		}
	}
	return c
}

func (s *Scope) add(cat Category, name string, node *ASTNode) {
	s.tables[cat][name] = node
	s.local[cat][name] = true
}

func (s *Scope) AddType(name string, node *ASTNode)     { s.add(CategoryType, name, node) }
func (s *Scope) AddEnum(name string, node *ASTNode)     { s.add(CategoryEnum, name, node) }
func (s *Scope) AddRecord(name string, node *ASTNode)   { s.add(CategoryRecord, name, node) }
func (s *Scope) AddVariable(name string, node *ASTNode) { s.add(CategoryVariable, name, node) }
func (s *Scope) AddFunction(name string, node *ASTNode) { s.add(CategoryFunction, name, node) }

func (s *Scope) GetType(name string) *ASTNode     { return s.tables[CategoryType][name] }
func (s *Scope) GetEnum(name string) *ASTNode     { return s.tables[CategoryEnum][name] }
func (s *Scope) GetRecord(name string) *ASTNode   { return s.tables[CategoryRecord][name] }
func (s *Scope) GetVariable(name string) *ASTNode { return s.tables[CategoryVariable][name] }
func (s *Scope) GetFunction(name string) *ASTNode { return s.tables[CategoryFunction][name] }

// Get looks name up in one category.
func (s *Scope) Get(cat Category, name string) *ASTNode {
	return s.tables[cat][name]
}

// IsDefined reports whether name exists in any category.
func (s *Scope) IsDefined(name string) bool {
	return s.FindDefinition(name) != nil
}

// FindDefinition returns the first definition of name, searching enums,
// functions, records, types and variables in that order.
func (s *Scope) FindDefinition(name string) *ASTNode {
	for _, cat := range findOrder {
		if node, ok := s.tables[cat][name]; ok {
			return node
		}
	}
	return nil
}

// ClearDefinitionFor removes name from every category.
func (s *Scope) ClearDefinitionFor(name string) {
	for i := range s.tables {
		delete(s.tables[i], name)
		delete(s.local[i], name)
	}
}

// DefinedLocally reports whether name was added to cat at this level.
func (s *Scope) DefinedLocally(cat Category, name string) bool {
	return s.local[cat][name]
}
