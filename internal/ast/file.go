package ast

import (
	"keel/internal/source"
)

// FileNode is the root of one source file: declarations plus top-level
// executable statements, in source order.
type FileNode struct {
	Span  source.Span
	Items []ItemID
	Stmts []StmtID
}

// Files stores file roots.
type Files struct {
	Arena *Arena[FileNode]
}

func NewFiles(capHint uint) *Files {
	if capHint == 0 {
		capHint = 1 << 4
	}
	return &Files{Arena: NewArena[FileNode](capHint)}
}

// New allocates an empty file root.
func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(FileNode{Span: sp}))
}

// Get returns the file root, or nil for NoFileID.
func (f *Files) Get(id FileID) *FileNode {
	return f.Arena.Get(uint32(id))
}
