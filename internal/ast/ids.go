package ast

type (
	// top-level entities
	FileID uint32
	ItemID uint32
	StmtID uint32
	ExprID uint32
	// sub-entities
	PayloadID  uint32
	ParamID    uint32
	TypeExprID uint32
)

const (
	NoFileID     FileID     = 0
	NoItemID     ItemID     = 0
	NoStmtID     StmtID     = 0
	NoExprID     ExprID     = 0
	NoPayloadID  PayloadID  = 0
	NoParamID    ParamID    = 0
	NoTypeExprID TypeExprID = 0
)

func (id FileID) IsValid() bool     { return id != NoFileID }
func (id ItemID) IsValid() bool     { return id != NoItemID }
func (id StmtID) IsValid() bool     { return id != NoStmtID }
func (id ExprID) IsValid() bool     { return id != NoExprID }
func (id PayloadID) IsValid() bool  { return id != NoPayloadID }
func (id ParamID) IsValid() bool    { return id != NoParamID }
func (id TypeExprID) IsValid() bool { return id != NoTypeExprID }
