package models

import "fmt"

// NodeKind selects which of the two ledger hierarchies an operation works on.
type NodeKind string

const (
	KindAccount    NodeKind = "account"
	KindCostCentre NodeKind = "costcentre"
)

func ParseNodeKind(s string) (NodeKind, error) {
	switch NodeKind(s) {
	case KindAccount, KindCostCentre:
		return NodeKind(s), nil
	case "cost-centre", "costcenter", "cc":
		return KindCostCentre, nil
	}
	return "", fmt.Errorf("unknown node kind %q", s)
}

// All lists every table the service migrates.
func All() []any {
	return []any{
		&Ledger{},
		&Account{},
		&AccountProperty{},
		&SuspenseAccount{},
		&AccountHierarchy{},
		&AccountHierarchyDetail{},
		&CostCentre{},
		&ValidLedgerNumber{},
		&Transaction{},
		&TransAnalAttrib{},
		&AnalysisAttribute{},
		&GeneralLedgerMaster{},
		&Budget{},
		&MotivationDetail{},
		&FeesPayable{},
		&FeesReceivable{},
		&ApSupplier{},
		&ApDocumentDetail{},
	}
}
