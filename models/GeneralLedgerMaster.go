package models

import "github.com/shopspring/decimal"

// GeneralLedgerMaster holds the running balance of one account and cost
// centre combination for a financial year.
type GeneralLedgerMaster struct {
	GlmSequence    int             `json:"glmSequence" gorm:"primaryKey"`
	LedgerNumber   int             `json:"ledgerNumber" gorm:"not null;index"`
	Year           int             `json:"year" gorm:"not null"`
	AccountCode    string          `json:"accountCode" gorm:"type:varchar(16);not null;index"`
	CostCentreCode string          `json:"costCentreCode" gorm:"type:varchar(16);not null;index"`
	YtdActualBase  decimal.Decimal `json:"ytdActualBase" gorm:"type:decimal(18,2);not null"`
}

func (GeneralLedgerMaster) TableName() string { return "a_general_ledger_master" }

type Budget struct {
	BudgetSequence int             `json:"budgetSequence" gorm:"primaryKey"`
	LedgerNumber   int             `json:"ledgerNumber" gorm:"not null;index"`
	Year           int             `json:"year" gorm:"not null"`
	Revision       int             `json:"revision" gorm:"not null"`
	AccountCode    string          `json:"accountCode" gorm:"type:varchar(16);not null"`
	CostCentreCode string          `json:"costCentreCode" gorm:"type:varchar(16);not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
}

func (Budget) TableName() string { return "a_budget" }
