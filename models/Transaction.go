package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a posted GL transaction line. Its account and cost centre
// codes block deletion of the referenced nodes.
type Transaction struct {
	LedgerNumber         int             `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	BatchNumber          int             `json:"batchNumber" gorm:"primaryKey;autoIncrement:false"`
	JournalNumber        int             `json:"journalNumber" gorm:"primaryKey;autoIncrement:false"`
	TransactionNumber    int             `json:"transactionNumber" gorm:"primaryKey;autoIncrement:false"`
	AccountCode          string          `json:"accountCode" gorm:"type:varchar(16);not null;index"`
	CostCentreCode       string          `json:"costCentreCode" gorm:"type:varchar(16);not null;index"`
	TransactionAmount    decimal.Decimal `json:"transactionAmount" gorm:"type:decimal(18,2);not null"`
	DebitCreditIndicator bool            `json:"debitCreditIndicator" gorm:"not null"`
	Narrative            string          `json:"narrative" gorm:"type:varchar(255)"`
	TransactionDate      time.Time       `json:"transactionDate" gorm:"type:date"`
}

func (Transaction) TableName() string { return "a_transaction" }

// TransAnalAttrib attaches an analysis value to a transaction. It points at
// AnalysisAttribute through (ledger, account code, analysis type).
type TransAnalAttrib struct {
	LedgerNumber           int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	BatchNumber            int    `json:"batchNumber" gorm:"primaryKey;autoIncrement:false"`
	JournalNumber          int    `json:"journalNumber" gorm:"primaryKey;autoIncrement:false"`
	TransactionNumber      int    `json:"transactionNumber" gorm:"primaryKey;autoIncrement:false"`
	AnalysisTypeCode       string `json:"analysisTypeCode" gorm:"primaryKey;type:varchar(16)"`
	AccountCode            string `json:"accountCode" gorm:"type:varchar(16);not null"`
	AnalysisAttributeValue string `json:"analysisAttributeValue" gorm:"type:varchar(64)"`
}

func (TransAnalAttrib) TableName() string { return "a_trans_anal_attrib" }

// AnalysisAttribute enables an analysis type for an account. The account
// code is part of its key.
type AnalysisAttribute struct {
	LedgerNumber     int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	AnalysisTypeCode string `json:"analysisTypeCode" gorm:"primaryKey;type:varchar(16)"`
	AccountCode      string `json:"accountCode" gorm:"primaryKey;type:varchar(16)"`
	Active           bool   `json:"active" gorm:"not null"`
}

func (AnalysisAttribute) TableName() string { return "a_analysis_attribute" }
