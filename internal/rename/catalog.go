package rename

import "gl-setup/models"

// Target is a column holding an account or cost centre code by value.
type Target struct {
	Table  string
	Column string
	// LedgerScoped restricts the rewrite to rows of the renamed node's
	// ledger. Tables shared by all ledgers have no ledger column.
	LedgerScoped bool
	// Clone targets have the code in their primary key and are referenced by
	// other tables, so rows are copied under the new code and the originals
	// deleted afterwards instead of being updated in place.
	Clone bool
}

func (t Target) String() string { return t.Table + "." + t.Column }

var accountCatalog = []Target{
	{Table: "a_analysis_attribute", Column: "account_code", LedgerScoped: true, Clone: true},
	{Table: "a_trans_anal_attrib", Column: "account_code", LedgerScoped: true},
	{Table: "a_transaction", Column: "account_code", LedgerScoped: true},
	{Table: "a_general_ledger_master", Column: "account_code", LedgerScoped: true},
	{Table: "a_budget", Column: "account_code", LedgerScoped: true},
	{Table: "a_motivation_detail", Column: "account_code", LedgerScoped: true},
	{Table: "a_motivation_detail", Column: "tax_deductible_account_code", LedgerScoped: true},
	{Table: "a_fees_payable", Column: "account_code", LedgerScoped: true},
	{Table: "a_fees_payable", Column: "dr_account_code", LedgerScoped: true},
	{Table: "a_fees_receivable", Column: "account_code", LedgerScoped: true},
	{Table: "a_fees_receivable", Column: "dr_account_code", LedgerScoped: true},
	{Table: "a_ap_document_detail", Column: "account_code", LedgerScoped: true},
	{Table: "a_ap_supplier", Column: "default_exp_account"},
	{Table: "a_ap_supplier", Column: "default_ap_account"},
	{Table: "a_ap_supplier", Column: "default_bank_account"},
	{Table: "a_account_property", Column: "account_code", LedgerScoped: true},
	{Table: "a_suspense_account", Column: "suspense_account_code", LedgerScoped: true},
	{Table: "a_account_hierarchy_detail", Column: "reporting_account_code", LedgerScoped: true},
	{Table: "a_account_hierarchy_detail", Column: "account_code_to_report_to", LedgerScoped: true},
	{Table: "a_account_hierarchy", Column: "root_account_code", LedgerScoped: true},
	{Table: "a_ledger", Column: "forex_gains_losses_account", LedgerScoped: true},
	{Table: "a_ledger", Column: "ret_earnings_account", LedgerScoped: true},
}

var costCentreCatalog = []Target{
	{Table: "a_cost_centre", Column: "cost_centre_to_report_to", LedgerScoped: true},
	{Table: "a_transaction", Column: "cost_centre_code", LedgerScoped: true},
	{Table: "a_general_ledger_master", Column: "cost_centre_code", LedgerScoped: true},
	{Table: "a_budget", Column: "cost_centre_code", LedgerScoped: true},
	{Table: "a_motivation_detail", Column: "cost_centre_code", LedgerScoped: true},
	{Table: "a_fees_payable", Column: "cost_centre_code", LedgerScoped: true},
	{Table: "a_fees_receivable", Column: "cost_centre_code", LedgerScoped: true},
	{Table: "a_ap_document_detail", Column: "cost_centre_code", LedgerScoped: true},
	{Table: "a_ap_supplier", Column: "default_cost_centre"},
	{Table: "a_valid_ledger_number", Column: "cost_centre_code", LedgerScoped: true},
}

// Catalog lists every column that refers to a code of kind, in the order the
// rename rewrites them. Any new table that stores a code by value has to be
// added here.
func Catalog(kind models.NodeKind) []Target {
	var src []Target
	switch kind {
	case models.KindAccount:
		src = accountCatalog
	case models.KindCostCentre:
		src = costCentreCatalog
	}
	return append([]Target(nil), src...)
}
