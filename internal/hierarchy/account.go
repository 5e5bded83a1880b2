package hierarchy

import (
	"errors"
	"sort"
	"strings"

	"gl-setup/internal/store"
	"gl-setup/internal/treedoc"
	"gl-setup/internal/verification"
	"gl-setup/models"
)

var accountAttributes = []string{
	"active", "type", "debitcredit", "validcc",
	"shortdesc", "longdesc", "localdesc", "locallongdesc",
	"bankaccount", "suspense", "currency",
}

var accountFlags = map[string]bool{"bankaccount": true, "suspense": true}

var accountTypes = []string{
	models.AccountTypeAsset,
	models.AccountTypeLiability,
	models.AccountTypeEquity,
	models.AccountTypeIncome,
	models.AccountTypeExpense,
}

// Asset and expense accounts are debit accounts.
func debitByDefault(accountType string) bool {
	return accountType == models.AccountTypeAsset || accountType == models.AccountTypeExpense
}

var accountReferences = []reference{
	{&models.Transaction{}, "account_code", "transactions", false},
	{&models.GeneralLedgerMaster{}, "account_code", "general ledger balances", false},
	{&models.Budget{}, "account_code", "budgets", false},
	{&models.MotivationDetail{}, "account_code", "motivation details", false},
	{&models.MotivationDetail{}, "tax_deductible_account_code", "motivation details as tax deductible account", false},
	{&models.FeesPayable{}, "account_code", "fees payable", false},
	{&models.FeesPayable{}, "dr_account_code", "fees payable as debit account", false},
	{&models.FeesReceivable{}, "account_code", "fees receivable", false},
	{&models.FeesReceivable{}, "dr_account_code", "fees receivable as debit account", false},
	{&models.ApDocumentDetail{}, "account_code", "AP documents", false},
	{&models.ApSupplier{}, "default_exp_account", "supplier defaults as expense account", true},
	{&models.ApSupplier{}, "default_ap_account", "supplier defaults as AP account", true},
	{&models.ApSupplier{}, "default_bank_account", "supplier defaults as bank account", true},
	{&models.Ledger{}, "forex_gains_losses_account", "the ledger as forex gains and losses account", false},
	{&models.Ledger{}, "ret_earnings_account", "the ledger as retained earnings account", false},
}

type accountAdapter struct{}

func (accountAdapter) label() string { return "Account" }

func (accountAdapter) invalidates() []string {
	return []string{"AccountList", "AccountHierarchyList", "AnalysisAttributeList"}
}

func (a accountAdapter) resolve(el *treedoc.Element, parent *Node, vr *verification.Results) Node {
	r := attrReader{el: el, ctx: a.label() + " " + el.Name, vr: vr}
	r.unknown(accountAttributes)

	inheritedType, inheritedCC := "", models.ValidCCAll
	if parent != nil {
		inheritedType, inheritedCC = parent.Attrs["type"], parent.Attrs["validcc"]
	}
	typ := r.choice("type", inheritedType, accountTypes...)
	if typ == "" {
		if _, given := el.Attr("type"); !given {
			vr.Critical(verification.CodeInvalidAttribute, r.ctx, "the top level account needs a type")
		}
	}

	debit := debitByDefault(typ)
	if v, ok := el.Attr("debitcredit"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "debit":
			debit = true
		case "credit":
			debit = false
		default:
			if b, valid := parseBool(v); valid {
				debit = b
			} else {
				r.invalid("debitcredit", v, "debit", "credit")
			}
		}
	}

	currency := strings.ToUpper(r.str("currency"))

	return Node{
		Code: el.Name,
		Attrs: map[string]string{
			"active":        boolString(r.flag("active", true)),
			"type":          typ,
			"debitcredit":   debitCredit(debit),
			"validcc":       r.choice("validcc", inheritedCC, models.ValidCCAll, models.ValidCCLocal, models.ValidCCForeign),
			"shortdesc":     r.str("shortdesc"),
			"longdesc":      r.str("longdesc"),
			"localdesc":     r.str("localdesc"),
			"locallongdesc": r.str("locallongdesc"),
			"bankaccount":   boolString(r.flag("bankaccount", false)),
			"suspense":      boolString(r.flag("suspense", false)),
			"currency":      currency,
		},
	}
}

func debitCredit(debit bool) string {
	if debit {
		return "debit"
	}
	return "credit"
}

func (accountAdapter) attributes(n *Node) []treedoc.Attr {
	return emit(n, accountAttributes, accountFlags)
}

func accountNode(acc *models.Account, bank, suspense bool) *Node {
	currency := ""
	if acc.ForeignCurrencyFlag {
		currency = acc.ForeignCurrencyCode
	}
	return &Node{
		Code:           acc.AccountCode,
		Posting:        acc.PostingStatus,
		System:         acc.SystemAccountFlag,
		ModificationID: acc.ModificationID,
		Attrs: map[string]string{
			"active":        boolString(acc.AccountActiveFlag),
			"type":          acc.AccountType,
			"debitcredit":   debitCredit(acc.DebitCreditIndicator),
			"validcc":       acc.ValidCCCombo,
			"shortdesc":     acc.ShortDesc,
			"longdesc":      acc.LongDesc,
			"localdesc":     acc.LocalShortDesc,
			"locallongdesc": acc.LocalLongDesc,
			"bankaccount":   boolString(bank),
			"suspense":      boolString(suspense),
			"currency":      currency,
		},
	}
}

func (accountAdapter) load(tx *store.Tx, ledger int, hierarchy string) (*snapshot, error) {
	snap := &snapshot{nodes: map[string]*Node{}}

	var h models.AccountHierarchy
	err := tx.LoadByKey(&h, map[string]any{"ledger_number": ledger, "account_hierarchy_code": hierarchy})
	switch {
	case err == nil:
		snap.root, snap.exists = h.RootAccountCode, true
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	var accounts []models.Account
	if err := tx.LoadUsingTemplate(&accounts, &models.Account{LedgerNumber: ledger}, "account_code"); err != nil {
		return nil, err
	}
	var props []models.AccountProperty
	if err := tx.LoadUsingTemplate(&props, &models.AccountProperty{LedgerNumber: ledger, PropertyCode: models.PropertyBankAccount}); err != nil {
		return nil, err
	}
	var suspense []models.SuspenseAccount
	if err := tx.LoadUsingTemplate(&suspense, &models.SuspenseAccount{LedgerNumber: ledger}); err != nil {
		return nil, err
	}
	var details []models.AccountHierarchyDetail
	if hierarchy != "" {
		if err := tx.LoadUsingTemplate(&details, &models.AccountHierarchyDetail{LedgerNumber: ledger, AccountHierarchyCode: hierarchy}); err != nil {
			return nil, err
		}
	}

	bank := map[string]bool{}
	for _, p := range props {
		b, _ := parseBool(p.PropertyValue)
		bank[p.AccountCode] = b
	}
	susp := map[string]bool{}
	for _, s := range suspense {
		susp[s.SuspenseAccountCode] = true
	}
	for i := range accounts {
		acc := &accounts[i]
		snap.nodes[acc.AccountCode] = accountNode(acc, bank[acc.AccountCode], susp[acc.AccountCode])
	}
	for _, d := range details {
		snap.edges = append(snap.edges, edge{child: d.ReportingAccountCode, parent: d.AccountCodeToReportTo, order: d.ReportOrder})
		if n, ok := snap.nodes[d.ReportingAccountCode]; ok {
			n.Parent, n.Order = d.AccountCodeToReportTo, d.ReportOrder
		}
	}
	return snap, nil
}

func (accountAdapter) prepare(tx *store.Tx, ledger int, hierarchy string, snap *snapshot, root string) error {
	if _, err := tx.Delete(&models.AccountHierarchyDetail{}, map[string]any{
		"ledger_number":          ledger,
		"account_hierarchy_code": hierarchy,
	}); err != nil {
		return err
	}
	if snap.exists {
		return nil
	}
	return tx.Insert(&models.AccountHierarchy{
		LedgerNumber:         ledger,
		AccountHierarchyCode: hierarchy,
		RootAccountCode:      root,
	})
}

func (accountAdapter) save(tx *store.Tx, ledger int, hierarchy string, n *Node, prev *Node) error {
	key := map[string]any{"ledger_number": ledger, "account_code": n.Code}
	foreign := n.Attrs["currency"] != ""

	if prev == nil {
		err := tx.Insert(&models.Account{
			LedgerNumber:         ledger,
			AccountCode:          n.Code,
			AccountType:          n.Attrs["type"],
			DebitCreditIndicator: n.Attrs["debitcredit"] == "debit",
			AccountActiveFlag:    n.Attrs["active"] == "true",
			PostingStatus:        n.Posting,
			ForeignCurrencyFlag:  foreign,
			ForeignCurrencyCode:  n.Attrs["currency"],
			ShortDesc:            n.Attrs["shortdesc"],
			LongDesc:             n.Attrs["longdesc"],
			LocalShortDesc:       n.Attrs["localdesc"],
			LocalLongDesc:        n.Attrs["locallongdesc"],
			ValidCCCombo:         n.Attrs["validcc"],
			ModificationID:       store.NewModificationID(),
		})
		if err != nil {
			return err
		}
	} else {
		_, err := tx.UpdateVersioned(&models.Account{}, key, prev.ModificationID, map[string]any{
			"account_type":           n.Attrs["type"],
			"debit_credit_indicator": n.Attrs["debitcredit"] == "debit",
			"account_active_flag":    n.Attrs["active"] == "true",
			"posting_status":         n.Posting,
			"foreign_currency_flag":  foreign,
			"foreign_currency_code":  n.Attrs["currency"],
			"short_desc":             n.Attrs["shortdesc"],
			"long_desc":              n.Attrs["longdesc"],
			"local_short_desc":       n.Attrs["localdesc"],
			"local_long_desc":        n.Attrs["locallongdesc"],
			"valid_cc_combo":         n.Attrs["validcc"],
		})
		if err != nil {
			return err
		}
		if _, err := tx.Delete(&models.AccountProperty{}, map[string]any{
			"ledger_number": ledger, "account_code": n.Code, "property_code": models.PropertyBankAccount,
		}); err != nil {
			return err
		}
		if _, err := tx.Delete(&models.SuspenseAccount{}, map[string]any{
			"ledger_number": ledger, "suspense_account_code": n.Code,
		}); err != nil {
			return err
		}
	}

	if n.Attrs["bankaccount"] == "true" {
		if err := tx.Insert(&models.AccountProperty{
			LedgerNumber:  ledger,
			AccountCode:   n.Code,
			PropertyCode:  models.PropertyBankAccount,
			PropertyValue: "true",
		}); err != nil {
			return err
		}
	}
	if n.Attrs["suspense"] == "true" {
		if err := tx.Insert(&models.SuspenseAccount{LedgerNumber: ledger, SuspenseAccountCode: n.Code}); err != nil {
			return err
		}
	}

	if n.Parent == "" {
		return nil
	}
	return tx.Insert(&models.AccountHierarchyDetail{
		LedgerNumber:          ledger,
		AccountHierarchyCode:  hierarchy,
		ReportingAccountCode:  n.Code,
		AccountCodeToReportTo: n.Parent,
		ReportOrder:           n.Order,
	})
}

// stale skips accounts that another hierarchy of the ledger still uses.
func (accountAdapter) stale(tx *store.Tx, ledger int, hierarchy string, snap *snapshot, doc *tree) ([]string, error) {
	used := map[string]bool{}
	var others []models.AccountHierarchyDetail
	err := tx.Gorm().
		Where("ledger_number = ? AND account_hierarchy_code <> ?", ledger, hierarchy).
		Find(&others).Error
	if err != nil {
		return nil, err
	}
	for _, d := range others {
		used[d.ReportingAccountCode] = true
		used[d.AccountCodeToReportTo] = true
	}
	var roots []models.AccountHierarchy
	if err := tx.LoadUsingTemplate(&roots, &models.AccountHierarchy{LedgerNumber: ledger}); err != nil {
		return nil, err
	}
	for _, h := range roots {
		if h.AccountHierarchyCode != hierarchy {
			used[h.RootAccountCode] = true
		}
	}

	var out []string
	for code := range snap.nodes {
		if !doc.has(code) && !used[code] {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (accountAdapter) children(tx *store.Tx, ledger int, code string) (int64, error) {
	return tx.Count(&models.AccountHierarchyDetail{}, map[string]any{
		"ledger_number":             ledger,
		"account_code_to_report_to": code,
	})
}

func (a accountAdapter) guard(tx *store.Tx, ledger int, n *Node, vr *verification.Results) error {
	return guardReferences(tx, ledger, a.label()+" "+n.Code, n.Code, accountReferences, vr)
}

func (accountAdapter) remove(tx *store.Tx, ledger int, code string) error {
	deps := []struct {
		model any
		cond  map[string]any
	}{
		{&models.AccountProperty{}, map[string]any{"ledger_number": ledger, "account_code": code}},
		{&models.SuspenseAccount{}, map[string]any{"ledger_number": ledger, "suspense_account_code": code}},
		{&models.AnalysisAttribute{}, map[string]any{"ledger_number": ledger, "account_code": code}},
		{&models.AccountHierarchyDetail{}, map[string]any{"ledger_number": ledger, "reporting_account_code": code}},
		{&models.Account{}, map[string]any{"ledger_number": ledger, "account_code": code}},
	}
	for _, d := range deps {
		if _, err := tx.Delete(d.model, d.cond); err != nil {
			return err
		}
	}
	return nil
}
