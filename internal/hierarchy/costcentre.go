package hierarchy

import (
	"fmt"
	"sort"

	"gl-setup/internal/store"
	"gl-setup/internal/treedoc"
	"gl-setup/internal/verification"
	"gl-setup/models"
)

var costCentreAttributes = []string{"descr", "active", "type"}

var costCentreReferences = []reference{
	{&models.Transaction{}, "cost_centre_code", "transactions", false},
	{&models.GeneralLedgerMaster{}, "cost_centre_code", "general ledger balances", false},
	{&models.Budget{}, "cost_centre_code", "budgets", false},
	{&models.MotivationDetail{}, "cost_centre_code", "motivation details", false},
	{&models.FeesPayable{}, "cost_centre_code", "fees payable", false},
	{&models.FeesReceivable{}, "cost_centre_code", "fees receivable", false},
	{&models.ApDocumentDetail{}, "cost_centre_code", "AP documents", false},
	{&models.ApSupplier{}, "default_cost_centre", "supplier defaults", true},
	{&models.ValidLedgerNumber{}, "cost_centre_code", "partner ledger links", false},
}

// costCentreAdapter works on the single cost centre tree of a ledger; the
// hierarchy name is not used.
type costCentreAdapter struct{}

func (costCentreAdapter) label() string { return "Cost centre" }

func (costCentreAdapter) invalidates() []string {
	return []string{"CostCentreList"}
}

func (a costCentreAdapter) resolve(el *treedoc.Element, parent *Node, vr *verification.Results) Node {
	r := attrReader{el: el, ctx: a.label() + " " + el.Name, vr: vr}
	r.unknown(costCentreAttributes)

	inherited := models.CostCentreTypeLocal
	if parent != nil {
		inherited = parent.Attrs["type"]
	}
	return Node{
		Code: el.Name,
		Attrs: map[string]string{
			"descr":  r.str("descr"),
			"active": boolString(r.flag("active", true)),
			"type":   r.choice("type", inherited, models.CostCentreTypeLocal, models.CostCentreTypeForeign),
		},
	}
}

func (costCentreAdapter) attributes(n *Node) []treedoc.Attr {
	return emit(n, costCentreAttributes, nil)
}

func (a costCentreAdapter) load(tx *store.Tx, ledger int, _ string) (*snapshot, error) {
	var rows []models.CostCentre
	if err := tx.LoadUsingTemplate(&rows, &models.CostCentre{LedgerNumber: ledger}, "cost_centre_code"); err != nil {
		return nil, err
	}
	snap := &snapshot{nodes: map[string]*Node{}}
	for i := range rows {
		cc := &rows[i]
		n := &Node{
			Code:           cc.CostCentreCode,
			Posting:        cc.PostingCostCentreFlag,
			System:         cc.SystemCostCentreFlag,
			ModificationID: cc.ModificationID,
			Attrs: map[string]string{
				"descr":  cc.CostCentreName,
				"active": boolString(cc.CostCentreActiveFlag),
				"type":   cc.CostCentreType,
			},
		}
		snap.nodes[n.Code] = n
		if cc.CostCentreToReportTo == nil {
			if snap.exists {
				return nil, fmt.Errorf("ledger %d has more than one root cost centre: %s and %s", ledger, snap.root, n.Code)
			}
			snap.root, snap.exists = n.Code, true
			continue
		}
		n.Parent = *cc.CostCentreToReportTo
		snap.edges = append(snap.edges, edge{child: n.Code, parent: n.Parent})
	}
	return snap, nil
}

func (costCentreAdapter) prepare(*store.Tx, int, string, *snapshot, string) error {
	return nil
}

func (costCentreAdapter) save(tx *store.Tx, ledger int, _ string, n *Node, prev *Node) error {
	var parent *string
	if n.Parent != "" {
		p := n.Parent
		parent = &p
	}
	if prev == nil {
		return tx.Insert(&models.CostCentre{
			LedgerNumber:          ledger,
			CostCentreCode:        n.Code,
			CostCentreToReportTo:  parent,
			CostCentreName:        n.Attrs["descr"],
			CostCentreType:        n.Attrs["type"],
			PostingCostCentreFlag: n.Posting,
			CostCentreActiveFlag:  n.Attrs["active"] == "true",
			ModificationID:        store.NewModificationID(),
		})
	}
	_, err := tx.UpdateVersioned(&models.CostCentre{}, map[string]any{
		"ledger_number":    ledger,
		"cost_centre_code": n.Code,
	}, prev.ModificationID, map[string]any{
		"cost_centre_to_report_to": parent,
		"cost_centre_name":         n.Attrs["descr"],
		"cost_centre_type":         n.Attrs["type"],
		"posting_cost_centre_flag": n.Posting,
		"cost_centre_active_flag":  n.Attrs["active"] == "true",
	})
	return err
}

// stale orders deeper cost centres first so that a parent is deleted after
// the children pointing at it.
func (costCentreAdapter) stale(_ *store.Tx, _ int, _ string, snap *snapshot, doc *tree) ([]string, error) {
	depth := func(code string) int {
		d := 0
		for n := snap.nodes[code]; n != nil && n.Parent != "" && d <= len(snap.nodes); n = snap.nodes[n.Parent] {
			d++
		}
		return d
	}
	var out []string
	for code := range snap.nodes {
		if !doc.has(code) {
			out = append(out, code)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := depth(out[i]), depth(out[j])
		if di != dj {
			return di > dj
		}
		return out[i] < out[j]
	})
	return out, nil
}

func (costCentreAdapter) children(tx *store.Tx, ledger int, code string) (int64, error) {
	return tx.Count(&models.CostCentre{}, map[string]any{
		"ledger_number":            ledger,
		"cost_centre_to_report_to": code,
	})
}

func (a costCentreAdapter) guard(tx *store.Tx, ledger int, n *Node, vr *verification.Results) error {
	ctx := a.label() + " " + n.Code
	if n.System {
		vr.Critical(verification.CodeReferentialIntegrity, ctx, "cannot be deleted, it is a system cost centre")
	}
	return guardReferences(tx, ledger, ctx, n.Code, costCentreReferences, vr)
}

func (costCentreAdapter) remove(tx *store.Tx, ledger int, code string) error {
	_, err := tx.Delete(&models.CostCentre{}, map[string]any{"ledger_number": ledger, "cost_centre_code": code})
	return err
}
