package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// RootLabel names the root node of the spending hierarchy.
const RootLabel = "Todos os Gastos"

// Node is one level of the payment method → category hierarchy.
// A node's Total equals the sum of its children's totals.
type Node struct {
	Label    string          `json:"label"`
	Total    decimal.Decimal `json:"total"`
	Children []*Node         `json:"children,omitempty"`
}

// ByPaymentMethod builds the hierarchy root → payment method → category.
// Children at every level are sorted by total descending, ties by label.
func ByPaymentMethod(records []domain.Record) *Node {
	root := &Node{Label: RootLabel, Total: decimal.Zero}
	methods := map[string]*Node{}
	leaves := map[[2]string]*Node{}

	for _, r := range records {
		m, ok := methods[r.PaymentMethod]
		if !ok {
			m = &Node{Label: r.PaymentMethod, Total: decimal.Zero}
			methods[r.PaymentMethod] = m
			root.Children = append(root.Children, m)
		}
		k := [2]string{r.PaymentMethod, r.Category}
		c, ok := leaves[k]
		if !ok {
			c = &Node{Label: r.Category, Total: decimal.Zero}
			leaves[k] = c
			m.Children = append(m.Children, c)
		}

		c.Total = c.Total.Add(r.Amount)
		m.Total = m.Total.Add(r.Amount)
		root.Total = root.Total.Add(r.Amount)
	}

	sortNodes(root.Children)
	for _, m := range root.Children {
		sortNodes(m.Children)
	}
	return root
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if c := nodes[i].Total.Cmp(nodes[j].Total); c != 0 {
			return c > 0
		}
		return nodes[i].Label < nodes[j].Label
	})
}
