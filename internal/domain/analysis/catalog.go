package analysis

// ActionID identifies an entry of the fixed action catalog.
type ActionID string

const (
	ActionFinancialSummary    ActionID = "financial-summary"
	ActionRevenueAnalysis     ActionID = "revenue-analysis"
	ActionExpenseBreakdown    ActionID = "expense-breakdown"
	ActionProfitMargin        ActionID = "profit-margin"
	ActionComparativeAnalysis ActionID = "comparative-analysis"
	ActionEfficientFrontier   ActionID = "efficient-frontier"
)

// Action is one catalog entry.
type Action struct {
	ID          ActionID `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var catalog = []Action{
	{ID: ActionFinancialSummary, Name: "Financial Summary", Description: "Generate a comprehensive financial summary from documents"},
	{ID: ActionRevenueAnalysis, Name: "Revenue Analysis", Description: "Analyze revenue trends and patterns"},
	{ID: ActionExpenseBreakdown, Name: "Expense Breakdown", Description: "Break down expenses by category"},
	{ID: ActionProfitMargin, Name: "Profit Margin Analysis", Description: "Calculate and analyze profit margins"},
	{ID: ActionComparativeAnalysis, Name: "Comparative Analysis", Description: "Compare financial metrics across periods"},
	{ID: ActionEfficientFrontier, Name: "Efficient Frontier", Description: "Compute minimum-variance portfolio weights from a fund returns spreadsheet"},
}

// Catalog returns the actions in display order.
func Catalog() []Action {
	out := make([]Action, len(catalog))
	copy(out, catalog)
	return out
}

// LookupAction finds a catalog entry by id.
func LookupAction(id ActionID) (Action, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// catalogIndex orders action ids by catalog position; unknown ids sort last.
func catalogIndex(id ActionID) int {
	for i, a := range catalog {
		if a.ID == id {
			return i
		}
	}
	return len(catalog)
}
