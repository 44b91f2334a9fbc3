package analysis

import (
	domain "github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
)

// Canned payloads stand in for real computation. Each generator is deterministic.
var generators = map[domain.ActionID]func() domain.Payload{
	domain.ActionFinancialSummary: func() domain.Payload {
		return domain.Payload{
			{Name: "totalRevenue", Value: domain.Scalar("$1,250,000")},
			{Name: "totalExpenses", Value: domain.Scalar("$850,000")},
			{Name: "netProfit", Value: domain.Scalar("$400,000")},
			{Name: "profitMargin", Value: domain.Scalar("32%")},
			{Name: "summary", Value: domain.Scalar("The financial analysis shows strong performance with a healthy profit margin. Revenue has been steady, and expenses are well-controlled.")},
		}
	},
	domain.ActionRevenueAnalysis: func() domain.Payload {
		return domain.Payload{
			{Name: "currentPeriod", Value: domain.Scalar("$1,250,000")},
			{Name: "previousPeriod", Value: domain.Scalar("$1,100,000")},
			{Name: "growth", Value: domain.Scalar("+13.6%")},
			{Name: "trend", Value: domain.Scalar("increasing")},
			{Name: "breakdown", Value: domain.RecordList{
				record("category", "Product Sales", "amount", "$800,000", "percentage", "64%"),
				record("category", "Services", "amount", "$350,000", "percentage", "28%"),
				record("category", "Other", "amount", "$100,000", "percentage", "8%"),
			}},
		}
	},
	domain.ActionExpenseBreakdown: func() domain.Payload {
		return domain.Payload{
			{Name: "total", Value: domain.Scalar("$850,000")},
			{Name: "categories", Value: domain.RecordList{
				record("name", "Operating Expenses", "amount", "$400,000", "percentage", "47%"),
				record("name", "Personnel", "amount", "$300,000", "percentage", "35%"),
				record("name", "Marketing", "amount", "$100,000", "percentage", "12%"),
				record("name", "Other", "amount", "$50,000", "percentage", "6%"),
			}},
		}
	},
	domain.ActionProfitMargin: func() domain.Payload {
		return domain.Payload{
			{Name: "grossMargin", Value: domain.Scalar("45%")},
			{Name: "operatingMargin", Value: domain.Scalar("35%")},
			{Name: "netMargin", Value: domain.Scalar("32%")},
			{Name: "analysis", Value: domain.Scalar("Profit margins are healthy and above industry average. Operating efficiency is strong.")},
		}
	},
	domain.ActionComparativeAnalysis: func() domain.Payload {
		return domain.Payload{
			{Name: "metrics", Value: domain.RecordList{
				record("name", "Revenue", "current", "$1,250,000", "previous", "$1,100,000", "change", "+13.6%"),
				record("name", "Expenses", "current", "$850,000", "previous", "$780,000", "change", "+9.0%"),
				record("name", "Profit", "current", "$400,000", "previous", "$320,000", "change", "+25.0%"),
			}},
		}
	},
}

// record builds a Record from alternating key, value arguments.
func record(kv ...string) domain.Record {
	r := make(domain.Record, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r = append(r, domain.Entry{Key: kv[i], Value: kv[i+1]})
	}
	return r
}
