package ingest

// Alternate spellings seen in exported backtest documents, in lookup order.
var (
	statsKeys  = []string{"stats", "statistics", "summary", "backtest", "bot"}
	cyclesKeys = []string{"cycles", "deals", "trades", "positions"}

	idKeys     = []string{"id", "_id", "uuid", "backtestId", "backtest_id", "botId", "bot_id"}
	nameKeys   = []string{"name", "botName", "bot_name", "title"}
	symbolKeys = []string{"symbol", "pair", "instrument", "market"}

	netPnLKeys      = []string{"netProfit", "net_profit", "netPnl", "net_pnl", "pnl", "profit"}
	profitCountKeys = []string{"profitDeals", "profit_deals", "profitCount", "profit_count", "wins"}
	lossCountKeys   = []string{"lossDeals", "loss_deals", "lossCount", "loss_count", "losses"}
	totalDealsKeys  = []string{"totalDeals", "total_deals", "dealsCount", "deals_count", "tradesCount"}
	avgDurationKeys = []string{"avgDuration", "avg_duration", "averageDuration", "average_duration", "avgDealDuration"}

	spanStartKeys = []string{"from", "start", "startDate", "start_date", "startedAt", "spanStart", "dateFrom", "date_from"}
	spanEndKeys   = []string{"to", "end", "endDate", "end_date", "finishedAt", "spanEnd", "dateTo", "date_to"}

	cycleIDKeys  = []string{"id", "_id", "cycleId", "cycle_id", "dealId", "deal_id"}
	statusKeys   = []string{"status", "state"}
	closeKeys    = []string{"closedAt", "closed_at", "closeTime", "close_time", "closeTimestamp", "exitTime", "exit_time"}
	durationKeys = []string{"duration", "durationSec", "duration_sec", "durationSeconds"}
	netKeys      = []string{"net", "netProfit", "net_profit", "realizedPnl", "realized_pnl", "pnl", "profit"}
	maeKeys      = []string{"mae", "maxAdverse", "max_adverse", "maxAdverseExcursion", "max_adverse_excursion"}
	mfeKeys      = []string{"mfe", "maxFavorable", "max_favorable", "maxFavorableExcursion", "max_favorable_excursion"}
	ordersKeys   = []string{"orders", "executions", "fills", "childOrders", "child_orders"}
	execKeys     = []string{"executedAt", "executed_at", "executionTime", "filledAt", "filled_at", "time", "timestamp", "createdAt"}
)

// finishedAliases are statuses treated as a closed position.
var finishedAliases = map[string]bool{
	"finished":  true,
	"completed": true,
	"closed":    true,
	"done":      true,
}
