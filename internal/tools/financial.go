package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wealth-advisor/internal/common/logger"
	"wealth-advisor/internal/common/observability"
)

// SQLRunner executes a raw SQL statement and renders the result set as text.
type SQLRunner interface {
	RunQuery(ctx context.Context, sqlQuery string) (string, error)
}

// FinancialDataTool runs model-generated SQL against the financial tables.
// The SQL is executed as-is; the dataset is a read-mostly demo store and the
// service is not exposed to untrusted callers, but this is an injection
// surface if that ever changes.
type FinancialDataTool struct {
	runner SQLRunner
	obs    *observability.Observability
	logger logger.Logger
}

func NewFinancialDataTool(runner SQLRunner, obs *observability.Observability, log logger.Logger) *FinancialDataTool {
	return &FinancialDataTool{runner: runner, obs: obs, logger: log}
}

func (t *FinancialDataTool) Name() string {
	return "query_financial_data"
}

func (t *FinancialDataTool) Description() string {
	return strings.TrimSpace(`
Use this tool ONLY for questions about financial data, such as stock holdings, portfolio values, transactions, and relationship managers.
The input MUST be a valid SQL query for a PostgreSQL database.
You have access to the following tables: 'relationship_managers', 'clients', 'holdings'.
Example: To find the highest holders of RELIANCE stock, your Action Input would be:
"SELECT T2.name, T1.quantity, T1.currentValue FROM holdings AS T1 JOIN clients AS T2 ON T1.clientId = T2.clientId WHERE T1.stockSymbol = 'RELIANCE' ORDER BY T1.currentValue DESC"`)
}

func (t *FinancialDataTool) Call(ctx context.Context, input string) (string, error) {
	start := time.Now()
	result, err := t.runner.RunQuery(ctx, input)
	if t.obs != nil {
		t.obs.RecordToolDuration(ctx, t.Name(), time.Since(start))
	}
	if err != nil {
		t.logger.WithError(err).Warn("sql query failed", map[string]interface{}{
			"tool": t.Name(),
		})
		// Failures become observation text so the model can correct its SQL.
		return fmt.Sprintf("An error occurred while executing the SQL query: %s", errorDetail(err)), nil
	}
	return result, nil
}
