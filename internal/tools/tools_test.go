package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "wealth-advisor/internal/common/errors"
	"wealth-advisor/internal/common/logger"
	"wealth-advisor/internal/store/profiles"
)

// ==========================
// Test Helper Fakes
// ==========================

type fakeRunner struct {
	result string
	err    error
	gotSQL string
}

func (f *fakeRunner) RunQuery(ctx context.Context, sqlQuery string) (string, error) {
	f.gotSQL = sqlQuery
	return f.result, f.err
}

type fakeFinder struct {
	profile    *profiles.Profile
	profileErr error
	refs       []profiles.ClientRef
	refsErr    error
	gotName    string
	gotLevel   string
}

func (f *fakeFinder) FindOneByName(ctx context.Context, clientName string) (*profiles.Profile, error) {
	f.gotName = clientName
	return f.profile, f.profileErr
}

func (f *fakeFinder) FindByRiskAppetite(ctx context.Context, riskLevel string) ([]profiles.ClientRef, error) {
	f.gotLevel = riskLevel
	return f.refs, f.refsErr
}

// ==========================
// Registry
// ==========================

func TestRegistry_LookupAndOrder(t *testing.T) {
	log := logger.NewNoOpLogger()
	registry := NewRegistry(
		NewFinancialDataTool(&fakeRunner{}, nil, log),
		NewClientProfileTool(&fakeFinder{}, nil, log),
		NewRiskAppetiteTool(&fakeFinder{}, nil, log),
	)

	assert.Equal(t, []string{
		"query_financial_data",
		"get_client_profile_by_name",
		"find_clients_by_risk_appetite",
	}, registry.Names())

	tool, ok := registry.Lookup("get_client_profile_by_name")
	require.True(t, ok)
	assert.Equal(t, "get_client_profile_by_name", tool.Name())

	_, ok = registry.Lookup("does_not_exist")
	assert.False(t, ok)
}

// ==========================
// query_financial_data
// ==========================

func TestFinancialDataTool_Success(t *testing.T) {
	runner := &fakeRunner{result: `[{"name":"Virat Kohli"}]`}
	tool := NewFinancialDataTool(runner, nil, logger.NewTestLogger(t))

	obs, err := tool.Call(context.Background(), "SELECT name FROM clients")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Virat Kohli"}]`, obs)
	assert.Equal(t, "SELECT name FROM clients", runner.gotSQL)
}

func TestFinancialDataTool_AbsorbsQueryErrors(t *testing.T) {
	runner := &fakeRunner{
		err: stderrors.NewQueryExecutionFailedError(errors.New(`syntax error at or near "SELEC"`)),
	}
	tool := NewFinancialDataTool(runner, nil, logger.NewTestLogger(t))

	obs, err := tool.Call(context.Background(), "SELEC * FROM clients")
	require.NoError(t, err, "tool failures must become observation text")
	assert.Contains(t, obs, "An error occurred while executing the SQL query:")
	assert.Contains(t, obs, "SELEC")
}

// ==========================
// get_client_profile_by_name
// ==========================

func TestClientProfileTool_Success(t *testing.T) {
	finder := &fakeFinder{profile: &profiles.Profile{
		ClientID:              "C102",
		Name:                  "Virat Kohli",
		Address:               "Gurugram, Haryana",
		RiskAppetite:          "Medium",
		InvestmentPreferences: []string{"Apparel", "Fintech", "Health"},
	}}
	tool := NewClientProfileTool(finder, nil, logger.NewTestLogger(t))

	obs, err := tool.Call(context.Background(), "Virat Kohli")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(obs), &decoded))
	assert.Equal(t, "C102", decoded["clientId"])
	assert.Equal(t, "Medium", decoded["riskAppetite"])
	assert.NotContains(t, decoded, "_id")
}

func TestClientProfileTool_EmptyInput(t *testing.T) {
	finder := &fakeFinder{}
	tool := NewClientProfileTool(finder, nil, logger.NewTestLogger(t))

	obs, err := tool.Call(context.Background(), "   ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "A client_name string must be provided."}`, obs)
	assert.Empty(t, finder.gotName, "empty input must not reach the store")
}

func TestClientProfileTool_NotFound(t *testing.T) {
	finder := &fakeFinder{profileErr: stderrors.NewProfileNotFoundError("Unknown Person")}
	tool := NewClientProfileTool(finder, nil, logger.NewTestLogger(t))

	obs, err := tool.Call(context.Background(), "Unknown Person")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Client profile for 'Unknown Person' not found."}`, obs)
}

func TestClientProfileTool_StoreFailure(t *testing.T) {
	finder := &fakeFinder{
		profileErr: stderrors.NewDatabaseConnectionFailedError(errors.New("connection refused")),
	}
	tool := NewClientProfileTool(finder, nil, logger.NewTestLogger(t))

	obs, err := tool.Call(context.Background(), "Virat Kohli")
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(obs), &decoded))
	assert.Contains(t, decoded["error"], "connection refused")
}

// ==========================
// find_clients_by_risk_appetite
// ==========================

func TestRiskAppetiteTool_TitleCasesInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"High", "High"},
		{"high", "High"},
		{"HIGH", "High"},
		{"mEdIuM", "Medium"},
		{" low ", "Low"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			finder := &fakeFinder{refs: []profiles.ClientRef{}}
			tool := NewRiskAppetiteTool(finder, nil, logger.NewTestLogger(t))

			obs, err := tool.Call(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, "[]", obs)
			assert.Equal(t, tt.want, finder.gotLevel)
		})
	}
}

func TestRiskAppetiteTool_RejectsUnknownLevel(t *testing.T) {
	finder := &fakeFinder{}
	tool := NewRiskAppetiteTool(finder, nil, logger.NewTestLogger(t))

	obs, err := tool.Call(context.Background(), "bogus")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "risk_level must be one of 'High', 'Medium', or 'Low'."}`, obs)
	assert.Empty(t, finder.gotLevel, "invalid levels must not reach the store")
}

func TestRiskAppetiteTool_ReturnsClientRefs(t *testing.T) {
	finder := &fakeFinder{refs: []profiles.ClientRef{
		{ClientID: "C101", Name: "Shah Rukh Khan"},
		{ClientID: "C103", Name: "Priyanka Chopra"},
	}}
	tool := NewRiskAppetiteTool(finder, nil, logger.NewTestLogger(t))

	obs, err := tool.Call(context.Background(), "High")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"clientId": "C101", "name": "Shah Rukh Khan"},
		{"clientId": "C103", "name": "Priyanka Chopra"}
	]`, obs)
}
