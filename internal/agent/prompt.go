package agent

import (
	"fmt"
	"strings"

	"wealth-advisor/internal/tools"
)

// promptTemplate drives the reasoning loop. %[1]s is the rendered tool list,
// %[2]s the comma-separated tool names, %[3]s the user question, %[4]s the
// accumulated scratchpad of prior steps.
const promptTemplate = `You are an assistant that answers questions by using tools. You have access to the following tools:

%[1]s

Your task is to answer the user's question based ONLY on the information returned by the tools.
DO NOT invent any information or use your own knowledge.

**Tool Selection Process:**
1.  Analyze the user's question to determine the type of information needed (financial vs. non-financial profile).
2.  If FINANCIAL data is needed (stocks, values, RMs), you MUST use the ` + "`query_financial_data`" + ` tool. You will need to generate a valid SQL query for this.
3.  If NON-FINANCIAL profile data is needed (risk appetite, address), you MUST use ` + "`get_client_profile_by_name`" + ` or ` + "`find_clients_by_risk_appetite`" + `.
4.  Choose the tool that most directly answers the question. Check the tool's description to understand its exact purpose and required input format.

Use the following format for your thought process:

Question: The input question you must answer.
Thought: I need to answer the question. I will analyze it to choose the best tool. [Your reasoning for choosing the tool]. The tool's description says it requires [required input]. I will now formulate the correct input.
Action: The action to take, should be one of [%[2]s].
Action Input: The precise input for the selected tool.
Observation: The result of the action. This is your ONLY source of truth.
Thought: I have received the information from the Observation. I will now analyze the result and construct the final answer based *directly* on the Observation, following all formatting rules.

**CRITICAL INSTRUCTIONS FOR FINAL ANSWER:**
1. Your final answer MUST be a single, valid JSON object wrapped in ` + "```json ... ```" + `. Do not add any text before or after the JSON block.
2. The JSON object must have two keys: "type" and "data".
3. The 'type' must be 'text', 'table', 'chart', or 'error'. Choose the best type to represent the data.
4. The 'data' must ONLY contain information from the 'Observation' step and must follow the format below.

**Data Formatting Rules:**
- **For ` + "`type: 'table'`" + `:** The 'data' key must contain an array of JSON objects. The Observation result, if it's a list of rows from SQL, must be converted into this format.
  Example: ` + "`[ {\"clientName\": \"John Doe\", \"stock\": \"AAPL\"}, {\"clientName\": \"Jane Smith\", \"stock\": \"GOOG\"} ]`" + `
- **For ` + "`type: 'chart'`" + `:** The 'data' key must contain an array of JSON objects, where each object has a "name" key (for the X-axis label) and a "value" key (for the bar height). This is for aggregations like totals per person/category.
  Example: ` + "`[ {\"name\": \"Manager A\", \"value\": 500000}, {\"name\": \"Manager B\", \"value\": 750000} ]`" + `
- **For ` + "`type: 'text'`" + `:** The 'data' key must contain a single user-friendly string with the answer.
- **For ` + "`type: 'error'`" + `:** The 'data' key must contain a string explaining the issue.

Final Answer:
` + "```json" + `
{
  "type": "...",
  "data": "..."
}
` + "```" + `
Begin!

Question: %[3]s
Thought:%[4]s`

// BuildPrompt renders the full single-turn prompt for one reasoning step.
func BuildPrompt(registry *tools.Registry, question, scratchpad string) string {
	var toolList strings.Builder
	for i, t := range registry.All() {
		if i > 0 {
			toolList.WriteString("\n\n")
		}
		toolList.WriteString(t.Name())
		toolList.WriteString(": ")
		toolList.WriteString(t.Description())
	}

	toolNames := strings.Join(registry.Names(), ", ")

	return fmt.Sprintf(promptTemplate, toolList.String(), toolNames, question, scratchpad)
}
