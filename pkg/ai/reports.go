package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/preneur/storefront-api/pkg/mongo"
)

// SalesInsights is the AI-augmented version of the report summary. When the
// AI service is disabled the raw numbers are still returned.
type SalesInsights struct {
	Summary     *mongo.ReportSummary `json:"summary"`
	AIInsights  string               `json:"aiInsights,omitempty"`
	AIEnabled   bool                 `json:"aiEnabled"`
	GeneratedAt time.Time            `json:"generatedAt"`
}

// GenerateSalesInsights fetches the sales summary and, when the AI service
// is available, asks it for a narrative analysis of the numbers.
func GenerateSalesInsights(ctx context.Context) (*SalesInsights, error) {
	summary, err := mongo.GetReportSummary(ctx)
	if err != nil {
		return nil, err
	}

	insights := &SalesInsights{
		Summary:     summary,
		AIEnabled:   IsEnabled(),
		GeneratedAt: time.Now(),
	}
	if !IsEnabled() {
		return insights, nil
	}

	narrative, err := generateCompletion(ctx, salesReportSystemPrompt, formatSalesPrompt(summary))
	if err != nil {
		// Numbers still have value without the narrative.
		return insights, nil
	}
	insights.AIInsights = narrative
	return insights, nil
}

func formatSalesPrompt(summary *mongo.ReportSummary) string {
	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return fmt.Sprintf(`Analyze the following sales summary and provide business insights:

%s

Please provide:
1. Key performance highlights
2. Areas of concern or opportunity
3. Specific recommendations for business growth`, string(jsonData))
}
