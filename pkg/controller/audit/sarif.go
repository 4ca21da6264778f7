package audit

import (
	"encoding/json"
	"fmt"

	"github.com/suzuki-shunsuke/actcheck/pkg/sarif"
)

const (
	ruleOutdatedAction  = "outdated-action"
	ruleResolutionError = "resolution-error"
)

// SARIF prints outdated and degraded rows as SARIF results.
// Up to date rows aren't results.
func (p *Printer) SARIF(report *AuditReport, workflowFilePath string) error {
	log := sarif.New(sarif.Driver{
		Name:           "actcheck",
		InformationURI: "https://github.com/suzuki-shunsuke/actcheck",
		Rules: []sarif.Rule{
			{
				ID: ruleOutdatedAction,
				ShortDescription: sarif.Message{
					Text: "GitHub Action isn't the latest release",
				},
				DefaultConfiguration: &sarif.ReportingDescriptor{Level: sarif.LevelWarning},
			},
			{
				ID: ruleResolutionError,
				ShortDescription: sarif.Message{
					Text: "Failed to check if GitHub Action is the latest release",
				},
				DefaultConfiguration: &sarif.ReportingDescriptor{Level: sarif.LevelError},
			},
		},
	})
	for _, row := range report.Rows {
		switch {
		case row.Err != nil:
			log.AddResult(sarif.NewResult(
				ruleResolutionError, sarif.LevelError,
				fmt.Sprintf("%s couldn't be checked: %s", row.Reference.Key(), row.Reason()),
				workflowFilePath, row.Reference.Line))
		case !row.IsCurrent:
			log.AddResult(sarif.NewResult(
				ruleOutdatedAction, sarif.LevelWarning,
				fmt.Sprintf("%s has a new version: %s", row.Reference.Key(), row.LatestTag),
				workflowFilePath, row.Reference.Line))
		}
	}

	encoder := json.NewEncoder(p.stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(log); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}
