// Package sarif defines the subset of SARIF 2.1.0 that actcheck emits.
// https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html
package sarif

const (
	schemaURI = "https://json.schemastore.org/sarif-2.1.0.json"
	version   = "2.1.0"

	LevelWarning = "warning"
	LevelError   = "error"
	LevelNote    = "note"
)

type Log struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// New returns a log with a single run of the given tool.
func New(driver Driver) *Log {
	return &Log{
		Schema:  schemaURI,
		Version: version,
		Runs: []Run{
			{
				Tool:    Tool{Driver: driver},
				Results: []Result{},
			},
		},
	}
}

// AddResult appends a result to the first run.
func (l *Log) AddResult(result Result) {
	l.Runs[0].Results = append(l.Runs[0].Results, result)
}

type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name           string `json:"name"`
	InformationURI string `json:"informationUri,omitempty"`
	Version        string `json:"version,omitempty"`
	Rules          []Rule `json:"rules,omitempty"`
}

type Rule struct {
	ID                   string               `json:"id"`
	ShortDescription     Message              `json:"shortDescription"`
	DefaultConfiguration *ReportingDescriptor `json:"defaultConfiguration,omitempty"`
}

// ReportingDescriptor holds the default level of a rule.
type ReportingDescriptor struct {
	Level string `json:"level"`
}

type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// NewResult returns a result located at a line of a file.
// Lines less than 1 are reported as line 1.
func NewResult(ruleID, level, text, uri string, line int) Result {
	if line < 1 {
		line = 1
	}
	return Result{
		RuleID:  ruleID,
		Level:   level,
		Message: Message{Text: text},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{URI: uri},
					Region:           Region{StartLine: line},
				},
			},
		},
	}
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Region struct {
	StartLine int `json:"startLine"`
}
