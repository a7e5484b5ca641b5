package domain

// RunStatus tracks each stage of a single clipboard processing run.
type RunStatus string

const (
	RunStatusIdle       RunStatus = "idle"
	RunStatusReading    RunStatus = "reading"
	RunStatusDecoding   RunStatus = "decoding"
	RunStatusDone       RunStatus = "done"
	RunStatusFailed     RunStatus = "failed"
	RunStatusSuperseded RunStatus = "superseded"
)

// Settings contains user-selectable runtime configuration.
type Settings struct {
	QRSize    int    `json:"qrSize"`
	Locale    string `json:"locale"`
	LogLevel  string `json:"logLevel"`
	OpenLinks bool   `json:"openLinks"`
}

// Run stores the current run identity and lifecycle status.
type Run struct {
	ID     string    `json:"id"`
	Status RunStatus `json:"status"`
}

// LocaleOption describes one selectable message catalog.
type LocaleOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}
