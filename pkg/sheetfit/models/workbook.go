package models

// RepairResult is the structured outcome of a repair run.
type RepairResult struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`
	// Success is false when the run failed.
	Success bool `json:"success"`
	// HasIssues reports whether any sheet was classified as bloated.
	HasIssues bool `json:"has_issues"`
	// IssuesCount is the number of flagged sheets.
	IssuesCount int `json:"issues_count"`
	// Fixed reports whether a repaired workbook was persisted.
	Fixed bool `json:"fixed"`
	// FilePath is the resolved path of the final file: the repaired output,
	// or the working file when nothing was written.
	FilePath string `json:"file_path,omitempty"`
	// SourcePath is the input path as given.
	SourcePath string `json:"source_path"`
	// ConvertedPath is the modern-container copy of a legacy input.
	ConvertedPath string `json:"converted_path,omitempty"`
	// BackupPath is the backup taken before mutation.
	BackupPath string `json:"backup_path,omitempty"`
	// BackupChecksum is the SHA-256 of the backup, hex encoded.
	BackupChecksum string `json:"backup_checksum,omitempty"`
	// Sheets holds one report per sheet in workbook order.
	Sheets []SheetReport `json:"sheets,omitempty"`
	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty"`
}
