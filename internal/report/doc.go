// Package report renders the summary of a pipeline run.
//
// Three formats are supported: a plain text summary for the terminal, a
// Markdown document for archiving next to the corpus, and JSON for other
// tools. All writers take a finished model.RunSummary.
package report
