package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmcoe-ai1/conference-app/pkg/export"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/stats"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export survey results",
	Long:  `Export survey results as CSV or as a PDF report without going through the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'export' requires a subcommand (survey)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// exportSurveyCmd represents the export survey command
var exportSurveyCmd = &cobra.Command{
	Use:   "survey <id>",
	Short: "Export the responses of a survey",
	Long: `Export the responses of a survey.

CSV exports contain one row per respondent. PDF exports contain the survey
statistics. The file is written to --output, which may be a directory, or to
STDOUT when --output is "-".

Example:
  conferencectl export survey 12 --format csv --output ./exports
  conferencectl export survey 12 --format pdf --output report.pdf`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		var id uint
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil || id == 0 {
			fmt.Fprintf(os.Stderr, "invalid survey id %q\n", args[0])
			os.Exit(1)
		}

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		database, err := connectDB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		stores, _ := newStores(database)

		var buf bytes.Buffer
		filename, err := exportSurvey(context.Background(), stores, id, format, cfg.ExportRowLimit, &buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}

		if output == "-" {
			_, _ = buf.WriteTo(os.Stdout)
			return
		}
		path := output
		if info, err := os.Stat(output); err == nil && info.IsDir() {
			path = filepath.Join(output, filename)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o640); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Export written to %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportSurveyCmd)
	exportSurveyCmd.Flags().StringP("format", "f", "csv", "export format (csv or pdf)")
	exportSurveyCmd.Flags().StringP("output", "o", ".", "output file or directory, - for STDOUT")
}

// exportSurvey renders survey id in format to w and returns the suggested
// file name
func exportSurvey(ctx context.Context, stores server.Stores, id uint, format string, limit int, w io.Writer) (string, error) {
	if format != "csv" && format != "pdf" {
		return "", fmt.Errorf("unknown format %q (csv or pdf)", format)
	}

	survey, err := stores.Surveys.GetSurvey(ctx, id)
	if err != nil {
		return "", fmt.Errorf("survey %d: %w", id, err)
	}
	conference, err := stores.Conferences.GetConference(ctx, survey.ConferenceID)
	if err != nil {
		return "", fmt.Errorf("conference %d: %w", survey.ConferenceID, err)
	}
	answers, err := stores.Responses.ListSurveyResponses(ctx, survey.ID)
	if err != nil {
		return "", err
	}

	if format == "csv" {
		people, err := stores.Attendees.ListAttendees(ctx, conference.ID, nil)
		if err != nil {
			return "", err
		}
		if err := export.SurveyCSV(w, survey, people, answers, limit); err != nil {
			return "", err
		}
		return export.SurveyFilename(conference, survey, "responses.csv"), nil
	}

	byStatus, err := stores.Attendees.CountAttendeesByStatus(ctx, conference.ID)
	if err != nil {
		return "", err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}
	if err := export.SurveyPDF(w, conference, stats.Survey(survey, answers, total), time.Now()); err != nil {
		return "", err
	}
	return export.SurveyFilename(conference, survey, "report.pdf"), nil
}
