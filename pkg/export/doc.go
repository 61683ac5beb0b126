// Package export renders survey responses and attendee lists as CSV and
// survey statistics as a PDF report.
package export
