// Package ingest parses bulk contact text into validated contact rows with
// per-row error reporting.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// ErrEmptyInput is the only hard failure: the raw text contains nothing at
// all. Malformed rows are reported per row and never abort a batch.
var ErrEmptyInput = errors.New("bulk input is empty")

// ErrUnsupportedChannel indicates a channel outside sms/email.
var ErrUnsupportedChannel = errors.New("unsupported channel")

// RowError reports one rejected row. Row is the 1-based line number in the
// original input, counting blank lines.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, %s: %s", e.Row, e.Field, e.Reason)
	}

	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Result summarizes a bulk ingestion pass.
type Result struct {
	Inserted int        `json:"inserted"`
	Errors   []RowError `json:"errors"`
}

// Row is a successfully parsed contact together with its original 1-based
// line number, kept so later stages can report row-scoped errors.
type Row struct {
	Line    int
	Contact *models.Contact
}

// Pipeline parses bulk text for one delivery channel.
type Pipeline struct {
	channel models.Channel
}

// NewPipeline creates a pipeline validating contact values for the channel.
func NewPipeline(channel models.Channel) (*Pipeline, error) {
	if !channel.IsValid() {
		return nil, fmt.Errorf("%q: %w", channel, ErrUnsupportedChannel)
	}

	return &Pipeline{channel: channel}, nil
}

// Parse splits raw text into contacts and per-row errors. The first line is
// skipped when it looks like a header. A wholly empty input returns
// ErrEmptyInput; anything else is a partial success.
func (p *Pipeline) Parse(raw string) ([]Row, []RowError, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil, ErrEmptyInput
	}

	type numberedLine struct {
		row  int // 1-based original line number
		text string
	}

	lines := make([]numberedLine, 0)

	for i, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, numberedLine{row: i + 1, text: line})
	}

	if len(lines) > 0 && looksLikeHeader(lines[0].text) {
		lines = lines[1:]
	}

	rows := make([]Row, 0, len(lines))
	rowErrors := make([]RowError, 0)

	for _, line := range lines {
		contact, rowErr := p.parseRow(line.row, line.text)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)

			continue
		}

		rows = append(rows, Row{Line: line.row, Contact: contact})
	}

	return rows, rowErrors, nil
}

func (p *Pipeline) parseRow(row int, text string) (*models.Contact, *RowError) {
	fields := strings.Split(text, ",")
	for i, field := range fields {
		fields[i] = unquote(strings.TrimSpace(field))
	}

	if len(fields) < 2 {
		return nil, &RowError{Row: row, Reason: "insufficient columns"}
	}

	name := fields[0]
	value := fields[1]

	if name == "" {
		return nil, &RowError{Row: row, Field: "name", Reason: "name is required"}
	}

	if value == "" {
		return nil, &RowError{Row: row, Field: p.valueField(), Reason: p.valueField() + " is required"}
	}

	if rowErr := p.validateValue(row, value); rowErr != nil {
		return nil, rowErr
	}

	contact := &models.Contact{
		ID:      uuid.New().String(),
		Name:    name,
		Channel: p.channel,
	}

	if p.channel == models.ChannelEmail {
		contact.Email = value
	} else {
		contact.Phone = value
	}

	return contact, nil
}

// validateValue checks the contact value against the channel's format. A
// value matching the other channel's format gets a cross-channel hint instead
// of a generic rejection.
func (p *Pipeline) validateValue(row int, value string) *RowError {
	switch p.channel {
	case models.ChannelEmail:
		if models.IsValidEmail(value) {
			return nil
		}

		if models.IsValidPhone(value) {
			return &RowError{Row: row, Field: "email", Reason: "found phone number, expected an email address"}
		}

		return &RowError{Row: row, Field: "email", Reason: "invalid email address"}
	case models.ChannelSMS:
		if models.IsValidPhone(value) {
			return nil
		}

		if models.IsValidEmail(value) {
			return &RowError{Row: row, Field: "phone", Reason: "found email, expected a phone number"}
		}

		return &RowError{Row: row, Field: "phone", Reason: "invalid phone number"}
	}

	return &RowError{Row: row, Reason: "unsupported channel"}
}

func (p *Pipeline) valueField() string {
	if p.channel == models.ChannelEmail {
		return "email"
	}

	return "phone"
}

// Merge appends parsed rows to the destination list. A destination holding
// exactly one fully-empty placeholder entry is replaced instead of appended to.
func Merge(dst []*models.Contact, rows []Row) []*models.Contact {
	if len(dst) == 1 && dst[0].IsEmpty() {
		dst = dst[:0]
	}

	for _, row := range rows {
		dst = append(dst, row.Contact)
	}

	return dst
}

// looksLikeHeader reports whether the first line names columns instead of
// holding data.
func looksLikeHeader(line string) bool {
	lower := strings.ToLower(line)

	return strings.Contains(lower, "name") ||
		strings.Contains(lower, "email") ||
		strings.Contains(lower, "phone")
}

// unquote strips one layer of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}

	return s
}
