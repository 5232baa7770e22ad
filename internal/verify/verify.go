// Package verify checks a generated lead file against the format the
// generator promises and counts rows the importer would accept.
package verify

import (
	"bufio"
	"fmt"
	"io"
	"net/mail"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/xuri/excelize/v2"

	"github.com/zarlcorp/zleads/internal/lead"
)

const (
	// maxKept bounds how many violations a report retains.
	maxKept = 100

	// importer limits
	maxNameLen = 255
	maxTagsLen = 255
	maxTagsCSV = 5
	region     = "BR"
)

var (
	cpfRe   = regexp.MustCompile(`^\d{11}$`)
	phoneRe = regexp.MustCompile(`^55\d{2}9\d{8}$`)
)

// Options tunes a check.
type Options struct {
	// ExpectRows, when positive, is the data row count the file must have.
	ExpectRows int64
	// Domain is the email domain rows must use. Empty means email.com.
	Domain string
	// MaxTags caps tags per row. Nil means lead.DefaultMaxTags.
	MaxTags *int
}

// Violation is one broken format property.
type Violation struct {
	Line    int    `json:"line"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Column == "" {
		return fmt.Sprintf("line %d: %s", v.Line, v.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", v.Line, v.Column, v.Message)
}

// Report is the outcome of a check.
type Report struct {
	Rows           int64       `json:"rows"`
	ViolationCount int64       `json:"violation_count"`
	Violations     []Violation `json:"violations,omitempty"`

	// import readiness counts
	ValidCPF    int64 `json:"valid_cpf"`
	ValidPhone  int64 `json:"valid_phone"`
	ValidEmail  int64 `json:"valid_email"`
	ImportReady int64 `json:"import_ready"`
}

// OK reports whether the file had no format violations.
func (r Report) OK() bool {
	return r.ViolationCount == 0
}

// Check reads a CSV lead file from r. Format violations are collected in
// the report; the error is only for read failures.
func Check(r io.Reader, opts Options) (Report, error) {
	c := newChecker(opts)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)

	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			c.header(sc.Text())
			continue
		}
		c.row(line, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return c.report, fmt.Errorf("check: line %d: %w", line+1, err)
	}

	c.finish(line, opts)
	return c.report, nil
}

// CheckXLSX reads the first sheet of a workbook written by zleads and
// checks it the same way as Check, one sheet row per line.
func CheckXLSX(r io.Reader, opts Options) (Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("check xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.Rows(f.GetSheetName(0))
	if err != nil {
		return Report{}, fmt.Errorf("check xlsx: %w", err)
	}
	defer rows.Close()

	c := newChecker(opts)
	line := 0
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return c.report, fmt.Errorf("check xlsx: row %d: %w", line+1, err)
		}
		line++

		// trailing empty cells are trimmed by the reader
		for len(cols) < len(lead.Header) {
			cols = append(cols, "")
		}
		text := strings.Join(cols, ",")
		if line == 1 {
			c.header(text)
			continue
		}
		c.row(line, text)
	}
	if err := rows.Error(); err != nil {
		return c.report, fmt.Errorf("check xlsx: %w", err)
	}

	c.finish(line, opts)
	return c.report, nil
}

type checker struct {
	emailRe *regexp.Regexp
	maxTags int
	report  Report
}

func newChecker(opts Options) *checker {
	domain := opts.Domain
	if domain == "" {
		domain = "email.com"
	}
	maxTags := lead.DefaultMaxTags
	if opts.MaxTags != nil {
		maxTags = *opts.MaxTags
	}

	return &checker{
		emailRe: regexp.MustCompile(`^[\p{Ll}.]+\d{0,3}@` + regexp.QuoteMeta(domain) + `$`),
		maxTags: maxTags,
	}
}

func (c *checker) finish(lines int, opts Options) {
	if lines == 0 {
		c.violate(0, "", "file is empty")
	}
	if opts.ExpectRows > 0 && c.report.Rows != opts.ExpectRows {
		c.violate(lines, "", fmt.Sprintf("got %d rows, want %d", c.report.Rows, opts.ExpectRows))
	}
}

func (c *checker) header(s string) {
	if s != lead.HeaderLine {
		c.violate(1, "", fmt.Sprintf("header is %q, want %q", s, lead.HeaderLine))
	}
}

func (c *checker) row(line int, s string) {
	c.report.Rows++

	// tags are last and joined with ", ", so four splits isolate them
	parts := strings.SplitN(s, ",", len(lead.Header))
	if len(parts) != len(lead.Header) {
		c.violate(line, "", fmt.Sprintf("got %d fields, want %d", len(parts), len(lead.Header)))
		return
	}
	l := lead.Lead{Name: parts[0], Phone: parts[1], CPF: parts[2], Email: parts[3], Tags: parts[4]}

	formatOK := c.checkFormat(line, l)

	cpfOK := lead.ValidCPF(l.CPF)
	phoneOK := validPhone(l.Phone)
	emailOK := validEmail(l.Email)
	if cpfOK {
		c.report.ValidCPF++
	}
	if phoneOK {
		c.report.ValidPhone++
	}
	if emailOK {
		c.report.ValidEmail++
	}
	if formatOK && cpfOK && phoneOK && emailOK && importableText(l) {
		c.report.ImportReady++
	}
}

func (c *checker) checkFormat(line int, l lead.Lead) bool {
	ok := true
	fail := func(col, msg string) {
		c.violate(line, col, msg)
		ok = false
	}

	if strings.TrimSpace(l.Name) == "" {
		fail("name", "empty")
	}
	if !phoneRe.MatchString(l.Phone) {
		fail("phone", fmt.Sprintf("%q does not match %s", l.Phone, phoneRe))
	}
	if !cpfRe.MatchString(l.CPF) {
		fail("cpf", fmt.Sprintf("%q does not match %s", l.CPF, cpfRe))
	}
	if !c.emailRe.MatchString(l.Email) {
		fail("email", fmt.Sprintf("%q does not match %s", l.Email, c.emailRe))
	}

	tags := l.TagList()
	if len(tags) > c.maxTags {
		fail("tags", fmt.Sprintf("%d tags, max %d", len(tags), c.maxTags))
	}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t == "" {
			fail("tags", "empty tag")
			continue
		}
		if seen[t] {
			fail("tags", fmt.Sprintf("duplicate tag %q", t))
		}
		seen[t] = true
	}

	return ok
}

func (c *checker) violate(line int, col, msg string) {
	c.report.ViolationCount++
	if len(c.report.Violations) < maxKept {
		c.report.Violations = append(c.report.Violations, Violation{Line: line, Column: col, Message: msg})
	}
}

// validPhone reports whether libphonenumber accepts the number for BR.
func validPhone(s string) bool {
	num, err := phonenumbers.Parse("+"+s, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(num, region)
}

func validEmail(s string) bool {
	if len(s) > 255 {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// importableText applies the importer's length limits.
func importableText(l lead.Lead) bool {
	if len(l.Name) > maxNameLen || len(l.Tags) > maxTagsLen {
		return false
	}
	return len(l.TagList()) <= maxTagsCSV
}
