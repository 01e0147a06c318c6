package logparser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	// ErrMalformedLine is returned for a line that is neither a request line nor an applog line.
	ErrMalformedLine = errors.New("malformed log line")
	// ErrInvalidCustomColumn is returned by ParseCustomColumn.
	ErrInvalidCustomColumn = errors.New("invalid custom column")
)

// requestLine matches the combined log format prefix App Engine writes:
// %h %l %u %t "%r" %>s %b "%{Referer}i" "%{User-agent}i"
var requestLine = regexp.MustCompile(
	`^([^ ]+) - ([^ ]+) \[([^\]]+)\] (-|"(?:\\.|[^"])*") ([^ ]+) ([^ ]+) (-|"(?:\\.|[^"])*") (-|"(?:\\.|[^"])*")`,
)

var columnName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Row is one request with its applog lines, keyed by column name.
type Row map[string]string

// CustomColumn extracts the first capture group of Pattern from applog lines into column Name.
type CustomColumn struct {
	Name    string
	Pattern *regexp.Regexp
}

// ParseCustomColumn parses a "name:regexp" flag value.
func ParseCustomColumn(s string) (CustomColumn, error) {
	name, expr, ok := strings.Cut(s, ":")
	if !ok || !columnName.MatchString(name) {
		return CustomColumn{}, fmt.Errorf("%w: %q: want name:regexp", ErrInvalidCustomColumn, s)
	}
	if _, reserved := baseColumns[strings.ToLower(name)]; reserved || strings.EqualFold(name, keyColumn) {
		return CustomColumn{}, fmt.Errorf("%w: %q clashes with a built-in column", ErrInvalidCustomColumn, name)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return CustomColumn{}, fmt.Errorf("%w: %q: %v", ErrInvalidCustomColumn, name, err)
	}
	if re.NumSubexp() < 1 {
		return CustomColumn{}, fmt.Errorf("%w: %q: regexp needs a capture group", ErrInvalidCustomColumn, name)
	}
	return CustomColumn{Name: name, Pattern: re}, nil
}

// line is the result of parsing a single input line.
type line struct {
	applog   bool
	text     string
	severity string
	fields   Row
}

func parseLine(s string, custom []CustomColumn) (line, error) {
	if strings.HasPrefix(s, "\t") {
		text := strings.TrimSpace(s)
		l := line{applog: true, text: text, fields: Row{}}
		if len(text) > 2 && text[1] == ':' && text[0] >= '0' && text[0] <= '9' {
			l.severity = text[:1]
		}
		for _, c := range custom {
			if m := c.Pattern.FindStringSubmatch(text); m != nil {
				l.fields[c.Name] = m[1]
			}
		}
		return l, nil
	}

	m := requestLine.FindStringSubmatch(s)
	if m == nil {
		return line{}, ErrMalformedLine
	}
	fields := Row{
		"remotehost":       m[1],
		"user":             m[2],
		"request_time_str": m[3],
		"request_line":     m[4],
		"status":           m[5],
		"bytes":            m[6],
		"referer":          m[7],
		"useragent":        m[8],
	}

	extra := strings.Fields(s[len(m[0]):])
	if len(extra) > 0 {
		fields["host"] = extra[0]
		for _, pair := range extra[1:] {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return line{}, fmt.Errorf("%w: extra field %q", ErrMalformedLine, pair)
			}
			if _, known := extraColumns[key]; known {
				fields[key] = value
			}
		}
		// Lines carrying key=value extras were downloaded with every field, so an absent flag means
		// "not loading". A bare host says nothing either way.
		if _, ok := fields["loading_request"]; !ok && len(extra) > 1 {
			fields["loading_request"] = "0"
		}
	}
	return line{fields: fields}, nil
}

// RowWriter stores parsed rows. Insert reports false when the row was a duplicate.
type RowWriter interface {
	Insert(ctx context.Context, row Row) (bool, error)
}

// Stats counts what ParseLog saw.
type Stats struct {
	Requests int
	Inserted int
	Orphans  int
}

// Duplicates is the number of requests that were not inserted.
func (s Stats) Duplicates() int {
	return s.Requests - s.Inserted
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Requests += o.Requests
	s.Inserted += o.Inserted
	s.Orphans += o.Orphans
}

// Parser groups request lines with the applog lines that follow them.
type Parser struct {
	Custom []CustomColumn
	// KeepRequestLine stores the raw request line in request_log, which is the duplicate key.
	KeepRequestLine bool
}

// ParseLog reads r and writes one row per request to w. Applog lines that appear before the first
// request line have nothing to attach to and are counted as orphans.
func (p Parser) ParseLog(ctx context.Context, r io.Reader, w RowWriter) (Stats, error) {
	var (
		st       Stats
		current  Row
		severity string
		n        int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		inserted, err := w.Insert(ctx, current)
		if err != nil {
			return err
		}
		if inserted {
			st.Inserted++
		}
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		n++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		l, err := parseLine(text, p.Custom)
		if err != nil {
			return st, fmt.Errorf("line %d: %w", n, err)
		}

		if l.applog {
			if current == nil {
				st.Orphans++
				continue
			}
			if l.severity != "" {
				severity = l.severity
			}
			appendLog(current, "applog", l.text)
			if _, ok := baseColumns["applog"+severity]; ok && severity != "" {
				appendLog(current, "applog"+severity, l.text)
			}
			for k, v := range l.fields {
				current[k] = v
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			return st, err
		}
		if err := flush(); err != nil {
			return st, fmt.Errorf("line %d: %w", n, err)
		}
		st.Requests++
		current = l.fields
		severity = ""
		if p.KeepRequestLine {
			current[keyColumn] = text
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read log: %w", err)
	}
	if err := flush(); err != nil {
		return st, err
	}
	return st, nil
}

func appendLog(row Row, column, text string) {
	if prev, ok := row[column]; ok {
		row[column] = prev + "\n" + text
		return
	}
	row[column] = text
}
