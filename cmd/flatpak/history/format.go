// Copyright 2026 The Flatpak Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// absoluteFormats are tried in order against the whole input before
// falling back to the relative grammar. The time-only forms anchor to
// today's date; the date-only form means local midnight.
var absoluteFormats = []string{
	"15:04",
	"15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// parseTime interprets a --since/--until value. Absolute forms are
// tried first; failing those, the input is read as a relative offset:
// whitespace-separated tokens of <integer><unit> with unit one of
// d/day/days, h/hour/hours, m/minute/minutes, s/second/seconds,
// summed and subtracted from now. The integer may carry a sign, so a
// negative offset lands in the future. If a unit repeats, the last
// occurrence wins.
func parseTime(input string, now time.Time) (time.Time, error) {
	for _, format := range absoluteFormats {
		parsed, err := time.ParseInLocation(format, input, now.Location())
		if err != nil {
			continue
		}
		if !strings.Contains(format, "2006") {
			// Time-of-day only: anchor to today.
			return time.Date(now.Year(), now.Month(), now.Day(),
				parsed.Hour(), parsed.Minute(), parsed.Second(), 0, now.Location()), nil
		}
		return parsed, nil
	}

	var days, hours, minutes, seconds int64
	matched := false
	var pending int64
	hasPending := false
	for _, token := range strings.Fields(input) {
		// An optional sign precedes the integer; "-2d" means two
		// days from now into the future.
		body := token
		sign := int64(1)
		switch {
		case strings.HasPrefix(body, "-"):
			sign = -1
			body = body[1:]
		case strings.HasPrefix(body, "+"):
			body = body[1:]
		}

		digits := 0
		for digits < len(body) && body[digits] >= '0' && body[digits] <= '9' {
			digits++
		}

		var n int64
		switch {
		case digits == len(body) && digits > 0:
			// Bare number: the unit follows as its own token
			// ("2 days").
			if hasPending {
				return time.Time{}, fmt.Errorf("cannot parse time %q", input)
			}
			var err error
			pending, err = strconv.ParseInt(body, 10, 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("cannot parse time %q: %w", input, err)
			}
			pending *= sign
			hasPending = true
			continue
		case digits > 0:
			if hasPending {
				return time.Time{}, fmt.Errorf("cannot parse time %q", input)
			}
			var err error
			n, err = strconv.ParseInt(body[:digits], 10, 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("cannot parse time %q: %w", input, err)
			}
			n *= sign
		case hasPending && body == token:
			n = pending
			hasPending = false
		default:
			return time.Time{}, fmt.Errorf("cannot parse time %q", input)
		}

		switch body[digits:] {
		case "d", "day", "days":
			days = n
		case "h", "hour", "hours":
			hours = n
		case "m", "minute", "minutes":
			minutes = n
		case "s", "second", "seconds":
			seconds = n
		default:
			return time.Time{}, fmt.Errorf("cannot parse time %q", input)
		}
		matched = true
	}
	if !matched || hasPending {
		return time.Time{}, fmt.Errorf("cannot parse time %q", input)
	}

	offset := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
	return now.Add(-offset), nil
}

// formatTimestamp renders a decimal microsecond epoch value as local
// wall-clock time of day. A malformed value passes through raw so
// the row is still attributable.
func formatTimestamp(micros string) string {
	n, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return micros
	}
	return time.UnixMicro(n).Local().Format("15:04:05")
}

// parseTimestamp converts the same field for range filtering.
func parseTimestamp(micros string) (time.Time, bool) {
	n, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMicro(n), true
}

// truncateCommit shortens a commit id to the display prefix.
func truncateCommit(commit string) string {
	const displayLen = 12
	if len(commit) > displayLen {
		return commit[:displayLen]
	}
	return commit
}

// userName resolves a numeric uid to an account name, falling back
// to the raw string when the account is unknown.
func userName(uid string) string {
	account, err := user.LookupId(uid)
	if err != nil {
		return uid
	}
	return account.Username
}

// renderTable writes the report. On a terminal the table gets light
// box drawing; piped output stays plain aligned columns so the report
// remains grep-friendly.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)

	if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		style := table.StyleLight
		style.Format.Header = text.FormatDefault
		tw.SetStyle(style)
	} else {
		style := table.StyleDefault
		style.Format.Header = text.FormatDefault
		style.Options.DrawBorder = false
		style.Options.SeparateColumns = false
		style.Options.SeparateHeader = false
		style.Box.PaddingRight = "  "
		tw.SetStyle(style)
	}

	header := make(table.Row, len(headers))
	for i, title := range headers {
		header[i] = title
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		cells := make(table.Row, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		tw.AppendRow(cells)
	}

	tw.Render()
}
