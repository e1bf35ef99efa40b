package apex

import "strings"

// rewriteRelaxedTables runs S10: when enabled, contiguous non-blank lines
// containing at least one unescaped '|' and yielding a consistent column
// count are promoted to a GFM table by inserting a synthetic all-"---"
// separator after the first row, so the first row becomes the table's
// header row and renders inside <thead>. A block that already
// has a separator row (i.e. is already a GFM table) is left untouched, so
// running this pass twice produces the same output as running it once.
func rewriteRelaxedTables(source []byte, opt Options) []byte {
	if !opt.RelaxedTables {
		return source
	}

	lines := splitKeepTerminator(source)
	var out strings.Builder

	i := 0
	for i < len(lines) {
		if !isPipeLine(lines[i]) {
			out.WriteString(lines[i])
			i++
			continue
		}

		j := i
		for j < len(lines) && isPipeLine(lines[j]) {
			j++
		}
		block := lines[i:j]

		if len(block) >= 2 && isSeparatorRow(block[1]) {
			// Already a GFM table (has a separator row); idempotent no-op.
			for _, l := range block {
				out.WriteString(l)
			}
			i = j
			continue
		}

		cols := columnCount(block[0])
		consistent := len(block) >= 2
		for _, l := range block {
			if columnCount(l) != cols {
				consistent = false
				break
			}
		}

		if !consistent {
			for _, l := range block {
				out.WriteString(l)
			}
			i = j
			continue
		}

		out.WriteString(block[0])
		out.WriteString(synthSeparator(cols))
		for _, l := range block[1:] {
			out.WriteString(l)
		}
		i = j
	}

	return []byte(out.String())
}

func isPipeLine(line string) bool {
	trimmed := strings.TrimSpace(strings.TrimRight(line, "\n"))
	if trimmed == "" {
		return false
	}
	return strings.ContainsRune(unescapePipes(trimmed), '|')
}

// unescapePipes is used only to test for the presence of an *unescaped*
// pipe; it does not need to preserve the escaped text.
func unescapePipes(s string) string {
	return strings.ReplaceAll(s, `\|`, "")
}

func isSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(strings.TrimRight(line, "\n"))
	trimmed = strings.Trim(trimmed, "|")
	cells := strings.Split(trimmed, "|")
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		c = strings.TrimSpace(c)
		c = strings.Trim(c, ":")
		if c == "" || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

func columnCount(line string) int {
	trimmed := strings.TrimSpace(strings.TrimRight(line, "\n"))
	trimmed = strings.Trim(trimmed, "|")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(unescapePipes(trimmed), "|"))
}

func synthSeparator(cols int) string {
	cells := make([]string, cols)
	for i := range cells {
		cells[i] = "---"
	}
	return "|" + strings.Join(cells, "|") + "|\n"
}
