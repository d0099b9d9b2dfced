package format

import (
	"strings"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
)

// rewriteStringLit breaks a long string literal at spaces into lines
// joined by `\` continuations. Continuation lines are aligned one column
// right of the opening quote; the escaped newline swallows that
// indentation, so the value of the literal is unchanged.
func rewriteStringLit(ctx *RewriteContext, text string, sh shape.Shape) (string, bool) {
	if fitsShape(ctx, text, sh) {
		return text, true
	}
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return wrapStr(ctx, text, sh)
	}
	body := text[1 : len(text)-1]
	if strings.ContainsAny(body, "\n\r") {
		return wrapStr(ctx, text, sh)
	}
	words := splitAfterSpaces(body)
	if len(words) < 2 {
		return wrapStr(ctx, text, sh)
	}

	cfg := ctx.Config
	cont := sh.VisualIndent(1).Indent
	firstLimit := sh.Width - len(`"\`)
	restLimit := cfg.MaxWidth - cont.Width() - len(`\`)
	lastLimit := restLimit - sh.RHSOverhead(cfg)

	var lines []string
	var cur strings.Builder
	limit := firstLimit
	for i, w := range words {
		isLast := i == len(words)-1
		curLimit := limit
		if isLast {
			curLimit = min(limit, lastLimit)
		}
		if cur.Len() > 0 && shape.TextWidth(cur.String()+w) > curLimit {
			lines = append(lines, cur.String())
			cur.Reset()
			limit = restLimit
		}
		cur.WriteString(w)
	}
	lines = append(lines, cur.String())
	if len(lines) == 1 {
		return wrapStr(ctx, text, sh)
	}
	return `"` + strings.Join(lines, `\`+cont.StringWithNewline(cfg)) + `"`, true
}

// splitAfterSpaces cuts s after each run of spaces, keeping the spaces at
// the end of the piece they follow.
func splitAfterSpaces(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			continue
		}
		j := i
		for j < len(s) && s[j] == ' ' {
			j++
		}
		// Never cut right after a backslash escape.
		if j < len(s) && !escapedAt(s, i) {
			out = append(out, s[start:j])
			start = j
		}
		i = j - 1
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// escapedAt reports whether s[i] is preceded by an odd number of
// backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for k := i - 1; k >= 0 && s[k] == '\\'; k-- {
		n++
	}
	return n%2 == 1
}

// hexLiteralCase changes the case of the digits of a hexadecimal integer
// literal. The `0x` prefix and any type suffix keep their case.
func hexLiteralCase(text string, mode config.HexLiteralCase) string {
	if mode == config.HexPreserve || !strings.HasPrefix(text, "0x") {
		return text
	}
	digits := text[2:]
	suffix := ""
	if i := strings.IndexAny(digits, "iu"); i >= 0 {
		digits, suffix = digits[:i], digits[i:]
	}
	switch mode {
	case config.HexUpper:
		digits = strings.ToUpper(digits)
	case config.HexLower:
		digits = strings.ToLower(digits)
	case config.HexPreserve:
	}
	return "0x" + digits + suffix
}
