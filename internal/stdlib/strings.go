package stdlib

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
)

// registerStringFns wires string.* per §4.6, grounded on the teacher's
// internal/interp/builtins/strings*.go category, with Lua pattern
// matching mapped best-effort to Go's regexp package (§4.6, §9 open
// question: Lua-pattern fidelity is intentionally incomplete).
func registerStringFns(r *Registry) {
	strArg := func(name string, args []value.Value, i int) (string, error) {
		v := argN(args, i)
		s, ok := v.(value.Str)
		if !ok {
			return "", wrongType(name, "string", v)
		}
		return string(s), nil
	}

	r.Register(NSString, "upper", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("upper", args, 0)
		if err != nil {
			return nil, err
		}
		return value.Str(strings.ToUpper(s)), nil
	})

	r.Register(NSString, "lower", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("lower", args, 0)
		if err != nil {
			return nil, err
		}
		return value.Str(strings.ToLower(s)), nil
	})

	r.Register(NSString, "len", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("len", args, 0)
		if err != nil {
			return nil, err
		}
		return value.Num(len(s)), nil
	})

	r.Register(NSString, "rep", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("rep", args, 0)
		if err != nil {
			return nil, err
		}
		n, err := numArg("rep", args, 1)
		if err != nil {
			return nil, err
		}
		sep := ""
		if len(args) > 2 {
			sep, err = strArg("rep", args, 2)
			if err != nil {
				return nil, err
			}
		}
		if n <= 0 {
			return value.Str(""), nil
		}
		parts := make([]string, int(n))
		for i := range parts {
			parts[i] = s
		}
		return value.Str(strings.Join(parts, sep)), nil
	})

	r.Register(NSString, "reverse", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("reverse", args, 0)
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return value.Str(string(runes)), nil
	})

	r.Register(NSString, "char", func(_ Context, args []value.Value) (value.Value, error) {
		var sb strings.Builder
		for _, a := range args {
			n, err := value.ToNumber(a)
			if err != nil {
				return nil, err
			}
			sb.WriteByte(byte(n))
		}
		return value.Str(sb.String()), nil
	})

	r.Register(NSString, "byte", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("byte", args, 0)
		if err != nil {
			return nil, err
		}
		idx := 1
		if len(args) > 1 {
			n, err := numArg("byte", args, 1)
			if err != nil {
				return nil, err
			}
			idx = int(n)
		}
		idx = normalizeIndex(idx, len(s))
		if idx < 1 || idx > len(s) {
			return value.Nil, nil
		}
		return value.Num(s[idx-1]), nil
	})

	r.Register(NSString, "sub", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("sub", args, 0)
		if err != nil {
			return nil, err
		}
		i := 1
		if len(args) > 1 {
			n, err := numArg("sub", args, 1)
			if err != nil {
				return nil, err
			}
			i = int(n)
		}
		j := -1
		if len(args) > 2 {
			n, err := numArg("sub", args, 2)
			if err != nil {
				return nil, err
			}
			j = int(n)
		}
		return value.Str(luaSub(s, i, j)), nil
	})

	r.Register(NSString, "find", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("find", args, 0)
		if err != nil {
			return nil, err
		}
		pat, err := strArg("find", args, 1)
		if err != nil {
			return nil, err
		}
		init := 1
		if len(args) > 2 {
			n, err := numArg("find", args, 2)
			if err != nil {
				return nil, err
			}
			init = int(n)
		}
		init = normalizeIndex(init, len(s))
		if init < 1 {
			init = 1
		}
		if init > len(s)+1 {
			return value.Nil, nil
		}
		plain := len(args) > 3 && value.IsTruthy(args[3])
		if plain {
			idx := strings.Index(s[init-1:], pat)
			if idx < 0 {
				return value.Nil, nil
			}
			return value.Num(init + idx), nil
		}
		re, err := luaPatternToRegexp(pat)
		if err != nil {
			return value.Nil, nil
		}
		loc := re.FindStringIndex(s[init-1:])
		if loc == nil {
			return value.Nil, nil
		}
		return value.Num(init + loc[0]), nil
	})

	r.Register(NSString, "match", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("match", args, 0)
		if err != nil {
			return nil, err
		}
		pat, err := strArg("match", args, 1)
		if err != nil {
			return nil, err
		}
		re, err := luaPatternToRegexp(pat)
		if err != nil {
			return value.Nil, nil
		}
		m := re.FindStringSubmatch(s)
		if m == nil {
			return value.Nil, nil
		}
		if len(m) > 1 {
			return value.Str(m[1]), nil
		}
		return value.Str(m[0]), nil
	})

	r.Register(NSString, "gsub", func(_ Context, args []value.Value) (value.Value, error) {
		s, err := strArg("gsub", args, 0)
		if err != nil {
			return nil, err
		}
		pat, err := strArg("gsub", args, 1)
		if err != nil {
			return nil, err
		}
		repl, err := strArg("gsub", args, 2)
		if err != nil {
			return nil, err
		}
		re, err := luaPatternToRegexp(pat)
		if err != nil {
			return value.Str(s), nil
		}
		limit := -1
		if len(args) > 3 {
			n, err := numArg("gsub", args, 3)
			if err != nil {
				return nil, err
			}
			limit = int(n)
		}
		count := 0
		out := re.ReplaceAllStringFunc(s, func(m string) string {
			if limit >= 0 && count >= limit {
				return m
			}
			count++
			return expandCaptures(re, m, repl)
		})
		return value.Str(out), nil
	})

	r.Register(NSString, "format", func(_ Context, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, argErr("format", 1, 0)
		}
		f, err := strArg("format", args, 0)
		if err != nil {
			return nil, err
		}
		out, err := luaFormat(f, args[1:])
		if err != nil {
			return nil, err
		}
		return value.Str(out), nil
	})
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		i = length + i + 1
	}
	return i
}

// luaSub implements string.sub's 1-based, negative-from-end, inclusive
// indexing (§4.6).
func luaSub(s string, i, j int) string {
	n := len(s)
	i = normalizeIndex(i, n)
	j = normalizeIndex(j, n)
	if i < 1 {
		i = 1
	}
	if j > n {
		j = n
	}
	if i > j {
		return ""
	}
	return s[i-1 : j]
}

// luaPatternToRegexp translates a Lua pattern to a Go regexp on a
// best-effort basis: literal characters pass through, `.` `*` `+` `-` `?`
// `^` `$` keep their Lua meaning (mostly compatible with regex), and the
// common character classes (%a %d %s %w %l %u %p and their upper-case
// complements) map to equivalent bracket expressions. Parenthesised
// captures pass through as regexp groups; balanced matches (%b) and
// frontier patterns (%f) are not supported (§9 open question).
func luaPatternToRegexp(pat string) (*regexp.Regexp, error) {
	var sb strings.Builder
	classes := map[byte]string{
		'a': `[A-Za-z]`, 'A': `[^A-Za-z]`,
		'd': `[0-9]`, 'D': `[^0-9]`,
		's': `[ \t\n\r\f\v]`, 'S': `[^ \t\n\r\f\v]`,
		'w': `[A-Za-z0-9]`, 'W': `[^A-Za-z0-9]`,
		'l': `[a-z]`, 'L': `[^a-z]`,
		'u': `[A-Z]`, 'U': `[^A-Z]`,
		'p': `[[:punct:]]`, 'P': `[^[:punct:]]`,
	}
	for i := 0; i < len(pat); i++ {
		c := pat[i]
		switch c {
		case '%':
			if i+1 < len(pat) {
				next := pat[i+1]
				if cls, ok := classes[next]; ok {
					sb.WriteString(cls)
				} else {
					sb.WriteString(regexp.QuoteMeta(string(next)))
				}
				i++
				continue
			}
		case '-':
			// Lua's `-` is a lazy `*`; Go regexp supports `*?`.
			sb.WriteString("*?")
		default:
			sb.WriteByte(c)
		}
	}
	return regexp.Compile(sb.String())
}

// expandCaptures substitutes Lua-style %1, %2, ... capture references in
// repl with the corresponding submatch of m against re. %% is a literal
// percent, and an unrecognized %n index is left as-is (best-effort,
// §9 open question on capture fidelity).
func expandCaptures(re *regexp.Regexp, m, repl string) string {
	groups := re.FindStringSubmatch(m)
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '%' && i+1 < len(repl) {
			next := repl[i+1]
			if next == '%' {
				sb.WriteByte('%')
				i++
				continue
			}
			if next >= '0' && next <= '9' {
				idx := int(next - '0')
				if idx < len(groups) {
					sb.WriteString(groups[idx])
				}
				i++
				continue
			}
		}
		sb.WriteByte(repl[i])
	}
	return sb.String()
}

// luaFormat implements a best-effort subset of string.format (§4.6):
// %d %i %u %o %x %X %e %E %f %g %G %c %s %q %% with optional width and
// precision, delegated to Go's fmt verbs which share the same letters
// for every case but %i/%u/%q (Lua-specific aliases/semantics) and %c,
// which writes the byte directly.
func luaFormat(f string, args []value.Value) (string, error) {
	var sb strings.Builder
	argi := 0
	next := func() (value.Value, error) {
		if argi >= len(args) {
			return nil, interperr.New(interperr.ArgumentType, "format: not enough arguments")
		}
		v := args[argi]
		argi++
		return v, nil
	}

	for i := 0; i < len(f); i++ {
		c := f[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		start := i
		i++
		for i < len(f) && strings.ContainsRune("-+ #0123456789.", rune(f[i])) {
			i++
		}
		if i >= len(f) {
			sb.WriteString(f[start:])
			break
		}
		verb := f[i]
		spec := f[start : i+1]
		switch verb {
		case '%':
			sb.WriteByte('%')
		case 'd', 'i', 'u':
			v, err := next()
			if err != nil {
				return "", err
			}
			n, err := value.ToNumber(v)
			if err != nil {
				return "", err
			}
			sb.WriteString(fmt.Sprintf(strings.Replace(spec, string(verb), "d", 1), int64(n)))
		case 'o', 'x', 'X':
			v, err := next()
			if err != nil {
				return "", err
			}
			n, err := value.ToNumber(v)
			if err != nil {
				return "", err
			}
			sb.WriteString(fmt.Sprintf(spec, int64(n)))
		case 'e', 'E', 'f', 'g', 'G':
			v, err := next()
			if err != nil {
				return "", err
			}
			n, err := value.ToNumber(v)
			if err != nil {
				return "", err
			}
			sb.WriteString(fmt.Sprintf(spec, float64(n)))
		case 'c':
			v, err := next()
			if err != nil {
				return "", err
			}
			n, err := value.ToNumber(v)
			if err != nil {
				return "", err
			}
			sb.WriteByte(byte(n))
		case 's':
			v, err := next()
			if err != nil {
				return "", err
			}
			sb.WriteString(fmt.Sprintf(spec, value.ToString(v)))
		case 'q':
			v, err := next()
			if err != nil {
				return "", err
			}
			sb.WriteString(strconv.Quote(value.ToString(v)))
		default:
			sb.WriteString(spec)
		}
	}
	return sb.String(), nil
}
