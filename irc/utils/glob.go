// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package utils

import (
	"bytes"
	"regexp"
	"regexp/syntax"
)

// yet another glob implementation in Go

func addRegexp(buf *bytes.Buffer, glob string, submatches bool) (err error) {
	for _, r := range glob {
		switch r {
		case '*':
			if submatches {
				buf.WriteString("(.*)")
			} else {
				buf.WriteString(".*")
			}
		case '?':
			if submatches {
				buf.WriteString("(.)")
			} else {
				buf.WriteString(".")
			}
		case 0xFFFD:
			return &syntax.Error{Code: syntax.ErrInvalidUTF8, Expr: glob}
		default:
			buf.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return
}

// CompileGlob compiles a glob expression supporting `*` and `?` into
// a case-insensitive regexp anchored at both ends.
func CompileGlob(glob string, submatches bool) (result *regexp.Regexp, err error) {
	var buf bytes.Buffer
	buf.WriteString("(?i)^")
	err = addRegexp(&buf, glob, submatches)
	if err != nil {
		return
	}
	buf.WriteByte('$')
	return regexp.Compile(buf.String())
}

// CompileMasks compiles a list of globs into a single case-insensitive
// regexp that matches any one of them.
func CompileMasks(masks []string) (result *regexp.Regexp, err error) {
	var buf bytes.Buffer
	buf.WriteString("(?i)^(")
	for i, mask := range masks {
		err = addRegexp(&buf, mask, false)
		if err != nil {
			return
		}
		if i != len(masks)-1 {
			buf.WriteByte('|')
		}
	}
	buf.WriteString(")$")
	return regexp.Compile(buf.String())
}

// GlobMatch reports whether `candidate` matches the glob expression `glob`;
// a glob that fails to compile matches nothing.
func GlobMatch(glob, candidate string) bool {
	re, err := CompileGlob(glob, false)
	if err != nil {
		return false
	}
	return re.MatchString(candidate)
}
