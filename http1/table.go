// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

// tokenTable marks the tchar class of RFC 9110: ASCII letters, digits and
// "!#$%&'*+-.^_`|~".
var tokenTable = [256]bool{
	'!': true, '#': true, '$': true, '%': true, '&': true, '\'': true,
	'*': true, '+': true, '-': true, '.': true, '^': true, '_': true,
	'`': true, '|': true, '~': true,
}

func init() {
	for c := '0'; c <= '9'; c++ {
		tokenTable[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		tokenTable[c] = true
		tokenTable[c-'a'+'A'] = true
	}
}

func isToken(c byte) bool {
	return tokenTable[c]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isValueCtl reports control bytes that may not appear in a header value.
// Horizontal tab is allowed.
func isValueCtl(c byte) bool {
	return (c < 0x20 && c != '\t') || c == 0x7f
}
