// Package bytestring provides owned and borrowed byte-string values and
// source spans shared by the lexer, parser, and symbol index. PHP source
// is byte-oriented, not necessarily UTF-8, so these types deliberately
// avoid any assumption of valid UTF-8 encoding.
package bytestring

import "strings"

// ByteString is an owned, growable sequence of bytes.
type ByteString []byte

// New copies s into a new owned ByteString.
func New(s string) ByteString {
	return ByteString(s)
}

// String returns the byte string rendered as a Go string. The result may
// contain invalid UTF-8 if the source did.
func (b ByteString) String() string {
	return string(b)
}

// Equal reports whether b and other hold identical bytes.
func (b ByteString) Equal(other ByteString) bool {
	return string(b) == string(other)
}

// EqualString reports whether b holds the same bytes as s.
func (b ByteString) EqualString(s string) bool {
	return string(b) == s
}

// HasPrefix reports whether b starts with prefix.
func (b ByteString) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(b), prefix)
}

// HasSuffix reports whether b ends with suffix.
func (b ByteString) HasSuffix(suffix string) bool {
	return strings.HasSuffix(string(b), suffix)
}

// TrimPrefix removes prefix from b if present.
func (b ByteString) TrimPrefix(prefix string) ByteString {
	return ByteString(strings.TrimPrefix(string(b), prefix))
}

// TrimSuffix removes suffix from b if present.
func (b ByteString) TrimSuffix(suffix string) ByteString {
	return ByteString(strings.TrimSuffix(string(b), suffix))
}

// SplitOnByte splits b at every occurrence of sep, sep excluded.
func (b ByteString) SplitOnByte(sep byte) []ByteString {
	parts := strings.Split(string(b), string(sep))
	out := make([]ByteString, len(parts))
	for i, p := range parts {
		out[i] = ByteString(p)
	}
	return out
}

// Borrowed is a zero-copy view into a ByteString or raw source buffer.
// It is used inside tokens and name-resolution results so that the
// lexer and parser never copy identifier or literal text unnecessarily.
type Borrowed struct {
	source []byte
	start  int
	end    int
}

// Borrow returns a Borrowed view over source[start:end]. Callers must
// ensure source outlives the returned value.
func Borrow(source []byte, start, end int) Borrowed {
	return Borrowed{source: source, start: start, end: end}
}

// Bytes returns the viewed byte range.
func (v Borrowed) Bytes() []byte {
	return v.source[v.start:v.end]
}

// String renders the viewed range as a string (this copies).
func (v Borrowed) String() string {
	return string(v.Bytes())
}

// Len returns the number of bytes in the view.
func (v Borrowed) Len() int {
	return v.end - v.start
}
