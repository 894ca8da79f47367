// Package csvfile reads and writes observation files.
//
// Reading is forgiving: quoting mistakes and ragged rows never fail a load,
// they only shorten the result. Writing produces the same layout the reader
// expects, with CRLF line endings and measurements rounded to two decimals,
// so an exported file loads back into the same records.
package csvfile
