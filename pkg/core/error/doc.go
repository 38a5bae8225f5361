/*
Package error provides the structured error type shared by the sky model
parser, the catalogue readers and writers, and the command line tools.

Every failure carries a Code so callers can branch on the kind of failure
without string matching:

	src, err := p.ParseSource(lines)
	if skyerr.HasCode(err, skyerr.CodeMissingSED) {
		// component had neither a sed block nor a measurement
	}

Wrap keeps the code and details of the error it wraps, so a line number
attached deep in the parser survives every layer above it.
*/
package error
