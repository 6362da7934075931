/*
Package errors implements the error kinds used across prograde.

Every failure that leaves a package should wrap one of the root errors
declared here. Root errors carry a numeric code; for the fatal kinds that code
is also the process exit code chosen by the command line front end, so leaf
code never has to terminate the process itself.

Create errors at the point of failure with ErrXyz.New("...") or
Wrap(err, "...") so a stack trace is attached once, at the innermost frame.
Use %+v to print it.

Kind checks go through the root error:

	if errors.ErrDepoAgeLimit.Is(err) {
		...
	}

ExitCode returns the code of the root error found in the chain, or 1 when the
chain does not contain a registered error.
*/
package errors
