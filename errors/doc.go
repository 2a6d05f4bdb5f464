/*
Package errors implements the error taxonomy shared by all custody contracts.

Every error returned by a custody operation wraps one of the root errors declared
in this package. Root errors carry a stable numeric code. Codes 100 and above are
part of the cross-contract interface: their values and meanings never change and
new codes are only ever appended. Codes below 100 are reserved for framework
failures (storage, encoding, coding errors) that are not part of the interface.

If you need a custom root error use Register(code, description). To create an
error instance, use ErrXyz.New("...") or Wrap(ErrXyz, "...") at the point of
creation so that a stacktrace is attached. Only the first wrap records the
stacktrace.

Once you have an error, use fmt verbs to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created

To test an error kind, use the Is method of the root error:

	if errors.ErrPaused.Is(err) {
		...
	}

To recover the numeric code of any error, use Code(err).
*/
package errors
