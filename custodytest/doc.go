/*
Package custodytest provides helpers for testing custody contracts.

Authenticator mocks allow tests to declare signers without building signed
transactions. The conformance suites check that an implementation of the
custody interfaces honors the behavior every caller relies on.
*/
package custodytest
