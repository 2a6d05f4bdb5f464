/*

Package gconf implements a configuration store intended to be used as a
per-package, in-database configuration.

Each package keeps a single configuration record. It is loaded from the
genesis file during initialization and read by the package at runtime. A
missing configuration means the package was never initialized.

*/
package gconf
