/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration entity under the
"_c:<package>" key. The configuration is created either from the
genesis file or once, by an initialization message, and later updated
with patch messages signed by the configuration admin.
*/
package gconf
