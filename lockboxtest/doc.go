/*
Package lockboxtest provides helpers for testing extensions: mock
authenticators, transactions, clocks and deterministic identities.
*/
package lockboxtest
