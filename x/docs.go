/*
Package x contains the extensions of the custody engine.

Extensions implement common functionality (Handler, Decorator,
Authenticator) and are combined together by the app package to
construct the engine.
*/
package x
